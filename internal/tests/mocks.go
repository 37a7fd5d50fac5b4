package tests

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"freight/internal/domain"
	"freight/internal/redis"
	"freight/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. Versioned
// updates are serialized under the mutex so concurrency tests exercise the
// same exactly-one-winner behavior as the SQL implementation.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
	seq   int64

	// Counters for verification
	CreateCallCount  int32
	UpdateCallCount  int32
	GetByIDCallCount int32

	// Error injection
	CreateError error
	UpdateError error

	// BeforeUpdate, when set, runs at the start of UpdateVersioned. Lets
	// tests stall a commit to observe what happens mid-write.
	BeforeUpdate func(tripID string)
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip seeds a trip. A zero Version is bumped to 1.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip.Version == 0 {
		trip.Version = 1
	}
	copy := *trip
	m.trips[trip.ID] = &copy
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip.Version = 1
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTripRepository) UpdateVersioned(ctx context.Context, trip *domain.Trip, fromVersion int64) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if m.BeforeUpdate != nil {
		m.BeforeUpdate(trip.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[trip.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != fromVersion {
		return repository.ErrVersionConflict
	}
	trip.Version = fromVersion + 1
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.DriverID == driverID && t.Status.IsActive() {
			copy := *t
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockTripRepository) NextSequenceNo(ctx context.Context) (string, error) {
	n := atomic.AddInt64(&m.seq, 1)
	return fmt.Sprintf("FT-%06d", n), nil
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	CreateCallCount int32

	CreateError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.Phone == phone {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetActive(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if !d.Active {
			continue
		}
		copy := *d
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MockDriverRepository) SetTrackingEnabled(ctx context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.TrackingEnabled = enabled
	return nil
}

// ──────────────────────────────────────────────
// MOCK GEO SAMPLE REPOSITORY
// ──────────────────────────────────────────────

// MockGeoSampleRepository is an in-memory append-only sample store.
type MockGeoSampleRepository struct {
	mu      sync.RWMutex
	samples []*domain.GeoSample

	CreateCallCount int32

	CreateError error
}

// NewMockGeoSampleRepository creates a new mock geo sample repository.
func NewMockGeoSampleRepository() *MockGeoSampleRepository {
	return &MockGeoSampleRepository{}
}

func (m *MockGeoSampleRepository) Create(ctx context.Context, sample *domain.GeoSample) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *sample
	m.samples = append(m.samples, &copy)
	return nil
}

func (m *MockGeoSampleRepository) Latest(ctx context.Context, tripID string) (*domain.GeoSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.GeoSample
	for _, s := range m.samples {
		if s.TripID != tripID {
			continue
		}
		if latest == nil || s.ServerReceivedAt.After(latest.ServerReceivedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (m *MockGeoSampleRepository) History(ctx context.Context, tripID string, limit, offset int) ([]*domain.GeoSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.GeoSample
	for _, s := range m.samples {
		if s.TripID == tripID {
			copy := *s
			matched = append(matched, &copy)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ServerReceivedAt.After(matched[j].ServerReceivedAt)
	})
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// CountSamples returns the number of stored samples for a trip.
func (m *MockGeoSampleRepository) CountSamples(tripID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.samples {
		if s.TripID == tripID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK INVOICE REPOSITORY
// ──────────────────────────────────────────────

// MockInvoiceRepository enforces the one-invoice-per-trip rule the way the
// SQL unique index does.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	byTripID map[string]*domain.Invoice

	CreateCallCount int32

	CreateError error
}

// NewMockInvoiceRepository creates a new mock invoice repository.
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		byTripID: make(map[string]*domain.Invoice),
	}
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byTripID[invoice.TripID]; ok {
		return repository.ErrDuplicate
	}
	copy := *invoice
	m.byTripID[invoice.TripID] = &copy
	return nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.byTripID {
		if inv.ID == id {
			copy := *inv
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockInvoiceRepository) GetByTripID(ctx context.Context, tripID string) (*domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.byTripID[tripID]
	if !ok {
		return nil, nil
	}
	copy := *inv
	return &copy, nil
}

// CountInvoices returns the number of stored invoices.
func (m *MockInvoiceRepository) CountInvoices() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byTripID)
}

// ──────────────────────────────────────────────
// MOCK CITY REPOSITORY
// ──────────────────────────────────────────────

// MockCityRepository serves a fixed city catalogue in insertion order.
type MockCityRepository struct {
	mu     sync.RWMutex
	cities []domain.City
}

// NewMockCityRepository creates a new mock city repository.
func NewMockCityRepository(cities ...domain.City) *MockCityRepository {
	return &MockCityRepository{cities: cities}
}

func (m *MockCityRepository) GetByID(ctx context.Context, id string) (*domain.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.cities {
		if c.ID == id {
			copy := c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCityRepository) GetAll(ctx context.Context) ([]domain.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.City, len(m.cities))
	copy(result, m.cities)
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of redis.LocationStoreInterface.
type MockLocationStore struct {
	mu     sync.RWMutex
	latest map[string]*domain.GeoSample
	fleet  map[string]redis.FleetPosition

	SetLatestCallCount    int32
	RemoveDriverCallCount int32
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		latest: make(map[string]*domain.GeoSample),
		fleet:  make(map[string]redis.FleetPosition),
	}
}

func (m *MockLocationStore) SetLatest(ctx context.Context, sample *domain.GeoSample) error {
	atomic.AddInt32(&m.SetLatestCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *sample
	m.latest[sample.TripID] = &copy
	m.fleet[sample.DriverID] = redis.FleetPosition{
		DriverID: sample.DriverID,
		Lat:      sample.Lat,
		Lng:      sample.Lng,
	}
	return nil
}

func (m *MockLocationStore) GetLatest(ctx context.Context, tripID string) (*domain.GeoSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sample, ok := m.latest[tripID]
	if !ok {
		return nil, nil
	}
	copy := *sample
	return &copy, nil
}

func (m *MockLocationStore) InvalidateLatest(ctx context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.latest, tripID)
	return nil
}

func (m *MockLocationStore) RemoveDriver(ctx context.Context, driverID string) error {
	atomic.AddInt32(&m.RemoveDriverCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fleet, driverID)
	return nil
}

func (m *MockLocationStore) FleetPositions(ctx context.Context, lat, lng, radiusKm float64) ([]redis.FleetPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []redis.FleetPosition
	for _, p := range m.fleet {
		if domain.HaversineKm(lat, lng, p.Lat, p.Lng) <= radiusKm {
			result = append(result, p)
		}
	}
	return result, nil
}

// HasDriver reports whether a driver is present in the fleet index.
func (m *MockLocationStore) HasDriver(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.fleet[driverID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of redis.CacheStoreInterface.
type MockCacheStore struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	SetTripCallCount    int32
	GetTripCallCount    int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{trips: make(map[string]*domain.Trip)}
}

func (m *MockCacheStore) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	atomic.AddInt32(&m.GetTripCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[tripID]
	if !ok {
		return nil, nil
	}
	copy := *trip
	return &copy, nil
}

func (m *MockCacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.SetTripCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockCacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, tripID)
	return nil
}

// HasTrip reports whether a trip is currently cached.
func (m *MockCacheStore) HasTrip(tripID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.trips[tripID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of redis.LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[driverID] {
		return false, nil
	}
	m.locks[driverID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, driverID)
	return nil
}

// Ensure mocks satisfy the interfaces they stand in for.
var (
	_ repository.TripRepository      = (*MockTripRepository)(nil)
	_ repository.DriverRepository    = (*MockDriverRepository)(nil)
	_ repository.GeoSampleRepository = (*MockGeoSampleRepository)(nil)
	_ repository.InvoiceRepository   = (*MockInvoiceRepository)(nil)
	_ repository.CityRepository      = (*MockCityRepository)(nil)
	_ redis.LocationStoreInterface   = (*MockLocationStore)(nil)
	_ redis.LockStoreInterface       = (*MockLockStore)(nil)
	_ redis.CacheStoreInterface      = (*MockCacheStore)(nil)
)
