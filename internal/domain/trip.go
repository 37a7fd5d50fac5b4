package domain

import "time"

// TripStatus represents the current lifecycle status of a trip.
type TripStatus string

const (
	TripStatusPending         TripStatus = "PENDING"
	TripStatusDriverRequested TripStatus = "DRIVER_REQUESTED"
	TripStatusDriverAccepted  TripStatus = "DRIVER_ACCEPTED"
	TripStatusDriverRejected  TripStatus = "DRIVER_REJECTED"
	TripStatusAssigned        TripStatus = "ASSIGNED"
	TripStatusInProgress      TripStatus = "IN_PROGRESS"
	TripStatusEnRoutePickup   TripStatus = "EN_ROUTE_PICKUP"
	TripStatusAtPickup        TripStatus = "AT_PICKUP"
	TripStatusPickedUp        TripStatus = "PICKED_UP"
	TripStatusInTransit       TripStatus = "IN_TRANSIT"
	TripStatusAtDestination   TripStatus = "AT_DESTINATION"
	TripStatusDelivered       TripStatus = "DELIVERED"
	TripStatusCancelled       TripStatus = "CANCELLED"
)

// tripTransitions is the canonical adjacency map for the trip lifecycle.
// Any edge not listed here is illegal. Terminal states have no entry.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusPending:         {TripStatusAssigned, TripStatusDriverRequested, TripStatusCancelled},
	TripStatusDriverRequested: {TripStatusDriverAccepted, TripStatusDriverRejected, TripStatusCancelled},
	TripStatusDriverAccepted:  {TripStatusAssigned, TripStatusInProgress, TripStatusCancelled},
	TripStatusAssigned:        {TripStatusInProgress, TripStatusEnRoutePickup, TripStatusCancelled},
	TripStatusInProgress:      {TripStatusAtPickup, TripStatusCancelled},
	TripStatusEnRoutePickup:   {TripStatusAtPickup, TripStatusCancelled},
	TripStatusAtPickup:        {TripStatusPickedUp, TripStatusCancelled},
	TripStatusPickedUp:        {TripStatusInTransit, TripStatusCancelled},
	TripStatusInTransit:       {TripStatusAtDestination, TripStatusCancelled},
	TripStatusAtDestination:   {TripStatusDelivered},
}

// CanTransition reports whether the edge from → to exists in the lifecycle.
func CanTransition(from, to TripStatus) bool {
	for _, next := range tripTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s TripStatus) IsTerminal() bool {
	switch s {
	case TripStatusDelivered, TripStatusCancelled, TripStatusDriverRejected:
		return true
	}
	return false
}

// IsTrackedActive reports whether location ingestion is permitted in this status.
func (s TripStatus) IsTrackedActive() bool {
	switch s {
	case TripStatusAssigned, TripStatusInProgress, TripStatusEnRoutePickup,
		TripStatusAtPickup, TripStatusPickedUp, TripStatusInTransit,
		TripStatusAtDestination:
		return true
	}
	return false
}

// IsActive reports whether the status counts toward a driver's active-trip
// binding. A driver may hold at most one trip in this set at a time.
func (s TripStatus) IsActive() bool {
	return s.IsTrackedActive() || s == TripStatusDriverAccepted
}

// IsValid reports whether the status is one of the enumerated lifecycle states.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusPending, TripStatusDriverRequested, TripStatusDriverAccepted,
		TripStatusDriverRejected, TripStatusAssigned, TripStatusInProgress,
		TripStatusEnRoutePickup, TripStatusAtPickup, TripStatusPickedUp,
		TripStatusInTransit, TripStatusAtDestination, TripStatusDelivered,
		TripStatusCancelled:
		return true
	}
	return false
}

// ActiveStatuses returns the statuses that bind a driver to a trip.
func ActiveStatuses() []TripStatus {
	return []TripStatus{
		TripStatusDriverAccepted, TripStatusAssigned, TripStatusInProgress,
		TripStatusEnRoutePickup, TripStatusAtPickup, TripStatusPickedUp,
		TripStatusInTransit, TripStatusAtDestination,
	}
}

// ActorRole identifies who is requesting a trip operation.
type ActorRole string

const (
	RoleCustomer   ActorRole = "CUSTOMER"
	RoleDispatcher ActorRole = "DISPATCHER"
	RoleDriver     ActorRole = "DRIVER"
)

// TripEndpoint is one end of a route: an explicit city, a raw coordinate with
// a free-text address, or both (a raw coordinate annotated with its nearest city).
type TripEndpoint struct {
	CityID  string
	Lat     float64
	Lng     float64
	HasGeo  bool
	Address string
}

// Resolved reports whether the endpoint carries at least one usable point.
func (e TripEndpoint) Resolved() bool {
	return e.CityID != "" || e.HasGeo
}

// Trip represents one shipment booking tracked through its lifecycle.
type Trip struct {
	ID            string
	SequenceNo    string
	CustomerID    string
	DriverID      string // empty until a driver is bound
	VehicleTypeID string
	BrokerID      string // optional customs broker
	TemperatureID string
	Origin        TripEndpoint
	Destination   TripEndpoint
	CargoNotes    string
	CargoWeightKg float64
	Price         float64
	Currency      string
	Status        TripStatus
	Version       int64 // optimistic concurrency token, bumped on every update
	CreatedAt     time.Time
	ScheduledAt   time.Time
	ActualStartAt time.Time // set on first entry into a tracked-active status
	DeliveredAt   time.Time
}
