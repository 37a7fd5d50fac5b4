package service

import "errors"

var (
	// ErrInvalidTransition is returned when the requested status edge is not
	// in the lifecycle transition table. Clients should re-read the trip.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStaleTripVersion is returned when a concurrent modification won the
	// race. Clients must re-read the trip and retry.
	ErrStaleTripVersion = errors.New("trip modified concurrently, re-read and retry")

	// ErrTrackingNotActive is returned when a location sample arrives while
	// the trip is not in a tracked-active status. The sample is dropped.
	ErrTrackingNotActive = errors.New("tracking not active for trip")

	// ErrTripNotDelivered is returned when invoice generation is invoked for
	// a trip that is not DELIVERED. This indicates a programming error.
	ErrTripNotDelivered = errors.New("trip not delivered")

	// ErrDriverConflict is returned when binding a driver who already has an
	// active trip and no override was requested.
	ErrDriverConflict = errors.New("driver already bound to an active trip")

	// ErrInvalidCoordinate is returned for out-of-range latitude/longitude.
	ErrInvalidCoordinate = errors.New("coordinate out of range")

	// ErrNotTripDriver is returned when a sample or driver-only transition
	// comes from someone other than the trip's bound driver.
	ErrNotTripDriver = errors.New("actor is not the trip's bound driver")

	// ErrForbiddenTransition is returned when the actor's role may not drive
	// the requested edge.
	ErrForbiddenTransition = errors.New("actor role may not perform this transition")

	// ErrNotCancellable is returned when a cancellation quote is requested
	// outside the PENDING/ASSIGNED statuses.
	ErrNotCancellable = errors.New("trip is not cancellable through this path")

	// ErrTripNotPending is returned when deleting a trip that has left PENDING.
	ErrTripNotPending = errors.New("trip is no longer pending")

	// ErrInvalidTripID is returned when the trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidDriverID is returned when the driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidStatus is returned when the requested status is not a known
	// lifecycle state.
	ErrInvalidStatus = errors.New("unknown trip status")

	// ErrDriverRequired is returned when a transition to ASSIGNED carries no
	// driver and the trip has none bound.
	ErrDriverRequired = errors.New("driver required for assignment")

	// ErrUnresolvedEndpoint is returned when a booking endpoint carries
	// neither a city nor a coordinate.
	ErrUnresolvedEndpoint = errors.New("endpoint has no city or coordinate")

	// ErrInvalidPrice is returned when the booking price is not positive.
	ErrInvalidPrice = errors.New("invalid trip price")

	// ErrVehicleTypeRequired is returned when a booking omits the vehicle type.
	ErrVehicleTypeRequired = errors.New("vehicle type is required")

	// ErrTemperatureRequired is returned when a booking omits the
	// temperature profile.
	ErrTemperatureRequired = errors.New("temperature profile is required")

	// ErrNoCities is returned when nearest-city resolution runs against an
	// empty city catalogue.
	ErrNoCities = errors.New("no cities configured")
)
