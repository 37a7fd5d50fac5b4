package domain

// Driver represents a driver in the fleet.
//
// Whether a driver is currently busy is deliberately NOT stored here; it is
// derived from live trip rows so it cannot drift from reality.
type Driver struct {
	ID              string
	Name            string
	Phone           string
	Active          bool
	TrackingEnabled bool
	VehicleTypeIDs  []string // vehicle types the driver is qualified for
	TemperatureIDs  []string // temperature profiles the driver can haul
}

// Qualified reports whether the driver can serve the given vehicle type and,
// when non-empty, the given temperature profile.
func (d *Driver) Qualified(vehicleTypeID, temperatureID string) bool {
	if !containsID(d.VehicleTypeIDs, vehicleTypeID) {
		return false
	}
	if temperatureID != "" && !containsID(d.TemperatureIDs, temperatureID) {
		return false
	}
	return true
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
