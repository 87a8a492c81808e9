package domain

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// OriginHint is the optional starting point handed to the route optimizer:
// GPS coordinates, a manually typed address, or nothing at all.
type OriginHint struct {
	Location      *Coordinates
	ManualAddress string
}
