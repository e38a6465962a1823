package types

// SensorReport pairs a sensor with the nearest known object it detected.
// Reports are loaded once and never mutated.
type SensorReport struct {
	Sensor Position `json:"sensor" yaml:"sensor"`
	Object Position `json:"object" yaml:"object"`
}

// Radius is the Manhattan distance from the sensor to its object. Every point
// within the radius is known not to hold a different, unknown object.
func (r SensorReport) Radius() int64 {
	return r.Sensor.ManhattanDistance(r.Object)
}
