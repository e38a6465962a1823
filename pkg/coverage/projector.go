// Package coverage projects sensor exclusion discs onto horizontal rows and
// aggregates the projections into disjoint interval sets.
package coverage

import "github.com/praetorian-inc/beaconscan/pkg/types"

// Project returns the x-coordinates on row y that r's exclusion disc covers.
// The second result is false when the disc does not reach the row.
//
// With excludeObject set, the report's own object is removed from the range
// when it sits on row y. The object is at exactly Radius() from the sensor,
// so on its own row it can only be an endpoint of the range; only endpoints
// are shrunk, and an interior object is never split out.
func Project(r types.SensorReport, y int64, excludeObject bool) (types.Interval, bool) {
	radius := r.Radius()
	dy := r.Sensor.Y - y
	if dy < 0 {
		dy = -dy
	}
	if dy > radius {
		return types.Interval{}, false
	}

	reach := radius - dy
	lo := r.Sensor.X - reach
	hi := r.Sensor.X + reach

	if excludeObject && r.Object.Y == y {
		if r.Object.X == lo {
			lo++
		}
		if r.Object.X == hi {
			hi--
		}
	}

	iv, err := types.NewInterval(lo, hi)
	if err != nil {
		// Both endpoints were the object: nothing is left on this row.
		return types.Interval{}, false
	}
	return iv, true
}
