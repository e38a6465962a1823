package coverage

import (
	"github.com/praetorian-inc/beaconscan/pkg/intervalset"
	"github.com/praetorian-inc/beaconscan/pkg/types"
)

// ForRow returns the coordinates on row y that no unknown object can occupy.
//
// Known objects are never counted as sensor-excluded. With
// includeKnownObjects set they are added back as single-coordinate intervals,
// since a known object is also not the thing being searched for.
func ForRow(sensors []types.SensorReport, y int64, includeKnownObjects bool) *intervalset.Set {
	intervals := make([]types.Interval, 0, len(sensors))
	for _, r := range sensors {
		if iv, ok := Project(r, y, true); ok {
			intervals = append(intervals, iv)
		}
	}

	if includeKnownObjects {
		for _, r := range sensors {
			if r.Object.Y == y {
				intervals = append(intervals, types.PointInterval(r.Object.X))
			}
		}
	}

	return intervalset.New(intervals...)
}

// CountExcluded is the number of positions on row y that cannot hold an
// unknown object, not counting known objects.
func CountExcluded(sensors []types.SensorReport, y int64) int64 {
	return ForRow(sensors, y, false).Len()
}
