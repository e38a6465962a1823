package types

import "fmt"

// Position is an integer point on the plane.
type Position struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
}

// ManhattanDistance returns the L1 distance between p and other.
func (p Position) ManhattanDistance(other Position) int64 {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
