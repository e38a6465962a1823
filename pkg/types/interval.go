package types

import (
	"errors"
	"fmt"
)

// ErrMalformedInterval is returned when an interval would have Lo > Hi.
var ErrMalformedInterval = errors.New("malformed interval")

// Interval is the closed integer range [Lo, Hi]. Lo <= Hi always holds; a
// single coordinate is represented as [x, x].
type Interval struct {
	Lo int64 `json:"lo"`
	Hi int64 `json:"hi"`
}

// NewInterval returns [lo, hi], or ErrMalformedInterval if lo > hi.
func NewInterval(lo, hi int64) (Interval, error) {
	if lo > hi {
		return Interval{}, fmt.Errorf("%w: [%d, %d]", ErrMalformedInterval, lo, hi)
	}
	return Interval{Lo: lo, Hi: hi}, nil
}

// PointInterval returns the zero-width interval [x, x].
func PointInterval(x int64) Interval {
	return Interval{Lo: x, Hi: x}
}

// MergeableWith reports whether i and other overlap or touch, i.e. whether
// their union is itself a single interval.
func (i Interval) MergeableWith(other Interval) bool {
	return !(i.Lo > other.Hi+1 || other.Lo > i.Hi+1)
}

// Union returns the smallest interval containing both i and other. It is
// only a faithful union when the two are mergeable.
func (i Interval) Union(other Interval) Interval {
	return Interval{Lo: min(i.Lo, other.Lo), Hi: max(i.Hi, other.Hi)}
}

// Len is the number of integers in the interval.
func (i Interval) Len() int64 {
	return i.Hi - i.Lo + 1
}

// Contains reports whether x lies in [Lo, Hi].
func (i Interval) Contains(x int64) bool {
	return i.Lo <= x && x <= i.Hi
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d]", i.Lo, i.Hi)
}
