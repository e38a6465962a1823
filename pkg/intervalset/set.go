// Package intervalset maintains a minimal union of closed integer intervals.
package intervalset

import (
	"sort"
	"strings"

	"github.com/praetorian-inc/beaconscan/pkg/types"
)

// Set is a sorted collection of intervals in which no two members overlap or
// touch. The zero value is an empty set ready for use.
type Set struct {
	members []types.Interval
	total   int64
}

// New builds a Set covering exactly the integers covered by intervals.
// The input slice is not modified.
func New(intervals ...types.Interval) *Set {
	if len(intervals) == 0 {
		return &Set{}
	}

	sorted := make([]types.Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Lo != sorted[j].Lo {
			return sorted[i].Lo < sorted[j].Lo
		}
		return sorted[i].Hi < sorted[j].Hi
	})

	// Single sweep: after sorting, a member can only merge with the one
	// currently being accumulated.
	members := make([]types.Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if cur.MergeableWith(iv) {
			cur = cur.Union(iv)
			continue
		}
		members = append(members, cur)
		cur = iv
	}
	members = append(members, cur)

	s := &Set{members: members}
	for _, m := range members {
		s.total += m.Len()
	}
	return s
}

// Insert adds iv to the set, merging it with every member it overlaps or
// touches.
func (s *Set) Insert(iv types.Interval) {
	// First member that could merge with iv: its Hi reaches iv.Lo-1.
	i := sort.Search(len(s.members), func(k int) bool { return s.members[k].Hi+1 >= iv.Lo })
	// First member lying strictly beyond iv with at least one gap.
	j := sort.Search(len(s.members), func(k int) bool { return s.members[k].Lo > iv.Hi+1 })

	merged := iv
	for k := i; k < j; k++ {
		merged = merged.Union(s.members[k])
		s.total -= s.members[k].Len()
	}
	s.total += merged.Len()

	if i == j {
		s.members = append(s.members, types.Interval{})
		copy(s.members[i+1:], s.members[i:])
		s.members[i] = merged
		return
	}
	s.members[i] = merged
	s.members = append(s.members[:i+1], s.members[j:]...)
}

// Len is the number of distinct integers covered by the set.
func (s *Set) Len() int64 {
	return s.total
}

// Count is the number of disjoint members.
func (s *Set) Count() int {
	return len(s.members)
}

// Intervals returns a copy of the members in ascending order.
func (s *Set) Intervals() []types.Interval {
	out := make([]types.Interval, len(s.members))
	copy(out, s.members)
	return out
}

// Contains reports whether x is covered by some member.
func (s *Set) Contains(x int64) bool {
	i := sort.Search(len(s.members), func(k int) bool { return s.members[k].Hi >= x })
	return i < len(s.members) && s.members[i].Lo <= x
}

// Gaps returns the maximal runs of integers in [lo, hi] not covered by the
// set, in ascending order. It returns nil when lo > hi or nothing is
// uncovered.
func (s *Set) Gaps(lo, hi int64) []types.Interval {
	if lo > hi {
		return nil
	}

	var gaps []types.Interval
	next := lo
	for _, iv := range s.members {
		if iv.Hi < next {
			continue
		}
		if iv.Lo > hi {
			break
		}
		if iv.Lo > next {
			gaps = append(gaps, types.Interval{Lo: next, Hi: iv.Lo - 1})
		}
		next = iv.Hi + 1
		if next > hi {
			return gaps
		}
	}
	return append(gaps, types.Interval{Lo: next, Hi: hi})
}

func (s *Set) String() string {
	parts := make([]string, len(s.members))
	for i, iv := range s.members {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
