package intervalset

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/praetorian-inc/beaconscan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(lo, hi int64) types.Interval {
	return types.Interval{Lo: lo, Hi: hi}
}

// assertDisjoint checks that members are sorted and that no two are mergeable.
func assertDisjoint(t *testing.T, s *Set) {
	t.Helper()
	members := s.Intervals()
	for i := range members {
		require.LessOrEqual(t, members[i].Lo, members[i].Hi, "member %d is malformed", i)
		for j := i + 1; j < len(members); j++ {
			assert.False(t, members[i].MergeableWith(members[j]), "%v and %v are mergeable", members[i], members[j])
		}
		if i > 0 {
			assert.Less(t, members[i-1].Hi, members[i].Lo)
		}
	}
}

// bruteForce is the reference: the set of integers covered by intervals.
func bruteForce(intervals []types.Interval) map[int64]bool {
	covered := make(map[int64]bool)
	for _, v := range intervals {
		for x := v.Lo; x <= v.Hi; x++ {
			covered[x] = true
		}
	}
	return covered
}

func randomIntervals(rng *rand.Rand, n int) []types.Interval {
	out := make([]types.Interval, n)
	for i := range out {
		lo := int64(rng.Intn(41) - 20)
		out[i] = iv(lo, lo+int64(rng.Intn(6)))
	}
	return out
}

func TestNew_Empty(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, int64(0), s.Len())
	assert.Equal(t, "{}", s.String())

	var zero Set
	assert.Equal(t, int64(0), zero.Len())
}

func TestNew_MergesOverlappingAndAdjacent(t *testing.T) {
	s := New(iv(12, 12), iv(3, 14), iv(-2, 1), iv(2, 2), iv(16, 24))
	assert.Equal(t, []types.Interval{iv(-2, 14), iv(16, 24)}, s.Intervals())
	assert.Equal(t, int64(17+9), s.Len())
	assertDisjoint(t, s)
}

func TestNew_DoesNotModifyInput(t *testing.T) {
	input := []types.Interval{iv(5, 6), iv(0, 1), iv(2, 3)}
	snapshot := append([]types.Interval(nil), input...)
	_ = New(input...)
	assert.Equal(t, snapshot, input)
}

func TestNew_LaterEntriesAbsorbEarlierOnes(t *testing.T) {
	// One wide interval at the end swallows everything before it.
	s := New(iv(0, 0), iv(4, 4), iv(8, 8), iv(-1, 9))
	assert.Equal(t, []types.Interval{iv(-1, 9)}, s.Intervals())
}

func TestNew_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	for round := 0; round < 200; round++ {
		input := randomIntervals(rng, 1+rng.Intn(12))
		s := New(input...)

		assertDisjoint(t, s)
		want := bruteForce(input)
		assert.Equal(t, int64(len(want)), s.Len(), "round %d input %v", round, input)
		for x := int64(-25); x <= 30; x++ {
			assert.Equal(t, want[x], s.Contains(x), "round %d x=%d", round, x)
		}
	}
}

func TestNew_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	input := randomIntervals(rng, 20)
	want := New(input...).Intervals()

	for i := 0; i < 10; i++ {
		shuffled := append([]types.Interval(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(want, New(shuffled...).Intervals()); diff != "" {
			t.Fatalf("result depends on input order (-want +got):\n%s", diff)
		}
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		start  []types.Interval
		insert types.Interval
		want   []types.Interval
	}{
		{"into empty", nil, iv(1, 2), []types.Interval{iv(1, 2)}},
		{"before all", []types.Interval{iv(5, 6)}, iv(0, 1), []types.Interval{iv(0, 1), iv(5, 6)}},
		{"after all", []types.Interval{iv(0, 1)}, iv(5, 6), []types.Interval{iv(0, 1), iv(5, 6)}},
		{"between", []types.Interval{iv(0, 1), iv(9, 10)}, iv(4, 5), []types.Interval{iv(0, 1), iv(4, 5), iv(9, 10)}},
		{"adjacent left", []types.Interval{iv(0, 1), iv(9, 10)}, iv(2, 3), []types.Interval{iv(0, 3), iv(9, 10)}},
		{"adjacent right", []types.Interval{iv(0, 1), iv(9, 10)}, iv(6, 8), []types.Interval{iv(0, 1), iv(6, 10)}},
		{"bridges two", []types.Interval{iv(0, 1), iv(4, 5), iv(9, 10)}, iv(2, 8), []types.Interval{iv(0, 10)}},
		{"inside member", []types.Interval{iv(0, 10)}, iv(3, 4), []types.Interval{iv(0, 10)}},
		{"covers all", []types.Interval{iv(0, 1), iv(4, 5)}, iv(-5, 20), []types.Interval{iv(-5, 20)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.start...)
			s.Insert(tt.insert)
			assert.Equal(t, tt.want, s.Intervals())
			assertDisjoint(t, s)
		})
	}
}

func TestInsert_MatchesNew(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		input := randomIntervals(rng, 1+rng.Intn(15))
		var incremental Set
		for _, v := range input {
			incremental.Insert(v)
		}
		want := New(input...)
		assert.Equal(t, want.Intervals(), incremental.Intervals(), "round %d", round)
		assert.Equal(t, want.Len(), incremental.Len(), "round %d", round)
	}
}

func TestInsert_UnionIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for round := 0; round < 100; round++ {
		a, b := randomIntervals(rng, 1)[0], randomIntervals(rng, 1)[0]
		if !a.MergeableWith(b) {
			continue
		}
		s := New(a, b)
		before := s.Intervals()
		s.Insert(a.Union(b))
		assert.Equal(t, before, s.Intervals())
	}
}

func TestGaps(t *testing.T) {
	s := New(iv(-3, 2), iv(5, 5), iv(9, 30))

	tests := []struct {
		name   string
		lo, hi int64
		want   []types.Interval
	}{
		{"domain inside member", 0, 2, nil},
		{"two gaps", 0, 20, []types.Interval{iv(3, 4), iv(6, 8)}},
		{"gap at left edge", -5, 0, []types.Interval{iv(-5, -4)}},
		{"gap at right edge", 25, 35, []types.Interval{iv(31, 35)}},
		{"domain between members", 6, 7, []types.Interval{iv(6, 7)}},
		{"empty domain", 4, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Gaps(tt.lo, tt.hi))
		})
	}

	assert.Equal(t, []types.Interval{iv(0, 10)}, New().Gaps(0, 10))
}

func TestString(t *testing.T) {
	assert.Equal(t, "{[-2, 1] [3, 14]}", New(iv(3, 14), iv(-2, 1)).String())
}
