// Package search locates the single coordinate of a square domain that no
// sensor excludes.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/praetorian-inc/beaconscan/pkg/coverage"
	"github.com/praetorian-inc/beaconscan/pkg/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAmbiguousResult is returned when the domain does not contain
	// exactly one uncovered coordinate.
	ErrAmbiguousResult = errors.New("ambiguous search result")

	// ErrInvalidBound is returned for a negative domain bound.
	ErrInvalidBound = errors.New("invalid search bound")
)

// maxReportedRows caps how many offending rows an ambiguity error lists.
const maxReportedRows = 4

// rowGap holds the uncovered runs of one row inside the domain.
type rowGap struct {
	y    int64
	gaps []types.Interval
}

func (g rowGap) size() int64 {
	var n int64
	for _, iv := range g.gaps {
		n += iv.Len()
	}
	return n
}

func (g rowGap) String() string {
	parts := make([]string, len(g.gaps))
	for i, iv := range g.gaps {
		parts[i] = iv.String()
	}
	return fmt.Sprintf("y=%d %s", g.y, strings.Join(parts, " "))
}

// tally aggregates rows with gaps across workers. It keeps the lowest rows
// so that the outcome does not depend on worker scheduling.
type tally struct {
	mu    sync.Mutex
	total int
	rows  []rowGap
}

func (t *tally) add(g rowGap) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	i := sort.Search(len(t.rows), func(k int) bool { return t.rows[k].y > g.y })
	if i >= maxReportedRows {
		return
	}
	t.rows = append(t.rows, rowGap{})
	copy(t.rows[i+1:], t.rows[i:])
	t.rows[i] = g
	if len(t.rows) > maxReportedRows {
		t.rows = t.rows[:maxReportedRows]
	}
}

// RowGaps returns the runs of x in [0, bound] on row y that are neither
// excluded by a sensor nor occupied by a known object.
func RowGaps(sensors []types.SensorReport, y, bound int64) []types.Interval {
	return coverage.ForRow(sensors, y, true).Gaps(0, bound)
}

// FindUniqueGap scans every row of [0, bound] x [0, bound] and returns the
// only coordinate that is not excluded. If the domain has no such
// coordinate, several of them, or a run wider than one, it returns
// ErrAmbiguousResult. Rows are evaluated in parallel; ctx is checked between
// rows.
func FindUniqueGap(ctx context.Context, sensors []types.SensorReport, bound int64, opts ...Option) (types.Position, error) {
	if bound < 0 {
		return types.Position{}, fmt.Errorf("%w: %d", ErrInvalidBound, bound)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.logger.WithFields(logrus.Fields{
		"bound":   bound,
		"sensors": len(sensors),
		"workers": cfg.workers,
	})
	log.Debug("starting gap search")
	started := time.Now()

	var found tally
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for start := int64(0); ; {
		end := start + cfg.chunkSize - 1
		if end > bound || end < start {
			end = bound
		}
		if gctx.Err() != nil {
			break
		}

		lo, hi := start, end
		g.Go(func() error {
			return scanRows(gctx, sensors, lo, hi, bound, &found, log)
		})

		if end == bound {
			break
		}
		start = end + 1
	}

	if err := g.Wait(); err != nil {
		return types.Position{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.Position{}, err
	}

	log.WithFields(logrus.Fields{
		"gap_rows": found.total,
		"elapsed":  time.Since(started).String(),
	}).Debug("gap search finished")

	return resolve(&found, bound)
}

func scanRows(ctx context.Context, sensors []types.SensorReport, lo, hi, bound int64, found *tally, log logrus.FieldLogger) error {
	for y := lo; ; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if gaps := RowGaps(sensors, y, bound); len(gaps) > 0 {
			g := rowGap{y: y, gaps: gaps}
			log.WithField("row", y).Debugf("uncovered: %s", g)
			found.add(g)
		}
		if y == hi {
			return nil
		}
	}
}

func resolve(found *tally, bound int64) (types.Position, error) {
	switch {
	case found.total == 0:
		return types.Position{}, fmt.Errorf("%w: every coordinate in [0, %d] is excluded", ErrAmbiguousResult, bound)
	case found.total > 1:
		parts := make([]string, len(found.rows))
		for i, g := range found.rows {
			parts[i] = g.String()
		}
		return types.Position{}, fmt.Errorf("%w: %d rows have uncovered coordinates (lowest: %s)",
			ErrAmbiguousResult, found.total, strings.Join(parts, "; "))
	}

	g := found.rows[0]
	if g.size() != 1 {
		return types.Position{}, fmt.Errorf("%w: row %d has %d uncovered coordinates: %s",
			ErrAmbiguousResult, g.y, g.size(), g)
	}
	return types.Position{X: g.gaps[0].Lo, Y: g.y}, nil
}
