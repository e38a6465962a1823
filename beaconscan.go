// Package beaconscan computes which points of the integer plane provably
// cannot hold an unknown object, given sensors that each report the nearest
// known object.
//
// Each sensor excludes every point within the Manhattan distance of its
// nearest object. Projected onto a horizontal row, that disc becomes a
// closed interval of x-coordinates; the union of those intervals is the
// row's coverage.
//
// # Basic Usage
//
// Load reports and count the excluded positions on one row:
//
//	reports, err := beaconscan.LoadReportsFromFile("sensors.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := beaconscan.New(reports)
//	fmt.Println(a.CountExcluded(2_000_000))
//
// # Searching a Domain
//
// Find the only position in [0, bound] x [0, bound] no sensor excludes:
//
//	pos, err := a.FindGap(ctx, 4_000_000)
//	if errors.Is(err, beaconscan.ErrAmbiguousResult) {
//	    // the reports do not pin down a single position
//	}
package beaconscan

import (
	"context"
	"io"

	"github.com/praetorian-inc/beaconscan/pkg/coverage"
	"github.com/praetorian-inc/beaconscan/pkg/intervalset"
	"github.com/praetorian-inc/beaconscan/pkg/search"
	"github.com/praetorian-inc/beaconscan/pkg/sensor"
	"github.com/praetorian-inc/beaconscan/pkg/types"
	"github.com/sirupsen/logrus"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/beaconscan" without subpackages.
type (
	// Position is an integer point on the plane.
	Position = types.Position

	// Interval is a closed integer range [Lo, Hi].
	Interval = types.Interval

	// SensorReport pairs a sensor with its nearest known object.
	SensorReport = types.SensorReport

	// IntervalSet is a minimal union of disjoint, non-adjacent intervals.
	IntervalSet = intervalset.Set
)

// Re-export sentinel errors.
var (
	ErrMalformedInterval = types.ErrMalformedInterval
	ErrAmbiguousResult   = search.ErrAmbiguousResult
	ErrInvalidBound      = search.ErrInvalidBound
	ErrMalformedReport   = sensor.ErrMalformedReport
	ErrNoSensors         = sensor.ErrNoSensors
)

// Analyzer answers coverage questions about a fixed set of sensor reports.
// It is immutable and safe for concurrent use.
type Analyzer struct {
	sensors []SensorReport
	config  *analyzerConfig
}

// analyzerConfig holds analyzer configuration.
type analyzerConfig struct {
	workers int
	logger  logrus.FieldLogger
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

// WithWorkers sets how many rows FindGap evaluates concurrently.
// Default is one per CPU.
func WithWorkers(workers int) Option {
	return func(c *analyzerConfig) {
		c.workers = workers
	}
}

// WithLogger sets the logger for search diagnostics.
// By default nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *analyzerConfig) {
		c.logger = logger
	}
}

// New creates an Analyzer over a private copy of sensors.
func New(sensors []SensorReport, opts ...Option) *Analyzer {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	config := &analyzerConfig{logger: silent}

	for _, opt := range opts {
		opt(config)
	}

	owned := make([]SensorReport, len(sensors))
	copy(owned, sensors)

	return &Analyzer{sensors: owned, config: config}
}

// Sensors returns a copy of the analyzed reports.
func (a *Analyzer) Sensors() []SensorReport {
	out := make([]SensorReport, len(a.sensors))
	copy(out, a.sensors)
	return out
}

// Coverage returns the positions on row that cannot hold an unknown object.
// With includeKnownObjects set, known objects on the row are covered too.
func (a *Analyzer) Coverage(row int64, includeKnownObjects bool) *IntervalSet {
	return coverage.ForRow(a.sensors, row, includeKnownObjects)
}

// CountExcluded returns how many positions on row cannot hold an unknown
// object, not counting known objects.
func (a *Analyzer) CountExcluded(row int64) int64 {
	return coverage.CountExcluded(a.sensors, row)
}

// FindGap returns the single position in [0, bound] x [0, bound] that no
// sensor excludes. It returns ErrAmbiguousResult when there is no such
// position or more than one.
func (a *Analyzer) FindGap(ctx context.Context, bound int64) (Position, error) {
	return search.FindUniqueGap(ctx, a.sensors, bound,
		search.WithWorkers(a.config.workers),
		search.WithLogger(a.config.logger),
	)
}

// LoadReportsFromFile loads sensor reports from a text or YAML file.
//
// Example:
//
//	reports, err := beaconscan.LoadReportsFromFile("sensors.yaml")
func LoadReportsFromFile(path string) ([]SensorReport, error) {
	return sensor.NewLoader().LoadFile(path)
}

// LoadReports parses sensor reports in the text format, one per line:
//
//	Sensor at x=2, y=18: closest beacon is at x=-2, y=15
func LoadReports(text string) ([]SensorReport, error) {
	return sensor.NewLoader().LoadText([]byte(text))
}
