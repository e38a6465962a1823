package search

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is the number of consecutive rows handed to a worker at a
// time.
const DefaultChunkSize = 4096

type config struct {
	workers   int
	chunkSize int64
	logger    logrus.FieldLogger
}

func defaultConfig() *config {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	return &config{
		workers:   runtime.NumCPU(),
		chunkSize: DefaultChunkSize,
		logger:    silent,
	}
}

// Option configures FindUniqueGap.
type Option func(*config)

// WithWorkers bounds the number of rows evaluated concurrently.
// Values <= 0 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithChunkSize sets how many consecutive rows a worker evaluates before
// picking up the next chunk. Values <= 0 keep the default.
func WithChunkSize(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
