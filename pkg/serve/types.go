package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/beaconscan/pkg/types"
)

// Request types.
const (
	TypeCoverage = "coverage"
	TypeCount    = "count"
	TypeFindGap  = "find_gap"
	TypeClose    = "close"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "coverage" | "count" | "find_gap" | "close"
	Payload json.RawMessage `json:"payload"`
}

// CoveragePayload is the payload for "coverage" requests
type CoveragePayload struct {
	Row          int64 `json:"row"`
	IncludeKnown bool  `json:"include_known"`
}

// CountPayload is the payload for "count" requests
type CountPayload struct {
	Row int64 `json:"row"`
}

// FindGapPayload is the payload for "find_gap" requests.
// TimeoutMS <= 0 means no deadline beyond the server's own context.
type FindGapPayload struct {
	Bound     int64 `json:"bound"`
	TimeoutMS int64 `json:"timeout_ms,omitempty"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | request type | "decode" | "unknown"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
	Sensors int    `json:"sensors"`
}

// CoverageData is the data field for "coverage" responses
type CoverageData struct {
	Row       int64            `json:"row"`
	Intervals []types.Interval `json:"intervals"`
	Length    int64            `json:"length"`
}

// CountData is the data field for "count" responses
type CountData struct {
	Row      int64 `json:"row"`
	Excluded int64 `json:"excluded"`
}

// GapData is the data field for "find_gap" responses
type GapData struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}
