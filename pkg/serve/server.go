// Package serve exposes an Analyzer over a newline-delimited JSON stream.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/praetorian-inc/beaconscan"
	"github.com/sirupsen/logrus"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers coverage requests read from a stream
type Server struct {
	analyzer *beaconscan.Analyzer
	encoder  *json.Encoder
	decoder  *json.Decoder
	logger   logrus.FieldLogger
}

// NewServer creates a new streaming server
func NewServer(analyzer *beaconscan.Analyzer, in io.Reader, out io.Writer) *Server {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	return &Server{
		analyzer: analyzer,
		encoder:  json.NewEncoder(out),
		decoder:  json.NewDecoder(bufio.NewReader(in)),
		logger:   silent,
	}
}

// SetLogger sets the logger for request diagnostics.
func (s *Server) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until the input closes or ctx is cancelled
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	s.logger.WithField("type", req.Type).Debug("request")

	switch req.Type {
	case TypeCoverage:
		s.handleCoverage(req.Payload)
	case TypeCount:
		s.handleCount(req.Payload)
	case TypeFindGap:
		s.handleFindGap(ctx, req.Payload)
	case TypeClose:
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version, Sensors: len(s.analyzer.Sensors())})
}

func (s *Server) handleCoverage(payload json.RawMessage) {
	var p CoveragePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeCoverage, err.Error())
		return
	}

	set := s.analyzer.Coverage(p.Row, p.IncludeKnown)
	s.send(TypeCoverage, CoverageData{
		Row:       p.Row,
		Intervals: set.Intervals(),
		Length:    set.Len(),
	})
}

func (s *Server) handleCount(payload json.RawMessage) {
	var p CountPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeCount, err.Error())
		return
	}

	s.send(TypeCount, CountData{Row: p.Row, Excluded: s.analyzer.CountExcluded(p.Row)})
}

func (s *Server) handleFindGap(ctx context.Context, payload json.RawMessage) {
	var p FindGapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeFindGap, err.Error())
		return
	}

	if p.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	pos, err := s.analyzer.FindGap(ctx, p.Bound)
	if err != nil {
		s.logger.WithError(err).WithField("bound", p.Bound).Warn("find_gap failed")
		s.sendError(TypeFindGap, err.Error())
		return
	}
	s.send(TypeFindGap, GapData{X: pos.X, Y: pos.Y})
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	if err := s.encoder.Encode(Response{Success: true, Type: respType, Data: data}); err != nil {
		s.logger.WithError(err).Error("writing response")
	}
}

func (s *Server) sendError(reqType, msg string) {
	if err := s.encoder.Encode(Response{Success: false, Type: reqType, Error: msg}); err != nil {
		s.logger.WithError(err).Error("writing error response")
	}
}
