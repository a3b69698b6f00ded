// Package serve exposes the solver as an NDJSON request/response stream,
// one JSON object per line.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/praetorian-inc/almanac/pkg/interval"
	"github.com/praetorian-inc/almanac/pkg/remap"
	"github.com/praetorian-inc/almanac/pkg/solver"
)

// Version is the server protocol version
const Version = "1.0.0"

// maxLineSize bounds a single request line.
const maxLineSize = 64 * 1024 * 1024

// Server manages the streaming solver
type Server struct {
	core    *solver.Core
	in      io.Reader
	encoder *json.Encoder
	logger  *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new streaming server
func NewServer(core *solver.Core, in io.Reader, out io.Writer, opts ...Option) *Server {
	s := &Server{
		core:    core,
		in:      in,
		encoder: json.NewEncoder(out),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the server main loop. It returns nil on EOF or a "close"
// request and ctx.Err() when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	// Stops the reader when Run returns early on "close".
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lineChan := make(chan []byte, 1)
	errChan := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lineChan <- line:
			case <-ctx.Done():
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		errChan <- err
	}()

	// Process requests until input closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// Drain any pending request before handling EOF
			select {
			case line := <-lineChan:
				if s.processLine(ctx, line) {
					return nil
				}
			default:
			}
			if !errors.Is(err, io.EOF) {
				s.sendError(TypeDecode, err.Error())
			}
			s.logger.Debug("input closed")
			return nil
		case line := <-lineChan:
			if s.processLine(ctx, line) {
				return nil
			}
		}
	}
}

// processLine handles a single request line and returns true if the server
// should exit. Blank lines are ignored.
func (s *Server) processLine(ctx context.Context, line []byte) bool {
	if len(line) == 0 {
		return false
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.sendError(TypeDecode, err.Error())
		return false
	}
	return s.processRequest(ctx, req)
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	s.logger.Debug("request", zap.String("type", req.Type), zap.Int("payload_bytes", len(req.Payload)))

	switch req.Type {
	case TypeSolve:
		s.handleSolve(ctx, req.Payload)
	case TypeSolveBatch:
		s.handleSolveBatch(ctx, req.Payload)
	case TypeRemap:
		s.handleRemap(req.Payload)
	case TypeClose:
		return true
	default:
		s.sendError(req.Type, "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send(TypeReady, ReadyData{Version: Version})
}

func (s *Server) handleSolve(ctx context.Context, payload json.RawMessage) {
	var p SolvePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeSolve, err.Error())
		return
	}
	parts, err := p.Part.Parts()
	if err != nil {
		s.sendError(TypeSolve, err.Error())
		return
	}

	result, err := s.core.Solve(ctx, []byte(p.Content), p.Source, parts...)
	if err != nil {
		s.sendError(TypeSolve, err.Error())
		return
	}
	s.send(TypeSolve, result)
}

func (s *Server) handleSolveBatch(ctx context.Context, payload json.RawMessage) {
	var p SolveBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeSolveBatch, err.Error())
		return
	}
	parts, err := p.Part.Parts()
	if err != nil {
		s.sendError(TypeSolveBatch, err.Error())
		return
	}

	result, err := s.core.SolveBatch(ctx, p.Items, parts...)
	if err != nil {
		s.sendError(TypeSolveBatch, err.Error())
		return
	}
	s.send(TypeSolveBatch, result)
}

func (s *Server) handleRemap(payload json.RawMessage) {
	var p RemapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeRemap, err.Error())
		return
	}

	pipeline, err := p.pipeline()
	if err != nil {
		s.sendError(TypeRemap, err.Error())
		return
	}
	for i, iv := range p.Intervals {
		if _, err := interval.New(iv.Start, iv.End); err != nil {
			s.sendError(TypeRemap, fmt.Sprintf("interval %d: %v", i, err))
			return
		}
	}

	final := pipeline.Run(p.Intervals)
	data := RemapData{
		Intervals: final,
		Measure:   interval.Measure(final),
	}
	if data.Intervals == nil {
		data.Intervals = []interval.Interval{}
	}
	if lowest, err := remap.Lowest(final); err == nil {
		data.Lowest = &lowest
	}
	s.send(TypeRemap, data)
}

func (p RemapPayload) pipeline() (remap.Pipeline, error) {
	var pipeline remap.Pipeline
	for i, st := range p.Stages {
		table := remap.Table{Name: st.Name}
		for j, m := range st.Mappings {
			mapping, err := remap.NewMapping(m.Dest, m.Source, m.Length)
			if err != nil {
				return remap.Pipeline{}, fmt.Errorf("stage %d mapping %d: %w", i, j, err)
			}
			table.Mappings = append(table.Mappings, mapping)
		}
		pipeline.Stages = append(pipeline.Stages, table)
	}
	return pipeline, nil
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, fmt.Sprintf("encoding response: %v", err))
		return
	}
	if err := s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	}); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) sendError(reqType, msg string) {
	s.logger.Debug("request failed", zap.String("type", reqType), zap.String("error", msg))
	if err := s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	}); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}
