// Package serve exposes a registry over newline-delimited JSON: one request
// per input line, one response per output line.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/library"
	"github.com/praetorian-inc/regcache/pkg/registry"
)

// Version is the server protocol version
const Version = "1.0.0"

// errBadRequest marks malformed payloads.
var errBadRequest = errors.New("bad request")

// Server manages the streaming protocol for one registry.
type Server struct {
	reg     *registry.Registry
	set     *library.Set
	engine  engine.Options
	logger  *slog.Logger
	encoder *json.Encoder
	decoder *json.Decoder
}

// Option configures a Server.
type Option func(*Server)

// WithSet enables "scan" requests against a compiled pattern library.
func WithSet(set *library.Set) Option {
	return func(s *Server) {
		s.set = set
	}
}

// WithEngineOptions sets the options one-shot "match" requests compile with.
func WithEngineOptions(opts engine.Options) Option {
	return func(s *Server) {
		s.engine = opts
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new streaming server
func NewServer(reg *registry.Registry, in io.Reader, out io.Writer, opts ...Option) *Server {
	s := &Server{
		reg:     reg,
		engine:  engine.DefaultOptions(),
		logger:  slog.New(slog.DiscardHandler),
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the server main loop. It returns nil when the input ends or a
// "close" request arrives, and ctx.Err() when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// The decoder goroutine exits through ctx once Run returns
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				select {
				case errChan <- err:
				case <-ctx.Done():
				}
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until input closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					// The decoder cannot resync after a syntax error
					s.sendError(nil, "decode", fmt.Errorf("%w: %w", errBadRequest, err))
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	s.logger.Debug("request", "type", req.Type)

	var (
		data any
		err  error
	)

	switch req.Type {
	case TypeCompile:
		data, err = s.handleCompile(req.Payload)
	case TypeRelease:
		data, err = s.handleRelease(req.Payload)
	case TypeMatch:
		data, err = s.handleMatch(req.Payload)
	case TypeMatchCompiled:
		data, err = s.handleMatchCompiled(req.Payload)
	case TypeSearch:
		data, err = s.handleSearch(req.Payload)
	case TypeFindAll:
		data, err = s.handleFindAll(req.Payload)
	case TypeSubstitute:
		data, err = s.handleSubstitute(req.Payload)
	case TypeInfo:
		data, err = s.handleInfo(req.Payload)
	case TypeScan:
		data, err = s.handleScan(req.Payload)
	case TypeStats:
		data = s.reg.Stats()
	case TypeClose:
		s.send(req.ID, TypeClose, struct{}{})
		return true
	default:
		err = fmt.Errorf("%w: unknown request type: %s", errBadRequest, req.Type)
	}

	if err != nil {
		s.sendError(req.ID, req.Type, err)
		return false
	}
	s.send(req.ID, req.Type, data)
	return false
}

func (s *Server) handleCompile(payload json.RawMessage) (any, error) {
	var p PatternPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.Pattern == nil {
		return nil, fmt.Errorf("%w: pattern is required", errBadRequest)
	}

	h, err := s.reg.Compile(*p.Pattern)
	if err != nil {
		return nil, err
	}
	return HandleData{Handle: h}, nil
}

func (s *Server) handleRelease(payload json.RawMessage) (any, error) {
	var p HandlePayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.Handle == nil {
		return nil, fmt.Errorf("%w: handle is required", errBadRequest)
	}

	s.reg.Release(*p.Handle)
	return HandleData{Handle: *p.Handle}, nil
}

func (s *Server) handleInfo(payload json.RawMessage) (any, error) {
	var p HandlePayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.Handle == nil {
		return nil, fmt.Errorf("%w: handle is required", errBadRequest)
	}
	return s.reg.Info(*p.Handle)
}

func (s *Server) handleMatch(payload json.RawMessage) (any, error) {
	var p MatchPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.Pattern == nil {
		return nil, fmt.Errorf("%w: pattern is required", errBadRequest)
	}

	matched, err := registry.MatchWithOptions(*p.Pattern, p.Text, s.engine)
	if errors.Is(err, registry.ErrCompile) {
		return MatchData{Matched: false, CompileError: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return MatchData{Matched: matched}, nil
}

func (s *Server) handleMatchCompiled(payload json.RawMessage) (any, error) {
	p, err := decodeText(payload)
	if err != nil {
		return nil, err
	}

	matched, err := s.reg.MatchCompiledE(*p.Handle, p.Text)
	if err != nil {
		return nil, err
	}
	return MatchData{Matched: matched}, nil
}

func (s *Server) handleSearch(payload json.RawMessage) (any, error) {
	p, err := decodeText(payload)
	if err != nil {
		return nil, err
	}

	match, found, err := s.reg.Search(*p.Handle, p.Text)
	if err != nil {
		return nil, err
	}
	return SearchData{Found: found, Match: match}, nil
}

func (s *Server) handleFindAll(payload json.RawMessage) (any, error) {
	p, err := decodeText(payload)
	if err != nil {
		return nil, err
	}

	values, err := s.reg.FindAll(*p.Handle, p.Text)
	if err != nil {
		return nil, err
	}
	return FindAllData{Values: values}, nil
}

func (s *Server) handleSubstitute(payload json.RawMessage) (any, error) {
	p, err := decodeText(payload)
	if err != nil {
		return nil, err
	}

	result, err := s.reg.Substitute(*p.Handle, p.Text, p.Replacement)
	if err != nil {
		return nil, err
	}
	return SubstituteData{Result: result}, nil
}

func (s *Server) handleScan(payload json.RawMessage) (any, error) {
	if s.set == nil {
		return nil, fmt.Errorf("%w: no pattern library loaded", errBadRequest)
	}

	var p TextPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}

	hits, err := s.set.Scan(p.Text)
	if err != nil {
		return nil, err
	}
	return ScanData{Hits: hits}, nil
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload is required", errBadRequest)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func decodeText(payload json.RawMessage) (TextPayload, error) {
	var p TextPayload
	if err := decode(payload, &p); err != nil {
		return p, err
	}
	if p.Handle == nil {
		return p, fmt.Errorf("%w: handle is required", errBadRequest)
	}
	return p, nil
}

// errorCode classifies err for Response.Code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadRequest):
		return CodeBadRequest
	case errors.Is(err, registry.ErrUnknownHandle):
		return CodeUnknownHandle
	case errors.Is(err, registry.ErrCompile):
		return CodeCompileError
	default:
		return CodeMatchError
	}
}

func (s *Server) sendReady() {
	ready := ReadyData{Version: Version, Live: s.reg.Len()}
	if s.set != nil {
		ready.Patterns = s.set.Len()
	}
	s.send(nil, "ready", ready)
}

func (s *Server) send(id json.RawMessage, reqType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(id, reqType, err)
		return
	}
	if err := s.encoder.Encode(Response{
		ID:      id,
		Success: true,
		Type:    reqType,
		Data:    data,
	}); err != nil {
		s.logger.Warn("write response failed", "type", reqType, "error", err)
	}
}

func (s *Server) sendError(id json.RawMessage, reqType string, err error) {
	code := errorCode(err)
	s.logger.Debug("request failed", "type", reqType, "code", code, "error", err)

	if err := s.encoder.Encode(Response{
		ID:      id,
		Success: false,
		Type:    reqType,
		Error:   err.Error(),
		Code:    code,
	}); err != nil {
		s.logger.Warn("write response failed", "type", reqType, "error", err)
	}
}
