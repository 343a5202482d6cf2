package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/logging"
	"vidscribe/internal/mcp"
	"vidscribe/internal/services"
)

// SessionHeader carries the session identifier on every HTTP exchange.
const SessionHeader = "Mcp-Session-Id"

// Endpoint paths.
const (
	MCPPath    = "/mcp"
	HealthPath = "/healthz"
)

const maxBodyBytes = 4 << 20

// DefaultIdleTimeout is how long an unused session survives.
const DefaultIdleTimeout = 30 * time.Minute

// SessionFactory builds the handler that serves one session. It is called
// once per initialize request that carries no session header.
type SessionFactory func(ctx context.Context, sessionID string) (Handler, error)

type session struct {
	id      string
	handler Handler
	created time.Time

	// mu serializes requests; lastUsed is guarded by it.
	mu       sync.Mutex
	lastUsed time.Time
}

// HTTPServer multiplexes protocol sessions over HTTP.
type HTTPServer struct {
	bind        string
	token       string
	idleTimeout time.Duration
	factory     SessionFactory
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session

	listener net.Listener
	server   *http.Server
}

// HTTPOption configures an HTTPServer.
type HTTPOption func(*HTTPServer)

// WithToken requires a bearer token on /mcp requests.
func WithToken(token string) HTTPOption {
	return func(s *HTTPServer) { s.token = strings.TrimSpace(token) }
}

// WithIdleTimeout evicts sessions unused for d. Zero disables eviction.
func WithIdleTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPServer) {
		if d >= 0 {
			s.idleTimeout = d
		}
	}
}

// WithHTTPLogger sets the server logger.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(s *HTTPServer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPServer constructs a server bound to bind once Serve is called.
func NewHTTPServer(bind string, factory SessionFactory, opts ...HTTPOption) *HTTPServer {
	s := &HTTPServer{
		bind:        strings.TrimSpace(bind),
		idleTimeout: DefaultIdleTimeout,
		factory:     factory,
		logger:      logging.NewNop(),
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "http")

	mux := http.NewServeMux()
	mux.HandleFunc(MCPPath, s.requireToken(s.handleMCP))
	mux.HandleFunc(HealthPath, s.handleHealth)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Tool calls may run for many minutes; responses are not time boxed.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler exposes the routing table.
func (s *HTTPServer) Handler() http.Handler { return s.server.Handler }

// Listen binds the listener without serving.
func (s *HTTPServer) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or the configured bind before Listen.
func (s *HTTPServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *HTTPServer) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()
	s.logger.Info("http server listening",
		logging.String(logging.FieldEventType, "transport_ready"),
		logging.String("address", s.Addr()),
	)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if s.idleTimeout > 0 {
		go s.sweepLoop(sweepCtx)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info("http server stopped", logging.Int("sessions", s.SessionCount()))
	return nil
}

// SessionCount reports the number of live sessions.
func (s *HTTPServer) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *HTTPServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		s.writeJSON(w, http.StatusMethodNotAllowed, mcp.NewError(nil, mcp.CodeInvalidRequest, "method not allowed"))
	}
}

func (s *HTTPServer) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, mcp.NewError(nil, mcp.CodeInternalError, fmt.Sprintf("Internal error: %v", err)))
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
	var sess *session
	if sessionID == "" {
		req, decodeErr := mcp.DecodeRequest(body)
		if decodeErr != nil {
			s.writeJSON(w, http.StatusBadRequest, mcp.NewError(nil, mcp.CodeInternalError, fmt.Sprintf("Internal error: %v", decodeErr)))
			return
		}
		if req.Method != mcp.MethodInitialize {
			s.writeJSON(w, http.StatusBadRequest, mcp.NewError(req.ID, mcp.CodeInvalidRequest, "Missing "+SessionHeader+" header"))
			return
		}
		sess, err = s.createSession(r.Context())
		if err != nil {
			s.logger.Error("session creation failed", logging.Error(err))
			s.writeJSON(w, http.StatusInternalServerError, mcp.NewError(req.ID, mcp.CodeInternalError, fmt.Sprintf("Internal error: %v", err)))
			return
		}
	} else {
		sess = s.lookup(sessionID)
		if sess == nil {
			var id json.RawMessage
			if req, decodeErr := mcp.DecodeRequest(body); decodeErr == nil {
				id = req.ID
			}
			s.writeJSON(w, http.StatusNotFound, mcp.NewError(id, mcp.CodeInvalidRequest, "Session not found"))
			return
		}
	}

	// A dropped client must not abort a running transcription midway.
	ctx := services.WithSessionID(context.WithoutCancel(r.Context()), sess.id)
	sess.mu.Lock()
	resp := sess.handler.HandleMessage(ctx, body)
	sess.lastUsed = time.Now()
	sess.mu.Unlock()

	w.Header().Set(SessionHeader, sess.id)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
	if sessionID == "" {
		s.writeJSON(w, http.StatusBadRequest, mcp.NewError(nil, mcp.CodeInvalidRequest, "Missing "+SessionHeader+" header"))
		return
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, mcp.NewError(nil, mcp.CodeInvalidRequest, "Session not found"))
		return
	}
	s.logger.Info("session closed",
		logging.String(logging.FieldEventType, "session_closed"),
		logging.String(logging.FieldSessionID, sess.id),
		logging.Duration("age", time.Since(sess.created)),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

func (s *HTTPServer) createSession(ctx context.Context) (*session, error) {
	if s.factory == nil {
		return nil, errors.New("no session factory configured")
	}
	id := uuid.NewString()
	handler, err := s.factory(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sess := &session{id: id, handler: handler, created: now, lastUsed: now}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.logger.Info("session opened",
		logging.String(logging.FieldEventType, "session_opened"),
		logging.String(logging.FieldSessionID, id),
	)
	return sess, nil
}

func (s *HTTPServer) sweepLoop(ctx context.Context) {
	interval := s.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweepIdle(now)
		}
	}
}

// sweepIdle drops sessions unused for the idle timeout and returns how many
// were removed. Sessions serving a request are never dropped.
func (s *HTTPServer) sweepIdle(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	s.mu.Lock()
	var expired []*session
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if now.Sub(sess.lastUsed) >= s.idleTimeout {
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
		sess.mu.Unlock()
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.logger.Info("session expired",
			logging.String(logging.FieldEventType, "session_expired"),
			logging.String(logging.FieldSessionID, sess.id),
			logging.Duration("age", now.Sub(sess.created)),
		)
	}
	return len(expired)
}

func (s *HTTPServer) lookup(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}
