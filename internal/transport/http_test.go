package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vidscribe/internal/mcp"
	"vidscribe/internal/services"
)

type countingFactory struct {
	mu       sync.Mutex
	sessions []string
	handler  func(id string) Handler
}

func (f *countingFactory) build(_ context.Context, id string) (Handler, error) {
	f.mu.Lock()
	f.sessions = append(f.sessions, id)
	f.mu.Unlock()
	if f.handler != nil {
		return f.handler(id), nil
	}
	return &echoHandler{}, nil
}

func post(t *testing.T, h http.Handler, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, MCPPath, strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (json.RawMessage, *mcp.Error) {
	t.Helper()
	var resp struct {
		ID    json.RawMessage `json:"id"`
		Error *mcp.Error      `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp.ID, resp.Error
}

func TestHTTPInitializeCreatesSession(t *testing.T) {
	factory := &countingFactory{}
	srv := NewHTTPServer("127.0.0.1:0", factory.build)
	h := srv.Handler()

	w := post(t, h, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	sessionID := w.Header().Get(SessionHeader)
	if sessionID == "" {
		t.Fatal("expected session header on initialize response")
	}
	if srv.SessionCount() != 1 {
		t.Fatalf("expected one session, got %d", srv.SessionCount())
	}

	w = post(t, h, sessionID, `{"jsonrpc":"2.0","id":2,"method":"ping"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get(SessionHeader); got != sessionID {
		t.Fatalf("expected session %q echoed, got %q", sessionID, got)
	}
	if len(factory.sessions) != 1 {
		t.Fatalf("expected one factory call, got %d", len(factory.sessions))
	}
}

func TestHTTPMissingSessionHeader(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	w := post(t, srv.Handler(), "", `{"id":5,"method":"tools/list"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	id, rpcErr := decodeEnvelope(t, w)
	if rpcErr == nil || string(id) != "5" {
		t.Fatalf("expected error envelope echoing id, got id=%s err=%+v", id, rpcErr)
	}
}

func TestHTTPUnknownSession(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	w := post(t, srv.Handler(), "does-not-exist", `{"id":"x","method":"ping"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	id, rpcErr := decodeEnvelope(t, w)
	if rpcErr == nil || string(id) != `"x"` {
		t.Fatalf("expected error envelope echoing id, got id=%s err=%+v", id, rpcErr)
	}
}

func TestHTTPMalformedBodyWithoutSession(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	w := post(t, srv.Handler(), "", `{nope`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	id, rpcErr := decodeEnvelope(t, w)
	if rpcErr == nil || rpcErr.Code != mcp.CodeInternalError || string(id) != "null" {
		t.Fatalf("unexpected envelope id=%s err=%+v", id, rpcErr)
	}
}

func TestHTTPDeleteEndsSession(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	h := srv.Handler()
	sessionID := post(t, h, "", `{"id":1,"method":"initialize"}`).Header().Get(SessionHeader)

	req := httptest.NewRequest(http.MethodDelete, MCPPath, nil)
	req.Header.Set(SessionHeader, sessionID)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if srv.SessionCount() != 0 {
		t.Fatalf("expected no sessions, got %d", srv.SessionCount())
	}
	if w := post(t, h, sessionID, `{"id":2,"method":"ping"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestHTTPSessionsAreIsolated(t *testing.T) {
	handlers := map[string]*echoHandler{}
	var mu sync.Mutex
	factory := &countingFactory{handler: func(id string) Handler {
		h := &echoHandler{}
		mu.Lock()
		handlers[id] = h
		mu.Unlock()
		return h
	}}
	srv := NewHTTPServer("127.0.0.1:0", factory.build)
	h := srv.Handler()

	first := post(t, h, "", `{"id":1,"method":"initialize"}`).Header().Get(SessionHeader)
	second := post(t, h, "", `{"id":1,"method":"initialize"}`).Header().Get(SessionHeader)
	if first == second {
		t.Fatal("expected distinct session ids")
	}
	post(t, h, first, `{"id":2,"method":"tools/list"}`)

	if len(handlers[first].seen) != 2 || len(handlers[second].seen) != 1 {
		t.Fatalf("requests leaked across sessions: first=%q second=%q", handlers[first].seen, handlers[second].seen)
	}
}

type slowHandler struct {
	inflight atomic.Int32
	overlap  atomic.Bool
	session  atomic.Value
}

func (h *slowHandler) HandleMessage(ctx context.Context, data []byte) mcp.Response {
	if h.inflight.Add(1) > 1 {
		h.overlap.Store(true)
	}
	defer h.inflight.Add(-1)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		h.session.Store(id)
	}
	time.Sleep(10 * time.Millisecond)
	req, _ := mcp.DecodeRequest(data)
	return mcp.NewResult(req.ID, nil)
}

func TestHTTPSerializesRequestsWithinSession(t *testing.T) {
	slow := &slowHandler{}
	srv := NewHTTPServer("127.0.0.1:0", func(context.Context, string) (Handler, error) { return slow, nil })
	h := srv.Handler()
	sessionID := post(t, h, "", `{"id":0,"method":"initialize"}`).Header().Get(SessionHeader)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, MCPPath, strings.NewReader(`{"id":1,"method":"tools/call"}`))
			req.Header.Set(SessionHeader, sessionID)
			h.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()
	if slow.overlap.Load() {
		t.Fatal("requests within one session overlapped")
	}
	if got, _ := slow.session.Load().(string); got != sessionID {
		t.Fatalf("expected session id %q in context, got %q", sessionID, got)
	}
}

func TestHTTPFactoryFailure(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", func(context.Context, string) (Handler, error) {
		return nil, errors.New("models dir unreadable")
	})
	w := post(t, srv.Handler(), "", `{"id":1,"method":"initialize"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if srv.SessionCount() != 0 {
		t.Fatalf("failed session must not be registered")
	}
}

func TestHTTPHealth(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	h := srv.Handler()
	post(t, h, "", `{"id":1,"method":"initialize"}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if payload.Status != "ok" || payload.Sessions != 1 {
		t.Fatalf("unexpected health payload %+v", payload)
	}
}

func TestHTTPTokenRequired(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build, WithToken("s3cret"))
	h := srv.Handler()

	w := post(t, h, "", `{"id":1,"method":"initialize"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if id, rpcErr := decodeEnvelope(t, w); string(id) != "null" || rpcErr == nil || rpcErr.Code != mcp.CodeInvalidRequest {
		t.Fatalf("unexpected unauthorized envelope id=%s err=%+v", id, rpcErr)
	}

	wrong := httptest.NewRequest(http.MethodPost, MCPPath, strings.NewReader(`{"id":1,"method":"initialize"}`))
	wrong.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, wrong)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}
	if _, rpcErr := decodeEnvelope(t, w); rpcErr == nil || rpcErr.Message != "Unauthorized" {
		t.Fatalf("unexpected unauthorized error %+v", rpcErr)
	}

	req := httptest.NewRequest(http.MethodPost, MCPPath, strings.NewReader(`{"id":1,"method":"initialize"}`))
	req.Header.Set("Authorization", "Bearer s3cret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	health := httptest.NewRecorder()
	h.ServeHTTP(health, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	if health.Code != http.StatusOK {
		t.Fatalf("health must not require a token, got %d", health.Code)
	}
}

func TestHTTPSweepDropsIdleSessions(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build, WithIdleTimeout(time.Minute))
	h := srv.Handler()
	w := post(t, h, "", `{"id":1,"method":"initialize"}`)
	id := w.Header().Get(SessionHeader)
	if w.Code != http.StatusOK || id == "" {
		t.Fatalf("initialize failed: %d", w.Code)
	}

	if n := srv.sweepIdle(time.Now()); n != 0 {
		t.Fatalf("fresh session swept: %d", n)
	}
	if n := srv.sweepIdle(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected one idle session swept, got %d", n)
	}
	if srv.SessionCount() != 0 {
		t.Fatalf("expected no sessions, got %d", srv.SessionCount())
	}
	if w := post(t, h, id, `{"id":2,"method":"ping"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for swept session, got %d", w.Code)
	}
}

func TestHTTPSweepSkipsBusyAndDisabled(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build, WithIdleTimeout(time.Minute))
	w := post(t, srv.Handler(), "", `{"id":1,"method":"initialize"}`)
	sess := srv.lookup(w.Header().Get(SessionHeader))
	if sess == nil {
		t.Fatal("session not registered")
	}
	sess.mu.Lock()
	if n := srv.sweepIdle(time.Now().Add(time.Hour)); n != 0 {
		t.Fatalf("busy session swept: %d", n)
	}
	sess.mu.Unlock()

	never := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build, WithIdleTimeout(0))
	post(t, never.Handler(), "", `{"id":1,"method":"initialize"}`)
	if n := never.sweepIdle(time.Now().Add(24 * time.Hour)); n != 0 || never.SessionCount() != 1 {
		t.Fatalf("eviction must be disabled, swept %d", n)
	}
}

func TestHTTPRejectsOtherMethods(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, MCPPath, nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHTTPServeShutsDownOnCancel(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", (&countingFactory{}).build)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + HealthPath)
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
