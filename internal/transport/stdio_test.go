package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"vidscribe/internal/mcp"
)

type echoHandler struct {
	seen []string
}

func (h *echoHandler) HandleMessage(_ context.Context, data []byte) mcp.Response {
	h.seen = append(h.seen, string(data))
	req, err := mcp.DecodeRequest(data)
	if err != nil {
		return mcp.NewError(nil, mcp.CodeInternalError, "Internal error: "+err.Error())
	}
	return mcp.NewResult(req.ID, map[string]string{"method": req.Method})
}

func TestServeStdioAnswersEachLine(t *testing.T) {
	handler := &echoHandler{}
	input := strings.Join([]string{
		`{"id":1,"method":"ping"}`,
		``,
		`   `,
		`{broken`,
		`{"id":2,"method":"tools/list"}`,
	}, "\n")
	var out bytes.Buffer

	if err := ServeStdio(context.Background(), handler, strings.NewReader(input), &out, nil); err != nil {
		t.Fatalf("ServeStdio: %v", err)
	}
	if len(handler.seen) != 3 {
		t.Fatalf("expected blank lines to be skipped, handler saw %q", handler.seen)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three responses, got %q", out.String())
	}
	var ids []string
	for _, line := range lines {
		var resp struct {
			ID    json.RawMessage `json:"id"`
			Error *mcp.Error      `json:"error"`
		}
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		ids = append(ids, string(resp.ID))
	}
	if strings.Join(ids, ",") != "1,null,2" {
		t.Fatalf("responses out of order or ids lost: %v", ids)
	}
}

func TestServeStdioStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := ServeStdio(ctx, &echoHandler{}, strings.NewReader(`{"id":1,"method":"ping"}`+"\n"), &out, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestServeStdioRejectsNilHandler(t *testing.T) {
	if err := ServeStdio(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
