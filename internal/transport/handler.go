package transport

import (
	"context"

	"vidscribe/internal/mcp"
)

// Handler turns one raw envelope into a response. Implemented by
// *mcp.Dispatcher.
type Handler interface {
	HandleMessage(ctx context.Context, data []byte) mcp.Response
}
