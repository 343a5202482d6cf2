package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"vidscribe/internal/logging"
)

// ServeStdio reads one envelope per line from r and writes one response per
// line to w, flushing after each. Blank lines are skipped. It returns nil at
// end of input and ctx.Err() when ctx is cancelled between requests.
// Requests are handled strictly in order.
func ServeStdio(ctx context.Context, handler Handler, r io.Reader, w io.Writer, logger *slog.Logger) error {
	if handler == nil {
		return errors.New("stdio transport: handler is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "stdio")
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	logger.Info("listening on stdio", logging.String(logging.FieldEventType, "transport_ready"))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, readErr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			resp := handler.HandleMessage(ctx, bytes.TrimSpace(line))
			if err := writeLine(writer, resp); err != nil {
				return fmt.Errorf("stdio transport: write response: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				logger.Info("stdin closed", logging.String(logging.FieldEventType, "transport_closed"))
				return nil
			}
			return fmt.Errorf("stdio transport: read request: %w", readErr)
		}
	}
}

func writeLine(w *bufio.Writer, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
