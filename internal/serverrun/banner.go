package serverrun

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"vidscribe/internal/transport"
)

// clientConfig is the snippet an MCP client needs to reach the HTTP server.
type clientConfig struct {
	MCPServers map[string]clientServer `json:"mcpServers"`
}

type clientServer struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// EndpointURL returns the protocol endpoint for a bound address.
func EndpointURL(addr string) string {
	return "http://" + addr + transport.MCPPath
}

// WriteBanner prints the endpoint and a ready-to-paste client config.
func WriteBanner(w io.Writer, name, addr string, tokenRequired bool) error {
	server := clientServer{URL: EndpointURL(addr)}
	if tokenRequired {
		server.Headers = map[string]string{"Authorization": "Bearer <token>"}
	}
	snippet, err := json.MarshalIndent(clientConfig{MCPServers: map[string]clientServer{name: server}}, "", "  ")
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s listening on %s\n", name, server.URL)
	fmt.Fprintf(&b, "Health check: http://%s%s\n\n", addr, transport.HealthPath)
	b.WriteString("Client configuration:\n")
	b.Write(snippet)
	b.WriteByte('\n')
	_, err = io.WriteString(w, b.String())
	return err
}
