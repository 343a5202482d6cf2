package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"vidscribe/internal/mcp"
)

// requireToken validates bearer tokens. An empty token disables the check.
// Rejections carry an error envelope like every other /mcp failure.
func (s *HTTPServer) requireToken(next http.HandlerFunc) http.HandlerFunc {
	if s.token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
			s.writeJSON(w, http.StatusUnauthorized, mcp.NewError(nil, mcp.CodeInvalidRequest, "Unauthorized"))
			return
		}
		next(w, r)
	}
}
