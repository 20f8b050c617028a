package mcp

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/server"
)

// HTTPHandler serves MCP over streamable HTTP. A non-empty apiKey
// requires "Authorization: Bearer <apiKey>" on every request.
func HTTPHandler(catalogName, apiKey string) http.Handler {
	httpServer := server.NewStreamableHTTPServer(NewServer(catalogName), server.WithStateLess(true))

	var h http.Handler = httpServer
	if apiKey != "" {
		h = bearerAuth(apiKey, httpServer)
	}
	return h
}

func bearerAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
			http.Error(w, `{"error":"missing Authorization header"}`, http.StatusUnauthorized)
			return
		}
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp", error="invalid_token"`)
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
