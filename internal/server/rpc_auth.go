package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// codeUnauthorized is sent in the JSON-RPC error body of a rejected request.
const codeUnauthorized = -32600

// requireToken wraps next with Bearer token authentication. Failures get a
// JSON-RPC 2.0 error body with status 401. An empty secret rejects every
// request: RPC needs explicit opt-in.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if validToken(secret, r.Header.Get("Authorization")) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"error":   map[string]any{"code": codeUnauthorized, "message": "Unauthorized"},
			"id":      nil,
		})
	})
}

// validToken compares the Bearer token against secret in constant time.
func validToken(secret, authHeader string) bool {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if secret == "" || !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
