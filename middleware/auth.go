package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"botpanel/appctx"
	"botpanel/core"
)

// BotTokenAuthMiddleware guards every endpoint that reaches upstream. It only
// checks that a token is present and stashes it in the request context; the
// token's validity is Discord's call, surfaced as an upstream 401.
type BotTokenAuthMiddleware struct{}

// NewBotTokenAuthMiddleware creates a new authentication middleware instance
func NewBotTokenAuthMiddleware() *BotTokenAuthMiddleware {
	return &BotTokenAuthMiddleware{}
}

// WithAuth wraps an HTTP handler with bot token extraction. Requests without
// an Authorization header are rejected before any upstream call is made.
func (m *BotTokenAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		// Accept both "Bot <token>" and the bare token; strip the scheme so
		// downstream code always sees the bare credential.
		token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authHeader), "Bot "))
		if token == "" || token == "Bot" {
			log.Printf("❌ Empty bot token")
			m.writeErrorResponse(w, "empty bot token", http.StatusUnauthorized)
			return
		}

		ctx := appctx.SetBotToken(r.Context(), token)
		ctx = appctx.SetRequestID(ctx, core.NewID("req"))
		r = r.WithContext(ctx)

		next(w, r)
	}
}

// writeErrorResponse writes a standardized error response
func (m *BotTokenAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
