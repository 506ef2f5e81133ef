package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"botpanel/appctx"
	"botpanel/clients"
	"botpanel/middleware"
)

// DiscordProxyHandler forwards authenticated calls onto the upstream Discord
// REST API verbatim. It is a pure passthrough: no retries, no rate-limit
// handling, no caching, no shared state between requests. The browser gets
// exactly what upstream said, except that 204 stays bodyless and non-JSON or
// failed upstream responses are normalized to a 500 error body.
type DiscordProxyHandler struct {
	upstreamBase string
	httpClient   *http.Client
}

func NewDiscordProxyHandler(upstreamBase string, httpClient *http.Client) *DiscordProxyHandler {
	return &DiscordProxyHandler{
		upstreamBase: strings.TrimRight(upstreamBase, "/"),
		httpClient:   httpClient,
	}
}

func (h *DiscordProxyHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.BotTokenAuthMiddleware) {
	log.Printf("🚀 Registering Discord proxy endpoint")

	router.HandleFunc("/api/discord/{path:.*}", authMiddleware.WithAuth(h.HandleProxy)).
		Methods("GET", "POST", "PUT", "PATCH", "DELETE")
	log.Printf("✅ ANY /api/discord/{path} endpoint registered")
}

func (h *DiscordProxyHandler) HandleProxy(w http.ResponseWriter, r *http.Request) {
	requestID, _ := appctx.GetRequestID(r.Context())

	token, ok := appctx.GetBotToken(r.Context())
	if !ok {
		// Unreachable behind the auth middleware, but the handler must not
		// depend on wiring order.
		log.Printf("❌ [%s] Bot token not found in context", requestID)
		h.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	path := mux.Vars(r)["path"]
	upstreamURL := h.upstreamBase + "/" + path
	if r.Method == http.MethodGet && r.URL.RawQuery != "" {
		upstreamURL += "?" + r.URL.RawQuery
	}

	// Mutating verbs hand the inbound body straight through, so large
	// multipart uploads are never buffered here.
	var body io.Reader
	if r.Method != http.MethodGet {
		body = r.Body
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, upstreamURL, body)
	if err != nil {
		log.Printf("❌ [%s] Failed to build upstream request: %v", requestID, err)
		h.writeErrorResponse(w, "failed to reach discord api", http.StatusInternalServerError)
		return
	}

	upstreamReq.Header.Set("Authorization", clients.NormalizeBotToken(token))
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		upstreamReq.Header.Set("Content-Type", contentType)
	}
	if r.ContentLength > 0 {
		upstreamReq.ContentLength = r.ContentLength
	}

	log.Printf("📤 [%s] Forwarding %s /%s", requestID, r.Method, path)

	resp, err := h.httpClient.Do(upstreamReq)
	if err != nil {
		log.Printf("❌ [%s] Upstream call failed: %v", requestID, err)
		h.writeErrorResponse(w, "failed to reach discord api", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		log.Printf("✅ [%s] Upstream returned 204", requestID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("❌ [%s] Failed to read upstream response: %v", requestID, err)
		h.writeErrorResponse(w, "failed to read upstream response", http.StatusInternalServerError)
		return
	}

	if len(responseBody) == 0 {
		w.WriteHeader(resp.StatusCode)
		return
	}

	// Anything upstream says with a JSON body passes through untouched,
	// error statuses included. Only unparseable bodies are normalized.
	if !json.Valid(responseBody) {
		log.Printf("❌ [%s] Upstream returned non-JSON response (status %d)", requestID, resp.StatusCode)
		h.writeErrorResponse(w, "upstream returned a non-JSON response", http.StatusInternalServerError)
		return
	}

	if resp.StatusCode >= 400 {
		log.Printf("⚠️ [%s] Upstream returned status %d", requestID, resp.StatusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(responseBody); err != nil {
		log.Printf("❌ [%s] Failed to write proxy response: %v", requestID, err)
	}
}

func (h *DiscordProxyHandler) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
