package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpanel/middleware"
)

func newProxyRouter(upstreamURL string) *mux.Router {
	router := mux.NewRouter()
	proxyHandler := NewDiscordProxyHandler(upstreamURL, &http.Client{})
	proxyHandler.SetupEndpoints(router, middleware.NewBotTokenAuthMiddleware())
	return router
}

func TestProxy_MissingAuthMakesNoUpstreamCall(t *testing.T) {
	var upstreamCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/discord/users/@me", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&upstreamCalls), "upstream must never be called without a token")

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "missing authorization header", body["error"])
}

func TestProxy_GETForwardsPathQueryAndToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/channels/42/messages", r.URL.Path)
		assert.Equal(t, "limit=5&before=99", r.URL.RawQuery)
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","content":"hi"}]`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/discord/channels/42/messages?limit=5&before=99", nil)
	req.Header.Set("Authorization", "Bot test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[{"id":"1","content":"hi"}]`, recorder.Body.String())
}

func TestProxy_BareTokenGainsBotScheme(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/discord/users/@me", nil)
	req.Header.Set("Authorization", "test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestProxy_POSTBodyArrivesByteIdentical(t *testing.T) {
	sentBody := []byte(`{"content":"hello **world** <@123>"}`)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		received, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, sentBody, received)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"9"}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/discord/channels/42/messages", bytes.NewReader(sentBody))
	req.Header.Set("Authorization", "Bot test-token")
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"id":"9"}`, recorder.Body.String())
}

func TestProxy_Upstream204BecomesEmptySuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodDelete, "/api/discord/channels/42/messages/9", nil)
	req.Header.Set("Authorization", "Bot test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
}

func TestProxy_Upstream429PassesThroughVerbatim(t *testing.T) {
	rateLimitBody := `{"message":"You are being rate limited.","retry_after":1.5,"global":false}`

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(rateLimitBody))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/discord/channels/42/messages", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bot test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.JSONEq(t, rateLimitBody, recorder.Body.String())
}

func TestProxy_NonJSONUpstreamBodyBecomes500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>cloudflare says no</html>"))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/discord/users/@me", nil)
	req.Header.Set("Authorization", "Bot test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "upstream returned a non-JSON response", body["error"])
}

func TestProxy_UnreachableUpstreamBecomes500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // gone before the proxy ever dials it

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/discord/users/@me", nil)
	req.Header.Set("Authorization", "Bot test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "failed to reach discord api", body["error"])
}

func TestProxy_UpstreamErrorJSONPassesThroughWithStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"401: Unauthorized","code":0}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/discord/users/@me", nil)
	req.Header.Set("Authorization", "Bot bad-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.JSONEq(t, `{"message":"401: Unauthorized","code":0}`, recorder.Body.String())
}

func TestProxy_UnsupportedVerbNeverMatches(t *testing.T) {
	var upstreamCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodHead, "/api/discord/users/@me", nil)
	req.Header.Set("Authorization", "Bot test-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	assert.Equal(t, int64(0), atomic.LoadInt64(&upstreamCalls))
}
