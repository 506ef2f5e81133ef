package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpanel/markdown"
)

func newRenderRouter() *mux.Router {
	router := mux.NewRouter()
	NewRenderHandler().SetupEndpoints(router)
	return router
}

func postRender(t *testing.T, router *mux.Router, request RenderRequest) (int, RenderResponse) {
	t.Helper()

	payload, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var response RenderResponse
	if recorder.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	}
	return recorder.Code, response
}

func TestRenderEndpoint(t *testing.T) {
	router := newRenderRouter()

	t.Run("ParsesContentAndResolvesMentions", func(t *testing.T) {
		status, response := postRender(t, router, RenderRequest{
			Content: "hi <@1>",
			Users:   map[string]string{"1": "alice"},
		})

		assert.Equal(t, http.StatusOK, status)
		require.Len(t, response.Nodes, 1)

		children := response.Nodes[0].Children
		require.Len(t, children, 2)
		assert.Equal(t, markdown.NodeText, children[0].Type)
		assert.Equal(t, markdown.NodeMention, children[1].Type)
		assert.Equal(t, "alice", children[1].Label)
	})

	t.Run("UnresolvedMentionKeepsRawID", func(t *testing.T) {
		status, response := postRender(t, router, RenderRequest{Content: "<@999>"})

		assert.Equal(t, http.StatusOK, status)
		mention := response.Nodes[0].Children[0]
		assert.Equal(t, "999", mention.Label)
	})

	t.Run("EmptyContentYieldsEmptySequence", func(t *testing.T) {
		status, response := postRender(t, router, RenderRequest{Content: ""})

		assert.Equal(t, http.StatusOK, status)
		assert.NotNil(t, response.Nodes)
		assert.Empty(t, response.Nodes)
	})

	t.Run("InvalidBodyIsRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewReader([]byte("{not json")))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("NodeJSONRoundTripsThroughTheWireShape", func(t *testing.T) {
		status, response := postRender(t, router, RenderRequest{
			Content: "```js\nconsole.log(1)\n```",
		})

		assert.Equal(t, http.StatusOK, status)
		require.Len(t, response.Nodes, 1)
		assert.Equal(t, markdown.NodeCodeBlock, response.Nodes[0].Type)
		assert.Equal(t, "js", response.Nodes[0].Language)
		assert.Equal(t, "console.log(1)", response.Nodes[0].Value)
	})
}
