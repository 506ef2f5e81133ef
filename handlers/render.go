package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"botpanel/markdown"
)

// RenderHandler exposes the content parser over HTTP so the browser can hand
// raw message markdown plus its lookup tables to the backend and get the
// structured node sequence back. Parsing is pure and needs no auth: nothing
// here touches upstream.
type RenderHandler struct{}

func NewRenderHandler() *RenderHandler {
	return &RenderHandler{}
}

type RenderRequest struct {
	Content  string            `json:"content"`
	Users    map[string]string `json:"users,omitempty"`
	Roles    map[string]string `json:"roles,omitempty"`
	Channels map[string]string `json:"channels,omitempty"`
}

type RenderResponse struct {
	Nodes []markdown.Node `json:"nodes"`
}

func (h *RenderHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering render endpoint")

	router.HandleFunc("/api/render", h.HandleRender).Methods("POST")
	log.Printf("✅ POST /api/render endpoint registered")
}

func (h *RenderHandler) HandleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse render request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	nodes := markdown.Parse(req.Content)
	nodes = markdown.Resolve(nodes, markdown.Lookups{
		Users:    req.Users,
		Roles:    req.Roles,
		Channels: req.Channels,
	})

	writeJSONResponse(w, http.StatusOK, RenderResponse{Nodes: nodes})
}

// writeJSONResponse writes a JSON payload with the given status, shared by
// the typed handlers in this package.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
