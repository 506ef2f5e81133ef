package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"

	"botpanel/appctx"
	"botpanel/clients"
	"botpanel/markdown"
	"botpanel/middleware"
	"botpanel/models"
)

// PanelAPIHandler serves the typed endpoints the browser UI drives all day:
// token validation, guild/channel browsing and message CRUD. Everything goes
// through the DiscordClient interface so tests can stand in a mock.
type PanelAPIHandler struct {
	discordClient clients.DiscordClient
}

func NewPanelAPIHandler(discordClient clients.DiscordClient) *PanelAPIHandler {
	return &PanelAPIHandler{
		discordClient: discordClient,
	}
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

type CreateDMRequest struct {
	RecipientID string `json:"recipient_id"`
}

// RenderedMessage is a fetched message plus the parsed form of its content,
// mentions already resolved against the message's own mention list.
type RenderedMessage struct {
	models.Message
	Parsed []markdown.Node `json:"parsed"`
}

func (h *PanelAPIHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.BotTokenAuthMiddleware) {
	log.Printf("🚀 Registering panel API endpoints")

	router.HandleFunc("/api/auth/validate", authMiddleware.WithAuth(h.HandleValidateToken)).Methods("GET")
	log.Printf("✅ GET /api/auth/validate endpoint registered")

	router.HandleFunc("/api/guilds", authMiddleware.WithAuth(h.HandleListGuilds)).Methods("GET")
	log.Printf("✅ GET /api/guilds endpoint registered")

	router.HandleFunc("/api/guilds/{guildID}/channels", authMiddleware.WithAuth(h.HandleListGuildChannels)).
		Methods("GET")
	log.Printf("✅ GET /api/guilds/{guildID}/channels endpoint registered")

	router.HandleFunc("/api/users/@me/channels", authMiddleware.WithAuth(h.HandleListDMChannels)).Methods("GET")
	log.Printf("✅ GET /api/users/@me/channels endpoint registered")

	router.HandleFunc("/api/users/@me/channels", authMiddleware.WithAuth(h.HandleCreateDMChannel)).Methods("POST")
	log.Printf("✅ POST /api/users/@me/channels endpoint registered")

	router.HandleFunc("/api/channels/{channelID}/messages", authMiddleware.WithAuth(h.HandleListMessages)).
		Methods("GET")
	log.Printf("✅ GET /api/channels/{channelID}/messages endpoint registered")

	router.HandleFunc("/api/channels/{channelID}/messages", authMiddleware.WithAuth(h.HandleSendMessage)).
		Methods("POST")
	log.Printf("✅ POST /api/channels/{channelID}/messages endpoint registered")

	router.HandleFunc("/api/channels/{channelID}/messages/{messageID}", authMiddleware.WithAuth(h.HandleEditMessage)).
		Methods("PATCH")
	log.Printf("✅ PATCH /api/channels/{channelID}/messages/{messageID} endpoint registered")

	router.HandleFunc("/api/channels/{channelID}/messages/{messageID}", authMiddleware.WithAuth(h.HandleDeleteMessage)).
		Methods("DELETE")
	log.Printf("✅ DELETE /api/channels/{channelID}/messages/{messageID} endpoint registered")

	router.HandleFunc(
		"/api/channels/{channelID}/messages/{messageID}/reactions/{emoji}",
		authMiddleware.WithAuth(h.HandleAddReaction),
	).Methods("PUT")
	log.Printf("✅ PUT /api/channels/{channelID}/messages/{messageID}/reactions/{emoji} endpoint registered")

	log.Printf("✅ All panel API endpoints registered successfully")
}

func (h *PanelAPIHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Token validation request received from %s", r.RemoteAddr)

	token, _ := appctx.GetBotToken(r.Context())
	user, err := h.discordClient.GetCurrentUser(r.Context(), token)
	if err != nil {
		log.Printf("❌ Token validation failed: %v", err)
		h.writeUpstreamError(w, err, "failed to validate token")
		return
	}

	log.Printf("✅ Token validated for bot user %s", user.ID)
	writeJSONResponse(w, http.StatusOK, user)
}

func (h *PanelAPIHandler) HandleListGuilds(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List guilds request received from %s", r.RemoteAddr)

	token, _ := appctx.GetBotToken(r.Context())
	guilds, err := h.discordClient.GetGuilds(r.Context(), token)
	if err != nil {
		log.Printf("❌ Failed to list guilds: %v", err)
		h.writeUpstreamError(w, err, "failed to list guilds")
		return
	}

	writeJSONResponse(w, http.StatusOK, guilds)
}

func (h *PanelAPIHandler) HandleListGuildChannels(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List guild channels request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	guildID := vars["guildID"]

	token, _ := appctx.GetBotToken(r.Context())
	channels, err := h.discordClient.GetGuildChannels(r.Context(), token, guildID)
	if err != nil {
		log.Printf("❌ Failed to list channels for guild %s: %v", guildID, err)
		h.writeUpstreamError(w, err, "failed to list guild channels")
		return
	}

	writeJSONResponse(w, http.StatusOK, channels)
}

func (h *PanelAPIHandler) HandleListDMChannels(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List DM channels request received from %s", r.RemoteAddr)

	token, _ := appctx.GetBotToken(r.Context())
	channels, err := h.discordClient.GetDMChannels(r.Context(), token)
	if err != nil {
		log.Printf("❌ Failed to list DM channels: %v", err)
		h.writeUpstreamError(w, err, "failed to list DM channels")
		return
	}

	writeJSONResponse(w, http.StatusOK, channels)
}

func (h *PanelAPIHandler) HandleCreateDMChannel(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Create DM channel request received from %s", r.RemoteAddr)

	var req CreateDMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.RecipientID == "" {
		log.Printf("❌ Missing recipient_id in request")
		http.Error(w, "recipient_id is required", http.StatusBadRequest)
		return
	}

	token, _ := appctx.GetBotToken(r.Context())
	channel, err := h.discordClient.CreateDMChannel(r.Context(), token, req.RecipientID)
	if err != nil {
		log.Printf("❌ Failed to create DM channel: %v", err)
		h.writeUpstreamError(w, err, "failed to create DM channel")
		return
	}

	writeJSONResponse(w, http.StatusCreated, channel)
}

func (h *PanelAPIHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List messages request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	channelID := vars["channelID"]

	limit := 50
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 || parsed > 100 {
			log.Printf("❌ Invalid limit parameter: %q", rawLimit)
			http.Error(w, "limit must be an integer between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	beforeID := r.URL.Query().Get("before")

	token, _ := appctx.GetBotToken(r.Context())
	messages, err := h.discordClient.GetMessages(r.Context(), token, channelID, limit, beforeID)
	if err != nil {
		log.Printf("❌ Failed to list messages for channel %s: %v", channelID, err)
		h.writeUpstreamError(w, err, "failed to list messages")
		return
	}

	rendered := make([]RenderedMessage, 0, len(messages))
	for _, message := range messages {
		rendered = append(rendered, renderMessage(message))
	}

	writeJSONResponse(w, http.StatusOK, rendered)
}

func (h *PanelAPIHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Send message request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	channelID := vars["channelID"]

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		log.Printf("❌ Missing content in request")
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	token, _ := appctx.GetBotToken(r.Context())
	message, err := h.discordClient.SendMessage(r.Context(), token, channelID, req.Content)
	if err != nil {
		log.Printf("❌ Failed to send message to channel %s: %v", channelID, err)
		h.writeUpstreamError(w, err, "failed to send message")
		return
	}

	log.Printf("✅ Message %s sent to channel %s", message.ID, channelID)
	writeJSONResponse(w, http.StatusCreated, renderMessage(*message))
}

func (h *PanelAPIHandler) HandleEditMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("✏️ Edit message request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	channelID := vars["channelID"]
	messageID := vars["messageID"]

	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		log.Printf("❌ Missing content in request")
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	token, _ := appctx.GetBotToken(r.Context())
	message, err := h.discordClient.EditMessage(r.Context(), token, channelID, messageID, req.Content)
	if err != nil {
		log.Printf("❌ Failed to edit message %s: %v", messageID, err)
		h.writeUpstreamError(w, err, "failed to edit message")
		return
	}

	log.Printf("✅ Message %s edited successfully", messageID)
	writeJSONResponse(w, http.StatusOK, renderMessage(*message))
}

func (h *PanelAPIHandler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Delete message request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	channelID := vars["channelID"]
	messageID := vars["messageID"]

	token, _ := appctx.GetBotToken(r.Context())
	if err := h.discordClient.DeleteMessage(r.Context(), token, channelID, messageID); err != nil {
		log.Printf("❌ Failed to delete message %s: %v", messageID, err)
		h.writeUpstreamError(w, err, "failed to delete message")
		return
	}

	log.Printf("✅ Message %s deleted successfully", messageID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PanelAPIHandler) HandleAddReaction(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Add reaction request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	channelID := vars["channelID"]
	messageID := vars["messageID"]
	emoji := vars["emoji"]

	token, _ := appctx.GetBotToken(r.Context())
	if err := h.discordClient.AddReaction(r.Context(), token, channelID, messageID, emoji); err != nil {
		log.Printf("❌ Failed to add reaction to message %s: %v", messageID, err)
		h.writeUpstreamError(w, err, "failed to add reaction")
		return
	}

	log.Printf("✅ Reaction added to message %s", messageID)
	w.WriteHeader(http.StatusNoContent)
}

// renderMessage attaches the parsed content, resolving user mentions against
// the mention list Discord ships on the message itself.
func renderMessage(message models.Message) RenderedMessage {
	users := make(map[string]string, len(message.Mentions))
	for _, mentioned := range message.Mentions {
		name := mentioned.GlobalName
		if name == "" {
			name = mentioned.Username
		}
		users[mentioned.ID] = name
	}

	nodes := markdown.Resolve(markdown.Parse(message.Content), markdown.Lookups{Users: users})
	return RenderedMessage{Message: message, Parsed: nodes}
}

// writeUpstreamError passes an upstream HTTP status through when the error
// carries one, and falls back to a plain 500 otherwise. Upstream error
// messages are preserved so the UI can show Discord's own wording.
func (h *PanelAPIHandler) writeUpstreamError(w http.ResponseWriter, err error, fallback string) {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		message := fallback
		if restErr.Message != nil && restErr.Message.Message != "" {
			message = restErr.Message.Message
		}
		writeJSONResponse(w, restErr.Response.StatusCode, map[string]string{"error": message})
		return
	}

	writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": fallback})
}
