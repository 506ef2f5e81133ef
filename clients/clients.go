package clients

import (
	"context"
	"strings"

	"botpanel/models"
)

// DiscordClient defines the typed operations the panel performs against the
// Discord REST API. Every call takes the caller's bot token: the backend
// holds no credentials of its own and keeps no session state between calls.
type DiscordClient interface {
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
	GetGuilds(ctx context.Context, token string) ([]models.Guild, error)
	GetGuildChannels(ctx context.Context, token, guildID string) ([]models.Channel, error)
	GetDMChannels(ctx context.Context, token string) ([]models.Channel, error)
	CreateDMChannel(ctx context.Context, token, recipientID string) (*models.Channel, error)
	GetMessages(ctx context.Context, token, channelID string, limit int, beforeID string) ([]models.Message, error)
	SendMessage(ctx context.Context, token, channelID, content string) (*models.Message, error)
	EditMessage(ctx context.Context, token, channelID, messageID, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, token, channelID, messageID string) error
	AddReaction(ctx context.Context, token, channelID, messageID, emoji string) error
}

// NormalizeBotToken ensures the token carries the "Bot " scheme the upstream
// API expects. Browser callers may send either the bare token or the full
// header value; both are accepted.
func NormalizeBotToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bot ") {
		return token
	}
	return "Bot " + token
}
