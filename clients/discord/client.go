package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"botpanel/clients"
	"botpanel/models"
)

// DiscordClient implements the clients.DiscordClient interface on top of
// discordgo's REST bindings. No gateway connection is ever opened: each call
// builds a throwaway session around the caller's token and the shared HTTP
// client, so calls are stateless and safe to run concurrently.
type DiscordClient struct {
	// httpClient is shared across sessions; timeouts are imposed here
	httpClient *http.Client
}

// NewDiscordClient creates a new Discord REST client
func NewDiscordClient(httpClient *http.Client) clients.DiscordClient {
	return &DiscordClient{
		httpClient: httpClient,
	}
}

func (c *DiscordClient) session(token string) (*discordgo.Session, error) {
	sdkClient, err := discordgo.New(clients.NormalizeBotToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	if c.httpClient != nil {
		sdkClient.Client = c.httpClient
	}
	return sdkClient, nil
}

// GetCurrentUser fetches the bot account behind the token (users/@me). Used
// to validate a token before the UI stores it.
func (c *DiscordClient) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordUser, err := sdkClient.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	user := convertUser(discordUser)
	return &user, nil
}

// GetGuilds lists the guilds the bot account is a member of.
func (c *DiscordClient) GetGuilds(ctx context.Context, token string) ([]models.Guild, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordGuilds, err := sdkClient.UserGuilds(0, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guilds: %w", err)
	}

	guilds := make([]models.Guild, 0, len(discordGuilds))
	for _, g := range discordGuilds {
		guilds = append(guilds, models.Guild{
			ID:   g.ID,
			Name: g.Name,
			Icon: g.Icon,
		})
	}
	return guilds, nil
}

// GetGuildChannels lists the channels of one guild.
func (c *DiscordClient) GetGuildChannels(ctx context.Context, token, guildID string) ([]models.Channel, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordChannels, err := sdkClient.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild channels: %w", err)
	}

	channels := make([]models.Channel, 0, len(discordChannels))
	for _, ch := range discordChannels {
		channels = append(channels, convertChannel(ch))
	}
	return channels, nil
}

// GetDMChannels lists the bot's open direct-message channels.
func (c *DiscordClient) GetDMChannels(ctx context.Context, token string) ([]models.Channel, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordChannels, err := sdkClient.UserChannels(discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch DM channels: %w", err)
	}

	channels := make([]models.Channel, 0, len(discordChannels))
	for _, ch := range discordChannels {
		channels = append(channels, convertChannel(ch))
	}
	return channels, nil
}

// CreateDMChannel opens (or returns the existing) DM channel with a user.
func (c *DiscordClient) CreateDMChannel(ctx context.Context, token, recipientID string) (*models.Channel, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordChannel, err := sdkClient.UserChannelCreate(recipientID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create DM channel: %w", err)
	}

	channel := convertChannel(discordChannel)
	return &channel, nil
}

// GetMessages fetches up to limit messages from a channel, newest first.
// A non-empty beforeID pages backwards through history.
func (c *DiscordClient) GetMessages(
	ctx context.Context,
	token, channelID string,
	limit int,
	beforeID string,
) ([]models.Message, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordMessages, err := sdkClient.ChannelMessages(
		channelID,
		limit,
		beforeID,
		"",
		"",
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages := make([]models.Message, 0, len(discordMessages))
	for _, msg := range discordMessages {
		messages = append(messages, convertMessage(msg))
	}
	return messages, nil
}

// SendMessage posts a plain content message to a channel.
func (c *DiscordClient) SendMessage(ctx context.Context, token, channelID, content string) (*models.Message, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordMessage, err := sdkClient.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	message := convertMessage(discordMessage)
	return &message, nil
}

// EditMessage replaces the content of a message the bot authored.
func (c *DiscordClient) EditMessage(
	ctx context.Context,
	token, channelID, messageID, content string,
) (*models.Message, error) {
	sdkClient, err := c.session(token)
	if err != nil {
		return nil, err
	}

	discordMessage, err := sdkClient.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}

	message := convertMessage(discordMessage)
	return &message, nil
}

// DeleteMessage removes a message.
func (c *DiscordClient) DeleteMessage(ctx context.Context, token, channelID, messageID string) error {
	sdkClient, err := c.session(token)
	if err != nil {
		return err
	}

	if err := sdkClient.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// AddReaction adds the bot's own reaction to a message. The emoji parameter
// is either a unicode emoji or a custom one in name:id form.
func (c *DiscordClient) AddReaction(ctx context.Context, token, channelID, messageID, emoji string) error {
	sdkClient, err := c.session(token)
	if err != nil {
		return err
	}

	if err := sdkClient.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// Conversions from discordgo's types to our wire models. Kept in one place so
// the handler layer never sees SDK types.

func convertUser(u *discordgo.User) models.User {
	if u == nil {
		return models.User{}
	}
	return models.User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		GlobalName:    u.GlobalName,
		Avatar:        u.Avatar,
		Bot:           u.Bot,
	}
}

func convertChannel(ch *discordgo.Channel) models.Channel {
	channel := models.Channel{
		ID:       ch.ID,
		Type:     int(ch.Type),
		Name:     ch.Name,
		GuildID:  ch.GuildID,
		Topic:    ch.Topic,
		Position: ch.Position,
		ParentID: ch.ParentID,
	}
	for _, recipient := range ch.Recipients {
		channel.Recipients = append(channel.Recipients, convertUser(recipient))
	}
	return channel
}

func convertMessage(msg *discordgo.Message) models.Message {
	message := models.Message{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Author:    convertUser(msg.Author),
		Content:   msg.Content,
		Timestamp: msg.Timestamp.Format(time.RFC3339),
	}

	if msg.EditedTimestamp != nil {
		edited := msg.EditedTimestamp.Format(time.RFC3339)
		message.EditedTimestamp = &edited
	}

	for _, embed := range msg.Embeds {
		message.Embeds = append(message.Embeds, convertEmbed(embed))
	}
	for _, attachment := range msg.Attachments {
		message.Attachments = append(message.Attachments, models.Attachment{
			ID:          attachment.ID,
			Filename:    attachment.Filename,
			Size:        int64(attachment.Size),
			URL:         attachment.URL,
			ProxyURL:    attachment.ProxyURL,
			ContentType: attachment.ContentType,
			Width:       attachment.Width,
			Height:      attachment.Height,
		})
	}
	for _, reaction := range msg.Reactions {
		message.Reactions = append(message.Reactions, convertReaction(reaction))
	}
	for _, mention := range msg.Mentions {
		message.Mentions = append(message.Mentions, convertUser(mention))
	}

	return message
}

func convertEmbed(embed *discordgo.MessageEmbed) models.Embed {
	converted := models.Embed{
		Title:       embed.Title,
		Description: embed.Description,
		URL:         embed.URL,
		Color:       embed.Color,
	}
	for _, field := range embed.Fields {
		converted.Fields = append(converted.Fields, models.EmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	if embed.Image != nil {
		converted.Image = &models.EmbedMedia{
			URL:    embed.Image.URL,
			Width:  embed.Image.Width,
			Height: embed.Image.Height,
		}
	}
	if embed.Thumbnail != nil {
		converted.Thumbnail = &models.EmbedMedia{
			URL:    embed.Thumbnail.URL,
			Width:  embed.Thumbnail.Width,
			Height: embed.Thumbnail.Height,
		}
	}
	if embed.Footer != nil {
		converted.Footer = &models.EmbedFooter{
			Text:    embed.Footer.Text,
			IconURL: embed.Footer.IconURL,
		}
	}
	if embed.Author != nil {
		converted.Author = &models.EmbedAuthor{
			Name:    embed.Author.Name,
			URL:     embed.Author.URL,
			IconURL: embed.Author.IconURL,
		}
	}
	return converted
}

func convertReaction(reaction *discordgo.MessageReactions) models.Reaction {
	converted := models.Reaction{
		Count: reaction.Count,
		Me:    reaction.Me,
	}
	if reaction.Emoji != nil {
		converted.Emoji = models.Emoji{
			Name:     reaction.Emoji.Name,
			Animated: reaction.Emoji.Animated,
		}
		if reaction.Emoji.ID != "" {
			id := reaction.Emoji.ID
			converted.Emoji.ID = &id
		}
	}
	return converted
}
