package models

// Wire-faithful subset of the Discord REST API objects the panel works with.
// Field names and JSON tags mirror the upstream payloads so responses can be
// decoded and re-encoded without translation.

// Channel types as defined by the Discord API.
const (
	ChannelTypeGuildText     = 0
	ChannelTypeDM            = 1
	ChannelTypeGuildVoice    = 2
	ChannelTypeGroupDM       = 3
	ChannelTypeGuildCategory = 4
	ChannelTypeGuildNews     = 5
	ChannelTypePublicThread  = 11
	ChannelTypePrivateThread = 12
	ChannelTypeGuildForum    = 15
)

// User is a Discord user or bot account.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator,omitempty"`
	GlobalName    string `json:"global_name,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Bot           bool   `json:"bot,omitempty"`
}

// Guild is a Discord server.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Channel is a guild channel or DM. Recipients is only populated for DMs.
type Channel struct {
	ID         string `json:"id"`
	Type       int    `json:"type"`
	Name       string `json:"name,omitempty"`
	GuildID    string `json:"guild_id,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Position   int    `json:"position,omitempty"`
	ParentID   string `json:"parent_id,omitempty"`
	Recipients []User `json:"recipients,omitempty"`
}

// Message is one fetched message. Messages are immutable snapshots: a fresh
// list call replaces them wholesale, there is no incremental merge.
type Message struct {
	ID              string       `json:"id"`
	ChannelID       string       `json:"channel_id"`
	Author          User         `json:"author"`
	Content         string       `json:"content"`
	Timestamp       string       `json:"timestamp"`
	EditedTimestamp *string      `json:"edited_timestamp,omitempty"`
	Embeds          []Embed      `json:"embeds,omitempty"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	Reactions       []Reaction   `json:"reactions,omitempty"`
	Mentions        []User       `json:"mentions,omitempty"`
}

// Embed is author-supplied rich content attached to a message, distinct from
// the free-text markdown in Content.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       *EmbedMedia  `json:"image,omitempty"`
	Thumbnail   *EmbedMedia  `json:"thumbnail,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedMedia struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// Attachment is an uploaded file on a message.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	ProxyURL    string `json:"proxy_url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Reaction is an aggregated emoji reaction. Me reports whether the
// authenticated bot is among the reactors.
type Reaction struct {
	Count int   `json:"count"`
	Me    bool  `json:"me"`
	Emoji Emoji `json:"emoji"`
}

// Emoji is either a unicode emoji (ID nil) or a custom guild emoji.
type Emoji struct {
	ID       *string `json:"id"`
	Name     string  `json:"name"`
	Animated bool    `json:"animated,omitempty"`
}
