// Package markdown converts raw Discord message content into a structured
// node sequence that a renderer can walk. Parsing is total: any input string
// produces some valid sequence, malformed markup degrades to literal text.
package markdown

// NodeType discriminates the content node variants.
type NodeType string

const (
	NodeText          NodeType = "text"
	NodeBold          NodeType = "bold"
	NodeItalic        NodeType = "italic"
	NodeUnderline     NodeType = "underline"
	NodeStrikethrough NodeType = "strikethrough"
	NodeSpoiler       NodeType = "spoiler"
	NodeInlineCode    NodeType = "inline_code"
	NodeCodeBlock     NodeType = "code_block"
	NodeLink          NodeType = "link"
	NodeMention       NodeType = "mention"
	NodeCustomEmoji   NodeType = "custom_emoji"
	NodeHeading       NodeType = "heading"
	NodeBlockquote    NodeType = "blockquote"
	NodeListItem      NodeType = "list_item"
	NodeParagraph     NodeType = "paragraph"
	NodeBlankLine     NodeType = "blank_line"
)

// MentionKind identifies what a mention node points at.
type MentionKind string

const (
	MentionUser     MentionKind = "user"
	MentionRole     MentionKind = "role"
	MentionChannel  MentionKind = "channel"
	MentionEveryone MentionKind = "everyone"
)

// Node is a tagged variant: Type selects which of the payload fields are
// meaningful. Keeping one flat struct (instead of an interface hierarchy)
// makes the sequence directly JSON-serializable for the render endpoint.
type Node struct {
	Type NodeType `json:"type"`

	// Text, InlineCode, CodeBlock
	Value    string `json:"value,omitempty"`
	Language string `json:"language,omitempty"`

	// Link (Label is also the resolved display name on mentions)
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`

	// Mention
	Kind MentionKind `json:"kind,omitempty"`
	ID   string      `json:"id,omitempty"`

	// CustomEmoji (shares ID with Mention)
	Name     string `json:"name,omitempty"`
	Animated bool   `json:"animated,omitempty"`

	// Heading
	Level int `json:"level,omitempty"`

	// ListItem
	Indent int `json:"indent,omitempty"`

	// Inline spans, Heading, ListItem, Paragraph
	Children []Node `json:"children,omitempty"`

	// Blockquote: one inline-parsed sequence per quoted line
	Lines [][]Node `json:"lines,omitempty"`
}
