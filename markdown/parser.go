package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	headingRegex  = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)
	listItemRegex = regexp.MustCompile(`^(\s*)([-*]|\d+\.)\s+(.+)$`)
	langTagRegex  = regexp.MustCompile(`^[A-Za-z0-9_+\-#.]+$`)
)

// inlineMatcher pairs an anchored pattern with a node constructor. The
// matcher list is ordered; the first pattern that matches at the cursor wins.
type inlineMatcher struct {
	pattern *regexp.Regexp
	build   func(groups []string) Node
}

// Matchers are tried in this exact order at every cursor position. Emphasis
// content classes exclude the raw delimiter character so the shortest valid
// closing delimiter wins; anything that matches nothing falls through to a
// single literal character.
//
// Populated in init because the span builders recurse through parseInline,
// which walks this list.
var inlineMatchers []inlineMatcher

func init() {
	inlineMatchers = []inlineMatcher{
		{regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):(\d+)>`), func(g []string) Node {
			return Node{Type: NodeCustomEmoji, Name: g[2], ID: g[3], Animated: g[1] == "a"}
		}},
		{regexp.MustCompile(`^\*\*([^*]+)\*\*`), spanBuilder(NodeBold)},
		{regexp.MustCompile(`^__([^_]+)__`), spanBuilder(NodeUnderline)},
		{regexp.MustCompile(`^\*([^*]+)\*`), spanBuilder(NodeItalic)},
		{regexp.MustCompile(`^_([^_]+)_`), spanBuilder(NodeItalic)},
		{regexp.MustCompile(`^~~([^~]+)~~`), spanBuilder(NodeStrikethrough)},
		{regexp.MustCompile("^`([^`]+)`"), func(g []string) Node {
			return Node{Type: NodeInlineCode, Value: g[1]}
		}},
		{regexp.MustCompile(`^\|\|(.+?)\|\|`), spanBuilder(NodeSpoiler)},
		{regexp.MustCompile(`^<@!?(\d+)>`), mentionBuilder(MentionUser)},
		{regexp.MustCompile(`^<@&(\d+)>`), mentionBuilder(MentionRole)},
		{regexp.MustCompile(`^<#(\d+)>`), mentionBuilder(MentionChannel)},
		{regexp.MustCompile(`^@(everyone|here)`), func(g []string) Node {
			return Node{Type: NodeMention, Kind: MentionEveryone, ID: g[1], Label: g[1]}
		}},
		{regexp.MustCompile(`^\[([^\]]+)\]\(([^)\s]+)\)`), func(g []string) Node {
			return Node{Type: NodeLink, Label: g[1], URL: g[2]}
		}},
	}
}

func spanBuilder(nodeType NodeType) func([]string) Node {
	return func(g []string) Node {
		// Captured span bodies are re-parsed so nesting like **bold _it_**
		// keeps working one level down.
		return Node{Type: nodeType, Children: parseInline(g[1])}
	}
}

func mentionBuilder(kind MentionKind) func([]string) Node {
	return func(g []string) Node {
		// Label defaults to the raw ID; Resolve swaps in a display name when
		// the caller's lookup tables know the ID.
		return Node{Type: NodeMention, Kind: kind, ID: g[1], Label: g[1]}
	}
}

// Parse converts one raw message-content string into a node sequence. It
// never fails: unterminated fences, stray delimiters and unknown IDs all
// degrade to best-effort output. The result is deterministic for a given
// input and an empty input yields an empty sequence.
func Parse(content string) []Node {
	nodes := []Node{}
	if content == "" {
		return nodes
	}

	lines := strings.Split(content, "\n")
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Block detection order is fixed: fence > heading > blockquote >
		// list item > blank > paragraph. First match wins.
		switch {
		case strings.HasPrefix(trimmed, "```"):
			node, next := parseCodeFence(lines, i)
			nodes = append(nodes, node)
			i = next
		case headingRegex.MatchString(line):
			groups := headingRegex.FindStringSubmatch(line)
			nodes = append(nodes, Node{
				Type:     NodeHeading,
				Level:    len(groups[1]),
				Children: parseInline(groups[2]),
			})
			i++
		case strings.HasPrefix(line, "> "):
			var quoted [][]Node
			for i < len(lines) && strings.HasPrefix(lines[i], "> ") {
				quoted = append(quoted, parseInline(strings.TrimPrefix(lines[i], "> ")))
				i++
			}
			nodes = append(nodes, Node{Type: NodeBlockquote, Lines: quoted})
		case listItemRegex.MatchString(line):
			groups := listItemRegex.FindStringSubmatch(line)
			nodes = append(nodes, Node{
				Type:     NodeListItem,
				Indent:   len(groups[1]),
				Children: parseInline(groups[3]),
			})
			i++
		case trimmed == "":
			nodes = append(nodes, Node{Type: NodeBlankLine})
			i++
		default:
			nodes = append(nodes, Node{Type: NodeParagraph, Children: parseInline(line)})
			i++
		}
	}

	return nodes
}

// parseCodeFence consumes a fenced block starting at lines[start] and returns
// the node plus the index of the first unconsumed line. A missing closing
// fence swallows the rest of the input as code content.
func parseCodeFence(lines []string, start int) (Node, int) {
	opener := strings.TrimPrefix(strings.TrimSpace(lines[start]), "```")

	var language string
	var body []string
	if opener != "" {
		if langTagRegex.MatchString(opener) {
			language = opener
		} else {
			// Not a clean language tag: keep it as the first content line.
			body = append(body, opener)
		}
	}

	i := start + 1
	for i < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
			i++
			break
		}
		body = append(body, lines[i])
		i++
	}

	return Node{Type: NodeCodeBlock, Language: language, Value: strings.Join(body, "\n")}, i
}

// parseInline scans text left to right with a single cursor. At each position
// the matcher list is tried in priority order; on no match one character is
// consumed as plain text. Consecutive plain characters coalesce into one
// text node.
func parseInline(text string) []Node {
	nodes := []Node{}
	var plain strings.Builder
	flushPlain := func() {
		if plain.Len() > 0 {
			nodes = append(nodes, Node{Type: NodeText, Value: plain.String()})
			plain.Reset()
		}
	}

	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		matched := false
		for _, m := range inlineMatchers {
			groups := m.pattern.FindStringSubmatch(rest)
			if groups == nil {
				continue
			}
			flushPlain()
			nodes = append(nodes, m.build(groups))
			pos += len(groups[0])
			matched = true
			break
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(rest)
			plain.WriteString(rest[:size])
			pos += size
		}
	}
	flushPlain()

	return nodes
}
