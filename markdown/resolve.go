package markdown

import "github.com/samber/mo"

// Lookups carries the caller-supplied ID-to-display-name tables used to label
// mentions. All tables are optional; resolution is best-effort and an
// unresolved ID keeps its raw snowflake as the label.
type Lookups struct {
	Users    map[string]string
	Roles    map[string]string
	Channels map[string]string
}

// User returns the display name for a user ID when the table knows it.
func (l Lookups) User(id string) mo.Option[string] {
	return lookup(l.Users, id)
}

// Role returns the display name for a role ID when the table knows it.
func (l Lookups) Role(id string) mo.Option[string] {
	return lookup(l.Roles, id)
}

// Channel returns the display name for a channel ID when the table knows it.
func (l Lookups) Channel(id string) mo.Option[string] {
	return lookup(l.Channels, id)
}

func lookup(table map[string]string, id string) mo.Option[string] {
	if name, ok := table[id]; ok && name != "" {
		return mo.Some(name)
	}
	return mo.None[string]()
}

// Resolve returns a copy of the node sequence with mention labels filled in
// from the lookup tables. The input sequence is never mutated, so parsed
// content can be resolved against different tables (e.g. per guild).
func Resolve(nodes []Node, lookups Lookups) []Node {
	resolved := make([]Node, len(nodes))
	for i, node := range nodes {
		resolved[i] = resolveNode(node, lookups)
	}
	return resolved
}

func resolveNode(node Node, lookups Lookups) Node {
	if node.Type == NodeMention {
		var maybeName mo.Option[string]
		switch node.Kind {
		case MentionUser:
			maybeName = lookups.User(node.ID)
		case MentionRole:
			maybeName = lookups.Role(node.ID)
		case MentionChannel:
			maybeName = lookups.Channel(node.ID)
		case MentionEveryone:
			// @everyone/@here already carry their literal label.
			maybeName = mo.None[string]()
		}
		if name, ok := maybeName.Get(); ok {
			node.Label = name
		}
		return node
	}

	if len(node.Children) > 0 {
		node.Children = Resolve(node.Children, lookups)
	}
	if len(node.Lines) > 0 {
		lines := make([][]Node, len(node.Lines))
		for i, line := range node.Lines {
			lines[i] = Resolve(line, lookups)
		}
		node.Lines = lines
	}
	return node
}
