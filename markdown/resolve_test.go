package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	lookups := Lookups{
		Users:    map[string]string{"1": "alice"},
		Roles:    map[string]string{"2": "mods"},
		Channels: map[string]string{"3": "general"},
	}

	t.Run("FillsLabelsForKnownIDs", func(t *testing.T) {
		nodes := Parse("<@1> <@&2> <#3>")
		require.Len(t, nodes, 1)

		resolved := Resolve(nodes, lookups)
		children := resolved[0].Children
		require.Len(t, children, 5)
		assert.Equal(t, "alice", children[0].Label)
		assert.Equal(t, "mods", children[2].Label)
		assert.Equal(t, "general", children[4].Label)
	})

	t.Run("UnknownIDKeepsRawID", func(t *testing.T) {
		nodes := Resolve(Parse("<@999>"), lookups)
		mention := nodes[0].Children[0]
		assert.Equal(t, MentionUser, mention.Kind)
		assert.Equal(t, "999", mention.ID)
		assert.Equal(t, "999", mention.Label)
	})

	t.Run("EmptyLookupsAreFine", func(t *testing.T) {
		nodes := Resolve(Parse("<@1>"), Lookups{})
		assert.Equal(t, "1", nodes[0].Children[0].Label)
	})

	t.Run("ResolvesInsideNestedSpans", func(t *testing.T) {
		nodes := Resolve(Parse("**hey <@1>**"), lookups)
		bold := nodes[0].Children[0]
		require.Equal(t, NodeBold, bold.Type)
		assert.Equal(t, "alice", bold.Children[1].Label)
	})

	t.Run("ResolvesInsideBlockquoteLines", func(t *testing.T) {
		nodes := Resolve(Parse("> <@1> said\n> hi <#3>"), lookups)
		quote := nodes[0]
		require.Equal(t, NodeBlockquote, quote.Type)
		assert.Equal(t, "alice", quote.Lines[0][0].Label)
		assert.Equal(t, "general", quote.Lines[1][1].Label)
	})

	t.Run("InputSequenceIsNotMutated", func(t *testing.T) {
		original := Parse("<@1>")
		_ = Resolve(original, lookups)
		assert.Equal(t, "1", original[0].Children[0].Label)
	})

	t.Run("EveryoneKeepsLiteralLabel", func(t *testing.T) {
		nodes := Resolve(Parse("@everyone"), lookups)
		mention := nodes[0].Children[0]
		assert.Equal(t, MentionEveryone, mention.Kind)
		assert.Equal(t, "everyone", mention.Label)
	})
}

func TestLookups_Getters(t *testing.T) {
	lookups := Lookups{Users: map[string]string{"1": "alice", "2": ""}}

	name, ok := lookups.User("1").Get()
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	_, ok = lookups.User("missing").Get()
	assert.False(t, ok)

	// Empty display names count as unresolved.
	_, ok = lookups.User("2").Get()
	assert.False(t, ok)

	_, ok = lookups.Role("1").Get()
	assert.False(t, ok)
}
