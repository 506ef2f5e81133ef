package core

import (
	"regexp"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_ValidPrefix(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		expected string
	}{
		{
			name:     "request prefix",
			prefix:   "req",
			expected: "req",
		},
		{
			name:     "uppercase prefix gets lowercased",
			prefix:   "REQ",
			expected: "req",
		},
		{
			name:     "prefix with leading/trailing spaces gets trimmed",
			prefix:   "  req  ",
			expected: "req",
		},
		{
			name:     "single character prefix",
			prefix:   "r",
			expected: "r",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := NewID(tc.prefix)

			// Check format: prefix_ULID
			parts := strings.Split(id, "_")
			require.Len(t, parts, 2, "ID should have exactly one underscore separating prefix and ULID")
			assert.Equal(t, tc.expected, parts[0], "Prefix should be cleaned correctly")

			// Check ULID part is valid base32 and parseable
			ulidPart := parts[1]
			assert.Len(t, ulidPart, 26, "ULID should be 26 characters long")

			ulidRegex := regexp.MustCompile("^[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$")
			assert.True(t, ulidRegex.MatchString(ulidPart), "ULID part should match base32 format")

			_, err := ulid.Parse(ulidPart)
			assert.NoError(t, err, "ULID part should be parseable as valid ULID")
		})
	}
}

func TestNewID_EmptyPrefix_Panics(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
	}{
		{
			name:   "empty string",
			prefix: "",
		},
		{
			name:   "only whitespace",
			prefix: " \t \n ",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, func() {
				NewID(tc.prefix)
			}, "Should panic with empty or whitespace-only prefix")
		})
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	// Correlation IDs are only useful if they never collide across requests
	prefix := "req"
	numIDs := 1000
	ids := make(map[string]bool)

	for i := 0; i < numIDs; i++ {
		id := NewID(prefix)

		assert.False(t, ids[id], "Generated ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, numIDs, "Should have generated exactly %d unique IDs", numIDs)
}
