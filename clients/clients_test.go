package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBotToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Bare token gains the Bot scheme",
			input:    "abc123",
			expected: "Bot abc123",
		},
		{
			name:     "Full header value passes through",
			input:    "Bot abc123",
			expected: "Bot abc123",
		},
		{
			name:     "Surrounding whitespace is trimmed",
			input:    "  abc123  ",
			expected: "Bot abc123",
		},
		{
			name:     "Empty stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "Whitespace-only stays empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBotToken(tt.input))
		})
	}
}
