package hashtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single hashtag",
			text:     "sunset over the bay #photography",
			expected: []string{"photography"},
		},
		{
			name:     "order duplicates and case preserved",
			text:     "caption with #a #B2 #a",
			expected: []string{"a", "B2", "a"},
		},
		{
			name:     "multiple hashtags in order",
			text:     "#travel day out #Nature and more #travel",
			expected: []string{"travel", "Nature", "travel"},
		},
		{
			name:     "case and duplicates preserved",
			text:     "#Go #go #GO",
			expected: []string{"Go", "go", "GO"},
		},
		{
			name:     "digits and underscores",
			text:     "#top_10 #y2k",
			expected: []string{"top_10", "y2k"},
		},
		{
			name:     "unicode letters",
			text:     "#café #日本 #über",
			expected: []string{"café", "日本", "über"},
		},
		{
			name:     "punctuation terminates tag",
			text:     "love it! #sunset, really #beach.",
			expected: []string{"sunset", "beach"},
		},
		{
			name:     "no hashtags",
			text:     "plain caption with no tags",
			expected: []string{},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "bare hash ignored",
			text:     "just a # by itself",
			expected: []string{},
		},
		{
			name:     "adjacent hashtags",
			text:     "#one#two",
			expected: []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.text))
		})
	}
}

func TestExtractNeverReturnsNil(t *testing.T) {
	assert.NotNil(t, Extract(""))
	assert.NotNil(t, Extract("no tags here"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, "", Join([]string{}))
	assert.Equal(t, "solo", Join([]string{"solo"}))
	assert.Equal(t, "a, b, c", Join([]string{"a", "b", "c"}))
}
