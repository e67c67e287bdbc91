// Package hashtag extracts hashtag tokens from post captions.
package hashtag

import (
	"regexp"
	"strings"
)

// Word characters here are Unicode letters, digits, and underscore. Go's \w
// shorthand is ASCII-only, which would drop non-Latin hashtags.
var pattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Extract returns every hashtag token in text, in order of appearance, with
// the leading '#' stripped. Duplicates and case are preserved. Empty input
// yields an empty slice.
func Extract(text string) []string {
	if text == "" {
		return []string{}
	}

	matches := pattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// Join flattens tags into the single delimiter-joined form used by the
// document and tabular outputs.
func Join(tags []string) string {
	return strings.Join(tags, ", ")
}
