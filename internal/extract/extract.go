// Package extract pulls the JSON-shaped part out of raw command output.
package extract

import "strings"

// Extract returns the span from the first '{' to the last '}' inclusive.
// The span is not validated as JSON. When either brace is missing, or the
// last '}' comes before the first '{', the trimmed input is returned.
func Extract(text string) string {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first != -1 && last != -1 && last >= first {
		return text[first : last+1]
	}
	return strings.TrimSpace(text)
}
