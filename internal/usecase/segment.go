package usecase

import (
	"regexp"
	"strings"
)

// bubbleDelimiter matches a `---` separator line with optional surrounding
// newlines and whitespace. The delimiter is an authoring convention the
// persona is instructed to use between message bursts, not semantic
// structure, so segmentation must degrade gracefully on malformed input.
var bubbleDelimiter = regexp.MustCompile(`\n?\s*---\s*\n?`)

// SegmentReply splits one raw completion into ordered display bubbles. The
// result always has at least one element: if the delimiter never occurs, or
// every piece around it is blank, the trimmed whole text is the single
// bubble.
func SegmentReply(raw string) []string {
	normalized := strings.ReplaceAll(raw, `\n`, "\n")

	bubbles := make([]string, 0, 4)
	for _, piece := range bubbleDelimiter.Split(normalized, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			bubbles = append(bubbles, piece)
		}
	}
	if len(bubbles) == 0 {
		return []string{strings.TrimSpace(normalized)}
	}
	return bubbles
}
