// Package normalizer projects raw markup down to human-readable text.
// The projection is lossy on purpose: it only has to be stable enough
// to drive length-delta change detection and to feed a synthesis prompt.
package normalizer

import (
	"regexp"
	"strings"
)

// MaxTextLength bounds the normalized output in characters.
const MaxTextLength = 15000

var (
	scriptRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe    = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	blockEndRe = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|li|section|article|header|footer|tr)>|<br\s*/?>`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
	spacesRe   = regexp.MustCompile(`[ \t]+`)
)

// Normalize strips markup from raw and returns bounded plain text.
// Script and style blocks are discarded wholesale, closing block tags
// become newlines, all remaining tags are dropped, and whitespace is
// collapsed. Never fails; empty input yields empty output.
func Normalize(raw string) string {
	text := scriptRe.ReplaceAllString(raw, "")
	text = styleRe.ReplaceAllString(text, "")
	text = blockEndRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, "")
	text = newlinesRe.ReplaceAllString(text, "\n\n")
	text = spacesRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > MaxTextLength {
		text = string(runes[:MaxTextLength])
	}

	return text
}
