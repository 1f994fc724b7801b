package docquiz

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxContentLength is the number of characters of source text handed to the model
const MaxContentLength = 10000

var (
	horizontalSpaceRe = regexp.MustCompile(`[\t\f\v\p{Zs}]+`)
	blankLinesRe      = regexp.MustCompile(`\n(?:[\t\f\v\p{Zs}]*\n)+`)

	sentenceEnds    = []string{". ", ".\n", "! ", "!\n", "? ", "?\n"}
	paragraphBreaks = []string{"\n\n", "\n "}
)

// NormalizeText collapses whitespace and truncates the text to MaxContentLength characters,
// cutting at the last sentence or paragraph boundary inside the trailing 20% when one exists.
func NormalizeText(raw string) TruncationOutcome {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)

	length := utf8.RuneCountInString(text)
	if length <= MaxContentLength {
		return TruncationOutcome{
			Text:            text,
			OriginalLength:  length,
			TruncatedLength: length,
		}
	}

	truncated := text[:byteOffset(text, MaxContentLength)]
	windowStart := byteOffset(truncated, MaxContentLength-MaxContentLength/5)
	window := truncated[windowStart:]

	if cut := lastIndexOfAny(window, sentenceEnds, true); cut >= 0 {
		truncated = truncated[:windowStart+cut]
	} else if cut := lastIndexOfAny(window, paragraphBreaks, false); cut >= 0 {
		truncated = truncated[:windowStart+cut]
	}

	truncated = strings.TrimSpace(truncated)
	return TruncationOutcome{
		Text:            truncated,
		WasTruncated:    true,
		OriginalLength:  length,
		TruncatedLength: utf8.RuneCountInString(truncated),
	}
}

// lastIndexOfAny returns the position of the lexically last match of any pattern.
// With after set, the position points just past the match.
func lastIndexOfAny(s string, patterns []string, after bool) int {
	best := -1
	for _, p := range patterns {
		i := strings.LastIndex(s, p)
		if i < 0 {
			continue
		}
		if after {
			i += len(p)
		}
		if i > best {
			best = i
		}
	}
	return best
}

// byteOffset returns the byte index of the n-th rune of s, or len(s)
func byteOffset(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}
