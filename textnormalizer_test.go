package docquiz

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeTextWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces and tabs", "a  \t b", "a b"},
		{"collapses blank lines", "one\n\n\n\ntwo", "one\ntwo"},
		{"blank lines with spaces", "one\n  \n\t\ntwo", "one\ntwo"},
		{"normalizes CRLF", "one\r\n\r\ntwo\rthree", "one\ntwo\nthree"},
		{"trims", "  \n hello \n ", "hello"},
		{"non-breaking space", "a\u00a0\u00a0b", "a b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if got.Text != tt.want {
				t.Errorf("NormalizeText(%q).Text = %q, want %q", tt.in, got.Text, tt.want)
			}
			if got.WasTruncated {
				t.Errorf("WasTruncated = true for short input")
			}
			if got.TruncatedLength != got.OriginalLength {
				t.Errorf("TruncatedLength = %d, OriginalLength = %d, want equal", got.TruncatedLength, got.OriginalLength)
			}
		})
	}
}

func TestNormalizeTextShortInputUntouched(t *testing.T) {
	in := strings.Repeat("x", MaxContentLength)
	got := NormalizeText(in)
	if got.WasTruncated || got.Text != in || got.OriginalLength != MaxContentLength {
		t.Errorf("text of exactly MaxContentLength was changed: truncated=%v len=%d", got.WasTruncated, got.OriginalLength)
	}
}

func TestNormalizeTextTruncatesAtSentence(t *testing.T) {
	// sentence end inside the last 20% of the cap
	head := strings.Repeat("a", 9000) + ". "
	in := head + strings.Repeat("b", 5000)

	got := NormalizeText(in)
	if !got.WasTruncated {
		t.Fatal("WasTruncated = false, want true")
	}
	if got.Text != strings.TrimSpace(head) {
		t.Errorf("cut at rune %d, want right after the sentence end at %d", got.TruncatedLength, 9001)
	}
	if got.OriginalLength != utf8.RuneCountInString(in) {
		t.Errorf("OriginalLength = %d, want %d", got.OriginalLength, utf8.RuneCountInString(in))
	}
}

func TestNormalizeTextTruncatesAtParagraph(t *testing.T) {
	head := strings.Repeat("a", 8500)
	in := head + "\n" + strings.Repeat("b", 5000)

	got := NormalizeText(in)
	if !got.WasTruncated {
		t.Fatal("WasTruncated = false, want true")
	}
	// the single newline left after collapsing is not a paragraph break, so this is a hard cut
	if got.TruncatedLength != MaxContentLength {
		t.Errorf("TruncatedLength = %d, want hard cut at %d", got.TruncatedLength, MaxContentLength)
	}

	in = head + "\n " + strings.Repeat("b", 5000)
	got = NormalizeText(in)
	if got.Text != head {
		t.Errorf("paragraph cut kept %d runes, want %d", got.TruncatedLength, len(head))
	}
}

func TestNormalizeTextIgnoresBoundaryBeforeWindow(t *testing.T) {
	// the only sentence end sits before 80% of the cap
	in := strings.Repeat("a", 1000) + ". " + strings.Repeat("b", 12000)

	got := NormalizeText(in)
	if got.TruncatedLength != MaxContentLength {
		t.Errorf("TruncatedLength = %d, want %d", got.TruncatedLength, MaxContentLength)
	}
}

func TestNormalizeTextBounds(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 5000),
		strings.Repeat("Câu hỏi tiếng Việt. ", 1200),
		strings.Repeat("line\n\n", 8000),
		strings.Repeat("日本語", 5000),
	}

	for _, in := range inputs {
		got := NormalizeText(in)
		if got.TruncatedLength > MaxContentLength {
			t.Errorf("TruncatedLength = %d exceeds %d", got.TruncatedLength, MaxContentLength)
		}
		if got.TruncatedLength != utf8.RuneCountInString(got.Text) {
			t.Errorf("TruncatedLength = %d, text has %d runes", got.TruncatedLength, utf8.RuneCountInString(got.Text))
		}
		if !utf8.ValidString(got.Text) {
			t.Error("truncation split a multi-byte character")
		}

		again := NormalizeText(got.Text)
		if again.Text != got.Text || again.WasTruncated {
			t.Errorf("NormalizeText is not idempotent: %d -> %d runes", got.TruncatedLength, again.TruncatedLength)
		}
	}
}
