package docquiz

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadSize is the largest document accepted for ingestion
const MaxUploadSize = 10 << 20

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeText = "text/plain"
)

// ExtractText validates an uploaded document and returns its raw text.
// Size and media type are checked before any extraction happens.
func ExtractText(data []byte, mediaType string) (string, error) {
	if len(data) > MaxUploadSize {
		return "", Errorf(KindInvalidInput, "ExtractText", "document is %d bytes, the limit is %d", len(data), MaxUploadSize)
	}

	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", Errorf(KindInvalidInput, "ExtractText", "invalid media type %q", mediaType)
	}

	switch mt {
	case MediaTypeText:
		return strings.ToValidUTF8(string(data), "�"), nil
	case MediaTypePDF:
		text, err := extractPDFText(data)
		if err != nil {
			return "", Wrap(KindInvalidInput, "ExtractText", err)
		}
		return text, nil
	default:
		return "", Errorf(KindInvalidInput, "ExtractText", "unsupported media type %q, expected %s or %s", mt, MediaTypePDF, MediaTypeText)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	VerboseLog("Extracted %d bytes of text from %d page pdf", len(b), reader.NumPage())
	return string(b), nil
}
