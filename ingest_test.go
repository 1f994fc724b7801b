package docquiz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func samplePDF(t *testing.T, text string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 10, text)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build sample pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText([]byte("hello\xffworld"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("ExtractText() error: %v", err)
	}
	if got != "hello�world" {
		t.Errorf("ExtractText() = %q, want invalid UTF-8 replaced", got)
	}
}

func TestExtractTextPDF(t *testing.T) {
	got, err := ExtractText(samplePDF(t, "Mitochondria produce ATP"), MediaTypePDF)
	if err != nil {
		t.Fatalf("ExtractText() error: %v", err)
	}
	if !strings.Contains(got, "Mitochondria") {
		t.Errorf("ExtractText() = %q, want the page text", got)
	}
}

func TestExtractTextRejects(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		mediaType string
	}{
		{"too large", make([]byte, MaxUploadSize+1), MediaTypeText},
		{"unsupported type", []byte("<html></html>"), "text/html"},
		{"malformed media type", []byte("x"), "text/;;"},
		{"empty media type", []byte("x"), ""},
		{"corrupt pdf", []byte("%PDF-1.4 not really"), MediaTypePDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.data, tt.mediaType)
			if KindOf(err) != KindInvalidInput {
				t.Errorf("error = %v, want %s", err, KindInvalidInput)
			}
		})
	}
}
