package docquiz

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ExportOptions controls the printable rendering of a question set
type ExportOptions struct {
	// FontPath is a UTF-8 TrueType font. Without it the core Helvetica font is used,
	// which cannot render characters outside cp1252.
	FontPath       string
	IncludeAnswers bool
}

const exportFontFamily = "docquiz"

// ExportPDF writes a printable worksheet for set, followed by an answer key when requested
func ExportPDF(w io.Writer, set *QuestionSet, opts ExportOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)

	family := "Helvetica"
	tr := func(s string) string { return s }
	if opts.FontPath != "" {
		pdf.AddUTF8Font(exportFontFamily, "", opts.FontPath)
		pdf.AddUTF8Font(exportFontFamily, "B", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return Wrap(KindInvalidInput, "ExportPDF", fmt.Errorf("failed to load font %s: %w", opts.FontPath, err))
		}
		family = exportFontFamily
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.MultiCell(0, 9, tr(set.Subject), "", "C", false)

	pdf.SetFont(family, "", 10)
	meta := []string{fmt.Sprintf("%d questions", len(set.Questions))}
	if set.Difficulty != "" {
		meta = append(meta, "Difficulty: "+set.Difficulty)
	}
	if set.SourceFilename != "" {
		meta = append(meta, "Source: "+set.SourceFilename)
	}
	pdf.CellFormat(0, 6, tr(strings.Join(meta, " | ")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for i, q := range set.Questions {
		pdf.SetFont(family, "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, q.Text)), "", "L", false)

		pdf.SetFont(family, "", 11)
		for _, c := range q.Choices {
			pdf.SetX(26)
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s. %s", c.Label, c.Content)), "", "L", false)
		}
		pdf.Ln(3)
	}

	if opts.IncludeAnswers {
		pdf.AddPage()
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 8, tr("Answer Key"), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		for i, q := range set.Questions {
			pdf.SetFont(family, "B", 10)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, strings.Join(q.CorrectAnswers, ", "))), "", "L", false)
			if q.Explanation != "" {
				pdf.SetFont(family, "", 10)
				pdf.SetX(26)
				pdf.MultiCell(0, 5, tr(q.Explanation), "", "L", false)
			}
			pdf.Ln(1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
