package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin   = 72.0
	pdfFont     = "Helvetica"
	generatedAt = "January 02, 2006 at 03:04 PM"
)

// PersonaPDF lays out persona text on A4 pages. "###" lines become headings,
// lines wrapped in "**" become subheadings, "-" lines become bullets and
// everything else is body text.
func PersonaPDF(username, text string, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Reddit User Persona: "+username, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 24)
	pdf.SetTextColor(0x2E, 0x86, 0xAB)
	pdf.MultiCell(0, 30, tr("Reddit User Persona: "+username), "", "C", false)
	pdf.Ln(12)

	pdf.SetFont(pdfFont, "", 10)
	pdf.SetTextColor(0x66, 0x66, 0x66)
	pdf.MultiCell(0, 14, "Generated on: "+now.Format(generatedAt), "", "L", false)
	pdf.Ln(20)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			pdf.Ln(6)
		case strings.HasPrefix(line, "###"):
			pdf.Ln(8)
			pdf.SetFont(pdfFont, "B", 16)
			pdf.SetTextColor(0x2E, 0x86, 0xAB)
			pdf.MultiCell(0, 20, tr(strings.TrimSpace(strings.TrimLeft(line, "#"))), "", "L", false)
			pdf.Ln(6)
		case len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
			pdf.Ln(4)
			pdf.SetFont(pdfFont, "B", 13)
			pdf.SetTextColor(0x33, 0x33, 0x33)
			pdf.MultiCell(0, 17, tr(strings.Trim(line, "*")), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "-"):
			pdf.SetFont(pdfFont, "", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetX(pdfMargin + 12)
			pdf.MultiCell(0, 15, tr("• "+stripEmphasis(strings.TrimSpace(line[1:]))), "", "L", false)
		default:
			pdf.SetFont(pdfFont, "", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 15, tr(stripEmphasis(line)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
