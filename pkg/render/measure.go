// pkg/render/measure.go

package render

import (
	"sync"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/unicode/norm"

	"github.com/billing-microservice/pkg/layout"
)

// Measurer reports text extents with gofpdf's core font metrics, so the
// layout sees the same line breaks the renderer produces.
type Measurer struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewMeasurer returns a Measurer backed by a scratch gofpdf document.
func NewMeasurer() *Measurer {
	pdf := newPDF()
	return &Measurer{pdf: pdf, tr: translator(pdf)}
}

// Width implements layout.Measurer.
func (m *Measurer) Width(text string, f layout.Font) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// Height implements layout.Measurer.
func (m *Measurer) Height(text string, f layout.Font, width float64) float64 {
	if width <= 0 {
		return layout.LineHeight(f)
	}

	m.mu.Lock()
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	lines := len(m.pdf.SplitLines([]byte(m.tr(text)), width))
	m.mu.Unlock()

	if lines < 1 {
		lines = 1
	}
	return float64(lines) * layout.LineHeight(f)
}

// newPDF returns a point-unit document with no automatic page breaks or
// cell padding, shared by the measurer and the renderer.
func newPDF() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	return pdf
}

// translator maps UTF-8 text onto the cp1252 core fonts. Text is composed
// first so "e" plus a combining accent still lands on the single cp1252 glyph.
func translator(pdf *gofpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return tr(norm.NFC.String(s))
	}
}
