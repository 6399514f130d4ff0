// pkg/render/render.go

// Package render draws layout documents with gofpdf.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/billing-microservice/pkg/layout"
)

// ErrRender reports a drawing or output fault. No partial document is
// written when it is returned.
var ErrRender = errors.New("render failed")

// Renderer executes draw instructions against a gofpdf page.
type Renderer struct {
	// Title is written to the document metadata.
	Title string
}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{Title: "Bill"}
}

// Render draws doc and writes the PDF to w. The PDF is produced in memory
// first so w only receives a complete document.
func (r *Renderer) Render(doc layout.Document, w io.Writer) error {
	data, err := r.Bytes(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write: %v", ErrRender, err)
	}
	return nil
}

// Bytes draws doc and returns the encoded PDF.
func (r *Renderer) Bytes(doc layout.Document) ([]byte, error) {
	pdf := newPDF()
	pdf.SetTitle(r.Title, true)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: doc.Width, Ht: doc.Height})

	p := &painter{pdf: pdf, tr: translator(pdf)}
	for i, in := range doc.Instructions {
		if err := p.draw(in); err != nil {
			return nil, fmt.Errorf("%w: instruction %d (%s): %v", ErrRender, i, in.Kind, err)
		}
		if !pdf.Ok() {
			return nil, fmt.Errorf("%w: instruction %d (%s): %v", ErrRender, i, in.Kind, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (p *painter) draw(in layout.Instruction) error {
	pdf := p.pdf
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(0, 0, 0)

	switch in.Kind {
	case layout.KindText:
		p.text(in)
	case layout.KindLine:
		pdf.Line(in.At.X, in.At.Y, in.To.X, in.To.Y)
	case layout.KindRect:
		if in.Radius > 0 {
			p.roundedRect(in.At.X, in.At.Y, in.Width, in.Height, in.Radius)
		} else {
			pdf.Rect(in.At.X, in.At.Y, in.Width, in.Height, "D")
		}
	case layout.KindCircle:
		pdf.Circle(in.At.X, in.At.Y, in.Radius, "D")
	case layout.KindImage:
		return p.image(in)
	default:
		return fmt.Errorf("unknown instruction kind %d", in.Kind)
	}
	return nil
}

func (p *painter) text(in layout.Instruction) {
	pdf := p.pdf
	pdf.SetFont(in.Font.Family, in.Font.Style, in.Font.Size)
	pdf.SetTextColor(in.Color.R, in.Color.G, in.Color.B)

	txt := p.tr(in.Text)
	lh := layout.LineHeight(in.Font)
	align := string(in.Align)
	if align == "" {
		align = string(layout.AlignLeft)
	}

	pdf.SetXY(in.At.X, in.At.Y)
	if in.Width > 0 {
		pdf.MultiCell(in.Width, lh, txt, "", align, false)
		return
	}
	pdf.CellFormat(pdf.GetStringWidth(txt), lh, txt, "", 0, align, false, 0, "")
}

// roundedRect strokes a rectangle whose corners are quarter curves of
// radius r.
func (p *painter) roundedRect(x, y, w, h, r float64) {
	pdf := p.pdf
	pdf.MoveTo(x+r, y)
	pdf.LineTo(x+w-r, y)
	pdf.CurveTo(x+w, y, x+w, y+r)
	pdf.LineTo(x+w, y+h-r)
	pdf.CurveTo(x+w, y+h, x+w-r, y+h)
	pdf.LineTo(x+r, y+h)
	pdf.CurveTo(x, y+h, x, y+h-r)
	pdf.LineTo(x, y+r)
	pdf.CurveTo(x, y, x+r, y)
	pdf.ClosePath()
	pdf.DrawPath("D")
}

func (p *painter) image(in layout.Instruction) error {
	img := in.Image
	if img == nil || len(img.Data) == 0 {
		return errors.New("image instruction without data")
	}
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	p.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	p.pdf.ImageOptions(img.Name, in.At.X, in.At.Y, in.Width, in.Height, false, opts, 0, "")
	return nil
}
