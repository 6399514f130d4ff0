// pkg/layout/engine_test.go

package layout

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billing-microservice/pkg/invoice"
	"github.com/billing-microservice/pkg/profile"
)

// fixedMeasurer treats every glyph as half the font size wide.
type fixedMeasurer struct{}

func (fixedMeasurer) Width(text string, f Font) float64 {
	return float64(len([]rune(text))) * f.Size / 2
}

func (m fixedMeasurer) Height(text string, f Font, width float64) float64 {
	lines := 1.0
	if width > 0 {
		lines = math.Max(1, math.Ceil(m.Width(text, f)/width))
	}
	return lines * LineHeight(f)
}

func newEngine() *Engine {
	return NewEngine(fixedMeasurer{}, profile.Default())
}

func sampleInput(rows int) Input {
	items := make([]invoice.LineItem, rows)
	for i := range items {
		items[i] = invoice.LineItem{
			Description: "Item",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(100),
		}
	}
	o := invoice.Order{
		InvoiceID: "IN-1",
		IssueDate: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Customer:  invoice.Customer{Name: "Asha", Address: "12 Main Rd", Phone: "98400", Email: "a@x.in"},
		LineItems: items,
	}
	return Input{Order: o, Totals: invoice.ComputeTotals(o), AmountWords: "two hundred and ten"}
}

func texts(doc Document) []string {
	var out []string
	for _, in := range doc.Instructions {
		if in.Kind == KindText {
			out = append(out, in.Text)
		}
	}
	return out
}

func findText(t *testing.T, doc Document, prefix string) Instruction {
	t.Helper()
	for _, in := range doc.Instructions {
		if in.Kind == KindText && strings.HasPrefix(in.Text, prefix) {
			return in
		}
	}
	t.Fatalf("no text starting with %q", prefix)
	return Instruction{}
}

func TestTableHeightMonotonic(t *testing.T) {
	e := newEngine()
	prev := 0.0
	for n := 0; n <= 40; n++ {
		doc := e.Compose(sampleInput(n))
		table, totals := doc.Blocks.Table, doc.Blocks.Totals

		assert.GreaterOrEqual(t, table.H, prev, "rows=%d", n)
		assert.GreaterOrEqual(t, table.H, MinTableHeight)
		assert.Equal(t, TableHeight(n), table.H)
		assert.GreaterOrEqual(t, totals.Y, table.Bottom()+BlockGap, "rows=%d", n)
		assert.GreaterOrEqual(t, table.Y, doc.Blocks.Header.Bottom())
		if n > 0 {
			last := RowY(table.Y, n-1) + tableRowH
			assert.LessOrEqual(t, last, table.Bottom(), "rows=%d", n)
		}
		prev = table.H
	}
}

func TestRowsPlacedAtFixedPitch(t *testing.T) {
	doc := newEngine().Compose(sampleInput(3))
	top := doc.Blocks.Table.Y

	var ys []float64
	for _, in := range doc.Instructions {
		if in.Kind == KindText && in.At.X == tableLeft+10 && in.Text != "S.NO" {
			ys = append(ys, in.At.Y)
		}
	}
	require.Len(t, ys, 3)
	for i, y := range ys {
		assert.Equal(t, RowY(top, i)+6, y)
	}
}

func TestEmptyTableStillRendersHeader(t *testing.T) {
	doc := newEngine().Compose(sampleInput(0))

	assert.Equal(t, MinTableHeight, doc.Blocks.Table.H)
	all := texts(doc)
	for _, label := range []string{"S.NO", "PRODUCT LIST", "QTY", "Price/Unit", "TOTAL"} {
		assert.Contains(t, all, label)
	}
	var rects int
	for _, in := range doc.Instructions {
		if in.Kind == KindRect && in.At.X == tableLeft && in.Width == tableWidth {
			rects++
		}
	}
	assert.Equal(t, 1, rects, "one outer table box")
}

func TestWrappedWordsPushSignatureDown(t *testing.T) {
	e := newEngine()

	short := sampleInput(1)
	long := sampleInput(1)
	long.AmountWords = strings.Repeat("ninety nine lakh ninety nine thousand ", 6)

	a, b := e.Compose(short), e.Compose(long)

	f := Font{Family: "Helvetica", Style: "I", Size: 11}
	require.Greater(t, fixedMeasurer{}.Height("("+long.AmountWords+" rupees only)", f, wordsW), LineHeight(f))

	grow := b.Blocks.Amount.H - a.Blocks.Amount.H
	assert.Greater(t, grow, 0.0)
	assert.InDelta(t, grow, b.Blocks.Signature.Y-a.Blocks.Signature.Y, 1e-9)
	assert.GreaterOrEqual(t, b.Blocks.Signature.Y, b.Blocks.Amount.Bottom()+BlockGap)
	assert.Greater(t, b.Blocks.Terms.Y, b.Blocks.Amount.Bottom())
}

func TestSignatureOriginFollowsMeasuredWords(t *testing.T) {
	doc := newEngine().Compose(sampleInput(2))

	words := findText(t, doc, "(two hundred and ten rupees only)")
	assert.Equal(t, Gray, words.Color)
	assert.Equal(t, wordsW, words.Width)

	h := fixedMeasurer{}.Height(words.Text, words.Font, words.Width)
	assert.InDelta(t, words.At.Y+h+BlockGap, doc.Blocks.Signature.Y, 1e-9)
	assert.Equal(t, doc.Blocks.Totals.Bottom()+BlockGap, doc.Blocks.Amount.Y)
}

func TestSignatureBlockOffsets(t *testing.T) {
	doc := newEngine().Compose(sampleInput(1))
	origin := doc.Blocks.Signature.Y

	founder := findText(t, doc, "(Pugalenthi G)")
	director := findText(t, doc, "(Mohan Prasanth N)")
	stamp := findText(t, doc, "Date : 09.03.2024")
	title := findText(t, doc, "Terms and Conditions:")

	assert.Equal(t, origin+signatureNameY, founder.At.Y)
	assert.Equal(t, origin+signatureNameY, director.At.Y)
	assert.Equal(t, AlignCenter, founder.Align)
	assert.Less(t, founder.At.X, director.At.X)
	assert.Equal(t, origin+dateStampY, stamp.At.Y)
	assert.Equal(t, origin+termsY, title.At.Y)

	var termYs []float64
	for _, in := range doc.Instructions {
		if in.Kind == KindText && strings.HasPrefix(in.Text, "•") {
			assert.Equal(t, termsX, in.At.X)
			termYs = append(termYs, in.At.Y)
		}
	}
	require.Len(t, termYs, 3)
	for i := 1; i < len(termYs); i++ {
		assert.Equal(t, termsLineH, termYs[i]-termYs[i-1])
	}
}

func TestBrandFallbackAndImage(t *testing.T) {
	e := newEngine()

	doc := e.Compose(sampleInput(1))
	brand := findText(t, doc, "E-GROOTS")
	assert.Equal(t, 34.0, brand.Font.Size)
	for _, in := range doc.Instructions {
		assert.NotEqual(t, KindImage, in.Kind)
	}

	in := sampleInput(1)
	in.Brand = &Image{Name: "brand", Type: "PNG", Data: []byte{1}, PixelWidth: 800, PixelHeight: 200}
	doc = e.Compose(in)
	var img *Instruction
	for i := range doc.Instructions {
		if doc.Instructions[i].Kind == KindImage {
			img = &doc.Instructions[i]
		}
	}
	require.NotNil(t, img)
	assert.InDelta(t, 200.0, img.Width, 1e-9)
	assert.InDelta(t, 50.0, img.Height, 1e-9)
	assert.NotContains(t, texts(doc), "E-GROOTS")
}

func TestContactGlyphsArePrimitives(t *testing.T) {
	doc := newEngine().Compose(sampleInput(0))

	var rounded, circles int
	for _, in := range doc.Instructions {
		switch {
		case in.Kind == KindRect && in.Radius > 0:
			rounded++
		case in.Kind == KindCircle:
			circles++
		}
	}
	assert.Equal(t, 1, rounded)
	assert.Equal(t, 1, circles)
}

func TestLongCustomerAddressGrowsHeader(t *testing.T) {
	e := newEngine()
	short := sampleInput(1)
	long := sampleInput(1)
	long.Order.Customer.Address = strings.Repeat("Flat 4, Lakshmi Nagar, ", 8)

	a, b := e.Compose(short), e.Compose(long)

	assert.Greater(t, b.Blocks.Header.H, a.Blocks.Header.H)
	assert.Equal(t, b.Blocks.Header.Bottom()+BlockGap, b.Blocks.Table.Y)

	mobileA := findText(t, a, "Mobile No:")
	mobileB := findText(t, b, "Mobile No:")
	assert.Greater(t, mobileB.At.Y, mobileA.At.Y)
}

func TestLongDescriptionIsShortened(t *testing.T) {
	in := sampleInput(1)
	in.Order.LineItems[0].Description = strings.Repeat("Premium ", 20)

	doc := newEngine().Compose(in)
	var desc Instruction
	for _, op := range doc.Instructions {
		if op.Kind == KindText && op.At.X == tableLeft+60 && op.Text != "PRODUCT LIST" {
			desc = op
		}
	}
	assert.True(t, strings.HasSuffix(desc.Text, "..."))
	assert.LessOrEqual(t, fixedMeasurer{}.Width(desc.Text, desc.Font), descriptionW)
}

func TestPageGrowsForManyRows(t *testing.T) {
	e := newEngine()

	assert.Equal(t, PageHeight, e.Compose(sampleInput(1)).Height)

	doc := e.Compose(sampleInput(30))
	assert.Greater(t, doc.Height, PageHeight)
	assert.GreaterOrEqual(t, doc.Height, doc.Blocks.Signature.Bottom())
	assert.GreaterOrEqual(t, doc.Height, doc.Blocks.Terms.Bottom())
}

func TestTotalsValuesRightAligned(t *testing.T) {
	doc := newEngine().Compose(sampleInput(1))
	total := findText(t, doc, "Total Price :")
	assert.Equal(t, doc.Blocks.Totals.Y+5, total.At.Y)

	var values []Instruction
	for _, in := range doc.Instructions {
		if in.Kind == KindText && in.Align == AlignRight {
			values = append(values, in)
		}
	}
	require.Len(t, values, 6)
	assert.Equal(t, "200", values[0].Text)
	assert.Equal(t, "200", values[5].Text, "balance")
}

func TestLongTermsStayLeftOfSignatures(t *testing.T) {
	p := profile.Default()
	p.Terms = append(p.Terms, "• "+strings.Repeat("Goods once sold will not be taken back ", 4))
	doc := NewEngine(fixedMeasurer{}, p).Compose(sampleInput(1))

	f := Font{Family: "Helvetica", Size: 9}
	var last Instruction
	for _, in := range doc.Instructions {
		if in.Kind == KindText && strings.HasPrefix(in.Text, "•") {
			last = in
		}
	}
	assert.True(t, strings.HasSuffix(last.Text, "..."))
	assert.LessOrEqual(t, termsX+fixedMeasurer{}.Width(last.Text, f), signatureX[0])
	assert.LessOrEqual(t, doc.Blocks.Terms.X+doc.Blocks.Terms.W, signatureX[0])
}
