// pkg/layout/engine.go

// Package layout positions a bill on an A4 page as an ordered list of draw
// instructions.
//
// Blocks whose height depends on content (wrapped customer fields, the line
// item table, the worded amount) are measured before the next block is
// placed, so every later origin follows from the extent measured above it.
package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/billing-microservice/pkg/invoice"
	"github.com/billing-microservice/pkg/profile"
)

// A4 in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

const (
	margin       = 50.0
	contentRight = 545.0

	// Header strip.
	stripTop       = 90.0
	stripMinBottom = 180.0
	stripFieldY    = 95.0
	stripRowGap    = 15.0
	companyX       = 50.0
	contactTextX   = 66.0
	firstRuleX     = 215.0
	customerX      = 220.0
	customerW      = 200.0
	secondRuleX    = 430.0
	metaX          = 440.0

	// Line item table.
	tableLeft      = 50.0
	tableWidth     = 495.0
	tableHeaderH   = 25.0
	tableRowH      = 26.0
	tablePadding   = 30.0
	tableMinHeight = 260.0
	descriptionW   = 200.0

	// Totals box.
	totalsX      = 345.0
	totalsW      = 200.0
	totalsH      = 120.0
	totalsRowH   = 18.0
	totalsLabelX = 355.0
	totalsValueX = 445.0
	totalsValueW = 90.0

	// Worded amount.
	amountX      = 35.0
	amountValueX = 105.0
	wordsX       = 30.0
	wordsW       = 500.0
	wordsOffset  = 20.0

	// BlockGap separates stacked blocks.
	BlockGap = 20.0

	// Signatures and terms, relative to the signature origin.
	signatureLineY = 36.0
	signatureNameY = 42.0
	signatureRoleY = 60.0
	signatureW     = 100.0
	dateStampY     = 80.0
	dateStampW     = 150.0
	termsX         = 40.0
	termsY         = 30.0
	termsLineH     = 14.0
	termsW         = 280.0
)

var signatureX = [2]float64{330, 445}

// MinTableHeight is the height of the table box when it has no rows.
const MinTableHeight = tableMinHeight

var (
	regular = Font{Family: "Helvetica", Size: 10}
	bold    = Font{Family: "Helvetica", Style: "B", Size: 10}
)

// Input is everything one bill needs.
type Input struct {
	Order  invoice.Order
	Totals invoice.Totals
	// AmountWords is the worded final amount without currency wording.
	AmountWords string
	// Brand is the logo; nil draws the profile's brand text instead.
	Brand *Image
}

// Engine lays out bills for one company profile. It holds no per-render
// state and is safe for concurrent use.
type Engine struct {
	measure Measurer
	profile profile.Profile
}

// NewEngine builds a layout engine using the given text metrics.
func NewEngine(m Measurer, p profile.Profile) *Engine {
	return &Engine{measure: m, profile: p}
}

// TableHeight returns the table box height for a row count.
func TableHeight(rows int) float64 {
	return math.Max(tableHeaderH+float64(rows)*tableRowH+tablePadding, tableMinHeight)
}

// Compose lays out a single bill.
func (e *Engine) Compose(in Input) Document {
	c := &canvas{}

	e.brand(c, in.Brand)
	header := e.headerStrip(c, in.Order)
	table := e.table(c, in.Order.LineItems, header.Bottom()+BlockGap)
	totals := e.totals(c, in.Totals, table.Bottom()+BlockGap)
	amount := e.amount(c, in.Totals, in.AmountWords, totals.Bottom()+BlockGap)
	signature := e.signatures(c, in.Order, amount.Bottom()+BlockGap)
	terms := e.terms(c, signature.Y+termsY)

	bottom := math.Max(signature.Bottom(), terms.Bottom())
	return Document{
		Width:        PageWidth,
		Height:       math.Max(PageHeight, bottom+margin),
		Instructions: c.ops,
		Blocks: Blocks{
			Header:    header,
			Table:     table,
			Totals:    totals,
			Amount:    amount,
			Signature: signature,
			Terms:     terms,
		},
	}
}

func (e *Engine) brand(c *canvas, logo *Image) {
	if logo != nil && logo.PixelWidth > 0 && logo.PixelHeight > 0 {
		const maxW, maxH = 200.0, 55.0
		scale := math.Min(maxW/float64(logo.PixelWidth), maxH/float64(logo.PixelHeight))
		c.image(margin, 20, float64(logo.PixelWidth)*scale, float64(logo.PixelHeight)*scale, logo)
	} else {
		c.text(margin, 36, 0, e.profile.BrandText, Font{Family: "Helvetica", Style: "B", Size: 34})
	}
	c.line(margin, 80, contentRight, 80)
}

// headerStrip draws the company, customer and invoice columns and returns
// the strip region. Its bottom follows the tallest column.
func (e *Engine) headerStrip(c *canvas, o invoice.Order) Box {
	p := e.profile

	// Company column.
	c.text(companyX, stripFieldY, 0, p.CompanyName, bold)
	y := stripFieldY + stripRowGap
	for _, line := range p.AddressLines {
		c.text(companyX, y, 0, line, regular)
		y += stripRowGap
	}
	y++
	phoneGlyph(c, companyX, y)
	c.text(contactTextX, y, firstRuleX-contactTextX-4, p.Phone, regular)
	y += 19
	envelopeGlyph(c, companyX, y)
	c.text(contactTextX, y, firstRuleX-contactTextX-4, p.Email, regular)
	companyBottom := y + 14

	// Customer column.
	c.text(customerX, stripFieldY, 0, "ORDER FROM :", bold)
	y = stripFieldY + stripRowGap
	for _, field := range []string{
		"Customer Name: " + o.Customer.Name,
		"Address: " + o.Customer.Address,
		"Mobile No: " + o.Customer.Phone,
		"E-Mail Id: " + o.Customer.Email,
	} {
		y += e.wrapped(c, customerX, y, customerW, field, regular)
	}
	customerBottom := y

	// Invoice column, each value under its label.
	y = stripFieldY
	for _, row := range [][2]string{
		{"IN Number :", o.InvoiceID},
		{"Date of Issue :", o.IssuedOn()},
	} {
		c.text(metaX, y, 0, row[0], bold)
		y += stripRowGap
		y += e.wrapped(c, metaX, y, contentRight-metaX, row[1], regular)
	}
	metaBottom := y

	bottom := math.Max(stripMinBottom, math.Max(companyBottom, math.Max(customerBottom, metaBottom))+5)
	c.line(firstRuleX, stripTop, firstRuleX, bottom)
	c.line(secondRuleX, stripTop, secondRuleX, bottom)

	return Box{X: margin, Y: stripTop, W: contentRight - margin, H: bottom - stripTop}
}

// wrapped draws text wrapped to width and returns the vertical advance it
// needs, never less than one strip row.
func (e *Engine) wrapped(c *canvas, x, y, width float64, text string, f Font) float64 {
	c.text(x, y, width, text, f)
	return math.Max(e.measure.Height(text, f, width), stripRowGap)
}

// table draws the line items inside a single outer box with no inner grid.
func (e *Engine) table(c *canvas, items []invoice.LineItem, top float64) Box {
	box := Box{X: tableLeft, Y: top, W: tableWidth, H: TableHeight(len(items))}
	c.rect(box.X, box.Y, box.W, box.H)

	labelY := top + 7
	c.text(tableLeft+10, labelY, 0, "S.NO", bold)
	c.text(tableLeft+60, labelY, 0, "PRODUCT LIST", bold)
	c.text(tableLeft+270, labelY, 0, "QTY", bold)
	c.text(tableLeft+330, labelY, 0, "Price/Unit", bold)
	c.text(tableLeft+420, labelY, 0, "TOTAL", bold)
	c.line(tableLeft, top+tableHeaderH, tableLeft+tableWidth, top+tableHeaderH)

	for i, item := range items {
		y := RowY(top, i) + 6
		c.text(tableLeft+10, y, 0, strconv.Itoa(i+1), regular)
		c.text(tableLeft+60, y, 0, fit(e.measure, item.Description, regular, descriptionW), regular)
		c.text(tableLeft+275, y, 0, item.Quantity.String(), regular)
		c.text(tableLeft+330, y, 0, invoice.FormatINR(item.UnitPrice), regular)
		c.text(tableLeft+420, y, 0, invoice.FormatINR(item.Total()), regular)
	}
	return box
}

// RowY returns the top of row i in a table starting at tableTop.
func RowY(tableTop float64, i int) float64 {
	return tableTop + tableHeaderH + float64(i)*tableRowH
}

func (e *Engine) totals(c *canvas, t invoice.Totals, top float64) Box {
	box := Box{X: totalsX, Y: top, W: totalsW, H: totalsH}
	c.rect(box.X, box.Y, box.W, box.H)

	y := top + 5
	for _, row := range []struct {
		label string
		value string
	}{
		{"Total Price :", invoice.FormatINR(t.Subtotal)},
		{"Delivery Charge :", invoice.FormatINR(t.DeliveryCharge)},
		{"Discount :", invoice.FormatINR(t.Discount)},
		{"Amount :", invoice.FormatINR(t.FinalAmount)},
		{"Advance :", invoice.FormatINR(t.Advance)},
		{"Balance :", invoice.FormatINR(t.Balance)},
	} {
		c.text(totalsLabelX, y, 0, row.label, bold)
		c.alignedText(totalsValueX, y, totalsValueW, row.value, regular, AlignRight)
		y += totalsRowH
	}
	return box
}

// amount draws the numeric final amount and its worded form. The worded
// line may wrap, so its measured height sets the block extent.
func (e *Engine) amount(c *canvas, t invoice.Totals, words string, top float64) Box {
	c.text(amountX, top, 0, "Amount :", Font{Family: "Helvetica", Style: "B", Size: 14})
	c.text(amountValueX, top, 0, invoice.FormatINR(t.FinalAmount), Font{Family: "Helvetica", Size: 12})

	phrase := fmt.Sprintf("(%s %s only)", words, e.profile.CurrencyWord)
	f := Font{Family: "Helvetica", Style: "I", Size: 11}
	wordsTop := top + wordsOffset
	h := e.measure.Height(phrase, f, wordsW)
	c.add(Instruction{
		Kind:  KindText,
		At:    Point{X: wordsX, Y: wordsTop},
		Width: wordsW,
		Text:  phrase,
		Font:  f,
		Align: AlignLeft,
		Color: Gray,
	})

	return Box{X: wordsX, Y: top, W: wordsW, H: wordsOffset + h}
}

// signatures draws two signature groups and the generation date stamp at
// fixed offsets from origin.
func (e *Engine) signatures(c *canvas, o invoice.Order, origin float64) Box {
	roleFont := Font{Family: "Helvetica", Size: 9}
	for i, x := range signatureX {
		var s profile.Signatory
		if i < len(e.profile.Signatories) {
			s = e.profile.Signatories[i]
		}
		c.line(x, origin+signatureLineY, x+signatureW, origin+signatureLineY)
		c.alignedText(x, origin+signatureNameY, signatureW, s.Name, bold, AlignCenter)
		c.alignedText(x, origin+signatureRoleY, signatureW, s.Role, roleFont, AlignCenter)
	}

	left, right := signatureX[0], signatureX[1]+signatureW
	stampX := (left+right)/2 - dateStampW/2
	c.alignedText(stampX, origin+dateStampY, dateStampW, "Date : "+o.IssuedOn(), roleFont, AlignCenter)

	return Box{X: left, Y: origin, W: right - left, H: dateStampY + LineHeight(roleFont)}
}

// terms draws the disclosure lines left of the signatures. Lines are
// shortened to termsW so they keep a fixed advance.
func (e *Engine) terms(c *canvas, top float64) Box {
	title := Font{Family: "Helvetica", Style: "B", Size: 11}
	c.text(termsX, top, 0, fit(e.measure, e.profile.TermsTitle, title, termsW), title)
	y := top + 16
	f := Font{Family: "Helvetica", Size: 9}
	for _, line := range e.profile.Terms {
		c.text(termsX, y, 0, fit(e.measure, line, f, termsW), f)
		y += termsLineH
	}
	return Box{X: termsX, Y: top, W: termsW, H: y - top}
}
