// pkg/layout/glyph.go

package layout

// phoneGlyph draws a 10x14 handset outline with its top-left corner at x, y.
func phoneGlyph(c *canvas, x, y float64) {
	const w, h = 10.0, 14.0
	c.roundedRect(x, y, w, h, 2)
	c.rect(x+2, y+2, w-4, h-6)
	c.circle(x+w/2, y+h-3, 1)
}

// envelopeGlyph draws a 12x9 envelope with its flap meeting at the centre.
func envelopeGlyph(c *canvas, x, y float64) {
	const w, h = 12.0, 9.0
	cx, cy := x+w/2, y+h/2
	c.rect(x, y, w, h)
	c.line(x, y, cx, cy)
	c.line(cx, cy, x+w, y)
	c.line(x, y+h, cx, cy)
	c.line(cx, cy, x+w, y+h)
}
