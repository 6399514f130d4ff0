// pkg/layout/canvas.go

package layout

// canvas accumulates instructions in draw order.
type canvas struct {
	ops []Instruction
}

func (c *canvas) add(in Instruction) {
	c.ops = append(c.ops, in)
}

// text draws left-aligned black text; width 0 keeps it on one line.
func (c *canvas) text(x, y, width float64, s string, f Font) {
	c.alignedText(x, y, width, s, f, AlignLeft)
}

func (c *canvas) alignedText(x, y, width float64, s string, f Font, a Align) {
	c.add(Instruction{Kind: KindText, At: Point{X: x, Y: y}, Width: width, Text: s, Font: f, Align: a})
}

func (c *canvas) line(x1, y1, x2, y2 float64) {
	c.add(Instruction{Kind: KindLine, At: Point{X: x1, Y: y1}, To: Point{X: x2, Y: y2}})
}

func (c *canvas) rect(x, y, w, h float64) {
	c.add(Instruction{Kind: KindRect, At: Point{X: x, Y: y}, Width: w, Height: h})
}

func (c *canvas) roundedRect(x, y, w, h, r float64) {
	c.add(Instruction{Kind: KindRect, At: Point{X: x, Y: y}, Width: w, Height: h, Radius: r})
}

func (c *canvas) circle(x, y, r float64) {
	c.add(Instruction{Kind: KindCircle, At: Point{X: x, Y: y}, Radius: r})
}

func (c *canvas) image(x, y, w, h float64, img *Image) {
	c.add(Instruction{Kind: KindImage, At: Point{X: x, Y: y}, Width: w, Height: h, Image: img})
}
