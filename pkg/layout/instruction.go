// pkg/layout/instruction.go

package layout

// Kind tags a draw instruction.
type Kind int

const (
	KindText Kind = iota
	KindLine
	KindRect
	KindCircle
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Point is an absolute page position in points, origin top-left.
type Point struct {
	X, Y float64
}

// Font selects a face. Style is "" (regular), "B" (bold) or "I" (oblique).
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Align is the horizontal alignment of text inside its width.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Color is an RGB stroke or fill colour.
type Color struct {
	R, G, B int
}

var (
	Black = Color{}
	Gray  = Color{R: 128, G: 128, B: 128}
)

// Image is an encoded raster ready to be placed on the page.
type Image struct {
	Name        string
	Type        string // "PNG" or "JPG"
	Data        []byte
	PixelWidth  int
	PixelHeight int
}

// Instruction is one positioned primitive.
//
// Text is drawn with its top-left corner at At; a non-zero Width wraps the
// text and aligns it inside that width. Lines run from At to To. Rects and
// images span Width x Height from At; Radius rounds rect corners. Circles
// are centred on At.
type Instruction struct {
	Kind   Kind
	At     Point
	To     Point
	Width  float64
	Height float64
	Radius float64
	Text   string
	Font   Font
	Align  Align
	Color  Color
	Image  *Image
}

// Box is a placed rectangular region.
type Box struct {
	X, Y, W, H float64
}

// Bottom returns the lower edge of the box.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Blocks records where each variable block ended up.
type Blocks struct {
	Header    Box
	Table     Box
	Totals    Box
	Amount    Box
	Signature Box
	Terms     Box
}

// Document is the ordered instruction list for a single page.
type Document struct {
	Width        float64
	Height       float64
	Instructions []Instruction
	Blocks       Blocks
}
