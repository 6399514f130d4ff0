// pkg/render/brand.go

package render

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/billing-microservice/pkg/layout"
)

// Logos are downscaled to fit this many pixels before embedding.
const (
	brandMaxWidth  = 800
	brandMaxHeight = 220
)

// LoadBrand decodes the logo at path and re-encodes it as PNG for
// embedding. Callers fall back to the text brand mark on error.
func LoadBrand(path string) (*layout.Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open brand logo: %w", err)
	}

	img := imaging.Fit(src, brandMaxWidth, brandMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode brand logo: %w", err)
	}

	b := img.Bounds()
	return &layout.Image{
		Name:        "brand",
		Type:        "PNG",
		Data:        buf.Bytes(),
		PixelWidth:  b.Dx(),
		PixelHeight: b.Dy(),
	}, nil
}
