package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

const (
	DefaultWidth   = 200
	DefaultQuality = 85
)

// Make decodes a GIF, JPEG or PNG image and returns a JPEG scaled to width pixels
// wide with its aspect ratio kept. Transparent areas are flattened onto white.
func Make(data []byte, width int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if width <= 0 {
		width = DefaultWidth
	}

	scaled := resize.Resize(uint(width), 0, src, resize.Lanczos3)
	bounds := scaled.Bounds()

	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(scaled, 0, 0)

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: DefaultQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
