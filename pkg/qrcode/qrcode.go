package qr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

type Config struct {
	Size          int     // Output width and height in pixels
	QuietZone     int     // Border around the code, in modules
	DotScale      float64 // Dot diameter relative to a module, 1 draws full squares
	LogoScale     float64 // Logo width relative to Size
	RecoveryLevel qrcode.RecoveryLevel
	Background    color.Color
	Foreground    color.Color
	Logo          image.Image // Optional logo drawn in the center
}

// Default renders dark dots on white with a high recovery level, leaving room for a logo.
var Default = Config{
	Size:          512,
	QuietZone:     2,
	DotScale:      0.9,
	LogoScale:     0.2,
	RecoveryLevel: qrcode.High,
	Background:    color.White,
	Foreground:    color.RGBA{R: 20, G: 20, B: 20, A: 255},
}

// LoadLogo reads an image file for Config.Logo.
func LoadLogo(path string) (image.Image, error) {
	return gg.LoadImage(path)
}

// Generate encodes content and returns the PNG image.
func (c Config) Generate(content string) ([]byte, error) {
	if c.Size <= 0 {
		return nil, errors.New("qr: size must be positive")
	}

	code, err := qrcode.New(content, c.RecoveryLevel)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()

	modules := len(bitmap) + 2*c.QuietZone
	module := float64(c.Size) / float64(modules)

	dc := gg.NewContext(c.Size, c.Size)
	dc.SetColor(c.Background)
	dc.Clear()

	logoSize := 0
	if c.Logo != nil && c.LogoScale > 0 {
		logoSize = int(float64(c.Size) * c.LogoScale)
	}
	center := float64(c.Size) / 2
	logoHalf := float64(logoSize)/2 + module

	dc.SetColor(c.Foreground)
	radius := module * c.DotScale / 2
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			cx := (float64(x+c.QuietZone) + 0.5) * module
			cy := (float64(y+c.QuietZone) + 0.5) * module
			if logoSize > 0 && abs(cx-center) < logoHalf && abs(cy-center) < logoHalf {
				continue
			}
			if c.DotScale >= 1 {
				dc.DrawRectangle(cx-module/2, cy-module/2, module, module)
			} else {
				dc.DrawCircle(cx, cy, radius)
			}
		}
	}
	dc.Fill()

	if logoSize > 0 {
		logo := resize.Resize(uint(logoSize), 0, c.Logo, resize.Lanczos3)
		dc.DrawImageAnchored(logo, int(center), int(center), 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
