package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Generator renders registration check-in codes as PNGs. The encoded
// payload is the opaque registration reference, not the numeric id, so a
// code leaks nothing about registration volume.
type Generator struct {
	size int
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = 256
	}
	return &Generator{size: size}
}

// RegistrationPNG encodes the reference into a PNG image.
func (g *Generator) RegistrationPNG(reference string) ([]byte, error) {
	if reference == "" {
		return nil, fmt.Errorf("empty registration reference")
	}

	png, err := qrcode.Encode(reference, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
