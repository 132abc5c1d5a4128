package qrimage

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of rendered codes.
const DefaultSize = 256

// PNG renders content as a QR code PNG with medium error correction.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode.Encode -> %w", err)
	}

	return png, nil
}
