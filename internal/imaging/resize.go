package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const jpegQuality = 85

// Downscale shrinks JPEG and PNG images whose width or height exceeds maxDimension,
// keeping aspect ratio and format. Other content types, small images and a
// non-positive maxDimension are returned unchanged with resized=false.
func Downscale(data []byte, contentType string, maxDimension int) (out []byte, resized bool, err error) {
	if maxDimension <= 0 || (contentType != "image/jpeg" && contentType != "image/png") {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= maxDimension && cfg.Height <= maxDimension {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("unsupported image format or corrupt image: %w", err)
	}
	small := resize.Thumbnail(uint(maxDimension), uint(maxDimension), img, resize.Lanczos3)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, small)
	default:
		err = jpeg.Encode(&buf, small, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-encode resized image: %w", err)
	}
	return buf.Bytes(), true, nil
}
