package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/garage/invoicer/internal/domain/printing"
)

// ErrEmptyImage is returned for images with no pixels
var ErrEmptyImage = errors.New("image has no pixels")

// Transcode decodes data (JPEG, PNG or GIF) and re-encodes it as format.
// JPEG output is flattened onto white; PNG output keeps the alpha channel.
func Transcode(data []byte, format printing.ImageFormat, quality int) (*printing.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptyImage
	}
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	var buf bytes.Buffer
	switch format {
	case printing.ImageFormatJPEG:
		dst := image.NewRGBA(rect)
		draw.Draw(dst, rect, image.White, image.Point{}, draw.Src)
		draw.Draw(dst, rect, src, bounds.Min, draw.Over)
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	case printing.ImageFormatPNG:
		dst := image.NewNRGBA(rect)
		draw.Draw(dst, rect, src, bounds.Min, draw.Src)
		err = png.Encode(&buf, dst)
	default:
		return nil, ErrInvalidFormat
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &printing.Image{
		Format: format,
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
