package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

// EncodePNG writes b as PNG. A scale other than 0 or 1 resamples the image
// with Catmull-Rom before encoding; the scaled size is rounded and never
// smaller than 1x1.
func EncodePNG(w io.Writer, b *Buffer, scale float64) error {
	if b.Empty() {
		return fmt.Errorf("encode png: empty buffer")
	}
	var img image.Image = b.ToImage()
	if scale > 0 && scale != 1 {
		img = Scale(img.(*image.NRGBA), scale)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNG is a convenience wrapper around [EncodePNG] returning the bytes.
func PNG(b *Buffer, scale float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, b, scale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePNG reads a PNG stream into a Buffer.
func DecodePNG(r io.Reader) (*Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return FromImage(img), nil
}

// ScaledSize returns the dimensions [Scale] produces for a w x h image.
func ScaledSize(w, h int, factor float64) (int, int) {
	if factor <= 0 || factor == 1 {
		return w, h
	}
	return max(1, int(math.Round(float64(w)*factor))), max(1, int(math.Round(float64(h)*factor)))
}

// Scale resamples src by factor using Catmull-Rom interpolation.
func Scale(src *image.NRGBA, factor float64) *image.NRGBA {
	w, h := ScaledSize(src.Bounds().Dx(), src.Bounds().Dy(), factor)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
