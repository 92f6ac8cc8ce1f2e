package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
)

// ErrSizeMismatch is returned by [FromPix] when the sample slice length does
// not equal width*height*4.
var ErrSizeMismatch = errors.New("raster: sample count does not match dimensions")

// BytesPerPixel is the number of samples per pixel (R, G, B, A).
const BytesPerPixel = 4

// RGBA is a single non-premultiplied 8-bit colour.
type RGBA struct {
	R, G, B, A uint8
}

// Opaque returns c with alpha forced to 255.
func (c RGBA) Opaque() RGBA {
	c.A = 255
	return c
}

// Common colours.
var (
	Black       = RGBA{0, 0, 0, 255}
	White       = RGBA{255, 255, 255, 255}
	Transparent = RGBA{}
)

// Buffer is a fixed-size RGBA raster stored row-major, four samples per pixel.
//
// A Buffer produced by a kernel is owned by whoever holds it and must be
// treated as immutable once handed to another component. The invariant
// len(Pix) == Width*Height*4 holds for every Buffer built by this package.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zero-filled (transparent black) buffer.
// Non-positive dimensions yield an empty 0x0 buffer rather than an error.
func New(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		return &Buffer{Pix: []uint8{}}
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// FromPix wraps an existing sample slice after checking its length.
// The slice is not copied.
func FromPix(width, height int, pix []uint8) (*Buffer, error) {
	if width < 0 || height < 0 || len(pix) != width*height*BytesPerPixel {
		return nil, ErrSizeMismatch
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool { return b == nil || b.Width == 0 || b.Height == 0 }

// Len returns the number of pixels.
func (b *Buffer) Len() int { return b.Width * b.Height }

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Offset returns the index of the first sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int { return (y*b.Width + x) * BytesPerPixel }

// At returns the colour at (x, y), or [Transparent] when out of bounds.
func (b *Buffer) At(x, y int) RGBA {
	if !b.In(x, y) {
		return Transparent
	}
	i := b.Offset(x, y)
	return RGBA{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Set writes c at (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c RGBA) {
	if !b.In(x, y) {
		return
	}
	i := b.Offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	for i := 0; i < len(b.Pix); i += BytesPerPixel {
		b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Clone returns a deep copy. Cloning nil returns nil.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Equal reports whether both buffers have the same size and samples.
// Two nil buffers are equal.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Width == o.Width && b.Height == o.Height && bytes.Equal(b.Pix, o.Pix)
}

// ToImage returns the buffer as an [image.NRGBA] sharing no memory with b.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// FromImage converts any image into a Buffer with non-premultiplied samples.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, RGBA{c.R, c.G, c.B, c.A})
		}
	}
	return out
}
