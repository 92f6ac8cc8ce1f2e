package kernel

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// BlendMode selects the per-channel function used by [Combine].
type BlendMode string

// Supported blend modes.
const (
	BlendAdd        BlendMode = "add"        // min(255, A+B)
	BlendMultiply   BlendMode = "multiply"   // round(A*B/255)
	BlendOverlay    BlendMode = "overlay"    // multiply or screen depending on A
	BlendScreen     BlendMode = "screen"     // 255 - round((255-A)*(255-B)/255)
	BlendDifference BlendMode = "difference" // |A-B|
)

// BlendModes lists every supported mode in a stable order.
var BlendModes = []BlendMode{BlendAdd, BlendMultiply, BlendOverlay, BlendScreen, BlendDifference}

// ParseBlendMode parses a mode name (case-insensitive). Empty means add.
func ParseBlendMode(s string) (BlendMode, error) {
	m := BlendMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return BlendAdd, nil
	}
	for _, known := range BlendModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid blend mode: %q (must be one of: add, multiply, overlay, screen, difference)", s)
}

// Blend applies mode to a single pair of channel values. Unknown modes
// return a unchanged.
func Blend(mode BlendMode, a, b uint8) uint8 {
	A, B := float64(a), float64(b)
	switch mode {
	case BlendAdd:
		return uint8(min(255, int(a)+int(b)))
	case BlendMultiply:
		return round8(A * B / 255)
	case BlendOverlay:
		if a < 128 {
			return round8(2 * A * B / 255)
		}
		return 255 - round8(2*(255-A)*(255-B)/255)
	case BlendScreen:
		return 255 - round8((255-A)*(255-B)/255)
	case BlendDifference:
		if a > b {
			return a - b
		}
		return b - a
	}
	return a
}

// ClampOpacity limits o to [0, 1]; NaN becomes 0.
func ClampOpacity(o float64) float64 {
	if math.IsNaN(o) || o < 0 {
		return 0
	}
	if o > 1 {
		return 1
	}
	return o
}

// Combine composites b onto a.
//
// When both inputs are nil the result is nil. When only one is present its
// size determines the output and the missing side reads as transparent
// black. When sizes differ the output takes a's size and pixels of b outside
// its own bounds read as transparent black.
//
// Each colour channel is round(A*(1-o) + f(A,B)*o) where f is the blend
// function and o the clamped opacity, so opacity mixes the blended result
// over a rather than cross-fading a and b. Output alpha is max(alphaA, alphaB).
func Combine(a, b *raster.Buffer, mode BlendMode, opacity float64) *raster.Buffer {
	if a == nil && b == nil {
		return nil
	}
	size := a
	if size == nil {
		size = b
	}
	o := ClampOpacity(opacity)
	out := raster.New(size.Width, size.Height)

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			var ca, cb raster.RGBA
			if a != nil {
				ca = a.At(x, y)
			}
			if b != nil {
				cb = b.At(x, y)
			}
			out.Set(x, y, raster.RGBA{
				R: mix(ca.R, Blend(mode, ca.R, cb.R), o),
				G: mix(ca.G, Blend(mode, ca.G, cb.G), o),
				B: mix(ca.B, Blend(mode, ca.B, cb.B), o),
				A: max(ca.A, cb.A),
			})
		}
	}
	return out
}

func mix(base, blended uint8, o float64) uint8 {
	return round8(float64(base)*(1-o) + float64(blended)*o)
}
