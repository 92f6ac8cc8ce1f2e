package kernel

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Direction selects the axis a [Gradient] interpolates along.
type Direction string

const (
	// Horizontal interpolates from the left column to the right column.
	Horizontal Direction = "horizontal"
	// Vertical interpolates from the top row to the bottom row.
	Vertical Direction = "vertical"
)

// ParseDirection accepts "horizontal"/"h" and "vertical"/"v" (case-insensitive).
// An empty string yields Horizontal.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return "", fmt.Errorf("invalid direction: %q (must be horizontal or vertical)", s)
}

// Gradient interpolates linearly from a to b along dir.
//
// For Horizontal the parameter is t = x/(width-1), for Vertical
// t = y/(height-1); an axis of length 1 uses t = 0 everywhere. Each colour
// channel is round(A*(1-t) + B*t) and alpha is always 255. Non-positive
// dimensions produce an empty buffer.
func Gradient(width, height int, a, b raster.RGBA, dir Direction) *raster.Buffer {
	out := raster.New(width, height)
	if out.Empty() {
		return out
	}

	span := width - 1
	if dir == Vertical {
		span = height - 1
	}

	// One colour per position along the axis; rows or columns repeat it.
	steps := make([]raster.RGBA, span+1)
	for i := range steps {
		t := 0.0
		if span > 0 {
			t = float64(i) / float64(span)
		}
		steps[i] = raster.RGBA{
			R: round8(float64(a.R)*(1-t) + float64(b.R)*t),
			G: round8(float64(a.G)*(1-t) + float64(b.G)*t),
			B: round8(float64(a.B)*(1-t) + float64(b.B)*t),
			A: 255,
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if dir == Vertical {
				out.Set(x, y, steps[y])
			} else {
				out.Set(x, y, steps[x])
			}
		}
	}
	return out
}
