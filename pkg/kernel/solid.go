package kernel

import "github.com/matzehuels/pixelgraph/pkg/raster"

// Solid returns a width x height buffer with every pixel set to c.
// Non-positive dimensions produce an empty 0x0 buffer.
func Solid(width, height int, c raster.RGBA) *raster.Buffer {
	out := raster.New(width, height)
	out.Fill(c)
	return out
}
