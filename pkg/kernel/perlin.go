package kernel

import (
	"math"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Perlin synthesises gradient noise on a lattice with cells of scale pixels.
//
// The lattice has ceil(width/scale)+2 by ceil(height/scale)+2 corners, each
// holding a unit vector at angle 2*pi*r where r is drawn row by row from a
// Mulberry32 generator seeded with seed. A pixel's value is the bilinear
// blend, weighted by the smootherstep fade, of the dot products between
// its four cell corners' gradients and its offsets from them. The signed
// noise n is mapped to floor((n*0.5+0.5)*255) in R, G and B with alpha 255.
//
// A scale below 1 is a parameter error. Non-positive dimensions produce an
// empty buffer.
func Perlin(width, height, scale int, seed uint32) (*raster.Buffer, error) {
	if scale < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidParam, "noise scale must be >= 1, got %d", scale)
	}
	out := raster.New(width, height)
	if out.Empty() {
		return out, nil
	}

	g := newLattice(width, height, scale, seed)
	s := float64(scale)
	for y := 0; y < height; y++ {
		fy := float64(y) / s
		for x := 0; x < width; x++ {
			v := floor8((g.noise(float64(x)/s, fy)*0.5 + 0.5) * 255)
			out.Set(x, y, raster.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out, nil
}

type vec2 struct{ x, y float64 }

func (v vec2) dot(dx, dy float64) float64 { return v.x*dx + v.y*dy }

// lattice holds the per-corner gradient vectors, row-major.
type lattice struct {
	cols, rows int
	grads      []vec2
}

func newLattice(width, height, scale int, seed uint32) *lattice {
	cols := int(math.Ceil(float64(width)/float64(scale))) + 2
	rows := int(math.Ceil(float64(height)/float64(scale))) + 2
	rng := newMulberry32(seed)

	grads := make([]vec2, cols*rows)
	for i := range grads {
		angle := rng.Float64() * 2 * math.Pi
		grads[i] = vec2{math.Cos(angle), math.Sin(angle)}
	}
	return &lattice{cols: cols, rows: rows, grads: grads}
}

func (l *lattice) at(cx, cy int) vec2 { return l.grads[cy*l.cols+cx] }

// noise evaluates the field at lattice coordinates (fx, fy), both >= 0.
func (l *lattice) noise(fx, fy float64) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	n00 := l.at(x0, y0).dot(tx, ty)
	n10 := l.at(x0+1, y0).dot(tx-1, ty)
	n01 := l.at(x0, y0+1).dot(tx, ty-1)
	n11 := l.at(x0+1, y0+1).dot(tx-1, ty-1)

	u, v := fade(tx), fade(ty)
	return lerp(lerp(n00, n10, u), lerp(n01, n11, u), v)
}
