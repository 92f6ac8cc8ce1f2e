package graph

import (
	"slices"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Kind names the operation a node performs.
type Kind string

// Node kinds.
const (
	KindSolid    Kind = "solid"
	KindGradient Kind = "gradient"
	KindPerlin   Kind = "perlin"
	KindCombine  Kind = "combine"
	KindDisplay  Kind = "display"
)

// Kinds lists every node kind in a stable order.
var Kinds = []Kind{KindSolid, KindGradient, KindPerlin, KindCombine, KindDisplay}

// Input port names.
const (
	PortA  = "a"
	PortB  = "b"
	PortIn = "in"
)

// Default generator dimensions and limits.
const (
	DefaultSize  = 256
	DefaultScale = 32
	DefaultSeed  = 1

	// MaxDimension bounds generator width and height.
	MaxDimension = 8192
)

// Params is the closed set of per-kind parameter records. Each implementation
// carries only the fields of its own kind, so dispatch is a type switch over
// the concrete types below. The unexported method keeps the set sealed.
type Params interface {
	// Kind returns the node kind these parameters belong to.
	Kind() Kind
	// Ports returns the named input ports of the kind, in display order.
	Ports() []string
	// Validate reports an INVALID_PARAM error when a field is out of range.
	Validate() error

	params()
}

// SolidParams fills an image with a single colour.
type SolidParams struct {
	Width  int
	Height int
	Color  raster.RGBA
}

// GradientParams interpolates linearly between two colours.
type GradientParams struct {
	Width     int
	Height    int
	From      raster.RGBA
	To        raster.RGBA
	Direction kernel.Direction
}

// PerlinParams synthesises seeded gradient noise.
type PerlinParams struct {
	Width  int
	Height int
	Scale  int
	Seed   uint32
}

// CombineParams composites port b onto port a.
type CombineParams struct {
	Mode    kernel.BlendMode
	Opacity float64
}

// DisplayParams marks a terminal preview node. Its output is its input.
type DisplayParams struct{}

func (SolidParams) Kind() Kind    { return KindSolid }
func (GradientParams) Kind() Kind { return KindGradient }
func (PerlinParams) Kind() Kind   { return KindPerlin }
func (CombineParams) Kind() Kind  { return KindCombine }
func (DisplayParams) Kind() Kind  { return KindDisplay }

func (SolidParams) Ports() []string    { return nil }
func (GradientParams) Ports() []string { return nil }
func (PerlinParams) Ports() []string   { return nil }
func (CombineParams) Ports() []string  { return []string{PortA, PortB} }
func (DisplayParams) Ports() []string  { return []string{PortIn} }

func (SolidParams) params()    {}
func (GradientParams) params() {}
func (PerlinParams) params()   {}
func (CombineParams) params()  {}
func (DisplayParams) params()  {}

func (p SolidParams) Validate() error { return validateSize(p.Width, p.Height) }

func (p GradientParams) Validate() error {
	if err := validateSize(p.Width, p.Height); err != nil {
		return err
	}
	if p.Direction != kernel.Horizontal && p.Direction != kernel.Vertical {
		return perrors.New(perrors.ErrCodeInvalidParam, "invalid gradient direction %q", p.Direction)
	}
	return nil
}

func (p PerlinParams) Validate() error {
	if err := validateSize(p.Width, p.Height); err != nil {
		return err
	}
	if p.Scale < 1 {
		return perrors.New(perrors.ErrCodeInvalidParam, "noise scale must be >= 1, got %d", p.Scale)
	}
	return nil
}

func (p CombineParams) Validate() error {
	if !slices.Contains(kernel.BlendModes, p.Mode) {
		return perrors.New(perrors.ErrCodeInvalidParam, "invalid blend mode %q", p.Mode)
	}
	return nil
}

func (DisplayParams) Validate() error { return nil }

func validateSize(w, h int) error {
	if w < 1 || h < 1 {
		return perrors.New(perrors.ErrCodeInvalidParam, "size must be positive, got %dx%d", w, h)
	}
	if w > MaxDimension || h > MaxDimension {
		return perrors.New(perrors.ErrCodeInvalidParam, "size %dx%d exceeds %d", w, h, MaxDimension)
	}
	return nil
}

// Defaults returns the default parameters for kind, or an UNKNOWN_KIND error.
func Defaults(kind Kind) (Params, error) {
	switch kind {
	case KindSolid:
		return SolidParams{Width: DefaultSize, Height: DefaultSize, Color: raster.Black}, nil
	case KindGradient:
		return GradientParams{
			Width:     DefaultSize,
			Height:    DefaultSize,
			From:      raster.Black,
			To:        raster.White,
			Direction: kernel.Horizontal,
		}, nil
	case KindPerlin:
		return PerlinParams{Width: DefaultSize, Height: DefaultSize, Scale: DefaultScale, Seed: DefaultSeed}, nil
	case KindCombine:
		return CombineParams{Mode: kernel.BlendAdd, Opacity: 1}, nil
	case KindDisplay:
		return DisplayParams{}, nil
	}
	return nil, perrors.New(perrors.ErrCodeUnknownKind, "unknown node kind %q", kind)
}

// ParseKind converts a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", perrors.New(perrors.ErrCodeUnknownKind, "unknown node kind %q", s)
}

// HasPort reports whether p declares an input port with the given name.
func HasPort(p Params, port string) bool { return slices.Contains(p.Ports(), port) }
