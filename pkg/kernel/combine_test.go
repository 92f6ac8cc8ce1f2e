package kernel

import (
	"math"
	"testing"

	"github.com/matzehuels/pixelgraph/pkg/raster"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		name string
		mode BlendMode
		a, b uint8
		want uint8
	}{
		{"add", BlendAdd, 100, 100, 200},
		{"add saturates", BlendAdd, 200, 100, 255},
		{"multiply white", BlendMultiply, 200, 255, 200},
		{"multiply grey", BlendMultiply, 128, 128, 64}, // 64.25
		{"multiply black", BlendMultiply, 200, 0, 0},
		{"overlay dark", BlendOverlay, 64, 128, 64},    // 2*64*128/255 = 64.25
		{"overlay light", BlendOverlay, 192, 128, 192}, // 255 - round(2*63*127/255=62.75)
		{"overlay boundary", BlendOverlay, 128, 0, 1},  // 255 - round(2*127*255/255=254)
		{"screen", BlendScreen, 128, 128, 192},         // 255 - round(127*127/255=63.25)
		{"screen black", BlendScreen, 0, 0, 0},
		{"screen white", BlendScreen, 10, 255, 255},
		{"difference", BlendDifference, 30, 200, 170},
		{"difference reversed", BlendDifference, 200, 30, 170},
		{"unknown mode keeps a", BlendMode("xor"), 77, 3, 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blend(tt.mode, tt.a, tt.b); got != tt.want {
				t.Errorf("Blend(%s, %d, %d) = %d, want %d", tt.mode, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCombineBothNil(t *testing.T) {
	for _, mode := range BlendModes {
		for _, o := range []float64{0, 0.5, 1, 2} {
			if got := Combine(nil, nil, mode, o); got != nil {
				t.Errorf("Combine(nil, nil, %s, %v) = %v, want nil", mode, o, got)
			}
		}
	}
}

func TestCombineAddWithMissingBIsIdentity(t *testing.T) {
	a, _ := Perlin(20, 10, 4, 5)
	a.Set(3, 3, raster.RGBA{R: 1, G: 2, B: 3, A: 17})

	got := Combine(a, nil, BlendAdd, 1)
	if !got.Equal(a) {
		t.Error("Combine(a, nil, add, 1) != a")
	}
	if got == a || &got.Pix[0] == &a.Pix[0] {
		t.Error("Combine returned its input instead of a new buffer")
	}
}

func TestCombineMissingATakesBSize(t *testing.T) {
	b := Solid(5, 7, raster.RGBA{R: 100, G: 150, B: 200, A: 255})
	got := Combine(nil, b, BlendAdd, 1)
	if got.Width != 5 || got.Height != 7 {
		t.Fatalf("size = %dx%d, want 5x7", got.Width, got.Height)
	}
	// A is transparent black: add(0,B) = B, alpha = max(0, 255).
	if px := got.At(2, 2); px != (raster.RGBA{R: 100, G: 150, B: 200, A: 255}) {
		t.Errorf("pixel = %v", px)
	}
}

func TestCombineDifferenceIsExact(t *testing.T) {
	a := Gradient(32, 8, raster.RGBA{R: 0, G: 50, B: 255, A: 255}, raster.RGBA{R: 255, G: 100, B: 0, A: 255}, Horizontal)
	b, _ := Perlin(32, 8, 3, 11)
	got := Combine(a, b, BlendDifference, 1)

	for i := 0; i < len(got.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			want := int(a.Pix[i+c]) - int(b.Pix[i+c])
			if want < 0 {
				want = -want
			}
			if int(got.Pix[i+c]) != want {
				t.Fatalf("sample %d: got %d, want %d", i+c, got.Pix[i+c], want)
			}
		}
	}
}

func TestCombineOpacity(t *testing.T) {
	a := Solid(2, 2, raster.RGBA{R: 100, G: 100, B: 100, A: 255})
	b := Solid(2, 2, raster.RGBA{R: 50, G: 50, B: 50, A: 128})

	tests := []struct {
		name    string
		opacity float64
		want    uint8
	}{
		{"zero keeps a", 0, 100},
		{"half", 0.5, 125}, // round(100*0.5 + 150*0.5)
		{"full", 1, 150},
		{"clamped above", 3, 150},
		{"clamped below", -1, 100},
		{"nan", math.NaN(), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(a, b, BlendAdd, tt.opacity).At(1, 1)
			if got.R != tt.want || got.G != tt.want || got.B != tt.want {
				t.Errorf("pixel = %v, want channels %d", got, tt.want)
			}
			if got.A != 255 {
				t.Errorf("alpha = %d, want max(255,128)=255", got.A)
			}
		})
	}
}

func TestCombineAlphaIsMax(t *testing.T) {
	a := Solid(1, 1, raster.RGBA{R: 0, G: 0, B: 0, A: 40})
	b := Solid(1, 1, raster.RGBA{R: 0, G: 0, B: 0, A: 90})
	if got := Combine(a, b, BlendMultiply, 0.3).At(0, 0).A; got != 90 {
		t.Errorf("alpha = %d, want 90", got)
	}
}

func TestCombineMismatchedSizes(t *testing.T) {
	a := Solid(4, 4, raster.RGBA{R: 10, G: 10, B: 10, A: 255})
	b := Solid(2, 2, raster.RGBA{R: 5, G: 5, B: 5, A: 255})
	got := Combine(a, b, BlendAdd, 1)

	if got.Width != 4 || got.Height != 4 {
		t.Fatalf("size = %dx%d, want 4x4", got.Width, got.Height)
	}
	if px := got.At(1, 1); px.R != 15 {
		t.Errorf("inside b: R = %d, want 15", px.R)
	}
	if px := got.At(3, 3); px.R != 10 {
		t.Errorf("outside b: R = %d, want 10", px.R)
	}
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	a := Solid(3, 3, raster.RGBA{R: 1, G: 2, B: 3, A: 4})
	b := Solid(3, 3, raster.RGBA{R: 5, G: 6, B: 7, A: 8})
	ac, bc := a.Clone(), b.Clone()
	_ = Combine(a, b, BlendScreen, 0.7)
	if !a.Equal(ac) || !b.Equal(bc) {
		t.Error("Combine mutated an input buffer")
	}
}

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BlendMode
		wantErr bool
	}{
		{"", BlendAdd, false},
		{"ADD", BlendAdd, false},
		{"multiply", BlendMultiply, false},
		{" overlay ", BlendOverlay, false},
		{"screen", BlendScreen, false},
		{"difference", BlendDifference, false},
		{"burn", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBlendMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBlendMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBlendMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
