package kernel_test

import (
	"fmt"

	"github.com/matzehuels/pixelgraph/pkg/kernel"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

func ExampleGradient() {
	g := kernel.Gradient(5, 1, raster.Black, raster.White, kernel.Horizontal)
	for x := 0; x < g.Width; x++ {
		fmt.Print(g.At(x, 0).R, " ")
	}
	fmt.Println()
	// Output:
	// 0 64 128 191 255
}

func ExampleCombine() {
	a := kernel.Solid(1, 1, raster.RGBA{R: 200, G: 100, B: 0, A: 255})
	b := kernel.Solid(1, 1, raster.RGBA{R: 100, G: 100, B: 100, A: 255})

	fmt.Println(kernel.Combine(a, b, kernel.BlendDifference, 1).At(0, 0))
	fmt.Println(kernel.Combine(a, b, kernel.BlendAdd, 0.5).At(0, 0))
	fmt.Println(kernel.Combine(nil, nil, kernel.BlendAdd, 1) == nil)
	// Output:
	// {100 0 100 255}
	// {228 150 50 255}
	// true
}
