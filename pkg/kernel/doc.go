// Package kernel implements the image kernels executed by graph nodes.
//
// Every kernel is a pure function: given identical arguments it produces a
// byte-identical [raster.Buffer], it never mutates its inputs and it always
// allocates a new output buffer.
//
// # Generators
//
//   - [Solid] fills a buffer with one colour.
//   - [Gradient] interpolates linearly between two colours along an axis.
//   - [Perlin] synthesises seeded gradient noise.
//
// # Compositing
//
// [Combine] blends two optional buffers with one of the [BlendMode] values
// and mixes the blended result over the first input by an opacity factor.
// The per-channel blend functions are exposed through [Blend] so they can be
// tested and reused on their own.
//
// # Reproducibility
//
// Noise is driven by the Mulberry32 generator. The sequence of gradient
// angles, and therefore the output, depends only on the seed and the grid
// size, so the same parameters always yield the same pixels on every
// platform.
package kernel
