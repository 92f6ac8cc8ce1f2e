// Package raster defines the pixel buffer shared by every image kernel and
// consumer in pixelgraph.
//
// # Buffer
//
// A [Buffer] is a fixed-size, row-major array of 8-bit RGBA samples with
// explicit width and height. Samples are not premultiplied. Kernels always
// allocate a fresh Buffer for their output and never write into their
// inputs, so a Buffer can be shared read-only between goroutines once it has
// been produced.
//
// # Export
//
// [EncodePNG] and [PNG] convert a Buffer to PNG, optionally resampling it
// with golang.org/x/image/draw first. [DecodePNG] goes the other way and is
// mostly useful in tests.
package raster
