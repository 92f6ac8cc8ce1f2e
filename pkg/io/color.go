package io

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Color is the file representation of a colour. It decodes from a hex
// string ("#rgb", "#rrggbb", "#rrggbbaa") or a list of three or four
// integers in 0..255, and always encodes as a hex string.
type Color raster.RGBA

// ParseColor parses a hex colour string. Alpha defaults to 255.
func ParseColor(s string) (raster.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return raster.RGBA{}, fmt.Errorf("invalid alpha in colour %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return raster.RGBA{}, fmt.Errorf("invalid colour %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return raster.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return raster.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatColor renders c as "#rrggbb", or "#rrggbbaa" when not opaque.
func FormatColor(c raster.RGBA) string {
	hex := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	if c.A != 255 {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}

// colorFromInts builds a colour from [r,g,b] or [r,g,b,a].
func colorFromInts(v []int64) (raster.RGBA, error) {
	if len(v) != 3 && len(v) != 4 {
		return raster.RGBA{}, fmt.Errorf("colour list needs 3 or 4 components, got %d", len(v))
	}
	out := [4]uint8{0, 0, 0, 255}
	for i, x := range v {
		if x < 0 || x > 255 {
			return raster.RGBA{}, fmt.Errorf("colour component %d out of range: %d", i, x)
		}
		out[i] = uint8(x)
	}
	return raster.RGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}

// RGBA returns the colour as a raster value.
func (c Color) RGBA() raster.RGBA { return raster.RGBA(c) }

// MarshalText implements encoding.TextMarshaler, used by both the JSON and
// TOML encoders.
func (c Color) MarshalText() ([]byte, error) { return []byte(FormatColor(raster.RGBA(c))), nil }

// UnmarshalJSON accepts a hex string or an integer list.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		rgba, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = Color(rgba)
		return nil
	}
	var list []int64
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("colour must be a hex string or [r,g,b,a] list")
	}
	rgba, err := colorFromInts(list)
	if err != nil {
		return err
	}
	*c = Color(rgba)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Color) UnmarshalTOML(v any) error {
	var (
		rgba raster.RGBA
		err  error
	)
	switch v := v.(type) {
	case string:
		rgba, err = ParseColor(v)
	case []any:
		ints := make([]int64, len(v))
		for i, x := range v {
			n, ok := x.(int64)
			if !ok {
				return fmt.Errorf("colour component %d is not an integer", i)
			}
			ints[i] = n
		}
		rgba, err = colorFromInts(ints)
	default:
		return fmt.Errorf("colour must be a hex string or [r,g,b,a] list")
	}
	if err != nil {
		return err
	}
	*c = Color(rgba)
	return nil
}
