package resolvers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Duotone holds one value per configured color for each channel, scaled to
// [0,1].
type Duotone struct {
	R, G, B, A []float64
}

type blockStyle struct {
	Color *struct {
		Duotone json.RawMessage `json:"duotone"`
	} `json:"color"`
}

// ParseDuotone reads the duotone colors from a cover block's JSON style
// attribute. It reports false when the style is malformed or has no duotone
// list. Colors that cannot be parsed resolve to opaque black.
func ParseDuotone(style string) (*Duotone, bool) {
	var s blockStyle
	if err := json.Unmarshal([]byte(style), &s); err != nil || s.Color == nil {
		return nil, false
	}
	var colors []json.RawMessage
	if err := json.Unmarshal(s.Color.Duotone, &colors); err != nil || colors == nil {
		return nil, false
	}

	d := &Duotone{
		R: make([]float64, 0, len(colors)),
		G: make([]float64, 0, len(colors)),
		B: make([]float64, 0, len(colors)),
		A: make([]float64, 0, len(colors)),
	}
	for _, raw := range colors {
		r, g, b, a := rgba(raw)
		d.R = append(d.R, r)
		d.G = append(d.G, g)
		d.B = append(d.B, b)
		d.A = append(d.A, a)
	}
	return d, true
}

// rgba quantizes a color to 8 bits per channel and alpha to three decimals.
func rgba(raw json.RawMessage) (r, g, b, a float64) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, 0, 0, 1
	}
	c, err := csscolorparser.Parse(strings.TrimSpace(s))
	if err != nil {
		return 0, 0, 0, 1
	}
	return channel(c.R), channel(c.G), channel(c.B), math.Round(clamp(c.A)*1000) / 1000
}

func channel(v float64) float64 {
	return math.Round(clamp(v)*255) / 255
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// String serializes d as a JSON object with one space-separated list per
// channel, the shape SVG feComponentTransfer tableValues expect.
func (d *Duotone) String() string {
	out, _ := json.Marshal(struct {
		R string `json:"r"`
		G string `json:"g"`
		B string `json:"b"`
		A string `json:"a"`
	}{join(d.R), join(d.G), join(d.B), join(d.A)})
	return string(out)
}

func join(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// ResolveDuotone returns the serialized duotone channels for a cover block
// style, or false when the block has no usable duotone setting.
func ResolveDuotone(style string) (string, bool) {
	d, ok := ParseDuotone(style)
	if !ok {
		return "", false
	}
	return d.String(), true
}
