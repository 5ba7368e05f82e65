package colorutil

import (
	"image/color"
	"math"
	"testing"
)

func TestHexRGB(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want string
	}{
		{"opaque rgba", color.RGBA{R: 200, G: 100, B: 50, A: 255}, "#C86432"},
		{"grayscale replicates channel", color.Gray{Y: 0x7F}, "#7F7F7F"},
		{"translucent keeps stored channels", color.NRGBA{R: 200, G: 100, B: 50, A: 128}, "#C86432"},
		{"fully transparent", color.NRGBA{R: 10, G: 20, B: 30, A: 0}, "#000000"},
		{"nil", nil, "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HexRGB(tt.c); got != tt.want {
				t.Errorf("HexRGB = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 255, 0, 0, 0, 100, 100},
		{"green", 0, 255, 0, 120, 100, 100},
		{"white", 255, 255, 255, 0, 0, 100},
		{"black", 0, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if math.Abs(h-tt.h) > 1e-6 || math.Abs(s-tt.s) > 1e-6 || math.Abs(v-tt.v) > 1e-6 {
				t.Errorf("RGBToHSV = %v,%v,%v, want %v,%v,%v", h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}
