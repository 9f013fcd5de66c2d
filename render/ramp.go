package render

import "math"

// cellUnknown is the sentinel a grid uses for cells with no measurement.
const cellUnknown = -1

// srgbToLinear converts one sRGB-encoded channel in [0, 1] to linear light.
func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// ramp holds the four configured stops linearized to bytes. Built once per
// recolor pass so the per-cell work is a lookup or a lerp, never a pow.
type ramp struct {
	min     [4]byte
	max     [4]byte
	unknown [4]byte
	invalid [4]byte
}

func newRamp(s DisplaySettings) ramp {
	return ramp{
		min:     linearize(s.MinColor),
		max:     linearize(s.MaxColor),
		unknown: linearize(s.UnknownColor),
		invalid: linearize(s.InvalidColor),
	}
}

// linearize converts a configured sRGB color to linear-space bytes,
// truncating each channel. Alpha carries no gamma and is only scaled.
func linearize(c Color) [4]byte {
	return [4]byte{
		byte(srgbToLinear(c.R) * 255),
		byte(srgbToLinear(c.G) * 255),
		byte(srgbToLinear(c.B) * 255),
		byte(c.A * 255),
	}
}

// shade writes the RGBA bytes for one cell value into dst[0:4].
//
// Values in [0, 100] interpolate between the min and max stops, except that
// a fully saturated cell (exactly 100) is hidden outright with transparent
// black. -1 takes the unknown color; anything else, NaN included, takes the
// invalid color.
func (r ramp) shade(value float64, dst []byte) {
	switch {
	case value == cellUnknown:
		copy(dst[:4], r.unknown[:])
	case value >= 0 && value <= 100:
		if value == 100 {
			dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
			return
		}
		t := value / 100
		for i := 0; i < 4; i++ {
			a := float64(r.min[i])
			b := float64(r.max[i])
			dst[i] = byte(a + (b-a)*t)
		}
	default:
		copy(dst[:4], r.invalid[:])
	}
}
