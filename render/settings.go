package render

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Color is a user-configured sRGB color with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c Color) clamped() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// DisplaySettings holds the user-facing display configuration for one topic.
// Layer selects which named grid layer is colorized; empty means the first.
type DisplaySettings struct {
	// Visible and FrameLocked are enforced by the display surface, which
	// reads them through Manager.Settings; the pipeline keeps every raster
	// current regardless so a re-shown topic has nothing to catch up on.
	Visible     bool   `json:"visible"`
	FrameLocked bool   `json:"frame_locked"`
	Layer       string `json:"layer"`
	// The four ramp stops: cells in [0, 100] interpolate min to max, the
	// -1 sentinel takes the unknown color, everything else the invalid one.
	MinColor     Color `json:"min_color"`
	MaxColor     Color `json:"max_color"`
	UnknownColor Color `json:"unknown_color"`
	InvalidColor Color `json:"invalid_color"`
}

// DefaultSettings returns a fresh copy of the default display settings.
func DefaultSettings() DisplaySettings {
	return DisplaySettings{
		Visible:      true,
		MinColor:     Color{R: 0, G: 0, B: 0, A: 1},
		MaxColor:     Color{R: 1, G: 1, B: 1, A: 1},
		UnknownColor: Color{R: 0.5, G: 0.5, B: 0.5, A: 0.5},
		InvalidColor: Color{R: 1, G: 0, B: 0, A: 0.5},
	}
}

// Resolve merges a partial attribute map over a fresh copy of the defaults.
// Unknown keys are an error; color components outside [0, 1] are clamped.
func Resolve(overrides map[string]interface{}) (DisplaySettings, error) {
	settings := DefaultSettings()
	if len(overrides) == 0 {
		return settings, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &settings,
		ErrorUnused: true,
	})
	if err != nil {
		return DefaultSettings(), err
	}
	if err := decoder.Decode(overrides); err != nil {
		return DefaultSettings(), errors.Wrap(err, "invalid display settings")
	}
	settings.MinColor = settings.MinColor.clamped()
	settings.MaxColor = settings.MaxColor.clamped()
	settings.UnknownColor = settings.UnknownColor.clamped()
	settings.InvalidColor = settings.InvalidColor.clamped()
	return settings, nil
}

// needsTransparency reports whether any configured ramp stop is not fully
// opaque. It looks at the raw configured alphas, before gamma conversion,
// since the blend decision belongs to the user-facing values.
func needsTransparency(s DisplaySettings) bool {
	return s.MinColor.A < 1 ||
		s.MaxColor.A < 1 ||
		s.UnknownColor.A < 1 ||
		s.InvalidColor.A < 1
}
