// internal/hue/state.go
package hue

// Lamp state field ranges (Hue v1 API)
const (
	// MinBrightness and MaxBrightness bound the bri field
	MinBrightness = 0
	MaxBrightness = 254
	// MinColorTemp and MaxColorTemp bound the ct field (mireds)
	MinColorTemp = 154
	MaxColorTemp = 500
	// MinHue and MaxHue bound the hue field
	MinHue = 0
	MaxHue = 65535
	// MinSaturation and MaxSaturation bound the sat field
	MinSaturation = 0
	MaxSaturation = 254
)

// State is the visual state of a lamp. Hue, Sat and XY only exist on
// color-capable lamps; nil means the lamp does not report the field.
// Out-of-range values are clamped at construction, never rejected.
type State struct {
	On  bool
	Bri int
	CT  int
	Hue *int
	Sat *int
	XY  *[2]float64
}

// NewState builds a State with brightness and color temperature
// clamped into the bridge-accepted ranges.
func NewState(on bool, bri, ct int) State {
	return State{
		On:  on,
		Bri: clampInt(bri, MinBrightness, MaxBrightness),
		CT:  clampInt(ct, MinColorTemp, MaxColorTemp),
	}
}

// WithHue returns a copy with the hue field present and clamped.
func (s State) WithHue(hue int) State {
	h := clampInt(hue, MinHue, MaxHue)
	s.Hue = &h
	return s
}

// WithSaturation returns a copy with the saturation field present and
// clamped.
func (s State) WithSaturation(sat int) State {
	v := clampInt(sat, MinSaturation, MaxSaturation)
	s.Sat = &v
	return s
}

// WithXY returns a copy with the xy chromaticity present, each
// coordinate clamped to [0,1].
func (s State) WithXY(x, y float64) State {
	xy := [2]float64{clampFloat(x, 0, 1), clampFloat(y, 0, 1)}
	s.XY = &xy
	return s
}

// WithOn returns a copy with the power field replaced.
func (s State) WithOn(on bool) State {
	s.On = on
	return s
}

// Clamped returns a copy with every present field forced into its
// accepted range. Used when fields were assigned directly instead of
// going through the constructors.
func (s State) Clamped() State {
	s.Bri = clampInt(s.Bri, MinBrightness, MaxBrightness)
	s.CT = clampInt(s.CT, MinColorTemp, MaxColorTemp)
	if s.Hue != nil {
		h := clampInt(*s.Hue, MinHue, MaxHue)
		s.Hue = &h
	}
	if s.Sat != nil {
		v := clampInt(*s.Sat, MinSaturation, MaxSaturation)
		s.Sat = &v
	}
	if s.XY != nil {
		xy := [2]float64{clampFloat(s.XY[0], 0, 1), clampFloat(s.XY[1], 0, 1)}
		s.XY = &xy
	}
	return s
}

// Equal reports structural equality: every field must match, optional
// fields must agree on both presence and value.
func (s State) Equal(o State) bool {
	if s.On != o.On || s.Bri != o.Bri || s.CT != o.CT {
		return false
	}
	if !eqIntPtr(s.Hue, o.Hue) || !eqIntPtr(s.Sat, o.Sat) {
		return false
	}
	if (s.XY == nil) != (o.XY == nil) {
		return false
	}
	if s.XY != nil && *s.XY != *o.XY {
		return false
	}
	return true
}

func eqIntPtr(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
