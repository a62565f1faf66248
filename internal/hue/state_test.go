package hue

import "testing"

func TestNewState_Clamps(t *testing.T) {
	tests := []struct {
		name    string
		bri, ct int
		wantBri int
		wantCT  int
	}{
		{"in range", 100, 300, 100, 300},
		{"brightness too high", 999, 300, 254, 300},
		{"brightness negative", -10, 300, 0, 300},
		{"ct too low", 100, 10, 100, 154},
		{"ct too high", 100, 9999, 100, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState(true, tt.bri, tt.ct)
			if st.Bri != tt.wantBri {
				t.Errorf("Bri = %d, want %d", st.Bri, tt.wantBri)
			}
			if st.CT != tt.wantCT {
				t.Errorf("CT = %d, want %d", st.CT, tt.wantCT)
			}
		})
	}
}

func TestState_OptionalClamps(t *testing.T) {
	st := NewState(true, 100, 300).WithHue(-5).WithSaturation(300).WithXY(2.0, -1.0)

	if st.Hue == nil || *st.Hue != 0 {
		t.Errorf("Hue = %v, want 0", st.Hue)
	}
	if st.Sat == nil || *st.Sat != 254 {
		t.Errorf("Sat = %v, want 254", st.Sat)
	}
	if st.XY == nil || *st.XY != [2]float64{1.0, 0.0} {
		t.Errorf("XY = %v, want [1 0]", st.XY)
	}
}

func TestState_AbsentOptionalsStayAbsent(t *testing.T) {
	st := NewState(false, 0, 154)
	if st.Hue != nil || st.Sat != nil || st.XY != nil {
		t.Errorf("optional fields should be absent, got hue=%v sat=%v xy=%v", st.Hue, st.Sat, st.XY)
	}
}

func TestState_Clamped(t *testing.T) {
	h, s := 70000, -3
	xy := [2]float64{-0.5, 1.5}
	st := State{On: true, Bri: 500, CT: 0, Hue: &h, Sat: &s, XY: &xy}.Clamped()

	if st.Bri != 254 || st.CT != 154 {
		t.Errorf("Bri/CT = %d/%d, want 254/154", st.Bri, st.CT)
	}
	if *st.Hue != 65535 || *st.Sat != 0 {
		t.Errorf("Hue/Sat = %d/%d, want 65535/0", *st.Hue, *st.Sat)
	}
	if *st.XY != [2]float64{0, 1} {
		t.Errorf("XY = %v, want [0 1]", *st.XY)
	}
}

func TestState_Equal(t *testing.T) {
	base := NewState(true, 100, 300)

	tests := []struct {
		name string
		a, b State
		want bool
	}{
		{"identical", base, NewState(true, 100, 300), true},
		{"power differs", base, NewState(false, 100, 300), false},
		{"brightness differs", base, NewState(true, 101, 300), false},
		{"ct differs", base, NewState(true, 100, 301), false},
		{"hue present vs absent", base.WithHue(5), base, false},
		{"hue values differ", base.WithHue(5), base.WithHue(6), false},
		{"hue values match", base.WithHue(5), base.WithHue(5), true},
		{"sat present vs absent", base.WithSaturation(1), base, false},
		{"xy present vs absent", base.WithXY(0.1, 0.2), base, false},
		{"xy values differ", base.WithXY(0.1, 0.2), base.WithXY(0.1, 0.3), false},
		{"full color match", base.WithHue(5).WithSaturation(9).WithXY(0.1, 0.2), base.WithHue(5).WithSaturation(9).WithXY(0.1, 0.2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			// Equality is symmetric
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("reversed Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
