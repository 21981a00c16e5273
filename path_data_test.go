package sigplay

import (
	"errors"
	"math"
	"testing"
)

func TestParsePathData(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want string
	}{
		{"absolute lines", "M10 20 L30 40", "M10,20 L30,40"},
		{"relative lines", "m10 20 l5 5 l-10 0", "M10,20 L15,25 L5,25"},
		{"implicit lineto after moveto", "M0 0 10 0 10 10", "M0,0 L10,0 L10,10"},
		{"implicit relative lineto", "m1 1 2 2", "M1,1 L3,3"},
		{"horizontal and vertical", "M1 1 H5 V6 h-2 v-3", "M1,1 L5,1 L5,6 L3,6 L3,3"},
		{"closepath", "M0 0 L1 0 L1 1 Z", "M0,0 L1,0 L1,1 Z"},
		{"relative after close", "M5 5 L6 5 z l1 1", "M5,5 L6,5 Z L6,6"},
		{"cubic", "M0 0 C1 2 3 4 5 6", "M0,0 C1,2 3,4 5,6"},
		{"relative cubic", "M1 1 c1 1 2 2 3 3", "M1,1 C2,2 3,3 4,4"},
		{"smooth cubic reflects", "M0 0 C0 1 1 1 1 0 S2 -1 2 0", "M0,0 C0,1 1,1 1,0 C1,-1 2,-1 2,0"},
		{"smooth cubic without previous", "M0 0 S1 1 2 0", "M0,0 C0,0 1,1 2,0"},
		{"quadratic", "M0 0 Q1 1 2 0", "M0,0 Q1,1 2,0"},
		{"smooth quadratic reflects", "M0 0 Q1 1 2 0 T4 0", "M0,0 Q1,1 2,0 Q3,-1 4,0"},
		{"chained smooth quadratic", "M0 0 Q1 1 2 0 T4 0 T6 0", "M0,0 Q1,1 2,0 Q3,-1 4,0 Q5,1 6,0"},
		{"compact numbers", "M1.5.5-2e1-.5", "M1.5,0.5 L-20,-0.5"},
		{"commas and newlines", "M 1,2\n\tL3 , 4", "M1,2 L3,4"},
		{"exponent", "M1e2 1E-1", "M100,0.1"},
		{"repeated cubic", "M0 0 C1 1 2 2 3 3 4 4 5 5 6 6", "M0,0 C1,1 2,2 3,3 C4,4 5,5 6,6"},
		{"empty", "", ""},
		{"whitespace only", "  \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePathData(tt.d)
			if err != nil {
				t.Fatalf("ParsePathData(%q) error = %v", tt.d, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("ParsePathData(%q) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestParsePathDataErrors(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"no leading moveto", "L1 1"},
		{"closepath first", "Z"},
		{"number before command", "1 2"},
		{"missing coordinate", "M1"},
		{"unknown command", "M0 0 X1 1"},
		{"garbage number", "M0 0 L1 a"},
		{"arguments after closepath", "M0 0 L1 1 Z 2 2"},
		{"bad arc flag", "M0 0 A1 1 0 2 0 1 1"},
		{"truncated arc", "M0 0 A1 1 0 1"},
		{"lone sign", "M- 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePathData(tt.d)
			if !errors.Is(err, ErrInvalidPathData) {
				t.Errorf("ParsePathData(%q) error = %v, want ErrInvalidPathData", tt.d, err)
			}
		})
	}
}

func TestParsePathDataArc(t *testing.T) {
	// Half circle of radius 10 from (0,0) to (20,0), sweeping through y=-10
	// or y=+10 depending on the sweep flag.
	tests := []struct {
		name  string
		d     string
		wantY float64
	}{
		{"sweep", "M0 0 A10 10 0 0 1 20 0", -10},
		{"no sweep", "M0 0 A10 10 0 0 0 20 0", 10},
		{"relative compact flags", "M0 0 a10 10 0 0120 0", -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustParsePathData(tt.d)
			end := p.CurrentPoint()
			if math.Abs(end.X-20) > 1e-9 || math.Abs(end.Y) > 1e-9 {
				t.Errorf("arc end = %v, want (20, 0)", end)
			}
			for _, el := range p.Elements()[1:] {
				if _, ok := el.(CubicTo); !ok {
					t.Fatalf("arc element %T, want CubicTo", el)
				}
			}
			bbox := p.BoundingBox()
			extreme := bbox.Min.Y
			if tt.wantY > 0 {
				extreme = bbox.Max.Y
			}
			if math.Abs(extreme-tt.wantY) > 1e-3 {
				t.Errorf("arc extreme y = %v, want %v", extreme, tt.wantY)
			}
			if l := p.Length(DefaultLengthAccuracy); math.Abs(l-10*math.Pi) > 0.01 {
				t.Errorf("arc length = %v, want %v", l, 10*math.Pi)
			}
		})
	}
}

func TestParsePathDataDegenerateArc(t *testing.T) {
	// A zero radius arc is a straight line.
	p := MustParsePathData("M0 0 A0 5 0 0 1 10 0")
	if got, want := p.String(), "M0,0 L10,0"; got != want {
		t.Errorf("zero radius arc = %q, want %q", got, want)
	}

	// Radii too small to reach the endpoint are scaled up.
	p = MustParsePathData("M0 0 A1 1 0 0 1 20 0")
	if l := p.Length(DefaultLengthAccuracy); math.Abs(l-10*math.Pi) > 0.01 {
		t.Errorf("scaled arc length = %v, want %v", l, 10*math.Pi)
	}
}

func TestMustParsePathDataPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParsePathData should panic on invalid data")
		}
	}()
	MustParsePathData("L")
}
