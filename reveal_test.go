package sigplay

import (
	"math"
	"testing"
	"time"
)

func traceOf(t *testing.T, segs ...string) *PenTrace {
	t.Helper()
	pt := &PenTrace{}
	for _, d := range segs {
		pt.Segments = append(pt.Segments, TraceSegment{Path: MustParsePathData(d), Width: 5})
	}
	return pt
}

func TestClassify(t *testing.T) {
	tests := []struct {
		index, step int
		want        Class
	}{
		{0, -1, Pending},
		{0, 0, Current},
		{0, 1, Completed},
		{4, 2, Pending},
		{2, 4, Completed},
	}
	for _, tt := range tests {
		if got := Classify(tt.index, tt.step); got != tt.want {
			t.Errorf("Classify(%d, %d) = %v, want %v", tt.index, tt.step, got, tt.want)
		}
	}
	if got := Class(7).String(); got != "Class(7)" {
		t.Errorf("String() = %q, want %q", got, "Class(7)")
	}
}

func TestPlanRevealFaded(t *testing.T) {
	if _, ok := PlanReveal(nil, time.Second).(Faded); !ok {
		t.Error("PlanReveal(nil) should be Faded")
	}
	if _, ok := PlanReveal(&PenTrace{}, time.Second).(Faded); !ok {
		t.Error("PlanReveal(empty) should be Faded")
	}
}

func TestPlanRevealTiming(t *testing.T) {
	tests := []struct {
		name   string
		segs   []string
		d      time.Duration
		starts []time.Duration
		durs   []time.Duration
	}{
		{"proportional", []string{"M0 0 H30", "M30 0 H40"}, time.Second,
			[]time.Duration{0, 750 * time.Millisecond},
			[]time.Duration{750 * time.Millisecond, 250 * time.Millisecond}},
		{"equal halves", []string{"M0 0 H10", "M0 5 H10"}, time.Second,
			[]time.Duration{0, 500 * time.Millisecond},
			[]time.Duration{500 * time.Millisecond, 500 * time.Millisecond}},
		{"rounded thirds", []string{"M0 0 H1", "M0 1 H1", "M0 2 H1"}, 100 * time.Nanosecond,
			[]time.Duration{0, 33, 67},
			[]time.Duration{33, 34, 33}},
		{"zero lengths split equally", []string{"M1 1", "M2 2"}, time.Second,
			[]time.Duration{0, 500 * time.Millisecond},
			[]time.Duration{500 * time.Millisecond, 500 * time.Millisecond}},
		{"instant", []string{"M0 0 H10", "M0 0 H5"}, 0,
			[]time.Duration{0, 0},
			[]time.Duration{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traced, ok := PlanReveal(traceOf(t, tt.segs...), tt.d).(Traced)
			if !ok {
				t.Fatal("PlanReveal() should be Traced")
			}
			var sum time.Duration
			var prevEnd time.Duration
			for i, s := range traced.Segments {
				if s.Start != tt.starts[i] || s.Duration != tt.durs[i] {
					t.Errorf("segment %d = start %v dur %v, want start %v dur %v",
						i, s.Start, s.Duration, tt.starts[i], tt.durs[i])
				}
				if s.Start != prevEnd {
					t.Errorf("segment %d starts at %v, previous ended at %v", i, s.Start, prevEnd)
				}
				prevEnd = s.End()
				sum += s.Duration
			}
			if sum != tt.d {
				t.Errorf("durations sum to %v, want %v", sum, tt.d)
			}
		})
	}
}

func TestPlanRevealLength(t *testing.T) {
	traced := PlanReveal(traceOf(t, "M0 0 H30", "M30 0 V10"), time.Second).(Traced)
	if math.Abs(traced.Length-40) > 1e-9 {
		t.Errorf("Length = %v, want 40", traced.Length)
	}
	if traced.Segments[1].Width != 5 {
		t.Errorf("Width = %v, want 5", traced.Segments[1].Width)
	}
}

func TestRevealTraced(t *testing.T) {
	const d = time.Second
	strategy := PlanReveal(traceOf(t, "M0 0 H30", "M30 0 H40"), d)

	tests := []struct {
		name    string
		st      State
		opacity float64
		offsets []Tween
	}{
		{"pending", State{Step: -1}, 0, []Tween{Static(30), Static(10)}},
		{"completed", State{Step: 1}, 1, []Tween{Static(0), Static(0)}},
		{"completed backward", State{Step: 1, Direction: Backward}, 1, []Tween{Static(0), Static(0)}},
		{"current forward", State{Step: 0}, 1, []Tween{
			{From: 30, To: 0, Begin: 0, Duration: 750 * time.Millisecond},
			{From: 10, To: 0, Begin: 750 * time.Millisecond, Duration: 250 * time.Millisecond},
		}},
		{"current backward", State{Step: 0, Direction: Backward}, 1, []Tween{
			{From: 0, To: 30, Begin: 250 * time.Millisecond, Duration: 750 * time.Millisecond},
			{From: 0, To: 10, Begin: 0, Duration: 250 * time.Millisecond},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Reveal(0, tt.st, strategy, d)
			if !p.Traced() {
				t.Fatal("Traced() = false, want true")
			}
			if got := p.Opacity.At(0); got != tt.opacity {
				t.Errorf("Opacity = %v, want %v", got, tt.opacity)
			}
			for i, want := range tt.offsets {
				if got := p.Segments[i].Offset; got != want {
					t.Errorf("segment %d Offset = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestRevealTimeReversal(t *testing.T) {
	const d = time.Second
	strategy := PlanReveal(traceOf(t, "M0 0 H30", "M30 0 H40", "M0 5 H17"), d)
	fwd := Reveal(0, State{Step: 0, Direction: Forward}, strategy, d)
	bwd := Reveal(0, State{Step: 0, Direction: Backward}, strategy, d)

	for e := time.Duration(0); e <= d; e += 50 * time.Millisecond {
		for i := range fwd.Segments {
			f := fwd.Segments[i].Offset.At(e)
			b := bwd.Segments[i].Offset.At(d - e)
			if math.Abs(f-b) > 1e-9 {
				t.Errorf("segment %d: forward(%v) = %v, backward(%v) = %v", i, e, f, d-e, b)
			}
		}
	}
}

func TestRevealFaded(t *testing.T) {
	const d = time.Second
	tests := []struct {
		name string
		st   State
		want Tween
	}{
		{"pending", State{Step: -1}, Static(0)},
		{"completed", State{Step: 1}, Static(1)},
		{"current forward", State{Step: 0}, Tween{From: 0, To: 1, Duration: d}},
		{"current backward", State{Step: 0, Direction: Backward}, Static(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Reveal(0, tt.st, Faded{}, d)
			if p.Traced() {
				t.Error("Traced() = true, want false")
			}
			if p.Opacity != tt.want {
				t.Errorf("Opacity = %+v, want %+v", p.Opacity, tt.want)
			}
		})
	}
}

func TestVisibleFraction(t *testing.T) {
	const d = time.Second
	strategy := PlanReveal(traceOf(t, "M0 0 H30", "M30 0 H40"), d)
	p := Reveal(0, State{Step: 0}, strategy, d)

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{375 * time.Millisecond, 15.0 / 40},
		{750 * time.Millisecond, 30.0 / 40},
		{875 * time.Millisecond, 35.0 / 40},
		{d, 1},
	}
	for _, tt := range tests {
		if got := p.VisibleFraction(tt.elapsed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("VisibleFraction(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
	if got := p.Duration(); got != d {
		t.Errorf("Duration() = %v, want %v", got, d)
	}

	pending := Reveal(1, State{Step: 0}, strategy, d)
	if got := pending.VisibleFraction(d); got != 0 {
		t.Errorf("pending VisibleFraction() = %v, want 0", got)
	}

	fade := Reveal(0, State{Step: 0}, Faded{}, d)
	if got := fade.VisibleFraction(d / 4); got != 0.25 {
		t.Errorf("faded VisibleFraction(250ms) = %v, want 0.25", got)
	}

	dot := Reveal(0, State{Step: 0}, PlanReveal(traceOf(t, "M1 1"), d), d)
	if got := dot.VisibleFraction(0); got != 1 {
		t.Errorf("zero-length VisibleFraction() = %v, want 1", got)
	}
}

func TestSegmentRevealDash(t *testing.T) {
	s := SegmentReveal{Length: 30, Offset: Tween{From: 30, To: 0, Duration: time.Second}}
	dash := s.Dash(500 * time.Millisecond)
	if dash == nil || len(dash.Array) != 2 || dash.Array[0] != 30 || dash.Array[1] != 30 {
		t.Fatalf("Dash() = %+v, want [30 30]", dash)
	}
	if dash.Offset != 15 {
		t.Errorf("Offset = %v, want 15", dash.Offset)
	}
	if got := s.Visible(500 * time.Millisecond); got != 15 {
		t.Errorf("Visible() = %v, want 15", got)
	}
}
