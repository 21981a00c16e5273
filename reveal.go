package sigplay

import (
	"math"
	"strconv"
	"time"
)

// Class is the relation of a stroke to the step cursor.
type Class uint8

const (
	// Pending strokes have not been reached by the cursor.
	Pending Class = iota
	// Current is the stroke under the cursor.
	Current
	// Completed strokes lie behind the cursor.
	Completed
)

// String returns the string representation of a Class.
func (c Class) String() string {
	switch c {
	case Pending:
		return "pending"
	case Current:
		return "current"
	case Completed:
		return "completed"
	}
	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// Classify compares a stroke index with the step cursor.
func Classify(index, step int) Class {
	switch {
	case index < step:
		return Completed
	case index > step:
		return Pending
	}
	return Current
}

// RevealStrategy selects how a stroke is revealed: Traced or Faded.
// It is chosen once per stroke by PlanReveal.
type RevealStrategy interface {
	isRevealStrategy()
}

// Faded reveals a stroke by animating its opacity.
type Faded struct{}

func (Faded) isRevealStrategy() {}

// Traced reveals a stroke's filled outline through a mask painted along
// its pen trace.
type Traced struct {
	Segments []SegmentPlan
	Length   float64 // sum of segment lengths
}

func (Traced) isRevealStrategy() {}

// SegmentPlan is the timing of one pen-trace segment within the stroke
// duration. Segments run in strict sequence: each starts when the
// previous one ends, and the durations sum to the stroke duration.
type SegmentPlan struct {
	Path     *Path
	Width    float64
	Length   float64
	Start    time.Duration
	Duration time.Duration
}

// End returns the time at which the segment is fully drawn.
func (s SegmentPlan) End() time.Duration {
	return s.Start + s.Duration
}

// PlanReveal chooses the reveal strategy for a stroke and, for traced
// strokes, measures each segment and allocates it a share of
// strokeDuration proportional to its length, so ink appears at a uniform
// speed. A nil trace or a trace without segments yields Faded.
func PlanReveal(trace *PenTrace, strokeDuration time.Duration) RevealStrategy {
	if trace == nil || len(trace.Segments) == 0 {
		return Faded{}
	}
	if strokeDuration < 0 {
		strokeDuration = 0
	}

	n := len(trace.Segments)
	segs := make([]SegmentPlan, n)
	var total float64
	for i, s := range trace.Segments {
		width := s.Width
		if width <= 0 {
			width = DefaultTraceWidth
		}
		l := s.Path.Length(DefaultLengthAccuracy)
		segs[i] = SegmentPlan{Path: s.Path, Width: width, Length: l}
		total += l
	}

	// Boundaries are rounded from cumulative shares, so the durations
	// always sum to strokeDuration exactly.
	boundary := func(i int, cum float64) time.Duration {
		if i == n {
			return strokeDuration
		}
		share := float64(i) / float64(n)
		if total > 0 {
			share = cum / total
		}
		return time.Duration(math.Round(share * float64(strokeDuration)))
	}

	var cum float64
	start := boundary(0, 0)
	for i := range segs {
		cum += segs[i].Length
		end := boundary(i+1, cum)
		segs[i].Start = start
		segs[i].Duration = end - start
		start = end
	}

	return Traced{Segments: segs, Length: total}
}

// Presentation is the reveal state of one stroke for one playback state.
// Animated values are Tweens relative to the moment the state was
// entered.
type Presentation struct {
	Index     int
	Class     Class
	Direction Direction

	// Opacity of the filled outline.
	Opacity Tween

	// Segments holds the mask geometry of a traced stroke; nil for a
	// faded stroke.
	Segments []SegmentReveal
}

// SegmentReveal is the mask stroke of one pen-trace segment, drawn with
// the dash pattern [Length, Length] and an animated dash offset: Length
// hides the segment, 0 shows it entirely.
type SegmentReveal struct {
	Path   *Path
	Width  float64
	Length float64
	Offset Tween
}

// Dash returns the segment's dash pattern at the given time.
func (s SegmentReveal) Dash(elapsed time.Duration) *Dash {
	return RevealDash(s.Length, s.Offset.At(elapsed))
}

// Visible returns the drawn length of the segment at the given time.
func (s SegmentReveal) Visible(elapsed time.Duration) float64 {
	return s.Dash(elapsed).VisibleLength(s.Length)
}

// Traced reports whether the stroke is revealed through a pen-trace mask.
func (p Presentation) Traced() bool {
	return p.Segments != nil
}

// VisibleFraction returns how much of the stroke is revealed at the
// given time, from 0 (hidden) to 1 (fully shown).
func (p Presentation) VisibleFraction(elapsed time.Duration) float64 {
	opacity := p.Opacity.At(elapsed)
	if !p.Traced() {
		return opacity
	}
	if opacity == 0 {
		return 0
	}
	var total, visible float64
	for _, s := range p.Segments {
		total += s.Length
		visible += s.Visible(elapsed)
	}
	if total == 0 {
		// Zero-length traces are dots: the mask cannot hide them.
		return 1
	}
	return visible / total
}

// Duration returns the time after which the presentation no longer
// changes.
func (p Presentation) Duration() time.Duration {
	d := p.Opacity.End()
	for _, s := range p.Segments {
		d = max(d, s.Offset.End())
	}
	return d
}

// Reveal computes the presentation of stroke index for state st. It is a
// pure function of its arguments.
func Reveal(index int, st State, strategy RevealStrategy, strokeDuration time.Duration) Presentation {
	class := Classify(index, st.Step)
	p := Presentation{Index: index, Class: class, Direction: st.Direction}

	traced, ok := strategy.(Traced)
	if !ok || len(traced.Segments) == 0 {
		p.Opacity = fadeOpacity(class, st.Direction, strokeDuration)
		return p
	}

	if class == Pending {
		p.Opacity = Static(0)
	} else {
		p.Opacity = Static(1)
	}

	p.Segments = make([]SegmentReveal, len(traced.Segments))
	for i, seg := range traced.Segments {
		p.Segments[i] = SegmentReveal{
			Path:   seg.Path,
			Width:  seg.Width,
			Length: seg.Length,
			Offset: traceOffset(seg, class, st.Direction, strokeDuration),
		}
	}
	return p
}

// fadeOpacity is the outline opacity of a faded stroke. A current stroke
// fades in while writing and is hidden outright while erasing: a fade has
// no reverse geometry to animate.
func fadeOpacity(class Class, dir Direction, strokeDuration time.Duration) Tween {
	switch {
	case class == Completed:
		return Static(1)
	case class == Current && dir == Forward:
		return Tween{From: 0, To: 1, Duration: strokeDuration}
	}
	return Static(0)
}

// traceOffset is the dash offset animation of one segment. The backward
// animation is the exact time reversal of the forward one.
func traceOffset(seg SegmentPlan, class Class, dir Direction, strokeDuration time.Duration) Tween {
	switch class {
	case Completed:
		return Static(0)
	case Pending:
		return Static(seg.Length)
	}
	if dir == Forward {
		return Tween{From: seg.Length, To: 0, Begin: seg.Start, Duration: seg.Duration}
	}
	return Tween{
		From:     0,
		To:       seg.Length,
		Begin:    strokeDuration - seg.End(),
		Duration: seg.Duration,
	}
}
