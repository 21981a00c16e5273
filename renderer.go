package sigplay

import (
	"time"

	"github.com/google/uuid"
)

// Plan holds the per-stroke reveal strategies of a document. It is built
// once per document load, so pen-trace lengths are measured once and not
// on every playback tick.
type Plan struct {
	strategies []RevealStrategy
	maskIDs    []string
}

// NewPlan measures the pen traces of doc and allocates segment timings
// for the given stroke duration. Each traced stroke receives a mask id
// unique to this plan.
func NewPlan(doc *Document, strokeDuration time.Duration) *Plan {
	p := &Plan{
		strategies: make([]RevealStrategy, doc.Len()),
		maskIDs:    make([]string, doc.Len()),
	}
	for i, s := range doc.Strokes {
		p.strategies[i] = PlanReveal(s.Trace, strokeDuration)
		if _, ok := p.strategies[i].(Traced); ok {
			p.maskIDs[i] = "mask-" + uuid.NewString()
		} else if s.Trace != nil {
			Logger().Debug("sigplay: empty pen trace, using fade reveal", "stroke", s.ID)
		}
	}
	return p
}

// Len returns the number of planned strokes.
func (p *Plan) Len() int {
	return len(p.strategies)
}

// Strategy returns the reveal strategy of stroke i.
func (p *Plan) Strategy(i int) RevealStrategy {
	return p.strategies[i]
}

// MaskID returns the mask id of stroke i, or "" for faded strokes.
func (p *Plan) MaskID(i int) string {
	return p.maskIDs[i]
}

// Frame is the complete surface for one playback state: every stroke in
// write order with its presentation.
type Frame struct {
	Viewport Viewport
	State    State

	// Since is the clock time at which State was entered. Tweens in the
	// stroke presentations are relative to it.
	Since time.Time

	Strokes []StrokeFrame
}

// Elapsed returns the time spent in the frame's state at clock time now.
func (f Frame) Elapsed(now time.Time) time.Duration {
	if f.Since.IsZero() || now.Before(f.Since) {
		return 0
	}
	return now.Sub(f.Since)
}

// StrokeFrame is the draw instruction of one stroke: its outline and
// fill, masked by MaskID when the stroke is traced.
type StrokeFrame struct {
	ID      string
	MaskID  string
	Outline *Path
	Fill    RGBA
	Presentation
}

// Renderer maps playback states to frames for one document.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	doc            *Document
	plan           *Plan
	strokeDuration time.Duration
}

// NewRenderer plans doc for the stroke duration of cfg.
func NewRenderer(doc *Document, cfg Config) *Renderer {
	cfg = cfg.normalize()
	return &Renderer{
		doc:            doc,
		plan:           NewPlan(doc, cfg.StrokeDuration),
		strokeDuration: cfg.StrokeDuration,
	}
}

// Document returns the rendered document.
func (r *Renderer) Document() *Document {
	return r.doc
}

// Plan returns the reveal plan.
func (r *Renderer) Plan() *Plan {
	return r.plan
}

// Stroke returns the draw instruction of stroke i in state st.
func (r *Renderer) Stroke(i int, st State) StrokeFrame {
	s := r.doc.Strokes[i]
	return StrokeFrame{
		ID:           s.ID,
		MaskID:       r.plan.MaskID(i),
		Outline:      s.Outline,
		Fill:         s.Fill,
		Presentation: Reveal(i, st, r.plan.Strategy(i), r.strokeDuration),
	}
}

// Frame returns the frame of state st, entered at since.
func (r *Renderer) Frame(st State, since time.Time) Frame {
	f := Frame{
		Viewport: r.doc.Viewport,
		State:    st,
		Since:    since,
		Strokes:  make([]StrokeFrame, r.doc.Len()),
	}
	for i := range f.Strokes {
		f.Strokes[i] = r.Stroke(i, st)
	}
	return f
}
