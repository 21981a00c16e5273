package sigplay

// DefaultTraceWidth is the pen-trace stroke width used when neither the
// segment nor its recorded entry specifies one.
const DefaultTraceWidth = 12.0

// Document is a signature: its viewport and the strokes in write order.
// A Document is immutable once decoded and may be shared between players.
type Document struct {
	Viewport Viewport
	Strokes  []Stroke
}

// Len returns the number of strokes.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Strokes)
}

// Index returns the write-order index of the stroke with the given id,
// or -1 if there is none.
func (d *Document) Index(id string) int {
	for i := range d.Strokes {
		if d.Strokes[i].ID == id {
			return i
		}
	}
	return -1
}

// Stroke is one filled shape of the signature, written atomically as one
// step of playback.
type Stroke struct {
	ID      string
	Outline *Path
	Fill    RGBA

	// Trace is the recorded pen movement for the stroke. Nil selects the
	// fade-only reveal.
	Trace *PenTrace
}

// PenTrace is the recorded pen-tip geometry that paints a stroke's ink.
type PenTrace struct {
	Segments []TraceSegment
}

// TraceSegment is one continuous pen movement.
// Its length is not stored; it is measured from Path when needed.
type TraceSegment struct {
	Path  *Path
	Width float64
}
