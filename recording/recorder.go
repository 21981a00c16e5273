package recording

import (
	"fmt"
	"time"

	"github.com/gogpu/sigplay"
)

// Recorder captures reveal draw operations as commands. Use
// FinishRecording to obtain an immutable Recording that can be replayed to
// different backends.
//
// Mask brackets are checked as they are recorded: StrokeTrace outside a
// mask, nested masks and unbalanced EndMask calls panic, since they can only
// come from a programming error.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	viewport  sigplay.Viewport
	commands  []Command
	resources *ResourcePool
	mask      string
	inMask    bool
}

// NewRecorder creates a Recorder for a document with the given viewport.
func NewRecorder(vp sigplay.Viewport) *Recorder {
	return &Recorder{
		viewport:  vp,
		commands:  make([]Command, 0, 64),
		resources: NewResourcePool(),
	}
}

// BeginMask starts the reveal mask id.
func (r *Recorder) BeginMask(id string) {
	if r.inMask {
		panic(fmt.Sprintf("recording: BeginMask %q inside mask %q", id, r.mask))
	}
	r.inMask, r.mask = true, id
	r.commands = append(r.commands, BeginMaskCommand{ID: id})
}

// StrokeTrace records one pen-trace segment of the open mask.
func (r *Recorder) StrokeTrace(path *sigplay.Path, width, length float64, offset sigplay.Tween) {
	if !r.inMask {
		panic("recording: StrokeTrace outside a mask")
	}
	r.commands = append(r.commands, StrokeTraceCommand{
		Path:   r.resources.AddPath(path),
		Width:  width,
		Length: length,
		Offset: offset,
	})
}

// EndMask closes the open mask.
func (r *Recorder) EndMask() {
	if !r.inMask {
		panic("recording: EndMask without BeginMask")
	}
	r.inMask, r.mask = false, ""
	r.commands = append(r.commands, EndMaskCommand{})
}

// FillOutline records the fill of a stroke outline.
func (r *Recorder) FillOutline(id string, path *sigplay.Path, fill sigplay.RGBA, opacity sigplay.Tween, maskID string) {
	if r.inMask {
		panic("recording: FillOutline inside a mask")
	}
	r.commands = append(r.commands, FillOutlineCommand{
		Stroke:  id,
		Path:    r.resources.AddPath(path),
		Fill:    fill,
		Opacity: opacity,
		Mask:    maskID,
	})
}

// FinishRecording returns the immutable Recording. elapsed is the time
// since the recorded state was entered. The Recorder must not be used
// afterwards.
func (r *Recorder) FinishRecording(elapsed time.Duration) *Recording {
	if r.inMask {
		panic("recording: FinishRecording inside mask " + r.mask)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return &Recording{
		viewport:  r.viewport,
		elapsed:   elapsed,
		commands:  r.commands,
		resources: r.resources,
	}
}

// Record converts a frame into a Recording. Strokes are recorded in index
// order. A traced stroke becomes a mask holding one StrokeTrace per pen-trace
// segment, followed by the outline fill through that mask; a faded stroke is
// a plain outline fill.
func Record(f sigplay.Frame, elapsed time.Duration) *Recording {
	r := NewRecorder(f.Viewport)
	for i := range f.Strokes {
		s := &f.Strokes[i]
		if !s.Traced() {
			r.FillOutline(s.ID, s.Outline, s.Fill, s.Opacity, "")
			continue
		}
		r.BeginMask(s.MaskID)
		for _, seg := range s.Segments {
			r.StrokeTrace(seg.Path, seg.Width, seg.Length, seg.Offset)
		}
		r.EndMask()
		r.FillOutline(s.ID, s.Outline, s.Fill, s.Opacity, s.MaskID)
	}
	return r.FinishRecording(elapsed)
}

// Recording is an immutable list of reveal draw commands.
type Recording struct {
	viewport  sigplay.Viewport
	elapsed   time.Duration
	commands  []Command
	resources *ResourcePool
}

// Viewport returns the document viewport.
func (r *Recording) Viewport() sigplay.Viewport {
	return r.viewport
}

// Elapsed returns the time since the recorded state was entered.
func (r *Recording) Elapsed() time.Duration {
	return r.elapsed
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.viewport, r.elapsed); err != nil {
		return err
	}
	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case BeginMaskCommand:
			backend.BeginMask(c.ID)
		case StrokeTraceCommand:
			backend.StrokeTrace(r.resources.GetPath(c.Path), c.Width, c.Length, c.Offset)
		case EndMaskCommand:
			backend.EndMask()
		case FillOutlineCommand:
			backend.FillOutline(c.Stroke, r.resources.GetPath(c.Path), c.Fill, c.Opacity, c.Mask)
		}
	}
	return backend.End()
}
