// Package raster renders recordings to images with github.com/fogleman/gg.
//
// Animations are evaluated at the recording's elapsed time, so each
// playback produces one still frame. The document viewport is fitted into
// the output image preserving its aspect ratio.
//
// Reveal masks are painted into a separate alpha-only context: each
// pen-trace segment is stroked in white with round caps and a dash that
// covers exactly its visible length. The outline is then filled through
// that mask.
//
// # Example
//
//	import _ "github.com/gogpu/sigplay/recording/backends/raster"
//
//	backend, _ := recording.NewBackend("raster")
//	_ = rec.Playback(backend)
//	_ = backend.(recording.FileBackend).SaveToFile("frame.png")
package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/fogleman/gg"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// DefaultWidth is the image width used when no size is configured.
const DefaultWidth = 800

// ErrNotFinished is returned when output is requested before End.
var ErrNotFinished = errors.New("raster: rendering not finished")

// Option configures a Backend.
type Option func(*Backend)

// WithSize sets the image size in pixels. A height of 0 is derived from
// the viewport aspect ratio.
func WithSize(width, height int) Option {
	return func(b *Backend) {
		b.width, b.height = width, height
	}
}

// WithBackground fills the image with c before drawing. The default
// background is transparent.
func WithBackground(c sigplay.RGBA) Option {
	return func(b *Backend) {
		b.background = &c
	}
}

// Backend renders recordings to an RGBA image.
type Backend struct {
	width, height int
	background    *sigplay.RGBA

	ctx     *gg.Context
	mask    *gg.Context
	maskID  string
	masks   map[string]*image.Alpha
	fit     sigplay.Matrix
	scale   float64
	elapsed time.Duration
	done    bool
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.ImageBackend  = (*Backend)(nil)
)

// NewBackend creates a raster backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{width: DefaultWidth}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Size returns the output size in pixels for the given viewport.
func (b *Backend) Size(vp sigplay.Viewport) (width, height int) {
	width, height = b.width, b.height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 && !vp.Empty() {
		height = int(math.Ceil(float64(width) * vp.Height / vp.Width))
	}
	return width, max(height, 1)
}

// Begin implements recording.Backend.
func (b *Backend) Begin(vp sigplay.Viewport, elapsed time.Duration) error {
	if vp.Empty() {
		return sigplay.ErrInvalidViewBox
	}
	w, h := b.Size(vp)
	b.ctx = gg.NewContext(w, h)
	if b.background != nil {
		b.ctx.SetColor(b.background.Color())
		b.ctx.Clear()
	}
	b.fit = vp.Fit(float64(w), float64(h))
	b.scale = b.fit.ScaleFactor()
	b.masks = make(map[string]*image.Alpha)
	b.mask, b.maskID = nil, ""
	b.elapsed = elapsed
	b.done = false
	return nil
}

// End implements recording.Backend.
func (b *Backend) End() error {
	if b.mask != nil {
		return errors.New("raster: unterminated mask")
	}
	b.done = true
	return nil
}

// BeginMask implements recording.Backend.
func (b *Backend) BeginMask(id string) {
	b.mask = gg.NewContext(b.ctx.Width(), b.ctx.Height())
	b.mask.SetRGB(1, 1, 1)
	b.mask.SetLineCap(gg.LineCapRound)
	b.mask.SetLineJoin(gg.LineJoinRound)
	b.maskID = id
}

// StrokeTrace implements recording.Backend.
func (b *Backend) StrokeTrace(path *sigplay.Path, width, length float64, offset sigplay.Tween) {
	if b.mask == nil || path == nil {
		return
	}
	reveal := sigplay.SegmentReveal{Path: path, Width: width, Length: length, Offset: offset}
	visible := reveal.Visible(b.elapsed)
	if length > 0 && visible <= 0 {
		return
	}

	dc := b.mask
	dc.SetLineWidth(width * b.scale)
	if d := reveal.Dash(b.elapsed).Scale(b.scale); d != nil && visible < length {
		dc.SetDash(d.Array...)
		dc.SetDashOffset(d.Offset)
	} else {
		dc.SetDash()
		dc.SetDashOffset(0)
	}
	b.appendPath(dc, path)
	dc.Stroke()
}

// EndMask implements recording.Backend.
func (b *Backend) EndMask() {
	if b.mask == nil {
		return
	}
	b.masks[b.maskID] = b.mask.AsMask()
	b.mask, b.maskID = nil, ""
}

// FillOutline implements recording.Backend.
func (b *Backend) FillOutline(id string, path *sigplay.Path, fill sigplay.RGBA, opacity sigplay.Tween, maskID string) {
	if path == nil {
		return
	}
	alpha := fill.A * opacity.At(b.elapsed)
	if alpha <= 0 {
		return
	}
	if maskID != "" {
		mask := b.masks[maskID]
		if mask == nil {
			sigplay.Logger().Warn("raster: unknown mask", "stroke", id, "mask", maskID)
			return
		}
		if err := b.ctx.SetMask(mask); err != nil {
			sigplay.Logger().Warn("raster: mask rejected", "stroke", id, "err", err)
			return
		}
		defer b.ctx.ResetClip()
	}
	b.ctx.SetRGBA(fill.R, fill.G, fill.B, alpha)
	b.appendPath(b.ctx, path)
	b.ctx.Fill()
}

// appendPath adds path, mapped into device space, to the current path of
// dc. gg strokes in device space, so geometry is transformed here instead
// of through the context matrix.
func (b *Backend) appendPath(dc *gg.Context, path *sigplay.Path) {
	dc.ClearPath()
	for _, el := range path.Transform(b.fit).Elements() {
		switch e := el.(type) {
		case sigplay.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case sigplay.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case sigplay.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case sigplay.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case sigplay.Close:
			dc.ClosePath()
		}
	}
}

// Image implements recording.ImageBackend.
func (b *Backend) Image() image.Image {
	if !b.done {
		return nil
	}
	return b.ctx.Image()
}

// WriteTo implements recording.WriterBackend. The image is encoded as PNG.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.done {
		return 0, ErrNotFinished
	}
	cw := &countingWriter{w: w}
	if err := b.ctx.EncodePNG(cw); err != nil {
		return cw.n, fmt.Errorf("raster: encode png: %w", err)
	}
	return cw.n, nil
}

// SaveToFile implements recording.FileBackend. The image is saved as PNG.
func (b *Backend) SaveToFile(path string) error {
	if !b.done {
		return ErrNotFinished
	}
	return b.ctx.SavePNG(path)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
