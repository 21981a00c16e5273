// Package svg renders recordings as animated SVG documents.
//
// Reveal masks become <mask> elements holding the dashed pen-trace strokes,
// and every time-varying value becomes a SMIL <animate> element with
// fill="freeze". Animation begin times are shifted back by the elapsed time
// of the recording, so a document produced mid-state resumes exactly where
// the state is.
//
// The backend registers itself as "svg":
//
//	import _ "github.com/gogpu/sigplay/recording/backends/svg"
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return NewBackend()
	})
}

// ErrNotFinished is returned when output is requested before End.
var ErrNotFinished = errors.New("svg: rendering not finished")

// Option configures a Backend.
type Option func(*Backend)

// WithSize sets the width and height attributes of the root element.
// The default is "100%" for both, filling the host.
func WithSize(width, height string) Option {
	return func(b *Backend) {
		b.width, b.height = width, height
	}
}

// WithStatic disables animations: every value is written as it is at the
// recording's elapsed time.
func WithStatic() Option {
	return func(b *Backend) {
		b.static = true
	}
}

// Backend writes SVG markup. It implements recording.WriterBackend and
// recording.FileBackend.
type Backend struct {
	width, height string
	static        bool

	buf      bytes.Buffer
	viewport sigplay.Viewport
	elapsed  time.Duration
	inMask   bool
	done     bool
}

// NewBackend returns an SVG backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{width: "100%", height: "100%"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin implements recording.Backend.
func (b *Backend) Begin(vp sigplay.Viewport, elapsed time.Duration) error {
	if vp.Empty() {
		return sigplay.ErrInvalidViewBox
	}
	b.buf.Reset()
	b.viewport, b.elapsed = vp, elapsed
	b.inMask, b.done = false, false

	fmt.Fprintf(&b.buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet">`,
		vp, attr(b.width), attr(b.height))
	b.buf.WriteByte('\n')
	return nil
}

// End implements recording.Backend.
func (b *Backend) End() error {
	if b.inMask {
		b.EndMask()
	}
	b.buf.WriteString("</svg>\n")
	b.done = true
	return nil
}

// BeginMask implements recording.Backend. The mask covers the whole
// viewport in user space so wide trace strokes are not clipped by the
// outline's bounding box.
func (b *Backend) BeginMask(id string) {
	vp := b.viewport
	fmt.Fprintf(&b.buf,
		`<mask id="%s" maskUnits="userSpaceOnUse" x="%s" y="%s" width="%s" height="%s">`,
		attr(id), num(vp.MinX), num(vp.MinY), num(vp.Width), num(vp.Height))
	b.buf.WriteByte('\n')
	b.inMask = true
}

// StrokeTrace implements recording.Backend.
func (b *Backend) StrokeTrace(path *sigplay.Path, width, length float64, offset sigplay.Tween) {
	if path == nil {
		return
	}
	fmt.Fprintf(&b.buf,
		`<path d="%s" fill="none" stroke="#fff" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"`,
		path, num(width))
	if length <= 0 {
		// Nothing to hide on a dot.
		b.buf.WriteString("/>\n")
		return
	}
	// pathLength pins the dash units to the computed length whatever the
	// user agent measures.
	fmt.Fprintf(&b.buf, ` pathLength="%s" stroke-dasharray="%s %s"`, num(length), num(length), num(length))
	b.animated("stroke-dashoffset", offset)
	b.buf.WriteString("</path>\n")
}

// EndMask implements recording.Backend.
func (b *Backend) EndMask() {
	b.buf.WriteString("</mask>\n")
	b.inMask = false
}

// FillOutline implements recording.Backend.
func (b *Backend) FillOutline(id string, path *sigplay.Path, fill sigplay.RGBA, opacity sigplay.Tween, maskID string) {
	if path == nil {
		return
	}
	fmt.Fprintf(&b.buf, `<path id="%s" d="%s" fill="%s"`, attr(id), path, fill.Hex())
	if fill.A < 1 {
		fmt.Fprintf(&b.buf, ` fill-opacity="%s"`, num(fill.A))
	}
	if maskID != "" {
		fmt.Fprintf(&b.buf, ` mask="url(#%s)"`, attr(maskID))
	}
	b.animated("opacity", opacity)
	b.buf.WriteString("</path>\n")
}

// animated writes the attribute name for t and closes the start tag,
// followed by an <animate> child when t is still running at the
// recording's elapsed time. The caller writes the end tag.
func (b *Backend) animated(name string, t sigplay.Tween) {
	if b.static || t.IsStatic() || b.elapsed >= t.End() {
		fmt.Fprintf(&b.buf, ` %s="%s">`, name, num(t.At(b.elapsed)))
		return
	}
	fmt.Fprintf(&b.buf, ` %s="%s">`, name, num(t.From))
	fmt.Fprintf(&b.buf,
		`<animate attributeName="%s" from="%s" to="%s" begin="%s" dur="%s" fill="freeze"/>`,
		name, num(t.From), num(t.To), clock(t.Begin-b.elapsed), clock(max(t.Duration, time.Millisecond)))
}

// WriteTo implements recording.WriterBackend.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.done {
		return 0, ErrNotFinished
	}
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

// SaveToFile implements recording.FileBackend.
func (b *Backend) SaveToFile(path string) error {
	if !b.done {
		return ErrNotFinished
	}
	return os.WriteFile(path, b.buf.Bytes(), 0o644)
}

// Bytes returns the finished document, or nil before End.
func (b *Backend) Bytes() []byte {
	if !b.done {
		return nil
	}
	return b.buf.Bytes()
}

// String returns the finished document, or "" before End.
func (b *Backend) String() string {
	return string(b.Bytes())
}

// Render plays rec back into a new SVG document.
func Render(rec *recording.Recording, opts ...Option) ([]byte, error) {
	b := NewBackend(opts...)
	if err := rec.Playback(b); err != nil {
		return nil, err
	}
	return bytes.Clone(b.Bytes()), nil
}

func num(v float64) string {
	return sigplay.FormatFloat(v)
}

// clock formats d as a SMIL clock value in milliseconds.
func clock(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

func attr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
