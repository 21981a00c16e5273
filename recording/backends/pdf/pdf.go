// Package pdf renders recordings as single-page PDF snapshots using
// github.com/jung-kurt/gofpdf.
//
// Animations are evaluated at the recording's elapsed time. The document
// viewport is fitted onto the page preserving its aspect ratio.
//
// # Limitations
//
// PDF has no equivalent of a luminance mask driven by stroked paths, so a
// traced stroke is drawn in one of three ways depending on how much of its
// pen trace is visible: not at all, as its filled outline once fully
// revealed, or, while partially revealed, as the visible portion of its
// pen trace stroked in the fill color at the trace width.
//
// The backend registers itself as "pdf":
//
//	import _ "github.com/gogpu/sigplay/recording/backends/pdf"
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
)

func init() {
	recording.Register("pdf", func() recording.Backend {
		return NewBackend()
	})
}

// DefaultPageWidth is the page width in points used when no size is
// configured (US Letter width).
const DefaultPageWidth = 612.0

// ErrNotFinished is returned when output is requested before End.
var ErrNotFinished = errors.New("pdf: rendering not finished")

// Option configures a Backend.
type Option func(*Backend)

// WithPageSize sets the page size in points. A height of 0 is derived from
// the viewport aspect ratio.
func WithPageSize(width, height float64) Option {
	return func(b *Backend) {
		b.width, b.height = width, height
	}
}

// WithCompression enables or disables content stream compression. It is
// enabled by default.
func WithCompression(compress bool) Option {
	return func(b *Backend) {
		b.compress = compress
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) Option {
	return func(b *Backend) {
		b.title = title
	}
}

// Backend writes PDF documents.
type Backend struct {
	width, height float64
	title         string
	compress      bool

	doc     *gofpdf.Fpdf
	out     bytes.Buffer
	fit     sigplay.Matrix
	scale   float64
	elapsed time.Duration

	maskID string
	masks  map[string][]sigplay.SegmentReveal
	done   bool
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a PDF backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{width: DefaultPageWidth, compress: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PageSize returns the page size in points for the given viewport.
func (b *Backend) PageSize(vp sigplay.Viewport) (width, height float64) {
	width, height = b.width, b.height
	if width <= 0 {
		width = DefaultPageWidth
	}
	if height <= 0 && !vp.Empty() {
		height = width * vp.Height / vp.Width
	}
	return width, math.Max(height, 1)
}

// Begin implements recording.Backend.
func (b *Backend) Begin(vp sigplay.Viewport, elapsed time.Duration) error {
	if vp.Empty() {
		return sigplay.ErrInvalidViewBox
	}
	w, h := b.PageSize(vp)
	b.doc = gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	b.doc.SetCompression(b.compress)
	b.doc.SetMargins(0, 0, 0)
	b.doc.SetAutoPageBreak(false, 0)
	if b.title != "" {
		b.doc.SetTitle(b.title, true)
	}
	b.doc.AddPage()
	b.doc.SetLineCapStyle("round")
	b.doc.SetLineJoinStyle("round")

	b.fit = vp.Fit(w, h)
	b.scale = b.fit.ScaleFactor()
	b.elapsed = elapsed
	b.masks = make(map[string][]sigplay.SegmentReveal)
	b.maskID = ""
	b.out.Reset()
	b.done = false
	return b.doc.Error()
}

// End implements recording.Backend.
func (b *Backend) End() error {
	if err := b.doc.Output(&b.out); err != nil {
		return fmt.Errorf("pdf: output: %w", err)
	}
	b.done = true
	return nil
}

// BeginMask implements recording.Backend.
func (b *Backend) BeginMask(id string) {
	b.maskID = id
	b.masks[id] = nil
}

// StrokeTrace implements recording.Backend. Segments are buffered until
// the outline that uses the mask is filled.
func (b *Backend) StrokeTrace(path *sigplay.Path, width, length float64, offset sigplay.Tween) {
	if b.maskID == "" || path == nil {
		return
	}
	b.masks[b.maskID] = append(b.masks[b.maskID],
		sigplay.SegmentReveal{Path: path, Width: width, Length: length, Offset: offset})
}

// EndMask implements recording.Backend.
func (b *Backend) EndMask() {
	b.maskID = ""
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
	if maskID == "" {
		b.fill(path, fill, alpha)
		return
	}

	traces, ok := b.masks[maskID]
	if !ok {
		sigplay.Logger().Warn("pdf: unknown mask", "stroke", id, "mask", maskID)
		return
	}
	var total, visible float64
	for _, t := range traces {
		total += t.Length
		visible += t.Visible(b.elapsed)
	}
	switch {
	case total == 0 || visible >= total:
		b.fill(path, fill, alpha)
	case visible > 0:
		for _, t := range traces {
			b.strokeVisible(t, fill, alpha)
		}
	}
}

func (b *Backend) fill(path *sigplay.Path, c sigplay.RGBA, alpha float64) {
	r, g, bl := rgb(c)
	b.doc.SetFillColor(r, g, bl)
	b.doc.SetAlpha(alpha, "Normal")
	if b.appendPath(path) {
		b.doc.DrawPath("F")
	}
}

func (b *Backend) strokeVisible(s sigplay.SegmentReveal, c sigplay.RGBA, alpha float64) {
	visible := s.Visible(b.elapsed)
	if visible <= 0 {
		return
	}
	r, g, bl := rgb(c)
	b.doc.SetDrawColor(r, g, bl)
	b.doc.SetAlpha(alpha, "Normal")
	b.doc.SetLineWidth(s.Width * b.scale)
	if d := s.Dash(b.elapsed).Scale(b.scale); d != nil && visible < s.Length {
		b.doc.SetDashPattern(d.Array, d.Offset)
	} else {
		b.doc.SetDashPattern([]float64{}, 0)
	}
	if b.appendPath(s.Path) {
		b.doc.DrawPath("D")
	}
	b.doc.SetDashPattern([]float64{}, 0)
}

// appendPath emits path in page coordinates and reports whether anything
// was emitted.
func (b *Backend) appendPath(path *sigplay.Path) bool {
	elements := path.Transform(b.fit).Elements()
	for _, el := range elements {
		switch e := el.(type) {
		case sigplay.MoveTo:
			b.doc.MoveTo(e.Point.X, e.Point.Y)
		case sigplay.LineTo:
			b.doc.LineTo(e.Point.X, e.Point.Y)
		case sigplay.QuadTo:
			b.doc.CurveTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case sigplay.CubicTo:
			b.doc.CurveBezierCubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case sigplay.Close:
			b.doc.ClosePath()
		}
	}
	return len(elements) > 0
}

// WriteTo implements recording.WriterBackend.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.done {
		return 0, ErrNotFinished
	}
	n, err := w.Write(b.out.Bytes())
	return int64(n), err
}

// SaveToFile implements recording.FileBackend.
func (b *Backend) SaveToFile(path string) error {
	if !b.done {
		return ErrNotFinished
	}
	return os.WriteFile(path, b.out.Bytes(), 0o644)
}

// Bytes returns the finished document, or nil before End.
func (b *Backend) Bytes() []byte {
	if !b.done {
		return nil
	}
	return b.out.Bytes()
}

func rgb(c sigplay.RGBA) (r, g, b int) {
	return channel(c.R), channel(c.G), channel(c.B)
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
