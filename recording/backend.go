package recording

import (
	"image"
	"io"
	"time"

	"github.com/gogpu/sigplay"
)

// Backend turns a replayed Recording into an output format.
//
// Playback calls Begin once, then the drawing methods in recording order,
// then End. Mask definitions are bracketed by BeginMask and EndMask and
// always precede the FillOutline that references them.
//
// Time-varying values arrive as sigplay.Tween values. Declarative formats
// (SVG) emit them as animations shifted by the elapsed time passed to
// Begin; snapshot formats (raster, PDF) evaluate them at that instant.
//
// Backends register themselves from init():
//
//	func init() {
//	    recording.Register("svg", func() recording.Backend {
//	        return NewBackend()
//	    })
//	}
type Backend interface {
	// Begin prepares the output for the given document viewport. elapsed is
	// the time since the state shown by the recording was entered.
	Begin(vp sigplay.Viewport, elapsed time.Duration) error

	// End finalizes the output. WriteTo and SaveToFile are valid afterwards.
	End() error

	// BeginMask starts the reveal mask with the given id.
	BeginMask(id string)

	// StrokeTrace paints one pen-trace segment into the open mask using the
	// dash pattern [length, length] and the given dash offset.
	StrokeTrace(path *sigplay.Path, width, length float64, offset sigplay.Tween)

	// EndMask closes the open mask.
	EndMask()

	// FillOutline fills a stroke outline with fill at the given opacity,
	// clipped by the mask maskID when it is not empty.
	FillOutline(id string, path *sigplay.Path, fill sigplay.RGBA, opacity sigplay.Tween, maskID string)
}

// WriterBackend is a Backend whose output can be streamed to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the finished output. Call it after End.
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend is a Backend that can save its output to a file.
type FileBackend interface {
	Backend

	// SaveToFile writes the finished output to path. Call it after End.
	SaveToFile(path string) error
}

// ImageBackend is a Backend that renders to pixels.
type ImageBackend interface {
	Backend

	// Image returns the rendered image, or nil before End.
	Image() image.Image
}
