package sigplay

import "errors"

var (
	// ErrNoStrokes is returned when a document is missing its stroke list.
	ErrNoStrokes = errors.New("sigplay: document has no stroke list")

	// ErrInvalidPathData is wrapped by every path data parse error.
	ErrInvalidPathData = errors.New("sigplay: invalid path data")

	// ErrInvalidViewBox is returned for a malformed viewBox string.
	ErrInvalidViewBox = errors.New("sigplay: invalid viewBox")

	// ErrDuplicateStroke is returned when two strokes share an id.
	ErrDuplicateStroke = errors.New("sigplay: duplicate stroke id")

	// ErrLoad is wrapped by document fetch failures (transport errors and
	// unexpected HTTP status codes).
	ErrLoad = errors.New("sigplay: document load failed")
)

// ErrClosed is returned by operations on a closed Player.
var ErrClosed = errors.New("sigplay: player closed")
