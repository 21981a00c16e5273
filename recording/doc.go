// Package recording turns sigplay frames into replayable draw commands.
//
// A Recording is an immutable list of commands describing one frame of a
// reveal animation. It can be played back to any Backend: an animated SVG
// document, a PNG snapshot, or a PDF page.
//
// # Architecture
//
// The package follows the command pattern:
//
//   - Recorder captures draw operations as commands
//   - Recording stores the commands and their paths
//   - Backend turns commands into an output format
//
// Four commands exist. BeginMask, StrokeTrace and EndMask describe the
// pen-trace mask of a traced stroke; FillOutline fills a stroke outline,
// optionally through such a mask. Time-varying values are carried as
// sigplay.Tween so declarative backends can animate them and snapshot
// backends can evaluate them.
//
// # Usage
//
//	f := player.Snapshot()
//	rec := recording.Record(f, f.Elapsed(time.Now()))
//
//	backend, err := recording.NewBackend("svg")
//	if err != nil {
//	    return err
//	}
//	if err := rec.Playback(backend); err != nil {
//	    return err
//	}
//	_ = backend.(recording.FileBackend).SaveToFile("signature.svg")
//
// # Backend Registration
//
// Backends register themselves from init(), in the style of database/sql
// drivers, and are selected with a blank import:
//
//	import (
//	    _ "github.com/gogpu/sigplay/recording/backends/pdf"
//	    _ "github.com/gogpu/sigplay/recording/backends/raster"
//	    _ "github.com/gogpu/sigplay/recording/backends/svg"
//	)
//
// Backends lists what is available.
//
// # Thread Safety
//
// A Recorder must not be shared between goroutines. A finished Recording
// is read-only and may be played back concurrently to different backends.
// The registry is safe for concurrent use.
package recording
