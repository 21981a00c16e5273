// Package sigplay replays a recorded signature as a stroke-by-stroke
// reveal animation.
//
// # Overview
//
// A signature Document is an ordered list of strokes, each a filled
// outline plus, optionally, the recorded pen trace that painted it. A
// Player loads a document, then a Controller moves a step cursor through
// the strokes on a fixed cadence, writing them forward and, when looping,
// erasing them backward with a dwell at each extreme. For every state the
// Renderer produces a Frame: one draw instruction per stroke saying how
// much of it is visible.
//
// # Quick Start
//
//	p := sigplay.Mount(ctx, sigplay.ContainerFunc(func(f sigplay.Frame) {
//	    out, err := svg.Render(recording.Record(f, 0))
//	    if err == nil {
//	        host.Show(out) // an animated SVG document
//	    }
//	}), "https://example.com/signature.json")
//	defer p.Close()
//
// # Reveal Modes
//
// Strokes with a pen trace are Traced: the outline is shown through a
// mask stroked along the trace, whose dash offset is animated so ink
// follows the true writing path at a uniform speed. Strokes without one
// are Faded: only the outline opacity is animated. The mode is chosen once
// per stroke when the document is planned.
//
// # Timing
//
// All timers go through a clock.Clock. clock.Manual drives playback
// deterministically for tests and offline frame export.
//
// # Coordinate System
//
// Geometry uses the document's viewBox coordinates: origin at the
// top-left, X increasing right, Y increasing down. Viewport.Fit maps them
// onto an output surface, preserving aspect ratio and centering.
package sigplay
