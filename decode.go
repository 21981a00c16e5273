package sigplay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Wire format of a signature document.
type documentJSON struct {
	SVGInfo *struct {
		ViewBox string `json:"viewBox"`
	} `json:"svgInfo"`
	Paths           *[]pathJSON             `json:"paths"`
	RecordedStrokes map[string]recordedJSON `json:"recordedStrokes"`
}

type pathJSON struct {
	ID    strokeID `json:"id"`
	D     string   `json:"d"`
	Color string   `json:"color"`
}

type recordedJSON struct {
	D          string    `json:"d"`
	Width      *float64  `json:"width"`
	RawStrokes []rawJSON `json:"rawStrokes"`
}

type rawJSON struct {
	D     string   `json:"d"`
	Width *float64 `json:"width"`
}

// strokeID accepts both string and numeric ids.
type strokeID string

func (s *strokeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = strokeID(v)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("sigplay: stroke id must be a string or number: %w", err)
	}
	*s = strokeID(n.String())
	return nil
}

// Decode reads a signature document from r.
//
// A document without a "paths" list fails with ErrNoStrokes. Outlines
// must be valid path data. Pen traces degrade instead of failing: an
// unparseable trace segment is dropped with a warning, and a stroke whose
// trace has no usable segments is played with the fade reveal.
func Decode(r io.Reader) (*Document, error) {
	var raw documentJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("sigplay: decode document: %w", err)
	}
	if raw.Paths == nil {
		return nil, ErrNoStrokes
	}

	doc := &Document{Strokes: make([]Stroke, 0, len(*raw.Paths))}
	seen := make(map[string]struct{}, len(*raw.Paths))

	for i, pj := range *raw.Paths {
		id := string(pj.ID)
		if id == "" {
			id = "path-" + strconv.Itoa(i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStroke, id)
		}
		seen[id] = struct{}{}

		outline, err := ParsePathData(pj.D)
		if err != nil {
			return nil, fmt.Errorf("sigplay: stroke %q outline: %w", id, err)
		}

		fill := Black
		if pj.Color != "" {
			c, err := ParseColor(pj.Color)
			if err != nil {
				Logger().Warn("sigplay: stroke color ignored", "stroke", id, "color", pj.Color, "err", err)
			} else {
				fill = c
			}
		}

		stroke := Stroke{ID: id, Outline: outline, Fill: fill}
		if rec, ok := raw.RecordedStrokes[id]; ok {
			stroke.Trace = decodeTrace(id, rec)
		}
		doc.Strokes = append(doc.Strokes, stroke)
	}

	for id := range raw.RecordedStrokes {
		if _, ok := seen[id]; !ok {
			Logger().Debug("sigplay: recorded stroke has no outline", "stroke", id)
		}
	}

	doc.Viewport = resolveViewport(raw, doc)
	return doc, nil
}

// decodeTrace builds a pen trace from a recorded entry. rawStrokes take
// precedence over the legacy single-segment "d".
func decodeTrace(id string, rec recordedJSON) *PenTrace {
	width := DefaultTraceWidth
	if rec.Width != nil && *rec.Width > 0 {
		width = *rec.Width
	}

	raws := rec.RawStrokes
	if len(raws) == 0 && rec.D != "" {
		raws = []rawJSON{{D: rec.D}}
	}

	trace := &PenTrace{Segments: make([]TraceSegment, 0, len(raws))}
	for i, rs := range raws {
		p, err := ParsePathData(rs.D)
		if err == nil && p.Len() == 0 {
			err = fmt.Errorf("%w: empty", ErrInvalidPathData)
		}
		if err != nil {
			Logger().Warn("sigplay: pen trace segment dropped", "stroke", id, "segment", i, "err", err)
			continue
		}
		w := width
		if rs.Width != nil && *rs.Width > 0 {
			w = *rs.Width
		}
		trace.Segments = append(trace.Segments, TraceSegment{Path: p, Width: w})
	}
	return trace
}

// resolveViewport uses the declared viewBox, falling back to the bounds
// of all outlines when it is absent or malformed.
func resolveViewport(raw documentJSON, doc *Document) Viewport {
	if raw.SVGInfo != nil && raw.SVGInfo.ViewBox != "" {
		vp, err := ParseViewBox(raw.SVGInfo.ViewBox)
		if err == nil {
			return vp
		}
		Logger().Warn("sigplay: viewBox ignored", "err", err)
	}

	var bounds Rect
	for i, s := range doc.Strokes {
		bb := s.Outline.BoundingBox()
		if i == 0 {
			bounds = bb
			continue
		}
		bounds = bounds.Union(bb)
	}
	// A straight horizontal or vertical signature still needs an area.
	vp := ViewportFromRect(bounds)
	vp.Width = max(vp.Width, 1)
	vp.Height = max(vp.Height, 1)
	return vp
}
