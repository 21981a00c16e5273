package sigplay

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Viewport is the coordinate space of the graphic surface, as declared by
// the document's viewBox.
type Viewport struct {
	MinX, MinY    float64
	Width, Height float64
}

// ParseViewBox parses "minX minY width height". Numbers may be separated
// by whitespace and/or commas. Width and height must be positive.
func ParseViewBox(s string) (Viewport, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return Viewport{}, fmt.Errorf("%w: %q: want 4 numbers, got %d", ErrInvalidViewBox, s, len(fields))
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Viewport{}, fmt.Errorf("%w: %q: bad number %q", ErrInvalidViewBox, s, f)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return Viewport{}, fmt.Errorf("%w: %q: width and height must be positive", ErrInvalidViewBox, s)
	}
	return Viewport{MinX: v[0], MinY: v[1], Width: v[2], Height: v[3]}, nil
}

// ViewportFromRect returns a viewport covering r.
func ViewportFromRect(r Rect) Viewport {
	return Viewport{MinX: r.Min.X, MinY: r.Min.Y, Width: r.Width(), Height: r.Height()}
}

// String returns the viewport in viewBox syntax.
func (v Viewport) String() string {
	return FormatFloat(v.MinX) + " " + FormatFloat(v.MinY) + " " +
		FormatFloat(v.Width) + " " + FormatFloat(v.Height)
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Fit returns the transform mapping the viewport into a width x height
// surface, scaled uniformly to fit and centered (the SVG
// "xMidYMid meet" rule).
func (v Viewport) Fit(width, height float64) Matrix {
	if v.Empty() || width <= 0 || height <= 0 {
		return Identity()
	}
	s := math.Min(width/v.Width, height/v.Height)
	tx := (width-v.Width*s)/2 - v.MinX*s
	ty := (height-v.Height*s)/2 - v.MinY*s
	return Translate(tx, ty).Multiply(Scale(s, s))
}
