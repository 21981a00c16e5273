package sigplay

import "math"

// Path measurement: arc length and bounding box.

// DefaultLengthAccuracy is the accuracy used by the renderer when
// measuring pen-trace segments, in document units.
const DefaultLengthAccuracy = 0.01

// Length returns the total arc length of the path, including the
// implicit line of each Close back to its subpath start.
// accuracy controls the precision of the approximation (smaller = more
// accurate); a non-positive value selects 0.001.
func (p *Path) Length(accuracy float64) float64 {
	if accuracy <= 0 {
		accuracy = 0.001
	}

	var length float64
	var current, start Point

	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			current = e.Point
			start = e.Point
		case LineTo:
			length += current.Distance(e.Point)
			current = e.Point
		case QuadTo:
			length += quadLengthRecursive(NewQuadBez(current, e.Control, e.Point), accuracy*accuracy, 0)
			current = e.Point
		case CubicTo:
			length += cubicLengthRecursive(NewCubicBez(current, e.Control1, e.Control2, e.Point), accuracy*accuracy, 0)
			current = e.Point
		case Close:
			length += current.Distance(start)
			current = start
		}
	}

	return length
}

// maxLengthDepth bounds the subdivision of degenerate curves.
const maxLengthDepth = 24

// quadLengthRecursive computes quadratic arc length by adaptive subdivision.
// Each leaf uses Gravesen's estimate (2*chord + polygon) / 3, whose error is
// far below the chord/polygon gap that stops the subdivision.
func quadLengthRecursive(q QuadBez, accuracySq float64, depth int) float64 {
	chord := q.P0.Distance(q.P2)
	polygon := q.P0.Distance(q.P1) + q.P1.Distance(q.P2)

	diff := polygon - chord
	if diff*diff <= accuracySq || depth >= maxLengthDepth {
		return (2*chord + polygon) / 3
	}

	q1, q2 := q.Subdivide()
	return quadLengthRecursive(q1, accuracySq, depth+1) + quadLengthRecursive(q2, accuracySq, depth+1)
}

// cubicLengthRecursive computes cubic arc length by adaptive subdivision,
// with the cubic form of the same estimate, (chord + polygon) / 2.
func cubicLengthRecursive(c CubicBez, accuracySq float64, depth int) float64 {
	chord := c.P0.Distance(c.P3)
	polygon := c.P0.Distance(c.P1) + c.P1.Distance(c.P2) + c.P2.Distance(c.P3)

	diff := polygon - chord
	if diff*diff <= accuracySq || depth >= maxLengthDepth {
		return (chord + polygon) / 2
	}

	c1, c2 := c.Subdivide()
	return cubicLengthRecursive(c1, accuracySq, depth+1) + cubicLengthRecursive(c2, accuracySq, depth+1)
}

// BoundingBox returns the tight axis-aligned bounding box of the path.
// An empty path yields the zero Rect.
func (p *Path) BoundingBox() Rect {
	if len(p.elements) == 0 {
		return Rect{}
	}

	bbox := Rect{
		Min: Point{X: math.MaxFloat64, Y: math.MaxFloat64},
		Max: Point{X: -math.MaxFloat64, Y: -math.MaxFloat64},
	}

	var current Point
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			bbox = expandBBox(bbox, e.Point)
			current = e.Point
		case LineTo:
			bbox = expandBBox(bbox, e.Point)
			current = e.Point
		case QuadTo:
			bbox = bbox.Union(NewQuadBez(current, e.Control, e.Point).BoundingBox())
			current = e.Point
		case CubicTo:
			bbox = bbox.Union(NewCubicBez(current, e.Control1, e.Control2, e.Point).BoundingBox())
			current = e.Point
		}
	}

	if bbox.Min.X == math.MaxFloat64 {
		return Rect{}
	}
	return bbox
}

// expandBBox expands the bounding box to include the point.
func expandBBox(bbox Rect, pt Point) Rect {
	return Rect{
		Min: Point{X: math.Min(bbox.Min.X, pt.X), Y: math.Min(bbox.Min.Y, pt.Y)},
		Max: Point{X: math.Max(bbox.Max.X, pt.X), Y: math.Max(bbox.Max.Y, pt.Y)},
	}
}
