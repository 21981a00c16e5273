package sigplay

import (
	"math"
	"strconv"
	"strings"
)

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a straight line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path is vector geometry: a stroke outline or one pen movement.
// Paths are built once when a document is decoded and treated as
// immutable afterwards.
type Path struct {
	elements []PathElement
	start    Point // start of the current subpath
	current  Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
}

// Close closes the current subpath by drawing a line to its start point.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Len returns the number of elements in the path.
func (p *Path) Len() int {
	return len(p.elements)
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// StartPoint returns the start of the current subpath.
func (p *Path) StartPoint() Point {
	return p.start
}

// HasCurrentPoint returns true if the path has a current point.
func (p *Path) HasCurrentPoint() bool {
	return len(p.elements) > 0
}

// Transform returns a copy of the path with m applied to every point.
func (p *Path) Transform(m Matrix) *Path {
	result := NewPath()
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			pt := m.TransformPoint(e.Point)
			result.MoveTo(pt.X, pt.Y)
		case LineTo:
			pt := m.TransformPoint(e.Point)
			result.LineTo(pt.X, pt.Y)
		case QuadTo:
			ctrl := m.TransformPoint(e.Control)
			pt := m.TransformPoint(e.Point)
			result.QuadraticTo(ctrl.X, ctrl.Y, pt.X, pt.Y)
		case CubicTo:
			ctrl1 := m.TransformPoint(e.Control1)
			ctrl2 := m.TransformPoint(e.Control2)
			pt := m.TransformPoint(e.Point)
			result.CubicTo(ctrl1.X, ctrl1.Y, ctrl2.X, ctrl2.Y, pt.X, pt.Y)
		case Close:
			result.Close()
		}
	}
	return result
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.elements = make([]PathElement, len(p.elements))
	copy(result.elements, p.elements)
	result.start = p.start
	result.current = p.current
	return result
}

// String returns the path as absolute SVG path data.
// Arcs were converted to cubic curves when the path was parsed, so the
// output only uses the M, L, Q, C and Z commands.
func (p *Path) String() string {
	var sb strings.Builder
	for i, elem := range p.elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch e := elem.(type) {
		case MoveTo:
			sb.WriteByte('M')
			writePoints(&sb, e.Point)
		case LineTo:
			sb.WriteByte('L')
			writePoints(&sb, e.Point)
		case QuadTo:
			sb.WriteByte('Q')
			writePoints(&sb, e.Control, e.Point)
		case CubicTo:
			sb.WriteByte('C')
			writePoints(&sb, e.Control1, e.Control2, e.Point)
		case Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func writePoints(sb *strings.Builder, pts ...Point) {
	for i, pt := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(FormatFloat(pt.X))
		sb.WriteByte(',')
		sb.WriteString(FormatFloat(pt.Y))
	}
}

// FormatFloat formats v with at most three decimals and no trailing zeros.
func FormatFloat(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// arcTo appends an SVG elliptical arc from the current point to (x, y) as
// a sequence of cubic Bezier curves, following the endpoint to center
// conversion of the SVG implementation notes (F.6.5).
func (p *Path) arcTo(rx, ry, xRot float64, largeArc, sweep bool, x, y float64) {
	x1, y1 := p.current.X, p.current.Y
	if x1 == x && y1 == y {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(x, y)
		return
	}

	phi := xRot * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx2, dy2 := (x1-x)/2, (y1-y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale radii up when they cannot span the endpoints.
	if lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (x1+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y1+y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dtheta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	// At most 90 degrees per cubic segment.
	n := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	step := dtheta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	ellipse := func(t float64) (float64, float64, float64, float64) {
		cosT, sinT := math.Cos(t), math.Sin(t)
		px := cx + rx*cosT*cosPhi - ry*sinT*sinPhi
		py := cy + rx*cosT*sinPhi + ry*sinT*cosPhi
		// Derivative with respect to t.
		dx := -rx*sinT*cosPhi - ry*cosT*sinPhi
		dy := -rx*sinT*sinPhi + ry*cosT*cosPhi
		return px, py, dx, dy
	}

	t := theta1
	for i := 0; i < n; i++ {
		sx, sy, sdx, sdy := ellipse(t)
		ex, ey, edx, edy := ellipse(t + step)
		if i == n-1 {
			ex, ey = x, y
		}
		p.CubicTo(sx+k*sdx, sy+k*sdy, ex-k*edx, ey-k*edy, ex, ey)
		t += step
	}
}

// vectorAngle returns the signed angle from (ux, uy) to (vx, vy).
func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
