package sigplay

import (
	"fmt"
	"strconv"
)

// ParsePathData parses SVG path data (the "d" attribute) into a Path.
//
// The full grammar is supported: M, L, H, V, C, S, Q, T, A and Z in
// absolute and relative form, implicit command repetition, and compact
// number syntax such as "M1.5.5-2e1". Elliptical arcs are converted to
// cubic Bezier curves.
//
// Errors wrap ErrInvalidPathData.
func ParsePathData(d string) (*Path, error) {
	s := pathScanner{src: d}
	p := NewPath()

	var (
		cmd      byte
		lastCtrl Point // reflected by S and T
		lastCmd  byte
	)

	for {
		s.skipSeparators()
		if s.done() {
			break
		}

		if c := s.peek(); isPathCommand(c) {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return nil, s.errorf("expected command, found %q", c)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		upper := cmd &^ 0x20
		if upper != 'M' && !p.HasCurrentPoint() {
			return nil, s.errorf("path data must begin with a moveto")
		}
		cur := p.CurrentPoint()
		abs := func(x, y float64) (float64, float64) {
			if rel {
				return cur.X + x, cur.Y + y
			}
			return x, y
		}

		switch upper {
		case 'M':
			x, y, err := s.pair()
			if err != nil {
				return nil, err
			}
			x, y = abs(x, y)
			p.MoveTo(x, y)
			// Subsequent pairs are implicit linetos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L':
			x, y, err := s.pair()
			if err != nil {
				return nil, err
			}
			p.LineTo(abs(x, y))
		case 'H':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			p.LineTo(x, cur.Y)
		case 'V':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			p.LineTo(cur.X, y)
		case 'C':
			v, err := s.numbers(6)
			if err != nil {
				return nil, err
			}
			c1x, c1y := abs(v[0], v[1])
			c2x, c2y := abs(v[2], v[3])
			x, y := abs(v[4], v[5])
			p.CubicTo(c1x, c1y, c2x, c2y, x, y)
			lastCtrl = Pt(c2x, c2y)
		case 'S':
			v, err := s.numbers(4)
			if err != nil {
				return nil, err
			}
			c1 := cur
			if lastCmd == 'C' || lastCmd == 'S' {
				c1 = lastCtrl.Reflect(cur)
			}
			c2x, c2y := abs(v[0], v[1])
			x, y := abs(v[2], v[3])
			p.CubicTo(c1.X, c1.Y, c2x, c2y, x, y)
			lastCtrl = Pt(c2x, c2y)
		case 'Q':
			v, err := s.numbers(4)
			if err != nil {
				return nil, err
			}
			cx, cy := abs(v[0], v[1])
			x, y := abs(v[2], v[3])
			p.QuadraticTo(cx, cy, x, y)
			lastCtrl = Pt(cx, cy)
		case 'T':
			x, y, err := s.pair()
			if err != nil {
				return nil, err
			}
			ctrl := cur
			if lastCmd == 'Q' || lastCmd == 'T' {
				ctrl = lastCtrl.Reflect(cur)
			}
			x, y = abs(x, y)
			p.QuadraticTo(ctrl.X, ctrl.Y, x, y)
			lastCtrl = ctrl
		case 'A':
			v, err := s.numbers(3)
			if err != nil {
				return nil, err
			}
			largeArc, err := s.flag()
			if err != nil {
				return nil, err
			}
			sweep, err := s.flag()
			if err != nil {
				return nil, err
			}
			x, y, err := s.pair()
			if err != nil {
				return nil, err
			}
			x, y = abs(x, y)
			p.arcTo(v[0], v[1], v[2], largeArc, sweep, x, y)
		case 'Z':
			p.Close()
		default:
			return nil, s.errorf("unsupported command %q", cmd)
		}
		lastCmd = upper
		if upper == 'Z' {
			// A closepath takes no arguments; anything else must name a command.
			cmd = 0
			s.skipSeparators()
			if !s.done() && !isPathCommand(s.peek()) {
				return nil, s.errorf("unexpected %q after closepath", s.peek())
			}
		}
	}

	return p, nil
}

// MustParsePathData is like ParsePathData but panics on error.
// Intended for tests and literal geometry.
func MustParsePathData(d string) *Path {
	p, err := ParsePathData(d)
	if err != nil {
		panic(err)
	}
	return p
}

func isPathCommand(c byte) bool {
	switch c &^ 0x20 {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

// pathScanner tokenizes SVG path data.
type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) done() bool { return s.pos >= len(s.src) }

func (s *pathScanner) peek() byte { return s.src[s.pos] }

func (s *pathScanner) skipSeparators() {
	for !s.done() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrInvalidPathData, s.pos, fmt.Sprintf(format, args...))
}

// number scans one number. A sign or a second decimal point terminates
// the previous number, as the SVG grammar allows.
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if !s.done() && (s.peek() == '+' || s.peek() == '-') {
		s.pos++
	}
	digits := 0
	for !s.done() && isDigit(s.peek()) {
		s.pos++
		digits++
	}
	if !s.done() && s.peek() == '.' {
		s.pos++
		for !s.done() && isDigit(s.peek()) {
			s.pos++
			digits++
		}
	}
	if digits == 0 {
		s.pos = start
		if s.done() {
			return 0, s.errorf("unexpected end of data, expected number")
		}
		return 0, s.errorf("expected number, found %q", s.peek())
	}
	if !s.done() && (s.peek() == 'e' || s.peek() == 'E') {
		mark := s.pos
		s.pos++
		if !s.done() && (s.peek() == '+' || s.peek() == '-') {
			s.pos++
		}
		expDigits := 0
		for !s.done() && isDigit(s.peek()) {
			s.pos++
			expDigits++
		}
		if expDigits == 0 {
			s.pos = mark
		}
	}
	v, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return 0, s.errorf("bad number %q", s.src[start:s.pos])
	}
	return v, nil
}

func (s *pathScanner) pair() (float64, float64, error) {
	x, err := s.number()
	if err != nil {
		return 0, 0, err
	}
	y, err := s.number()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (s *pathScanner) numbers(n int) ([]float64, error) {
	v := make([]float64, n)
	for i := range v {
		f, err := s.number()
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return v, nil
}

// flag scans an arc flag, which is a single '0' or '1' and may be
// written without a following separator.
func (s *pathScanner) flag() (bool, error) {
	s.skipSeparators()
	if s.done() {
		return false, s.errorf("unexpected end of data, expected flag")
	}
	switch s.peek() {
	case '0':
		s.pos++
		return false, nil
	case '1':
		s.pos++
		return true, nil
	}
	return false, s.errorf("expected arc flag, found %q", s.peek())
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
