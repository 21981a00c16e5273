package sigplay

import "math"

// Dash defines a dash pattern for stroking: alternating dash and gap
// lengths plus a starting offset into the pattern.
//
// The reveal renderer uses the two-element pattern [L, L] on a path of
// length L: an offset of L shifts the single dash entirely off the path
// (nothing drawn), an offset of 0 draws the whole path, and values in
// between draw the leading L-offset units.
type Dash struct {
	// Array contains alternating dash/gap lengths.
	Array []float64

	// Offset is the starting offset into the pattern.
	Offset float64
}

// NewDash creates a dash pattern from alternating dash/gap lengths.
// Returns nil if no lengths are provided or all lengths are zero.
func NewDash(lengths ...float64) *Dash {
	positive := false
	normalized := make([]float64, len(lengths))
	for i, l := range lengths {
		normalized[i] = math.Abs(l)
		if l != 0 {
			positive = true
		}
	}
	if !positive {
		return nil
	}
	return &Dash{Array: normalized}
}

// RevealDash returns the reveal pattern for a path of the given length
// with the given dash offset. A zero-length path has no pattern (nil).
func RevealDash(length, offset float64) *Dash {
	d := NewDash(length, length)
	if d == nil {
		return nil
	}
	d.Offset = offset
	return d
}

// Scale returns a new Dash with all lengths multiplied by factor.
// Dash lengths are in document units, so backends scale them along with
// the viewport fit transform.
func (d *Dash) Scale(factor float64) *Dash {
	if d == nil || factor <= 0 {
		return d
	}
	scaled := make([]float64, len(d.Array))
	for i, l := range d.Array {
		scaled[i] = l * factor
	}
	return &Dash{Array: scaled, Offset: d.Offset * factor}
}

// VisibleLength returns how much of a reveal pattern's single dash lies
// on a path of the given length. A nil pattern draws the whole path.
func (d *Dash) VisibleLength(pathLength float64) float64 {
	if d == nil || len(d.Array) == 0 {
		return pathLength
	}
	return math.Max(0, math.Min(pathLength, d.Array[0]-d.Offset))
}
