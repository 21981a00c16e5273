package sigplay

import "strconv"

// Direction is the play direction of the step cursor.
type Direction uint8

const (
	// Forward writes strokes.
	Forward Direction = iota
	// Backward erases strokes.
	Backward
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return "Direction(" + strconv.Itoa(int(d)) + ")"
}

// State is the playback state owned by a Controller.
//
// Step ranges over [-1, n-1] for a document of n strokes; -1 means
// nothing has been shown yet.
type State struct {
	Step      int
	Direction Direction
}

// Idle is the state of a player before playback starts.
var Idle = State{Step: -1, Direction: Forward}

// String returns e.g. "3/forward".
func (s State) String() string {
	return strconv.Itoa(s.Step) + "/" + s.Direction.String()
}
