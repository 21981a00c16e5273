package recording

import "github.com/gogpu/sigplay"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdBeginMask   CommandType = iota // Start defining a reveal mask
	CmdStrokeTrace                    // Paint one pen-trace segment into the mask
	CmdEndMask                        // Finish the mask
	CmdFillOutline                    // Fill a stroke outline
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdBeginMask:   "BeginMask",
	CmdStrokeTrace: "StrokeTrace",
	CmdEndMask:     "EndMask",
	CmdFillOutline: "FillOutline",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// PathRef is a reference to a path in the resource pool.
type PathRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid path.
func (r PathRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// BeginMaskCommand opens the reveal mask with the given id. The
// StrokeTrace commands up to the matching EndMask paint it.
type BeginMaskCommand struct {
	ID string
}

// Type implements Command.
func (BeginMaskCommand) Type() CommandType { return CmdBeginMask }

// StrokeTraceCommand paints one pen-trace segment into the open mask with
// the reveal dash pattern [Length, Length] and an animated offset.
type StrokeTraceCommand struct {
	Path   PathRef
	Width  float64
	Length float64
	Offset sigplay.Tween
}

// Type implements Command.
func (StrokeTraceCommand) Type() CommandType { return CmdStrokeTrace }

// EndMaskCommand closes the open mask.
type EndMaskCommand struct{}

// Type implements Command.
func (EndMaskCommand) Type() CommandType { return CmdEndMask }

// FillOutlineCommand fills a stroke outline.
type FillOutlineCommand struct {
	// Stroke is the document id of the stroke.
	Stroke  string
	Path    PathRef
	Fill    sigplay.RGBA
	Opacity sigplay.Tween

	// Mask is the id of the reveal mask to clip with, or "".
	Mask string
}

// Type implements Command.
func (FillOutlineCommand) Type() CommandType { return CmdFillOutline }
