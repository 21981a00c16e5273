package recording

import "testing"

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		typ  CommandType
		want string
	}{
		{CmdBeginMask, "BeginMask"},
		{CmdStrokeTrace, "StrokeTrace"},
		{CmdEndMask, "EndMask"},
		{CmdFillOutline, "FillOutline"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestCommandTypes(t *testing.T) {
	tests := []struct {
		cmd  Command
		want CommandType
	}{
		{BeginMaskCommand{ID: "m"}, CmdBeginMask},
		{StrokeTraceCommand{}, CmdStrokeTrace},
		{EndMaskCommand{}, CmdEndMask},
		{FillOutlineCommand{}, CmdFillOutline},
	}
	for _, tt := range tests {
		if got := tt.cmd.Type(); got != tt.want {
			t.Errorf("%T.Type() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestPathRefIsValid(t *testing.T) {
	if !PathRef(0).IsValid() {
		t.Error("PathRef(0).IsValid() = false, want true")
	}
	if PathRef(InvalidRef).IsValid() {
		t.Error("PathRef(InvalidRef).IsValid() = true, want false")
	}
}
