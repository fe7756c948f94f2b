package camera

import "strings"

// Command is a bit set of the discrete actions read from input once per frame.
type Command uint8

const (
	MoveForward Command = 1 << iota
	MoveBackward
	StrafeLeft
	StrafeRight
	RotateLeft
	RotateRight
	Quit
)

var commandNames = []struct {
	cmd  Command
	name string
}{
	{MoveForward, "forward"},
	{MoveBackward, "backward"},
	{StrafeLeft, "strafe_left"},
	{StrafeRight, "strafe_right"},
	{RotateLeft, "rotate_left"},
	{RotateRight, "rotate_right"},
	{Quit, "quit"},
}

// Has reports whether every bit of c2 is set in c.
func (c Command) Has(c2 Command) bool {
	return c&c2 == c2
}

func (c Command) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, n := range commandNames {
		if c.Has(n.cmd) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Speeds are the per-frame movement amounts.
type Speeds struct {
	Move   float64 // cells per frame along direction or plane
	Rotate float64 // radians per frame
}

// Apply runs one frame of commands against p: forward, backward, strafes,
// then rotation. Quit is ignored here.
func (p Pose) Apply(cmds Command, grid Blocker, s Speeds) Pose {
	if cmds.Has(MoveForward) {
		p = p.Forward(s.Move, grid)
	}
	if cmds.Has(MoveBackward) {
		p = p.Backward(s.Move, grid)
	}
	if cmds.Has(StrafeLeft) {
		p = p.StrafeLeft(s.Move, grid)
	}
	if cmds.Has(StrafeRight) {
		p = p.StrafeRight(s.Move, grid)
	}
	if cmds.Has(RotateLeft) {
		p = p.Rotate(s.Rotate)
	}
	if cmds.Has(RotateRight) {
		p = p.Rotate(-s.Rotate)
	}
	return p
}
