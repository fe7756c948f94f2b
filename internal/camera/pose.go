// Package camera holds the player pose: where the player stands, where they
// look, and the camera plane that is swept across the screen columns.
package camera

import (
	"math"

	"rayder/internal/geom"
	"rayder/internal/mathutil"
)

// Blocker reports whether a cell may not be entered.
type Blocker interface {
	Blocks(x, y int) bool
}

// Pose is the player's position, view direction and camera plane. The plane
// is perpendicular to the direction and its length sets the field of view.
// Pose is a value; every mutation returns a new Pose.
type Pose struct {
	Position  geom.Vec2
	Direction geom.Vec2
	Plane     geom.Vec2
}

func NewPose(position, direction, plane geom.Vec2) Pose {
	return Pose{Position: position, Direction: direction, Plane: plane}
}

// FOV returns the horizontal field of view in radians: 2*atan(|plane|/|dir|).
func (p Pose) FOV() float64 {
	return 2 * math.Atan2(p.Plane.Len(), p.Direction.Len())
}

// Rotation returns the facing angle in radians, in (-Pi, Pi].
func (p Pose) Rotation() float64 {
	return p.Direction.Angle()
}

// RotationDegrees returns the facing angle in degrees, in [0, 360).
func (p Pose) RotationDegrees() float64 {
	deg := mathutil.ToDegrees(p.Rotation())
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// Rotate turns the pose counter-clockwise by rad radians. Direction and plane
// always go through the same rotation so they stay perpendicular.
func (p Pose) Rotate(rad float64) Pose {
	p.Direction = p.Direction.Rotate(rad)
	p.Plane = p.Plane.Rotate(rad)
	return p
}

// Move returns the pose shifted by delta, or p unchanged when the cell under
// the new position blocks.
func (p Pose) Move(delta geom.Vec2, grid Blocker) Pose {
	next := p.Position.Add(delta)
	x, y := next.Floor()
	if grid.Blocks(x, y) {
		return p
	}
	p.Position = next
	return p
}

// Forward moves speed direction-lengths ahead.
func (p Pose) Forward(speed float64, grid Blocker) Pose {
	return p.Move(p.Direction.Scale(speed), grid)
}

func (p Pose) Backward(speed float64, grid Blocker) Pose {
	return p.Move(p.Direction.Scale(-speed), grid)
}

// StrafeLeft moves against the camera plane. The plane points to the right of
// the view direction, so no extra trigonometry is needed.
func (p Pose) StrafeLeft(speed float64, grid Blocker) Pose {
	return p.Move(p.Plane.Scale(-speed), grid)
}

func (p Pose) StrafeRight(speed float64, grid Blocker) Pose {
	return p.Move(p.Plane.Scale(speed), grid)
}

// IsOrthogonal reports whether direction and plane are perpendicular within tol.
func (p Pose) IsOrthogonal(tol float64) bool {
	return math.Abs(p.Direction.Dot(p.Plane)) <= tol
}
