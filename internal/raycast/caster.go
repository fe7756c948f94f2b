// Package raycast steps rays through the tile grid with the DDA algorithm and
// reports what each screen column sees.
//
// Distances are perceptual: projected onto the axis that was crossed rather
// than Euclidean, which keeps straight walls straight on screen.
package raycast

import (
	"rayder/internal/camera"
	"rayder/internal/geom"
	"rayder/internal/mathutil"
	"rayder/internal/world"
)

// Side is the grid axis a ray crossed when it stopped.
type Side int

const (
	// AxisX means the ray stepped in x: it hit an east or west face.
	AxisX Side = iota
	// AxisY means the ray stepped in y: it hit a north or south face.
	AxisY
)

func (s Side) String() string {
	if s == AxisX {
		return "x"
	}
	return "y"
}

// HitFunc decides whether the ray stops in a cell with the given code.
type HitFunc func(world.TileCode) bool

// WallHit stops on codes in [1, 9).
func WallHit(c world.TileCode) bool {
	return c >= world.TileWallMin && c < world.TileDoor
}

// DoorHit stops on doors only.
func DoorHit(c world.TileCode) bool {
	return c == world.TileDoor
}

// RayHit is the result of casting one screen column.
type RayHit struct {
	Column    int
	Direction geom.Vec2

	CellX, CellY int
	Tile         world.TileCode
	Side         Side
	StepX, StepY int

	// Distance is the perceptual distance, always > 0.
	Distance float64
	// HitFraction is where along the face the ray landed, in [0, 1).
	HitFraction float64

	// Found is false when the ray left the grid or ran out of steps.
	Found bool
}

// TextureColumn maps HitFraction to a texture column. The column is mirrored
// when the ray travels +x into an x face or -y into a y face; otherwise the
// texture would read backwards on those faces.
func (h RayHit) TextureColumn(textureWidth int) int {
	if textureWidth <= 0 {
		return 0
	}
	tx := int(h.HitFraction * float64(textureWidth))
	tx = mathutil.IntClamp(tx, 0, textureWidth-1)
	if h.Side == AxisX && h.Direction.X > 0 {
		tx = textureWidth - 1 - tx
	}
	if h.Side == AxisY && h.Direction.Y < 0 {
		tx = textureWidth - 1 - tx
	}
	return tx
}

// Options configures a Caster.
type Options struct {
	ScreenWidth int
	// MaxSteps caps the DDA loop. Zero or less derives a cap from the grid
	// size that is always enough to leave the grid.
	MaxSteps int
}

// Caster casts rays through one grid. It keeps no per-ray state, so a
// single Caster may be used from several goroutines.
type Caster struct {
	grid     *world.Grid
	width    int
	maxSteps int
}

func NewCaster(grid *world.Grid, opts Options) *Caster {
	width := opts.ScreenWidth
	if width <= 0 {
		width = 1
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = grid.Width() + grid.Height() + 2
	}
	return &Caster{grid: grid, width: width, maxSteps: maxSteps}
}

func (c *Caster) ScreenWidth() int { return c.width }

// CameraX maps a column to its position on the camera plane, in [-1, 1).
func CameraX(column, screenWidth int) float64 {
	return 2*(float64(column)/float64(screenWidth)) - 1
}

// RayDirection returns direction + plane*cameraX.
func RayDirection(pose camera.Pose, cameraX float64) geom.Vec2 {
	return pose.Direction.Add(pose.Plane.Scale(cameraX))
}

// DeltaDistance returns how far the ray travels to cross one whole cell on
// each axis. A zero component is replaced by Epsilon, which makes the delta
// huge and effectively disables stepping on that axis.
func DeltaDistance(dir geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: dir.Scale(1 / mathutil.AvoidZero(dir.X)).Len(),
		Y: dir.Scale(1 / mathutil.AvoidZero(dir.Y)).Len(),
	}
}

// Cast sends the ray for column from pose and walks it until hit accepts a
// cell. The cell holding the ray origin is never tested.
func (c *Caster) Cast(column int, pose camera.Pose, hit HitFunc) RayHit {
	origin := pose.Position
	dir := RayDirection(pose, CameraX(column, c.width))
	delta := DeltaDistance(dir)

	mapX, mapY := origin.Floor()

	stepX, stepY := 1, 1
	var sideDistX, sideDistY float64
	if dir.X < 0 {
		stepX = -1
		sideDistX = (origin.X - float64(mapX)) * delta.X
	} else {
		sideDistX = (float64(mapX) + 1 - origin.X) * delta.X
	}
	if dir.Y < 0 {
		stepY = -1
		sideDistY = (origin.Y - float64(mapY)) * delta.Y
	} else {
		sideDistY = (float64(mapY) + 1 - origin.Y) * delta.Y
	}

	h := RayHit{
		Column:    column,
		Direction: dir,
		StepX:     stepX,
		StepY:     stepY,
		Side:      AxisX,
	}

	for steps := 0; steps < c.maxSteps; steps++ {
		if sideDistX < sideDistY {
			sideDistX += delta.X
			mapX += stepX
			h.Side = AxisX
		} else {
			sideDistY += delta.Y
			mapY += stepY
			h.Side = AxisY
		}

		code, ok := c.grid.At(mapX, mapY)
		if !ok {
			break
		}
		if hit(code) {
			h.Tile = code
			h.Found = true
			break
		}
	}

	h.CellX, h.CellY = mapX, mapY
	h.Distance = perceptualDistance(h, origin)
	h.HitFraction = hitFraction(h, origin)
	return h
}

// perceptualDistance projects the hit onto the crossed axis:
//
//	(map - origin + (1 - step)/2) / dir
//
// Doors sit half a cell deeper than the face the ray entered through.
func perceptualDistance(h RayHit, origin geom.Vec2) float64 {
	var cell, pos, dir float64
	var step int
	if h.Side == AxisX {
		cell, pos, dir, step = float64(h.CellX), origin.X, h.Direction.X, h.StepX
	} else {
		cell, pos, dir, step = float64(h.CellY), origin.Y, h.Direction.Y, h.StepY
	}

	travelled := cell - pos
	if h.Found && h.Tile.IsDoor() {
		switch {
		case pos < cell:
			travelled += 0.5
		case pos > cell:
			travelled -= 0.5
		}
	}

	d := (travelled + float64(1-step)/2) / mathutil.AvoidZero(dir)
	if d <= 0 {
		return mathutil.Epsilon
	}
	return d
}

// hitFraction is the coordinate on the other axis where the ray landed, mod 1.
func hitFraction(h RayHit, origin geom.Vec2) float64 {
	var across float64
	if h.Side == AxisX {
		across = origin.Y + h.Distance*h.Direction.Y
	} else {
		across = origin.X + h.Distance*h.Direction.X
	}
	return mathutil.Fract(across)
}

// CastAll casts every column of the screen into dst, which must have
// ScreenWidth entries.
func (c *Caster) CastAll(dst []RayHit, pose camera.Pose, hit HitFunc) {
	for x := range dst {
		dst[x] = c.Cast(x, pose, hit)
	}
}
