package render

import (
	"math"
	"sort"

	"rayder/internal/camera"
	"rayder/internal/geom"
	"rayder/internal/mathutil"
	"rayder/internal/world"
)

// Sprite is a billboard at the centre of a sprite-marked cell.
type Sprite struct {
	Tile     world.TileCode
	Position geom.Vec2
	// Distance is the Euclidean distance to the player.
	Distance float64
}

// Projection places a sprite on screen. Left and Top are the top-left corner
// of a Size x Size square.
type Projection struct {
	CenterX  int
	Left     int
	Top      int
	Size     int
	Distance float64
	// Angle is the bearing relative to the view direction, in (-Pi, Pi].
	// Positive angles are to the left.
	Angle float64
}

// buildSprites turns the grid's sprite index into sprites ordered farthest
// first, so nearer ones are painted over farther ones.
func buildSprites(cells []world.SpriteCell, from geom.Vec2, dst []Sprite) []Sprite {
	dst = dst[:0]
	for _, c := range cells {
		pos := geom.V(float64(c.X)+0.5, float64(c.Y)+0.5)
		dst = append(dst, Sprite{
			Tile:     c.Tile,
			Position: pos,
			Distance: geom.Distance(pos, from),
		})
	}
	sort.SliceStable(dst, func(i, j int) bool {
		return dst[i].Distance > dst[j].Distance
	})
	return dst
}

// ProjectSprite projects a sprite onto a screenW x screenH view.
//
// Size uses the radial distance rather than the distance to the camera plane,
// so sprites near the screen edges look slightly too small. The same radial
// distance is compared against the perpendicular wall depth.
func ProjectSprite(pose camera.Pose, spritePos geom.Vec2, fov float64, screenW, screenH int) Projection {
	v := spritePos.Sub(pose.Position)
	d := v.Len()

	angle := mathutil.NormalizeAngle(math.Atan2(v.Y, v.X) - pose.Rotation())
	radiansPerColumn := fov / float64(screenW)
	centerX := float64(screenW)/2 - angle/radiansPerColumn

	size := int(float64(screenH) / mathutil.AvoidZero(d))
	left := int(math.Floor(centerX - float64(size)/2))
	top := int(math.Floor(float64(screenH)/2 - float64(size)/2))

	return Projection{
		CenterX:  int(math.Floor(centerX)),
		Left:     left,
		Top:      top,
		Size:     size,
		Distance: d,
		Angle:    angle,
	}
}

// visibleColumns returns the on-screen column range [from, to) of p.
func (p Projection) visibleColumns(screenW int) (from, to int) {
	from = mathutil.IntMax(p.Left, 0)
	to = mathutil.IntMin(p.Left+p.Size, screenW)
	return from, to
}
