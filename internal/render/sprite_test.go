package render

import (
	"math"
	"testing"

	"rayder/internal/geom"
	"rayder/internal/world"
)

func TestBuildSpritesFarthestFirst(t *testing.T) {
	cells := []world.SpriteCell{
		{X: 1, Y: 1, Tile: 11},
		{X: 8, Y: 8, Tile: 12},
		{X: 4, Y: 3, Tile: 13},
		{X: 2, Y: 7, Tile: 14},
	}
	sprites := buildSprites(cells, geom.V(3, 3), nil)

	if len(sprites) != len(cells) {
		t.Fatalf("got %d sprites, want %d", len(sprites), len(cells))
	}
	for i := 1; i < len(sprites); i++ {
		if sprites[i].Distance > sprites[i-1].Distance {
			t.Errorf("sprite %d (%.3f) is farther than sprite %d (%.3f)",
				i, sprites[i].Distance, i-1, sprites[i-1].Distance)
		}
	}
	if sprites[0].Tile != 12 {
		t.Errorf("farthest sprite = %v, want 12", sprites[0].Tile)
	}
	if p := sprites[len(sprites)-1].Position; p != geom.V(4.5, 3.5) {
		t.Errorf("nearest sprite position = %v, want cell centre (4.5, 3.5)", p)
	}
}

func TestProjectSprite(t *testing.T) {
	fov := eastPose(3, 3).FOV()

	tests := []struct {
		name  string
		pose  func() (geom.Vec2, geom.Vec2)
		check func(t *testing.T, p Projection)
	}{
		{
			name: "straight ahead",
			pose: func() (geom.Vec2, geom.Vec2) { return geom.V(3, 3.5), geom.V(5, 3.5) },
			check: func(t *testing.T, p Projection) {
				if p.CenterX != testW/2 || p.Size != testH/2 || p.Angle != 0 {
					t.Errorf("projection = %+v", p)
				}
				if p.Left != testW/2-testH/4 || p.Top != testH/4 {
					t.Errorf("corner = (%d,%d)", p.Left, p.Top)
				}
			},
		},
		{
			name: "left of view",
			pose: func() (geom.Vec2, geom.Vec2) { return geom.V(3, 3), geom.V(5, 3.5) },
			check: func(t *testing.T, p Projection) {
				if p.Angle <= 0 || p.CenterX >= testW/2 {
					t.Errorf("projection = %+v, want left of centre", p)
				}
			},
		},
		{
			name: "right of view",
			pose: func() (geom.Vec2, geom.Vec2) { return geom.V(3, 3), geom.V(5, 2.5) },
			check: func(t *testing.T, p Projection) {
				if p.Angle >= 0 || p.CenterX <= testW/2 {
					t.Errorf("projection = %+v, want right of centre", p)
				}
			},
		},
		{
			name: "on top of player",
			pose: func() (geom.Vec2, geom.Vec2) { return geom.V(3, 3), geom.V(3, 3) },
			check: func(t *testing.T, p Projection) {
				if p.Size <= 0 || math.IsNaN(p.Angle) {
					t.Errorf("projection = %+v", p)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, at := tt.pose()
			tt.check(t, ProjectSprite(eastPose(from.X, from.Y), at, fov, testW, testH))
		})
	}
}

func TestProjectSpriteAngleWraps(t *testing.T) {
	// Facing west, a sprite just south of the view line sits at
	// atan2 = -Pi+e. Without wrapping its bearing would be about -2Pi.
	pose := eastPose(5, 3).Rotate(math.Pi)
	p := ProjectSprite(pose, geom.V(2, 2.99), pose.FOV(), testW, testH)

	if math.Abs(p.Angle) > 0.1 {
		t.Fatalf("angle = %v, want close to 0", p.Angle)
	}
	if p.CenterX < testW/2-2 || p.CenterX > testW/2+2 {
		t.Errorf("CenterX = %d, want near %d", p.CenterX, testW/2)
	}
}
