package raycast

import (
	"math"
	"testing"

	"rayder/internal/camera"
	"rayder/internal/geom"
	"rayder/internal/world"
)

const screenWidth = 640

func startPose() camera.Pose {
	return camera.NewPose(geom.V(3, 3), geom.V(1, 0), geom.V(0, -0.66))
}

// corridor is a 10x7 room with an optional tile placed at (5, 3).
func corridor(t *testing.T, tile int) *world.Grid {
	t.Helper()
	rows := [][]int{
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, tile, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	g, err := world.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return g
}

func TestCameraX(t *testing.T) {
	tests := []struct {
		column int
		want   float64
	}{
		{0, -1},
		{320, 0},
		{480, 0.5},
	}
	for _, tt := range tests {
		if got := CameraX(tt.column, screenWidth); got != tt.want {
			t.Errorf("CameraX(%d) = %v, want %v", tt.column, got, tt.want)
		}
	}
}

func TestDeltaDistanceAxisAligned(t *testing.T) {
	d := DeltaDistance(geom.V(1, 0))
	if d.X != 1 {
		t.Errorf("delta x = %v, want 1", d.X)
	}
	if math.IsInf(d.Y, 0) || math.IsNaN(d.Y) || d.Y < 1e5 {
		t.Errorf("delta y = %v, want a large finite value", d.Y)
	}
}

func TestCast_CenterRayDefaultMap(t *testing.T) {
	c := NewCaster(world.DefaultGrid(), Options{ScreenWidth: screenWidth})
	h := c.Cast(screenWidth/2, startPose(), WallHit)

	if !h.Found {
		t.Fatal("expected a hit")
	}
	if h.Side != AxisX {
		t.Errorf("side = %v, want x", h.Side)
	}
	if h.CellX != 9 || h.CellY != 3 {
		t.Errorf("cell = (%d,%d), want (9,3)", h.CellX, h.CellY)
	}
	if math.Abs(h.Distance-6) > 1e-9 {
		t.Errorf("distance = %v, want 6", h.Distance)
	}
	if h.HitFraction != 0 {
		t.Errorf("fraction = %v, want 0", h.HitFraction)
	}
}

func TestCast_WallInFront(t *testing.T) {
	c := NewCaster(corridor(t, 2), Options{ScreenWidth: screenWidth})

	tests := []struct {
		name     string
		pose     camera.Pose
		wantDist float64
		wantFrac float64
	}{
		{
			name:     "on cell boundary",
			pose:     startPose(),
			wantDist: 2,
			wantFrac: 0,
		},
		{
			name:     "mid cell",
			pose:     camera.NewPose(geom.V(3, 3.5), geom.V(1, 0), geom.V(0, -0.66)),
			wantDist: 2,
			wantFrac: 0.5,
		},
		{
			name:     "from the far side",
			pose:     camera.NewPose(geom.V(8.5, 3.25), geom.V(-1, 0), geom.V(0, 0.66)),
			wantDist: 2.5,
			wantFrac: 0.25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := c.Cast(screenWidth/2, tt.pose, WallHit)
			if !h.Found || h.Tile != 2 {
				t.Fatalf("hit = %+v, want tile 2", h)
			}
			if h.Side != AxisX {
				t.Errorf("side = %v, want x", h.Side)
			}
			if math.Abs(h.Distance-tt.wantDist) > 1e-9 {
				t.Errorf("distance = %v, want %v", h.Distance, tt.wantDist)
			}
			if math.Abs(h.HitFraction-tt.wantFrac) > 1e-9 {
				t.Errorf("fraction = %v, want %v", h.HitFraction, tt.wantFrac)
			}
		})
	}
}

func TestCast_DoorSitsMidCell(t *testing.T) {
	c := NewCaster(corridor(t, int(world.TileDoor)), Options{ScreenWidth: screenWidth})

	tests := []struct {
		name string
		pose camera.Pose
		want float64
	}{
		{"approach from west", camera.NewPose(geom.V(3, 3.5), geom.V(1, 0), geom.V(0, -0.66)), 2.5},
		{"approach from east", camera.NewPose(geom.V(7.5, 3.5), geom.V(-1, 0), geom.V(0, 0.66)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := c.Cast(screenWidth/2, tt.pose, DoorHit)
			if !h.Found || !h.Tile.IsDoor() {
				t.Fatalf("hit = %+v, want door", h)
			}
			if math.Abs(h.Distance-tt.want) > 1e-9 {
				t.Errorf("distance = %v, want %v", h.Distance, tt.want)
			}
		})
	}

	t.Run("wall pass ignores doors", func(t *testing.T) {
		h := c.Cast(screenWidth/2, startPose(), WallHit)
		if !h.Found || h.CellX != 9 {
			t.Errorf("hit = %+v, want border at x=9", h)
		}
	})
}

func TestCast_OriginCellNeverTested(t *testing.T) {
	// The player stands inside the wall at (5,3).
	c := NewCaster(corridor(t, 3), Options{ScreenWidth: screenWidth})
	p := camera.NewPose(geom.V(5.5, 3.5), geom.V(1, 0), geom.V(0, -0.66))

	h := c.Cast(screenWidth/2, p, WallHit)
	if !h.Found {
		t.Fatal("expected a hit")
	}
	if h.CellX == 5 && h.CellY == 3 {
		t.Fatal("origin cell was reported as the hit")
	}
	if h.CellX != 9 {
		t.Errorf("cell x = %d, want 9", h.CellX)
	}
}

func TestCast_NotFound(t *testing.T) {
	open, err := world.NewGrid([][]int{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	p := camera.NewPose(geom.V(1.5, 1.5), geom.V(1, 0), geom.V(0, -0.66))

	tests := []struct {
		name   string
		caster *Caster
		pose   camera.Pose
		hit    HitFunc
	}{
		{"leaves the grid", NewCaster(open, Options{ScreenWidth: screenWidth}), p, WallHit},
		{"no door on map", NewCaster(world.DefaultGrid(), Options{ScreenWidth: screenWidth}), startPose(), DoorHit},
		{"step cap", NewCaster(world.DefaultGrid(), Options{ScreenWidth: screenWidth, MaxSteps: 1}), startPose(), WallHit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range []int{0, screenWidth / 2, screenWidth - 1} {
				h := tt.caster.Cast(col, tt.pose, tt.hit)
				if h.Found {
					t.Errorf("column %d: unexpected hit %+v", col, h)
				}
			}
		})
	}
}

func TestCast_AllColumnsWellFormed(t *testing.T) {
	c := NewCaster(world.DefaultGrid(), Options{ScreenWidth: screenWidth})
	hits := make([]RayHit, screenWidth)

	for deg := 0; deg < 360; deg += 15 {
		p := startPose().Rotate(float64(deg) * math.Pi / 180)
		c.CastAll(hits, p, WallHit)
		for x, h := range hits {
			if !h.Found {
				t.Fatalf("rot %d column %d: no hit in a closed map", deg, x)
			}
			if !(h.Distance > 0) || math.IsInf(h.Distance, 0) {
				t.Fatalf("rot %d column %d: distance %v", deg, x, h.Distance)
			}
			if h.HitFraction < 0 || h.HitFraction >= 1 {
				t.Fatalf("rot %d column %d: fraction %v", deg, x, h.HitFraction)
			}
			if !h.Tile.IsWall() {
				t.Fatalf("rot %d column %d: tile %v", deg, x, h.Tile)
			}
		}
	}
}

func TestTextureColumnMirroring(t *testing.T) {
	tests := []struct {
		name string
		hit  RayHit
		want int
	}{
		{"x face ray east", RayHit{Side: AxisX, Direction: geom.V(1, 0.2), HitFraction: 0.25}, 47},
		{"x face ray west", RayHit{Side: AxisX, Direction: geom.V(-1, 0.2), HitFraction: 0.25}, 16},
		{"y face ray south", RayHit{Side: AxisY, Direction: geom.V(0.2, -1), HitFraction: 0.25}, 47},
		{"y face ray north", RayHit{Side: AxisY, Direction: geom.V(0.2, 1), HitFraction: 0.25}, 16},
		{"upper edge", RayHit{Side: AxisX, Direction: geom.V(-1, 0), HitFraction: 0.9999999}, 63},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hit.TextureColumn(64); got != tt.want {
				t.Errorf("TextureColumn = %d, want %d", got, tt.want)
			}
		})
	}
}
