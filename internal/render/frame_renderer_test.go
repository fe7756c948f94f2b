package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"rayder/internal/camera"
	"rayder/internal/geom"
	"rayder/internal/threading/core"
	"rayder/internal/world"
)

const (
	testW = 64
	testH = 48
)

var (
	floorGray   = color.RGBA{102, 102, 102, 255}
	ceilingGray = color.RGBA{51, 51, 51, 255}
	red         = color.RGBA{255, 0, 0, 255}
	green       = color.RGBA{0, 255, 0, 255}
	blue        = color.RGBA{0, 0, 255, 255}
	magenta     = color.RGBA{255, 0, 255, 255}
)

func solid(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func testTextures() Textures {
	return Textures{
		Walls:   []image.Image{solid(red, 8, 8), solid(green, 8, 8)},
		Sprites: []image.Image{solid(magenta, 8, 8)},
	}
}

func testOptions() Options {
	return Options{
		ScreenWidth:  testW,
		ScreenHeight: testH,
		FloorColor:   floorGray,
		CeilingColor: ceilingGray,
		DarkenAlpha:  128,
	}
}

// room is a closed 10x7 map; extra places tiles on the row y=3.
func room(t *testing.T, extra map[int]int) *world.Grid {
	t.Helper()
	rows := [][]int{
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	for x, code := range extra {
		rows[3][x] = code
	}
	g, err := world.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return g
}

func eastPose(x, y float64) camera.Pose {
	return camera.NewPose(geom.V(x, y), geom.V(1, 0), geom.V(0, -0.66))
}

func render(r *FrameRenderer, pose camera.Pose) (*image.RGBA, FrameStats) {
	dst := image.NewRGBA(image.Rect(0, 0, testW, testH))
	stats := r.Render(dst, pose)
	return dst, stats
}

func TestRender_DepthBuffer(t *testing.T) {
	r := NewFrameRenderer(world.DefaultGrid(), testTextures(), testOptions(), nil)

	for deg := 0; deg < 360; deg += 30 {
		pose := eastPose(3, 3).Rotate(float64(deg) * math.Pi / 180)
		_, stats := render(r, pose)

		depth := r.DepthBuffer()
		if len(depth) != testW {
			t.Fatalf("depth len = %d, want %d", len(depth), testW)
		}
		for x, d := range depth {
			if !(d > 0) || math.IsInf(d, 0) {
				t.Fatalf("rot %d: depth[%d] = %v", deg, x, d)
			}
		}
		if stats.WallColumns != testW || stats.MissedColumns != 0 {
			t.Errorf("rot %d: stats = %+v", deg, stats)
		}
	}
}

func TestRender_FloorAndCeiling(t *testing.T) {
	r := NewFrameRenderer(world.DefaultGrid(), testTextures(), testOptions(), nil)
	dst, _ := render(r, eastPose(3, 3))

	if got := dst.RGBAAt(testW/2, 0); got != ceilingGray {
		t.Errorf("top pixel = %v, want ceiling %v", got, ceilingGray)
	}
	if got := dst.RGBAAt(testW/2, testH-1); got != floorGray {
		t.Errorf("bottom pixel = %v, want floor %v", got, floorGray)
	}
}

func TestRender_WallShading(t *testing.T) {
	g := room(t, map[int]int{5: 2})
	r := NewFrameRenderer(g, testTextures(), testOptions(), nil)

	tests := []struct {
		name string
		pose camera.Pose
		want color.RGBA
	}{
		// x faces get the half-alpha black overlay
		{"x side darkened", eastPose(3, 3.5), color.RGBA{0, 127, 0, 255}},
		{"y side plain", camera.NewPose(geom.V(5.5, 1.5), geom.V(0, 1), geom.V(0.66, 0)), green},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, _ := render(r, tt.pose)
			if got := dst.RGBAAt(testW/2, testH/2); got != tt.want {
				t.Errorf("centre pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender_WallLineHeight(t *testing.T) {
	g := room(t, map[int]int{5: 2})
	opts := testOptions()
	opts.DarkenAlpha = 0
	r := NewFrameRenderer(g, testTextures(), opts, nil)

	// distance 2 gives a 24px line from row 12 to row 35
	dst, _ := render(r, eastPose(3, 3.5))
	x := testW / 2
	for _, tc := range []struct {
		y    int
		want color.RGBA
	}{
		{11, ceilingGray},
		{12, green},
		{35, green},
		{36, floorGray},
	} {
		if got := dst.RGBAAt(x, tc.y); got != tc.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", x, tc.y, got, tc.want)
		}
	}
}

func TestRender_DoorPass(t *testing.T) {
	tests := []struct {
		name        string
		extra       map[int]int
		wantDoors   bool
		centreDepth float64
	}{
		{"door behind wall is hidden", map[int]int{4: 2, 6: 9}, false, 1},
		{"open view shows door", map[int]int{6: 9}, true, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFrameRenderer(room(t, tt.extra), testTextures(), testOptions(), nil)
			_, stats := render(r, eastPose(3, 3.5))

			if got := stats.DoorColumns > 0; got != tt.wantDoors {
				t.Errorf("door columns = %d, want drawn=%v", stats.DoorColumns, tt.wantDoors)
			}
			if d := r.DepthBuffer()[testW/2]; math.Abs(d-tt.centreDepth) > 1e-9 {
				t.Errorf("centre depth = %v, want %v", d, tt.centreDepth)
			}
		})
	}
}

func TestRender_SpriteOcclusion(t *testing.T) {
	tests := []struct {
		name       string
		extra      map[int]int
		wantDrawn  int
		wantCulled int
		wantCentre color.RGBA
	}{
		{"behind wall", map[int]int{5: 2, 7: 11}, 0, 1, color.RGBA{0, 127, 0, 255}},
		{"in the open", map[int]int{7: 11}, 1, 0, magenta},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFrameRenderer(room(t, tt.extra), testTextures(), testOptions(), nil)
			dst, stats := render(r, eastPose(3, 3.5))

			if stats.SpritesDrawn != tt.wantDrawn || stats.SpritesCulled != tt.wantCulled {
				t.Errorf("drawn/culled = %d/%d, want %d/%d",
					stats.SpritesDrawn, stats.SpritesCulled, tt.wantDrawn, tt.wantCulled)
			}
			if got := dst.RGBAAt(testW/2, testH/2); got != tt.wantCentre {
				t.Errorf("centre pixel = %v, want %v", got, tt.wantCentre)
			}
		})
	}
}

func TestRender_SliceCacheMatchesDirectDraw(t *testing.T) {
	g := world.DefaultGrid()
	pool := core.NewWorkerPool(3)
	pool.Start()
	defer pool.Stop()

	cachedOpts := testOptions()
	cachedOpts.SliceCache = true
	plain := NewFrameRenderer(g, testTextures(), testOptions(), nil)
	cached := NewFrameRenderer(g, testTextures(), cachedOpts, pool)

	var hits int
	for deg := 0; deg < 360; deg += 45 {
		pose := eastPose(3, 3).Rotate(float64(deg) * math.Pi / 180)
		want, _ := render(plain, pose)
		for i := 0; i < 2; i++ {
			got, stats := render(cached, pose)
			hits += stats.CacheHits
			if !bytes.Equal(got.Pix, want.Pix) {
				t.Fatalf("rot %d pass %d: cached frame differs", deg, i)
			}
		}
	}
	if hits == 0 {
		t.Error("expected slice cache hits on repeated frames")
	}
}

func TestRender_Sky(t *testing.T) {
	sky := image.NewRGBA(image.Rect(0, 0, 360, 4))
	for x := 0; x < 360; x++ {
		c := blue
		if x >= 180 {
			c = red
		}
		for y := 0; y < 4; y++ {
			sky.SetRGBA(x, y, c)
		}
	}
	tex := testTextures()
	tex.Sky = sky
	r := NewFrameRenderer(world.DefaultGrid(), tex, testOptions(), nil)

	tests := []struct {
		name        string
		pose        camera.Pose
		left, right color.RGBA
	}{
		{"facing east", eastPose(3, 3), blue, blue},
		{"facing west", camera.NewPose(geom.V(3, 3), geom.V(-1, 0), geom.V(0, 0.66)), blue, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, _ := render(r, tt.pose)
			if got := dst.RGBAAt(0, 0); got != tt.left {
				t.Errorf("left sky = %v, want %v", got, tt.left)
			}
			if got := dst.RGBAAt(testW-1, 0); got != tt.right {
				t.Errorf("right sky = %v, want %v", got, tt.right)
			}
			if got := dst.RGBAAt(0, testH-1); got != floorGray {
				t.Errorf("floor = %v, want %v", got, floorGray)
			}
		})
	}
}

func TestSkyWindow(t *testing.T) {
	tests := []struct {
		deg  float64
		want image.Rectangle
	}{
		{0, image.Rect(0, 0, 180, 4)},
		{90, image.Rect(45, 0, 225, 4)},
		{358, image.Rect(179, 0, 359, 4)},
	}
	for _, tt := range tests {
		if got := skyWindow(360, 4, 1.2, tt.deg); got != tt.want {
			t.Errorf("skyWindow(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestTextureIndexClamp(t *testing.T) {
	set := newTextureSet(testTextures())

	tests := []struct {
		name string
		got  func() int
		want int
	}{
		{"wall 1", func() int { _, i := set.wall(1); return i }, 0},
		{"wall 2", func() int { _, i := set.wall(2); return i }, 1},
		{"wall 8 beyond set", func() int { _, i := set.wall(8); return i }, 0},
		{"door", func() int { _, i := set.wall(world.TileDoor); return i }, 0},
		{"code 0", func() int { _, i := set.wall(0); return i }, 0},
		{"sprite 19 beyond set", func() int { _, i := set.sprite(19); return i }, 0},
	}
	for _, tt := range tests {
		if got := tt.got(); got != tt.want {
			t.Errorf("%s: index = %d, want %d", tt.name, got, tt.want)
		}
	}

	if tex, i := newTextureSet(Textures{}).wall(1); tex != nil || i != -1 {
		t.Errorf("empty set returned %v, %d", tex, i)
	}
}
