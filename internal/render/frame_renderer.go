// Package render draws a complete frame from a grid, a pose and a texture set
// into an RGBA framebuffer.
//
// Passes run in a fixed order: floor and ceiling fill, sky, walls, doors,
// sprites. The wall pass fills the per-column depth buffer that the door and
// sprite passes test against.
package render

import (
	"image"
	"image/color"
	"math"
	"time"

	"golang.org/x/image/draw"

	"rayder/internal/camera"
	"rayder/internal/raycast"
	"rayder/internal/world"
)

// ColumnRunner runs fn for every column in [start, end) and returns once all
// calls are done. *core.WorkerPool and core.Sequential satisfy it.
type ColumnRunner interface {
	ParallelFor(start, end int, fn func(int))
}

type sequential struct{}

func (sequential) ParallelFor(start, end int, fn func(int)) {
	for i := start; i < end; i++ {
		fn(i)
	}
}

type Options struct {
	ScreenWidth  int
	ScreenHeight int
	// FOV in radians. Zero derives it from the pose every frame.
	FOV float64

	FloorColor   color.RGBA
	CeilingColor color.RGBA
	// DarkenAlpha is the alpha of the black overlay on x-side walls.
	// Zero disables shading.
	DarkenAlpha uint8

	MaxSteps   int
	SliceCache bool
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	WallColumns   int
	DoorColumns   int
	MissedColumns int
	SpritesDrawn  int
	SpritesCulled int
	CacheHits     int
	CacheMisses   int

	Floor   time.Duration
	Sky     time.Duration
	Walls   time.Duration
	Doors   time.Duration
	Sprites time.Duration
}

// FrameRenderer owns the per-frame scratch state: ray hits, the depth buffer
// and the sprite list. It is not safe for concurrent Render calls.
type FrameRenderer struct {
	grid     *world.Grid
	caster   *raycast.Caster
	textures textureSet
	opts     Options
	pool     ColumnRunner
	cache    *SliceCache
	darken   image.Image

	depth    []float64
	hits     []raycast.RayHit
	doorHits []raycast.RayHit
	sprites  []Sprite
}

// NewFrameRenderer creates a renderer for one grid and texture set. A nil
// pool casts columns on the calling goroutine.
func NewFrameRenderer(grid *world.Grid, textures Textures, opts Options, pool ColumnRunner) *FrameRenderer {
	if pool == nil {
		pool = sequential{}
	}
	caster := raycast.NewCaster(grid, raycast.Options{
		ScreenWidth: opts.ScreenWidth,
		MaxSteps:    opts.MaxSteps,
	})
	r := &FrameRenderer{
		grid:     grid,
		caster:   caster,
		textures: newTextureSet(textures),
		opts:     opts,
		pool:     pool,
		darken:   image.NewUniform(color.RGBA{A: opts.DarkenAlpha}),
		depth:    make([]float64, opts.ScreenWidth),
		hits:     make([]raycast.RayHit, opts.ScreenWidth),
		doorHits: make([]raycast.RayHit, opts.ScreenWidth),
	}
	if opts.SliceCache {
		r.cache = NewSliceCache()
	}
	return r
}

// DepthBuffer returns a copy of the depth written by the last frame.
func (r *FrameRenderer) DepthBuffer() []float64 {
	out := make([]float64, len(r.depth))
	copy(out, r.depth)
	return out
}

// Hits returns the wall hits of the last frame. The slice is reused by the
// next Render call.
func (r *FrameRenderer) Hits() []raycast.RayHit {
	return r.hits
}

// Render draws one frame into dst, which should be ScreenWidth x ScreenHeight.
func (r *FrameRenderer) Render(dst *image.RGBA, pose camera.Pose) FrameStats {
	var stats FrameStats
	fov := r.opts.FOV
	if fov <= 0 {
		fov = pose.FOV()
	}

	stats.Floor = timed(func() { r.fillFloorAndCeiling(dst) })
	stats.Sky = timed(func() { drawSky(dst, r.textures.sky, fov, pose.RotationDegrees()) })
	stats.Walls = timed(func() { r.drawWalls(dst, pose, &stats) })
	stats.Doors = timed(func() { r.drawDoors(dst, pose, &stats) })
	stats.Sprites = timed(func() { r.drawSprites(dst, pose, fov, &stats) })

	if r.cache != nil {
		stats.CacheHits, stats.CacheMisses = r.cache.TakeStats()
	}
	return stats
}

func timed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

func (r *FrameRenderer) fillFloorAndCeiling(dst *image.RGBA) {
	b := dst.Bounds()
	mid := b.Min.Y + r.opts.ScreenHeight/2
	draw.Draw(dst, image.Rect(b.Min.X, b.Min.Y, b.Max.X, mid), image.NewUniform(r.opts.CeilingColor), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(b.Min.X, mid, b.Max.X, b.Max.Y), image.NewUniform(r.opts.FloorColor), image.Point{}, draw.Src)
}

func (r *FrameRenderer) drawWalls(dst *image.RGBA, pose camera.Pose, stats *FrameStats) {
	r.pool.ParallelFor(0, len(r.hits), func(x int) {
		r.hits[x] = r.caster.Cast(x, pose, raycast.WallHit)
	})

	for x, h := range r.hits {
		if !h.Found {
			r.depth[x] = math.Inf(1)
			stats.MissedColumns++
			continue
		}
		r.drawColumn(dst, h)
		r.depth[x] = h.Distance
		stats.WallColumns++
	}
}

func (r *FrameRenderer) drawDoors(dst *image.RGBA, pose camera.Pose, stats *FrameStats) {
	r.pool.ParallelFor(0, len(r.doorHits), func(x int) {
		r.doorHits[x] = r.caster.Cast(x, pose, raycast.DoorHit)
	})

	for x, h := range r.doorHits {
		if !h.Found || h.Distance > r.depth[x] {
			continue
		}
		r.drawColumn(dst, h)
		r.depth[x] = h.Distance
		stats.DoorColumns++
	}
}

// drawColumn draws the textured vertical line for one hit. The line is
// H/distance pixels tall and centred on the horizon; parts outside dst are
// clipped without changing the texture mapping.
func (r *FrameRenderer) drawColumn(dst *image.RGBA, h raycast.RayHit) {
	tex, texIndex := r.textures.wall(h.Tile)
	if tex == nil {
		return
	}
	screenH := r.opts.ScreenHeight
	lineHeight := int(float64(screenH) / h.Distance)
	if lineHeight <= 0 {
		return
	}
	top := screenH/2 - lineHeight/2

	tb := tex.Bounds()
	texX := h.TextureColumn(tb.Dx())
	shade := h.Side == raycast.AxisX && r.opts.DarkenAlpha > 0

	b := dst.Bounds()
	dr := image.Rect(h.Column, top, h.Column+1, top+lineHeight).Add(b.Min)

	if r.cache != nil && top >= 0 && top+lineHeight <= screenH {
		key := SliceKey{Texture: texIndex, Column: texX, Height: lineHeight, Side: h.Side}
		slice, _ := r.cache.GetOrCreate(key, func() *image.RGBA {
			return r.scaledSlice(tex, texX, lineHeight, shade)
		})
		draw.Draw(dst, dr, slice, image.Point{}, draw.Src)
		return
	}

	sr := image.Rect(texX, 0, texX+1, tb.Dy())
	draw.NearestNeighbor.Scale(dst, dr, tex, sr, draw.Src, nil)
	if shade {
		draw.Draw(dst, dr.Intersect(b), r.darken, image.Point{}, draw.Over)
	}
}

// scaledSlice builds a 1 x height column of tex, shaded if requested.
func (r *FrameRenderer) scaledSlice(tex *image.RGBA, texX, height int, shade bool) *image.RGBA {
	slice := image.NewRGBA(image.Rect(0, 0, 1, height))
	sr := image.Rect(texX, 0, texX+1, tex.Bounds().Dy())
	draw.NearestNeighbor.Scale(slice, slice.Rect, tex, sr, draw.Src, nil)
	if shade {
		draw.Draw(slice, slice.Rect, r.darken, image.Point{}, draw.Over)
	}
	return slice
}

func (r *FrameRenderer) drawSprites(dst *image.RGBA, pose camera.Pose, fov float64, stats *FrameStats) {
	screenW, screenH := r.opts.ScreenWidth, r.opts.ScreenHeight
	b := dst.Bounds()

	r.sprites = buildSprites(r.grid.Sprites(), pose.Position, r.sprites)
	for _, s := range r.sprites {
		tex, _ := r.textures.sprite(s.Tile)
		p := ProjectSprite(pose, s.Position, fov, screenW, screenH)
		// Sprites behind the camera would otherwise wrap onto the screen
		// when they are very close.
		if tex == nil || p.Size <= 0 || math.Abs(p.Angle) > math.Pi/2 {
			stats.SpritesCulled++
			continue
		}

		tb := tex.Bounds()
		drawn := false
		from, to := p.visibleColumns(screenW)
		for x := from; x < to; x++ {
			if !(r.depth[x] > p.Distance) {
				continue
			}
			texX := (x - p.Left) * tb.Dx() / p.Size
			sr := image.Rect(texX, 0, texX+1, tb.Dy())
			dr := image.Rect(x, p.Top, x+1, p.Top+p.Size).Add(b.Min)
			draw.NearestNeighbor.Scale(dst, dr, tex, sr, draw.Over, nil)
			drawn = true
		}
		if drawn {
			stats.SpritesDrawn++
		} else {
			stats.SpritesCulled++
		}
	}
}
