package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rayder/internal/config"
	"rayder/internal/geom"
	"rayder/internal/world"
)

const legendLineHeight = 14

type mapInfo struct {
	Key  string
	Grid *world.Grid
	Err  error
	// Closed is the result of Grid.CheckClosed.
	Closed error
}

// loadMaps returns the built-in level followed by every .map file in dir,
// sorted by name. A file that fails to parse is kept with its error so the
// viewer can show it.
func loadMaps(dir string) ([]mapInfo, error) {
	builtin := world.DefaultGrid()
	maps := []mapInfo{{Key: "built-in", Grid: builtin, Closed: builtin.CheckClosed()}}

	paths, err := filepath.Glob(filepath.Join(dir, "*.map"))
	if err != nil {
		return maps, fmt.Errorf("list maps in %s: %w", dir, err)
	}
	if len(paths) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil {
			return maps, fmt.Errorf("map folder %s: %w", dir, statErr)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		info := mapInfo{Key: filepath.Base(p)}
		info.Grid, info.Err = world.LoadMap(p)
		if info.Err == nil {
			info.Closed = info.Grid.CheckClosed()
		}
		maps = append(maps, info)
	}
	return maps, nil
}

func (m mapInfo) infoLines() []string {
	if m.Grid == nil {
		return nil
	}
	walls, doors := 0, 0
	for x := 0; x < m.Grid.Width(); x++ {
		for y := 0; y < m.Grid.Height(); y++ {
			code, _ := m.Grid.At(x, y)
			switch {
			case code.IsWall():
				walls++
			case code.IsDoor():
				doors++
			}
		}
	}
	closed := "yes"
	if m.Closed != nil {
		closed = "no"
	}
	return []string{
		fmt.Sprintf("Tiles: %dx%d", m.Grid.Width(), m.Grid.Height()),
		fmt.Sprintf("Walls: %d", walls),
		fmt.Sprintf("Doors: %d", doors),
		fmt.Sprintf("Sprites: %d", len(m.Grid.Sprites())),
		fmt.Sprintf("Closed: %s", closed),
	}
}

type tilePalette struct {
	floor   color.RGBA
	walls   []color.RGBA
	sprites []color.RGBA
}

var (
	obstacleColor = color.RGBA{50, 50, 60, 255}
	doorColor     = color.RGBA{160, 110, 50, 255}
)

func newTilePalette(cfg *config.Config) tilePalette {
	return tilePalette{
		floor:   cfg.GetFloorColor(),
		walls:   cfg.GetWallPalette(),
		sprites: cfg.GetSpritePalette(),
	}
}

// tileColor is the fill for one cell. Sprite cells show the floor; their
// marker is drawn on top.
func (p tilePalette) tileColor(code world.TileCode) color.RGBA {
	switch {
	case code.IsWall():
		return pickColor(p.walls, code.WallTextureIndex(), obstacleColor)
	case code.IsDoor():
		return doorColor
	case code.IsEmpty(), code.IsSprite():
		return p.floor
	default:
		return obstacleColor
	}
}

func (p tilePalette) spriteColor(code world.TileCode) color.RGBA {
	return pickColor(p.sprites, code.SpriteTextureIndex(), color.RGBA{255, 255, 255, 255})
}

func pickColor(colors []color.RGBA, i int, fallback color.RGBA) color.RGBA {
	if i < 0 || i >= len(colors) {
		return fallback
	}
	c := colors[i]
	// Black walls would vanish against the panel.
	if c.R == 0 && c.G == 0 && c.B == 0 {
		return obstacleColor
	}
	return c
}

// gridLayout maps grid cells into a screen rectangle. Row 0 on screen is the
// grid's top row, the highest y.
type gridLayout struct {
	originX, originY int
	tileSize         int
	gridH            int
}

func fitGrid(x, y, w, h, gridW, gridH int) gridLayout {
	tileSize := w / gridW
	if alt := h / gridH; alt < tileSize {
		tileSize = alt
	}
	if tileSize < 2 {
		tileSize = 2
	}
	return gridLayout{
		originX:  x + (w-gridW*tileSize)/2,
		originY:  y + (h-gridH*tileSize)/2,
		tileSize: tileSize,
		gridH:    gridH,
	}
}

// cellOrigin returns the top-left screen pixel of cell (tx, ty).
func (l gridLayout) cellOrigin(tx, ty int) (int, int) {
	return l.originX + tx*l.tileSize, l.originY + (l.gridH-1-ty)*l.tileSize
}

// toScreen converts a world position in cells to screen pixels.
func (l gridLayout) toScreen(p geom.Vec2) (int, int) {
	sx := float64(l.originX) + p.X*float64(l.tileSize)
	sy := float64(l.originY) + (float64(l.gridH)-p.Y)*float64(l.tileSize)
	return int(math.Round(sx)), int(math.Round(sy))
}

func buildLegendLines(p tilePalette) []string {
	lines := []string{
		"Tiles (code -> meaning)",
		"-----------------------",
		"0 -> empty",
	}
	for i := range p.walls {
		c := p.walls[i]
		lines = append(lines, fmt.Sprintf("%d -> wall, rgb(%d,%d,%d)", i+1, c.R, c.G, c.B))
	}
	lines = append(lines, fmt.Sprintf("%d -> door", int(world.TileDoor)))
	for i := range p.sprites {
		c := p.sprites[i]
		lines = append(lines, fmt.Sprintf("%d -> sprite, rgb(%d,%d,%d)", int(world.TileSpriteMin)+i, c.R, c.G, c.B))
	}

	lines = append(lines, "", "Notes", "-----")
	lines = append(lines, strings.Split("+y points up the screen\nsprites block movement\ndoors sit mid-cell", "\n")...)
	return lines
}

func cycleIndex(i, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

func clampScroll(scroll, lines int) int {
	tabHeight := 24
	padding := 12
	sidebarHeight := windowHeight - padding*2
	contentHeight := sidebarHeight - tabHeight - padding
	if contentHeight < legendLineHeight {
		contentHeight = legendLineHeight
	}
	maxScroll := lines*legendLineHeight - contentHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll < 0 {
		return 0
	}
	if scroll > maxScroll {
		return maxScroll
	}
	return scroll
}
