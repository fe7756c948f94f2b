package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"rayder/internal/config"
	"rayder/internal/geom"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
)

type viewer struct {
	maps         []mapInfo
	mapIndex     int
	legendLines  []string
	legendScroll int
	sidebarTab   int
	palette      tilePalette
	start        geom.Vec2
	facing       geom.Vec2
	lastErr      string
}

const (
	tabInfo = iota
	tabLegend
)

func main() {
	ensureRuntimeCWD()

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	mapDir := flag.String("maps", "assets/maps", "folder of .map files")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Warning: %v, using defaults", err)
		cfg = config.Default()
	}

	maps, err := loadMaps(*mapDir)
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	palette := newTilePalette(cfg)
	v := &viewer{
		maps:        maps,
		legendLines: buildLegendLines(palette),
		sidebarTab:  tabInfo,
		palette:     palette,
		start:       cfg.GetStartPosition(),
		facing:      cfg.GetStartDirection(),
	}
	if len(maps) == 0 {
		v.lastErr = "no maps loaded"
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("rayder map viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if v.sidebarTab == tabInfo {
			v.sidebarTab = tabLegend
		} else {
			v.sidebarTab = tabInfo
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		v.sidebarTab = tabInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		v.sidebarTab = tabLegend
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.mapIndex = cycleIndex(v.mapIndex, 1, len(v.maps))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.mapIndex = cycleIndex(v.mapIndex, -1, len(v.maps))
	}

	if v.sidebarTab == tabLegend {
		_, wheelY := ebiten.Wheel()
		if wheelY != 0 {
			v.legendScroll -= int(wheelY * 14)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
			v.legendScroll += 14
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
			v.legendScroll -= 14
		}
		v.legendScroll = clampScroll(v.legendScroll, len(v.legendLines))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.maps) == 0 {
		ebitenutil.DebugPrintAt(screen, v.lastErr, 16, 16)
		return
	}

	m := v.maps[v.mapIndex]
	if m.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("map %s failed to load: %v", m.Key, m.Err), 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	mapAreaX := padding
	mapAreaY := padding
	sidebarX := mapAreaX + mapAreaW + padding
	sidebarY := padding

	v.drawMapPanel(screen, m, mapAreaX, mapAreaY, mapAreaW, mapAreaH)
	drawSidebar(screen, m, sidebarX, sidebarY, sidebarWidth, mapAreaH, v.sidebarTab, v.legendLines, v.legendScroll)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) drawMapPanel(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	grid := m.Grid
	lay := fitGrid(x, y, w, h, grid.Width(), grid.Height())

	for ty := 0; ty < grid.Height(); ty++ {
		for tx := 0; tx < grid.Width(); tx++ {
			code, _ := grid.At(tx, ty)
			sx, sy := lay.cellOrigin(tx, ty)
			vector.DrawFilledRect(screen, float32(sx), float32(sy), float32(lay.tileSize), float32(lay.tileSize), v.palette.tileColor(code), false)
		}
	}

	for _, s := range grid.Sprites() {
		drawTileMarkerCircle(screen, lay, s.X, s.Y, v.palette.spriteColor(s.Tile), false)
	}
	v.drawStart(screen, lay)
	drawMapHeader(screen, m, x, y)
}

// drawStart marks the configured start position and facing.
func (v *viewer) drawStart(screen *ebiten.Image, lay gridLayout) {
	cx, cy := lay.toScreen(v.start)
	tip := v.start.Add(v.facing.Scale(0.8))
	tx, ty := lay.toScreen(tip)
	radius := float32(lay.tileSize) * 0.25
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), radius, color.RGBA{50, 200, 255, 255}, true)
	vector.StrokeLine(screen, float32(cx), float32(cy), float32(tx), float32(ty), 2, color.RGBA{255, 255, 255, 255}, true)
}

func drawMapHeader(screen *ebiten.Image, m mapInfo, x, y int) {
	ebitenutil.DebugPrintAt(screen, m.Key, x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, Esc to quit", x+12, y+24)
}

func drawSidebar(screen *ebiten.Image, m mapInfo, x, y, w, h int, tab int, legendLines []string, scroll int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	tabHeight := 24
	drawSidebarTabs(screen, x, y, w, tabHeight, tab)
	row := y + tabHeight + 12

	if tab == tabLegend {
		drawLegendList(screen, x, row, h-(row-y)-12, legendLines, scroll)
		return
	}

	for _, line := range m.infoLines() {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}

	row += 8
	ebitenutil.DebugPrintAt(screen, "Markers:", x+12, row)
	row += 16
	ebitenutil.DebugPrintAt(screen, "Cyan: start  Line: facing", x+12, row)
	row += 16
	ebitenutil.DebugPrintAt(screen, "Circles: sprites", x+12, row)
}

func drawSidebarTabs(screen *ebiten.Image, x, y, w, h int, active int) {
	tabW := w / 2
	infoColor := color.RGBA{40, 40, 55, 255}
	legendColor := color.RGBA{40, 40, 55, 255}
	if active == tabInfo {
		infoColor = color.RGBA{70, 70, 95, 255}
	} else {
		legendColor = color.RGBA{70, 70, 95, 255}
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, "Info (1)", x+10, y+6)
	ebitenutil.DebugPrintAt(screen, "Legend (2)", x+tabW+10, y+6)
}

func drawLegendList(screen *ebiten.Image, x, y, h int, lines []string, scroll int) {
	startY := y - scroll
	for i, line := range lines {
		drawY := startY + i*legendLineHeight
		if drawY < y-legendLineHeight {
			continue
		}
		if drawY > y+h-legendLineHeight {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, x+10, drawY)
	}
}

func drawTileMarkerCircle(screen *ebiten.Image, lay gridLayout, tx, ty int, clr color.RGBA, stroke bool) {
	if lay.tileSize < 2 {
		return
	}
	sx, sy := lay.cellOrigin(tx, ty)
	centerX := float32(sx + lay.tileSize/2)
	centerY := float32(sy + lay.tileSize/2)
	radius := float32(lay.tileSize) * 0.35
	vector.DrawFilledCircle(screen, centerX, centerY, radius, clr, true)
	if stroke {
		vector.StrokeCircle(screen, centerX, centerY, radius, 1, color.RGBA{255, 255, 255, 255}, true)
	}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(exe)
	_ = os.Chdir(execDir)
}
