// Package game runs the renderer inside an Ebiten window: it turns key state
// into camera commands, advances the pose once per tick and presents the
// rendered framebuffer.
package game

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"rayder/internal/camera"
	"rayder/internal/config"
	"rayder/internal/game/keytracker"
	"rayder/internal/render"
	"rayder/internal/threading/monitoring"
	"rayder/internal/world"
)

// Game implements ebiten.Game.
type Game struct {
	grid     *world.Grid
	renderer *render.FrameRenderer
	monitor  *monitoring.FrameMonitor
	log      logrus.FieldLogger

	pose   camera.Pose
	speeds camera.Speeds
	width  int
	height int

	frame       *image.RGBA
	overlay     *Overlay
	showOverlay bool
	overlayKey  keytracker.KeyStateTracker
	perf        *perfLogger

	// poll reads the commands for the current tick. Tests replace it.
	poll func() camera.Command
}

// NewGame wires a renderer to the starting pose from cfg. The debug overlay
// starts visible when debug.overlay is set and F3 toggles it.
func NewGame(cfg *config.Config, grid *world.Grid, renderer *render.FrameRenderer, monitor *monitoring.FrameMonitor, log logrus.FieldLogger) (*Game, error) {
	g := &Game{
		grid:     grid,
		renderer: renderer,
		monitor:  monitor,
		log:      log,
		pose:     camera.NewPose(cfg.GetStartPosition(), cfg.GetStartDirection(), cfg.GetCameraPlane()),
		speeds: camera.Speeds{
			Move:   cfg.GetMoveSpeed(),
			Rotate: cfg.GetRotSpeed(),
		},
		width:       cfg.GetScreenWidth(),
		height:      cfg.GetScreenHeight(),
		frame:       image.NewRGBA(image.Rect(0, 0, cfg.GetScreenWidth(), cfg.GetScreenHeight())),
		showOverlay: cfg.Debug.Overlay,
		poll:        PollCommands,
	}

	overlay, err := NewOverlay()
	if err != nil {
		return nil, err
	}
	g.overlay = overlay
	if cfg.Debug.PerfLog {
		g.perf = newPerfLogger(log, monitor, time.Duration(cfg.Debug.PerfLogSeconds)*time.Second)
	}
	return g, nil
}

// Pose returns the current camera pose.
func (g *Game) Pose() camera.Pose {
	return g.pose
}

// Update advances the simulation by one tick.
func (g *Game) Update() error {
	if err := g.step(g.poll()); err != nil {
		return err
	}
	if g.overlayKey.IsKeyJustPressed(ebiten.KeyF3) {
		g.showOverlay = !g.showOverlay
	}
	if g.perf != nil {
		g.perf.maybeLog(time.Now(), ebiten.ActualTPS())
	}
	return nil
}

func (g *Game) step(cmds camera.Command) error {
	if cmds.Has(camera.Quit) {
		g.log.Info("quit requested")
		return ebiten.Termination
	}
	g.pose = g.pose.Apply(cmds, g.grid, g.speeds)
	return nil
}

// Draw renders the frame, presents it and draws the overlay on top.
func (g *Game) Draw(screen *ebiten.Image) {
	frameTimer := g.monitor.StartFrame()
	defer frameTimer.EndFrame()

	g.renderFrame()
	screen.WritePixels(g.frame.Pix)

	if g.showOverlay {
		g.monitor.ProfiledFunction(monitoring.PassOverlay, func() {
			g.overlay.Draw(screen, overlayText(ebiten.ActualFPS(), g.pose))
		})
	}
}

// renderFrame fills the framebuffer and records the pass timings.
func (g *Game) renderFrame() render.FrameStats {
	stats := g.renderer.Render(g.frame, g.pose)

	g.monitor.RecordPass(monitoring.PassFloor, stats.Floor)
	g.monitor.RecordPass(monitoring.PassSky, stats.Sky)
	g.monitor.RecordPass(monitoring.PassWalls, stats.Walls)
	g.monitor.RecordPass(monitoring.PassDoors, stats.Doors)
	g.monitor.RecordPass(monitoring.PassSprites, stats.Sprites)
	g.monitor.RecordCounts(monitoring.FrameCounts{
		WallColumns:   stats.WallColumns,
		DoorColumns:   stats.DoorColumns,
		MissedColumns: stats.MissedColumns,
		SpritesDrawn:  stats.SpritesDrawn,
		SpritesCulled: stats.SpritesCulled,
		CacheHits:     stats.CacheHits,
		CacheMisses:   stats.CacheMisses,
	})
	return stats
}

// Layout keeps the logical screen at the configured size; Ebiten scales it
// to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
