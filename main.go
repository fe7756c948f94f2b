package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"rayder/internal/assets"
	"rayder/internal/config"
	"rayder/internal/game"
	"rayder/internal/logger"
	"rayder/internal/render"
	"rayder/internal/threading/core"
	"rayder/internal/threading/monitoring"
	"rayder/internal/world"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	flag.Parse()

	// LOG_LEVEL and LOG_FORMAT may come from a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: .env not loaded: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	deadlock.Opts.Disable = !cfg.Debug.LockChecks
	lg := logger.New(cfg.Logging)

	grid, err := loadGrid(cfg.Assets.MapFile, lg)
	if err != nil {
		lg.WithError(err).Fatal("load map")
	}

	provider, err := assets.NewProvider(cfg, lg)
	if err != nil {
		lg.WithError(err).Fatal("load textures")
	}

	runner, stop := core.NewRunner(cfg.Render.Workers)
	defer stop()

	monitor := monitoring.NewFrameMonitor(float64(cfg.GetTargetFPS()) / 2)
	monitor.EnableDetailedLogging(cfg.Debug.PerfLog)
	if pool, ok := runner.(*core.WorkerPool); ok {
		monitor.SetActiveWorkers(pool.GetNumWorkers())
	} else {
		monitor.SetActiveWorkers(1)
	}

	renderer := render.NewFrameRenderer(grid, provider.Textures(), render.Options{
		ScreenWidth:  cfg.GetScreenWidth(),
		ScreenHeight: cfg.GetScreenHeight(),
		FOV:          cfg.GetFOV(),
		FloorColor:   cfg.GetFloorColor(),
		CeilingColor: cfg.GetCeilingColor(),
		DarkenAlpha:  cfg.GetDarkenAlpha(),
		MaxSteps:     cfg.Render.MaxSteps,
		SliceCache:   cfg.Render.SliceCache,
	}, runner)

	g, err := game.NewGame(cfg, grid, renderer, monitor, lg)
	if err != nil {
		lg.WithError(err).Fatal("create game")
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.GetTargetFPS())
	ebiten.SetWindowClosingHandled(true)

	lg.WithFields(logrus.Fields{
		"map":     cfg.Assets.MapFile,
		"width":   grid.Width(),
		"height":  grid.Height(),
		"sprites": len(grid.Sprites()),
		"tps":     cfg.GetTargetFPS(),
	}).Info("starting")

	if err := ebiten.RunGame(g); err != nil {
		lg.WithError(err).Fatal("run game")
	}
}

func loadGrid(path string, lg logrus.FieldLogger) (*world.Grid, error) {
	if path == "" {
		lg.Info("no map file configured, using the built-in level")
		return world.DefaultGrid(), nil
	}
	grid, err := world.LoadMap(path)
	if err != nil {
		return nil, err
	}
	if err := grid.CheckClosed(); err != nil {
		lg.WithError(err).Warn("map is not enclosed, rays may leave it")
	}
	return grid, nil
}
