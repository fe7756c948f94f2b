package monitoring

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Pass names accepted by ProfiledFunction.
const (
	PassFloor   = "floor"
	PassSky     = "sky"
	PassWalls   = "walls"
	PassDoors   = "doors"
	PassSprites = "sprites"
	PassOverlay = "overlay"
)

// FrameMonitor tracks frame and render pass timings. Counters are atomics so
// the monitor can be read from the perf logger while the game loop writes.
type FrameMonitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame

	floorTime   atomic.Uint64
	skyTime     atomic.Uint64
	wallTime    atomic.Uint64
	doorTime    atomic.Uint64
	spriteTime  atomic.Uint64
	overlayTime atomic.Uint64

	wallColumns   atomic.Uint64
	doorColumns   atomic.Uint64
	spritesDrawn  atomic.Uint64
	spritesCulled atomic.Uint64
	missedColumns atomic.Uint64
	cacheHits     atomic.Uint64
	cacheMisses   atomic.Uint64
	activeWorkers atomic.Int32

	mutex          deadlock.RWMutex
	totalFrameTime time.Duration
	avgFrameTime   float64
	startTime      time.Time

	enableDetailed atomic.Bool
	lowFPS         float64
}

// NewFrameMonitor creates a monitor. A frame rate below lowFPS raises an
// alert in CheckPerformanceAlerts.
func NewFrameMonitor(lowFPS float64) *FrameMonitor {
	if lowFPS <= 0 {
		lowFPS = 30
	}
	pm := &FrameMonitor{
		startTime: time.Now(),
		lowFPS:    lowFPS,
	}
	pm.enableDetailed.Store(true)
	return pm
}

// FrameTimer measures one frame.
type FrameTimer struct {
	monitor   *FrameMonitor
	startTime time.Time
}

func (pm *FrameMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame records the frame time and updates the running average.
func (ft *FrameTimer) EndFrame() {
	frameTime := time.Since(ft.startTime)
	ft.monitor.frameTime.Store(uint64(frameTime.Nanoseconds()))
	count := ft.monitor.frameCount.Add(1)

	if ft.monitor.enableDetailed.Load() {
		ft.monitor.mutex.Lock()
		ft.monitor.totalFrameTime += frameTime
		ft.monitor.avgFrameTime = float64(ft.monitor.totalFrameTime.Nanoseconds()) / float64(count)
		ft.monitor.mutex.Unlock()
	}
}

// ProfiledFunction runs fn and stores its duration under the given pass name.
// Unknown names are timed but not stored.
func (pm *FrameMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)
	pm.RecordPass(name, duration)
	return duration
}

func (pm *FrameMonitor) RecordPass(name string, d time.Duration) {
	ns := uint64(d.Nanoseconds())
	switch name {
	case PassFloor:
		pm.floorTime.Store(ns)
	case PassSky:
		pm.skyTime.Store(ns)
	case PassWalls:
		pm.wallTime.Store(ns)
	case PassDoors:
		pm.doorTime.Store(ns)
	case PassSprites:
		pm.spriteTime.Store(ns)
	case PassOverlay:
		pm.overlayTime.Store(ns)
	}
}

// FrameCounts is what the renderer reports after each frame.
type FrameCounts struct {
	WallColumns   int
	DoorColumns   int
	MissedColumns int
	SpritesDrawn  int
	SpritesCulled int
	CacheHits     int
	CacheMisses   int
}

func (pm *FrameMonitor) RecordCounts(c FrameCounts) {
	pm.wallColumns.Store(uint64(c.WallColumns))
	pm.doorColumns.Store(uint64(c.DoorColumns))
	pm.missedColumns.Store(uint64(c.MissedColumns))
	pm.spritesDrawn.Store(uint64(c.SpritesDrawn))
	pm.spritesCulled.Store(uint64(c.SpritesCulled))
	pm.cacheHits.Add(uint64(c.CacheHits))
	pm.cacheMisses.Add(uint64(c.CacheMisses))
}

// SetActiveWorkers records the size of the column worker pool.
func (pm *FrameMonitor) SetActiveWorkers(n int) {
	pm.activeWorkers.Store(int32(n))
}

func fps(frameNanos uint64) float64 {
	if frameNanos == 0 {
		return 0
	}
	return float64(time.Second) / float64(frameNanos)
}

func ms(ns uint64) float64 {
	return float64(ns) / float64(time.Millisecond)
}

// GetDetailedStats returns every counter as a flat map, suitable for
// structured log fields.
func (pm *FrameMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	avgFrame := pm.avgFrameTime
	uptime := time.Since(pm.startTime)
	pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"uptime_seconds":    uptime.Seconds(),
		"frame_count":       pm.frameCount.Load(),
		"avg_frame_time_ms": avgFrame / float64(time.Millisecond),
		"current_fps":       fps(pm.frameTime.Load()),
		"floor_ms":          ms(pm.floorTime.Load()),
		"sky_ms":            ms(pm.skyTime.Load()),
		"walls_ms":          ms(pm.wallTime.Load()),
		"doors_ms":          ms(pm.doorTime.Load()),
		"sprites_ms":        ms(pm.spriteTime.Load()),
		"overlay_ms":        ms(pm.overlayTime.Load()),
		"wall_columns":      pm.wallColumns.Load(),
		"door_columns":      pm.doorColumns.Load(),
		"missed_columns":    pm.missedColumns.Load(),
		"sprites_drawn":     pm.spritesDrawn.Load(),
		"sprites_culled":    pm.spritesCulled.Load(),
		"slice_cache_hits":  pm.cacheHits.Load(),
		"slice_cache_miss":  pm.cacheMisses.Load(),
		"active_workers":    pm.activeWorkers.Load(),
		"memory_alloc_mb":   memStats.Alloc / 1024 / 1024,
		"gc_cycles":         memStats.NumGC,
		"goroutines":        runtime.NumGoroutine(),
	}
}

// PerformanceAlert is a threshold crossed during the last frame.
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

func (pm *FrameMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		if f := fps(frameTime); f < pm.lowFPS {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "frame rate below threshold",
				Value:     f,
				Threshold: pm.lowFPS,
				Timestamp: now,
			})
		}
	}

	// A ray that never found a wall means the map is not closed.
	if missed := pm.missedColumns.Load(); missed > 0 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "missed_columns",
			Message:   "wall rays left the map",
			Value:     float64(missed),
			Threshold: 0,
			Timestamp: now,
		})
	}

	return alerts
}

// EnableDetailedLogging turns the running average frame time on or off.
func (pm *FrameMonitor) EnableDetailedLogging(enabled bool) {
	pm.enableDetailed.Store(enabled)
}

// Reset zeroes every counter and restarts the uptime clock.
func (pm *FrameMonitor) Reset() {
	for _, c := range []*atomic.Uint64{
		&pm.frameCount, &pm.frameTime,
		&pm.floorTime, &pm.skyTime, &pm.wallTime, &pm.doorTime, &pm.spriteTime, &pm.overlayTime,
		&pm.wallColumns, &pm.doorColumns, &pm.spritesDrawn, &pm.spritesCulled, &pm.missedColumns,
		&pm.cacheHits, &pm.cacheMisses,
	} {
		c.Store(0)
	}
	pm.activeWorkers.Store(0)

	pm.mutex.Lock()
	pm.totalFrameTime = 0
	pm.avgFrameTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
