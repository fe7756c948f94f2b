package game

import (
	"time"

	"github.com/sirupsen/logrus"

	"rayder/internal/threading/monitoring"
)

const defaultPerfLogInterval = 5 * time.Second

// perfLogger writes a monitor snapshot at most once per interval.
type perfLogger struct {
	log      logrus.FieldLogger
	monitor  *monitoring.FrameMonitor
	interval time.Duration
	last     time.Time
}

func newPerfLogger(log logrus.FieldLogger, monitor *monitoring.FrameMonitor, interval time.Duration) *perfLogger {
	if interval <= 0 {
		interval = defaultPerfLogInterval
	}
	return &perfLogger{log: log, monitor: monitor, interval: interval}
}

// maybeLog reports whether a snapshot was written. The first call only
// starts the clock.
func (p *perfLogger) maybeLog(now time.Time, tps float64) bool {
	if p.last.IsZero() {
		p.last = now
		return false
	}
	if now.Sub(p.last) < p.interval {
		return false
	}
	p.last = now
	p.logSnapshot(tps)
	return true
}

func (p *perfLogger) logSnapshot(tps float64) {
	stats := p.monitor.GetDetailedStats()
	fields := logrus.Fields(stats)
	fields["tps"] = tps

	busy := getPerfFloat(stats, "walls_ms") + getPerfFloat(stats, "doors_ms") +
		getPerfFloat(stats, "sprites_ms") + getPerfFloat(stats, "floor_ms") + getPerfFloat(stats, "sky_ms")
	fields["render_ms"] = busy
	fields["frame_budget_ms"] = frameBudgetMs(tps)

	p.log.WithFields(fields).Info("perf snapshot")

	for _, alert := range p.monitor.CheckPerformanceAlerts() {
		p.log.WithFields(logrus.Fields{
			"alert":     alert.Type,
			"value":     alert.Value,
			"threshold": alert.Threshold,
		}).Warn(alert.Message)
	}
}

func frameBudgetMs(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return 1000.0 / fps
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int32:
			return float64(v)
		case int64:
			return float64(v)
		case uint64:
			return float64(v)
		}
	}
	return 0
}
