package telemetry

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const meterName = "go.perf_stats"

type PerfStats struct {
	CpuPercent  float64
	AllocatedMb int64
	LiveObjects int64
	Goroutines  int64
}

// SamplePerfStats takes a single sample of process statistics, the cpu
// percentage is measured since the previous call (or process start).
func SamplePerfStats() PerfStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		Goroutines:  int64(runtime.NumGoroutine()),
	}

	cpuUsage, err := cpu.Percent(0, false)
	if err == nil && len(cpuUsage) > 0 {
		stats.CpuPercent = cpuUsage[0]
	} else {
		slog.Debug("failed to read cpu usage", "err", err)
	}
	return stats
}

// RecordPerfStats samples process statistics once and records them as
// gauges on the global meter provider.
func RecordPerfStats(ctx context.Context) PerfStats {
	meter := otel.Meter(meterName)
	stats := SamplePerfStats()

	record := func(err error, fn func()) {
		if err != nil {
			slog.DebugContext(ctx, "failed to create gauge", "err", err)
			return
		}
		fn()
	}

	cpuGauge, err := meter.Float64Gauge("cpu_usage")
	record(err, func() { cpuGauge.Record(ctx, stats.CpuPercent) })
	memoryGauge, err := meter.Int64Gauge("allocated_mb")
	record(err, func() { memoryGauge.Record(ctx, stats.AllocatedMb) })
	liveObjectsGauge, err := meter.Int64Gauge("live_objects")
	record(err, func() { liveObjectsGauge.Record(ctx, stats.LiveObjects) })
	goroutineGauge, err := meter.Int64Gauge("goroutine_count")
	record(err, func() { goroutineGauge.Record(ctx, stats.Goroutines) })

	slog.DebugContext(
		ctx, "perf stats",
		"cpu_percent", stats.CpuPercent,
		"allocated_mb", stats.AllocatedMb,
		"live_objects", stats.LiveObjects,
		"goroutines", stats.Goroutines,
	)
	return stats
}
