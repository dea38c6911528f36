package dashboard

import (
	"math"

	"github.com/netdash/netdash/internal/api"
)

const bytesPerGB = 1024 * 1024 * 1024

// MetricPoint is one chart-ready point derived 1:1 from a raw sample.
// Memory values are GB at 2 decimals; network values are KB at 2 decimals,
// displayed as KB/s. Points are immutable: a host or range change discards
// the series and rebuilds it from a fresh fetch.
type MetricPoint struct {
	TimeLabel     string
	CPU           float64
	MemoryGB      float64
	MemoryTotalGB *float64
	NetworkInKB   float64
	NetworkOutKB  float64
}

// round2 fixes a value to 2 decimal places, matching the display precision
// the backend's consumers expect.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BytesToGB converts bytes to gigabytes at binary (1024³) scale, 2 decimals.
func BytesToGB(bytes float64) float64 {
	return round2(bytes / bytesPerGB)
}

// BytesToKB converts bytes to kilobytes, 2 decimals. Network counters are
// bytes per sampling interval; the division by the actual interval length is
// deliberately not performed, so the "KB/s" unit is nominal. Changing that
// would change every displayed value and needs backend sign-off.
func BytesToKB(bytes float64) float64 {
	return round2(bytes / 1024)
}

// BuildSeries transforms raw samples into chart-ready points. Samples arrive
// ordered by timestamp ascending and are never re-sorted here. A nil
// memory_total propagates as nil, never as zero.
func BuildSeries(samples []api.MetricSample, r TimeRange) []MetricPoint {
	points := make([]MetricPoint, 0, len(samples))
	for _, s := range samples {
		p := MetricPoint{
			TimeLabel:    r.FormatLabel(s.Timestamp),
			CPU:          s.CPUUsage,
			MemoryGB:     BytesToGB(s.MemoryUsage),
			NetworkInKB:  BytesToKB(s.NetworkIn),
			NetworkOutKB: BytesToKB(s.NetworkOut),
		}
		if s.MemoryTotal != nil {
			total := BytesToGB(*s.MemoryTotal)
			p.MemoryTotalGB = &total
		}
		points = append(points, p)
	}
	return points
}

// Trend returns latest minus previous for the metric selected by get, or 0
// when fewer than two points exist.
func Trend(points []MetricPoint, get func(MetricPoint) float64) float64 {
	if len(points) < 2 {
		return 0
	}
	return get(points[len(points)-1]) - get(points[len(points)-2])
}

// Latest returns the metric value of the last point and true, or 0 and
// false for an empty series.
func Latest(points []MetricPoint, get func(MetricPoint) float64) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	return get(points[len(points)-1]), true
}

// MemoryCap returns the memory-chart vertical scale: the first non-nil
// total in the series, else the configured fallback capacity.
func MemoryCap(points []MetricPoint, fallbackGB float64) float64 {
	for _, p := range points {
		if p.MemoryTotalGB != nil {
			return *p.MemoryTotalGB
		}
	}
	return fallbackGB
}

// Metric selectors for Trend/Latest.
var (
	SelectCPU        = func(p MetricPoint) float64 { return p.CPU }
	SelectMemoryGB   = func(p MetricPoint) float64 { return p.MemoryGB }
	SelectNetworkIn  = func(p MetricPoint) float64 { return p.NetworkInKB }
	SelectNetworkOut = func(p MetricPoint) float64 { return p.NetworkOutKB }
)
