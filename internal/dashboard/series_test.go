package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdash/netdash/internal/api"
)

func sample(ts time.Time, cpu, memBytes float64, total *float64, in, out float64) api.MetricSample {
	return api.MetricSample{
		Timestamp:   ts,
		CPUUsage:    cpu,
		MemoryUsage: memBytes,
		MemoryTotal: total,
		NetworkIn:   in,
		NetworkOut:  out,
	}
}

func TestBytesToGB(t *testing.T) {
	tests := []struct {
		name     string
		bytes    float64
		expected float64
	}{
		{"zero", 0, 0},
		{"one GB", 1024 * 1024 * 1024, 1},
		{"four GB", 4 * 1024 * 1024 * 1024, 4},
		{"rounds to 2 decimals", 1.5*1024*1024*1024 + 7, 1.5},
		{"binary not decimal scale", 1e9, 0.93},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BytesToGB(tt.bytes), 0.005)
		})
	}
}

func TestBytesToGBInverse(t *testing.T) {
	// GB→bytes→GB round-trips within 2-decimal rounding tolerance.
	for _, gb := range []float64{0.25, 1, 7.43, 15.99, 64} {
		bytes := gb * 1024 * 1024 * 1024
		assert.InDelta(t, gb, BytesToGB(bytes), 0.005)
	}
}

func TestBytesToKB(t *testing.T) {
	assert.Equal(t, 2.0, BytesToKB(2048))
	assert.Equal(t, 0.5, BytesToKB(512))
	assert.Equal(t, 1.46, BytesToKB(1500))
}

func TestBuildSeriesLabels(t *testing.T) {
	ts := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	samples := []api.MetricSample{sample(ts, 50, 0, nil, 0, 0)}

	assert.Equal(t, "14:30", BuildSeries(samples, Range24h)[0].TimeLabel)
	assert.Equal(t, "Jun 15", BuildSeries(samples, Range7d)[0].TimeLabel)
	assert.Equal(t, "Jun 15", BuildSeries(samples, Range30d)[0].TimeLabel)
}

func TestBuildSeriesNullMemoryTotalPropagates(t *testing.T) {
	ts := time.Now()
	total := 8.0 * 1024 * 1024 * 1024
	samples := []api.MetricSample{
		sample(ts, 10, 4*1024*1024*1024, nil, 0, 0),
		sample(ts.Add(time.Minute), 20, 4*1024*1024*1024, &total, 0, 0),
	}

	points := BuildSeries(samples, Range24h)
	require.Len(t, points, 2)

	// nil stays nil, never coerced to zero
	assert.Nil(t, points[0].MemoryTotalGB)
	require.NotNil(t, points[1].MemoryTotalGB)
	assert.Equal(t, 8.0, *points[1].MemoryTotalGB)
}

func TestBuildSeriesConversions(t *testing.T) {
	ts := time.Now()
	samples := []api.MetricSample{
		sample(ts, 42.5, 6*1024*1024*1024, nil, 4096, 2048),
	}

	points := BuildSeries(samples, Range24h)
	require.Len(t, points, 1)
	assert.Equal(t, 42.5, points[0].CPU)
	assert.Equal(t, 6.0, points[0].MemoryGB)
	assert.Equal(t, 4.0, points[0].NetworkInKB)
	assert.Equal(t, 2.0, points[0].NetworkOutKB)
}

func TestBuildSeriesPreservesOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var samples []api.MetricSample
	for i := 0; i < 4; i++ {
		samples = append(samples, sample(base.Add(time.Duration(i)*time.Hour), float64(i), 0, nil, 0, 0))
	}

	points := BuildSeries(samples, Range24h)
	require.Len(t, points, 4)
	for i, p := range points {
		assert.Equal(t, float64(i), p.CPU)
	}
}

func TestBuildSeriesEmpty(t *testing.T) {
	points := BuildSeries(nil, Range24h)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		cpus     []float64
		expected float64
	}{
		{"no points", nil, 0},
		{"single point", []float64{50}, 0},
		{"rising", []float64{10, 30, 45}, 15},
		{"falling", []float64{80, 60}, -20},
		{"flat", []float64{40, 40}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var points []MetricPoint
			for _, c := range tt.cpus {
				points = append(points, MetricPoint{CPU: c})
			}
			assert.Equal(t, tt.expected, Trend(points, SelectCPU))
		})
	}
}

func TestLatest(t *testing.T) {
	_, ok := Latest(nil, SelectCPU)
	assert.False(t, ok)

	v, ok := Latest([]MetricPoint{{CPU: 10}, {CPU: 99}}, SelectCPU)
	assert.True(t, ok)
	assert.Equal(t, 99.0, v)
}

func TestMemoryCap(t *testing.T) {
	eight, sixteen := 8.0, 16.0

	tests := []struct {
		name     string
		points   []MetricPoint
		expected float64
	}{
		{"empty series uses fallback", nil, 16},
		{"all nil totals use fallback", []MetricPoint{{}, {}}, 16},
		{"first non-nil total wins", []MetricPoint{{}, {MemoryTotalGB: &eight}, {MemoryTotalGB: &sixteen}}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MemoryCap(tt.points, 16))
		})
	}
}
