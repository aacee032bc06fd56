package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterPercentBounds(t *testing.T) {
	m := NewMeter(1000)
	base := time.Unix(1700000000, 0)

	rep := m.Observe(0, 1000, base)
	assert.Equal(t, 0, rep.Percent)

	rep = m.Observe(500, 1000, base.Add(time.Second))
	assert.Equal(t, 50, rep.Percent)

	rep = m.Observe(1000, 1000, base.Add(2*time.Second))
	assert.Equal(t, 100, rep.Percent)

	// Overshoot (e.g. multipart framing counted on top) clamps at 100.
	rep = m.Observe(1100, 1000, base.Add(3*time.Second))
	assert.Equal(t, 100, rep.Percent)
}

func TestMeterPercentMonotonic(t *testing.T) {
	m := NewMeter(10000)
	base := time.Unix(1700000000, 0)

	prev := -1
	for loaded := int64(0); loaded <= 10000; loaded += 377 {
		rep := m.Observe(loaded, 10000, base)
		base = base.Add(50 * time.Millisecond)
		require.GreaterOrEqual(t, rep.Percent, prev)
		require.LessOrEqual(t, rep.Percent, 100)
		prev = rep.Percent
	}
}

func TestMeterUnknownTotalFallsBackToFileSize(t *testing.T) {
	m := NewMeter(2000)
	base := time.Unix(1700000000, 0)

	rep := m.Observe(1000, 0, base)
	assert.Equal(t, 50, rep.Percent)
	assert.Equal(t, int64(2000), rep.Total)
}

func TestMeterFirstSampleSeedsEstimate(t *testing.T) {
	m := NewMeter(1 << 20)
	base := time.Unix(1700000000, 0)

	// First observation only sets the baseline.
	rep := m.Observe(0, 1<<20, base)
	assert.Zero(t, rep.BytesPerSec)

	// 1000 bytes over 200ms = 5000 B/s, seeded directly.
	rep = m.Observe(1000, 1<<20, base.Add(200*time.Millisecond))
	assert.InDelta(t, 5000.0, rep.BytesPerSec, 1e-9)
}

func TestMeterSmoothingRecurrence(t *testing.T) {
	m := NewMeter(1 << 20)
	base := time.Unix(1700000000, 0)

	m.Observe(0, 1<<20, base)
	first := m.Observe(1000, 1<<20, base.Add(200*time.Millisecond))

	// Next sample: 4000 bytes over 500ms = 8000 B/s instantaneous.
	second := m.Observe(5000, 1<<20, base.Add(700*time.Millisecond))
	want := 0.2*8000.0 + 0.8*first.BytesPerSec
	assert.InDelta(t, want, second.BytesPerSec, 1e-9)

	// And again: 300 bytes over 150ms = 2000 B/s instantaneous.
	third := m.Observe(5300, 1<<20, base.Add(850*time.Millisecond))
	want = 0.2*2000.0 + 0.8*second.BytesPerSec
	assert.InDelta(t, want, third.BytesPerSec, 1e-9)
}

func TestMeterSkipsTooFrequentSamples(t *testing.T) {
	m := NewMeter(1 << 20)
	base := time.Unix(1700000000, 0)

	m.Observe(0, 1<<20, base)
	seeded := m.Observe(1000, 1<<20, base.Add(200*time.Millisecond))

	// 100ms later: under the sampling gap, estimate unchanged.
	rep := m.Observe(2000, 1<<20, base.Add(300*time.Millisecond))
	assert.Equal(t, seeded.BytesPerSec, rep.BytesPerSec)

	// The skipped bytes roll into the next accepted sample: 2000 bytes
	// over the full 300ms since the last accepted one.
	rep = m.Observe(3000, 1<<20, base.Add(500*time.Millisecond))
	want := 0.2*(2000.0/0.3) + 0.8*seeded.BytesPerSec
	assert.InDelta(t, want, rep.BytesPerSec, 1e-6)
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		name        string
		bytesPerSec float64
		want        string
	}{
		{"zero", 0, "--"},
		{"negative", -5, "--"},
		{"bytes", 512, "512 B/s"},
		{"kilobytes", 2048, "2.0 KB/s"},
		{"kilobytes fraction", 1536, "1.5 KB/s"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB/s"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB/s"},
		{"beyond gigabytes stays in GB", 5000 * 1024 * 1024 * 1024, "5000.0 GB/s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSpeed(tt.bytesPerSec))
		})
	}
}
