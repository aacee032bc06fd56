// Package progress provides upload progress tracking with smoothed
// throughput estimation, and terminal progress bar rendering for both
// single-file and directory uploads.
package progress

import (
	"fmt"
	"math"
	"time"
)

const (
	// minSampleGap is the minimum spacing between throughput samples.
	// Progress events can arrive far more often than this; sampling them
	// all makes the speed readout jitter badly.
	minSampleGap = 150 * time.Millisecond

	// smoothing is the exponential-moving-average factor applied to each
	// accepted instantaneous sample.
	smoothing = 0.2
)

// Report is a snapshot of upload progress delivered on every event.
type Report struct {
	Loaded      int64
	Total       int64
	Percent     int
	BytesPerSec float64
}

// Func receives progress reports during an upload.
type Func func(Report)

// Meter turns a stream of byte-count observations into percent-complete and
// a smoothed bytes-per-second estimate. It is not safe for concurrent use;
// each upload owns its own Meter.
type Meter struct {
	fileSize  int64
	lastTime  time.Time
	lastBytes int64
	rate      float64
	seeded    bool
	started   bool
}

// NewMeter creates a meter for a file of the given size. The size is the
// fallback total for observations that do not know the body length.
func NewMeter(fileSize int64) *Meter {
	return &Meter{fileSize: fileSize}
}

// Observe records a progress event at the given instant and returns the
// current report. A total of zero or less falls back to the file size.
//
// The first observation only establishes the sampling baseline; the first
// instantaneous sample seeds the estimate directly, and each later sample
// is folded in as new = 0.2*instant + 0.8*previous. Samples closer than
// 150ms to the last accepted one, or with a negative byte delta, are
// skipped (their bytes roll into the next accepted sample).
func (m *Meter) Observe(loaded, total int64, now time.Time) Report {
	if total <= 0 {
		total = m.fileSize
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(loaded) / float64(total) * 100))
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}
	}

	if !m.started {
		m.started = true
		m.lastTime = now
		m.lastBytes = loaded
	} else {
		elapsed := now.Sub(m.lastTime)
		delta := loaded - m.lastBytes
		if elapsed >= minSampleGap && delta >= 0 {
			instant := float64(delta) / elapsed.Seconds()
			if !m.seeded {
				m.rate = instant
				m.seeded = true
			} else {
				m.rate = smoothing*instant + (1-smoothing)*m.rate
			}
			m.lastTime = now
			m.lastBytes = loaded
		}
	}

	return Report{
		Loaded:      loaded,
		Total:       total,
		Percent:     percent,
		BytesPerSec: m.rate,
	}
}

// FormatSpeed renders a bytes-per-second value as a human unit, dividing by
// 1024 until the value drops below 1024 or GB/s is reached. Whole numbers at
// B/s, one decimal above that. Non-finite or non-positive values render as
// "--" since no meaningful estimate exists yet.
func FormatSpeed(bytesPerSec float64) string {
	if math.IsNaN(bytesPerSec) || math.IsInf(bytesPerSec, 0) || bytesPerSec <= 0 {
		return "--"
	}

	units := []string{"B/s", "KB/s", "MB/s", "GB/s"}
	value := bytesPerSec
	idx := 0
	for value >= 1024 && idx < len(units)-1 {
		value /= 1024
		idx++
	}

	if idx == 0 {
		return fmt.Sprintf("%.0f %s", value, units[idx])
	}
	return fmt.Sprintf("%.1f %s", value, units[idx])
}
