package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar renders a single-file upload as a terminal progress bar. The smoothed
// speed from the meter is shown in the description rather than the bar's own
// instantaneous rate.
type Bar struct {
	bar  *progressbar.ProgressBar
	name string
}

// NewBar creates a progress bar for one file.
func NewBar(total int64, name string) *Bar {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(describe(name, 0)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Bar{bar: bar, name: name}
}

// Update moves the bar to the reported position and refreshes the speed
// readout.
func (b *Bar) Update(rep Report) {
	_ = b.bar.Set64(rep.Loaded)
	b.bar.Describe(describe(b.name, rep.BytesPerSec))
}

// Finish completes the bar.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
}

func describe(name string, bytesPerSec float64) string {
	return fmt.Sprintf("%s [%s]", name, FormatSpeed(bytesPerSec))
}
