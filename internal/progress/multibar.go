package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// MultiBar renders a directory upload as one progress bar per file. Files
// upload strictly one at a time, so bars are added sequentially; completed
// bars collapse into a summary line above the active one. Non-TTY output
// falls back to plain lines.
type MultiBar struct {
	progress   *mpb.Progress
	isTerminal bool
	totalFiles int
}

// FileBar is the bar for one file within a MultiBar.
type FileBar struct {
	ui     *MultiBar
	bar    *mpb.Bar
	index  int
	name   string
	folder string
	size   int64
	speed  atomic.Uint64 // float64 bits of the smoothed rate
	start  time.Time
}

// NewMultiBar creates the multi-file progress renderer.
func NewMultiBar(totalFiles int) *MultiBar {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &MultiBar{
		progress:   p,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// Add creates the bar for the next file. index is 1-based.
func (u *MultiBar) Add(index int, name, folder string, size int64) *FileBar {
	fb := &FileBar{
		ui:     u,
		index:  index,
		name:   name,
		folder: folder,
		size:   size,
		start:  time.Now(),
	}

	if u.isTerminal {
		fb.bar = u.progress.New(size,
			mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d/%d] %s", index, u.totalFiles, destLabel(name, folder)), decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WCSyncSpace),
				decor.Name("  "),
				decor.Any(func(decor.Statistics) string {
					return FormatSpeed(math.Float64frombits(fb.speed.Load()))
				}, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Fprintf(os.Stderr, "Uploading [%d/%d]: %s (%.1f MiB)\n",
			index, u.totalFiles, destLabel(name, folder), float64(size)/(1024*1024))
	}

	return fb
}

// Update moves the bar to the reported position.
func (f *FileBar) Update(rep Report) {
	f.speed.Store(math.Float64bits(rep.BytesPerSec))
	if f.bar != nil {
		f.bar.SetCurrent(rep.Loaded)
	}
}

// Complete finishes the bar and prints a per-file summary line above the
// remaining bars.
func (f *FileBar) Complete(uploadID string, err error) {
	if err != nil {
		if f.bar != nil {
			f.bar.Abort(false)
		}
		fmt.Fprintf(f.ui.Writer(), "✗ %s: %v\n", destLabel(f.name, f.folder), err)
		return
	}

	if f.bar != nil {
		f.bar.SetCurrent(f.size)
		f.bar.SetTotal(f.size, true)
	}
	elapsed := time.Since(f.start).Round(time.Second)
	fmt.Fprintf(f.ui.Writer(), "✓ %s (upload_id: %s, %.1f MiB, %s)\n",
		destLabel(f.name, f.folder), uploadID, float64(f.size)/(1024*1024), elapsed)
}

// Wait blocks until all bars have rendered their final state.
func (u *MultiBar) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// Writer returns a writer that prints above active bars without corrupting
// their rendering.
func (u *MultiBar) Writer() io.Writer {
	if u.isTerminal && u.progress != nil {
		return u.progress
	}
	return os.Stderr
}

func destLabel(name, folder string) string {
	base := filepath.Base(name)
	if folder == "" {
		return base
	}
	return strings.TrimSuffix(folder, "/") + "/" + base
}
