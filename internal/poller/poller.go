// Package poller re-fetches an upload's validation status until a terminal
// outcome is observed.
package poller

import (
	"context"
	"time"

	"github.com/egoexo-val/videoval/internal/models"
)

// DefaultInterval is the delay between status fetches.
const DefaultInterval = time.Second

// Client is the single backend call the watcher needs.
type Client interface {
	Status(ctx context.Context, uploadID string) (*models.StatusRecord, error)
}

// Watcher polls an upload's status. The first fetch is immediate; while the
// status is non-terminal, the next fetch is scheduled a fixed interval after
// the previous one resolves, so only one request is ever in flight. A fetch
// error stops the loop and is surfaced; there is no error retry.
//
// The backend currently validates before answering the upload request, so
// in practice the first fetch is already terminal. The re-poll loop stays
// for backends that move validation out-of-band.
type Watcher struct {
	Client Client

	// Interval between fetches. Zero means DefaultInterval.
	Interval time.Duration

	// OnUpdate, if set, is called with every fetched record, terminal or
	// not.
	OnUpdate func(*models.StatusRecord)
}

// Watch polls until a terminal status arrives, the context is cancelled, or
// a fetch fails. It returns the terminal record on success.
func (w *Watcher) Watch(ctx context.Context, uploadID string) (*models.StatusRecord, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		rec, err := w.Client.Status(ctx, uploadID)
		if err != nil {
			return nil, err
		}
		if w.OnUpdate != nil {
			w.OnUpdate(rec)
		}
		if rec.Terminal() {
			return rec, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
