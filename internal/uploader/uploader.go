// Package uploader runs multi-file upload submissions against the
// validation backend, strictly one file at a time.
package uploader

import (
	"context"
	"fmt"

	"github.com/egoexo-val/videoval/internal/models"
	"github.com/egoexo-val/videoval/internal/pathutil"
	"github.com/egoexo-val/videoval/internal/progress"
)

// Client is the single backend call the orchestrator needs.
type Client interface {
	Upload(ctx context.Context, localPath, folder string, onProgress progress.Func) (*models.UploadResult, error)
}

// Orchestrator uploads a set of local files sequentially. Sequential rather
// than fanned out: the backend validates each video synchronously, and one
// in-flight transfer keeps a single progress display meaningful.
type Orchestrator struct {
	Client Client

	// BaseFolder is prepended to each file's relative directory when
	// computing its destination.
	BaseFolder string

	// OnStart, if set, is called before each file's upload begins.
	// index is 1-based.
	OnStart func(index int, entry pathutil.Entry, folder string)

	// Progress, if set, supplies the per-file progress callback.
	Progress func(index int, entry pathutil.Entry, folder string) progress.Func

	// OnDone, if set, is called after each file's upload succeeds.
	OnDone func(index int, entry pathutil.Entry, result *models.UploadResult)
}

// Run uploads the entries in order. Exactly one upload is in flight at a
// time; entry i+1 starts only after entry i's call returns. The first
// failure aborts the run, and the results completed up to that point are
// returned alongside the error so callers can still show them.
func (o *Orchestrator) Run(ctx context.Context, entries []pathutil.Entry) ([]models.UploadResult, error) {
	results := make([]models.UploadResult, 0, len(entries))

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		folder := pathutil.JoinFolder(o.BaseFolder, entry.RelDir)
		if o.OnStart != nil {
			o.OnStart(i+1, entry, folder)
		}

		var onProgress progress.Func
		if o.Progress != nil {
			onProgress = o.Progress(i+1, entry, folder)
		}

		result, err := o.Client.Upload(ctx, entry.Path, folder, onProgress)
		if err != nil {
			return results, fmt.Errorf("failed to upload %s: %w", entry.Path, err)
		}
		if o.OnDone != nil {
			o.OnDone(i+1, entry, result)
		}
		results = append(results, *result)
	}

	return results, nil
}
