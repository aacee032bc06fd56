package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/egoexo-val/videoval/internal/models"
	"github.com/egoexo-val/videoval/internal/pathutil"
	"github.com/egoexo-val/videoval/internal/progress"
	"github.com/egoexo-val/videoval/internal/ratelimit"
	"github.com/egoexo-val/videoval/internal/session"
	"github.com/egoexo-val/videoval/internal/uploader"
)

func newUploadCmd() *cobra.Command {
	var baseFolder string
	var limitRate string

	cmd := &cobra.Command{
		Use:   "upload <file-or-directory>",
		Short: "Upload a video or a directory tree for validation",
		Long: `Upload one video file, or every file under a directory, to the
validation server.

Directory uploads preserve the tree: each file's destination folder is the
--folder prefix joined with its directory relative to the selected root.
Files upload one at a time; the first failure aborts the run but results of
already-uploaded files are still printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			localPath, err := pathutil.ResolveAbsolutePath(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve path %s: %w", args[0], err)
			}

			info, err := os.Stat(localPath)
			if err != nil {
				return fmt.Errorf("cannot access %s: %w", localPath, err)
			}

			var entries []pathutil.Entry
			if info.IsDir() {
				entries, err = pathutil.ScanDir(localPath)
				if err != nil {
					return fmt.Errorf("failed to scan directory %s: %w", localPath, err)
				}
				if len(entries) == 0 {
					return fmt.Errorf("directory %s contains no files", localPath)
				}
			} else {
				entry, err := pathutil.StatFile(localPath)
				if err != nil {
					return err
				}
				entries = []pathutil.Entry{entry}
			}

			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}
			if baseFolder == "" {
				baseFolder = cfg.DefaultFolder
			}
			if limitRate != "" {
				bytesPerSec, err := ratelimit.ParseRate(limitRate)
				if err != nil {
					return err
				}
				client.SetUploadLimit(bytesPerSec)
			}

			if err := session.Require(ctx, client); err != nil {
				return err
			}

			GetLogger().Info().
				Int("count", len(entries)).
				Str("folder", baseFolder).
				Msg("Starting upload")

			var results []models.UploadResult
			var runErr error
			if len(entries) == 1 {
				results, runErr = runSingleUpload(ctx, client, entries, baseFolder)
			} else {
				results, runErr = runDirectoryUpload(ctx, client, entries, baseFolder)
			}

			printUploadResults(results)
			return runErr
		},
	}

	cmd.Flags().StringVar(&baseFolder, "folder", "", "Base destination folder prefix")
	cmd.Flags().StringVar(&limitRate, "limit-rate", "", "Cap upload throughput, e.g. 5M or 512K (bytes/sec)")

	return cmd
}

// runSingleUpload renders one progress bar with the smoothed speed readout.
func runSingleUpload(ctx context.Context, client uploader.Client, entries []pathutil.Entry, baseFolder string) ([]models.UploadResult, error) {
	var bar *progress.Bar

	orch := &uploader.Orchestrator{
		Client:     client,
		BaseFolder: baseFolder,
		OnStart: func(index int, entry pathutil.Entry, folder string) {
			bar = progress.NewBar(entry.Size, filepath.Base(entry.Path))
		},
		Progress: func(index int, entry pathutil.Entry, folder string) progress.Func {
			return func(rep progress.Report) {
				bar.Update(rep)
			}
		},
	}

	results, err := orch.Run(ctx, entries)
	if bar != nil {
		bar.Finish()
	}
	return results, err
}

// runDirectoryUpload renders one bar per file; bars are added sequentially
// since only one upload is ever in flight.
func runDirectoryUpload(ctx context.Context, client uploader.Client, entries []pathutil.Entry, baseFolder string) ([]models.UploadResult, error) {
	ui := progress.NewMultiBar(len(entries))
	defer ui.Wait()

	var current *progress.FileBar

	orch := &uploader.Orchestrator{
		Client:     client,
		BaseFolder: baseFolder,
		OnStart: func(index int, entry pathutil.Entry, folder string) {
			current = ui.Add(index, entry.Path, folder, entry.Size)
		},
		Progress: func(index int, entry pathutil.Entry, folder string) progress.Func {
			bar := current
			return func(rep progress.Report) {
				bar.Update(rep)
			}
		},
		OnDone: func(index int, entry pathutil.Entry, result *models.UploadResult) {
			current.Complete(result.UploadID, nil)
			current = nil
		},
	}

	results, err := orch.Run(ctx, entries)
	if err != nil && current != nil {
		// The bar for the file that was in flight when the run aborted.
		current.Complete("", err)
	}

	return results, err
}

// printUploadResults lists the uploads that completed, whether or not the
// whole run succeeded.
func printUploadResults(results []models.UploadResult) {
	if len(results) == 0 {
		return
	}

	fmt.Printf("\nUploaded %d file(s):\n", len(results))
	for i, res := range results {
		dest := res.Filename
		if res.Folder != "" {
			dest = res.Folder + "/" + res.Filename
		}
		fmt.Printf("  [%d] %s\n", i+1, dest)
		fmt.Printf("      upload_id: %s  status: %s%s\n", res.UploadID, renderStatus(res.Status), renderValidatedAt(res.ValidatedAt))
		if res.Message != "" {
			fmt.Printf("      message: %s\n", res.Message)
		}
		for _, issue := range res.Issues {
			fmt.Printf("      - %s\n", issue)
		}
	}
}

func renderStatus(status string) string {
	switch strings.ToLower(status) {
	case models.StatusGood:
		return "good ✓"
	case models.StatusBad:
		return "bad ✗"
	case "":
		return "pending"
	default:
		return status
	}
}

func renderValidatedAt(ts string) string {
	if ts == "" {
		return ""
	}
	return "  validated_at: " + ts
}
