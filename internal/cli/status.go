package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/egoexo-val/videoval/internal/models"
	"github.com/egoexo-val/videoval/internal/poller"
	"github.com/egoexo-val/videoval/internal/session"
)

func newStatusCmd() *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "status <upload-id>",
		Short: "Show the validation status of an upload",
		Long: `Fetch the validation record for an upload.

With --watch, the status is re-fetched every interval until the outcome is
terminal (good or bad). A fetch error stops watching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			uploadID := args[0]

			client, _, err := getAPIClient()
			if err != nil {
				return err
			}
			if err := session.Require(ctx, client); err != nil {
				return err
			}

			if !watch {
				rec, err := client.Status(ctx, uploadID)
				if err != nil {
					return err
				}
				printStatusRecord(rec)
				return nil
			}

			watcher := &poller.Watcher{
				Client:   client,
				Interval: interval,
				OnUpdate: func(rec *models.StatusRecord) {
					if !rec.Terminal() {
						GetLogger().Info().
							Str("upload_id", rec.UploadID).
							Str("status", rec.Status).
							Msg("Still processing")
					}
				},
			}
			rec, err := watcher.Watch(ctx, uploadID)
			if err != nil {
				return err
			}
			printStatusRecord(rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Poll until the status is terminal")
	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "Polling interval with --watch")

	return cmd
}

func printStatusRecord(rec *models.StatusRecord) {
	fmt.Printf("upload_id: %s\n", rec.UploadID)
	fmt.Printf("filename:  %s\n", rec.Filename)
	if rec.Folder != "" {
		fmt.Printf("folder:    %s\n", rec.Folder)
	}
	fmt.Printf("status:    %s\n", renderStatus(rec.Status))
	if rec.ValidatedAt != "" {
		fmt.Printf("validated: %s\n", rec.ValidatedAt)
	}
	if rec.Message != "" {
		fmt.Printf("message:   %s\n", rec.Message)
	}
	if len(rec.Issues) > 0 {
		fmt.Println("issues:")
		for _, issue := range rec.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
}
