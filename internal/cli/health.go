package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the validation server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}

			h, err := client.Health(GetContext())
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s (server time %s)\n", cfg.BaseURL, h.Status, h.Time)
			return nil
		},
	}
}
