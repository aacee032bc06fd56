package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egoexo-val/videoval/internal/session"
)

func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage destination folders on the validation server",
	}

	cmd.AddCommand(newFoldersCreateCmd())

	return cmd
}

func newFoldersCreateCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a destination folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			client, _, err := getAPIClient()
			if err != nil {
				return err
			}
			if err := session.Require(ctx, client); err != nil {
				return err
			}

			res, err := client.CreateFolder(ctx, parent, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Created folder %s\n", res.FolderKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent folder prefix")

	return cmd
}
