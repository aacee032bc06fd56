package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the shared passcode",
		Long: `Authenticate against the validation server with the shared passcode.

On success the session cookie is stored under the user config directory and
sent with every later command until it expires or 'videoval logout' clears
it. The passcode is prompted without echo unless piped on stdin or passed
via --secret (which leaks into shell history; prefer the prompt).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			client, _, err := getAPIClient()
			if err != nil {
				return err
			}

			if secret == "" {
				secret, err = promptSecret()
				if err != nil {
					return err
				}
			}
			if secret == "" {
				return fmt.Errorf("empty passcode")
			}

			if err := client.Login(ctx, secret); err != nil {
				return err
			}

			GetLogger().Info().Msg("Logged in")
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Shared passcode (prompted when omitted)")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := getAPIClient()
			if err != nil {
				return err
			}
			if err := client.Logout(GetContext()); err != nil {
				return err
			}
			GetLogger().Info().Msg("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show whether the stored session is still valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getAPIClient()
			if err != nil {
				return err
			}

			authed, err := client.CheckSession(GetContext())
			if err != nil {
				return err
			}

			if authed {
				fmt.Printf("Authenticated against %s\n", cfg.BaseURL)
			} else {
				fmt.Printf("Not authenticated against %s\n", cfg.BaseURL)
			}
			return nil
		},
	}
}
