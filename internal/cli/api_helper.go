// Package cli API client helper functions.
package cli

import (
	"fmt"

	"github.com/egoexo-val/videoval/internal/api"
	"github.com/egoexo-val/videoval/internal/config"
	"github.com/egoexo-val/videoval/internal/session"
)

// loadConfig resolves configuration with flag overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.BaseURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getAPIClient loads configuration and creates an API client with the
// persistent cookie store attached. This is the standard way for commands
// to reach the backend.
func getAPIClient() (*api.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store := session.NewStore(cfg.CookieFile)
	client, err := api.New(cfg.BaseURL, store, GetLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, cfg, nil
}
