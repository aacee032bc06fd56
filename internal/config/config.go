// Package config provides configuration for the videoval CLI.
//
// Precedence: flags > environment > config file > defaults. A .env file in
// the working directory is loaded into the environment first, matching how
// the backend service configures itself locally.
//
// Config file location: ~/.config/videoval/config (INI):
//
//	[server]
//	base_url = https://validate.example.org
//
//	[auth]
//	cookie_file = /home/user/.config/videoval/session
//
//	[upload]
//	default_folder = capture/session01
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Environment variable names.
const (
	EnvBaseURL    = "VIDEOVAL_BASE_URL"
	EnvCookieFile = "VIDEOVAL_COOKIE_FILE"
)

// Validation errors.
var (
	ErrMissingBaseURL = errors.New("server base URL is required (use --server, " + EnvBaseURL + ", or [server] base_url in the config file)")
)

// Config holds the resolved client configuration.
type Config struct {
	// BaseURL is the backend origin, without trailing slash.
	BaseURL string `ini:"base_url"`

	// CookieFile is where the session cookie is persisted.
	CookieFile string `ini:"cookie_file"`

	// DefaultFolder is the base destination prefix applied when the
	// upload command gets no --folder flag.
	DefaultFolder string `ini:"default_folder"`
}

// DefaultPath returns the default config file location,
// ~/.config/videoval/config.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// DefaultCookiePath returns the default session file location,
// ~/.config/videoval/session.
func DefaultCookiePath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session"), nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "videoval"), nil
}

// Load resolves configuration from the file at path (optional; empty means
// the default location), the environment, and defaults. Flag overrides are
// applied by the caller afterwards.
func Load(path string) (*Config, error) {
	// Working-directory .env, if any, feeds the environment lookups
	// below. Absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	resolved := path
	if resolved == "" {
		var err error
		resolved, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(resolved); err == nil {
		file, err := ini.Load(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", resolved, err)
		}
		cfg.BaseURL = file.Section("server").Key("base_url").String()
		cfg.CookieFile = file.Section("auth").Key("cookie_file").String()
		cfg.DefaultFolder = file.Section("upload").Key("default_folder").String()
	} else if path != "" {
		// An explicitly named config file must exist.
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvCookieFile); v != "" {
		cfg.CookieFile = v
	}

	if cfg.CookieFile == "" {
		cookiePath, err := DefaultCookiePath()
		if err != nil {
			return nil, err
		}
		cfg.CookieFile = cookiePath
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server base URL %q: %w", c.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server base URL %q must use http or https", c.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server base URL %q has no host", c.BaseURL)
	}
	return nil
}
