// Package config resolves ordersctl settings from built-in defaults, an
// optional YAML file and the environment. Command-line flags are layered on
// top by the cli package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ordersctl/internal/api"
)

// Environment variables read by Load.
const (
	EnvConfig        = "ORDERSCTL_CONFIG"
	EnvAPIURL        = "ORDERS_API_URL"
	EnvAdminPassword = "ORDERS_ADMIN_PASSWORD"
	EnvJournal       = "ORDERSCTL_JOURNAL"
)

// Config holds resolved settings.
type Config struct {
	APIURL        string `yaml:"api_url"`
	AdminPassword string `yaml:"admin_password"`
	Journal       string `yaml:"journal"` // SQLite path; empty disables the journal
	Format        string `yaml:"format"`  // empty keeps the --format default
}

// Default returns the built-in settings.
func Default() Config {
	return Config{APIURL: api.DefaultBaseURL}
}

// Load resolves settings in order: defaults, then the YAML file at path (or
// $ORDERSCTL_CONFIG when path is empty), then environment variables.
// A missing file is an error either way; when it came from $ORDERSCTL_CONFIG
// the message names the variable.
//
// getenv is usually os.Getenv; tests pass a map lookup.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%s points to a missing file: %w", EnvConfig, err)
			}
			return Config{}, err
		}
	}

	cfg.mergeEnv(getenv)
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.APIURL != "" {
		c.APIURL = file.APIURL
	}
	if file.AdminPassword != "" {
		c.AdminPassword = file.AdminPassword
	}
	if file.Journal != "" {
		c.Journal = file.Journal
	}
	if file.Format != "" {
		c.Format = file.Format
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvAdminPassword); v != "" {
		c.AdminPassword = v
	}
	if v := getenv(EnvJournal); v != "" {
		c.Journal = v
	}
}
