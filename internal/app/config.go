package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/mishap/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mishap"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# mishap configuration
# Run: mishap --help

# Optional: override the SQLite database location.
# Can also be set via MISHAP_DB_PATH or --db-path.
# db_path: ~/.config/mishap/mishap.db

# Event log age limits. Entries older than event_max_age are swept at most
# once per event_sweep_interval.
# event_max_age: 24h
# event_sweep_interval: 5m

# Pattern detection over the most recent errors.
# pattern_window: 60s
# pattern_last_n: 10

# Per-category retry policy. Categories: database, file_system, network,
# cloud_sync, import_export, general. validation and organization never retry.
# recovery:
#   network:
#     max_attempts: 3
#     base_delay: 1s
#     max_delay: 30s
`
