package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DBPathEnv names the environment variable overriding the history database.
const DBPathEnv = "MISHAP_DB_PATH"

const dbFileName = "mishap.db"

// Sources reported by ResolveDBPathDetailed. A config-file source is
// reported as "config(<file>)".
const (
	SourceFlag    = "cli(--db-path)"
	SourceEnv     = "env(" + DBPathEnv + ")"
	SourceDefault = "default(~/.config/mishap/" + dbFileName + ")"
)

// GetDBPath resolves the error history database path and ensures its
// directory exists. Precedence: --db-path, MISHAP_DB_PATH, db_path in the
// loaded config.yaml, then ~/.config/mishap/mishap.db.
func GetDBPath() (string, error) {
	path, _, err := ResolveDBPathDetailed()
	return path, err
}

// ResolveDBPathDetailed is GetDBPath plus the source of the decision, for
// `mishap db path` and `mishap doctor`.
func ResolveDBPathDetailed() (path string, source string, err error) {
	path, source, err = resolveDBPath()
	if err != nil {
		return "", "", err
	}
	resolved, err := EnsureDBDir(path)
	if err != nil {
		return "", "", err
	}
	return resolved, source, nil
}

func resolveDBPath() (string, string, error) {
	if override := getDBPathOverride(); override != "" {
		return override, SourceFlag, nil
	}
	if envPath := os.Getenv(DBPathEnv); envPath != "" {
		return envPath, SourceEnv, nil
	}

	cfg, err := LoadSettings()
	if err != nil {
		return "", "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DBPath != "" {
		path, err := expandHome(cfg.DBPath)
		if err != nil {
			return "", "", err
		}
		return path, fmt.Sprintf("config(%s)", settingsPath), nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, dbFileName), SourceDefault, nil
}

// expandHome resolves a leading "~/" in a configured path.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// EnsureDBDir makes dbPath absolute and creates its parent directory.
func EnsureDBDir(dbPath string) (string, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path %s: %w", dbPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return abs, nil
}
