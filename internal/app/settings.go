package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/mishap/internal/models"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath             string                       `yaml:"db_path"`
	EventMaxAge        time.Duration                `yaml:"event_max_age"`
	EventSweepInterval time.Duration                `yaml:"event_sweep_interval"`
	PatternWindow      time.Duration                `yaml:"pattern_window"`
	PatternLastN       int                          `yaml:"pattern_last_n"`
	Recovery           map[string]RetryPolicyConfig `yaml:"recovery"`
}

// RetryPolicyConfig is one category entry under `recovery:`. MaxAttempts is
// a pointer so an explicit 0 (never retry) differs from unset.
type RetryPolicyConfig struct {
	MaxAttempts *int          `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// RetryPolicy is the effective retry policy of one error category.
type RetryPolicy struct {
	MaxAttempts int           `json:"max_attempts"`
	BaseDelay   time.Duration `json:"base_delay"`
	MaxDelay    time.Duration `json:"max_delay"`
}

// LogSettings are effective runtime values for the event log and analytics.
type LogSettings struct {
	MaxAge        time.Duration `json:"max_age"`
	SweepInterval time.Duration `json:"sweep_interval"`
	PatternWindow time.Duration `json:"pattern_window"`
	PatternLastN  int           `json:"pattern_last_n"`
}

// Persisted capacity bounds for the event log.
const (
	DefaultMaxEvents = 50
	MinMaxEvents     = 10
	MaxMaxEvents     = 200
)

const (
	defaultEventMaxAge        = 24 * time.Hour
	defaultEventSweepInterval = 5 * time.Minute
	defaultPatternWindow      = 60 * time.Second
	defaultPatternLastN       = 10

	maxRetryAttempts = 10
	minRetryDelay    = 10 * time.Millisecond
	maxRetryDelay    = 10 * time.Minute
)

// ClampMaxEvents normalises a stored capacity. Zero or negative values are
// treated as unset and yield the default; everything else is clamped to
// [MinMaxEvents, MaxMaxEvents].
func ClampMaxEvents(n int) int {
	if n <= 0 {
		return DefaultMaxEvents
	}
	if n < MinMaxEvents {
		return MinMaxEvents
	}
	if n > MaxMaxEvents {
		return MaxMaxEvents
	}
	return n
}

// DefaultRetryPolicies is the canonical per-category retry table.
// Validation and organization errors need user correction and never retry.
func DefaultRetryPolicies() map[models.Category]RetryPolicy {
	return map[models.Category]RetryPolicy{
		models.CategoryNetwork:      {MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
		models.CategoryCloudSync:    {MaxAttempts: 3, BaseDelay: 2 * time.Second, MaxDelay: time.Minute},
		models.CategoryDatabase:     {MaxAttempts: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second},
		models.CategoryFileSystem:   {MaxAttempts: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second},
		models.CategoryImportExport: {MaxAttempts: 2, BaseDelay: time.Second, MaxDelay: 10 * time.Second},
		models.CategoryGeneral:      {MaxAttempts: 1, BaseDelay: time.Second, MaxDelay: 5 * time.Second},
		models.CategoryValidation:   {},
		models.CategoryOrganization: {},
	}
}

// EffectiveRetryPolicies returns the retry table with config.yaml overrides
// applied. Invalid or missing values fall back to the defaults.
func EffectiveRetryPolicies() map[models.Category]RetryPolicy {
	policies := DefaultRetryPolicies()

	s, err := LoadSettings()
	if err != nil {
		return policies
	}
	return applyRetryOverrides(policies, s.Recovery)
}

func applyRetryOverrides(policies map[models.Category]RetryPolicy, overrides map[string]RetryPolicyConfig) map[models.Category]RetryPolicy {
	for name, o := range overrides {
		cat := models.Category(name)
		p, ok := policies[cat]
		if !ok || cat == models.CategoryValidation || cat == models.CategoryOrganization {
			continue
		}
		if o.MaxAttempts != nil && *o.MaxAttempts >= 0 {
			p.MaxAttempts = min(*o.MaxAttempts, maxRetryAttempts)
		}
		if o.BaseDelay > 0 {
			p.BaseDelay = o.BaseDelay
		}
		if o.MaxDelay > 0 {
			p.MaxDelay = o.MaxDelay
		}

		p.BaseDelay = min(max(p.BaseDelay, minRetryDelay), maxRetryDelay)
		p.MaxDelay = min(max(p.MaxDelay, p.BaseDelay), maxRetryDelay)
		policies[cat] = p
	}
	return policies
}

// EffectiveLogSettings returns validated event log settings with defaults.
// Invalid or missing config values fall back to safe defaults.
func EffectiveLogSettings() LogSettings {
	cfg := LogSettings{
		MaxAge:        defaultEventMaxAge,
		SweepInterval: defaultEventSweepInterval,
		PatternWindow: defaultPatternWindow,
		PatternLastN:  defaultPatternLastN,
	}

	s, err := LoadSettings()
	if err != nil {
		return cfg
	}

	if s.EventMaxAge > 0 {
		cfg.MaxAge = s.EventMaxAge
	}
	if s.EventSweepInterval > 0 {
		cfg.SweepInterval = s.EventSweepInterval
	}
	if s.PatternWindow > 0 {
		cfg.PatternWindow = s.PatternWindow
	}
	if s.PatternLastN > 0 {
		cfg.PatternLastN = s.PatternLastN
	}

	if cfg.MaxAge < time.Minute {
		cfg.MaxAge = time.Minute
	}
	if cfg.MaxAge > 30*24*time.Hour {
		cfg.MaxAge = 30 * 24 * time.Hour
	}
	if cfg.SweepInterval > time.Hour {
		cfg.SweepInterval = time.Hour
	}
	if cfg.PatternWindow > time.Hour {
		cfg.PatternWindow = time.Hour
	}
	if cfg.PatternLastN < 3 {
		cfg.PatternLastN = 3
	}
	if cfg.PatternLastN > MaxMaxEvents {
		cfg.PatternLastN = MaxMaxEvents
	}
	return cfg
}

// settingsOnce, settings, settingsErr and settingsPath implement the sync.Once lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride implement a mutex-protected process-wide override for CLI --db-path.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error
	settingsPath string

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// configSearchPaths lists config files in lookup order (first found wins).
func configSearchPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "mishap", "config.yaml"),
		"config.yaml",
	}, nil
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/mishap/config.yaml
// 2) /etc/mishap/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		paths, err := configSearchPaths()
		if err != nil {
			settingsErr = err
			return
		}
		for _, p := range paths {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				settingsPath = p
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the fixed lookup list
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
