package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/finance-control/internal/common"
	"github.com/spf13/viper"
)

// DefaultSettingsFile is the settings document used when none is given.
const DefaultSettingsFile = "settings.json"

// EnvPrefix prefixes environment overrides, e.g. FINANCE_DATABASE_PATH.
const EnvPrefix = "FINANCE"

// Well-known setting keys.
const (
	KeyDatabasePath  = "database.path"
	KeyTheme         = "interface.theme"
	KeyLanguage      = "interface.language"
	KeyDefaultPeriod = "analytics.default_period"
)

// ErrInvalidKey is returned for keys that are not of the form section.name.
var ErrInvalidKey = errors.New("setting key must look like section.name")

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		KeyDatabasePath:  "finance.db",
		KeyTheme:         "Fusion",
		KeyLanguage:      "en_US",
		KeyDefaultPeriod: "month",
	}
}

// Settings is a JSON settings document layered over defaults and
// FINANCE_* environment variables. Reads see the environment; Save writes
// only the file document and explicit Set calls.
type Settings struct {
	v    *viper.Viper
	doc  *viper.Viper
	path string
}

// Load reads the settings file at path. A missing file yields defaults. A
// file that cannot be parsed is logged and also yields defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultSettingsFile
	}
	path = ExpandPath(path)
	if ext := filepath.Ext(path); ext != ".json" {
		return nil, fmt.Errorf("%w: settings file %q must have a .json extension", common.ErrInvalidConfig, path)
	}

	s := &Settings{path: path}
	s.reset()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("settings file not found, using defaults", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to access settings file: %w", err)
	}

	if err := s.v.ReadInConfig(); err != nil {
		slog.Warn("failed to parse settings file, using defaults", "path", path, "error", err)
		s.reset()
		return s, nil
	}
	if err := s.doc.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return s, nil
}

// reset replaces both views with fresh defaults.
func (s *Settings) reset() {
	s.v = newViper(s.path)
	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	s.v.AutomaticEnv()
	s.doc = newViper(s.path)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
	return v
}

// Path returns the settings file location.
func (s *Settings) Path() string {
	return s.path
}

// Get returns a setting as a string, or "" when unset.
func (s *Settings) Get(key string) string {
	return s.v.GetString(key)
}

// DatabasePath returns the configured database file with ~ and $VARS expanded.
func (s *Settings) DatabasePath() string {
	return ExpandPath(s.v.GetString(KeyDatabasePath))
}

// Set changes a setting in memory. Call Save to persist it.
func (s *Settings) Set(key, value string) error {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	s.v.Set(key, value)
	s.doc.Set(key, value)
	slog.Debug("setting changed", "key", key, "value", value)
	return nil
}

// All returns every known setting flattened to dotted keys, sorted.
func (s *Settings) All() []KeyValue {
	keys := s.v.AllKeys()
	sort.Strings(keys)

	out := make([]KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyValue{Key: k, Value: s.v.GetString(k)})
	}
	return out
}

// KeyValue is one flattened setting.
type KeyValue struct {
	Key   string
	Value string
}

// Save writes the current settings to the settings file.
func (s *Settings) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := s.doc.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	slog.Info("saved settings", "path", s.path)
	return nil
}

// Reset discards every change, restores the defaults and saves them.
func (s *Settings) Reset() error {
	s.reset()
	return s.Save()
}
