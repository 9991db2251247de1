package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cpcf/boilerplate/index"
	"github.com/cpcf/boilerplate/replacer"
)

const (
	// ProjectFile holds per-project settings next to the generated tree.
	ProjectFile = ".boilerplate.toml"
	EnvPrefix   = "BOILERPLATE_"
)

// Settings drive the command line tool. Each layer overrides the previous:
// defaults, the user file, the project file, then BOILERPLATE_* variables.
type Settings struct {
	Root      string `koanf:"root"`
	Strict    bool   `koanf:"strict"`
	Atomic    bool   `koanf:"atomic"`
	Backup    bool   `koanf:"backup"`
	GoImports bool   `koanf:"goimports"`
	LogLevel  string `koanf:"log_level"`
	IndexFile string `koanf:"index_file"`
}

func defaultSettings() map[string]any {
	return map[string]any{
		"root":       "Assets",
		"strict":     false,
		"atomic":     false,
		"backup":     false,
		"goimports":  false,
		"log_level":  "info",
		"index_file": index.DefaultFile,
	}
}

// UserSettingsPath is the settings file under the XDG config home.
func UserSettingsPath() string {
	return filepath.Join(xdg.ConfigHome, "boilerplate", "config.toml")
}

type settingsOptions struct {
	userFile string
}

type SettingsOption func(*settingsOptions)

// WithUserFile replaces the XDG user settings file; "" skips that layer.
func WithUserFile(path string) SettingsOption {
	return func(o *settingsOptions) {
		o.userFile = path
	}
}

func LoadSettings(projectDir string, opts ...SettingsOption) (*Settings, error) {
	o := settingsOptions{userFile: UserSettingsPath()}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultSettings(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}

	for _, path := range []string{o.userFile, filepath.Join(projectDir, ProjectFile)} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings from environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Root) == "" {
		return fmt.Errorf("root must not be empty")
	}
	switch strings.ToLower(s.LogLevel) {
	case "off", "error", "warn", "info", "debug", "trace":
	default:
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	return nil
}

func (s *Settings) Policy() replacer.Policy {
	if s.Strict {
		return replacer.Strict
	}
	return replacer.Lenient
}
