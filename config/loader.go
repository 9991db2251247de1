// Package config loads plan documents and command settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Validator is implemented by documents that check themselves after decoding.
type Validator interface {
	Validate() error
}

type decodeFunc func(data []byte, target any) error

func decodeYAML(data []byte, target any) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse YAML configuration: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, target any) error {
	if err := toml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse TOML configuration: %w", err)
	}
	return nil
}

// Load picks the decoder from the file extension: .toml files are TOML,
// everything else YAML.
func Load[T any](path string, target *T) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOML(path, target)
	}
	return LoadYAML(path, target)
}

func LoadYAML[T any](path string, target *T) error {
	return loadFile(path, target, decodeYAML)
}

func LoadTOML[T any](path string, target *T) error {
	return loadFile(path, target, decodeTOML)
}

// LoadYAMLFromString decodes and validates an in-memory YAML document.
func LoadYAMLFromString[T any](content string, target *T) error {
	return decode([]byte(content), target, decodeYAML)
}

func LoadTOMLFromString[T any](content string, target *T) error {
	return decode([]byte(content), target, decodeTOML)
}

func loadFile[T any](path string, target *T, fn decodeFunc) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("configuration file does not exist: %s", absPath)
		}
		return fmt.Errorf("failed to read configuration file %q: %w", absPath, err)
	}

	return decode(data, target, fn)
}

func decode[T any](data []byte, target *T, fn decodeFunc) error {
	if err := fn(data, target); err != nil {
		return err
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return nil
}
