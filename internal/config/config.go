// ABOUTME: Settings loading with global + project config merge
// ABOUTME: YAML configuration via gopkg.in/yaml.v3; defaults fill unset fields

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/ry-go/pkg/key"
)

// Settings holds the merged configuration.
type Settings struct {
	ReadTimeout time.Duration `yaml:"read_timeout,omitempty"`
	LogLevel    string        `yaml:"log_level,omitempty"`
	LogFile     string        `yaml:"log_file,omitempty"`
	QuitKey     string        `yaml:"quit_key,omitempty"`
}

// Defaults returns the settings used when no file sets a value.
func Defaults() *Settings {
	return &Settings{
		ReadTimeout: 100 * time.Millisecond,
		LogLevel:    "info",
		QuitKey:     "ctrl-q",
	}
}

// Load reads and merges global and project-local settings onto the
// defaults. Project settings override global settings. Missing files are
// not an error. The result is not validated; callers apply their overrides
// first and then call Validate.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(merge(Defaults(), global), project)
	ResolveEnvVars(merged)
	return merged, nil
}

// LoadFile reads a single settings file over the defaults. Like Load, it
// leaves validation to the caller.
func LoadFile(path string) (*Settings, error) {
	s, err := loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	merged := merge(Defaults(), s)
	ResolveEnvVars(merged)
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays non-zero values of over onto base.
func merge(base, over *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if over == nil {
		return base
	}

	result := *base

	if over.ReadTimeout != 0 {
		result.ReadTimeout = over.ReadTimeout
	}
	if over.LogLevel != "" {
		result.LogLevel = over.LogLevel
	}
	if over.LogFile != "" {
		result.LogFile = over.LogFile
	}
	if over.QuitKey != "" {
		result.QuitKey = over.QuitKey
	}

	return &result
}

// Validate checks values that would otherwise fail later, inside raw mode.
func (s *Settings) Validate() error {
	if s.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout must not be negative, got %v", s.ReadTimeout)
	}
	k, ok := key.ParseName(s.QuitKey)
	if !ok {
		return fmt.Errorf("unknown quit_key %q", s.QuitKey)
	}
	if k.Terminates() {
		return fmt.Errorf("quit_key %q is reserved", s.QuitKey)
	}
	return nil
}
