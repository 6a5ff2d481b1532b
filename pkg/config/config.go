// Package config loads treedex configuration and locates the project's
// .treedex directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/treekit/treedex/pkg/loader"
)

// DirName is the per-project directory holding treedex config and state.
const DirName = ".treedex"

// configFileName is the filename for the project configuration
const configFileName = "config.yaml"

// Config is the project configuration file (.treedex/config.yaml).
type Config struct {
	// Name is the display name for this tree
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Sources lists the item files merged into the tree. An empty list is
	// allowed; hosts can also pass a single file directly.
	Sources []loader.Source `yaml:"sources,omitempty" json:"sources,omitempty"`

	// StateDir overrides where view state is persisted (default: the
	// directory the config was loaded from).
	StateDir string `yaml:"state_dir,omitempty" json:"state_dir,omitempty"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Sources) > 0 {
		if err := loader.Validate(c.Sources); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a configuration from path. Relative source paths are resolved
// against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	base := filepath.Dir(path)
	for i := range cfg.Sources {
		if cfg.Sources[i].Path != "" && !filepath.IsAbs(cfg.Sources[i].Path) {
			cfg.Sources[i].Path = filepath.Join(base, cfg.Sources[i].Path)
		}
	}
	if cfg.StateDir == "" {
		cfg.StateDir = base
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// DefaultPath returns the config path under a project root.
func DefaultPath(root string) string {
	return filepath.Join(root, DirName, configFileName)
}

// FindRoot walks up from dir looking for a .treedex/ directory, stopping at
// the filesystem root or the user's home directory. An empty dir starts
// from the current working directory.
func FindRoot(dir string) (string, bool) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", false
		}
	}

	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
