package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "config.yml"

type Config struct {
	Logger  Logger  `yaml:"logger"`
	Tracker Tracker `yaml:"tracker"`
	Store   Store   `yaml:"store"`
}

// Logger switches are pointers so that an absent directive keeps its default.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type Tracker struct {
	HomeFolder    string `yaml:"home_folder"`
	Cache         string `yaml:"cache"`
	Capacity      int    `yaml:"capacity"`
	SaveArtifacts *bool  `yaml:"save_artifacts"`
}

type Store struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// ValidateConfigPath checks that path points to a file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads configPath. A missing file yields an empty configuration
// so that defaults apply; unreadable or malformed files are errors.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	err := LoadYAML(configPath, cfg)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case errors.Is(err, io.EOF):
		// empty file
		return cfg, nil
	default:
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
}
