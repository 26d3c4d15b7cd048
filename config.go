package tcflow

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .tcflow.yaml configuration file.
type Config struct {
	// ConfigName, when set, prefixes derived class names so several
	// configurations of the same suite stay distinct on the dashboard.
	ConfigName string `yaml:"config_name,omitempty"`

	// Out is the destination file for service messages. Empty means stdout.
	Out string `yaml:"out,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".tcflow.yaml", ".tcflow.yml", "tcflow.yaml", "tcflow.yml"}

// LoadConfig finds and loads the nearest .tcflow.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
