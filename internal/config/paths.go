package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "DENSITYAREAS_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "densityareas.yaml"
	// TOMLConfigFileName is searched after ConfigFileName
	TOMLConfigFileName = "densityareas.toml"
)

// FindConfigPath returns $DENSITYAREAS_CONFIG when it names an existing
// file, else the first of ./densityareas.yaml and ./densityareas.toml that
// exists, else "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
		if fileExists(name) {
			if abs, err := filepath.Abs(name); err == nil {
				return abs
			}
			return name
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
