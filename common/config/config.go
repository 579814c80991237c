// Package config provides TOML configuration helpers shared by printinfo components
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// FindConfigFile searches for a config file in platform-appropriate locations.
// Returns the path and data of the first file found.
func FindConfigFile(filename string, component string) (string, []byte, error) {
	for _, path := range GetConfigSearchPaths(filename, component) {
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}
	return "", nil, fmt.Errorf("%s not found in any search path", filename)
}

// GetConfigSearchPaths returns an ordered list of paths to search for config files:
// system directory, user config directory, executable directory, then the
// working directory.
func GetConfigSearchPaths(filename string, component string) []string {
	var searchPaths []string

	switch runtime.GOOS {
	case "windows":
		searchPaths = append(searchPaths, filepath.Join(os.Getenv("ProgramData"), "PrintInfo", component, filename))
	case "darwin":
		searchPaths = append(searchPaths, filepath.Join("/Library/Application Support", "PrintInfo", component, filename))
	default:
		searchPaths = append(searchPaths, filepath.Join("/etc/printinfo", component, filename))
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "windows":
			searchPaths = append(searchPaths, filepath.Join(homeDir, "AppData", "Local", "PrintInfo", component, filename))
		case "darwin":
			searchPaths = append(searchPaths, filepath.Join(homeDir, "Library", "Application Support", "PrintInfo", component, filename))
		default:
			searchPaths = append(searchPaths, filepath.Join(homeDir, ".config", "printinfo", component, filename))
		}
	}

	if exePath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(exePath), filename))
	}

	searchPaths = append(searchPaths, filepath.Join(".", filename))

	return searchPaths
}

// WriteDefaultTOML writes config to configPath as TOML. It refuses to
// overwrite an existing file.
func WriteDefaultTOML(configPath string, config interface{}) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("config file %s already exists", configPath)
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadTOML loads a TOML configuration file into config. Keys present in the
// file that config does not declare are reported as an error so typos do not
// go unnoticed.
func LoadTOML(configPath string, config interface{}) error {
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("config file not found: %w", err)
	}

	meta, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), configPath)
	}
	return nil
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `toml:"level"`
	// Dir enables file logging when set.
	Dir string `toml:"dir"`
	// MaxSizeMB rotates the log file once it reaches this size; 0 disables
	// rotation. MaxFiles bounds the rotated files kept.
	MaxSizeMB int `toml:"max_size_mb"`
	MaxFiles  int `toml:"max_files"`
}

// ApplyLoggingEnvOverrides applies LOG_LEVEL and LOG_DIR.
func ApplyLoggingEnvOverrides(cfg *LoggingConfig) {
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Level = val
	}
	if val := os.Getenv("LOG_DIR"); val != "" {
		cfg.Dir = val
	}
}
