// Package paths resolves where boxoffice keeps its configuration and its
// record files. Each directory follows a precedence chain: command-line
// flag, then config.yaml (data only), then environment, then a default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "boxoffice"

// Default directory names. The data default is relative to the working
// directory so a checkout can carry its own store.
const (
	DefaultDataDirName = ".boxoffice-data"
	ConfigFileName     = "config.yaml"
	EnvFileName        = ".env"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "BOXOFFICE_CONFIG_DIR"
	EnvDataDir   = "BOXOFFICE_DATA_DIR"
)

// platform holds the lookups that tests replace.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/boxoffice (fallback ~/.config/boxoffice)
// Others:  os.UserConfigDir()/boxoffice
func DefaultConfigDir() (string, error) {
	if platform.goos == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platform.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platform.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns flag, else $BOXOFFICE_CONFIG_DIR, else
// DefaultConfigDir. Overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstNonEmpty(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns flag, else the data_dir value from config.yaml,
// else $BOXOFFICE_DATA_DIR, else ./.boxoffice-data.
func ResolveDataDir(flag, fromConfig string) (string, error) {
	if dir := firstNonEmpty(flag, fromConfig, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := platform.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config.yaml path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// EnvFile returns the .env path inside configDir.
func EnvFile(configDir string) string {
	return filepath.Join(configDir, EnvFileName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
