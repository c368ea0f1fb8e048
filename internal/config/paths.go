// ABOUTME: Resolution of the config file and data directory locations.
// ABOUTME: Follows the XDG base directory layout with an env override for the config file.

package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "LICHOBI_CONFIG"

// Path returns the config file path.
// Priority: LICHOBI_CONFIG > XDG_CONFIG_HOME/lichobi/config.toml > ~/.config/lichobi/config.toml
func Path() string {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lichobi", "config.toml")
}

// DataPath returns the data directory, used for the Matrix crypto store.
// Priority: XDG_DATA_HOME/lichobi > ~/.local/share/lichobi
func DataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "lichobi")
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
