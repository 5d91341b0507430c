package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings holds the application preferences, kept separate from scenario
// files: scenario files describe a simulation, settings describe how the
// tool behaves on this machine.
type Settings struct {
	Defaults DefaultsSettings `toml:"defaults"`
	History  HistorySettings  `toml:"history"`
	Server   ServerSettings   `toml:"server"`
}

// DefaultsSettings holds fallbacks applied when a flag or file omits a value.
type DefaultsSettings struct {
	OutputFormat    string `toml:"output_format"`
	MonteCarloPaths int    `toml:"monte_carlo_paths"`
}

// HistorySettings controls the run-history database.
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// ServerSettings holds the local API server preferences.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Defaults: DefaultsSettings{
			OutputFormat:    "console",
			MonteCarloPaths: 1000,
		},
		History: HistorySettings{
			Enabled: true,
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:8080",
		},
	}
}

// SettingsDir returns the XDG-compliant config directory.
func SettingsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "retire")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "retire")
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory, home of the run
// history database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "retire")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "retire")
}

// DatabasePath resolves the history database location: the configured
// path when set, otherwise the default under the data directory.
func (h HistorySettings) DatabasePath() string {
	if h.Path != "" {
		return h.Path
	}
	return filepath.Join(DataDir(), "history.db")
}

// LoadSettings reads the settings file, returning defaults if it doesn't
// exist.
func LoadSettings() (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}
	return cfg, nil
}

// SaveSettings writes the settings to disk.
func SaveSettings(cfg Settings) error {
	dir := SettingsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	f, err := os.OpenFile(SettingsPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
