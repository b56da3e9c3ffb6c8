// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	SampleDataURL string `toml:"sample_data_url"`
	ShareOrigin   string `toml:"share_origin"`
	BatchSize     int    `toml:"batch_size"`
	MinDelayMs    int    `toml:"min_delay_ms"`
	MaxDelayMs    int    `toml:"max_delay_ms"`
	Theme         Theme  `toml:"theme_colors"`
	Keys          KeyMap `toml:"keys"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// KeyMap defines key bindings. A chord only fires when the matching action
// has a handler; matched chords are consumed and never reach the editor.
type KeyMap struct {
	Execute       []string `toml:"execute"`
	Cancel        []string `toml:"cancel"`
	Save          []string `toml:"save"`
	NewTab        []string `toml:"new_tab"`
	CloseTab      []string `toml:"close_tab"`
	DuplicateTab  []string `toml:"duplicate_tab"`
	NextTab       []string `toml:"next_tab"`
	PrevTab       []string `toml:"prev_tab"`
	ToggleComment []string `toml:"toggle_comment"`
	Share         []string `toml:"share"`
	Export        []string `toml:"export"`
	Help          []string `toml:"help"`
	Exit          []string `toml:"exit"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		SampleDataURL: "https://sqlrunner.dev/data/sampleData.json",
		ShareOrigin:   "https://sqlrunner.dev",
		BatchSize:     100,
		MinDelayMs:    300,
		MaxDelayMs:    1500,
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
		Keys: KeyMap{
			// ctrl+enter is not representable in every terminal, so each
			// chord keeps a plain ctrl fallback.
			Execute:       []string{"ctrl+enter", "ctrl+e"},
			Cancel:        []string{"ctrl+x"},
			Save:          []string{"ctrl+s"},
			NewTab:        []string{"ctrl+t"},
			CloseTab:      []string{"ctrl+w"},
			DuplicateTab:  []string{"ctrl+y"},
			NextTab:       []string{"ctrl+right", "ctrl+l"},
			PrevTab:       []string{"ctrl+left", "ctrl+h"},
			ToggleComment: []string{"ctrl+/", "ctrl+_"},
			Share:         []string{"ctrl+g"},
			Export:        []string{"ctrl+o"},
			Help:          []string{"ctrl+k"},
			Exit:          []string{"ctrl+c"},
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("sqlrunner/config.toml")
}

// StoreDir returns the XDG-compliant directory backing the key-value store
func StoreDir() (string, error) {
	path, err := xdg.DataFile("sqlrunner/store/.keep")
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// Load loads the config from disk or creates default
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg, updated, err := loadFrom(path)
	if err != nil {
		return nil, err
	}
	if updated {
		// Persist backfilled defaults so the user can see and edit them
		_ = cfg.Save()
	}
	return cfg, nil
}

// LoadFrom loads the config from an explicit path. Missing fields are
// backfilled with defaults in memory; unlike Load, nothing is written back.
func LoadFrom(path string) (*Config, error) {
	cfg, _, err := loadFrom(path)
	return cfg, err
}

func loadFrom(path string) (*Config, bool, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, false, err
	}

	// Populate defaults for missing fields (migration)
	defaults := DefaultConfig()
	updated := false

	if cfg.Theme.TextPrimary == "" {
		cfg.Theme = defaults.Theme
		updated = true
	}
	if len(cfg.Keys.Execute) == 0 {
		cfg.Keys = defaults.Keys
		updated = true
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
		updated = true
	}
	if cfg.ShareOrigin == "" {
		cfg.ShareOrigin = defaults.ShareOrigin
		updated = true
	}
	if cfg.SampleDataURL == "" {
		cfg.SampleDataURL = defaults.SampleDataURL
		updated = true
	}
	if cfg.MinDelayMs <= 0 || cfg.MaxDelayMs <= cfg.MinDelayMs {
		cfg.MinDelayMs = defaults.MinDelayMs
		cfg.MaxDelayMs = defaults.MaxDelayMs
		updated = true
	}

	return &cfg, updated, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
