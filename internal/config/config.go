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
	DefaultEnvironment string        `toml:"default_environment"`
	PageSize           int           `toml:"page_size"`
	HistoryPreviewRows int           `toml:"history_preview_rows"`
	VimKeys            bool          `toml:"vim_keys"`
	Pager              string        `toml:"pager"`
	Environments       []Environment `toml:"environments"`
	Theme              Theme         `toml:"theme_colors"`
	Keys               KeyMap        `toml:"keys"`

	// path is where Save writes; empty means the XDG location.
	path string
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
	Lookup        string `toml:"lookup"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
	SyntaxStyle   string `toml:"syntax_style"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Up           []string `toml:"up"`
	Down         []string `toml:"down"`
	Left         []string `toml:"left"`
	Right        []string `toml:"right"`
	Execute      []string `toml:"execute"`
	Exit         []string `toml:"exit"`
	Back         []string `toml:"back"`
	Search       []string `toml:"search"`
	NextSection  []string `toml:"next_section"`
	PrevTab      []string `toml:"prev_tab"`
	Toggle       []string `toml:"toggle"`
	SelectAll    []string `toml:"select_all"`
	ClearAll     []string `toml:"clear_all"`
	Delete       []string `toml:"delete"`
	Clear        []string `toml:"clear"`
	NextPage     []string `toml:"next_page"`
	RawJSON      []string `toml:"raw_json"`
	Export       []string `toml:"export"`
	FetchXML     []string `toml:"fetchxml"`
	History      []string `toml:"history"`
	Solutions    []string `toml:"solutions"`
	Users        []string `toml:"users"`
	Environments []string `toml:"environments"`
	Help         []string `toml:"help"`
	Copy         []string `toml:"copy"`
	Pager        []string `toml:"pager"`
}

// Environment is a Dataverse environment the user can connect to
type Environment struct {
	Name     string `toml:"name"`
	URL      string `toml:"url"`
	TenantID string `toml:"tenant_id,omitempty"`
	ClientID string `toml:"client_id,omitempty"`
	// ClientSecret is kept in memory for usage
	ClientSecret string `toml:"-"`
	// EncryptedClientSecret is the one persisted in the config file
	EncryptedClientSecret string `toml:"client_secret,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultEnvironment: "",
		PageSize:           50,
		HistoryPreviewRows: 3,
		Environments:       []Environment{},
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
			Lookup:        "#B48EAD",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
			SyntaxStyle:   "nord",
		},
		Keys: DefaultKeys(),
	}
}

// DefaultKeys returns the arrow-key bindings.
func DefaultKeys() KeyMap {
	return KeyMap{
		Up:           []string{"up"},
		Down:         []string{"down"},
		Left:         []string{"left"},
		Right:        []string{"right"},
		Execute:      []string{"f5", "ctrl+r"},
		Exit:         []string{"ctrl+c", "q"},
		Back:         []string{"esc"},
		Search:       []string{"/"},
		NextSection:  []string{"tab"},
		PrevTab:      []string{"shift+tab"},
		Toggle:       []string{" ", "space"},
		SelectAll:    []string{"a"},
		ClearAll:     []string{"c"},
		Delete:       []string{"d"},
		Clear:        []string{"ctrl+l"},
		NextPage:     []string{"n", "pgdown"},
		RawJSON:      []string{"r"},
		Export:       []string{"e"},
		FetchXML:     []string{"f"},
		History:      []string{"H"},
		Solutions:    []string{"S"},
		Users:        []string{"U"},
		Environments: []string{"E"},
		Help:         []string{"?"},
		Copy:         []string{"y"},
		Pager:        []string{"p"},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("ezdv/config.toml")
}

// masterKey is swapped out in tests so they never touch the system keyring.
var masterKey = GetMasterKey

// Load loads the config from disk or creates default
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path, creating it with defaults on first run
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	// Populate defaults for missing fields (migration)
	if cfg.migrate() {
		// Proceed with in-memory defaults even if save fails
		_ = cfg.Save()
	}

	// Decrypt secrets
	if key, err := masterKey(); err == nil {
		for i := range cfg.Environments {
			if cfg.Environments[i].EncryptedClientSecret != "" {
				decrypted, err := Decrypt(cfg.Environments[i].EncryptedClientSecret, key)
				if err == nil {
					cfg.Environments[i].ClientSecret = decrypted
				}
			}
		}
	}

	return &cfg, nil
}

// migrate fills sections missing from older files and reports whether
// anything changed.
func (c *Config) migrate() bool {
	defaults := DefaultConfig()
	updated := false

	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	if c.Theme.Lookup == "" {
		c.Theme.Lookup = defaults.Theme.Lookup
		updated = true
	}
	if len(c.Keys.Execute) == 0 {
		c.Keys = defaults.Keys
		updated = true
	}
	if len(c.Keys.Up) == 0 {
		c.Keys.Up, c.Keys.Down = defaults.Keys.Up, defaults.Keys.Down
		c.Keys.Left, c.Keys.Right = defaults.Keys.Left, defaults.Keys.Right
		updated = true
	}
	if len(c.Keys.Clear) == 0 {
		c.Keys.Clear = defaults.Keys.Clear
		updated = true
	}
	if len(c.Keys.Copy) == 0 {
		c.Keys.Copy, c.Keys.Pager = defaults.Keys.Copy, defaults.Keys.Pager
		updated = true
	}
	if len(c.Keys.Solutions) == 0 {
		c.Keys.Solutions, c.Keys.Users = defaults.Keys.Solutions, defaults.Keys.Users
		updated = true
	}
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
		updated = true
	}
	return updated
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	// Encrypt secrets before saving
	if key, err := masterKey(); err == nil {
		for i := range c.Environments {
			if c.Environments[i].ClientSecret != "" {
				encrypted, err := Encrypt(c.Environments[i].ClientSecret, key)
				if err == nil {
					c.Environments[i].EncryptedClientSecret = encrypted
				}
			}
		}
	}

	return toml.NewEncoder(f).Encode(c)
}

// EffectiveKeys returns the key map with vim motions added when VimKeys is on.
func (c *Config) EffectiveKeys() KeyMap {
	keys := c.Keys
	if c.VimKeys {
		keys.Up = appendMissing(keys.Up, "k")
		keys.Down = appendMissing(keys.Down, "j")
		keys.Left = appendMissing(keys.Left, "h")
		keys.Right = appendMissing(keys.Right, "l")
	}
	return keys
}

func appendMissing(list []string, key string) []string {
	for _, k := range list {
		if k == key {
			return list
		}
	}
	return append(append([]string{}, list...), key)
}
