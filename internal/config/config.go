// Package config loads, defaults, and hot-reloads the TOML configuration
// file described in spec §6. It promotes github.com/BurntSushi/toml from
// a transitive dependency of the teacher's go.mod to a direct one: the
// teacher's own config.Config instead round-trips JSON
// (config/config.go), so the parsing idiom here — struct tags, Load,
// Save, a package-level default — is adapted from that file but driven
// by toml.Decode/toml.Encode instead of encoding/json.
package config

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var logger = log.New(os.Stderr, "config: ", log.LstdFlags)

//go:embed default.toml
var defaultTOML []byte

// Window holds [window] settings.
type Window struct {
	Width   uint32  `toml:"width"`
	Height  uint32  `toml:"height"`
	Opacity float32 `toml:"opacity"`
	Blur    bool    `toml:"blur"`
	Padding float32 `toml:"padding"`
}

// Font holds [font] settings.
type Font struct {
	Family     string  `toml:"family"`
	Size       float32 `toml:"size"`
	LineHeight float32 `toml:"line_height"`
}

// Colors holds [colors]: cursor/background/foreground plus the 16-color
// ANSI base palette, each a "#RRGGBB" or "#RRGGBBAA" hex string.
type Colors struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Cursor     string `toml:"cursor"`

	Black   string `toml:"black"`
	Red     string `toml:"red"`
	Green   string `toml:"green"`
	Yellow  string `toml:"yellow"`
	Blue    string `toml:"blue"`
	Magenta string `toml:"magenta"`
	Cyan    string `toml:"cyan"`
	White   string `toml:"white"`

	BrightBlack   string `toml:"bright_black"`
	BrightRed     string `toml:"bright_red"`
	BrightGreen   string `toml:"bright_green"`
	BrightYellow  string `toml:"bright_yellow"`
	BrightBlue    string `toml:"bright_blue"`
	BrightMagenta string `toml:"bright_magenta"`
	BrightCyan    string `toml:"bright_cyan"`
	BrightWhite   string `toml:"bright_white"`
}

// Animation holds [animation] settings.
type Animation struct {
	TargetFPS             uint32  `toml:"target_fps"`
	CursorSpringFrequency float32 `toml:"cursor_spring_frequency"`
	ScrollSpringFrequency float32 `toml:"scroll_spring_frequency"`
	CursorTrailEnabled    bool    `toml:"cursor_trail_enabled"`
}

// Background holds [background] settings.
type Background struct {
	ImagePath    string  `toml:"image_path"`
	ImageOpacity float32 `toml:"image_opacity"`
}

// Keybindings holds [keybindings]: platform-agnostic "Mod+Key" strings.
// The input decoder's fixed rules (spec §4.9) don't currently consult
// these at dispatch time; they are surfaced here so a config editor can
// display/validate them, matching the teacher's keybindings.Bindings
// being data the UI reads rather than a decoder input.
type Keybindings struct {
	SplitHorizontal string `toml:"split_horizontal"`
	SplitVertical   string `toml:"split_vertical"`
	ClosePane       string `toml:"close_pane"`
	FocusNextPane   string `toml:"focus_next_pane"`
	FocusPrevPane   string `toml:"focus_prev_pane"`
	OpenConfig      string `toml:"open_config"`
	NewTab          string `toml:"new_tab"`
	NewWindow       string `toml:"new_window"`
	Copy            string `toml:"copy"`
	Paste           string `toml:"paste"`
	ToggleTheme     string `toml:"toggle_theme"`
}

// Config is the parsed contents of config.toml.
type Config struct {
	Window      Window      `toml:"window"`
	Font        Font        `toml:"font"`
	Colors      Colors      `toml:"colors"`
	Animation   Animation   `toml:"animation"`
	Background  Background  `toml:"background"`
	Keybindings Keybindings `toml:"keybindings"`
}

// Default returns the embedded default configuration, parsed fresh each
// call so callers may freely mutate the result.
func Default() *Config {
	cfg := &Config{}
	if err := toml.Unmarshal(defaultTOML, cfg); err != nil {
		// The embedded default is authored alongside this package; a parse
		// failure here is a build-time bug, not a runtime condition.
		panic(fmt.Sprintf("config: embedded default.toml is invalid: %v", err))
	}
	return cfg
}

// Dir returns the platform-appropriate user-config directory's
// smooth_terminal subpath, matching spec §6's "File location".
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "smooth_terminal"), nil
}

// Path returns the full path to config.toml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config.toml, auto-creating it from the embedded default on
// first run. A parse failure logs a warning and returns the default
// configuration rather than failing startup (spec §7).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("read %s: %v; using defaults", path, err)
			return Default(), nil
		}
		if werr := writeDefault(path); werr != nil {
			logger.Printf("create default config at %s: %v", path, werr)
		}
		return Default(), nil
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		logger.Printf("parse %s: %v; using defaults", path, err)
		return Default(), err
	}
	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, defaultTOML, 0o644)
}

// Reload re-reads config.toml and reports whether it parsed cleanly. On
// failure the caller should keep using its previously-loaded Config, per
// spec §7's "log a warning and keep previous config".
func Reload() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		logger.Printf("parse %s: %v; keeping previous config", path, err)
		return nil, err
	}
	return cfg, nil
}
