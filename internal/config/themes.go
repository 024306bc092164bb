package config

// Theme is a named [colors] preset. Presets are a supplemented feature
// grounded on the teacher's config.ThemeOptions/render.ThemeByName
// (config/themes.go, render/render.go ThemeByName): the teacher selects
// a theme by name and resolves it to a Colors-shaped struct; here that
// becomes an explicit preset table callers can apply over a Config's
// [colors] section instead of (or before) hex overrides.
type Theme struct {
	Name   string
	Colors Colors
}

// Themes lists the built-in color presets; ThemeByName looks one up by
// name. The config file has no theme-name key: [colors] takes only
// explicit hex values.
func Themes() []Theme {
	return []Theme{
		{Name: "raven-blue", Colors: Colors{
			Background: "#0b1622", Foreground: "#dce6f0", Cursor: "#dce6f0",
			Black: "#0b1622", Red: "#d4717a", Green: "#8fd19e", Yellow: "#e2c08d",
			Blue: "#5a9bd4", Magenta: "#b48ead", Cyan: "#6fc2cf", White: "#dce6f0",
			BrightBlack: "#3c4b5c", BrightRed: "#e08a92", BrightGreen: "#a5e0b2",
			BrightYellow: "#edd2a4", BrightBlue: "#7bb3e0", BrightMagenta: "#c9a8c4",
			BrightCyan: "#8fd6e1", BrightWhite: "#ffffff",
		}},
		{Name: "crow-black", Colors: Colors{
			Background: "#000000", Foreground: "#e6e6e6", Cursor: "#e6e6e6",
			Black: "#000000", Red: "#cd3131", Green: "#0dbc79", Yellow: "#e5e515",
			Blue: "#2472c8", Magenta: "#bc3fbc", Cyan: "#11a8cd", White: "#e5e5e5",
			BrightBlack: "#666666", BrightRed: "#f14c4c", BrightGreen: "#23d18b",
			BrightYellow: "#f5f543", BrightBlue: "#3b8eea", BrightMagenta: "#d670d6",
			BrightCyan: "#29b8db", BrightWhite: "#ffffff",
		}},
		{Name: "magpie-black-white-grey", Colors: Colors{
			Background: "#1a1a1a", Foreground: "#f2f2f2", Cursor: "#f2f2f2",
			Black: "#1a1a1a", Red: "#8a8a8a", Green: "#b0b0b0", Yellow: "#cfcfcf",
			Blue: "#9a9a9a", Magenta: "#c0c0c0", Cyan: "#b5b5b5", White: "#f2f2f2",
			BrightBlack: "#4d4d4d", BrightRed: "#a0a0a0", BrightGreen: "#c8c8c8",
			BrightYellow: "#e0e0e0", BrightBlue: "#b4b4b4", BrightMagenta: "#d8d8d8",
			BrightCyan: "#cccccc", BrightWhite: "#ffffff",
		}},
		{Name: "catppuccin-mocha", Colors: Colors{
			Background: "#1e1e2e", Foreground: "#cdd6f4", Cursor: "#f5e0dc",
			Black: "#45475a", Red: "#f38ba8", Green: "#a6e3a1", Yellow: "#f9e2af",
			Blue: "#89b4fa", Magenta: "#f5c2e7", Cyan: "#94e2d5", White: "#bac2de",
			BrightBlack: "#585b70", BrightRed: "#f38ba8", BrightGreen: "#a6e3a1",
			BrightYellow: "#f9e2af", BrightBlue: "#89b4fa", BrightMagenta: "#f5c2e7",
			BrightCyan: "#94e2d5", BrightWhite: "#a6adc8",
		}},
	}
}

// ThemeByName returns the named preset's Colors, or the default config's
// [colors] section if name is empty or unrecognized.
func ThemeByName(name string) Colors {
	for _, t := range Themes() {
		if t.Name == name {
			return t.Colors
		}
	}
	return Default().Colors
}
