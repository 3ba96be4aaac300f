package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names accepted in the markdown.style setting.
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDecision   = "decision"
)

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the markdown styles offered in the config menu.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeDecision, Description: "Dark theme with highlighted decision fields"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: "dracula", Description: "Dracula color scheme"},
		{Name: "notty", Description: "Plain text (no styling)"},
		{Name: "ascii", Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// glamourName maps our style names onto glamour's.
func glamourName(style string) string {
	if style == ThemeTokyoNight {
		return styles.TokyoNightStyle
	}
	return style
}

// IsBuiltinStyle reports whether style names a bundled style rather than a file.
func IsBuiltinStyle(style string) bool {
	if style == ThemeDecision {
		return true
	}
	_, ok := styles.DefaultStyles[glamourName(style)]
	return ok
}

// IsValidStyle reports whether style is bundled or points at an existing JSON file.
func IsValidStyle(style string) bool {
	if IsBuiltinStyle(style) {
		return true
	}
	if !strings.HasSuffix(strings.ToLower(style), ".json") {
		return false
	}
	info, err := os.Stat(style)
	return err == nil && !info.IsDir()
}

// decisionStyle is the dark style with the bold decision and amount lines, the
// italic confidence line and the source bullets picked out in accent colors.
func decisionStyle() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	strong := cfg.Strong
	strong.Color = stringPtr("#7aa2f7")
	strong.Bold = boolPtr(true)
	cfg.Strong = strong

	emph := cfg.Emph
	emph.Color = stringPtr("#e0af68")
	emph.Italic = boolPtr(true)
	cfg.Emph = emph

	item := cfg.Item
	item.BlockPrefix = "• "
	cfg.Item = item

	return cfg
}

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
