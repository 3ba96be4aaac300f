package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme for the chat and upload panes.
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Background:  "#1a1b26",
		Surface:     "#24283b",
		Border:      "#414868",
		Primary:     "#7aa2f7",
		Secondary:   "#9ece6a",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
		TextMute:    "#3b4261",
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Background:  "#1e1e2e",
		Surface:     "#313244",
		Border:      "#45475a",
		Primary:     "#89b4fa",
		Secondary:   "#a6e3a1",
		Accent:      "#cba6f7",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
		TextMute:    "#45475a",
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - cool arctic tones",
		Background:  "#2e3440",
		Surface:     "#3b4252",
		Border:      "#4c566a",
		Primary:     "#88c0d0",
		Secondary:   "#a3be8c",
		Accent:      "#b48ead",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
		TextMute:    "#4c566a",
	}

	// PaperTheme suits light terminal backgrounds.
	PaperTheme = TUITheme{
		Name:        "paper",
		Description: "Paper - light background, ink colors",
		Background:  "#fafafa",
		Surface:     "#eeeeee",
		Border:      "#bdbdbd",
		Primary:     "#1565c0",
		Secondary:   "#2e7d32",
		Accent:      "#6a1b9a",
		Warning:     "#ef6c00",
		Error:       "#c62828",
		Text:        "#212121",
		TextDim:     "#616161",
		TextMute:    "#9e9e9e",
	}
)

var tuiThemes = []TUITheme{TokyoNightTheme, CatppuccinMochaTheme, NordTheme, PaperTheme}

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active TUI theme.
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave the theme unchanged.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name.
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range tuiThemes {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns all TUI themes.
func AvailableTUIThemes() []TUITheme {
	out := make([]TUITheme, len(tuiThemes))
	copy(out, tuiThemes)
	return out
}

// TUIThemeNames returns just the theme names for selection.
func TUIThemeNames() []string {
	names := make([]string, len(tuiThemes))
	for i, t := range tuiThemes {
		names[i] = t.Name
	}
	return names
}

// DecisionColor picks the badge color for a decision label.
func (t TUITheme) DecisionColor(decision string) lipgloss.Color {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "approved", "approve", "accepted", "covered":
		return t.Secondary
	case "rejected", "reject", "denied", "deny", "declined":
		return t.Error
	case "pending", "review", "manual_review":
		return t.Warning
	default:
		return t.TextDim
	}
}
