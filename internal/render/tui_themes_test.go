package render

import "testing"

func TestTUIThemes_Complete(t *testing.T) {
	for _, theme := range AvailableTUIThemes() {
		t.Run(theme.Name, func(t *testing.T) {
			colors := map[string]string{
				"background": string(theme.Background),
				"surface":    string(theme.Surface),
				"border":     string(theme.Border),
				"primary":    string(theme.Primary),
				"secondary":  string(theme.Secondary),
				"accent":     string(theme.Accent),
				"warning":    string(theme.Warning),
				"error":      string(theme.Error),
				"text":       string(theme.Text),
				"text dim":   string(theme.TextDim),
				"text mute":  string(theme.TextMute),
			}
			for name, c := range colors {
				if c == "" {
					t.Errorf("%s color is empty", name)
				}
			}
			if theme.Description == "" {
				t.Error("description is empty")
			}
		})
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme(TokyoNightTheme.Name)

	if !SetTUITheme("nord") {
		t.Fatal("SetTUITheme(nord) = false")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("active theme = %q", GetTUITheme().Name)
	}

	if SetTUITheme("missing") {
		t.Error("unknown theme accepted")
	}
	if GetTUITheme().Name != "nord" {
		t.Error("unknown theme changed the active theme")
	}
}

func TestTUIThemeNames(t *testing.T) {
	names := TUIThemeNames()
	if len(names) != len(AvailableTUIThemes()) {
		t.Fatalf("names = %v", names)
	}
	for _, n := range names {
		if _, ok := GetTUIThemeByName(n); !ok {
			t.Errorf("GetTUIThemeByName(%q) failed", n)
		}
	}
}

func TestDecisionColor(t *testing.T) {
	theme := TokyoNightTheme
	tests := map[string]string{
		"approved": string(theme.Secondary),
		"APPROVED": string(theme.Secondary),
		"rejected": string(theme.Error),
		"pending":  string(theme.Warning),
		"UNKNOWN":  string(theme.TextDim),
		"":         string(theme.TextDim),
	}
	for in, want := range tests {
		if got := string(theme.DecisionColor(in)); got != want {
			t.Errorf("DecisionColor(%q) = %s, want %s", in, got, want)
		}
	}
}
