package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/docwrangler/internal/config"
	"github.com/diogo/docwrangler/internal/render"
)

func newTestConfigModel(t *testing.T) ConfigModel {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvAPIKey, "")
	t.Cleanup(func() {
		render.SetTUITheme("tokyonight")
		UpdateTheme()
	})

	m := NewConfigModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(ConfigModel)
}

func pressConfig(m ConfigModel, k tea.KeyType) (ConfigModel, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(ConfigModel), cmd
}

func TestConfigModel_Defaults(t *testing.T) {
	m := newTestConfigModel(t)

	if m.view != viewMain || m.cursor != 0 {
		t.Errorf("view = %v cursor = %d, want main menu at top", m.view, m.cursor)
	}
	view := m.View()
	for _, want := range []string{"DocWrangler Configuration", "not configured", "Circuit Breaker", "Request Timeout"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestConfigModel_NavigationWraps(t *testing.T) {
	m := newTestConfigModel(t)

	m, _ = pressConfig(m, tea.KeyUp)
	if m.cursor != menuExit {
		t.Errorf("up from top: cursor = %d, want %d", m.cursor, menuExit)
	}
	m, _ = pressConfig(m, tea.KeyDown)
	if m.cursor != 0 {
		t.Errorf("down from bottom: cursor = %d, want 0", m.cursor)
	}
}

func TestConfigModel_TogglesPersist(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		get    func(config.Config) bool
	}{
		{"verbose", menuVerbose, func(c config.Config) bool { return c.Verbose }},
		{"clipboard", menuCopyToClipboard, func(c config.Config) bool { return c.CopyToClipboard }},
		{"breaker", menuCircuitBreaker, func(c config.Config) bool { return c.CircuitBreaker }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestConfigModel(t)
			m.cursor = tt.cursor

			m, cmd := pressConfig(m, tea.KeyEnter)
			if cmd == nil {
				t.Error("toggle should schedule clearing the feedback")
			}
			if !strings.Contains(m.feedback, "enabled") {
				t.Errorf("feedback = %q", m.feedback)
			}

			saved, err := config.LoadFileConfig()
			if err != nil {
				t.Fatal(err)
			}
			if !tt.get(saved) {
				t.Error("toggle was not saved")
			}
		})
	}
}

func TestConfigModel_CyclesTimeout(t *testing.T) {
	m := newTestConfigModel(t)
	m.cursor = menuRequestTimeout

	m, _ = pressConfig(m, tea.KeyEnter)
	if m.config.RequestTimeoutSeconds != 15 {
		t.Errorf("timeout = %d, want 15", m.config.RequestTimeoutSeconds)
	}
	if m.feedback != "Request timeout set to 15s" {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_LogLevelSelect(t *testing.T) {
	m := newTestConfigModel(t)
	m.cursor = menuLogLevel

	m, _ = pressConfig(m, tea.KeyEnter)
	if m.view != viewLogLevelSelect {
		t.Fatal("enter should open the log level list")
	}

	m.logLevelCursor = 0
	m, _ = pressConfig(m, tea.KeyEnter)
	if m.view != viewMain {
		t.Error("selection should return to the main menu")
	}

	saved, err := config.LoadFileConfig()
	if err != nil {
		t.Fatal(err)
	}
	if saved.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", saved.LogLevel)
	}
}

func TestConfigModel_TUIThemeAppliesImmediately(t *testing.T) {
	m := newTestConfigModel(t)
	m.cursor = menuTUITheme
	m, _ = pressConfig(m, tea.KeyEnter)

	m.tuiThemeCursor = indexOf(render.TUIThemeNames(), "nord")
	pressConfig(m, tea.KeyEnter)

	if got := render.GetTUITheme().Name; got != "nord" {
		t.Errorf("current TUI theme = %q, want nord", got)
	}
}

func TestConfigModel_EscBacksOutThenQuits(t *testing.T) {
	m := newTestConfigModel(t)
	m.cursor = menuTheme
	m, _ = pressConfig(m, tea.KeyEnter)
	if m.view != viewThemeSelect {
		t.Fatal("enter should open the markdown theme list")
	}

	m, cmd := pressConfig(m, tea.KeyEsc)
	if m.view != viewMain || cmd != nil {
		t.Error("esc in a sub-view should go back without quitting")
	}

	_, cmd = pressConfig(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc on the main menu should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc on the main menu should quit")
	}
}

func TestConfigModel_FeedbackClears(t *testing.T) {
	m := newTestConfigModel(t)
	m.feedback = "done"

	updated, _ := m.Update(feedbackClearMsg{})
	if updated.(ConfigModel).feedback != "" {
		t.Error("feedbackClearMsg should clear the feedback")
	}
}

func TestNextChoice(t *testing.T) {
	if got := nextChoice(timeoutChoices, 120); got != 0 {
		t.Errorf("nextChoice wraps to %d, want 0", got)
	}
	if got := nextChoice(timeoutChoices, 7); got != 0 {
		t.Errorf("unknown value maps to %d, want the first choice", got)
	}
}
