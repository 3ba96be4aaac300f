package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/docwrangler/internal/config"
	"github.com/diogo/docwrangler/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewLogLevelSelect
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuCircuitBreaker
	menuRequestTimeout
	menuRateLimit
	menuLogLevel
	menuTheme    // Markdown theme
	menuTUITheme // TUI color theme
	menuExit
	menuItemCount
)

// Values cycled through by the numeric settings.
var (
	timeoutChoices   = []int{0, 15, 30, 60, 120}
	rateLimitChoices = []int{0, 10, 30, 60, 120}
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the settings menu shown by 'docwrangler config'.
type ConfigModel struct {
	config     config.Config
	configPath string
	logPath    string

	// Navigation
	view           configView
	cursor         int
	logLevelCursor int
	themeCursor    int // Markdown theme cursor
	tuiThemeCursor int // TUI theme cursor

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings menu from the config file. Environment
// overrides are not shown so they are never written back.
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadFileConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath()

	currentTheme := cfg.Markdown.Style
	if currentTheme == "" {
		currentTheme = render.ThemeDark
	}
	currentTUITheme := cfg.TUITheme
	if currentTUITheme == "" {
		currentTUITheme = "tokyonight"
	}
	currentLevel := cfg.LogLevel
	if currentLevel == "" {
		currentLevel = "info"
	}

	// Apply the configured TUI theme at startup
	render.SetTUITheme(currentTUITheme)
	UpdateTheme()

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logPath:         logPath,
		view:            viewMain,
		logLevelCursor:  indexOf(config.LogLevels(), currentLevel),
		themeCursor:     indexOf(render.ThemeNames(), currentTheme),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), currentTUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

// nextChoice returns the value after current in choices, wrapping around.
func nextChoice(choices []int, current int) int {
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// wrap moves cursor by delta within [0, n).
func wrap(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, delta, menuItemCount)
	case viewLogLevelSelect:
		m.logLevelCursor = wrap(m.logLevelCursor, delta, len(config.LogLevels()))
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor, delta, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor, delta, len(render.TUIThemeNames()))
	}
}

// save persists the config and reports the outcome as feedback.
func (m ConfigModel) save(done string) (tea.Model, tea.Cmd) {
	if err := config.SaveConfig(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = done
	}
	m.view = viewMain
	return m, clearFeedback(m.feedbackTimeout)
}

func toggled(name string, on bool) string {
	if on {
		return name + " enabled"
	}
	return name + " disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m.save(toggled("Verbose logging", m.config.Verbose))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.save(toggled("Copy to clipboard", m.config.CopyToClipboard))

		case menuCircuitBreaker:
			m.config.CircuitBreaker = !m.config.CircuitBreaker
			return m.save(toggled("Circuit breaker", m.config.CircuitBreaker))

		case menuRequestTimeout:
			m.config.RequestTimeoutSeconds = nextChoice(timeoutChoices, m.config.RequestTimeoutSeconds)
			return m.save("Request timeout set to " + formatTimeout(m.config.RequestTimeoutSeconds))

		case menuRateLimit:
			m.config.MaxRequestsPerMinute = nextChoice(rateLimitChoices, m.config.MaxRequestsPerMinute)
			return m.save("Rate limit set to " + formatRateLimit(m.config.MaxRequestsPerMinute))

		case menuLogLevel:
			m.view = viewLogLevelSelect
			return m, nil

		case menuTheme:
			m.view = viewThemeSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewLogLevelSelect:
		m.config.LogLevel = config.LogLevels()[m.logLevelCursor]
		return m.save("Log level set to " + m.config.LogLevel)

	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		render.ClearCache()
		return m.save("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected

		// Apply the new TUI theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()

		return m.save("TUI theme set to " + selected)
	}

	return m, nil
}

func formatTimeout(seconds int) string {
	if seconds <= 0 {
		return "none"
	}
	return strconv.Itoa(seconds) + "s"
}

func formatRateLimit(perMinute int) string {
	if perMinute <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d/min", perMinute)
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ DocWrangler Configuration"))
	sections = append(sections, header)

	sections = append(sections, configPanelStyle.Width(contentWidth).Render(m.renderConnection()))

	var settingsContent string
	switch m.view {
	case viewMain:
		settingsContent = m.renderMainMenu()
	case viewLogLevelSelect:
		settingsContent = m.renderChoice("Select Log Level", config.LogLevels(), nil, m.logLevelCursor, m.config.LogLevel)
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect()
	case viewTUIThemeSelect:
		settingsContent = m.renderTUIThemeSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settingsContent))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderConnection shows the files in use and the API connection.
func (m ConfigModel) renderConnection() string {
	api := m.config.API()

	url := configStatusErrorStyle.Render("✗ not configured")
	if api.Configured() {
		url = configStatusOkStyle.Render(api.BaseURL)
	}
	key := configValueStyle.Render("none")
	if api.APIKey != "" {
		key = configValueStyle.Render(api.MaskedKey())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Connection"),
		fmt.Sprintf("   API URL: %s", url),
		fmt.Sprintf("   API Key: %s", key),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Log:     %s", configPathStyle.Render(m.logPath)),
		hintStyle.Render("   Edit the connection with Ctrl+O in chat or 'docwrangler config set'"),
	)
}

func (m ConfigModel) renderItem(index int, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if m.cursor == index {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return fmt.Sprintf("%s%s%s%s", cursor, style.Render(label), strings.Repeat(" ", max(1, 20-len(label))), value)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	theme := m.config.Markdown.Style
	if theme == "" {
		theme = render.ThemeDark
	}
	tuiTheme := m.config.TUITheme
	if tuiTheme == "" {
		tuiTheme = "tokyonight"
	}
	level := m.config.LogLevel
	if level == "" {
		level = "info"
	}

	items := []string{
		m.renderItem(menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		m.renderItem(menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		m.renderItem(menuCircuitBreaker, "Circuit Breaker", m.renderBoolValue(m.config.CircuitBreaker)),
		m.renderItem(menuRequestTimeout, "Request Timeout", configValueStyle.Render(formatTimeout(m.config.RequestTimeoutSeconds))),
		m.renderItem(menuRateLimit, "Rate Limit", configValueStyle.Render(formatRateLimit(m.config.MaxRequestsPerMinute))),
		m.renderItem(menuLogLevel, "Log Level", configValueStyle.Render(level)),
		m.renderItem(menuTheme, "Markdown Theme", configValueStyle.Render(theme)),
		m.renderItem(menuTUITheme, "TUI Theme", configValueStyle.Render(tuiTheme)),
		"",
		m.renderItem(menuExit, "Exit", ""),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{configSectionTitleStyle.Render("⚙ Settings"), ""}, items...)...,
	)
}

// renderChoice renders a selection sub-menu. descriptions may be nil.
func (m ConfigModel) renderChoice(title string, names, descriptions []string, cursorAt int, current string) string {
	var items []string
	for i, name := range names {
		cursor := "  "
		style := configMenuItemStyle
		if cursorAt == i {
			cursor = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}

		marker := ""
		if name == current {
			marker = configStatusOkStyle.Render(" (current)")
		}

		text := name
		if descriptions != nil {
			text = fmt.Sprintf("%s - %s", name, descriptions[i])
		}
		items = append(items, cursor+style.Render(text)+marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{configSectionTitleStyle.Render(title), ""}, items...)...,
	)
}

// renderThemeSelect renders the markdown theme selection sub-menu
func (m ConfigModel) renderThemeSelect() string {
	current := m.config.Markdown.Style
	if current == "" {
		current = render.ThemeDark
	}

	themes := render.AvailableThemes()
	names := make([]string, len(themes))
	descs := make([]string, len(themes))
	for i, t := range themes {
		names[i], descs[i] = t.Name, t.Description
	}
	return m.renderChoice("Select Markdown Theme", names, descs, m.themeCursor, current)
}

// renderTUIThemeSelect renders the TUI color theme selection sub-menu
func (m ConfigModel) renderTUIThemeSelect() string {
	current := m.config.TUITheme
	if current == "" {
		current = "tokyonight"
	}

	themes := render.AvailableTUIThemes()
	names := make([]string, len(themes))
	descs := make([]string, len(themes))
	for i, t := range themes {
		names[i], descs[i] = t.Name, t.Description
	}
	return m.renderChoice("Select TUI Theme", names, descs, m.tuiThemeCursor, current)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

type shortcut struct {
	key  string
	desc string
}

// renderShortcuts joins key hints the way every status bar in the app does.
func renderShortcuts(shortcuts []shortcut) string {
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}
	return strings.Join(items, "  │  ")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	bar := renderShortcuts([]shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	})
	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunConfig starts the config TUI
func RunConfig() error {
	p := tea.NewProgram(
		NewConfigModel(),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
