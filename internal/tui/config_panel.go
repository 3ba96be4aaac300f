package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/docwrangler/internal/config"
)

// configSavedMsg reports the outcome of saving the connection settings.
type configSavedMsg struct {
	cfg config.APIConfig
	err error
}

// ConfigStore is the persisted API connection the settings panel edits.
type ConfigStore interface {
	Get() config.APIConfig
	Set(baseURL, apiKey string) error
}

const (
	fieldURL = iota
	fieldKey
	fieldCount
)

// ConfigPanel is the overlay that edits the API base URL and key.
type ConfigPanel struct {
	open   bool
	fields [fieldCount]textinput.Model
	focus  int
	err    error
}

func newConfigPanel() ConfigPanel {
	url := textinput.New()
	url.Placeholder = "http://localhost:8000"
	url.Prompt = ""
	url.CharLimit = 512

	key := textinput.New()
	key.Placeholder = "optional"
	key.Prompt = ""
	key.CharLimit = 512
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'

	return ConfigPanel{fields: [fieldCount]textinput.Model{url, key}}
}

// Open reports whether the overlay is visible.
func (p ConfigPanel) Open() bool {
	return p.open
}

// show opens the overlay prefilled from the store.
func (p *ConfigPanel) show(store ConfigStore) tea.Cmd {
	cfg := store.Get()
	p.fields[fieldURL].SetValue(cfg.BaseURL)
	p.fields[fieldKey].SetValue(cfg.APIKey)
	p.fields[fieldURL].CursorEnd()
	p.fields[fieldKey].CursorEnd()
	p.err = nil
	p.open = true
	return p.setFocus(fieldURL)
}

func (p *ConfigPanel) hide() {
	p.open = false
	for i := range p.fields {
		p.fields[i].Blur()
	}
}

func (p *ConfigPanel) setFocus(i int) tea.Cmd {
	p.focus = i
	var cmd tea.Cmd
	for j := range p.fields {
		if j == i {
			cmd = p.fields[j].Focus()
		} else {
			p.fields[j].Blur()
		}
	}
	return cmd
}

// save writes both fields to the store. Values are trimmed; an empty URL
// deconfigures the client.
func (p ConfigPanel) save(store ConfigStore) tea.Cmd {
	baseURL := strings.TrimSpace(p.fields[fieldURL].Value())
	apiKey := strings.TrimSpace(p.fields[fieldKey].Value())
	return func() tea.Msg {
		if err := store.Set(baseURL, apiKey); err != nil {
			return configSavedMsg{err: err}
		}
		return configSavedMsg{cfg: config.APIConfig{BaseURL: baseURL, APIKey: apiKey}}
	}
}

func (p ConfigPanel) update(store ConfigStore, msg tea.Msg) (ConfigPanel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.hide()
			return p, nil
		case "tab", "down":
			return p, p.setFocus((p.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return p, p.setFocus((p.focus + fieldCount - 1) % fieldCount)
		case "enter":
			return p, p.save(store)
		}
	}

	var cmd tea.Cmd
	p.fields[p.focus], cmd = p.fields[p.focus].Update(msg)
	return p, cmd
}

func (p ConfigPanel) view(width int) string {
	label := func(i int, text string) string {
		if p.focus == i {
			return configCursorStyle.Render("▸ ") + fieldLabelStyle.Render(text)
		}
		return "  " + fieldLabelStyle.Render(text)
	}

	rows := []string{
		titleStyle.Render("✦ API Settings"),
		"",
		label(fieldURL, "API Base URL"),
		"  " + p.fields[fieldURL].View(),
		"",
		label(fieldKey, "API Key"),
		"  " + p.fields[fieldKey].View(),
		"",
		hintStyle.Render("Requests go to <base>/webhook/query, <base>/api/upload and <base>/webhook/health"),
	}
	if p.err != nil {
		rows = append(rows, "", errorStyle.Render("✗ "+p.err.Error()))
	}
	rows = append(rows, "", renderShortcuts([]shortcut{
		{"Tab", "Next field"},
		{"Enter", "Save"},
		{"Esc", "Cancel"},
	}))

	return overlayStyle.Width(min(max(width-8, 40), 80)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
