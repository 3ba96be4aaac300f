package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/docwrangler/internal/config"
)

func TestConfigPanel_TabCyclesFields(t *testing.T) {
	panel := newConfigPanel()
	panel.show(&memStore{})

	if panel.focus != fieldURL {
		t.Fatal("panel should open on the URL field")
	}
	panel, _ = panel.update(nil, tea.KeyMsg{Type: tea.KeyTab})
	if panel.focus != fieldKey {
		t.Error("tab should move to the key field")
	}
	panel, _ = panel.update(nil, tea.KeyMsg{Type: tea.KeyTab})
	if panel.focus != fieldURL {
		t.Error("tab should wrap to the URL field")
	}
	panel, _ = panel.update(nil, tea.KeyMsg{Type: tea.KeyShiftTab})
	if panel.focus != fieldKey {
		t.Error("shift+tab should wrap backwards")
	}
}

func TestConfigPanel_TypingEditsFocusedField(t *testing.T) {
	panel := newConfigPanel()
	panel.show(&memStore{})

	panel, _ = panel.update(nil, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("http://x")})
	if got := panel.fields[fieldURL].Value(); got != "http://x" {
		t.Errorf("URL field = %q", got)
	}
	if got := panel.fields[fieldKey].Value(); got != "" {
		t.Errorf("key field = %q, want untouched", got)
	}
}

func TestConfigPanel_SaveEmptyDeconfigures(t *testing.T) {
	store := &memStore{cfg: config.APIConfig{BaseURL: "http://svc", APIKey: "k"}}
	panel := newConfigPanel()
	panel.show(store)

	panel.fields[fieldURL].SetValue("")
	panel.fields[fieldKey].SetValue("   ")

	msg := panel.save(store)().(configSavedMsg)
	if msg.err != nil {
		t.Fatalf("save returned %v", msg.err)
	}
	if store.cfg != (config.APIConfig{}) {
		t.Errorf("store holds %+v, want empty", store.cfg)
	}
}

func TestConfigPanel_KeyIsMasked(t *testing.T) {
	panel := newConfigPanel()
	panel.show(&memStore{cfg: config.APIConfig{BaseURL: "http://svc", APIKey: "supersecret"}})

	if view := panel.view(100); strings.Contains(view, "supersecret") {
		t.Error("the API key should not be rendered in clear text")
	}
}
