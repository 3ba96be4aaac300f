package tui

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/docwrangler/internal/api"
	"github.com/diogo/docwrangler/internal/upload"
)

func TestParseDroppedPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"plain", "/tmp/policy.pdf", []string{"/tmp/policy.pdf"}},
		{"trailing space from drag", "/tmp/policy.pdf ", []string{"/tmp/policy.pdf"}},
		{"escaped spaces", `/tmp/my\ policy.pdf`, []string{"/tmp/my policy.pdf"}},
		{"single quoted", "'/tmp/my policy.pdf'", []string{"/tmp/my policy.pdf"}},
		{"double quoted", `"/tmp/my policy.pdf"`, []string{"/tmp/my policy.pdf"}},
		{"several files", "/a.pdf '/b c.docx' /d.txt", []string{"/a.pdf", "/b c.docx", "/d.txt"}},
		{"file url", "file:///tmp/claim.txt", []string{"/tmp/claim.txt"}},
		{"home", "~/docs/claim.pdf", []string{filepath.Join(home, "docs/claim.pdf")}},
		{"empty quotes", `""`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDroppedPaths(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseDroppedPaths(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUploadPane_DropUsesFirstPath(t *testing.T) {
	client := &api.MockDocWranglerClient{}
	pane := newUploadPane(upload.NewTracker())
	pane.focus()

	pane.input.SetValue("/a.pdf /b.pdf")
	pane, cmd := pane.update(client, tea.KeyMsg{Type: tea.KeyEnter})

	res := find[uploadResultMsg](t, cmd)
	if res.path != "/a.pdf" {
		t.Errorf("uploaded %q, want the first path", res.path)
	}
	if pane.input.Value() != "" {
		t.Error("drop should clear the input")
	}
}

func TestUploadPane_EscClearsHighlight(t *testing.T) {
	tracker := upload.NewTracker()
	pane := newUploadPane(tracker)
	pane.focus()

	pane, _ = pane.update(nil, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x.pdf")})
	if !tracker.Snapshot().Highlighted {
		t.Fatal("typing a path should highlight the drop zone")
	}

	pane, _ = pane.update(nil, tea.KeyMsg{Type: tea.KeyEsc})
	if tracker.Snapshot().Highlighted {
		t.Error("esc should clear the highlight")
	}
	if pane.input.Value() != "" {
		t.Error("esc should clear the input")
	}
}

func TestUploadPane_Browse(t *testing.T) {
	pane := newUploadPane(upload.NewTracker())
	pane.focus()

	pane, cmd := pane.update(nil, tea.KeyMsg{Type: tea.KeyCtrlF})
	if !pane.Browsing() {
		t.Fatal("ctrl+f should open the file picker")
	}
	if cmd == nil {
		t.Error("opening the picker should read the directory")
	}

	pane, _ = pane.update(nil, tea.KeyMsg{Type: tea.KeyEsc})
	if pane.Browsing() {
		t.Error("esc should close the file picker")
	}
}

func TestUploadPane_View(t *testing.T) {
	tracker := upload.NewTracker()
	pane := newUploadPane(tracker)
	pane.setWidth(80)

	if view := pane.view(false); !strings.Contains(view, "No document uploaded yet") {
		t.Errorf("idle view = %q", view)
	}

	_, ticket, _ := tracker.Start("/tmp/policy.pdf")
	if view := pane.view(true); !strings.Contains(view, "Uploading policy.pdf") {
		t.Errorf("uploading view = %q", view)
	}

	tracker.Finish(ticket, nil)
	if view := pane.view(true); !strings.Contains(view, "Uploaded: policy.pdf") {
		t.Errorf("success view = %q", view)
	}
}
