package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/docwrangler/internal/api"
	"github.com/diogo/docwrangler/internal/models"
	"github.com/diogo/docwrangler/internal/upload"
)

// uploadResultMsg carries the outcome of one upload back to the upload pane.
type uploadResultMsg struct {
	ticket upload.Ticket
	path   string
	result *models.UploadResult
	err    error
}

const pickerHeight = 8

// UploadPane is the document drop zone. Terminals deliver a dragged file as pasted
// text, so a path typed or pasted into the zone and confirmed with Enter counts as a drop.
type UploadPane struct {
	tracker  *upload.Tracker
	input    textinput.Model
	picker   filepicker.Model
	spinner  spinner.Model
	browsing bool
	width    int
}

func newUploadPane(tracker *upload.Tracker) UploadPane {
	ti := textinput.New()
	ti.Placeholder = "Paste or type a document path, then press Enter"
	ti.Prompt = "⇣ "
	ti.CharLimit = 1024

	fp := filepicker.New()
	fp.AllowedTypes = api.AllowedDocumentTypes()
	fp.AutoHeight = false
	fp.Height = pickerHeight
	fp.ShowPermissions = false
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = uploadBusyStyle

	return UploadPane{
		tracker: tracker,
		input:   ti,
		picker:  fp,
		spinner: sp,
	}
}

// Browsing reports whether the file picker is open.
func (p UploadPane) Browsing() bool {
	return p.browsing
}

func (p *UploadPane) setWidth(width int) {
	p.width = width
	p.input.Width = max(width-10, 10)
}

func (p *UploadPane) focus() tea.Cmd {
	return p.input.Focus()
}

func (p *UploadPane) blur() {
	p.input.Blur()
	p.browsing = false
}

// browse opens the file picker.
func (p *UploadPane) browse() tea.Cmd {
	p.browsing = true
	return p.picker.Init()
}

// start uploads the first of paths, superseding any upload in flight.
func (p *UploadPane) start(client api.DocWranglerClientInterface, paths ...string) tea.Cmd {
	path, ticket, ok := p.tracker.Drop(paths...)
	if !ok {
		return nil
	}
	p.browsing = false
	p.input.Reset()

	return tea.Batch(
		func() tea.Msg {
			res, err := client.UploadDocument(context.Background(), path)
			return uploadResultMsg{ticket: ticket, path: path, result: res, err: err}
		},
		p.spinner.Tick,
	)
}

// finish applies an upload result. Results from superseded uploads are ignored.
func (p *UploadPane) finish(msg uploadResultMsg) bool {
	return p.tracker.Finish(msg.ticket, msg.err)
}

// update handles input while the pane has focus.
func (p UploadPane) update(client api.DocWranglerClientInterface, msg tea.Msg) (UploadPane, tea.Cmd) {
	if p.browsing {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.browsing = false
			return p, nil
		}

		var cmd tea.Cmd
		p.picker, cmd = p.picker.Update(msg)
		if selected, path := p.picker.DidSelectFile(msg); selected {
			return p, tea.Batch(cmd, p.start(client, path))
		}
		return p, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+f":
			return p, p.browse()
		case "enter":
			return p, p.start(client, parseDroppedPaths(p.input.Value())...)
		case "esc":
			p.input.Reset()
			p.tracker.DragLeave()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if strings.TrimSpace(p.input.Value()) != "" {
		p.tracker.DragOver()
	} else {
		p.tracker.DragLeave()
	}
	return p, cmd
}

func (p UploadPane) updateSpinner(msg spinner.TickMsg) (UploadPane, tea.Cmd) {
	if !p.tracker.Snapshot().Uploading() {
		return p, nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return p, cmd
}

// updatePicker forwards directory listings that arrive while the pane is blurred.
func (p UploadPane) updatePicker(msg tea.Msg) (UploadPane, tea.Cmd) {
	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)
	return p, cmd
}

func (p UploadPane) view(focused bool) string {
	snap := p.tracker.Snapshot()
	innerWidth := max(p.width-6, 10)

	var status string
	switch snap.Status {
	case upload.StatusUploading:
		status = p.spinner.View() + uploadBusyStyle.Render(" Uploading "+snap.File+"...")
	case upload.StatusSuccess:
		status = uploadOkStyle.Render("✓ " + snap.Message)
	case upload.StatusError:
		status = uploadErrStyle.Render("✗ " + snap.Message)
	default:
		status = hintStyle.Render("No document uploaded yet")
	}

	var body string
	if p.browsing {
		body = lipgloss.JoinVertical(lipgloss.Left,
			hintStyle.Render(p.picker.CurrentDirectory),
			p.picker.View(),
			hintStyle.Render("enter select  •  esc close"),
		)
	} else {
		zone := dropZoneStyle
		if snap.Highlighted {
			zone = dropZoneActiveStyle
		}
		types := strings.ToUpper(strings.ReplaceAll(strings.Join(api.AllowedDocumentTypes(), " "), ".", ""))
		body = zone.Width(innerWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
			p.input.View(),
			hintStyle.Render("Drop a file here or press Ctrl+F to browse  •  "+types),
		))
	}

	style := paneStyle
	if focused {
		style = paneFocusedStyle
	}
	return style.Width(p.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		paneTitleStyle.Render("Documents"),
		body,
		status,
	))
}

// parseDroppedPaths splits pasted text into file paths. Quoted segments and
// backslash-escaped spaces are kept together, file:// prefixes are stripped and a
// leading ~ is expanded.
func parseDroppedPaths(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		pending bool
	)

	flush := func() {
		if pending {
			paths = append(paths, normalizeDroppedPath(current.String()))
		}
		current.Reset()
		pending = false
	}

	for _, r := range strings.TrimSpace(text) {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			pending = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeDroppedPath(path string) string {
	path = strings.TrimPrefix(path, "file://")
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
