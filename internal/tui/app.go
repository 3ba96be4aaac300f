package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/docwrangler/internal/api"
	"github.com/diogo/docwrangler/internal/chat"
	"github.com/diogo/docwrangler/internal/config"
	"github.com/diogo/docwrangler/internal/models"
	"github.com/diogo/docwrangler/internal/render"
	"github.com/diogo/docwrangler/internal/upload"
)

type focusArea int

const (
	focusChat focusArea = iota
	focusUpload
)

// Fixed heights of the layout chrome.
const (
	headerHeight     = 3
	uploadHeight     = 8
	uploadOpenHeight = uploadHeight + pickerHeight + 2
	chatChrome       = 6
	footerHeight     = 2
)

type (
	// configChangedMsg is sent when the config file changes on disk.
	configChangedMsg struct {
		cfg config.APIConfig
	}

	healthMsg struct {
		status *models.HealthStatus
		err    error
	}
)

// ClientFactory builds an API client for a connection.
type ClientFactory func(config.APIConfig) api.DocWranglerClientInterface

// ConfigWatcher reports config file changes until ctx is done.
type ConfigWatcher interface {
	Watch(ctx context.Context, fn func(config.APIConfig)) error
}

// AppModel is the root of the chat TUI: the upload pane, the chat pane and the
// settings overlay share one API client, rebuilt whenever the connection changes.
type AppModel struct {
	client    api.DocWranglerClientInterface
	newClient ClientFactory
	store     ConfigStore
	apiCfg    config.APIConfig
	logger    *zap.Logger

	copyToClipboard bool
	writeClipboard  func(string) error
	now             func() time.Time
	renderOpts      render.Options

	chat   ChatPane
	upload UploadPane
	panel  ConfigPanel
	focus  focusArea

	feedback        string
	feedbackTimeout time.Duration
	err             error

	width  int
	height int
	ready  bool
}

// AppOption configures an AppModel
type AppOption func(*AppModel)

// WithAppLogger sets the logger
func WithAppLogger(logger *zap.Logger) AppOption {
	return func(m *AppModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithCopyToClipboard copies every answer to the clipboard as it arrives.
func WithCopyToClipboard(enabled bool) AppOption {
	return func(m *AppModel) {
		m.copyToClipboard = enabled
	}
}

// WithClipboard replaces the clipboard writer
func WithClipboard(write func(string) error) AppOption {
	return func(m *AppModel) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}

// WithRenderOptions sets the markdown options for bot replies
func WithRenderOptions(opts render.Options) AppOption {
	return func(m *AppModel) {
		m.renderOpts = opts
	}
}

// WithAppClock overrides the time source used for export file names
func WithAppClock(now func() time.Time) AppOption {
	return func(m *AppModel) {
		if now != nil {
			m.now = now
		}
	}
}

// NewAppModel creates the root model. When the store holds no base URL the
// settings overlay starts open.
func NewAppModel(client api.DocWranglerClientInterface, store ConfigStore, newClient ClientFactory, opts ...AppOption) AppModel {
	m := AppModel{
		client:          client,
		newClient:       newClient,
		store:           store,
		apiCfg:          store.Get(),
		logger:          zap.NewNop(),
		writeClipboard:  clipboard.WriteAll,
		now:             time.Now,
		renderOpts:      render.DefaultOptions(),
		upload:          newUploadPane(upload.NewTracker()),
		panel:           newConfigPanel(),
		focus:           focusChat,
		feedbackTimeout: 3 * time.Second,
	}

	for _, opt := range opts {
		opt(&m)
	}
	m.chat = newChatPane(chat.NewSession(chat.WithSessionLogger(m.logger)), m.renderOpts)

	if !m.apiCfg.Configured() {
		m.panel.show(store)
	}
	return m
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		tea.SetWindowTitle("DocWrangler"),
	)
}

// Update handles messages and updates the model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
		m.layout()
		return m, cmd

	case queryResultMsg:
		if m.chat.finish(msg) && msg.err == nil && m.copyToClipboard {
			if reply, ok := m.chat.lastBotMessage(); ok {
				if err := m.writeClipboard(reply); err != nil {
					m.logger.Warn("clipboard copy failed", zap.Error(err))
				}
			}
		}
		return m, nil

	case uploadResultMsg:
		if !m.upload.finish(msg) {
			m.logger.Debug("dropping superseded upload result", zap.String("path", msg.path))
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("upload failed", zap.String("path", msg.path), zap.Error(msg.err))
		} else if msg.result != nil {
			m.logger.Info("upload result",
				zap.String("path", msg.path),
				zap.String("document_id", msg.result.DocumentID),
				zap.String("message", msg.result.Message),
			)
		}
		return m, nil

	case animationTickMsg:
		if m.chat.Loading() {
			m.chat.animationFrame++
			return m, animationTick()
		}
		return m, nil

	case spinner.TickMsg:
		m.upload, cmd = m.upload.updateSpinner(msg)
		return m, cmd

	case configSavedMsg:
		if msg.err != nil {
			m.panel.err = msg.err
			return m, nil
		}
		m.panel.hide()
		m.applyConfig(msg.cfg)
		cmd = m.focusCurrent()
		return m, tea.Batch(cmd, m.notify("Settings saved"))

	case configChangedMsg:
		if msg.cfg == m.apiCfg {
			return m, nil
		}
		m.applyConfig(msg.cfg)
		return m, m.notify("Configuration reloaded")

	case healthMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.status.Healthy() {
			return m, m.notify(fmt.Sprintf("Service healthy (%s)", msg.status.Service))
		}
		return m, m.notify("Service status: " + msg.status.Status)

	case feedbackClearMsg:
		m.feedback = ""
		return m, nil
	}

	// Directory listings for the file picker and anything else addressed to it.
	m.upload, cmd = m.upload.updatePicker(msg)
	return m, cmd
}

func (m AppModel) handleKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c":
		m.chat.release()
		return m, tea.Quit

	case "ctrl+o":
		if m.panel.Open() {
			m.panel.hide()
			return m, m.focusCurrent()
		}
		m.chat.blur()
		m.upload.blur()
		return m, m.panel.show(m.store)
	}

	if m.panel.Open() {
		m.panel, cmd = m.panel.update(m.store, msg)
		if !m.panel.Open() {
			return m, tea.Batch(cmd, m.focusCurrent())
		}
		return m, cmd
	}

	if msg.String() == "tab" {
		if m.focus == focusChat {
			m.focus = focusUpload
		} else {
			m.focus = focusChat
		}
		return m, m.focusCurrent()
	}

	m.err = nil

	if m.focus == focusUpload {
		m.upload, cmd = m.upload.update(m.client, msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		if m.chat.cancelQuery() {
			m.logger.Info("query cancelled")
		}
		return m, nil

	case "enter":
		if m.chat.Loading() {
			return m, nil
		}
		return m.submit(m.chat.Input())
	}

	m.chat, cmd = m.chat.update(msg)
	return m, cmd
}

// submit runs a slash command or sends the input as a query.
func (m AppModel) submit(input string) (AppModel, tea.Cmd) {
	text := strings.TrimSpace(input)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return m, nil
	}

	switch strings.ToLower(fields[0]) {
	case "exit", "quit", "/exit", "/quit":
		if len(fields) == 1 {
			return m, tea.Quit
		}

	case "/clear":
		m.chat.clear()
		return m, m.notify("Conversation cleared")

	case "/copy":
		m.chat.textarea.Reset()
		reply, ok := m.chat.lastBotMessage()
		if !ok {
			return m, nil
		}
		if err := m.writeClipboard(reply); err != nil {
			m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
			return m, nil
		}
		return m, m.notify("Last reply copied to clipboard")

	case "/export":
		m.chat.textarea.Reset()
		path := chat.DefaultExportName(m.now())
		if len(fields) > 1 {
			path = strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
		}
		if err := m.chat.session.ExportToFile(path); err != nil {
			m.err = err
			return m, nil
		}
		m.logger.Info("transcript exported", zap.String("path", path))
		return m, m.notify("Transcript saved to " + path)

	case "/health":
		m.chat.textarea.Reset()
		client := m.client
		return m, func() tea.Msg {
			status, err := client.Health(context.Background())
			return healthMsg{status: status, err: err}
		}
	}

	return m, m.chat.submit(m.client, text)
}

// applyConfig swaps in a client for cfg. Requests already in flight finish on the
// old client.
func (m *AppModel) applyConfig(cfg config.APIConfig) {
	m.apiCfg = cfg
	m.client = m.newClient(cfg)
	m.logger.Info("api client reconfigured",
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("api_key", cfg.APIKey != ""),
	)
}

func (m *AppModel) focusCurrent() tea.Cmd {
	if m.focus == focusUpload {
		m.chat.blur()
		return m.upload.focus()
	}
	m.upload.blur()
	return m.chat.focus()
}

func (m *AppModel) notify(text string) tea.Cmd {
	m.feedback = text
	return clearFeedback(m.feedbackTimeout)
}

func (m *AppModel) layout() {
	if !m.ready {
		return
	}
	contentWidth := m.width - 2

	up := uploadHeight
	if m.upload.Browsing() {
		up = uploadOpenHeight
	}
	m.upload.setWidth(contentWidth)
	m.chat.setSize(contentWidth, m.height-headerHeight-up-chatChrome-footerHeight)
}

// View renders the TUI
func (m AppModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 2

	if m.panel.Open() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.panel.view(m.width))
	}

	sections := []string{
		m.renderHeader(contentWidth),
		m.upload.view(m.focus == focusUpload),
		m.chat.view(m.focus == focusChat),
		m.renderStatusBar(contentWidth),
	}

	switch {
	case m.err != nil:
		sections = append(sections, FormatError(m.err))
	case m.feedback != "":
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AppModel) renderHeader(width int) string {
	connection := configStatusErrorStyle.Render("not configured")
	if m.apiCfg.Configured() {
		connection = subtitleStyle.Render(m.apiCfg.BaseURL)
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ DocWrangler"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("Insurance decisions"),
		hintStyle.Render("  •  "),
		connection,
	)
	return headerStyle.Width(width - 2).Render(content)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m AppModel) renderStatusBar(width int) string {
	var shortcuts []shortcut
	if m.focus == focusUpload {
		shortcuts = []shortcut{
			{"Enter", "Upload"},
			{"Ctrl+F", "Browse"},
			{"Tab", "Chat"},
			{"Ctrl+O", "Settings"},
			{"Ctrl+C", "Quit"},
		}
	} else {
		shortcuts = []shortcut{
			{"Enter", "Send"},
			{"Esc", "Cancel"},
			{"Tab", "Documents"},
			{"Ctrl+O", "Settings"},
			{"Ctrl+C", "Quit"},
		}
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(renderShortcuts(shortcuts))
}

// RunChat starts the chat TUI. When store can report changes, the client is rebuilt
// as soon as the config file is edited elsewhere.
func RunChat(client api.DocWranglerClientInterface, store ConfigStore, newClient ClientFactory, opts ...AppOption) error {
	m := NewAppModel(client, store, newClient, opts...)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watcher, ok := store.(ConfigWatcher); ok {
		go func() {
			err := watcher.Watch(ctx, func(cfg config.APIConfig) {
				p.Send(configChangedMsg{cfg: cfg})
			})
			if err != nil {
				m.logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	_, err := p.Run()
	return err
}
