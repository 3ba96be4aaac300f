package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/docwrangler/internal/api"
	"github.com/diogo/docwrangler/internal/chat"
	"github.com/diogo/docwrangler/internal/models"
	"github.com/diogo/docwrangler/internal/render"
)

// animationTickMsg drives the loading animation
type animationTickMsg time.Time

// queryResultMsg carries the outcome of one query back to the chat pane.
type queryResultMsg struct {
	ticket   chat.Ticket
	decision *models.Decision
	err      error
}

func animationTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// ChatPane shows the transcript and the query input.
type ChatPane struct {
	session    *chat.Session
	textarea   textarea.Model
	viewport   viewport.Model
	renderOpts render.Options

	// decisions maps a transcript index to the decision it shows, for bubble colors.
	decisions map[int]string
	cancel    context.CancelFunc

	animationFrame int
	width          int
}

func newChatPane(session *chat.Session, opts render.Options) ChatPane {
	ta := textarea.New()
	ta.Placeholder = "Ask about coverage, claims or exclusions..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(60)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	p := ChatPane{
		session:    session,
		textarea:   ta,
		viewport:   viewport.New(60, 10),
		renderOpts: opts,
		decisions:  make(map[int]string),
	}
	p.refresh()
	return p
}

// Loading reports whether a query is in flight.
func (p ChatPane) Loading() bool {
	return p.session.Loading()
}

// Input returns the text typed so far.
func (p ChatPane) Input() string {
	return p.textarea.Value()
}

func (p *ChatPane) setSize(width, height int) {
	height = max(height, 3)
	if width == p.width && height == p.viewport.Height {
		return
	}
	p.width = width
	p.textarea.SetWidth(width - 6)
	p.viewport.Width = width - 4
	p.viewport.Height = height
	p.refresh()
}

func (p *ChatPane) focus() tea.Cmd {
	return p.textarea.Focus()
}

func (p *ChatPane) blur() {
	p.textarea.Blur()
}

// submit starts a query for text. It returns nil when the session refuses it.
func (p *ChatPane) submit(client api.DocWranglerClientInterface, text string) tea.Cmd {
	ticket, ok := p.session.Begin(text)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.textarea.Reset()
	p.animationFrame = 0
	p.refresh()

	query := strings.TrimSpace(text)
	return tea.Batch(
		func() tea.Msg {
			d, err := client.SendQuery(ctx, query)
			return queryResultMsg{ticket: ticket, decision: d, err: err}
		},
		animationTick(),
	)
}

// finish applies a query result. Stale results are ignored.
func (p *ChatPane) finish(msg queryResultMsg) bool {
	if !p.session.Complete(msg.ticket, msg.decision, msg.err) {
		return false
	}
	if msg.err == nil && msg.decision != nil {
		p.decisions[p.session.Len()-1] = msg.decision.Decision
	}
	p.release()
	p.refresh()
	return true
}

// cancelQuery abandons the in-flight query and aborts its request.
func (p *ChatPane) cancelQuery() bool {
	if !p.session.Cancel() {
		return false
	}
	p.release()
	p.refresh()
	return true
}

func (p *ChatPane) release() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// clear resets the transcript to the greeting.
func (p *ChatPane) clear() {
	p.release()
	p.session.Reset()
	p.decisions = make(map[int]string)
	p.textarea.Reset()
	p.refresh()
}

// lastBotMessage returns the newest bot reply, if any.
func (p ChatPane) lastBotMessage() (string, bool) {
	msgs := p.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleBot {
			return msgs[i].Content, true
		}
	}
	return "", false
}

func (p ChatPane) update(msg tea.Msg) (ChatPane, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if !p.session.Loading() {
		p.textarea, cmd = p.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	p.viewport, cmd = p.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return p, tea.Batch(cmds...)
}

// refresh rebuilds the viewport from the transcript.
func (p *ChatPane) refresh() {
	var content strings.Builder
	bubbleWidth := max(p.viewport.Width-6, 20)
	theme := render.GetTUITheme()
	opts := p.renderOpts.WithWidth(bubbleWidth - 4)

	for i, msg := range p.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		stamp := msg.Timestamp.Format("15:04")
		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You " + hintStyle.Render(stamp))
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := botLabelStyle.Render("✦ DocWrangler " + hintStyle.Render(stamp))
			style := botBubbleStyle
			if strings.HasPrefix(msg.Content, "Error: ") {
				style = errBubbleStyle
			} else if decision, ok := p.decisions[i]; ok {
				style = style.BorderForeground(theme.DecisionColor(decision))
			}
			bubble := style.Width(bubbleWidth).Render(render.MarkdownOrPlain(msg.Content, opts))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	p.viewport.SetContent(content.String())
	p.viewport.GotoBottom()
}

func (p ChatPane) view(focused bool) string {
	var input string
	if p.session.Loading() {
		input = p.renderLoadingAnimation()
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("Query"),
			p.textarea.View(),
		)
	}

	style := paneStyle
	if focused {
		style = paneFocusedStyle
	}
	return style.Width(p.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		paneTitleStyle.Render("Chat"),
		p.viewport.View(),
		input,
	))
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (p ChatPane) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := p.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	var bar strings.Builder
	for i := 0; i < 20; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Reviewing your documents ")
	hint := hintStyle.Render("  esc to cancel")

	return fmt.Sprintf("%s %s %s %s%s", spin, bar.String(), text, dots.String(), hint)
}
