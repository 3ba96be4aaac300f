package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/docwrangler/internal/config"
	"github.com/diogo/docwrangler/internal/render"
	"github.com/diogo/docwrangler/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive client",
		Long: `Open the terminal client: upload documents, ask questions and edit the
service connection.

Tab switches between the document pane and the chat. Ctrl+O opens the settings.
In the chat, /export [file] saves the transcript, /copy copies the last answer,
/clear starts over and /health checks the service. Type 'exit', 'quit', or press
Ctrl+C to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps)
		},
	}
}

func runChat(deps *Dependencies) error {
	cfg, _ := config.LoadConfig()
	logger := deps.logger(cfg)
	defer func() { _ = logger.Sync() }()

	render.SetTUITheme(cfg.TUITheme)
	tui.UpdateTheme()

	logger.Info("starting chat", zap.String("base_url", cfg.APIURL))

	return deps.TUI.RunChat(
		deps.client(cfg),
		deps.store(),
		deps.clientFactory(cfg),
		tui.WithAppLogger(logger),
		tui.WithCopyToClipboard(cfg.CopyToClipboard),
		tui.WithClipboard(deps.Clipboard),
		tui.WithRenderOptions(render.OptionsFromConfig(cfg.Markdown)),
	)
}
