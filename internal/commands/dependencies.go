package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/diogo/docwrangler/internal/api"
	"github.com/diogo/docwrangler/internal/config"
	"github.com/diogo/docwrangler/internal/logging"
	"github.com/diogo/docwrangler/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.DocWranglerClientInterface, store tui.ConfigStore, newClient tui.ClientFactory, opts ...tui.AppOption) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client, when set, is used instead of a client built from the config file.
	Client api.DocWranglerClientInterface

	// Store holds the API connection. Defaults to the config file store.
	Store tui.ConfigStore

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Logger defaults to the file logger configured in config.json.
	Logger *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.DocWranglerClientInterface, store tui.ConfigStore, newClient tui.ClientFactory, opts ...tui.AppOption) error {
	return tui.RunChat(client, store, newClient, opts...)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: clipboard.WriteAll,
	}
}

// withDefaults fills any unset field.
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		return NewDependencies()
	}
	defaults := NewDependencies()
	if d.TUI == nil {
		d.TUI = defaults.TUI
	}
	if d.Stdin == nil {
		d.Stdin = defaults.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = defaults.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = defaults.Stderr
	}
	if d.Clipboard == nil {
		d.Clipboard = defaults.Clipboard
	}
	return d
}

// logger returns the injected logger, or opens the log file described by cfg.
func (d *Dependencies) logger(cfg config.Config) *zap.Logger {
	if d.Logger == nil {
		d.Logger = logging.NewOrNop(cfg)
	}
	return d.Logger
}

// store returns the connection store.
func (d *Dependencies) store() tui.ConfigStore {
	if d.Store == nil {
		d.Store = config.NewStore(config.WithStoreLogger(d.Logger))
	}
	return d.Store
}

// clientFactory builds clients that share the resilience settings in cfg.
func (d *Dependencies) clientFactory(cfg config.Config) tui.ClientFactory {
	logger := d.logger(cfg)
	return func(conn config.APIConfig) api.DocWranglerClientInterface {
		c := cfg
		c.APIURL, c.APIKey = conn.BaseURL, conn.APIKey
		return api.NewClientFromConfig(c, logger)
	}
}

// client returns the injected client or one built from cfg.
func (d *Dependencies) client(cfg config.Config) api.DocWranglerClientInterface {
	if d.Client != nil {
		return d.Client
	}
	return api.NewClientFromConfig(cfg, d.logger(cfg))
}
