package render

import (
	"os"

	"github.com/diogo/docwrangler/internal/config"
)

// EnvStyle overrides the markdown style from the config file.
const EnvStyle = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from the markdown settings. A style that
// is neither bundled nor an existing JSON file falls back to the default.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" && IsValidStyle(md.Style) {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

// LoadOptionsFromConfig loads render options from the user configuration, falling
// back to defaults when the file cannot be read.
func LoadOptionsFromConfig() Options {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return OptionsFromConfig(cfg.Markdown)
}

// LoadOptionsFromConfigWithWidth loads options from config with a specific width.
func LoadOptionsFromConfigWithWidth(width int) Options {
	return LoadOptionsFromConfig().WithWidth(width)
}
