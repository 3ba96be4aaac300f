// Package render turns chat markdown into styled terminal output.
package render

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column. Zero disables wrapping.
	Width int

	// Style is a glamour style name, one of the custom styles, or a path to a JSON style.
	Style string

	EnableEmoji      bool
	PreserveNewLines bool

	// TableWrap wraps long table cells instead of truncating them.
	TableWrap bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns Options with newline preservation enabled/disabled.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}
