package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/docwrangler/internal/chat"
	"github.com/diogo/docwrangler/internal/config"
	"github.com/diogo/docwrangler/internal/render"
)

// queryOptions controls how a one-shot answer is printed.
type queryOptions struct {
	output string // file to save the answer to
	raw    bool   // print markdown without decoration
	json   bool   // print the service payload as received
}

// reportedError marks an error whose details were already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// readInput picks the query source: --file, then piped stdin, then the argument.
func readInput(deps *Dependencies, args []string, file string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether r carries data rather than an interactive terminal.
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// runQuery sends one query and prints the formatted decision. Output is decorated
// only when stdout is a terminal and neither --raw nor --json is set.
func runQuery(ctx context.Context, deps *Dependencies, query string, opts queryOptions) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("query cannot be empty")
	}

	cfg, _ := config.LoadConfig()
	logger := deps.logger(cfg)
	client := deps.client(cfg)

	decorated := !opts.raw && !opts.json && isTerminal(deps.Stdout)

	if cfg.Verbose && decorated {
		fmt.Fprintf(deps.Stderr, "[verbose] Service: %s\n", client.BaseURL())
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Reviewing your documents")
		spin.start()
	}

	startTime := time.Now()
	decision, err := client.SendQuery(ctx, query)
	elapsed := time.Since(startTime)

	if err != nil {
		logger.Warn("query failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		if decorated {
			spin.stopWithError()
		}
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Query failed"))
		return &reportedError{err: fmt.Errorf("query failed: %w", err)}
	}
	if decorated {
		spin.stopWithSuccess("Done")
	}

	logger.Info("query answered",
		zap.String("decision", decision.Decision),
		zap.Float64("confidence", decision.Confidence),
		zap.Duration("elapsed", elapsed),
	)
	if cfg.Verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", elapsed.Round(time.Millisecond))
	}

	text := chat.FormatDecision(decision)
	if opts.json {
		text = decision.Raw
	}

	if !decorated {
		if opts.output != "" {
			return writeOutput(opts.output, text)
		}
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	fmt.Fprintln(deps.Stderr)

	if cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, errStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, okStyle.Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := writeOutput(opts.output, text); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, okStyle.Render(fmt.Sprintf("✓ Response saved to %s", opts.output)))
		return nil
	}

	bubbleWidth := min(max(terminalWidth(deps.Stdout)-4, 40), 120)
	contentWidth := bubbleWidth - 4

	render.SetTUITheme(cfg.TUITheme)
	color := render.GetTUITheme().DecisionColor(decision.Decision)

	fmt.Fprintln(deps.Stdout, botLabelStyle.Render("✦ DocWrangler"))
	rendered := render.MarkdownOrPlain(text, render.LoadOptionsFromConfigWithWidth(contentWidth))
	fmt.Fprintln(deps.Stdout, botBubbleStyle.BorderForeground(color).Width(bubbleWidth).Render(rendered))

	return nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
