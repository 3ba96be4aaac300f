package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diogo/docwrangler/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long:  `Interactive menu to configure docwrangler settings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.TUI.RunConfig()
		},
	}

	cmd.AddCommand(newConfigShowCmd(deps), newConfigSetCmd(deps))
	return cmd
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Long:  `Print the settings in effect, including environment overrides. The API key is masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			path, _ := config.GetConfigPath()
			logPath, _ := config.GetLogPath()

			url := cfg.APIURL
			if url == "" {
				url = "(not configured)"
			}
			key := cfg.API().MaskedKey()
			if key == "" {
				key = "(none)"
			}
			timeout := "none"
			if cfg.RequestTimeoutSeconds > 0 {
				timeout = strconv.Itoa(cfg.RequestTimeoutSeconds) + "s"
			}
			rate := "unlimited"
			if cfg.MaxRequestsPerMinute > 0 {
				rate = fmt.Sprintf("%d/min", cfg.MaxRequestsPerMinute)
			}

			rows := [][2]string{
				{"Config file", path},
				{"Log file", logPath},
				{"API URL", url},
				{"API key", key},
				{"Verbose", strconv.FormatBool(cfg.Verbose)},
				{"Copy to clipboard", strconv.FormatBool(cfg.CopyToClipboard)},
				{"Circuit breaker", strconv.FormatBool(cfg.CircuitBreaker)},
				{"Request timeout", timeout},
				{"Rate limit", rate},
				{"Log level", cfg.LogLevel},
				{"Markdown theme", cfg.Markdown.Style},
				{"TUI theme", cfg.TUITheme},
			}
			for _, row := range rows {
				fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-18s", row[0]+":")), valueStyle.Render(row[1]))
			}
			return nil
		},
	}
}

func newConfigSetCmd(deps *Dependencies) *cobra.Command {
	var urlFlag, keyFlag string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the API base URL and key",
		Long: `Set the decision service connection. Flags that are not given keep their
stored value; pass an empty value to clear one.

Examples:
  docwrangler config set --url http://localhost:8000
  docwrangler config set --key my-api-key
  docwrangler config set --url ""        Remove the connection`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("url") && !cmd.Flags().Changed("key") {
				return fmt.Errorf("nothing to set: pass --url and/or --key")
			}

			// Start from the file, not the environment, so overrides are never persisted.
			current, err := config.LoadFileConfig()
			if err != nil {
				current = config.DefaultConfig()
			}
			if cmd.Flags().Changed("url") {
				current.APIURL = urlFlag
			}
			if cmd.Flags().Changed("key") {
				current.APIKey = keyFlag
			}

			if err := deps.store().Set(current.APIURL, current.APIKey); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			saved := current.API()
			if saved.Configured() {
				fmt.Fprintln(deps.Stdout, okStyle.Render("✓ API URL set to "+saved.BaseURL))
			} else {
				fmt.Fprintln(deps.Stdout, warnStyle.Render("⚠ API URL cleared; queries and uploads are disabled"))
			}
			if cmd.Flags().Changed("key") {
				if saved.APIKey != "" {
					fmt.Fprintln(deps.Stdout, okStyle.Render("✓ API key set to "+saved.MaskedKey()))
				} else {
					fmt.Fprintln(deps.Stdout, okStyle.Render("✓ API key cleared"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Base URL of the decision service")
	cmd.Flags().StringVar(&keyFlag, "key", "", "API key sent as x-api-key")
	return cmd
}
