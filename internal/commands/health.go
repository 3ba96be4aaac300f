package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/docwrangler/internal/config"
)

// NewHealthCmd creates the health command
func NewHealthCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the decision service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.LoadConfig()
			client := deps.client(cfg)

			status, err := client.Health(cmd.Context())
			if err != nil {
				fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Health check failed"))
				return &reportedError{err: err}
			}

			state := okStyle.Render("✓ " + status.Status)
			if !status.Healthy() {
				state = errStyle.Render("✗ " + status.Status)
			}

			fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Service:  "), valueStyle.Render(client.BaseURL()))
			fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Status:   "), state)
			if status.Service != "" {
				fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Name:     "), valueStyle.Render(status.Service))
			}
			if status.Timestamp != "" {
				fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Timestamp:"), valueStyle.Render(status.Timestamp))
			}
			if len(status.Endpoints) > 0 {
				fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Endpoints:"), valueStyle.Render(strings.Join(status.Endpoints, ", ")))
			}

			if !status.Healthy() {
				return &reportedError{err: fmt.Errorf("service reported status %q", status.Status)}
			}
			return nil
		},
	}
}
