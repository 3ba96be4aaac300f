// Package commands provides CLI commands for docwrangler.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the docwrangler command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var (
		outputFlag string
		fileFlag   string
		rawFlag    bool
		jsonFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "docwrangler [query]",
		Short: "Terminal client for the DocWrangler insurance decision service",
		Long: `docwrangler asks an insurance decision service questions about your
policy and claim documents and uploads new documents for it to use.

Examples:
  docwrangler config set --url http://localhost:8000
  docwrangler upload policy.pdf
  docwrangler "Is knee surgery covered for a 46 year old?"
  docwrangler -f question.md            Read the query from a file
  cat question.md | docwrangler         Read the query from stdin
  docwrangler "..." -o decision.md      Save the decision to a file
  docwrangler chat                      Start the interactive client`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersion(deps)
				return nil
			}

			query, ok, err := readInput(deps, args, fileFlag)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			return runQuery(cmd.Context(), deps, query, queryOptions{
				output: outputFlag,
				raw:    rawFlag,
				json:   jsonFlag,
			})
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the decision to file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the query from file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the decision as plain markdown")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the service response as received")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	cmd.MarkFlagsMutuallyExclusive("raw", "json")

	cmd.AddCommand(
		NewChatCmd(deps),
		NewUploadCmd(deps),
		NewHealthCmd(deps),
		NewConfigCmd(deps),
		NewVersionCmd(deps),
	)

	return cmd
}

func printVersion(deps *Dependencies) {
	fmt.Fprintf(deps.Stdout, "docwrangler %s (built %s)\n", Version, BuildTime)
}

// NewVersionCmd creates the version command
func NewVersionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(deps)
		},
	}
}

var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
