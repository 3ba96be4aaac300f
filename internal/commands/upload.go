package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/docwrangler/internal/api"
	"github.com/diogo/docwrangler/internal/config"
)

// NewUploadCmd creates the upload command
func NewUploadCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file> [file...]",
		Short: "Upload a policy or claim document",
		Long: `Upload a document for the decision service to use when answering queries.

Only the first file is uploaded; any others are ignored. PDF, DOCX, DOC and TXT
files are expected, but the service decides what it accepts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, deps, args)
		},
	}
}

func runUpload(cmd *cobra.Command, deps *Dependencies, paths []string) error {
	cfg, _ := config.LoadConfig()
	logger := deps.logger(cfg)
	client := deps.client(cfg)

	path := paths[0]
	if len(paths) > 1 {
		fmt.Fprintln(deps.Stderr, warnStyle.Render(fmt.Sprintf("⚠ Uploading %s only; %d other file(s) ignored", path, len(paths)-1)))
	}
	if !api.IsAllowedDocumentType(path) {
		fmt.Fprintln(deps.Stderr, warnStyle.Render(fmt.Sprintf("⚠ %s is not a PDF, DOCX, DOC or TXT file", filepath.Base(path))))
	}

	spin := newSpinner(deps.Stderr, "Uploading "+filepath.Base(path))
	spin.start()

	result, err := client.UploadDocument(cmd.Context(), path)
	if err != nil {
		spin.stopWithError()
		logger.Warn("upload failed", zap.String("path", path), zap.Error(err))
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Upload failed"))
		return &reportedError{err: err}
	}
	spin.stopWithSuccess("Uploaded: " + filepath.Base(path))

	if result.DocumentID != "" {
		fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Document ID:"), valueStyle.Render(result.DocumentID))
	}
	if result.Message != "" {
		fmt.Fprintf(deps.Stdout, "%s %s\n", keyStyle.Render("Message:"), valueStyle.Render(result.Message))
	}
	return nil
}
