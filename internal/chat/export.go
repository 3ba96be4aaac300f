package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/docwrangler/internal/models"
)

// ExportFormat represents the format for exporting transcripts
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// FormatForPath picks the export format from a file extension. Anything other
// than .json is written as markdown.
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// DefaultExportName returns the file name used when /export is given no path.
func DefaultExportName(t time.Time) string {
	return fmt.Sprintf("docwrangler-%s.md", t.Format("20060102-150405"))
}

type exportMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type exportTranscript struct {
	SessionID  string          `json:"session_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// ExportMarkdown renders the transcript as a markdown document.
func (s *Session) ExportMarkdown() string {
	id, messages, exportedAt := s.snapshot()

	var sb strings.Builder

	sb.WriteString("# DocWrangler Session\n\n")
	sb.WriteString("**Session:** ")
	sb.WriteString(id)
	sb.WriteString("\n")
	sb.WriteString("**Exported:** ")
	sb.WriteString(exportedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "You"
		if msg.Role == models.RoleBot {
			role = "DocWrangler"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders the transcript as indented JSON.
func (s *Session) ExportJSON() ([]byte, error) {
	id, messages, exportedAt := s.snapshot()

	export := exportTranscript{
		SessionID:  id,
		ExportedAt: exportedAt,
		Messages:   make([]exportMessage, len(messages)),
	}
	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// Export renders the transcript in the given format.
func (s *Session) Export(format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return s.ExportJSON()
	case ExportFormatMarkdown, "":
		return []byte(s.ExportMarkdown()), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToFile writes the transcript to path, choosing the format from its extension.
func (s *Session) ExportToFile(path string) error {
	data, err := s.Export(FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func (s *Session) snapshot() (string, []models.Message, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]models.Message, len(s.messages))
	copy(messages, s.messages)
	return s.id, messages, s.now()
}
