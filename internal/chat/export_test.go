package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/docwrangler/internal/models"
)

func sessionWithExchange(t *testing.T) *Session {
	t.Helper()
	s := NewSession(WithClock(fixedClock()))
	ticket, ok := s.Begin("Is knee surgery covered?")
	if !ok {
		t.Fatal("Begin() failed")
	}
	s.Complete(ticket, &models.Decision{Decision: "approved", SourceClauses: []string{"4.2"}}, nil)
	return s
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]ExportFormat{
		"out.json":     ExportFormatJSON,
		"OUT.JSON":     ExportFormatJSON,
		"out.md":       ExportFormatMarkdown,
		"out":          ExportFormatMarkdown,
		"dir/file.txt": ExportFormatMarkdown,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestExportMarkdown(t *testing.T) {
	s := sessionWithExchange(t)
	md := s.ExportMarkdown()

	for _, want := range []string{
		"# DocWrangler Session",
		"**Session:** " + s.ID(),
		"**Exported:** 2025-03-14 09:26:53",
		"**Messages:** 3",
		"## You (09:26:53)\n\nIs knee surgery covered?",
		"## DocWrangler (09:26:53)\n\n**Decision:** APPROVED",
		"- 4.2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q:\n%s", want, md)
		}
	}
	if strings.HasSuffix(md, "---\n\n") {
		t.Error("markdown export should not end with a separator")
	}
}

func TestExportJSON(t *testing.T) {
	s := sessionWithExchange(t)

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var got exportTranscript
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.SessionID != s.ID() {
		t.Errorf("session_id = %q", got.SessionID)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("messages = %d", len(got.Messages))
	}
	if got.Messages[1].Role != models.RoleUser || got.Messages[1].Content != "Is knee surgery covered?" {
		t.Errorf("messages[1] = %+v", got.Messages[1])
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	if _, err := NewSession().Export("pdf"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestExportToFile(t *testing.T) {
	s := sessionWithExchange(t)
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "nested", "chat.md")
	if err := s.ExportToFile(mdPath); err != nil {
		t.Fatalf("ExportToFile(md) error = %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# DocWrangler Session") {
		t.Errorf("unexpected markdown file content: %s", data)
	}

	jsonPath := filepath.Join(dir, "chat.json")
	if err := s.ExportToFile(jsonPath); err != nil {
		t.Fatalf("ExportToFile(json) error = %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("JSON export is not valid JSON: %s", data)
	}
}

func TestDefaultExportName(t *testing.T) {
	if got := DefaultExportName(fixedClock()()); got != "docwrangler-20250314-092653.md" {
		t.Errorf("DefaultExportName() = %q", got)
	}
}
