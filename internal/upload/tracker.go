// Package upload tracks the state of the document upload pane.
package upload

import (
	"path/filepath"
	"sync"

	apierrors "github.com/diogo/docwrangler/internal/errors"
)

// Status is the upload lifecycle state
type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// FailedMessage is shown when an upload error carries no text of its own.
const FailedMessage = "Upload failed"

// Ticket identifies one upload. Completions carrying an outdated ticket are dropped.
type Ticket uint64

// Snapshot is a point-in-time view of the tracker, safe to render.
type Snapshot struct {
	Status      Status
	Message     string
	File        string
	Highlighted bool
}

// Uploading reports whether an upload is in flight.
func (s Snapshot) Uploading() bool {
	return s.Status == StatusUploading
}

// Tracker holds the upload pane state. It is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	status      Status
	message     string
	file        string
	highlighted bool
	seq         Ticket
}

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{status: StatusIdle}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Status:      t.status,
		Message:     t.message,
		File:        t.file,
		Highlighted: t.highlighted,
	}
}

// Start begins uploading the first of paths. Extra paths are ignored. An empty
// list is a no-op. Starting while another upload is in flight supersedes it; the
// older completion will be dropped.
func (t *Tracker) Start(paths ...string) (string, Ticket, bool) {
	if len(paths) == 0 || paths[0] == "" {
		return "", 0, false
	}
	path := paths[0]

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.status = StatusUploading
	t.message = ""
	t.file = filepath.Base(path)
	t.highlighted = false
	return path, t.seq, true
}

// Finish records the outcome of the upload identified by ticket. It returns false
// when a newer upload has started since.
func (t *Tracker) Finish(ticket Ticket, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ticket != t.seq || t.status != StatusUploading {
		return false
	}

	if err != nil {
		t.status = StatusError
		t.message = apierrors.Message(err, FailedMessage)
		return true
	}

	t.status = StatusSuccess
	t.message = "Uploaded: " + t.file
	return true
}

// DragOver highlights the drop target.
func (t *Tracker) DragOver() {
	t.mu.Lock()
	t.highlighted = true
	t.mu.Unlock()
}

// DragLeave clears the drop target highlight.
func (t *Tracker) DragLeave() {
	t.mu.Lock()
	t.highlighted = false
	t.mu.Unlock()
}

// Drop starts an upload from dropped paths and clears the highlight.
func (t *Tracker) Drop(paths ...string) (string, Ticket, bool) {
	t.DragLeave()
	return t.Start(paths...)
}
