package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/docwrangler/internal/models"
)

// Ticket identifies one in-flight query. A completion carrying an outdated ticket
// is dropped.
type Ticket uint64

// CancelledMessage is the bot bubble appended when the user abandons a query.
const CancelledMessage = "Error: request cancelled"

// Session is the chat transcript plus the single in-flight query slot.
// It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	id       string
	messages []models.Message
	loading  bool
	seq      Ticket
	pending  Ticket
	now      func() time.Time
	logger   *zap.Logger
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithClock overrides the time source used to stamp messages
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionLogger sets the logger used to trace dropped completions
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session holding only the greeting.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// ID returns the session identifier. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Loading reports whether a query is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Begin starts a query. Blank input, or input submitted while another query is in
// flight, is rejected and leaves the session untouched. On success the trimmed text
// is appended as a user message and the returned ticket must be passed to Complete.
func (s *Session) Begin(input string) (Ticket, bool) {
	text := strings.TrimSpace(input)

	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" || s.loading {
		return 0, false
	}

	s.seq++
	s.pending = s.seq
	s.loading = true
	s.appendLocked(models.RoleUser, text)
	return s.pending, true
}

// Complete finishes the query identified by t, appending exactly one bot message:
// the formatted decision on success, or an error bubble. It returns false, and
// changes nothing, when t is no longer the pending query.
func (s *Session) Complete(t Ticket, d *models.Decision, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loading || t != s.pending {
		s.logger.Debug("dropping stale query completion",
			zap.Uint64("ticket", uint64(t)),
			zap.Uint64("pending", uint64(s.pending)),
		)
		return false
	}

	if err != nil {
		s.appendLocked(models.RoleBot, FormatError(err))
	} else {
		s.appendLocked(models.RoleBot, FormatDecision(d))
	}
	s.loading = false
	s.pending = 0
	return true
}

// Cancel abandons the in-flight query. The pending request still runs to completion
// but its result is discarded.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loading {
		return false
	}
	s.appendLocked(models.RoleBot, CancelledMessage)
	s.loading = false
	s.pending = 0
	return true
}

// Reset clears the transcript back to the greeting and discards any pending query.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.id = uuid.NewString()
	s.messages = nil
	s.loading = false
	s.pending = 0
	s.appendLocked(models.RoleBot, Greeting)
}

func (s *Session) appendLocked(role, content string) {
	s.messages = append(s.messages, models.Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
}
