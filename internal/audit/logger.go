package audit

import (
	"context"

	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// Logger records entries without ever failing the caller.
type Logger struct {
	store  Store
	logger *logging.Logger
}

func NewLogger(store Store, logger *logging.Logger) *Logger {
	if store == nil {
		store = NewMemoryStore(DefaultCapacity)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Logger{store: store, logger: logger}
}

// Record appends entry. Store errors are logged and swallowed.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if err := l.store.Append(ctx, entry); err != nil {
		l.logger.Warn("audit append failed", "error", err)
	}
	if entry.Severity != safety.SeverityClean {
		l.logger.Warn("ai safety event",
			"severity", entry.Severity,
			"flags", entry.SafetyFlags,
			"substituted", entry.WasSubstituted,
			"message_hash", entry.UserMessageHash,
		)
	}
}

// Entries returns the retained trail, oldest first. A failing store yields
// an empty list.
func (l *Logger) Entries(ctx context.Context) []Entry {
	entries, err := l.store.List(ctx)
	if err != nil {
		l.logger.Warn("audit list failed", "error", err)
		return []Entry{}
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// Clear drops every entry.
func (l *Logger) Clear(ctx context.Context) error {
	return l.store.Clear(ctx)
}

// Stats counts the retained entries by severity.
func (l *Logger) Stats(ctx context.Context) Stats {
	return Summarize(l.Entries(ctx))
}
