// Package audit keeps a bounded, privacy-preserving trail of mediated model
// interactions. Entries hold a one-way hash of the user's message and a short
// preview of the model's output, never the user's text.
package audit

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/wolfman30/caretaker-ai/internal/safety"
)

const (
	// DefaultCapacity bounds every store unless configured otherwise.
	DefaultCapacity = 100
	// PreviewLength is the rune limit of Entry.ResponsePreview.
	PreviewLength = 100
)

// Entry is one audit record.
type Entry struct {
	Timestamp       time.Time       `json:"timestamp"`
	UserMessageHash string          `json:"user_message_hash"`
	ResponsePreview string          `json:"response_preview"`
	SafetyFlags     []string        `json:"safety_flags"`
	Severity        safety.Severity `json:"severity"`
	WasSubstituted  bool            `json:"was_substituted"`
}

// NewEntry builds an entry from an already sanitized user message and the
// model's raw response.
func NewEntry(now time.Time, sanitizedMessage, response string, severity safety.Severity, flags []string, substituted bool) Entry {
	if flags == nil {
		flags = []string{}
	}
	return Entry{
		Timestamp:       now.UTC(),
		UserMessageHash: HashMessage(sanitizedMessage),
		ResponsePreview: safety.Preview(response, PreviewLength),
		SafetyFlags:     append([]string(nil), flags...),
		Severity:        severity,
		WasSubstituted:  substituted,
	}
}

// HashMessage returns the hex SHA-256 of message.
func HashMessage(message string) string {
	sum := sha256.Sum256([]byte(message))
	return fmt.Sprintf("%x", sum)
}

// Stats counts entries by severity.
type Stats struct {
	Total    int `json:"total"`
	Blocked  int `json:"blocked"`
	Warnings int `json:"warnings"`
	Clean    int `json:"clean"`
}

// Summarize computes Stats over entries.
func Summarize(entries []Entry) Stats {
	stats := Stats{Total: len(entries)}
	for _, e := range entries {
		switch e.Severity {
		case safety.SeverityBlocked:
			stats.Blocked++
		case safety.SeverityWarning:
			stats.Warnings++
		case safety.SeverityClean:
			stats.Clean++
		}
	}
	return stats
}
