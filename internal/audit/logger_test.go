package audit

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/internal/storage"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

type failingStore struct{}

func (failingStore) Append(context.Context, Entry) error   { return errors.New("append down") }
func (failingStore) List(context.Context) ([]Entry, error) { return nil, errors.New("list down") }
func (failingStore) Clear(context.Context) error           { return errors.New("clear down") }

func TestLoggerSwallowsStoreErrors(t *testing.T) {
	l := NewLogger(failingStore{}, logging.Discard())
	assert.NotPanics(t, func() {
		l.Record(context.Background(), entryN(1))
	})
	assert.Equal(t, []Entry{}, l.Entries(context.Background()))
	assert.Equal(t, Stats{}, l.Stats(context.Background()))
	assert.Error(t, l.Clear(context.Background()))
}

func TestLoggerStats(t *testing.T) {
	ctx := context.Background()
	l := NewLogger(NewMemoryStore(10), logging.Discard())
	now := time.Now()
	l.Record(ctx, NewEntry(now, "a", "r", safety.SeverityBlocked, []string{"x"}, true))
	l.Record(ctx, NewEntry(now, "b", "r", safety.SeverityWarning, []string{"y"}, false))
	l.Record(ctx, NewEntry(now, "c", "r", safety.SeverityWarning, []string{"y"}, false))
	l.Record(ctx, NewEntry(now, "d", "r", safety.SeverityClean, nil, false))

	assert.Equal(t, Stats{Total: 4, Blocked: 1, Warnings: 2, Clean: 1}, l.Stats(ctx))
}

func TestLoggerCapsAfter150Calls(t *testing.T) {
	ctx := context.Background()
	l := NewLogger(nil, logging.Discard())
	for i := 0; i < 150; i++ {
		l.Record(ctx, entryN(i))
	}
	assert.Equal(t, 100, l.Stats(ctx).Total)
	entries := l.Entries(ctx)
	assert.Equal(t, "response 50", entries[0].ResponsePreview)
}

func TestNewEntryIsPrivacyPreserving(t *testing.T) {
	msg := "please remind me about my cardiology visit"
	e := NewEntry(time.Now(), msg, strings.Repeat("é", 250), safety.SeverityClean, nil, false)

	assert.Len(t, e.UserMessageHash, 64)
	assert.NotContains(t, e.UserMessageHash, "cardiology")
	assert.Equal(t, HashMessage(msg), e.UserMessageHash)
	assert.NotEqual(t, HashMessage(msg+" "), e.UserMessageHash)
	assert.Equal(t, 100, utf8.RuneCountInString(e.ResponsePreview))
	assert.Equal(t, []string{}, e.SafetyFlags)
}

func TestLoggerReportsCorruptKVTrail(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	kv.Set(ctx, StorageKey, []byte("not json"))
	var buf bytes.Buffer
	l := NewLogger(NewKVStore(kv, 10), logging.NewWithWriter("info", &buf))

	l.Record(ctx, entryN(1))

	assert.Contains(t, buf.String(), "audit append failed")
	raw, _ := kv.Get(ctx, StorageKey)
	assert.Equal(t, "not json", string(raw))
}
