package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/caretaker-ai/internal/audit"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

func TestAuditHandler(t *testing.T) {
	log := audit.NewLogger(audit.NewMemoryStore(10), logging.Discard())
	now := time.Now()
	log.Record(context.Background(), audit.NewEntry(now, "msg one", "You should stop taking it", safety.SeverityBlocked, []string{"advice:directive_dose_change"}, true))
	log.Record(context.Background(), audit.NewEntry(now, "msg two", "Here is your list", safety.SeverityClean, nil, false))
	h := NewAuditHandler(log, logging.Discard())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/admin/audit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody(t, rec)["entries"].([]any)
	require.Len(t, entries, 2)
	assert.NotContains(t, rec.Body.String(), "msg one")

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/admin/audit/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(1), stats["blocked"])

	rec = httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/admin/audit", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, log.Entries(context.Background()))
}
