package handlers

import (
	"net/http"

	"github.com/wolfman30/caretaker-ai/internal/audit"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// AuditHandler exposes the safety audit trail to operators.
type AuditHandler struct {
	audit  *audit.Logger
	logger *logging.Logger
}

func NewAuditHandler(auditLog *audit.Logger, logger *logging.Logger) *AuditHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditHandler{audit: auditLog, logger: logger}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": h.audit.Entries(r.Context())})
}

func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.audit.Stats(r.Context()))
}

func (h *AuditHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.audit.Clear(r.Context()); err != nil {
		h.logger.Error("clear audit log failed", "error", err)
		jsonError(w, "Could not clear the audit log.", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
