package handlers

import (
	"net/http"

	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// AIHandler exposes the gateway connection test.
type AIHandler struct {
	gateway llm.Gateway
	logger  *logging.Logger
}

func NewAIHandler(gateway llm.Gateway, logger *logging.Logger) *AIHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AIHandler{gateway: gateway, logger: logger}
}

type pingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ping reports whether the configured model answers. Provider error text is
// logged, not returned.
func (h *AIHandler) Ping(w http.ResponseWriter, r *http.Request) {
	res := llm.Ping(r.Context(), h.gateway)
	if !res.OK {
		h.logger.Error("ai connection test failed", "error", res.Error)
		writeJSON(w, http.StatusInternalServerError, pingResponse{Error: "AI connection test failed. Check server logs and environment configuration."})
		return
	}
	writeJSON(w, http.StatusOK, pingResponse{Success: true, Message: res.Response})
}
