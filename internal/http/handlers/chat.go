package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wolfman30/caretaker-ai/internal/mediation"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

type chatMediator interface {
	Chat(ctx context.Context, message string, cc *mediation.Context) mediation.Result
}

// ChatHandler serves the mediated assistant chat.
type ChatHandler struct {
	mediator chatMediator
	logger   *logging.Logger
}

func NewChatHandler(mediator chatMediator, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{mediator: mediator, logger: logger}
}

type chatRequest struct {
	Message           json.RawMessage     `json:"message"`
	Medications       []safety.Medication `json:"medications"`
	RecentBillSummary string              `json:"recentBillSummary"`
	UserName          string              `json:"userName"`
}

type chatResponse struct {
	Response       string `json:"response"`
	WasSubstituted bool   `json:"wasSubstituted"`
	HadEmergency   bool   `json:"hadEmergency"`
}

// Chat always answers 200 once the request is well formed; fallbacks and
// substitutions are reported in the body flags.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, errInvalidJSON, http.StatusBadRequest)
		return
	}
	message, ok := requiredText(req.Message)
	if !ok {
		jsonError(w, "Field 'message' is required and must be a non-empty string.", http.StatusBadRequest)
		return
	}

	res := h.mediator.Chat(r.Context(), message, &mediation.Context{
		Medications:       req.Medications,
		RecentBillSummary: req.RecentBillSummary,
		UserName:          req.UserName,
	})
	writeJSON(w, http.StatusOK, chatResponse{
		Response:       res.Response,
		WasSubstituted: res.WasSubstituted,
		HadEmergency:   res.HadEmergency,
	})
}
