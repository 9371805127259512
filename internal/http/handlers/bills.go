package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wolfman30/caretaker-ai/internal/bills"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

type billAnalyzer interface {
	Analyze(ctx context.Context, billText string) (bills.Analysis, error)
	ContactScript(ctx context.Context, billText string, analysis *bills.Analysis) (string, error)
	DoctorQuestions(ctx context.Context, billText string, analysis *bills.Analysis) (string, error)
	ScamCheck(ctx context.Context, billText string, analysis *bills.Analysis) (string, error)
}

// BillsHandler serves bill analysis and the saved bill history.
type BillsHandler struct {
	analyzer billAnalyzer
	repo     bills.Repository
	logger   *logging.Logger
	now      func() time.Time
}

type BillsConfig struct {
	Analyzer billAnalyzer
	Repo     bills.Repository
	Logger   *logging.Logger
	Now      func() time.Time
}

func NewBillsHandler(cfg BillsConfig) *BillsHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Repo == nil {
		cfg.Repo = bills.NewMemoryRepository()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BillsHandler{analyzer: cfg.Analyzer, repo: cfg.Repo, logger: cfg.Logger, now: cfg.Now}
}

type billRequest struct {
	Text     json.RawMessage `json:"text"`
	Analysis json.RawMessage `json:"analysis"`
}

// readBill returns the bill text and, when the body carries a usable one,
// the caller's analysis.
func (h *BillsHandler) readBill(w http.ResponseWriter, r *http.Request) (string, *bills.Analysis, bool) {
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, errInvalidJSON, http.StatusBadRequest)
		return "", nil, false
	}
	text, ok := requiredText(req.Text)
	if !ok {
		jsonError(w, errTextRequired, http.StatusBadRequest)
		return "", nil, false
	}
	if len(req.Analysis) > 0 {
		if a, ok := bills.DecodeAnalysis(req.Analysis); ok {
			return text, &a, true
		}
	}
	return text, nil, true
}

// AnalyzeBill returns the structured analysis.
func (h *BillsHandler) AnalyzeBill(w http.ResponseWriter, r *http.Request) {
	text, _, ok := h.readBill(w, r)
	if !ok {
		return
	}
	analysis, err := h.analyzer.Analyze(r.Context(), text)
	if err != nil {
		h.logger.Error("bill analysis failed", "error", err)
		jsonError(w, "Bill analysis failed. Check server logs and environment configuration.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type followUpFunc func(ctx context.Context, billText string, analysis *bills.Analysis) (string, error)

func (h *BillsHandler) followUp(w http.ResponseWriter, r *http.Request, name, key string, run followUpFunc) {
	text, analysis, ok := h.readBill(w, r)
	if !ok {
		return
	}
	if analysis == nil {
		computed, err := h.analyzer.Analyze(r.Context(), text)
		if err != nil {
			h.logger.Error(name+" failed", "stage", "analyze", "error", err)
			jsonError(w, capitalize(name)+" failed. Check server logs and environment configuration.", http.StatusInternalServerError)
			return
		}
		analysis = &computed
	}
	out, err := run(r.Context(), text, analysis)
	if err != nil {
		h.logger.Error(name+" failed", "error", err)
		jsonError(w, capitalize(name)+" failed. Check server logs and environment configuration.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{key: out})
}

func (h *BillsHandler) ContactScript(w http.ResponseWriter, r *http.Request) {
	h.followUp(w, r, "contact script generation", "script", h.analyzer.ContactScript)
}

func (h *BillsHandler) DoctorQuestions(w http.ResponseWriter, r *http.Request) {
	h.followUp(w, r, "doctor questions generation", "questions", h.analyzer.DoctorQuestions)
}

func (h *BillsHandler) ScamCheck(w http.ResponseWriter, r *http.Request) {
	h.followUp(w, r, "scam check", "scamCheck", h.analyzer.ScamCheck)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// ListBills returns the saved history, newest first.
func (h *BillsHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list bills failed", "error", err)
		jsonError(w, "Could not load bill history.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bills": items})
}

// SaveBill stores a bill. Identifiers in the bill text are scrubbed before it
// is persisted; a missing or unusable analysis is computed first.
func (h *BillsHandler) SaveBill(w http.ResponseWriter, r *http.Request) {
	text, analysis, ok := h.readBill(w, r)
	if !ok {
		return
	}
	if analysis == nil {
		computed, err := h.analyzer.Analyze(r.Context(), text)
		if err != nil {
			h.logger.Error("bill analysis failed", "error", err)
			jsonError(w, "Bill analysis failed. Check server logs and environment configuration.", http.StatusInternalServerError)
			return
		}
		analysis = &computed
	}
	item := bills.NewHistoryItem(uuid.NewString(), h.now(), safety.Sanitize(text), *analysis)
	if err := h.repo.Save(r.Context(), item); err != nil {
		h.logger.Error("save bill failed", "error", err)
		jsonError(w, "Could not save the bill.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *BillsHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	item, err := h.repo.Get(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		h.writeRepoError(w, "get bill", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *BillsHandler) UpdateBillStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, errInvalidJSON, http.StatusBadRequest)
		return
	}
	status, err := bills.ParseStatus(req.Status)
	if err != nil {
		jsonError(w, "Field 'status' must be one of paid, waiting, need-to-call.", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "billID")
	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		h.writeRepoError(w, "update bill status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

func (h *BillsHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "billID")); err != nil {
		h.writeRepoError(w, "delete bill", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BillsHandler) writeRepoError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, bills.ErrBillNotFound) {
		jsonError(w, "Bill not found.", http.StatusNotFound)
		return
	}
	h.logger.Error(action+" failed", "error", err)
	jsonError(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
}
