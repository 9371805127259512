package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/caretaker-ai/internal/content"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

type appointmentExtractor interface {
	ExtractAppointment(ctx context.Context, text string) content.ExtractedAppointment
}

// ContentHandler classifies uploads and pastes and pulls appointment details
// out of them.
type ContentHandler struct {
	extractor appointmentExtractor
	logger    *logging.Logger
}

func NewContentHandler(extractor appointmentExtractor, logger *logging.Logger) *ContentHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContentHandler{extractor: extractor, logger: logger}
}

type textRequest struct {
	Text json.RawMessage `json:"text"`
}

func (h *ContentHandler) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, errInvalidJSON, http.StatusBadRequest)
		return "", false
	}
	text, ok := requiredText(req.Text)
	if !ok {
		jsonError(w, errTextRequired, http.StatusBadRequest)
		return "", false
	}
	return text, true
}

type detectResponse struct {
	content.DetectedContent
	Supported            bool `json:"supported"`
	RequiresAIExtraction bool `json:"requiresAiExtraction"`
}

func newDetectResponse(d content.DetectedContent) detectResponse {
	return detectResponse{
		DetectedContent:      d,
		Supported:            content.IsSupported(d.Type),
		RequiresAIExtraction: content.RequiresAIExtraction(d.Type),
	}
}

// Detect classifies pasted text.
func (h *ContentHandler) Detect(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newDetectResponse(content.DetectFromText(text)))
}

// Upload classifies a multipart "file" upload.
func (h *ContentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, content.MaxFileBytes+(64<<10))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "File is too large.", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "Field 'file' is required.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	detected, err := content.DetectFromFile(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("failed to read upload", "error", err)
		jsonError(w, "Could not read the uploaded file.", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, newDetectResponse(detected))
}

type appointmentsResponse struct {
	Type         content.ContentType           `json:"type"`
	Events       []content.CalendarEvent       `json:"events,omitempty"`
	Appointments []content.CalendarAppointment `json:"appointments,omitempty"`
	Extracted    *content.ExtractedAppointment `json:"extracted,omitempty"`
}

// Appointments parses calendar text deterministically and sends anything
// else through the extractor.
func (h *ContentHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}
	detected := content.DetectFromText(text)
	resp := appointmentsResponse{Type: detected.Type}

	switch {
	case detected.Type == content.TypeICS:
		resp.Events = content.ParseICS(detected.Content, h.logger)
		resp.Appointments = make([]content.CalendarAppointment, 0, len(resp.Events))
		for _, ev := range resp.Events {
			resp.Appointments = append(resp.Appointments, content.EventToAppointment(ev))
		}
		if resp.Events == nil {
			resp.Events = []content.CalendarEvent{}
		}
	case content.RequiresAIExtraction(detected.Type):
		extracted := content.EmptyExtraction()
		if h.extractor != nil {
			extracted = h.extractor.ExtractAppointment(r.Context(), detected.Content)
		}
		resp.Extracted = &extracted
	default:
		jsonError(w, "This kind of content is not supported yet.", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
