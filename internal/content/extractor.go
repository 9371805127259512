package content

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// Confidence grades an extraction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	extractionMaxTokens   = 512
	extractionTemperature = 0.1
)

// ExtractedAppointment holds best-effort appointment fields. A nil field means
// the value was not found; it is never an empty string.
type ExtractedAppointment struct {
	Doctor     *string    `json:"doctor"`
	Specialty  *string    `json:"specialty"`
	Location   *string    `json:"location"`
	Address    *string    `json:"address"`
	Phone      *string    `json:"phone"`
	Date       *string    `json:"date"`
	Time       *string    `json:"time"`
	Reason     *string    `json:"reason"`
	Notes      *string    `json:"notes"`
	Confidence Confidence `json:"confidence"`
}

// EmptyExtraction is the all-null, low-confidence result.
func EmptyExtraction() ExtractedAppointment {
	return ExtractedAppointment{Confidence: ConfidenceLow}
}

// ExtractionObserver counts extractions by confidence.
type ExtractionObserver interface {
	ObserveExtraction(confidence string)
}

// Extractor turns free text into appointment fields through a model gateway.
type Extractor struct {
	gateway llm.Gateway
	logger  *logging.Logger
	metrics ExtractionObserver
}

func NewExtractor(gateway llm.Gateway, logger *logging.Logger, metrics ExtractionObserver) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{gateway: gateway, logger: logger, metrics: metrics}
}

// ExtractAppointment never fails: gateway errors and unusable replies both
// yield EmptyExtraction. Phone numbers are kept in the outbound text since
// the clinic phone is one of the fields being extracted; every other
// identifier is scrubbed.
func (e *Extractor) ExtractAppointment(ctx context.Context, text string) ExtractedAppointment {
	ctx, span := otel.Tracer("caretaker-ai/internal/content").Start(ctx, "content.extract_appointment")
	defer span.End()

	result := EmptyExtraction()
	if e == nil || e.gateway == nil || strings.TrimSpace(text) == "" {
		e.observe(result.Confidence)
		return result
	}

	opts := llm.Options{
		MaxTokens:   extractionMaxTokens,
		Temperature: llm.Float64(extractionTemperature),
	}
	raw, err := llm.SimpleChat(ctx, e.gateway, extractionSystemPrompt, safety.SanitizeExcept(text, safety.PIIPhone), opts)
	if err != nil {
		span.RecordError(err)
		e.logger.Error("appointment extraction failed", "error", err)
	} else {
		parsed, ok := ParseExtraction(raw)
		if !ok {
			e.logger.Warn("appointment extraction returned unusable output", "preview", safety.Preview(raw, 100))
		}
		result = parsed
	}

	span.SetAttributes(attribute.String("content.confidence", string(result.Confidence)))
	e.observe(result.Confidence)
	return result
}

func (e *Extractor) observe(c Confidence) {
	if e != nil && e.metrics != nil {
		e.metrics.ObserveExtraction(string(c))
	}
}

// ParseExtraction decodes a model reply. ok is false when the reply holds no
// JSON object, in which case the result is EmptyExtraction. Fields that are
// missing, blank or not strings become nil.
func ParseExtraction(raw string) (ExtractedAppointment, bool) {
	text := llm.ExtractJSON(raw)
	if text == "" {
		return EmptyExtraction(), false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return EmptyExtraction(), false
	}

	out := ExtractedAppointment{
		Doctor:     stringField(fields, "doctor"),
		Specialty:  stringField(fields, "specialty"),
		Location:   stringField(fields, "location"),
		Address:    stringField(fields, "address"),
		Phone:      stringField(fields, "phone"),
		Date:       stringField(fields, "date"),
		Time:       stringField(fields, "time"),
		Reason:     stringField(fields, "reason"),
		Notes:      stringField(fields, "notes"),
		Confidence: ConfidenceLow,
	}
	if c := stringField(fields, "confidence"); c != nil {
		switch Confidence(strings.ToLower(*c)) {
		case ConfidenceHigh:
			out.Confidence = ConfidenceHigh
		case ConfidenceMedium:
			out.Confidence = ConfidenceMedium
		}
	}
	return out, true
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
