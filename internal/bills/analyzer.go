package bills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

const (
	analysisTemperature   = 0.2
	analysisMaxTokens     = 1024
	contactScriptTokens   = 1024
	doctorQuestionsTokens = 1024
	scamCheckTokens       = 768
)

const (
	contactScriptUnavailable   = "Sorry, I could not prepare a contact script based on this bill."
	doctorQuestionsUnavailable = "Sorry, I could not prepare doctor questions based on this bill."
	scamCheckUnavailable       = "Sorry, I could not check this bill for scam warning signs."
)

// Analyzer runs the bill prompts through a model gateway. Bill text is
// scrubbed of identifiers before it leaves the process.
type Analyzer struct {
	gateway llm.Gateway
	logger  *logging.Logger
}

func NewAnalyzer(gateway llm.Gateway, logger *logging.Logger) *Analyzer {
	if gateway == nil {
		panic("bills: gateway cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Analyzer{gateway: gateway, logger: logger}
}

// Analyze returns the structured reading of billText. Gateway errors are
// returned; replies that are not the expected JSON become the summary.
func (a *Analyzer) Analyze(ctx context.Context, billText string) (Analysis, error) {
	ctx, span := otel.Tracer("caretaker-ai/internal/bills").Start(ctx, "bills.analyze")
	defer span.End()

	raw, err := llm.SimpleChat(ctx, a.gateway, analysisSystemPrompt, safety.Sanitize(billText), llm.Options{
		MaxTokens:   analysisMaxTokens,
		Temperature: llm.Float64(analysisTemperature),
	})
	if err != nil {
		span.RecordError(err)
		return Analysis{}, fmt.Errorf("bills: analyze: %w", err)
	}
	return ParseAnalysis(raw), nil
}

// ParseAnalysis never fails: an empty reply yields the unavailable notice and
// any other unusable reply is kept verbatim as the summary.
func ParseAnalysis(raw string) Analysis {
	if strings.TrimSpace(raw) == "" {
		return unavailableAnalysis()
	}
	if parsed, ok := DecodeAnalysis([]byte(llm.ExtractJSON(raw))); ok {
		return parsed
	}
	return rawAnalysis(raw)
}

// ContactScript drafts phone, email and letter wording about the bill.
func (a *Analyzer) ContactScript(ctx context.Context, billText string, analysis *Analysis) (string, error) {
	return a.followUp(ctx, "bills.contact_script", contactScriptSystemPrompt, billText, analysis, contactScriptTokens, contactScriptUnavailable)
}

// DoctorQuestions drafts questions to bring to the clinic.
func (a *Analyzer) DoctorQuestions(ctx context.Context, billText string, analysis *Analysis) (string, error) {
	return a.followUp(ctx, "bills.doctor_questions", doctorQuestionsSystemPrompt, billText, analysis, doctorQuestionsTokens, doctorQuestionsUnavailable)
}

// ScamCheck lists possible warning signs without claiming fraud.
func (a *Analyzer) ScamCheck(ctx context.Context, billText string, analysis *Analysis) (string, error) {
	return a.followUp(ctx, "bills.scam_check", scamCheckSystemPrompt, billText, analysis, scamCheckTokens, scamCheckUnavailable)
}

func (a *Analyzer) followUp(ctx context.Context, spanName, system, billText string, analysis *Analysis, maxTokens int, unavailable string) (string, error) {
	ctx, span := otel.Tracer("caretaker-ai/internal/bills").Start(ctx, spanName)
	defer span.End()

	raw, err := llm.SimpleChat(ctx, a.gateway, system, buildBillMessage(safety.Sanitize(billText), analysis), llm.Options{
		MaxTokens:   maxTokens,
		Temperature: llm.Float64(analysisTemperature),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%s: %w", strings.ReplaceAll(spanName, ".", ": "), err)
	}
	if out := strings.TrimSpace(raw); out != "" {
		return out, nil
	}
	a.logger.Warn("bill follow-up returned no text", "operation", spanName)
	return unavailable, nil
}

func buildBillMessage(billText string, analysis *Analysis) string {
	parts := []string{"Here is the full text of the bill:", billText}
	if analysis != nil {
		encoded, err := json.MarshalIndent(analysis, "", "  ")
		if err == nil {
			parts = append(parts, "", "Here is a structured analysis of the bill in JSON format:", safety.Sanitize(string(encoded)))
		}
	}
	return strings.Join(parts, "\n\n")
}
