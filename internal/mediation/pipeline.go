// Package mediation wraps every chat call to a hosted model in the safety
// checks of package safety and records the outcome in the audit trail.
package mediation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/caretaker-ai/internal/audit"
	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// Outcome names the terminal state of one mediated call.
type Outcome string

const (
	OutcomeEmergency Outcome = "emergency"
	OutcomeFallback  Outcome = "fallback"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeWarning   Outcome = "warning"
	OutcomeClean     Outcome = "clean"
)

// GatewayFailureFlag marks audit entries for calls the model never answered.
const GatewayFailureFlag = "gateway:unavailable"

// Context is the optional caretaker context of a chat. Only Medications are
// sent to the model, and only after SanitizeMedications.
type Context struct {
	Medications       []safety.Medication `json:"medications,omitempty"`
	RecentBillSummary string              `json:"recent_bill_summary,omitempty"`
	UserName          string              `json:"user_name,omitempty"`
}

// Result is what the caller shows the user.
type Result struct {
	Response       string  `json:"response"`
	WasSubstituted bool    `json:"was_substituted"`
	HadEmergency   bool    `json:"had_emergency"`
	Outcome        Outcome `json:"-"`
}

// OutcomeObserver counts terminal outcomes.
type OutcomeObserver interface {
	ObserveOutcome(outcome string)
}

// Config wires a Pipeline.
type Config struct {
	Gateway     llm.Gateway
	Audit       *audit.Logger
	Substituter *safety.Substituter
	Metrics     OutcomeObserver
	Logger      *logging.Logger
	Options     llm.Options
	Now         func() time.Time
}

// Pipeline runs the mediation state machine. It holds no per-call state and
// is safe for concurrent use.
type Pipeline struct {
	gateway     llm.Gateway
	audit       *audit.Logger
	substituter *safety.Substituter
	metrics     OutcomeObserver
	logger      *logging.Logger
	options     llm.Options
	now         func() time.Time
	tracer      trace.Tracer
}

func New(cfg Config) *Pipeline {
	if cfg.Gateway == nil {
		panic("mediation: gateway cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	auditLogger := cfg.Audit
	if auditLogger == nil {
		auditLogger = audit.NewLogger(nil, logger)
	}
	substituter := cfg.Substituter
	if substituter == nil {
		substituter = safety.NewSubstituter(logger)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		gateway:     cfg.Gateway,
		audit:       auditLogger,
		substituter: substituter,
		metrics:     cfg.Metrics,
		logger:      logger,
		options:     cfg.Options,
		now:         now,
		tracer:      otel.Tracer("caretaker-ai/internal/mediation"),
	}
}

// Chat mediates one user message. It never returns an error: gateway
// failures become safety.ConnectionFallbackMessage and unsafe output becomes
// safety.SafeResponseMessage. Emergencies return safety.EmergencyResponse
// without calling the gateway or writing an audit entry.
func (p *Pipeline) Chat(ctx context.Context, message string, cc *Context) Result {
	ctx, span := p.tracer.Start(ctx, "mediation.chat")
	defer span.End()

	if safety.IsEmergency(message) {
		span.SetAttributes(attribute.String("mediation.outcome", string(OutcomeEmergency)))
		p.observe(OutcomeEmergency)
		return Result{Response: safety.EmergencyResponse, HadEmergency: true, Outcome: OutcomeEmergency}
	}

	sanitized := safety.Sanitize(message)
	var meds []safety.Medication
	if cc != nil {
		meds = cc.Medications
	}
	messages := safety.ComposeChat(sanitized, meds)

	res, err := p.gateway.Call(ctx, messages, p.options)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("mediation.outcome", string(OutcomeFallback)))
		p.logger.Error("model gateway call failed", "error", err)
		p.observe(OutcomeFallback)
		// An abandoned call reached no terminal state the caller will see.
		if ctx.Err() == nil {
			p.audit.Record(ctx, audit.NewEntry(p.now(), sanitized, "", safety.SeverityWarning, []string{GatewayFailureFlag}, true))
		}
		return Result{Response: safety.ConnectionFallbackMessage, WasSubstituted: true, Outcome: OutcomeFallback}
	}

	verdict := safety.Validate(res.Content)
	out := Result{Response: res.Content, Outcome: Outcome(verdict.Severity)}
	if verdict.Severity == safety.SeverityBlocked {
		out.Response = p.substituter.Substitute(res.Content, verdict.Flags)
		out.WasSubstituted = true
	}

	span.SetAttributes(
		attribute.String("mediation.outcome", string(out.Outcome)),
		attribute.Int("mediation.flags", len(verdict.Flags)),
	)
	p.observe(out.Outcome)
	if ctx.Err() == nil {
		p.audit.Record(ctx, audit.NewEntry(p.now(), sanitized, res.Content, verdict.Severity, verdict.Flags, out.WasSubstituted))
	}
	return out
}

func (p *Pipeline) observe(outcome Outcome) {
	if p.metrics != nil {
		p.metrics.ObserveOutcome(string(outcome))
	}
}
