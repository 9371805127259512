package safety

import (
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// SafeResponseMessage replaces any blocked model response.
const SafeResponseMessage = "I want to be careful here. This sounds like something to discuss with your healthcare provider, as I'm not qualified to give medical advice.\n\nWould you like help preparing questions for your doctor or pharmacist?"

// ConnectionFallbackMessage is returned when the model gateway fails.
const ConnectionFallbackMessage = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."

const diagnosticPreviewRunes = 100

// Substituter swaps blocked responses for SafeResponseMessage and reports the
// block on an operator-only log stream.
type Substituter struct {
	diagnostics *logging.Logger
}

// NewSubstituter writes diagnostics through logger tagged
// component=safety.diagnostics.
func NewSubstituter(logger *logging.Logger) *Substituter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Substituter{diagnostics: logger.Component("safety.diagnostics")}
}

// Substitute returns SafeResponseMessage. The blocked text never reaches the
// return value.
func (s *Substituter) Substitute(blocked string, flags []string) string {
	if s != nil && s.diagnostics != nil {
		s.diagnostics.Warn("blocked unsafe model response",
			"flags", flags,
			"preview", Preview(blocked, diagnosticPreviewRunes),
		)
	}
	return SafeResponseMessage
}

// Preview returns at most n runes of s.
func Preview(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
