package safety

import (
	"encoding/json"
	"strings"

	"github.com/wolfman30/caretaker-ai/internal/llm"
)

// ComposeChat builds the outbound message list: one system message followed
// by one user message. Both the user text and the medication list are
// scrubbed here, so callers cannot send raw input by mistake.
func ComposeChat(userMessage string, meds []Medication) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemMessage(meds)},
		{Role: llm.RoleUser, Content: Sanitize(userMessage)},
	}
}

// SystemMessage joins the safety rules, the scenario guidance and, when
// present, the scrubbed medication context.
func SystemMessage(meds []Medication) string {
	var b strings.Builder
	b.WriteString(SystemPrompt)
	b.WriteString("\n")
	b.WriteString(ScenarioPrompt)

	if ctx := SanitizeMedications(meds); len(ctx) > 0 {
		encoded, err := json.MarshalIndent(ctx, "", "  ")
		if err == nil {
			b.WriteString(medicationContextHeader)
			b.Write(encoded)
		}
	}
	return b.String()
}
