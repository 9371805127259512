package llm

import "strings"

// ExtractJSON trims markdown code fences and surrounding prose from a model
// reply so the JSON object inside can be decoded. Text without an object is
// returned trimmed.
func ExtractJSON(raw string) string {
	text := stripCodeFence(raw)
	text = extractJSONObject(text)
	return strings.TrimSpace(text)
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	if strings.HasPrefix(text, "{") {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
