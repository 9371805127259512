// Package safety holds the deterministic checks that wrap every model call:
// PII scrubbing, emergency detection, prompt composition, output validation
// and safe substitution.
package safety

import "regexp"

// PIICategory names a class of personal identifier.
type PIICategory string

const (
	PIISSN      PIICategory = "ssn"
	PIIMedicare PIICategory = "medicare"
	PIICard     PIICategory = "card"
	PIIPhone    PIICategory = "phone"
	PIIEmail    PIICategory = "email"
)

// Placeholders are bracketed all-caps tags so no detection pattern can match
// them again.
var piiPlaceholders = map[PIICategory]string{
	PIISSN:      "[SSN REMOVED]",
	PIIMedicare: "[MEDICARE ID REMOVED]",
	PIICard:     "[CARD NUMBER REMOVED]",
	PIIPhone:    "[PHONE REMOVED]",
	PIIEmail:    "[EMAIL REMOVED]",
}

type piiPattern struct {
	re       *regexp.Regexp
	category PIICategory
}

// piiPatterns is applied in order. The legacy Medicare form (SSN digits plus a
// trailing letter) runs before the SSN rules so its suffix is removed with it.
var piiPatterns = []piiPattern{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}[A-Z]\b`), PIIMedicare},
	{regexp.MustCompile(`\b[A-Z]\d{10}\b`), PIIMedicare},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), PIISSN},
	{regexp.MustCompile(`\b\d{9}\b`), PIISSN},
	{regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`), PIICard},
	{regexp.MustCompile(`\b\d{15,16}\b`), PIICard},
	{regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]\d{4}\b`), PIIPhone},
	{regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`), PIIPhone},
	{regexp.MustCompile(`\b\d{10}\b`), PIIPhone},
	{regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`), PIIEmail},
}

// Sanitize replaces every detected identifier with its category placeholder.
// It is total and idempotent.
func Sanitize(text string) string {
	return sanitize(text, nil)
}

// SanitizeExcept scrubs every category except those in keep. Used where a
// category is the payload, such as a clinic phone number in an appointment.
func SanitizeExcept(text string, keep ...PIICategory) string {
	if len(keep) == 0 {
		return sanitize(text, nil)
	}
	skip := make(map[PIICategory]bool, len(keep))
	for _, c := range keep {
		skip[c] = true
	}
	return sanitize(text, skip)
}

func sanitize(text string, skip map[PIICategory]bool) string {
	if text == "" {
		return text
	}
	out := text
	for _, p := range piiPatterns {
		if skip[p.category] {
			continue
		}
		out = p.re.ReplaceAllLiteralString(out, piiPlaceholders[p.category])
	}
	return out
}

// ContainsPII reports whether any pattern used by Sanitize matches text.
func ContainsPII(text string) bool {
	return len(DetectPII(text)) > 0
}

// DetectPII lists the categories found in text, in pattern order and without
// duplicates.
func DetectPII(text string) []PIICategory {
	var found []PIICategory
	seen := map[PIICategory]bool{}
	for _, p := range piiPatterns {
		if seen[p.category] {
			continue
		}
		if p.re.MatchString(text) {
			seen[p.category] = true
			found = append(found, p.category)
		}
	}
	return found
}
