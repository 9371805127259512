package safety

import "regexp"

// emergencyPatterns favor recall over precision.
var emergencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)chest\s+pain`),
	regexp.MustCompile(`(?i)(can['’]?t|cannot|can not)\s+breathe`),
	regexp.MustCompile(`(?i)(difficulty|trouble)\s+breathing`),
	regexp.MustCompile(`(?i)not\s+breathing`),
	regexp.MustCompile(`(?i)breathing\s+(difficult|problem)`),
	regexp.MustCompile(`(?i)short(ness)?\s+of\s+breath`),
	regexp.MustCompile(`(?i)heart\s+attack`),
	regexp.MustCompile(`(?i)\bstroke\b`),
	regexp.MustCompile(`(?i)suicid(e|al)`),
	regexp.MustCompile(`(?i)kill\s+myself`),
	regexp.MustCompile(`(?i)want\s+to\s+die`),
	regexp.MustCompile(`(?i)end\s+my\s+life`),
	regexp.MustCompile(`(?i)hurt\s+myself`),
	regexp.MustCompile(`(?i)self[-\s]?harm`),
	regexp.MustCompile(`(?i)overdos(e|ed|ing)`),
	regexp.MustCompile(`(?i)took\s+too\s+(much|many)`),
	regexp.MustCompile(`(?i)bleeding\s+(heavily|won['’]?t\s+stop|will\s+not\s+stop)`),
	regexp.MustCompile(`(?i)uncontrolled\s+bleeding`),
	regexp.MustCompile(`(?i)(can['’]?t|cannot|can\s+not)\s+stop\s+(the\s+)?bleeding`),
	regexp.MustCompile(`(?i)unconscious`),
	regexp.MustCompile(`(?i)passed\s+out`),
	regexp.MustCompile(`(?i)seizure`),
}

// EmergencyResponse is returned instead of any model output when
// IsEmergency matches. It is never generated by a model.
const EmergencyResponse = `This sounds like it could be an emergency. Please get help right now:

- Call 911 (or your local emergency number) immediately, or go to the nearest emergency room.
- If someone may have taken too much of a medication or swallowed something harmful, call Poison Control at 1-800-222-1222.
- If you are thinking about hurting yourself or are in crisis, call or text 988 to reach the Suicide & Crisis Lifeline.

You don't have to handle this alone. Please reach out to one of these services now.`

// IsEmergency reports whether text contains emergency or self-harm language.
func IsEmergency(text string) bool {
	for _, re := range emergencyPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
