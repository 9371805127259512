package safety

import "regexp"

// Severity grades a model response.
type Severity string

const (
	SeverityBlocked Severity = "blocked"
	SeverityWarning Severity = "warning"
	SeverityClean   Severity = "clean"
)

// ValidationOutcome is the verdict on one model response. Flags is empty iff
// Severity is clean, and Safe is false iff Severity is blocked.
type ValidationOutcome struct {
	Safe             bool     `json:"safe"`
	Severity         Severity `json:"severity"`
	Flags            []string `json:"flags"`
	OriginalResponse string   `json:"original_response"`
}

type responsePattern struct {
	re   *regexp.Regexp
	flag string
}

// Directive advice about starting, stopping or changing medication.
var directivePatterns = []responsePattern{
	{regexp.MustCompile(`(?i)you (should|must|need to) (take|stop|increase|decrease|skip)`), "advice:directive_dose_change"},
	{regexp.MustCompile(`(?i)I (recommend|suggest|advise) (taking|stopping|changing)`), "advice:recommendation"},
	{regexp.MustCompile(`(?i)(start|stop|change) (taking|your) (medication|medicine|dose)`), "advice:medication_change"},
	{regexp.MustCompile(`(?i)take \d+ (mg|milligrams|pills|tablets)`), "advice:dosage_instruction"},
}

// Diagnostic claims.
var diagnosticPatterns = []responsePattern{
	{regexp.MustCompile(`(?i)this (indicates|suggests|means you have|shows you have)`), "diagnosis:indicates"},
	{regexp.MustCompile(`(?i)you (probably|likely|might|may) have`), "diagnosis:probable_condition"},
	{regexp.MustCompile(`(?i)sounds like (you have|a case of)`), "diagnosis:sounds_like"},
	{regexp.MustCompile(`(?i)I (think|believe) you have`), "diagnosis:belief"},
	{regexp.MustCompile(`(?i)you(['’]re| are) (suffering from|experiencing)`), "diagnosis:suffering_from"},
}

// False reassurance.
var reassurancePatterns = []responsePattern{
	{regexp.MustCompile(`(?i)don['’]t worry about`), "reassurance:dont_worry"},
	{regexp.MustCompile(`(?i)nothing to worry about`), "reassurance:nothing_to_worry"},
	{regexp.MustCompile(`(?i)you(['’]ll| will) be fine`), "reassurance:youll_be_fine"},
	{regexp.MustCompile(`(?i)it['’]s (probably )?nothing`), "reassurance:its_nothing"},
}

// Unqualified safety claims.
var safetyClaimPatterns = []responsePattern{
	{regexp.MustCompile(`(?i)safe to (take|stop|mix|combine)`), "safety_claim:safe_to"},
	{regexp.MustCompile(`(?i)won['’]t (hurt|harm|affect)`), "safety_claim:wont_harm"},
	{regexp.MustCompile(`(?i)no (risk|danger|harm) in`), "safety_claim:no_risk"},
}

// Clinical vocabulary that passes through but is flagged for review.
var warningPatterns = []responsePattern{
	{regexp.MustCompile(`(?i)normal range`), "clinical:normal_range"},
	{regexp.MustCompile(`(?i)side effect`), "clinical:side_effect"},
	{regexp.MustCompile(`(?i)interact`), "clinical:interaction"},
	{regexp.MustCompile(`(?i)overdose`), "clinical:overdose"},
	{regexp.MustCompile(`(?i)withdrawal`), "clinical:withdrawal"},
}

var blockingPatterns []responsePattern

func init() {
	blockingPatterns = append(blockingPatterns, directivePatterns...)
	blockingPatterns = append(blockingPatterns, diagnosticPatterns...)
	blockingPatterns = append(blockingPatterns, reassurancePatterns...)
	blockingPatterns = append(blockingPatterns, safetyClaimPatterns...)
}

// Validate grades a raw model response. Any blocking match blocks the whole
// response; warning matches are reported only when nothing blocks.
func Validate(response string) ValidationOutcome {
	if flags := matchFlags(blockingPatterns, response); len(flags) > 0 {
		return ValidationOutcome{Safe: false, Severity: SeverityBlocked, Flags: flags, OriginalResponse: response}
	}
	if flags := matchFlags(warningPatterns, response); len(flags) > 0 {
		return ValidationOutcome{Safe: true, Severity: SeverityWarning, Flags: flags, OriginalResponse: response}
	}
	return ValidationOutcome{Safe: true, Severity: SeverityClean, Flags: []string{}, OriginalResponse: response}
}

func matchFlags(patterns []responsePattern, text string) []string {
	var flags []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			flags = append(flags, p.flag)
		}
	}
	return flags
}
