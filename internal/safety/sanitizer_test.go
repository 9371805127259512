package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		secret string
	}{
		{"dashed ssn", "my ssn is 123-45-6789 ok", "my ssn is [SSN REMOVED] ok", "123-45-6789"},
		{"bare ssn", "id 123456789", "id [SSN REMOVED]", "123456789"},
		{"medicare letter form", "plan A1234567890 active", "plan [MEDICARE ID REMOVED] active", "A1234567890"},
		{"medicare legacy form", "card 123-45-6789A here", "card [MEDICARE ID REMOVED] here", "123-45-6789"},
		{"card with spaces", "visa 4111 1111 1111 1111", "visa [CARD NUMBER REMOVED]", "4111 1111 1111 1111"},
		{"card with dashes", "4111-1111-1111-1111 charged", "[CARD NUMBER REMOVED] charged", "4111-1111-1111-1111"},
		{"amex contiguous", "amex 378282246310005", "amex [CARD NUMBER REMOVED]", "378282246310005"},
		{"paren phone", "call (555) 123-4567 now", "call [PHONE REMOVED] now", "123-4567"},
		{"dotted phone", "555.123.4567", "[PHONE REMOVED]", "555.123.4567"},
		{"dashed phone", "555-123-4567", "[PHONE REMOVED]", "555-123-4567"},
		{"bare phone", "5551234567", "[PHONE REMOVED]", "5551234567"},
		{"email", "write Jane.Doe+rx@Example.COM today", "write [EMAIL REMOVED] today", "Example.COM"},
		{"no pii", "Take lisinopril 10 mg daily", "Take lisinopril 10 mg daily", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.secret != "" {
				assert.NotContains(t, got, tt.secret)
				assert.True(t, ContainsPII(tt.input))
			} else {
				assert.False(t, ContainsPII(tt.input))
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text with 42 numbers",
		"ssn 123-45-6789 and phone (555) 123-4567 and mail a@b.co",
		"(555) 123-45671234567890",
		"123-45-6789-1234",
		"a@b.co.x@y.com",
		"123456789.x@y.com",
		"A1234567890 123-45-6789A 4111111111111111",
		"1234567890123456789",
		"[SSN REMOVED] [PHONE REMOVED] [EMAIL REMOVED]",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		assert.False(t, ContainsPII(once), "sanitized output still flagged: %q", once)
	}
}

func TestContainsPIIAgreesWithSanitize(t *testing.T) {
	inputs := []string{
		"nothing here",
		"order 12345",
		"ref 987654321",
		"x@y.org",
		"dial 800.555.0100",
		"B9876543210",
	}
	for _, in := range inputs {
		assert.Equal(t, Sanitize(in) != in, ContainsPII(in), "input %q", in)
	}
}

func TestSanitizeExceptKeepsPhone(t *testing.T) {
	in := "Dr. Lee, (555) 123-4567, ssn 123-45-6789, lee@clinic.org"
	got := SanitizeExcept(in, PIIPhone)
	assert.Contains(t, got, "(555) 123-4567")
	assert.NotContains(t, got, "123-45-6789")
	assert.NotContains(t, got, "lee@clinic.org")
}

func TestDetectPII(t *testing.T) {
	got := DetectPII("mail a@b.co or call 555-123-4567, ssn 123-45-6789")
	assert.Equal(t, []PIICategory{PIISSN, PIIPhone, PIIEmail}, got)
	assert.Empty(t, DetectPII("hello"))
}

func TestSanitizeMedicationsDropsSensitiveFields(t *testing.T) {
	meds := []Medication{
		{ID: "1", Name: "Metformin", Dose: "500 mg", Frequency: "twice daily", Doctor: "Dr. Smith", Notes: "call 555-123-4567 if dizzy"},
		{ID: "2", Name: "  "},
	}
	got := SanitizeMedications(meds)
	assert.Equal(t, []MedicationContext{{Name: "Metformin", Dose: "500 mg", Frequency: "twice daily"}}, got)
	assert.Nil(t, SanitizeMedications(nil))
}
