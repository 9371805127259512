package safety

import "strings"

// Medication is a user's medication record as stored by the application.
type Medication struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Dose      string `json:"dose,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Doctor    string `json:"doctor,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MedicationContext is the only medication shape allowed into a prompt.
type MedicationContext struct {
	Name      string `json:"name"`
	Dose      string `json:"dose,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// SanitizeMedications keeps name, dose and frequency and drops prescriber
// and free-text notes. Kept fields are scrubbed as well.
func SanitizeMedications(meds []Medication) []MedicationContext {
	if len(meds) == 0 {
		return nil
	}
	out := make([]MedicationContext, 0, len(meds))
	for _, m := range meds {
		name := strings.TrimSpace(Sanitize(m.Name))
		if name == "" {
			continue
		}
		out = append(out, MedicationContext{
			Name:      name,
			Dose:      strings.TrimSpace(Sanitize(m.Dose)),
			Frequency: strings.TrimSpace(Sanitize(m.Frequency)),
		})
	}
	return out
}
