// Package bills explains consumer bills in plain language and keeps an
// optional history of analyzed bills.
package bills

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBillNotFound  = errors.New("bills: bill not found")
	ErrInvalidStatus = errors.New("bills: invalid status")
)

// Analysis is the structured reading of one bill.
type Analysis struct {
	Summary           string   `json:"summary"`
	PotentialIssues   []string `json:"potentialIssues"`
	VendorName        *string  `json:"vendorName"`
	StatementDate     *string  `json:"statementDate"`
	DueDate           *string  `json:"dueDate"`
	TotalAmount       *string  `json:"totalAmount"`
	MinimumDue        *string  `json:"minimumDue"`
	BillingPeriod     *string  `json:"billingPeriod"`
	InsuranceCoverage *string  `json:"insuranceCoverage"`
	NextSteps         []string `json:"nextSteps"`
}

func unavailableAnalysis() Analysis {
	return Analysis{
		Summary:         "Bill analysis is unavailable. The model did not return text.",
		PotentialIssues: []string{},
		NextSteps:       []string{},
	}
}

func rawAnalysis(text string) Analysis {
	return Analysis{Summary: text, PotentialIssues: []string{}, NextSteps: []string{}}
}

// DecodeAnalysis accepts data only when it is an object with a string
// summary and an array of potentialIssues. Optional fields that are missing
// or null stay nil; scalar values are kept as their text.
func DecodeAnalysis(data []byte) (Analysis, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Analysis{}, false
	}
	var summary string
	if err := json.Unmarshal(fields["summary"], &summary); err != nil {
		return Analysis{}, false
	}
	issues, ok := stringList(fields["potentialIssues"])
	if !ok {
		return Analysis{}, false
	}
	steps, ok := stringList(fields["nextSteps"])
	if !ok {
		steps = []string{}
	}
	return Analysis{
		Summary:           summary,
		PotentialIssues:   issues,
		VendorName:        optionalString(fields["vendorName"]),
		StatementDate:     optionalString(fields["statementDate"]),
		DueDate:           optionalString(fields["dueDate"]),
		TotalAmount:       optionalString(fields["totalAmount"]),
		MinimumDue:        optionalString(fields["minimumDue"]),
		BillingPeriod:     optionalString(fields["billingPeriod"]),
		InsuranceCoverage: optionalString(fields["insuranceCoverage"]),
		NextSteps:         steps,
	}, true
}

func stringList(raw json.RawMessage) ([]string, bool) {
	if raw == nil {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out, true
}

func optionalString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return &t
	case float64, bool:
		s := strings.TrimSpace(string(raw))
		return &s
	default:
		return nil
	}
}

// Status tracks what the caretaker still has to do about a bill.
type Status string

const (
	StatusPaid       Status = "paid"
	StatusWaiting    Status = "waiting"
	StatusNeedToCall Status = "need-to-call"
)

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPaid, StatusWaiting, StatusNeedToCall:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// MaxHistoryItems bounds the saved history.
const MaxHistoryItems = 50

// HistoryItem is one saved bill.
type HistoryItem struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	VendorName      *string   `json:"vendorName"`
	TotalAmount     *string   `json:"totalAmount"`
	Summary         string    `json:"summary"`
	Status          Status    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	BillText        string    `json:"billText"`
	Analysis        Analysis  `json:"analysis"`
	ContactScript   string    `json:"contactScript,omitempty"`
	DoctorQuestions string    `json:"doctorQuestions,omitempty"`
	ScamCheck       string    `json:"scamCheck,omitempty"`
}

// NewHistoryItem copies the headline fields out of the analysis. New bills
// start as waiting.
func NewHistoryItem(id string, now time.Time, billText string, analysis Analysis) HistoryItem {
	return HistoryItem{
		ID:          id,
		Date:        now.UTC(),
		VendorName:  analysis.VendorName,
		TotalAmount: analysis.TotalAmount,
		Summary:     analysis.Summary,
		Status:      StatusWaiting,
		BillText:    billText,
		Analysis:    analysis,
	}
}
