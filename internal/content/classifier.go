// Package content classifies uploaded or pasted material and turns it into
// appointment fields, deterministically for calendar files and through the
// model gateway for free text.
package content

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// ContentType is the detected kind of an upload or paste.
type ContentType string

const (
	TypeICS     ContentType = "ics"
	TypeText    ContentType = "text"
	TypeEmail   ContentType = "email"
	TypeImage   ContentType = "image"
	TypePDF     ContentType = "pdf"
	TypeUnknown ContentType = "unknown"
)

// DetectedContent is immutable once returned.
type DetectedContent struct {
	Type     ContentType `json:"type"`
	Content  string      `json:"content"`
	FileName string      `json:"fileName,omitempty"`
	MimeType string      `json:"mimeType,omitempty"`
}

// MaxFileBytes bounds how much of an upload is read as text.
const MaxFileBytes = 5 << 20

var emailHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^From:`),
	regexp.MustCompile(`(?im)^Subject:`),
	regexp.MustCompile(`(?im)^Date:.*\d{4}`),
	regexp.MustCompile(`(?im)^To:`),
}

// DetectFromFile classifies an upload by extension and MIME type. Image and
// PDF bodies are not read.
func DetectFromFile(name, mimeType string, r io.Reader) (DetectedContent, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	out := DetectedContent{FileName: name, MimeType: mimeType}

	switch {
	case ext == "ics" || mimeType == "text/calendar":
		out.Type = TypeICS
	case ext == "txt" || mimeType == "text/plain":
		out.Type = TypeText
	case strings.HasPrefix(mimeType, "image/"):
		out.Type = TypeImage
		return out, nil
	case mimeType == "application/pdf" || ext == "pdf":
		out.Type = TypePDF
		return out, nil
	default:
		out.Type = TypeText
	}

	body, err := readText(r)
	if err != nil {
		return DetectedContent{}, err
	}
	out.Content = body
	return out, nil
}

func readText(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxFileBytes))
	if err != nil {
		return "", fmt.Errorf("content: read upload: %w", err)
	}
	return string(data), nil
}

// DetectFromText classifies pasted text. Calendar markers win over email
// headers; two or more header lines make an email.
func DetectFromText(text string) DetectedContent {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") || strings.Contains(trimmed, "BEGIN:VEVENT") {
		return DetectedContent{Type: TypeICS, Content: trimmed}
	}

	matched := 0
	for _, re := range emailHeaderPatterns {
		if re.MatchString(trimmed) {
			matched++
		}
	}
	if matched >= 2 {
		return DetectedContent{Type: TypeEmail, Content: trimmed}
	}
	return DetectedContent{Type: TypeText, Content: trimmed}
}

// RequiresAIExtraction reports whether t goes through the Extractor.
func RequiresAIExtraction(t ContentType) bool {
	return t == TypeText || t == TypeEmail
}

// IsSupported reports whether t can be processed today.
func IsSupported(t ContentType) bool {
	return t == TypeICS || t == TypeText || t == TypeEmail
}
