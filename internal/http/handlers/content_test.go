package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/caretaker-ai/internal/content"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

type stubExtractor struct {
	result content.ExtractedAppointment
	calls  int
}

func (s *stubExtractor) ExtractAppointment(context.Context, string) content.ExtractedAppointment {
	s.calls++
	return s.result
}

func TestContentDetect(t *testing.T) {
	h := NewContentHandler(nil, logging.Discard())

	rec := postJSON(t, h.Detect, `{"text":"From: clinic@example.com\nSubject: Visit reminder\n\nSee you Monday"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "email", body["type"])
	assert.Equal(t, true, body["supported"])
	assert.Equal(t, true, body["requiresAiExtraction"])

	rec = postJSON(t, h.Detect, `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errTextRequired, decodeBody(t, rec)["error"])

	rec = postJSON(t, h.Detect, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errInvalidJSON, decodeBody(t, rec)["error"])
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestContentUpload(t *testing.T) {
	h := NewContentHandler(nil, logging.Discard())

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "visit.ics", "text/calendar", []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ics", body["type"])
	assert.Equal(t, "visit.ics", body["fileName"])
	assert.Equal(t, false, body["requiresAiExtraction"])

	rec = httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "scan.jpg", "image/jpeg", []byte{0xff, 0xd8}))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "image", body["type"])
	assert.Equal(t, false, body["supported"])
	assert.Equal(t, "", body["content"])

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/content/upload", nil)
	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentAppointmentsRoutesByType(t *testing.T) {
	doctor := "Dr. Lee"
	ex := &stubExtractor{result: content.ExtractedAppointment{Doctor: &doctor, Confidence: content.ConfidenceMedium}}
	h := NewContentHandler(ex, logging.Discard())

	rec := postJSON(t, h.Appointments, `{"text":"Dr. Lee on Friday at 10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "text", body["type"])
	extracted := body["extracted"].(map[string]any)
	assert.Equal(t, "Dr. Lee", extracted["doctor"])
	assert.Nil(t, extracted["time"])
	assert.Equal(t, "medium", extracted["confidence"])
	assert.Equal(t, 1, ex.calls)

	ics := `{"text":"BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//test//EN\nBEGIN:VEVENT\nUID:1\nDTSTAMP:20260301T120000Z\nDTSTART:20260317T143000Z\nSUMMARY:Dr. Patel\nEND:VEVENT\nEND:VCALENDAR"}`
	rec = postJSON(t, h.Appointments, ics)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "ics", body["type"])
	appts := body["appointments"].([]any)
	require.Len(t, appts, 1)
	assert.Equal(t, "Dr. Patel", appts[0].(map[string]any)["doctor"])
	assert.Equal(t, 1, ex.calls, "calendar text must not reach the extractor")
}
