package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/internal/mediation"
	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

type scriptedGateway struct {
	reply string
	err   error
	calls int
	last  []llm.Message
}

func (g *scriptedGateway) Call(_ context.Context, messages []llm.Message, _ llm.Options) (llm.Result, error) {
	g.calls++
	g.last = messages
	if g.err != nil {
		return llm.Result{}, g.err
	}
	return llm.Result{Content: g.reply}, nil
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newChatHandler(gw llm.Gateway) *ChatHandler {
	p := mediation.New(mediation.Config{Gateway: gw, Logger: logging.Discard()})
	return NewChatHandler(p, logging.Discard())
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name         string
		reply        string
		body         string
		wantStatus   int
		wantResponse string
		wantSubst    bool
		wantEmerg    bool
	}{
		{"clean reply", "Here is a checklist for Tuesday.", `{"message":"help me plan Tuesday"}`, http.StatusOK, "Here is a checklist for Tuesday.", false, false},
		{"blocked reply", "You should stop taking that pill.", `{"message":"should she keep taking it?"}`, http.StatusOK, safety.SafeResponseMessage, true, false},
		{"emergency", "unused", `{"message":"he is not breathing"}`, http.StatusOK, safety.EmergencyResponse, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, newChatHandler(&scriptedGateway{reply: tt.reply}).Chat, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantResponse, body["response"])
			assert.Equal(t, tt.wantSubst, body["wasSubstituted"])
			assert.Equal(t, tt.wantEmerg, body["hadEmergency"])
		})
	}
}

func TestChatHandlerRejectsBadInput(t *testing.T) {
	h := newChatHandler(&scriptedGateway{reply: "x"})

	rec := postJSON(t, h.Chat, `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errInvalidJSON, decodeBody(t, rec)["error"])

	for _, body := range []string{`{}`, `{"message":"   "}`, `{"message":42}`} {
		rec = postJSON(t, h.Chat, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestChatHandlerSendsScrubbedMedications(t *testing.T) {
	gw := &scriptedGateway{reply: "Noted."}
	rec := postJSON(t, newChatHandler(gw).Chat, `{"message":"what time is her dose?","medications":[{"name":"Metformin","dose":"500mg","frequency":"twice daily","notes":"SSN 123-45-6789"}],"userName":"Dana"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, gw.last, 2)
	assert.Contains(t, gw.last[0].Content, "Metformin")
	assert.NotContains(t, gw.last[0].Content, "123-45-6789")
	assert.NotContains(t, gw.last[0].Content, "Dana")
}

func TestAIPing(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAIHandler(&scriptedGateway{reply: " Connection successful! "}, logging.Discard()).Ping(rec, httptest.NewRequest(http.MethodGet, "/api/ai/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Connection successful!", body["message"])

	rec = httptest.NewRecorder()
	NewAIHandler(&scriptedGateway{err: &llm.GatewayError{Provider: "http", StatusCode: 401, Body: "bad key sk-123"}}, logging.Discard()).Ping(rec, httptest.NewRequest(http.MethodGet, "/api/ai/ping", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-123")
}
