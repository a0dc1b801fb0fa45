package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visittrack/api/chat"
	"visittrack/api/metrics"
	"visittrack/api/models"
)

type logged struct {
	session, role, message string
}

type fakeChatLogger struct {
	entries []logged
	err     error
}

func (f *fakeChatLogger) InsertChatLog(_ context.Context, sessionID, role, message string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.entries = append(f.entries, logged{sessionID, role, message})
	return int64(len(f.entries)), nil
}

type fakeCompleter struct {
	configured bool
	reply      string
	err        error
	calls      int
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func postChat(h *ChatHandlers, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/api/chat", h.Chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeReply(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Response
}

func TestChatRejectsMissingMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty message", `{"message":""}`},
		{"whitespace", `{"message":"   "}`},
		{"malformed", `{"message":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &fakeChatLogger{}
			completer := &fakeCompleter{configured: true}
			w := postChat(NewChatHandlers(logs, completer, metrics.New()), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Message is required"}`, w.Body.String())
			assert.Empty(t, logs.entries)
			assert.Zero(t, completer.calls)
		})
	}
}

func TestChatFallbackWithoutCredential(t *testing.T) {
	logs := &fakeChatLogger{}
	completer := &fakeCompleter{configured: false}
	m := metrics.New()

	w := postChat(NewChatHandlers(logs, completer, m), `{"message":"Bonjour","sessionId":"abc"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chat.FallbackResponse, decodeReply(t, w))
	assert.Zero(t, completer.calls)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, logged{"abc", models.RoleUser, "Bonjour"}, logs.entries[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues(metrics.OutcomeFallback)))
}

func TestChatLogsBothSidesOnSuccess(t *testing.T) {
	logs := &fakeChatLogger{}
	completer := &fakeCompleter{configured: true, reply: "Je recommande l'option 2."}

	w := postChat(NewChatHandlers(logs, completer, metrics.New()), `{"message":"Quelle option ?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Je recommande l'option 2."}`, w.Body.String())
	require.Len(t, logs.entries, 2)
	assert.Equal(t, models.RoleUser, logs.entries[0].role)
	assert.Equal(t, models.RoleAssistant, logs.entries[1].role)
	assert.Equal(t, "Je recommande l'option 2.", logs.entries[1].message)
}

func TestChatUpstreamFailure(t *testing.T) {
	logs := &fakeChatLogger{}
	completer := &fakeCompleter{configured: true, err: errors.New("upstream 529")}
	m := metrics.New()

	w := postChat(NewChatHandlers(logs, completer, m), `{"message":"Bonjour"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Chatbot error"}`, w.Body.String())
	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.RoleUser, logs.entries[0].role)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues(metrics.OutcomeError)))
}

func TestChatToleratesLogFailure(t *testing.T) {
	logs := &fakeChatLogger{err: errors.New("disk full")}

	w := postChat(NewChatHandlers(logs, &fakeCompleter{configured: true, reply: "ok"}, metrics.New()), `{"message":"Bonjour"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"ok"}`, w.Body.String())

	w = postChat(NewChatHandlers(logs, &fakeCompleter{}, metrics.New()), `{"message":"Bonjour"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chat.FallbackResponse, decodeReply(t, w))
}
