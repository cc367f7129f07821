package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingFilter_RequestThenResponse(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var loggedBeforeHandler int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggedBeforeHandler = logs.Len()
		w.Header().Set("Set-Cookie", "session=secret")
		w.Header().Set("X-Trace", "abc")
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login?next=%2Fhome", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("Cookie", "session=secret")
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	LoggingFilter(zap.New(core))(next).ServeHTTP(rec, req)

	assert.Equal(t, 1, loggedBeforeHandler, "request line is written before forwarding")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "session=secret", rec.Header().Get("Set-Cookie"), "client still receives the real header")

	entries := logs.All()
	require.Len(t, entries, 2)

	request := entries[0]
	assert.Equal(t, "request", request.Message)
	assert.Equal(t, "POST", request.ContextMap()["method"])
	assert.Equal(t, "/api/auth/login?next=%2Fhome", request.ContextMap()["uri"])
	reqHeaders := request.ContextMap()["headers"].(http.Header)
	assert.Equal(t, redacted, reqHeaders.Get("Authorization"))
	assert.Equal(t, redacted, reqHeaders.Get("Cookie"))
	assert.Equal(t, "application/json", reqHeaders.Get("Accept"))

	response := entries[1]
	assert.Equal(t, "response", response.Message)
	assert.EqualValues(t, http.StatusAccepted, response.ContextMap()["status"])
	respHeaders := response.ContextMap()["headers"].(http.Header)
	assert.Equal(t, redacted, respHeaders.Get("Set-Cookie"))
	assert.Equal(t, "abc", respHeaders.Get("X-Trace"))
}

func TestLoggingFilter_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	LoggingFilter(zap.New(core))(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	responses := logs.FilterMessage("response").All()
	require.Len(t, responses, 1)
	assert.EqualValues(t, http.StatusOK, responses[0].ContextMap()["status"])
}

func TestLoggingFilter_PanicStillLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h := LoggingFilter(zap.New(core))(next)

	assert.PanicsWithValue(t, "boom", func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))
	})

	responses := logs.FilterMessage("response").All()
	require.Len(t, responses, 1)
	assert.Equal(t, zapcore.ErrorLevel, responses[0].Level)
	assert.EqualValues(t, http.StatusInternalServerError, responses[0].ContextMap()["status"])
	assert.Equal(t, "boom", responses[0].ContextMap()["panic"])
}

func TestRedactHeaders(t *testing.T) {
	assert.Empty(t, redactHeaders(nil))

	h := http.Header{"Authorization": {"Bearer x"}, "X-Other": {"1"}}
	out := redactHeaders(h)
	assert.Equal(t, "Bearer x", h.Get("Authorization"), "input is not modified")
	assert.Equal(t, redacted, out.Get("Authorization"))
	assert.Equal(t, "1", out.Get("X-Other"))
}
