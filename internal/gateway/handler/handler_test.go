package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renohub/internal/domain"
	"renohub/internal/gateway/repository/rendering"
)

func renderingMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store, err := rendering.NewMemoryStore(4)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(),
		domain.Rendering{ID: "r1", ProjectID: "1", MIMEType: "image/png"}, []byte{0x89, 'P', 'N', 'G'}))

	mux := http.NewServeMux()
	mux.HandleFunc("/renderings/{project}/{id}", NewRenderingHandler(store, zerolog.Nop()).HandleRendering)
	return mux
}

func TestRendering_ServesBytes(t *testing.T) {
	mux := renderingMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/renderings/1/r1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/renderings/2/r1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/renderings/1/r1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTrace_LogsEvent(t *testing.T) {
	var buf bytes.Buffer
	h := NewTraceHandler(zerolog.New(&buf))

	rec := httptest.NewRecorder()
	body := `{"stage":"chat_open","level":"warn","channelId":"c1","fields":{"latency_ms":12}}`
	h.HandleFrontendTrace(rec, httptest.NewRequest(http.MethodPost, "/debug/frontend-trace", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"stage":"chat_open"`)
	assert.Contains(t, buf.String(), `"channel":"c1"`)
	assert.Contains(t, buf.String(), `"latency_ms":12`)

	rec = httptest.NewRecorder()
	h.HandleFrontendTrace(rec, httptest.NewRequest(http.MethodPost, "/debug/frontend-trace", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrace_RejectsOversizedBody(t *testing.T) {
	var buf bytes.Buffer
	h := NewTraceHandler(zerolog.New(&buf))

	body := `{"stage":"chat_open","fields":{"dump":"` + strings.Repeat("x", maxTraceBody) + `"}}`
	rec := httptest.NewRecorder()
	h.HandleFrontendTrace(rec, httptest.NewRequest(http.MethodPost, "/debug/frontend-trace", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, buf.String())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
