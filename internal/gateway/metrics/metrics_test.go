package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_ChatSends(t *testing.T) {
	m := New()
	m.ChatSend("ok")
	m.ChatSend("ok")
	m.ChatSend("failed")
	m.ChatChunk()

	body := scrape(t, m)
	assert.Contains(t, body, `renohub_chat_sends_total{status="ok"} 2`)
	assert.Contains(t, body, `renohub_chat_sends_total{status="failed"} 1`)
	assert.Contains(t, body, "renohub_chat_chunks_total 1")
}

func TestMetrics_ImageRequests(t *testing.T) {
	m := New()
	m.ImageRequest("generate", "ok", 2*time.Second)
	m.ImageRequest("edit", "error", time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `renohub_image_requests_total{op="generate",status="ok"} 1`)
	assert.Contains(t, body, `renohub_image_requests_total{op="edit",status="error"} 1`)
	assert.Contains(t, body, `renohub_image_duration_seconds_count{op="generate"} 1`)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ProjectCreated()
	m.QuoteSelected()
	m.QuoteSelected()
	m.ChatConnected()
	m.ChatConnected()
	m.ChatDisconnected()

	body := scrape(t, m)
	assert.Contains(t, body, "renohub_projects_created_total 1")
	assert.Contains(t, body, "renohub_quote_selections_total 2")
	assert.Contains(t, body, "renohub_chat_connections 1")
}

func TestMetrics_RenderingCache(t *testing.T) {
	m := New()
	hits := uint64(0)
	m.WatchRenderingCache(func() (uint64, uint64, uint64) { return hits, 2, 1 })

	hits = 5
	body := scrape(t, m)
	assert.Contains(t, body, "renohub_rendering_cache_hits_total 5")
	assert.Contains(t, body, "renohub_rendering_cache_misses_total 2")
	assert.Contains(t, body, "renohub_rendering_origin_reads_total 1")
}
