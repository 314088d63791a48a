package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renohub/internal/ai"
	"renohub/internal/chat"
	"renohub/internal/domain"
	"renohub/internal/fixtures"
	"renohub/internal/gateway/middleware"
)

type connGauge struct{ open atomic.Int32 }

func (g *connGauge) ChatConnected()    { g.open.Add(1) }
func (g *connGauge) ChatDisconnected() { g.open.Add(-1) }

func dialChat(t *testing.T) (*websocket.Conn, *chat.Transcript, *connGauge) {
	t.Helper()
	transcripts := chat.NewTranscript(fixtures.Transcripts())
	gauge := &connGauge{}
	h := NewChatStreamHandler(ai.NewFakeClient(4), chat.NewDirectory(fixtures.ChannelGroups()), transcripts, gauge, zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.HandleChatWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, transcripts, gauge
}

func readFrame(t *testing.T, conn *websocket.Conn) chatWSOutbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out chatWSOutbound
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func TestChatWS_ActivateAndStreamReply(t *testing.T) {
	conn, transcripts, gauge := dialChat(t)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "activate", ChannelID: "c2"}))
	activated := readFrame(t, conn)
	assert.Equal(t, "activated", activated.Type)
	assert.Equal(t, "c2", activated.ChannelID)
	assert.Equal(t, chat.StateIdle, activated.State)
	assert.Equal(t, int32(1), gauge.open.Load())
	before := len(activated.Messages)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "send", Text: "来週の日程は？"}))

	var kinds []string
	var last *domain.ChatMessage
	for {
		f := readFrame(t, conn)
		kinds = append(kinds, f.Type)
		if f.ChatMessage != nil {
			last = f.ChatMessage
		}
		if f.Type == "done" || f.Type == "failed" {
			break
		}
	}
	require.NotEmpty(t, kinds)
	assert.Equal(t, "user_message", kinds[0])
	assert.Equal(t, "model_started", kinds[1])
	assert.Equal(t, "done", kinds[len(kinds)-1])
	require.NotNil(t, last)
	assert.Equal(t, ai.FakeReply(1, "来週の日程は？"), last.Text)

	msgs := transcripts.Messages("c2")
	require.Len(t, msgs, before+2)
	assert.Equal(t, domain.RoleUser, msgs[before].Role)
	assert.Equal(t, ai.FakeReply(1, "来週の日程は？"), msgs[before+1].Text)
}

func TestChatWS_ErrorsAndPing(t *testing.T) {
	conn, _, _ := dialChat(t)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "ping"}))
	assert.Equal(t, "pong", readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "send", Text: "hi"}))
	f := readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "failed_precondition", f.Code)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "activate", ChannelID: "nope"}))
	f = readFrame(t, conn)
	assert.Equal(t, "not_found", f.Code)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "activate", ChannelID: "c1"}))
	assert.Equal(t, "activated", readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "send", Text: "   "}))
	f = readFrame(t, conn)
	assert.Equal(t, "invalid_argument", f.Code)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "send", ChannelID: "c2", Text: "hi"}))
	f = readFrame(t, conn)
	assert.Equal(t, "invalid_argument", f.Code)

	require.NoError(t, conn.WriteJSON(chatWSInbound{Type: "shout"}))
	f = readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Contains(t, f.Message, "unsupported type")
}

func TestChatWS_OriginCheck(t *testing.T) {
	h := NewChatStreamHandler(ai.NewFakeClient(4), chat.NewDirectory(fixtures.ChannelGroups()), chat.NewTranscript(nil), nil, zerolog.Nop()).
		WithOriginCheck(middleware.OriginAllowed([]string{"http://localhost:3000"}))
	srv := httptest.NewServer(http.HandlerFunc(h.HandleChatWS))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://localhost:3000"}})
	require.NoError(t, err)
	_ = conn.Close()
}

func TestPushChatWS_DropsOnlyChunks(t *testing.T) {
	ctx := context.Background()
	writeCh := make(chan chatWSOutbound, 32)

	require.True(t, pushChatWS(ctx, writeCh, chatWSOutbound{Type: "activated"}, time.Second))
	require.True(t, pushChatWS(ctx, writeCh, chatWSOutbound{Type: "user_message"}, time.Second))
	for i := 0; i < 40; i++ {
		require.True(t, pushChatWS(ctx, writeCh, chatWSOutbound{Type: "model_chunk"}, time.Second))
	}
	pushed := make(chan bool, 1)
	go func() { pushed <- pushChatWS(ctx, writeCh, chatWSOutbound{Type: "done"}, time.Second) }()

	counts := map[string]int{}
	var order []string
	for len(order) < 33 {
		f := <-writeCh
		counts[f.Type]++
		order = append(order, f.Type)
	}
	assert.True(t, <-pushed)
	assert.Equal(t, map[string]int{"activated": 1, "user_message": 1, "model_chunk": 30, "done": 1}, counts)
	assert.Equal(t, "activated", order[0])
	assert.Equal(t, "done", order[len(order)-1])
}

func TestPushChatWS_ReportsStalledWriter(t *testing.T) {
	writeCh := make(chan chatWSOutbound, 1)
	writeCh <- chatWSOutbound{Type: "pong"}

	assert.False(t, pushChatWS(context.Background(), writeCh, chatWSOutbound{Type: "done"}, 10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, pushChatWS(ctx, writeCh, chatWSOutbound{Type: "failed"}, time.Second))
	assert.True(t, pushChatWS(ctx, writeCh, chatWSOutbound{Type: "model_chunk"}, time.Second))
}
