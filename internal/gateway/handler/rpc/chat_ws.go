package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"renohub/internal/ai"
	"renohub/internal/chat"
	"renohub/internal/domain"
)

// ConnectionMetrics tracks open chat sockets.
type ConnectionMetrics interface {
	ChatConnected()
	ChatDisconnected()
}

// ChatStreamHandler serves the vendor chat over a websocket. Each
// connection owns its own chat.Manager; transcripts and the channel
// directory are shared.
type ChatStreamHandler struct {
	model       ai.ChatModel
	dir         *chat.Directory
	transcripts *chat.Transcript
	opts        []chat.Option
	metrics     ConnectionMetrics
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

func NewChatStreamHandler(model ai.ChatModel, dir *chat.Directory, transcripts *chat.Transcript, metrics ConnectionMetrics, log zerolog.Logger, opts ...chat.Option) *ChatStreamHandler {
	return &ChatStreamHandler{
		model:       model,
		dir:         dir,
		transcripts: transcripts,
		opts:        opts,
		metrics:     metrics,
		log:         log.With().Str("component", "chat_ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// WithOriginCheck admits browser upgrades whose Origin passes allowed.
// Requests without an Origin header are not from a browser and pass.
// Without a check gorilla's same-host rule applies.
func (h *ChatStreamHandler) WithOriginCheck(allowed func(origin string) bool) *ChatStreamHandler {
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed(origin)
	}
	return h
}

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

type chatWSInbound struct {
	Type      string `json:"type"`
	ChannelID string `json:"channelId,omitempty"`
	Text      string `json:"text,omitempty"`
}

type chatWSOutbound struct {
	Type        string               `json:"type"`
	ChannelID   string               `json:"channelId,omitempty"`
	State       chat.State           `json:"state,omitempty"`
	ChatMessage *domain.ChatMessage  `json:"chatMessage,omitempty"`
	Messages    []domain.ChatMessage `json:"messages,omitempty"`
	Code        string               `json:"code,omitempty"`
	Message     string               `json:"message,omitempty"`
}

// HandleChatWS upgrades the request and serves activate, send and ping
// frames until the client goes away.
func (h *ChatStreamHandler) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("origin", r.Header.Get("Origin")).Msg("websocket upgrade refused")
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.ChatConnected()
		defer h.metrics.ChatDisconnected()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	mgr := chat.NewManager(h.model, h.dir, h.transcripts, append([]chat.Option{chat.WithLogger(h.log)}, h.opts...)...)
	defer mgr.Close()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		h.log.Warn().Err(err).Msg("set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	push := func(out chatWSOutbound) {
		if !pushChatWS(ctx, writeCh, out, chatWSWriteWait) {
			cancel()
			_ = conn.Close()
		}
	}
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		msgType := strings.ToLower(strings.TrimSpace(in.Type))
		switch msgType {
		case "":
			push(wsError("invalid_argument", "type is required"))
		case "ping":
			push(chatWSOutbound{Type: "pong"})
		case "activate":
			channelID := strings.TrimSpace(in.ChannelID)
			messages, err := mgr.Activate(channelID)
			if err != nil {
				push(wsError(chatErrorCode(err), err.Error()))
				continue
			}
			push(chatWSOutbound{
				Type:      "activated",
				ChannelID: channelID,
				State:     mgr.State(),
				Messages:  messages,
			})
		case "send":
			if v := strings.TrimSpace(in.ChannelID); v != "" && v != mgr.ActiveChannel() {
				push(wsError("invalid_argument", "channelId is not the active channel"))
				continue
			}
			text := in.Text
			go func() {
				err := mgr.Send(ctx, text, func(u chat.Update) {
					push(chatWSOutbound{
						Type:        string(u.Kind),
						ChannelID:   u.ChannelID,
						State:       u.State,
						ChatMessage: u.Message,
					})
				})
				switch {
				case err == nil, errors.Is(err, chat.ErrSuperseded):
				case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrNoActiveChannel), errors.Is(err, chat.ErrBusy):
					push(wsError(chatErrorCode(err), err.Error()))
				default:
					// The failed update already reached the client.
				}
			}()
		default:
			push(wsError("invalid_argument", "unsupported type: "+msgType))
		}
	}
}

func wsError(code, message string) chatWSOutbound {
	return chatWSOutbound{Type: "error", Code: code, Message: message}
}

func chatErrorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return "invalid_argument"
	case errors.Is(err, chat.ErrUnknownChannel):
		return "not_found"
	case errors.Is(err, chat.ErrNoActiveChannel):
		return "failed_precondition"
	case errors.Is(err, chat.ErrBusy):
		return "busy"
	}
	return "internal"
}

// pushChatWS queues out for the writer. A model_chunk frame is dropped
// when the buffer is full: it carries the whole reply so far, and the next
// chunk or the done frame repairs the gap. Every other frame waits up to
// wait for room. It reports false when a frame could not be queued and
// the connection should be dropped.
func pushChatWS(ctx context.Context, writeCh chan chatWSOutbound, out chatWSOutbound, wait time.Duration) bool {
	if out.Type == string(chat.UpdateModelChunk) {
		select {
		case writeCh <- out:
		default:
		}
		return true
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case writeCh <- out:
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		return false
	}
}
