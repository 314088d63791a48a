package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"renohub/internal/ai"
	"renohub/internal/domain"
)

var (
	ErrEmptyMessage    = errors.New("chat: message is empty")
	ErrNoActiveChannel = errors.New("chat: no active channel")
	ErrUnknownChannel  = errors.New("chat: unknown channel")
	ErrBusy            = errors.New("chat: a reply is still streaming")
	ErrReplyLost       = errors.New("chat: reply vanished from transcript")
	// ErrSuperseded is returned by Send when the active channel changed
	// while the reply was in flight.
	ErrSuperseded = errors.New("chat: send superseded by channel switch")
)

type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateStreaming State = "streaming"
)

type UpdateKind string

const (
	UpdateUserMessage  UpdateKind = "user_message"
	UpdateModelStarted UpdateKind = "model_started"
	UpdateModelChunk   UpdateKind = "model_chunk"
	UpdateDone         UpdateKind = "done"
	UpdateFailed       UpdateKind = "failed"
)

// Update is delivered to the Send observer, in order, from the goroutine
// that called Send. Message is the full message after the change.
type Update struct {
	Kind      UpdateKind
	ChannelID string
	Message   *domain.ChatMessage
	State     State
}

// Metrics receives per-send outcomes. Status is "ok", "failed" or
// "superseded".
type Metrics interface {
	ChatSend(status string)
	ChatChunk()
}

type nopMetrics struct{}

func (nopMetrics) ChatSend(string) {}
func (nopMetrics) ChatChunk()      {}

const DefaultStreamTimeout = 60 * time.Second

type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option       { return func(m *Manager) { m.log = l } }
func WithClock(now func() time.Time) Option    { return func(m *Manager) { m.now = now } }
func WithStreamTimeout(d time.Duration) Option { return func(m *Manager) { m.timeout = d } }
func WithMetrics(mt Metrics) Option            { return func(m *Manager) { m.metrics = mt } }

// Manager drives one viewer's chat: a single active channel, at most one
// reply in flight, and one model session per channel activation.
type Manager struct {
	model       ai.ChatModel
	dir         *Directory
	transcripts *Transcript
	log         zerolog.Logger
	now         func() time.Time
	timeout     time.Duration
	metrics     Metrics

	mu      sync.Mutex
	channel domain.ChatChannel
	session ai.ChatSession
	state   State
	gen     uint64
	cancel  context.CancelFunc
}

func NewManager(model ai.ChatModel, dir *Directory, transcripts *Transcript, opts ...Option) *Manager {
	m := &Manager{
		model:       model,
		dir:         dir,
		transcripts: transcripts,
		log:         zerolog.Nop(),
		now:         time.Now,
		timeout:     DefaultStreamTimeout,
		metrics:     nopMetrics{},
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ActiveChannel returns the active channel ID, or "" before any Activate.
func (m *Manager) ActiveChannel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channel.ID
}

// Activate makes channelID the active channel and returns its history.
// Switching away drops the current session and abandons any in-flight
// reply: its remaining chunks are discarded. Re-activating the current
// channel is a no-op.
func (m *Manager) Activate(channelID string) ([]domain.ChatMessage, error) {
	ch, ok := m.dir.Channel(channelID)
	if !ok {
		return nil, ErrUnknownChannel
	}

	m.mu.Lock()
	if m.channel.ID != ch.ID {
		m.invalidateLocked()
		m.channel = ch
	}
	m.mu.Unlock()

	m.dir.MarkRead(ch.ID)
	return m.transcripts.Messages(ch.ID), nil
}

// Close abandons any in-flight reply.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidateLocked()
}

func (m *Manager) invalidateLocked() {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.session = nil
	m.state = StateIdle
}

// Send appends the user message to the active channel and streams the
// model's reply into one model message, calling onUpdate for every change.
// It blocks until the stream ends. onUpdate must not call back into the
// Manager.
func (m *Manager) Send(ctx context.Context, text string, onUpdate func(Update)) error {
	if onUpdate == nil {
		onUpdate = func(Update) {}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	m.mu.Lock()
	if m.channel.ID == "" {
		m.mu.Unlock()
		return ErrNoActiveChannel
	}
	if m.state != StateIdle || !m.transcripts.reserve(m.channel.ID) {
		m.mu.Unlock()
		return ErrBusy
	}
	gen, ch, session := m.gen, m.channel, m.session
	m.state = StateSending
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	m.cancel = cancel
	user := m.newMessage(domain.RoleUser, text)
	m.transcripts.Append(ch.ID, user)
	m.mu.Unlock()
	defer cancel()

	m.dir.Touch(ch.ID, text)
	onUpdate(Update{Kind: UpdateUserMessage, ChannelID: ch.ID, Message: &user, State: StateSending})

	log := m.log.With().Str("channel", ch.ID).Str("vendor", ch.VendorName).Logger()

	if session == nil {
		s, err := m.model.StartChat(ctx, SystemInstruction(ch))
		if err != nil {
			return m.finish(gen, ch.ID, nil, err, log, onUpdate)
		}
		m.mu.Lock()
		if m.gen == gen {
			m.session = s
		}
		m.mu.Unlock()
		session = s
	}

	var (
		reply *domain.ChatMessage
		lost  bool
	)
	err := session.SendStream(ctx, text, func(chunk string) {
		m.mu.Lock()
		if m.gen != gen {
			m.mu.Unlock()
			return
		}
		var started *domain.ChatMessage
		if reply == nil {
			msg := domain.ChatMessage{ID: uuid.NewString(), Role: domain.RoleModel, Timestamp: domain.PendingTimestamp}
			m.transcripts.Append(ch.ID, msg)
			reply = &msg
			m.state = StateStreaming
			snapshot := msg
			started = &snapshot
		}
		reply.Text += chunk
		reply.Timestamp = m.stamp()
		if !m.transcripts.Replace(ch.ID, *reply) {
			lost = true
		}
		snapshot := *reply
		m.mu.Unlock()

		m.metrics.ChatChunk()
		if started != nil {
			onUpdate(Update{Kind: UpdateModelStarted, ChannelID: ch.ID, Message: started, State: StateStreaming})
		}
		onUpdate(Update{Kind: UpdateModelChunk, ChannelID: ch.ID, Message: &snapshot, State: StateStreaming})
	})
	if err == nil && lost {
		err = ErrReplyLost
	}
	return m.finish(gen, ch.ID, reply, err, log, onUpdate)
}

// finish moves the manager back to Idle, marking the reply as failed when
// the stream broke. A superseded partial reply is marked failed in the
// transcript but the manager state is left to the newer activation.
func (m *Manager) finish(gen uint64, channelID string, reply *domain.ChatMessage, err error, log zerolog.Logger, onUpdate func(Update)) error {
	defer m.transcripts.release(channelID)

	m.mu.Lock()
	if m.gen != gen {
		if reply != nil {
			reply.Failed = true
			m.transcripts.Replace(channelID, *reply)
		}
		m.mu.Unlock()
		m.metrics.ChatSend("superseded")
		log.Debug().Msg("reply superseded by channel switch")
		return ErrSuperseded
	}
	m.state = StateIdle
	m.cancel = nil

	if err == nil {
		m.mu.Unlock()
		if reply != nil {
			m.dir.Touch(channelID, reply.Text)
		}
		m.metrics.ChatSend("ok")
		onUpdate(Update{Kind: UpdateDone, ChannelID: channelID, Message: reply, State: StateIdle})
		return nil
	}

	var failed domain.ChatMessage
	if reply != nil {
		reply.Failed = true
		failed = *reply
		m.transcripts.Replace(channelID, failed)
	} else {
		failed = m.newMessage(domain.RoleModel, "")
		failed.Failed = true
		m.transcripts.Append(channelID, failed)
	}
	m.mu.Unlock()

	m.metrics.ChatSend("failed")
	log.Error().Err(err).Msg("chat stream failed")
	onUpdate(Update{Kind: UpdateFailed, ChannelID: channelID, Message: &failed, State: StateIdle})
	return err
}

func (m *Manager) newMessage(role domain.Role, text string) domain.ChatMessage {
	return domain.ChatMessage{ID: uuid.NewString(), Role: role, Text: text, Timestamp: m.stamp()}
}

func (m *Manager) stamp() string { return m.now().Format("15:04") }
