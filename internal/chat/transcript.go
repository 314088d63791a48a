// Package chat manages per-vendor conversation channels: the shared
// transcripts and channel directory, and the per-viewer Manager that
// streams model replies into them.
package chat

import (
	"sync"

	"renohub/internal/domain"
)

// Transcript holds every channel's message history. Each mutation swaps in
// a whole new slice, so readers never see a partially applied update.
type Transcript struct {
	mu        sync.RWMutex
	byChannel map[string][]domain.ChatMessage
	streaming map[string]bool
}

func NewTranscript(seed map[string][]domain.ChatMessage) *Transcript {
	t := &Transcript{
		byChannel: make(map[string][]domain.ChatMessage, len(seed)),
		streaming: make(map[string]bool),
	}
	for id, msgs := range seed {
		t.byChannel[id] = append([]domain.ChatMessage(nil), msgs...)
	}
	return t
}

// Messages returns a copy of the channel's history, oldest first.
func (t *Transcript) Messages(channelID string) []domain.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.ChatMessage{}, t.byChannel[channelID]...)
}

func (t *Transcript) Append(channelID string, msg domain.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.byChannel[channelID]
	next := make([]domain.ChatMessage, len(cur), len(cur)+1)
	copy(next, cur)
	t.byChannel[channelID] = append(next, msg)
}

// Replace rewrites the message with msg.ID, searching from the newest.
// It reports false when the channel no longer holds that message.
func (t *Transcript) Replace(channelID string, msg domain.ChatMessage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.byChannel[channelID]
	for i := len(cur) - 1; i >= 0; i-- {
		if cur[i].ID != msg.ID {
			continue
		}
		next := append([]domain.ChatMessage(nil), cur...)
		next[i] = msg
		t.byChannel[channelID] = next
		return true
	}
	return false
}

// reserve marks a reply as streaming into channelID. Only one reply per
// channel may stream at a time, whichever Manager sends it.
func (t *Transcript) reserve(channelID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.streaming[channelID] {
		return false
	}
	t.streaming[channelID] = true
	return true
}

func (t *Transcript) release(channelID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.streaming, channelID)
}
