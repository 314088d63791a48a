package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"renohub/internal/domain"
	"renohub/internal/fixtures"
)

func TestTranscript_ReplaceByID(t *testing.T) {
	tr := NewTranscript(fixtures.Transcripts())
	snapshot := tr.Messages("c1")

	assert.True(t, tr.Replace("c1", domain.ChatMessage{ID: "seed-c1-1", Text: "first"}))
	assert.True(t, tr.Replace("c1", domain.ChatMessage{ID: "seed-c1-3", Text: "rewritten"}))

	msgs := tr.Messages("c1")
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "rewritten", msgs[2].Text)
	assert.NotEqual(t, "rewritten", snapshot[2].Text)
	assert.False(t, tr.Replace("c1", domain.ChatMessage{ID: "missing"}))
	assert.False(t, tr.Replace("empty", domain.ChatMessage{ID: "a"}))
}

func TestTranscript_ReserveIsPerChannel(t *testing.T) {
	tr := NewTranscript(nil)

	assert.True(t, tr.reserve("c1"))
	assert.False(t, tr.reserve("c1"))
	assert.True(t, tr.reserve("c2"))

	tr.release("c1")
	assert.True(t, tr.reserve("c1"))
}

func TestDirectory_TouchAndGroupsAreCopies(t *testing.T) {
	d := NewDirectory(fixtures.ChannelGroups())
	groups := d.Groups()
	groups[0].Channels[0].VendorName = "mutated"

	d.Touch("c1", "新しいメッセージ")
	ch, ok := d.Channel("c1")
	assert.True(t, ok)
	assert.Equal(t, "株式会社エレテック", ch.VendorName)
	assert.Equal(t, "新しいメッセージ", ch.LastMessage)
}
