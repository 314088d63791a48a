package chat

import (
	"sync"

	"renohub/internal/domain"
)

// Directory is the shared list of channels, grouped by project.
type Directory struct {
	mu     sync.RWMutex
	groups []domain.ChannelGroup
}

func NewDirectory(groups []domain.ChannelGroup) *Directory {
	return &Directory{groups: cloneGroups(groups)}
}

func (d *Directory) Groups() []domain.ChannelGroup {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneGroups(d.groups)
}

func (d *Directory) Channel(id string) (domain.ChatChannel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, g := range d.groups {
		for _, c := range g.Channels {
			if c.ID == id {
				return c, true
			}
		}
	}
	return domain.ChatChannel{}, false
}

// MarkRead zeroes the unread counter.
func (d *Directory) MarkRead(id string) {
	d.update(id, func(c *domain.ChatChannel) { c.UnreadCount = 0 })
}

// Touch refreshes the last-message preview shown in the sidebar.
func (d *Directory) Touch(id, preview string) {
	d.update(id, func(c *domain.ChatChannel) { c.LastMessage = preview })
}

func (d *Directory) update(id string, fn func(*domain.ChatChannel)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for gi := range d.groups {
		for ci := range d.groups[gi].Channels {
			if d.groups[gi].Channels[ci].ID != id {
				continue
			}
			next := cloneGroups(d.groups)
			fn(&next[gi].Channels[ci])
			d.groups = next
			return
		}
	}
}

func cloneGroups(in []domain.ChannelGroup) []domain.ChannelGroup {
	out := make([]domain.ChannelGroup, len(in))
	for i, g := range in {
		out[i] = g
		out[i].Channels = append([]domain.ChatChannel(nil), g.Channels...)
	}
	return out
}
