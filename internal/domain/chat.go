package domain

// ChatChannel is a per-vendor conversation thread inside a project.
type ChatChannel struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Category    CostCategory `json:"category"`
	VendorName  string       `json:"vendorName"`
	LastMessage string       `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
	EstimateID  string       `json:"estimateId,omitempty"`
}

// ChannelGroup is the sidebar grouping of channels under their project.
type ChannelGroup struct {
	ProjectID string        `json:"projectId"`
	Name      string        `json:"name"`
	Channels  []ChatChannel `json:"channels"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of a channel transcript. Only the most recent
// model message is ever rewritten, while its text streams in.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Failed    bool   `json:"failed,omitempty"`
}

// PendingTimestamp is shown on a model message before its first chunk.
const PendingTimestamp = "..."
