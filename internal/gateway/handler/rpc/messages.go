package rpc

import (
	"renohub/internal/domain"
	"renohub/internal/estimate"
	"renohub/internal/gateway/repository/projectstore"
)

// ProjectView is a project plus its display fields.
type ProjectView struct {
	domain.Project
	DisplayID   string `json:"displayId"`
	StatusLabel string `json:"statusLabel"`
	Progress    int    `json:"progress"`
}

type ListProjectsRequest struct{}

type ListProjectsResponse struct {
	Projects []ProjectView `json:"projects"`
}

type CreateProjectRequest struct {
	Name       string `json:"name"`
	ClientName string `json:"clientName"`
	Address    string `json:"address"`
}

type CreateProjectResponse struct {
	Project  ProjectView   `json:"project"`
	Projects []ProjectView `json:"projects"`
}

type GetProjectRequest struct {
	ProjectID string `json:"projectId"`
}

type GetProjectResponse struct {
	Project ProjectView `json:"project"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	projectstore.Stats
}

type EstimateItemView struct {
	domain.EstimateItem
	CategoryLabel string                  `json:"categoryLabel"`
	State         estimate.SelectionState `json:"state"`
	Delta         *float64                `json:"delta,omitempty"`
}

type GetEstimateRequest struct {
	ProjectID string `json:"projectId"`
}

type EstimateResponse struct {
	ProjectID     string             `json:"projectId"`
	Items         []EstimateItemView `json:"items"`
	AITotal       int64              `json:"aiTotal"`
	SelectedTotal int64              `json:"selectedTotal"`
	Delta         *float64           `json:"delta,omitempty"`
	DeltaPercent  *int               `json:"deltaPercent,omitempty"`
}

type SelectQuoteRequest struct {
	ProjectID  string `json:"projectId"`
	ItemID     string `json:"itemId"`
	VendorName string `json:"vendorName"`
}

type GenerateImageRequest struct {
	ProjectID string `json:"projectId,omitempty"`
	Prompt    string `json:"prompt"`
	Size      string `json:"size"`
}

type EditImageRequest struct {
	ProjectID     string `json:"projectId,omitempty"`
	SourceDataURL string `json:"sourceDataUrl"`
	Instruction   string `json:"instruction"`
}

// ImageResponse carries the image as a data URL. Empty is set when the
// model answered without an image.
type ImageResponse struct {
	DataURL   string            `json:"dataUrl,omitempty"`
	MIMEType  string            `json:"mimeType,omitempty"`
	Empty     bool              `json:"empty,omitempty"`
	Rendering *domain.Rendering `json:"rendering,omitempty"`
}

type ListRenderingsRequest struct {
	ProjectID string `json:"projectId"`
}

type RenderingView struct {
	domain.Rendering
	URL string `json:"url"`
}

type ListRenderingsResponse struct {
	Renderings []RenderingView `json:"renderings"`
}

type ChannelView struct {
	domain.ChatChannel
	CategoryLabel string `json:"categoryLabel"`
}

type ChannelGroupView struct {
	ProjectID string        `json:"projectId"`
	Name      string        `json:"name"`
	Channels  []ChannelView `json:"channels"`
}

type ListChannelsRequest struct{}

type ListChannelsResponse struct {
	Groups []ChannelGroupView `json:"groups"`
}

type GetHistoryRequest struct {
	ChannelID string `json:"channelId"`
}

type GetHistoryResponse struct {
	ChannelID string               `json:"channelId"`
	Messages  []domain.ChatMessage `json:"messages"`
}

type GetChannelEstimateRequest struct {
	ChannelID string `json:"channelId"`
}

// GetChannelEstimateResponse links a channel to its estimate item and the
// channel vendor's own quote, when either exists.
type GetChannelEstimateResponse struct {
	ChannelID string              `json:"channelId"`
	Item      *EstimateItemView   `json:"item,omitempty"`
	Quote     *domain.VendorQuote `json:"quote,omitempty"`
}

type StartScanRequest struct {
	ProjectID string `json:"projectId"`
}

type ScanProgress struct {
	ProjectID string `json:"projectId"`
	Percent   int    `json:"percent"`
	Done      bool   `json:"done"`
}
