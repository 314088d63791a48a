package rpc

import (
	"renohub/internal/domain"
	"renohub/internal/estimate"
)

func toProjectView(p domain.Project) ProjectView {
	return ProjectView{
		Project:     p,
		DisplayID:   p.DisplayID(),
		StatusLabel: p.Status.Label(),
		Progress:    p.Status.Progress(),
	}
}

func toProjectViews(ps []domain.Project) []ProjectView {
	out := make([]ProjectView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProjectView(p))
	}
	return out
}

func toEstimateResponse(projectID string, items []domain.EstimateItem, sum estimate.Summary) *EstimateResponse {
	out := &EstimateResponse{
		ProjectID:     projectID,
		Items:         make([]EstimateItemView, 0, len(items)),
		AITotal:       sum.AITotal,
		SelectedTotal: sum.SelectedTotal,
		Delta:         sum.Delta,
	}
	if pct, ok := sum.DeltaPercent(); ok {
		out.DeltaPercent = &pct
	}
	for i, item := range items {
		out.Items = append(out.Items, toItemView(item, sum.Items[i]))
	}
	return out
}

func toItemView(item domain.EstimateItem, s estimate.ItemSummary) EstimateItemView {
	return EstimateItemView{
		EstimateItem:  item,
		CategoryLabel: item.Category.Label(),
		State:         s.State,
		Delta:         s.Delta,
	}
}

func toChannelGroupViews(groups []domain.ChannelGroup) []ChannelGroupView {
	out := make([]ChannelGroupView, 0, len(groups))
	for _, g := range groups {
		v := ChannelGroupView{ProjectID: g.ProjectID, Name: g.Name, Channels: make([]ChannelView, 0, len(g.Channels))}
		for _, c := range g.Channels {
			v.Channels = append(v.Channels, ChannelView{ChatChannel: c, CategoryLabel: c.Category.Label()})
		}
		out = append(out, v)
	}
	return out
}
