package domain

import "strings"

// ProjectStatus is the lifecycle stage of a brokered construction project.
type ProjectStatus string

const (
	StatusSurvey       ProjectStatus = "survey"
	StatusPlanning     ProjectStatus = "planning"
	StatusEstimation   ProjectStatus = "estimation"
	StatusConstruction ProjectStatus = "construction"
	StatusCompleted    ProjectStatus = "completed"
)

// ProjectStatuses lists every status in workflow order.
var ProjectStatuses = []ProjectStatus{
	StatusSurvey,
	StatusPlanning,
	StatusEstimation,
	StatusConstruction,
	StatusCompleted,
}

var statusLabels = map[ProjectStatus]string{
	StatusSurvey:       "現地調査",
	StatusPlanning:     "プラン作成",
	StatusEstimation:   "見積中",
	StatusConstruction: "工事中",
	StatusCompleted:    "完了",
}

// Label returns the display label. Unknown statuses render as their key.
func (s ProjectStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Project is one brokered construction job.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ClientName  string        `json:"clientName"`
	Address     string        `json:"address"`
	Status      ProjectStatus `json:"status"`
	Date        string        `json:"date"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Description string        `json:"description,omitempty"`
	TotalBudget *int64        `json:"totalBudget,omitempty"`
}

// DisplayID renders the zero-padded identifier shown in listings (#0001).
func (p Project) DisplayID() string {
	id := strings.TrimSpace(p.ID)
	if len(id) >= 4 {
		return "#" + id
	}
	return "#" + strings.Repeat("0", 4-len(id)) + id
}

// Progress is the rough completion percentage shown on the dashboard.
func (s ProjectStatus) Progress() int {
	switch s {
	case StatusCompleted:
		return 100
	case StatusConstruction:
		return 60
	}
	return 20
}
