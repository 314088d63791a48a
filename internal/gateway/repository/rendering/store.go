// Package rendering stores generated and edited images per project.
package rendering

import (
	"context"
	"errors"
	"sort"
	"strings"

	"renohub/internal/domain"
)

var ErrNotFound = errors.New("rendering not found")

// UnassignedProject groups renderings requested without a project.
const UnassignedProject = "_unassigned"

// Store keeps rendering metadata alongside the image bytes.
type Store interface {
	Put(ctx context.Context, meta domain.Rendering, data []byte) error
	Get(ctx context.Context, projectID, id string) (domain.Rendering, []byte, error)
	// List returns the project's renderings, newest first.
	List(ctx context.Context, projectID string) ([]domain.Rendering, error)
}

// NormalizeProject maps a blank project to UnassignedProject.
func NormalizeProject(projectID string) string {
	projectID = strings.Trim(strings.TrimSpace(projectID), "/")
	if projectID == "" {
		return UnassignedProject
	}
	return projectID
}

func sortNewestFirst(items []domain.Rendering) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt > items[j].CreatedAt
		}
		return items[i].ID > items[j].ID
	})
}
