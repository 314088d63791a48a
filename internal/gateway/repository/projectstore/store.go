// Package projectstore keeps the process-lifetime list of projects.
package projectstore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"renohub/internal/domain"
)

var (
	ErrInvalidProject = errors.New("project name and client name are required")
	ErrNotFound       = errors.New("project not found")
)

type CreateInput struct {
	Name       string
	ClientName string
	Address    string
}

// Stats is the dashboard summary of the current projects.
type Stats struct {
	Total       int                          `json:"total"`
	Active      int                          `json:"active"`
	ByStatus    map[domain.ProjectStatus]int `json:"byStatus"`
	TotalBudget int64                        `json:"totalBudget"`
}

// Store is the project repository. List is newest first.
type Store interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (domain.Project, error)
	Create(ctx context.Context, in CreateInput) ([]domain.Project, error)
	Stats(ctx context.Context) (Stats, error)
}

// MemoryStore is a Store backed by a slice that is replaced wholesale on
// every write.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []domain.Project
	nextID   int
	now      func() time.Time
}

func NewMemoryStore(seed []domain.Project, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	s := &MemoryStore{projects: append([]domain.Project(nil), seed...), now: now}
	for _, p := range seed {
		if n, err := strconv.Atoi(p.ID); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Project{}, s.projects...), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (domain.Project, error) {
	id = strings.TrimSpace(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Project{}, ErrNotFound
}

// Create prepends a new Survey-stage project dated today. Invalid input
// leaves the store untouched.
func (s *MemoryStore) Create(_ context.Context, in CreateInput) ([]domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	client := strings.TrimSpace(in.ClientName)
	if name == "" || client == "" {
		return nil, ErrInvalidProject
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Project{
		ID:         strconv.Itoa(s.nextID),
		Name:       name,
		ClientName: client,
		Address:    strings.TrimSpace(in.Address),
		Status:     domain.StatusSurvey,
		Date:       s.now().Format(time.DateOnly),
	}
	s.nextID++

	next := make([]domain.Project, 0, len(s.projects)+1)
	next = append(next, p)
	next = append(next, s.projects...)
	s.projects = next
	return append([]domain.Project{}, next...), nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.projects), ByStatus: make(map[domain.ProjectStatus]int, len(domain.ProjectStatuses))}
	for _, status := range domain.ProjectStatuses {
		st.ByStatus[status] = 0
	}
	for _, p := range s.projects {
		st.ByStatus[p.Status]++
		if p.Status != domain.StatusCompleted {
			st.Active++
		}
		if p.TotalBudget != nil {
			st.TotalBudget += *p.TotalBudget
		}
	}
	return st, nil
}
