package rendering

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"renohub/internal/domain"
)

type memoryEntry struct {
	meta domain.Rendering
	data []byte
}

// MemoryStore keeps the most recent renderings in a bounded LRU. Older
// renderings are evicted once the capacity is reached.
type MemoryStore struct {
	cache *lru.Cache[string, memoryEntry]
}

func NewMemoryStore(maxEntries int) (*MemoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	cache, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: cache}, nil
}

func (s *MemoryStore) Put(_ context.Context, meta domain.Rendering, data []byte) error {
	if strings.TrimSpace(meta.ID) == "" {
		return fmt.Errorf("rendering id is required")
	}
	meta.ProjectID = NormalizeProject(meta.ProjectID)
	s.cache.Add(objectKey(meta.ProjectID, meta.ID), memoryEntry{meta: meta, data: append([]byte(nil), data...)})
	return nil
}

func (s *MemoryStore) Get(_ context.Context, projectID, id string) (domain.Rendering, []byte, error) {
	e, ok := s.cache.Get(objectKey(NormalizeProject(projectID), id))
	if !ok {
		return domain.Rendering{}, nil, ErrNotFound
	}
	return e.meta, append([]byte(nil), e.data...), nil
}

func (s *MemoryStore) List(_ context.Context, projectID string) ([]domain.Rendering, error) {
	projectID = NormalizeProject(projectID)
	out := make([]domain.Rendering, 0)
	for _, e := range s.cache.Values() {
		if e.meta.ProjectID == projectID {
			out = append(out, e.meta)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func objectKey(projectID, id string) string {
	return projectID + "/" + strings.TrimSpace(id)
}
