package rendering

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"renohub/internal/domain"
)

type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

type cachedBlob struct {
	meta domain.Rendering
	data []byte
}

type CacheStats struct {
	Hits        uint64
	Misses      uint64
	OriginReads uint64
}

// CachedStore fronts a slower origin (the S3 store) with expiring LRU
// caches for image bytes and per-project listings.
type CachedStore struct {
	origin Store

	blobs *expirable.LRU[string, cachedBlob]
	lists *expirable.LRU[string, []domain.Rendering]

	hits        atomic.Uint64
	misses      atomic.Uint64
	originReads atomic.Uint64
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 64
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &CachedStore{
		origin: origin,
		blobs:  expirable.NewLRU[string, cachedBlob](cfg.MaxEntries, nil, cfg.TTL),
		lists:  expirable.NewLRU[string, []domain.Rendering](cfg.MaxEntries, nil, cfg.TTL),
	}
}

func (s *CachedStore) Put(ctx context.Context, meta domain.Rendering, data []byte) error {
	if err := s.origin.Put(ctx, meta, data); err != nil {
		return err
	}
	meta.ProjectID = NormalizeProject(meta.ProjectID)
	s.blobs.Add(objectKey(meta.ProjectID, meta.ID), cachedBlob{meta: meta, data: append([]byte(nil), data...)})
	s.lists.Remove(meta.ProjectID)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, projectID, id string) (domain.Rendering, []byte, error) {
	key := objectKey(NormalizeProject(projectID), id)
	if b, ok := s.blobs.Get(key); ok {
		s.hits.Add(1)
		return b.meta, append([]byte(nil), b.data...), nil
	}
	s.misses.Add(1)
	s.originReads.Add(1)

	meta, data, err := s.origin.Get(ctx, projectID, id)
	if err != nil {
		return domain.Rendering{}, nil, err
	}
	s.blobs.Add(key, cachedBlob{meta: meta, data: append([]byte(nil), data...)})
	return meta, data, nil
}

func (s *CachedStore) List(ctx context.Context, projectID string) ([]domain.Rendering, error) {
	projectID = NormalizeProject(projectID)
	if list, ok := s.lists.Get(projectID); ok {
		s.hits.Add(1)
		return append([]domain.Rendering(nil), list...), nil
	}
	s.misses.Add(1)
	s.originReads.Add(1)

	list, err := s.origin.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.lists.Add(projectID, append([]domain.Rendering(nil), list...))
	return list, nil
}

func (s *CachedStore) Stats() CacheStats {
	return CacheStats{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		OriginReads: s.originReads.Load(),
	}
}
