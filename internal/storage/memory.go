package storage

import (
	"context"
	"sync"
	"time"

	"assetsvc/internal/model"

	"github.com/google/uuid"
)

// Memory is an in-process stand-in for the storage service, used in
// development mode and as the test double for the orchestrators. It
// applies the same contract as the gRPC gateway: backend-assigned ids
// on insert, ErrNotFound for unknown ids.
type Memory struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]model.Asset
	groups map[uuid.UUID]model.Group
}

func NewMemory() *Memory {
	return &Memory{
		assets: make(map[uuid.UUID]model.Asset),
		groups: make(map[uuid.UUID]model.Group),
	}
}

// Clients returns the per-resource stores backed by this instance.
func (m *Memory) Clients() Clients {
	return Clients{
		Assets: &memoryAssetStore{m},
		Groups: &memoryGroupStore{m},
	}
}

type memoryAssetStore struct {
	m *Memory
}

func (s *memoryAssetStore) GetByID(ctx context.Context, id uuid.UUID) (model.Asset, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	asset, ok := s.m.assets[id]
	if !ok {
		return model.Asset{}, ErrNotFound
	}
	return asset, nil
}

func (s *memoryAssetStore) Search(ctx context.Context, filter AssetFilter) ([]model.Asset, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matches := []model.Asset{}
	for _, asset := range s.m.assets {
		if filter.Kind != "" && asset.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && asset.Status != filter.Status {
			continue
		}
		if filter.Owner != uuid.Nil && asset.Owner != filter.Owner {
			continue
		}
		if filter.GroupID != uuid.Nil && (asset.GroupID == nil || *asset.GroupID != filter.GroupID) {
			continue
		}
		matches = append(matches, asset)
	}
	return matches, nil
}

func (s *memoryAssetStore) Insert(ctx context.Context, asset model.Asset) (model.Asset, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	asset.ID = uuid.New()
	asset.CreatedAt = time.Now().UTC()
	asset.UpdatedAt = nil
	s.m.assets[asset.ID] = asset
	return asset, nil
}

func (s *memoryAssetStore) Update(ctx context.Context, id uuid.UUID, asset model.Asset) (model.Asset, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	current, ok := s.m.assets[id]
	if !ok {
		return model.Asset{}, ErrNotFound
	}
	now := time.Now().UTC()
	asset.ID = id
	asset.CreatedAt = current.CreatedAt
	asset.UpdatedAt = &now
	s.m.assets[id] = asset
	return asset, nil
}

func (s *memoryAssetStore) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.assets[id]; !ok {
		return uuid.Nil, ErrNotFound
	}
	delete(s.m.assets, id)
	return id, nil
}

type memoryGroupStore struct {
	m *Memory
}

func (s *memoryGroupStore) GetByID(ctx context.Context, id uuid.UUID) (model.Group, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	group, ok := s.m.groups[id]
	if !ok {
		return model.Group{}, ErrNotFound
	}
	return copyGroup(group), nil
}

func (s *memoryGroupStore) Search(ctx context.Context, filter GroupFilter) ([]model.Group, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matches := []model.Group{}
	for _, group := range s.m.groups {
		if filter.Owner != uuid.Nil && group.Owner != filter.Owner {
			continue
		}
		if filter.Delegatee != uuid.Nil && (group.Delegation == nil || group.Delegation.ToOperator != filter.Delegatee) {
			continue
		}
		matches = append(matches, copyGroup(group))
	}
	return matches, nil
}

func (s *memoryGroupStore) Insert(ctx context.Context, group model.Group) (model.Group, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	group.ID = uuid.New()
	group.CreatedAt = time.Now().UTC()
	group.UpdatedAt = nil
	s.m.groups[group.ID] = copyGroup(group)
	return group, nil
}

func (s *memoryGroupStore) Update(ctx context.Context, id uuid.UUID, group model.Group) (model.Group, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	current, ok := s.m.groups[id]
	if !ok {
		return model.Group{}, ErrNotFound
	}
	now := time.Now().UTC()
	group.ID = id
	group.CreatedAt = current.CreatedAt
	group.UpdatedAt = &now
	s.m.groups[id] = copyGroup(group)
	return group, nil
}

func (s *memoryGroupStore) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.groups[id]; !ok {
		return uuid.Nil, ErrNotFound
	}
	delete(s.m.groups, id)
	return id, nil
}

// copyGroup detaches the member slice and delegation record so callers
// cannot mutate stored state behind the lock.
func copyGroup(group model.Group) model.Group {
	group.Assets = append([]uuid.UUID(nil), group.Assets...)
	if group.Delegation != nil {
		delegation := *group.Delegation
		group.Delegation = &delegation
	}
	return group
}
