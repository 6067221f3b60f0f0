package service

import (
	"context"
	"fmt"

	"assetsvc/internal/model"
	"assetsvc/internal/storage"
	"assetsvc/internal/validator"

	"github.com/google/uuid"
)

// GroupService orchestrates CRUD and membership for asset groups.
// Group operations fan out into per-asset group_id updates with no
// cross-call transaction: the first backend failure aborts the
// remaining calls and is returned as-is, already-applied writes stand.
type GroupService struct {
	store    storage.GroupStore
	assets   *AssetService
	validate *validator.Validator
}

func NewGroupService(store storage.GroupStore, assets *AssetService, validate *validator.Validator) *GroupService {
	return &GroupService{store: store, assets: assets, validate: validate}
}

type RegisterGroupRequest struct {
	Name   string   `json:"name"`
	Owner  string   `json:"owner" validate:"required,uuid4"`
	Assets []string `json:"assets" validate:"dive,uuid4"`
}

type UpdateGroupRequest struct {
	Name *string `json:"name"`
}

func (s *GroupService) Get(ctx context.Context, id uuid.UUID) (model.Group, error) {
	return s.store.GetByID(ctx, id)
}

func (s *GroupService) List(ctx context.Context, filter storage.GroupFilter) ([]model.Group, error) {
	return s.store.Search(ctx, filter)
}

// Create registers a group and assigns the member assets to it. Every
// member must resolve to an existing, ungrouped asset before anything
// is written.
func (s *GroupService) Create(ctx context.Context, req RegisterGroupRequest) (uuid.UUID, error) {
	if err := s.validate.Validate(req); err != nil {
		return uuid.Nil, err
	}

	owner, err := uuid.Parse(req.Owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: owner", ErrInvalidID)
	}

	members := make([]model.Asset, 0, len(req.Assets))
	memberIDs := make([]uuid.UUID, 0, len(req.Assets))
	for _, raw := range req.Assets {
		assetID, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: asset %s", ErrInvalidID, raw)
		}
		asset, err := s.assets.Get(ctx, assetID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("member asset %s: %w", assetID, err)
		}
		if asset.GroupID != nil {
			return uuid.Nil, fmt.Errorf("%w: asset %s", ErrAssetGrouped, assetID)
		}
		members = append(members, asset)
		memberIDs = append(memberIDs, assetID)
	}

	group := model.Group{
		Name:   req.Name,
		Owner:  owner,
		Assets: memberIDs,
	}
	created, err := s.store.Insert(ctx, group)
	if err != nil {
		return uuid.Nil, err
	}

	// The group insert happens-before the member updates. A failure
	// here leaves the group missing that assignment; the caller is
	// responsible for retry or reconciliation.
	for _, asset := range members {
		asset.GroupID = &created.ID
		if _, err := s.assets.store.Update(ctx, asset.ID, asset); err != nil {
			return uuid.Nil, fmt.Errorf("assign asset %s to group %s: %w", asset.ID, created.ID, err)
		}
	}
	return created.ID, nil
}

// Update renames the group. Membership and delegation change through
// their own operations.
func (s *GroupService) Update(ctx context.Context, id uuid.UUID, req UpdateGroupRequest) (uuid.UUID, error) {
	if err := s.validate.Validate(req); err != nil {
		return uuid.Nil, err
	}

	group, err := s.store.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if req.Name != nil {
		group.Name = *req.Name
	}
	if _, err := s.store.Update(ctx, id, group); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AddMember places an ungrouped asset into the group.
func (s *GroupService) AddMember(ctx context.Context, groupID, assetID uuid.UUID) error {
	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return fmt.Errorf("member asset %s: %w", assetID, err)
	}
	if asset.GroupID != nil {
		return fmt.Errorf("%w: asset %s", ErrAssetGrouped, assetID)
	}

	group.Assets = append(group.Assets, assetID)
	if _, err := s.store.Update(ctx, groupID, group); err != nil {
		return err
	}

	asset.GroupID = &groupID
	if _, err := s.assets.store.Update(ctx, assetID, asset); err != nil {
		return fmt.Errorf("assign asset %s to group %s: %w", assetID, groupID, err)
	}
	return nil
}

// RemoveMember takes the asset out of the group and clears its
// group_id. The asset itself is not deleted.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, assetID uuid.UUID) error {
	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasAsset(assetID) {
		return fmt.Errorf("%w: asset %s in group %s", ErrAssetNotInGroup, assetID, groupID)
	}

	remaining := make([]uuid.UUID, 0, len(group.Assets))
	for _, memberID := range group.Assets {
		if memberID != assetID {
			remaining = append(remaining, memberID)
		}
	}
	group.Assets = remaining
	if _, err := s.store.Update(ctx, groupID, group); err != nil {
		return err
	}

	asset, err := s.assets.Get(ctx, assetID)
	if err != nil {
		return fmt.Errorf("member asset %s: %w", assetID, err)
	}
	asset.GroupID = nil
	if _, err := s.assets.store.Update(ctx, assetID, asset); err != nil {
		return fmt.Errorf("clear group of asset %s: %w", assetID, err)
	}
	return nil
}

// Delete removes the group after clearing each member's group_id. A
// delegated group cannot be deleted; it must be revoked first.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	group, err := s.store.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if group.Delegated() {
		return uuid.Nil, fmt.Errorf("%w: group %s", ErrGroupDelegated, id)
	}

	for _, memberID := range group.Assets {
		asset, err := s.assets.Get(ctx, memberID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("member asset %s: %w", memberID, err)
		}
		asset.GroupID = nil
		if _, err := s.assets.store.Update(ctx, memberID, asset); err != nil {
			return uuid.Nil, fmt.Errorf("clear group of asset %s: %w", memberID, err)
		}
	}

	return s.store.Delete(ctx, id)
}
