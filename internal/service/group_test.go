package service

import (
	"context"
	"testing"

	"assetsvc/internal/storage"
	"assetsvc/internal/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupAssignsMembers(t *testing.T) {
	assets, groups, _, _ := newServices(t)
	ctx := context.Background()

	owner := uuid.New()
	asset1 := registerTestAsset(t, assets, owner)
	asset2 := registerTestAsset(t, assets, owner)

	groupID, err := groups.Create(ctx, RegisterGroupRequest{
		Name:   "Fleet North",
		Owner:  owner.String(),
		Assets: []string{asset1.String(), asset2.String()},
	})
	require.NoError(t, err)

	group, err := groups.Get(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, "Fleet North", group.Name)
	assert.Equal(t, owner, group.Owner)
	assert.ElementsMatch(t, []uuid.UUID{asset1, asset2}, group.Assets)
	assert.Nil(t, group.Delegation)

	for _, assetID := range []uuid.UUID{asset1, asset2} {
		asset, err := assets.Get(ctx, assetID)
		require.NoError(t, err)
		require.NotNil(t, asset.GroupID)
		assert.Equal(t, groupID, *asset.GroupID)
	}
}

func TestCreateGroupRejectsUnknownMember(t *testing.T) {
	_, groups, _, _ := newServices(t)

	_, err := groups.Create(context.Background(), RegisterGroupRequest{
		Owner:  uuid.New().String(),
		Assets: []string{uuid.New().String()},
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestCreateGroupRejectsGroupedMember(t *testing.T) {
	assets, groups, _, _ := newServices(t)
	ctx := context.Background()

	owner := uuid.New()
	assetID := registerTestAsset(t, assets, owner)

	_, err := groups.Create(ctx, RegisterGroupRequest{
		Owner:  owner.String(),
		Assets: []string{assetID.String()},
	})
	require.NoError(t, err)

	// The same asset cannot join a second group.
	_, err = groups.Create(ctx, RegisterGroupRequest{
		Owner:  owner.String(),
		Assets: []string{assetID.String()},
	})
	require.ErrorIs(t, err, ErrAssetGrouped)
	assert.Equal(t, KindConflict, Classify(err))
}

func TestCreateGroupPartialFailureKeepsGroup(t *testing.T) {
	// Member assignment fails after the group insert; the group record
	// stands and the failure is surfaced, no rollback.
	memory := storage.NewMemory()
	clients := memory.Clients()
	validate := validator.New()

	healthyAssets := NewAssetService(clients.Assets, validate)
	owner := uuid.New()
	assetID := registerTestAsset(t, healthyAssets, owner)

	flakyAssets := NewAssetService(failingUpdateAssetStore{AssetStore: clients.Assets}, validate)
	groups := NewGroupService(clients.Groups, flakyAssets, validate)

	_, err := groups.Create(context.Background(), RegisterGroupRequest{
		Owner:  owner.String(),
		Assets: []string{assetID.String()},
	})
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, Classify(err))

	created, err := clients.Groups.Search(context.Background(), storage.GroupFilter{Owner: owner})
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestAddAndRemoveMember(t *testing.T) {
	assets, groups, _, _ := newServices(t)
	ctx := context.Background()

	owner := uuid.New()
	groupID, err := groups.Create(ctx, RegisterGroupRequest{Owner: owner.String()})
	require.NoError(t, err)

	assetID := registerTestAsset(t, assets, owner)

	require.NoError(t, groups.AddMember(ctx, groupID, assetID))

	group, err := groups.Get(ctx, groupID)
	require.NoError(t, err)
	assert.True(t, group.HasAsset(assetID))

	asset, err := assets.Get(ctx, assetID)
	require.NoError(t, err)
	require.NotNil(t, asset.GroupID)
	assert.Equal(t, groupID, *asset.GroupID)

	// Adding a grouped asset again is a conflict.
	err = groups.AddMember(ctx, groupID, assetID)
	require.ErrorIs(t, err, ErrAssetGrouped)

	require.NoError(t, groups.RemoveMember(ctx, groupID, assetID))

	group, err = groups.Get(ctx, groupID)
	require.NoError(t, err)
	assert.False(t, group.HasAsset(assetID))

	// The asset survives removal with its group reference cleared.
	asset, err = assets.Get(ctx, assetID)
	require.NoError(t, err)
	assert.Nil(t, asset.GroupID)
}

func TestRemoveMemberNotInGroup(t *testing.T) {
	_, groups, _, _ := newServices(t)
	ctx := context.Background()

	groupID, err := groups.Create(ctx, RegisterGroupRequest{Owner: uuid.New().String()})
	require.NoError(t, err)

	err = groups.RemoveMember(ctx, groupID, uuid.New())
	require.ErrorIs(t, err, ErrAssetNotInGroup)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestUpdateGroupName(t *testing.T) {
	_, groups, _, _ := newServices(t)
	ctx := context.Background()

	groupID, err := groups.Create(ctx, RegisterGroupRequest{Name: "Old", Owner: uuid.New().String()})
	require.NoError(t, err)

	newName := "New"
	_, err = groups.Update(ctx, groupID, UpdateGroupRequest{Name: &newName})
	require.NoError(t, err)

	group, err := groups.Get(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, "New", group.Name)
}

func TestDeleteGroupClearsMembers(t *testing.T) {
	assets, groups, _, _ := newServices(t)
	ctx := context.Background()

	owner := uuid.New()
	assetID := registerTestAsset(t, assets, owner)
	groupID, err := groups.Create(ctx, RegisterGroupRequest{
		Owner:  owner.String(),
		Assets: []string{assetID.String()},
	})
	require.NoError(t, err)

	deleted, err := groups.Delete(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, groupID, deleted)

	_, err = groups.Get(ctx, groupID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	asset, err := assets.Get(ctx, assetID)
	require.NoError(t, err)
	assert.Nil(t, asset.GroupID)
}

func TestDeleteGroupNotFound(t *testing.T) {
	_, groups, _, _ := newServices(t)

	_, err := groups.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteDelegatedGroupConflicts(t *testing.T) {
	_, groups, delegations, _ := newServices(t)
	ctx := context.Background()

	groupID, err := groups.Create(ctx, RegisterGroupRequest{Owner: uuid.New().String()})
	require.NoError(t, err)

	_, err = delegations.Delegate(ctx, groupID, DelegateRequest{ToOperator: uuid.New().String()})
	require.NoError(t, err)

	_, err = groups.Delete(ctx, groupID)
	require.ErrorIs(t, err, ErrGroupDelegated)
	assert.Equal(t, KindConflict, Classify(err))

	// Revoke-before-delete is the required order.
	_, err = delegations.Revoke(ctx, groupID)
	require.NoError(t, err)

	_, err = groups.Delete(ctx, groupID)
	require.NoError(t, err)
}

func TestCreateGroupValidation(t *testing.T) {
	_, groups, _, _ := newServices(t)

	_, err := groups.Create(context.Background(), RegisterGroupRequest{
		Owner:  "not-a-uuid",
		Assets: nil,
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidRequest, Classify(err))

	_, err = groups.Create(context.Background(), RegisterGroupRequest{
		Owner:  uuid.New().String(),
		Assets: []string{"not-a-uuid"},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidRequest, Classify(err))
}
