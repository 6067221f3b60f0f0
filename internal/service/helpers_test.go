package service

import (
	"context"
	"testing"

	"assetsvc/internal/model"
	"assetsvc/internal/storage"
	"assetsvc/internal/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) (*AssetService, *GroupService, *DelegationService, storage.Clients) {
	t.Helper()

	clients := storage.NewMemory().Clients()
	validate := validator.New()
	assets := NewAssetService(clients.Assets, validate)
	groups := NewGroupService(clients.Groups, assets, validate)
	delegations := NewDelegationService(groups, validate)
	return assets, groups, delegations, clients
}

func registerTestAsset(t *testing.T, assets *AssetService, owner uuid.UUID) uuid.UUID {
	t.Helper()

	id, err := assets.Register(context.Background(), RegisterAssetRequest{
		Kind:         string(model.AssetKindVehicle),
		Name:         "Test Vehicle",
		Owner:        owner.String(),
		Manufacturer: "Boeing",
		Model:        "737-800",
		SerialNumber: "12345",
	})
	require.NoError(t, err)
	return id
}

// unavailableAssetStore simulates an unreachable storage backend.
type unavailableAssetStore struct{}

func (unavailableAssetStore) GetByID(ctx context.Context, id uuid.UUID) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}

func (unavailableAssetStore) Search(ctx context.Context, filter storage.AssetFilter) ([]model.Asset, error) {
	return nil, storage.ErrUnavailable
}

func (unavailableAssetStore) Insert(ctx context.Context, asset model.Asset) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}

func (unavailableAssetStore) Update(ctx context.Context, id uuid.UUID, asset model.Asset) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}

func (unavailableAssetStore) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return uuid.Nil, storage.ErrUnavailable
}

// failingUpdateAssetStore lets reads and inserts through but fails
// every update, to exercise partial multi-call failures.
type failingUpdateAssetStore struct {
	storage.AssetStore
}

func (s failingUpdateAssetStore) Update(ctx context.Context, id uuid.UUID, asset model.Asset) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}
