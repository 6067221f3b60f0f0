// Package storage defines the gateway to the remote storage backend.
// The façade keeps no state of its own; every request goes through one
// of these interfaces and the backend arbitrates conflicting writes.
package storage

import (
	"context"
	"errors"

	"assetsvc/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the backend has no record for the
	// requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable is returned when the backend cannot be reached.
	// Handlers must downgrade to 503 on this error, never crash.
	ErrUnavailable = errors.New("storage backend unavailable")
)

// AssetFilter narrows a Search call. Zero-value fields are ignored.
type AssetFilter struct {
	Kind    model.AssetKind
	Status  model.AssetStatus
	Owner   uuid.UUID
	GroupID uuid.UUID
}

// GroupFilter narrows a group Search call.
type GroupFilter struct {
	Owner     uuid.UUID
	Delegatee uuid.UUID
}

// AssetStore is the backend contract for asset records of every kind
// (vehicle, vertiport, vertipad). Implementations must be safe for
// concurrent use by many in-flight requests.
type AssetStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Asset, error)
	Search(ctx context.Context, filter AssetFilter) ([]model.Asset, error)
	Insert(ctx context.Context, asset model.Asset) (model.Asset, error)
	Update(ctx context.Context, id uuid.UUID, asset model.Asset) (model.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// GroupStore is the backend contract for asset group records,
// including their delegation field.
type GroupStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Group, error)
	Search(ctx context.Context, filter GroupFilter) ([]model.Group, error)
	Insert(ctx context.Context, group model.Group) (model.Group, error)
	Update(ctx context.Context, id uuid.UUID, group model.Group) (model.Group, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// Clients bundles the per-resource stores handed to the orchestrators.
type Clients struct {
	Assets AssetStore
	Groups GroupStore
}

// HealthCheck issues a cheap backend call to verify connectivity.
func (c Clients) HealthCheck(ctx context.Context) error {
	_, err := c.Assets.Search(ctx, AssetFilter{})
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return nil
}
