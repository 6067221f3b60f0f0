package service

import (
	"errors"

	"assetsvc/internal/storage"
	"assetsvc/internal/validator"
)

var (
	ErrAssetGrouped    = errors.New("asset already belongs to a group")
	ErrAssetNotInGroup = errors.New("asset is not a member of the group")
	ErrGroupDelegated  = errors.New("group has an active delegation")
	ErrNotDelegated    = errors.New("group is not delegated")
	ErrInvalidID       = errors.New("invalid id")
)

// Kind is the stable client-facing classification of a failure.
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindBackendFailure Kind = "backend_failure"
	KindUnavailable    Kind = "unavailable"
)

// classifications maps internal failures one-to-one onto client-facing
// kinds. Order matters: connectivity beats everything else so a
// half-finished multi-call operation reports the transport failure.
var classifications = []struct {
	target error
	kind   Kind
}{
	{storage.ErrUnavailable, KindUnavailable},
	{storage.ErrNotFound, KindNotFound},
	{ErrAssetNotInGroup, KindNotFound},
	{ErrInvalidID, KindInvalidRequest},
	{ErrAssetGrouped, KindConflict},
	{ErrGroupDelegated, KindConflict},
	{ErrNotDelegated, KindConflict},
}

// Classify resolves an error returned by the orchestration layer to
// its client-facing kind. Unrecognized errors are backend failures:
// the backend reported an application error this layer does not
// interpret.
func Classify(err error) Kind {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		return KindInvalidRequest
	}
	for _, c := range classifications {
		if errors.Is(err, c.target) {
			return c.kind
		}
	}
	return KindBackendFailure
}
