package service

import (
	"context"
	"fmt"
	"time"

	"assetsvc/internal/model"
	"assetsvc/internal/validator"

	"github.com/google/uuid"
)

// DelegationService enforces the delegation state machine over groups.
// A group is either not delegated or delegated to exactly one
// operator; the delegatee receives access, not the right to delegate
// further. Who may call delegate or revoke is decided upstream.
type DelegationService struct {
	groups   *GroupService
	validate *validator.Validator
}

func NewDelegationService(groups *GroupService, validate *validator.Validator) *DelegationService {
	return &DelegationService{groups: groups, validate: validate}
}

type DelegateRequest struct {
	ToOperator string `json:"to_operator" validate:"required,uuid4"`
}

// Delegate grants the group to another operator. Delegating an
// already-delegated group is a conflict: the current delegation must
// be revoked first, returning control to the owner.
func (s *DelegationService) Delegate(ctx context.Context, groupID uuid.UUID, req DelegateRequest) (uuid.UUID, error) {
	if err := s.validate.Validate(req); err != nil {
		return uuid.Nil, err
	}

	toOperator, err := uuid.Parse(req.ToOperator)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: to_operator", ErrInvalidID)
	}

	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return uuid.Nil, err
	}
	if group.Delegated() {
		return uuid.Nil, fmt.Errorf("%w: group %s is delegated to %s", ErrGroupDelegated, groupID, group.Delegation.ToOperator)
	}

	group.Delegation = &model.Delegation{
		FromOperator: group.Owner,
		ToOperator:   toOperator,
		Since:        time.Now().UTC(),
		Active:       true,
	}
	if _, err := s.groups.store.Update(ctx, groupID, group); err != nil {
		return uuid.Nil, err
	}
	return groupID, nil
}

// Revoke terminates the active delegation. Revoking a group that is
// not delegated is an error, not a no-op, so caller logic mistakes
// surface.
func (s *DelegationService) Revoke(ctx context.Context, groupID uuid.UUID) (uuid.UUID, error) {
	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return uuid.Nil, err
	}
	if !group.Delegated() {
		return uuid.Nil, fmt.Errorf("%w: group %s", ErrNotDelegated, groupID)
	}

	group.Delegation = nil
	if _, err := s.groups.store.Update(ctx, groupID, group); err != nil {
		return uuid.Nil, err
	}
	return groupID, nil
}
