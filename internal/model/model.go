package model

import (
	"time"

	"github.com/google/uuid"
)

type AssetKind string

const (
	AssetKindVehicle   AssetKind = "vehicle"
	AssetKindVertiport AssetKind = "vertiport"
	AssetKindVertipad  AssetKind = "vertipad"
)

type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "available"
	AssetStatusUnavailable AssetStatus = "unavailable"
	AssetStatusEmergency   AssetStatus = "emergency"
)

// Location is a last-known position reported for an asset.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Asset is a trackable physical resource owned by an operator. An
// asset belongs to at most one group; GroupID is a relation, not an
// ownership claim.
type Asset struct {
	ID                 uuid.UUID   `json:"id"`
	Kind               AssetKind   `json:"kind"`
	Name               string      `json:"name,omitempty"`
	Owner              uuid.UUID   `json:"owner"`
	GroupID            *uuid.UUID  `json:"group_id,omitempty"`
	Manufacturer       string      `json:"manufacturer,omitempty"`
	Model              string      `json:"model,omitempty"`
	SerialNumber       string      `json:"serial_number,omitempty"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	Description        string      `json:"description,omitempty"`
	Status             AssetStatus `json:"status"`
	LastKnownLocation  *Location   `json:"last_known_location,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          *time.Time  `json:"updated_at,omitempty"`
}

// Delegation is a grant of access to a group from its owning operator
// to another operator. A group holds at most one active delegation.
type Delegation struct {
	FromOperator uuid.UUID `json:"from_operator"`
	ToOperator   uuid.UUID `json:"to_operator"`
	Since        time.Time `json:"since"`
	Active       bool      `json:"active"`
}

// Group is a collection of assets managed as a unit. Only groups can
// be delegated; a nil Delegation means the group is not delegated.
type Group struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name,omitempty"`
	Owner      uuid.UUID   `json:"owner"`
	Assets     []uuid.UUID `json:"assets"`
	Delegation *Delegation `json:"delegation,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
}

// Delegated reports whether the group currently has an active
// delegation.
func (g Group) Delegated() bool {
	return g.Delegation != nil && g.Delegation.Active
}

// HasAsset reports whether the asset id is a member of the group.
func (g Group) HasAsset(id uuid.UUID) bool {
	for _, assetID := range g.Assets {
		if assetID == id {
			return true
		}
	}
	return false
}
