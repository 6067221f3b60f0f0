package service

import (
	"context"
	"fmt"

	"assetsvc/internal/model"
	"assetsvc/internal/storage"
	"assetsvc/internal/validator"

	"github.com/google/uuid"
)

// AssetService orchestrates CRUD for individual assets. Every
// operation follows validate → call backend → map result; no state is
// kept between requests.
type AssetService struct {
	store    storage.AssetStore
	validate *validator.Validator
}

func NewAssetService(store storage.AssetStore, validate *validator.Validator) *AssetService {
	return &AssetService{store: store, validate: validate}
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type RegisterAssetRequest struct {
	Kind               string           `json:"kind" validate:"required,oneof=vehicle vertiport vertipad"`
	Name               string           `json:"name"`
	Owner              string           `json:"owner" validate:"required,uuid4"`
	Manufacturer       string           `json:"manufacturer"`
	Model              string           `json:"model"`
	SerialNumber       string           `json:"serial_number"`
	RegistrationNumber string           `json:"registration_number"`
	Description        string           `json:"description"`
	Status             string           `json:"status" validate:"omitempty,oneof=available unavailable emergency"`
	LastKnownLocation  *LocationPayload `json:"last_known_location"`
}

type UpdateAssetRequest struct {
	Name               *string          `json:"name"`
	Manufacturer       *string          `json:"manufacturer"`
	Model              *string          `json:"model"`
	SerialNumber       *string          `json:"serial_number"`
	RegistrationNumber *string          `json:"registration_number"`
	Description        *string          `json:"description"`
	Status             *string          `json:"status" validate:"omitempty,oneof=available unavailable emergency"`
	LastKnownLocation  *LocationPayload `json:"last_known_location"`
}

// List forwards the filter to the backend search. The result is the
// backend's full match set; the façade adds no pagination of its own.
func (s *AssetService) List(ctx context.Context, filter storage.AssetFilter) ([]model.Asset, error) {
	return s.store.Search(ctx, filter)
}

func (s *AssetService) Get(ctx context.Context, id uuid.UUID) (model.Asset, error) {
	return s.store.GetByID(ctx, id)
}

// Register inserts a new asset and returns the backend-assigned id.
// Two identical calls register two distinct assets.
func (s *AssetService) Register(ctx context.Context, req RegisterAssetRequest) (uuid.UUID, error) {
	if err := s.validate.Validate(req); err != nil {
		return uuid.Nil, err
	}

	owner, err := uuid.Parse(req.Owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: owner", ErrInvalidID)
	}

	status := model.AssetStatus(req.Status)
	if status == "" {
		status = model.AssetStatusAvailable
	}

	asset := model.Asset{
		Kind:               model.AssetKind(req.Kind),
		Name:               req.Name,
		Owner:              owner,
		Manufacturer:       req.Manufacturer,
		Model:              req.Model,
		SerialNumber:       req.SerialNumber,
		RegistrationNumber: req.RegistrationNumber,
		Description:        req.Description,
		Status:             status,
	}
	if req.LastKnownLocation != nil {
		asset.LastKnownLocation = &model.Location{
			Latitude:  req.LastKnownLocation.Latitude,
			Longitude: req.LastKnownLocation.Longitude,
		}
	}

	inserted, err := s.store.Insert(ctx, asset)
	if err != nil {
		return uuid.Nil, err
	}
	return inserted.ID, nil
}

// Update overlays the supplied fields on the current record and writes
// it back. The read resolves NotFound before any write is attempted.
func (s *AssetService) Update(ctx context.Context, id uuid.UUID, req UpdateAssetRequest) (uuid.UUID, error) {
	if err := s.validate.Validate(req); err != nil {
		return uuid.Nil, err
	}

	asset, err := s.store.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Manufacturer != nil {
		asset.Manufacturer = *req.Manufacturer
	}
	if req.Model != nil {
		asset.Model = *req.Model
	}
	if req.SerialNumber != nil {
		asset.SerialNumber = *req.SerialNumber
	}
	if req.RegistrationNumber != nil {
		asset.RegistrationNumber = *req.RegistrationNumber
	}
	if req.Description != nil {
		asset.Description = *req.Description
	}
	if req.Status != nil {
		asset.Status = model.AssetStatus(*req.Status)
	}
	if req.LastKnownLocation != nil {
		asset.LastKnownLocation = &model.Location{
			Latitude:  req.LastKnownLocation.Latitude,
			Longitude: req.LastKnownLocation.Longitude,
		}
	}

	if _, err := s.store.Update(ctx, id, asset); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Remove deletes the asset. Deleting an unknown id reports NotFound so
// caller mistakes surface instead of silently succeeding.
func (s *AssetService) Remove(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return s.store.Delete(ctx, id)
}
