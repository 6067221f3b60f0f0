package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetsvc/internal/config"
	"assetsvc/internal/model"
	"assetsvc/internal/monitoring"
	"assetsvc/internal/service"
	"assetsvc/internal/storage"
	"assetsvc/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, clients storage.Clients) *fiber.App {
	t.Helper()

	validate := validator.New()
	assets := service.NewAssetService(clients.Assets, validate)
	groups := service.NewGroupService(clients.Groups, assets, validate)
	delegations := service.NewDelegationService(groups, validate)

	tel, err := monitoring.NewOpenTelemetry(config.TelemetryConfig{})
	require.NoError(t, err)

	app := fiber.New()
	handler := NewHandler(assets, groups, delegations, clients, tel)
	RegisterRoutes(app, &handler)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, storage.NewMemory().Clients())

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestHealthEndpointBackendDown(t *testing.T) {
	clients := storage.NewMemory().Clients()
	clients.Assets = downAssetStore{}
	app := newTestApp(t, clients)

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestAssetLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t, storage.NewMemory().Clients())
	owner := uuid.New().String()

	resp, body := doJSON(t, app, http.MethodPost, "/assets", fiber.Map{
		"kind":  "vehicle",
		"name":  "Cargo One",
		"owner": owner,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id, ok := body["id"].(string)
	require.True(t, ok)

	resp, body = doJSON(t, app, http.MethodGet, "/assets/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cargo One", body["name"])
	assert.Equal(t, string(model.AssetKindVehicle), body["kind"])
	assert.Equal(t, string(model.AssetStatusAvailable), body["status"])

	resp, _ = doJSON(t, app, http.MethodPut, "/assets/"+id, fiber.Map{
		"name": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/assets/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", body["name"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/assets/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/assets/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(service.KindNotFound), body["error"])
}

func TestAssetBadRequests(t *testing.T) {
	app := newTestApp(t, storage.NewMemory().Clients())

	// Malformed path id.
	resp, body := doJSON(t, app, http.MethodGet, "/assets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(service.KindInvalidRequest), body["error"])

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/assets", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	// Validation failure.
	resp, body = doJSON(t, app, http.MethodPost, "/assets", fiber.Map{
		"kind":  "blimp",
		"owner": uuid.New().String(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(service.KindInvalidRequest), body["error"])

	// Malformed query filter.
	resp, body = doJSON(t, app, http.MethodGet, "/assets?owner=nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(service.KindInvalidRequest), body["error"])
}

func TestGroupMembershipOverHTTP(t *testing.T) {
	app := newTestApp(t, storage.NewMemory().Clients())
	owner := uuid.New().String()

	resp, body := doJSON(t, app, http.MethodPost, "/assets", fiber.Map{
		"kind":  "vehicle",
		"owner": owner,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assetID := body["id"].(string)

	resp, body = doJSON(t, app, http.MethodPost, "/groups", fiber.Map{
		"name":  "Fleet North",
		"owner": owner,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	groupID := body["id"].(string)

	resp, _ = doJSON(t, app, http.MethodPost, "/groups/"+groupID+"/assets", fiber.Map{
		"asset_id": assetID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Grouped assets cannot be added twice.
	resp, body = doJSON(t, app, http.MethodPost, "/groups/"+groupID+"/assets", fiber.Map{
		"asset_id": assetID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(service.KindConflict), body["error"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/groups/"+groupID+"/assets/"+assetID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodDelete, "/groups/"+groupID+"/assets/"+assetID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(service.KindNotFound), body["error"])
}

func TestDelegationOverHTTP(t *testing.T) {
	app := newTestApp(t, storage.NewMemory().Clients())
	owner := uuid.New().String()

	resp, body := doJSON(t, app, http.MethodPost, "/groups", fiber.Map{"owner": owner})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	groupID := body["id"].(string)

	resp, _ = doJSON(t, app, http.MethodPost, "/groups/"+groupID+"/delegate", fiber.Map{
		"to_operator": uuid.New().String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Already-delegated groups reject a second delegation.
	resp, body = doJSON(t, app, http.MethodPost, "/groups/"+groupID+"/delegate", fiber.Map{
		"to_operator": uuid.New().String(),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(service.KindConflict), body["error"])

	resp, _ = doJSON(t, app, http.MethodPost, "/groups/"+groupID+"/revoke", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/groups/"+groupID+"/revoke", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(service.KindConflict), body["error"])

	// Deleting a non-delegated group succeeds.
	resp, _ = doJSON(t, app, http.MethodDelete, "/groups/"+groupID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnavailableBackendDegradesTo503(t *testing.T) {
	clients := storage.NewMemory().Clients()
	clients.Assets = downAssetStore{}
	app := newTestApp(t, clients)

	resp, body := doJSON(t, app, http.MethodGet, "/assets/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, string(service.KindUnavailable), body["error"])
}

type downAssetStore struct{}

func (downAssetStore) GetByID(ctx context.Context, id uuid.UUID) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}

func (downAssetStore) Search(ctx context.Context, filter storage.AssetFilter) ([]model.Asset, error) {
	return nil, storage.ErrUnavailable
}

func (downAssetStore) Insert(ctx context.Context, asset model.Asset) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}

func (downAssetStore) Update(ctx context.Context, id uuid.UUID, asset model.Asset) (model.Asset, error) {
	return model.Asset{}, storage.ErrUnavailable
}

func (downAssetStore) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return uuid.Nil, storage.ErrUnavailable
}
