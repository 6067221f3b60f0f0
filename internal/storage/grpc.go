package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assetsvc/internal/model"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec lets the storage calls go over gRPC without generated
// stubs; the backend negotiates the json content subtype.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

// GrpcClients holds the shared client connection to the storage
// service. The connection multiplexes concurrent requests; callers
// never lock it.
type GrpcClients struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewGrpcClients dials the storage service at target
// (host:port). The connection is lazy; connectivity failures surface
// per call as ErrUnavailable.
func NewGrpcClients(target string, callTimeout time.Duration) (*GrpcClients, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("dial storage service at %s: %w", target, err)
	}
	return &GrpcClients{conn: conn, timeout: callTimeout}, nil
}

// Clients returns the per-resource stores backed by this connection.
func (g *GrpcClients) Clients() Clients {
	return Clients{
		Assets: &grpcAssetStore{g},
		Groups: &grpcGroupStore{g},
	}
}

func (g *GrpcClients) Close() error {
	return g.conn.Close()
}

func (g *GrpcClients) invoke(ctx context.Context, method string, in, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if err := g.conn.Invoke(ctx, method, in, out); err != nil {
		return mapStatusError(method, err)
	}
	return nil
}

// mapStatusError translates gRPC transport outcomes into the gateway
// error set. Connectivity failures and timeouts are distinct from
// application errors reported by the backend.
func mapStatusError(method string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s: %s", ErrUnavailable, method, status.Convert(err).Message())
	default:
		return fmt.Errorf("storage call %s failed: %w", method, err)
	}
}

// Wire shapes for the storage service.
type idRequest struct {
	ID string `json:"id"`
}

type idResponse struct {
	ID string `json:"id"`
}

type assetSearchRequest struct {
	Kind    string `json:"kind,omitempty"`
	Status  string `json:"status,omitempty"`
	Owner   string `json:"owner,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

type assetListResponse struct {
	List []model.Asset `json:"list"`
}

type updateAssetRequest struct {
	ID   string      `json:"id"`
	Data model.Asset `json:"data"`
}

type groupSearchRequest struct {
	Owner     string `json:"owner,omitempty"`
	Delegatee string `json:"delegatee,omitempty"`
}

type groupListResponse struct {
	List []model.Group `json:"list"`
}

type updateGroupRequest struct {
	ID   string      `json:"id"`
	Data model.Group `json:"data"`
}

type grpcAssetStore struct {
	g *GrpcClients
}

func (s *grpcAssetStore) GetByID(ctx context.Context, id uuid.UUID) (model.Asset, error) {
	var out model.Asset
	if err := s.g.invoke(ctx, "/storage.AssetService/GetById", idRequest{ID: id.String()}, &out); err != nil {
		return model.Asset{}, err
	}
	return out, nil
}

func (s *grpcAssetStore) Search(ctx context.Context, filter AssetFilter) ([]model.Asset, error) {
	req := assetSearchRequest{
		Kind:   string(filter.Kind),
		Status: string(filter.Status),
	}
	if filter.Owner != uuid.Nil {
		req.Owner = filter.Owner.String()
	}
	if filter.GroupID != uuid.Nil {
		req.GroupID = filter.GroupID.String()
	}

	var out assetListResponse
	if err := s.g.invoke(ctx, "/storage.AssetService/Search", req, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

func (s *grpcAssetStore) Insert(ctx context.Context, asset model.Asset) (model.Asset, error) {
	var out model.Asset
	if err := s.g.invoke(ctx, "/storage.AssetService/Insert", asset, &out); err != nil {
		return model.Asset{}, err
	}
	return out, nil
}

func (s *grpcAssetStore) Update(ctx context.Context, id uuid.UUID, asset model.Asset) (model.Asset, error) {
	req := updateAssetRequest{ID: id.String(), Data: asset}
	var out model.Asset
	if err := s.g.invoke(ctx, "/storage.AssetService/Update", req, &out); err != nil {
		return model.Asset{}, err
	}
	return out, nil
}

func (s *grpcAssetStore) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out idResponse
	if err := s.g.invoke(ctx, "/storage.AssetService/Delete", idRequest{ID: id.String()}, &out); err != nil {
		return uuid.Nil, err
	}
	deleted, err := uuid.Parse(out.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage returned malformed id %q: %w", out.ID, err)
	}
	return deleted, nil
}

type grpcGroupStore struct {
	g *GrpcClients
}

func (s *grpcGroupStore) GetByID(ctx context.Context, id uuid.UUID) (model.Group, error) {
	var out model.Group
	if err := s.g.invoke(ctx, "/storage.GroupService/GetById", idRequest{ID: id.String()}, &out); err != nil {
		return model.Group{}, err
	}
	return out, nil
}

func (s *grpcGroupStore) Search(ctx context.Context, filter GroupFilter) ([]model.Group, error) {
	var req groupSearchRequest
	if filter.Owner != uuid.Nil {
		req.Owner = filter.Owner.String()
	}
	if filter.Delegatee != uuid.Nil {
		req.Delegatee = filter.Delegatee.String()
	}

	var out groupListResponse
	if err := s.g.invoke(ctx, "/storage.GroupService/Search", req, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

func (s *grpcGroupStore) Insert(ctx context.Context, group model.Group) (model.Group, error) {
	var out model.Group
	if err := s.g.invoke(ctx, "/storage.GroupService/Insert", group, &out); err != nil {
		return model.Group{}, err
	}
	return out, nil
}

func (s *grpcGroupStore) Update(ctx context.Context, id uuid.UUID, group model.Group) (model.Group, error) {
	req := updateGroupRequest{ID: id.String(), Data: group}
	var out model.Group
	if err := s.g.invoke(ctx, "/storage.GroupService/Update", req, &out); err != nil {
		return model.Group{}, err
	}
	return out, nil
}

func (s *grpcGroupStore) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out idResponse
	if err := s.g.invoke(ctx, "/storage.GroupService/Delete", idRequest{ID: id.String()}, &out); err != nil {
		return uuid.Nil, err
	}
	deleted, err := uuid.Parse(out.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage returned malformed id %q: %w", out.ID, err)
	}
	return deleted, nil
}
