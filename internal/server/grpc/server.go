// Package grpcserver exposes the VaultKeeper gRPC API handlers.
package grpcserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	pb "github.com/and161185/vault-keeper/internal/api/vaultv1"
	"github.com/and161185/vault-keeper/internal/convert"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/service"
	"github.com/and161185/vault-keeper/internal/vault"
)

// Server wires services into gRPC handlers.
type Server struct {
	pb.UnimplementedVaultKeeperServer
	auth   service.AuthService
	vaults service.VaultService
}

// New constructs a gRPC server with injected services. Token checks happen
// in AuthUnary.
func New(auth service.AuthService, vaults service.VaultService) *Server {
	return &Server{auth: auth, vaults: vaults}
}

// NewGRPCServer builds a grpc.Server with the VaultKeeper codec, the
// recover/logging/auth interceptor chain and a health service, and registers s.
func NewGRPCServer(s *Server, log *zap.Logger, signKey []byte, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		pb.ServerCodec(),
		grpc.ChainUnaryInterceptor(RecoverUnary(log), LoggingUnary(log), AuthUnary(signKey)),
	}, opts...)
	gs := grpc.NewServer(opts...)
	pb.RegisterVaultKeeperServer(gs, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return gs, hs
}

// --- Auth ---

// Register creates a new user account bound to a fresh owner identity.
func (s *Server) Register(ctx context.Context, req *pb.Credentials) (*pb.RegisterResponse, error) {
	if req.GetUsername() == "" || req.GetPassword() == "" {
		return nil, status.Error(codes.InvalidArgument, "empty username/password")
	}
	u, err := s.auth.Register(ctx, req.GetUsername(), req.GetPassword())
	if err != nil {
		return nil, authStatus("register", err)
	}
	return &pb.RegisterResponse{UserId: u.ID.String(), Owner: append([]byte(nil), u.Owner[:]...)}, nil
}

func peerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return ""
}

// remoteIP is the peer host without its port, so a reconnecting client keeps
// its limiter key.
func remoteIP(ctx context.Context) string {
	addr := peerAddr(ctx)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// Login authenticates a user and returns a bearer token.
func (s *Server) Login(ctx context.Context, req *pb.Credentials) (*pb.LoginResponse, error) {
	tok, u, err := s.auth.LoginWithIP(ctx, req.GetUsername(), req.GetPassword(), remoteIP(ctx))
	if err != nil {
		return nil, authStatus("login", err)
	}
	return &pb.LoginResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt.Unix(),
		Owner:       append([]byte(nil), u.Owner[:]...),
	}, nil
}

// --- Vault ---

func callerFromCtx(ctx context.Context) (model.Owner, error) {
	o, ok := OwnerFromCtx(ctx)
	if !ok {
		return model.Owner{}, status.Error(codes.Unauthenticated, "no auth")
	}
	return o, nil
}

// target resolves the optional owner field of a request; empty means the caller.
func target(raw []byte, caller model.Owner) (model.Owner, error) {
	o, err := convert.OwnerOrDefault(raw, caller)
	if err != nil {
		return model.Owner{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return o, nil
}

func vaultResponse(v *model.Vault) *pb.VaultResponse {
	return &pb.VaultResponse{Vault: convert.ToProtoVault(v)}
}

// InitializeVault creates the caller's vault. An empty master secret stores no hash.
func (s *Server) InitializeVault(ctx context.Context, req *pb.InitializeVaultRequest) (*pb.VaultResponse, error) {
	caller, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	var secret []byte
	if len(req.GetMasterSecret()) > 0 {
		secret = req.GetMasterSecret()
	}
	v, err := s.vaults.Initialize(ctx, caller, secret)
	if err != nil {
		return nil, vaultStatus("initialize", err)
	}
	return vaultResponse(v), nil
}

// AddEntry appends an entry to the target vault.
func (s *Server) AddEntry(ctx context.Context, req *pb.AddEntryRequest) (*pb.VaultResponse, error) {
	caller, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := target(req.GetOwner(), caller)
	if err != nil {
		return nil, err
	}
	e, err := convert.FromProtoEntry(req.GetEntry())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	v, err := s.vaults.AddEntry(ctx, caller, owner, e)
	if err != nil {
		return nil, vaultStatus("add entry", err)
	}
	return vaultResponse(v), nil
}

// UpdateEntry replaces one entry of the target vault.
func (s *Server) UpdateEntry(ctx context.Context, req *pb.UpdateEntryRequest) (*pb.VaultResponse, error) {
	caller, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := target(req.GetOwner(), caller)
	if err != nil {
		return nil, err
	}
	e, err := convert.FromProtoEntry(req.GetEntry())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	v, err := s.vaults.UpdateEntry(ctx, caller, owner, int(req.GetIndex()), e)
	if err != nil {
		return nil, vaultStatus("update entry", err)
	}
	return vaultResponse(v), nil
}

// DeleteEntry removes one entry of the target vault.
func (s *Server) DeleteEntry(ctx context.Context, req *pb.DeleteEntryRequest) (*pb.VaultResponse, error) {
	caller, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := target(req.GetOwner(), caller)
	if err != nil {
		return nil, err
	}
	v, err := s.vaults.DeleteEntry(ctx, caller, owner, int(req.GetIndex()))
	if err != nil {
		return nil, vaultStatus("delete entry", err)
	}
	return vaultResponse(v), nil
}

// GetVault returns the target vault; only its owner may read it.
func (s *Server) GetVault(ctx context.Context, req *pb.OwnerRequest) (*pb.VaultResponse, error) {
	caller, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := target(req.GetOwner(), caller)
	if err != nil {
		return nil, err
	}
	v, err := s.vaults.Get(ctx, caller, owner)
	if err != nil {
		return nil, vaultStatus("get vault", err)
	}
	return vaultResponse(v), nil
}

// VaultExists reports whether the target owner has a vault.
func (s *Server) VaultExists(ctx context.Context, req *pb.OwnerRequest) (*pb.VaultExistsResponse, error) {
	caller, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := target(req.GetOwner(), caller)
	if err != nil {
		return nil, err
	}
	ok, err := s.vaults.Exists(ctx, owner)
	if err != nil {
		return nil, vaultStatus("vault exists", err)
	}
	addr := vault.DeriveAddress(owner)
	return &pb.VaultExistsResponse{Exists: ok, Address: addr[:]}, nil
}

// GetLayout describes the layout new vaults are created with.
func (s *Server) GetLayout(context.Context, *pb.Empty) (*pb.Layout, error) {
	return convert.ToProtoLayout(s.vaults.Layout()), nil
}
