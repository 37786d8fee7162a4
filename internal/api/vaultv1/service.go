package vaultv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "vaultkeeper.v1.VaultKeeper"

const (
	VaultKeeper_InitializeVault_FullMethodName = "/vaultkeeper.v1.VaultKeeper/InitializeVault"
	VaultKeeper_AddEntry_FullMethodName        = "/vaultkeeper.v1.VaultKeeper/AddEntry"
	VaultKeeper_UpdateEntry_FullMethodName     = "/vaultkeeper.v1.VaultKeeper/UpdateEntry"
	VaultKeeper_DeleteEntry_FullMethodName     = "/vaultkeeper.v1.VaultKeeper/DeleteEntry"
	VaultKeeper_GetVault_FullMethodName        = "/vaultkeeper.v1.VaultKeeper/GetVault"
	VaultKeeper_VaultExists_FullMethodName     = "/vaultkeeper.v1.VaultKeeper/VaultExists"
	VaultKeeper_GetLayout_FullMethodName       = "/vaultkeeper.v1.VaultKeeper/GetLayout"
	VaultKeeper_Register_FullMethodName        = "/vaultkeeper.v1.VaultKeeper/Register"
	VaultKeeper_Login_FullMethodName           = "/vaultkeeper.v1.VaultKeeper/Login"
)

// VaultKeeperClient is the client API for the VaultKeeper service.
type VaultKeeperClient interface {
	InitializeVault(ctx context.Context, in *InitializeVaultRequest, opts ...grpc.CallOption) (*VaultResponse, error)
	AddEntry(ctx context.Context, in *AddEntryRequest, opts ...grpc.CallOption) (*VaultResponse, error)
	UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*VaultResponse, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*VaultResponse, error)
	GetVault(ctx context.Context, in *OwnerRequest, opts ...grpc.CallOption) (*VaultResponse, error)
	VaultExists(ctx context.Context, in *OwnerRequest, opts ...grpc.CallOption) (*VaultExistsResponse, error)
	GetLayout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Layout, error)
	Register(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*LoginResponse, error)
}

type vaultKeeperClient struct {
	cc grpc.ClientConnInterface
}

// NewVaultKeeperClient wraps cc. Calls always use Codec, whatever the
// connection's defaults.
func NewVaultKeeperClient(cc grpc.ClientConnInterface) VaultKeeperClient {
	return &vaultKeeperClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in Message, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *vaultKeeperClient) InitializeVault(ctx context.Context, in *InitializeVaultRequest, opts ...grpc.CallOption) (*VaultResponse, error) {
	return invoke[VaultResponse](ctx, c.cc, VaultKeeper_InitializeVault_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) AddEntry(ctx context.Context, in *AddEntryRequest, opts ...grpc.CallOption) (*VaultResponse, error) {
	return invoke[VaultResponse](ctx, c.cc, VaultKeeper_AddEntry_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*VaultResponse, error) {
	return invoke[VaultResponse](ctx, c.cc, VaultKeeper_UpdateEntry_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*VaultResponse, error) {
	return invoke[VaultResponse](ctx, c.cc, VaultKeeper_DeleteEntry_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) GetVault(ctx context.Context, in *OwnerRequest, opts ...grpc.CallOption) (*VaultResponse, error) {
	return invoke[VaultResponse](ctx, c.cc, VaultKeeper_GetVault_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) VaultExists(ctx context.Context, in *OwnerRequest, opts ...grpc.CallOption) (*VaultExistsResponse, error) {
	return invoke[VaultExistsResponse](ctx, c.cc, VaultKeeper_VaultExists_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) GetLayout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Layout, error) {
	return invoke[Layout](ctx, c.cc, VaultKeeper_GetLayout_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) Register(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, VaultKeeper_Register_FullMethodName, in, opts)
}

func (c *vaultKeeperClient) Login(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, VaultKeeper_Login_FullMethodName, in, opts)
}

// VaultKeeperServer is the server API for the VaultKeeper service.
// Implementations must embed UnimplementedVaultKeeperServer.
type VaultKeeperServer interface {
	InitializeVault(context.Context, *InitializeVaultRequest) (*VaultResponse, error)
	AddEntry(context.Context, *AddEntryRequest) (*VaultResponse, error)
	UpdateEntry(context.Context, *UpdateEntryRequest) (*VaultResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*VaultResponse, error)
	GetVault(context.Context, *OwnerRequest) (*VaultResponse, error)
	VaultExists(context.Context, *OwnerRequest) (*VaultExistsResponse, error)
	GetLayout(context.Context, *Empty) (*Layout, error)
	Register(context.Context, *Credentials) (*RegisterResponse, error)
	Login(context.Context, *Credentials) (*LoginResponse, error)
	mustEmbedUnimplementedVaultKeeperServer()
}

// UnimplementedVaultKeeperServer answers codes.Unimplemented for every method.
type UnimplementedVaultKeeperServer struct{}

func (UnimplementedVaultKeeperServer) InitializeVault(context.Context, *InitializeVaultRequest) (*VaultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InitializeVault not implemented")
}
func (UnimplementedVaultKeeperServer) AddEntry(context.Context, *AddEntryRequest) (*VaultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddEntry not implemented")
}
func (UnimplementedVaultKeeperServer) UpdateEntry(context.Context, *UpdateEntryRequest) (*VaultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEntry not implemented")
}
func (UnimplementedVaultKeeperServer) DeleteEntry(context.Context, *DeleteEntryRequest) (*VaultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEntry not implemented")
}
func (UnimplementedVaultKeeperServer) GetVault(context.Context, *OwnerRequest) (*VaultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetVault not implemented")
}
func (UnimplementedVaultKeeperServer) VaultExists(context.Context, *OwnerRequest) (*VaultExistsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VaultExists not implemented")
}
func (UnimplementedVaultKeeperServer) GetLayout(context.Context, *Empty) (*Layout, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLayout not implemented")
}
func (UnimplementedVaultKeeperServer) Register(context.Context, *Credentials) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedVaultKeeperServer) Login(context.Context, *Credentials) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedVaultKeeperServer) mustEmbedUnimplementedVaultKeeperServer() {}

// RegisterVaultKeeperServer registers srv on s. The server must be built
// with ServerCodec.
func RegisterVaultKeeperServer(s grpc.ServiceRegistrar, srv VaultKeeperServer) {
	s.RegisterService(&VaultKeeper_ServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req any, PReq interface {
	*Req
	Message
}, Resp any](fullMethod string, call func(VaultKeeperServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VaultKeeperServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VaultKeeperServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VaultKeeper_ServiceDesc is the grpc.ServiceDesc for the VaultKeeper service.
var VaultKeeper_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "InitializeVault", Handler: unary(VaultKeeper_InitializeVault_FullMethodName, VaultKeeperServer.InitializeVault)},
		{MethodName: "AddEntry", Handler: unary(VaultKeeper_AddEntry_FullMethodName, VaultKeeperServer.AddEntry)},
		{MethodName: "UpdateEntry", Handler: unary(VaultKeeper_UpdateEntry_FullMethodName, VaultKeeperServer.UpdateEntry)},
		{MethodName: "DeleteEntry", Handler: unary(VaultKeeper_DeleteEntry_FullMethodName, VaultKeeperServer.DeleteEntry)},
		{MethodName: "GetVault", Handler: unary(VaultKeeper_GetVault_FullMethodName, VaultKeeperServer.GetVault)},
		{MethodName: "VaultExists", Handler: unary(VaultKeeper_VaultExists_FullMethodName, VaultKeeperServer.VaultExists)},
		{MethodName: "GetLayout", Handler: unary(VaultKeeper_GetLayout_FullMethodName, VaultKeeperServer.GetLayout)},
		{MethodName: "Register", Handler: unary(VaultKeeper_Register_FullMethodName, VaultKeeperServer.Register)},
		{MethodName: "Login", Handler: unary(VaultKeeper_Login_FullMethodName, VaultKeeperServer.Login)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vaultkeeper/v1/vault.proto",
}
