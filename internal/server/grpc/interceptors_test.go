package grpcserver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	pb "github.com/and161185/vault-keeper/internal/api/vaultv1"
)

type fakeAddr struct{}

func (fakeAddr) Network() string { return "tcp" }
func (fakeAddr) String() string  { return "127.0.0.1:12345" }

func TestLoggingUnary_LevelsAndFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ic := LoggingUnary(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: pb.VaultKeeper_AddEntry_FullMethodName}

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: fakeAddr{}})
	ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(requestIDKey, "req-1"))

	resp, err := ic(ctx, "req", info, func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", resp)

	refused := status.Error(codes.ResourceExhausted, "vault is full")
	_, err = ic(ctx, "req", info, func(context.Context, any) (any, error) { return nil, refused })
	require.ErrorIs(t, err, refused)

	boom := errors.New("boom")
	_, err = ic(ctx, "req", info, func(context.Context, any) (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	f := entries[0].ContextMap()
	require.Equal(t, pb.VaultKeeper_AddEntry_FullMethodName, f["method"])
	require.Equal(t, "OK", f["code"])
	require.Equal(t, "127.0.0.1:12345", f["peer"])
	require.Equal(t, "req-1", f["request_id"])
	require.Contains(t, f, "dur")
	require.Equal(t, "ResourceExhausted", entries[1].ContextMap()["code"])
	require.Equal(t, "Unknown", entries[2].ContextMap()["code"])
}

func TestLoggingUnary_NoRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ic := LoggingUnary(zap.New(core))
	_, err := ic(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(context.Context, any) (any, error) { return nil, nil })
	require.NoError(t, err)
	require.Len(t, logs.All(), 1)
	require.NotContains(t, logs.All()[0].ContextMap(), "request_id")
}

func TestRecoverUnary(t *testing.T) {
	t.Parallel()

	ic := RecoverUnary(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: pb.VaultKeeper_DeleteEntry_FullMethodName}

	_, err := ic(context.Background(), "req", info, func(context.Context, any) (any, error) {
		panic("oh no")
	})
	require.Equal(t, codes.Internal, status.Code(err))

	resp, err := ic(context.Background(), "req", info, func(context.Context, any) (any, error) { return 42, nil })
	require.NoError(t, err)
	require.Equal(t, 42, resp)
}
