package grpcserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "github.com/and161185/vault-keeper/internal/api/vaultv1"
	"github.com/and161185/vault-keeper/internal/model"
)

// publicMethods are callable without a bearer token.
var publicMethods = map[string]bool{
	pb.VaultKeeper_Register_FullMethodName:  true,
	pb.VaultKeeper_Login_FullMethodName:     true,
	pb.VaultKeeper_GetLayout_FullMethodName: true,
}

// AuthUnary verifies the bearer token on every VaultKeeper method except the
// public ones and stores the token's owner in the context. Other services
// (health) pass through.
func AuthUnary(signKey []byte) grpc.UnaryServerInterceptor {
	prefix := "/" + pb.ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) || publicMethods[info.FullMethod] {
			return next(ctx, req)
		}
		owner, err := ownerFromToken(ctx, signKey)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return next(WithOwner(ctx, owner), req)
	}
}

// ownerFromToken extracts "authorization: Bearer <JWT>", verifies HS256 and
// returns the subject as an owner identity.
func ownerFromToken(ctx context.Context, signKey []byte) (model.Owner, error) {
	tok, err := bearerTokenFromMD(ctx)
	if err != nil {
		return model.Owner{}, err
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return signKey, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return model.Owner{}, errors.New("invalid token")
	}

	owner, err := model.ParseOwner(claims.Subject)
	if err != nil || owner.IsZero() {
		return model.Owner{}, errors.New("bad subject")
	}
	return owner, nil
}

func bearerTokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
			if t := strings.TrimSpace(v[7:]); t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("no bearer token")
}
