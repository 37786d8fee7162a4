package grpcserver

import (
	"context"

	"github.com/and161185/vault-keeper/internal/model"
)

type ctxKey string

const ownerKey ctxKey = "vk.owner"

// WithOwner stores the authenticated owner identity in context.
func WithOwner(ctx context.Context, o model.Owner) context.Context {
	return context.WithValue(ctx, ownerKey, o)
}

// OwnerFromCtx fetches the owner identity from context.
func OwnerFromCtx(ctx context.Context) (model.Owner, bool) {
	o, ok := ctx.Value(ownerKey).(model.Owner)
	return o, ok && !o.IsZero()
}
