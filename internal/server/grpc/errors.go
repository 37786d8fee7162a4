package grpcserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/vault-keeper/internal/errs"
)

// vaultStatus maps a vault service error to a gRPC status. The message keeps
// the wrapped context (index, caps) and never any entry contents.
func vaultStatus(op string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, "caller does not own this vault")
	case errors.Is(err, errs.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "vault already exists")
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, "vault not found")
	case errors.Is(err, errs.ErrInvalidIndex):
		code = codes.OutOfRange
	case errors.Is(err, errs.ErrCapacityExceeded):
		code = codes.ResourceExhausted
	case errors.Is(err, errs.ErrFieldTooLong):
		code = codes.InvalidArgument
	case errors.Is(err, errs.ErrCorrupt):
		return status.Error(codes.DataLoss, "stored vault is corrupt")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, op+": canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, op+": deadline exceeded")
	case strings.HasPrefix(err.Error(), "validation:"):
		code = codes.InvalidArgument
	default:
		return status.Errorf(codes.Internal, "%s failed", op)
	}
	return status.Errorf(code, "%s: %v", op, err)
}

// authStatus maps account errors. Login failures never reveal whether the
// username exists.
func authStatus(op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "bad credentials")
	case errors.Is(err, errs.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, "rate limited")
	case errors.Is(err, errs.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "username taken")
	case strings.HasPrefix(err.Error(), "validation:"):
		return status.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	default:
		return status.Errorf(codes.Internal, "%s failed", op)
	}
}
