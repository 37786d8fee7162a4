package repository

import (
	"context"

	"github.com/and161185/vault-keeper/internal/model"
)

// MutateFunc receives the locked record and returns its new image. Returning
// an error aborts the transaction and leaves the stored record unchanged.
type MutateFunc func(rec *model.VaultRecord) ([]byte, error)

// VaultRepository stores fixed-size vault images keyed by derived address.
type VaultRepository interface {
	// Create inserts a new record only if the address is free (errs.ErrAlreadyExists otherwise).
	Create(ctx context.Context, rec *model.VaultRecord) error

	// Get loads a record by address (errs.ErrNotFound when absent).
	Get(ctx context.Context, addr model.Address) (*model.VaultRecord, error)

	// Update locks the record, applies fn and persists the returned image atomically.
	// The image must keep its size; a resize is rejected.
	Update(ctx context.Context, addr model.Address, fn MutateFunc) error
}
