// Package memory contains in-process repository implementations: a
// mutex-guarded map keyed by vault address. Used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
)

// VaultRepo keeps vault images in memory. A single mutex serializes every
// mutation, which is the per-vault exclusivity the service relies on.
type VaultRepo struct {
	mu     sync.Mutex
	vaults map[model.Address]*model.VaultRecord
}

var _ repository.VaultRepository = (*VaultRepo)(nil)

// NewVaultRepo constructs an empty store.
func NewVaultRepo() *VaultRepo {
	return &VaultRepo{vaults: make(map[model.Address]*model.VaultRecord)}
}

// Create stores rec if the address is free.
func (r *VaultRepo) Create(ctx context.Context, rec *model.VaultRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vaults[rec.Address]; ok {
		return errs.ErrAlreadyExists
	}
	cp := copyRecord(rec)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.vaults[rec.Address] = cp
	return nil
}

// Get returns a copy of the stored record.
func (r *VaultRepo) Get(ctx context.Context, addr model.Address) (*model.VaultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.vaults[addr]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return copyRecord(rec), nil
}

// Update runs fn under the store lock and swaps in the new image on success.
func (r *VaultRepo) Update(ctx context.Context, addr model.Address, fn repository.MutateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.vaults[addr]
	if !ok {
		return errs.ErrNotFound
	}
	data, err := fn(copyRecord(rec))
	if err != nil {
		return err
	}
	if len(data) != len(rec.Data) {
		return fmt.Errorf("update: record resize %d -> %d refused", len(rec.Data), len(data))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.Data = append([]byte(nil), data...)
	rec.UpdatedAt = time.Now()
	return nil
}

func copyRecord(rec *model.VaultRecord) *model.VaultRecord {
	cp := *rec
	cp.Data = append([]byte(nil), rec.Data...)
	return &cp
}

// UserRepo keeps accounts in memory.
type UserRepo struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*model.User
	byName map[string]uuid.UUID
}

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs an empty user store.
func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[uuid.UUID]*model.User), byName: make(map[string]uuid.UUID)}
}

// Create inserts u unless the username or owner is taken.
func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return errs.ErrAlreadyExists
	}
	for _, existing := range r.byID {
		if existing.Owner == u.Owner || existing.ID == u.ID {
			return errs.ErrAlreadyExists
		}
	}
	cp := *u
	cp.CreatedAt = time.Now()
	r.byID[u.ID] = &cp
	r.byName[u.Username] = u.ID
	return nil
}

// GetByID loads a user by ID.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByUsername loads a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byName[username]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.ErrNotFound
	}
	return r.GetByID(ctx, id)
}
