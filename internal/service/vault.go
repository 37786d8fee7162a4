package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
	"github.com/and161185/vault-keeper/internal/vault"
)

// VaultService defines the vault lifecycle over a fixed-size record store.
type VaultService interface {
	// Initialize creates owner's vault once; a second call fails with errs.ErrAlreadyExists.
	Initialize(ctx context.Context, owner model.Owner, masterSecret []byte) (*model.Vault, error)
	// AddEntry appends an entry to owner's vault on behalf of caller.
	AddEntry(ctx context.Context, caller, owner model.Owner, e model.Entry) (*model.Vault, error)
	// UpdateEntry replaces entries[index] of owner's vault.
	UpdateEntry(ctx context.Context, caller, owner model.Owner, index int, e model.Entry) (*model.Vault, error)
	// DeleteEntry removes entries[index] of owner's vault, keeping the order of the rest.
	DeleteEntry(ctx context.Context, caller, owner model.Owner, index int) (*model.Vault, error)
	// Get returns owner's vault; only the owner may read it.
	Get(ctx context.Context, caller, owner model.Owner) (*model.Vault, error)
	// Exists reports whether owner has a vault.
	Exists(ctx context.Context, owner model.Owner) (bool, error)
	// Layout is the layout new vaults are created with.
	Layout() vault.Layout
}

type VaultServiceImpl struct {
	repo   repository.VaultRepository
	layout vault.Layout
	log    *zap.Logger
}

// NewVaultService constructs VaultService creating new vaults with layout l.
func NewVaultService(repo repository.VaultRepository, l vault.Layout, log *zap.Logger) *VaultServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &VaultServiceImpl{repo: repo, layout: l, log: log}
}

func (s *VaultServiceImpl) Layout() vault.Layout { return s.layout }

// Initialize encodes an empty vault and stores it at the owner's derived address.
func (s *VaultServiceImpl) Initialize(ctx context.Context, owner model.Owner, masterSecret []byte) (*model.Vault, error) {
	v, err := s.layout.Initialize(owner, masterSecret)
	if err != nil {
		return nil, err
	}
	data, err := s.layout.Encode(v)
	if err != nil {
		return nil, err
	}
	addr := vault.DeriveAddress(owner)
	now := time.Now().UTC()
	rec := &model.VaultRecord{
		Address:   addr,
		Owner:     owner,
		Layout:    s.layout.Name,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, fmt.Errorf("vault %s: %w", addr, err)
		}
		return nil, err
	}
	s.log.Info("vault created", zap.Stringer("address", addr), zap.String("layout", s.layout.Name))
	return v, nil
}

func (s *VaultServiceImpl) AddEntry(ctx context.Context, caller, owner model.Owner, e model.Entry) (*model.Vault, error) {
	return s.mutate(ctx, "entry added", owner, func(l vault.Layout, v *model.Vault) (*model.Vault, error) {
		return l.AddEntry(caller, v, e)
	})
}

func (s *VaultServiceImpl) UpdateEntry(ctx context.Context, caller, owner model.Owner, index int, e model.Entry) (*model.Vault, error) {
	return s.mutate(ctx, "entry updated", owner, func(l vault.Layout, v *model.Vault) (*model.Vault, error) {
		return l.UpdateEntry(caller, v, index, e)
	})
}

func (s *VaultServiceImpl) DeleteEntry(ctx context.Context, caller, owner model.Owner, index int) (*model.Vault, error) {
	return s.mutate(ctx, "entry deleted", owner, func(l vault.Layout, v *model.Vault) (*model.Vault, error) {
		return l.DeleteEntry(caller, v, index)
	})
}

// mutate runs one transition inside the repository's locked update. The
// stored image changes only when the transition and its encoding succeed.
func (s *VaultServiceImpl) mutate(ctx context.Context, event string, owner model.Owner,
	step func(vault.Layout, *model.Vault) (*model.Vault, error)) (*model.Vault, error) {

	addr := vault.DeriveAddress(owner)
	var next *model.Vault
	err := s.repo.Update(ctx, addr, func(rec *model.VaultRecord) ([]byte, error) {
		l, cur, err := decodeRecord(rec)
		if err != nil {
			return nil, err
		}
		if next, err = step(l, cur); err != nil {
			return nil, err
		}
		return l.Encode(next)
	})
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			s.log.Warn("vault mutation denied", zap.Stringer("address", addr))
		}
		return nil, err
	}
	s.log.Info(event, zap.Stringer("address", addr), zap.Int("entries", len(next.Entries)))
	return next, nil
}

func (s *VaultServiceImpl) Get(ctx context.Context, caller, owner model.Owner) (*model.Vault, error) {
	addr := vault.DeriveAddress(owner)
	rec, err := s.repo.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	_, v, err := decodeRecord(rec)
	if err != nil {
		return nil, err
	}
	if err := vault.Authorize(caller, v); err != nil {
		s.log.Warn("vault read denied", zap.Stringer("address", addr))
		return nil, err
	}
	return v, nil
}

func (s *VaultServiceImpl) Exists(ctx context.Context, owner model.Owner) (bool, error) {
	_, err := s.repo.Get(ctx, vault.DeriveAddress(owner))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errs.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// decodeRecord parses a record with the layout it was written with, so vaults
// created under an older layout keep working after the default changes.
func decodeRecord(rec *model.VaultRecord) (vault.Layout, *model.Vault, error) {
	l, err := vault.LayoutByName(rec.Layout)
	if err != nil {
		return vault.Layout{}, nil, fmt.Errorf("record %s: %v: %w", rec.Address, err, errs.ErrCorrupt)
	}
	v, err := l.Decode(rec.Data)
	if err != nil {
		return vault.Layout{}, nil, fmt.Errorf("record %s: %w", rec.Address, err)
	}
	if v.Owner != rec.Owner {
		return vault.Layout{}, nil, fmt.Errorf("record %s: owner column disagrees with image: %w", rec.Address, errs.ErrCorrupt)
	}
	return l, v, nil
}
