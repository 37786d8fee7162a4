package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
)

// VaultRepo implements VaultRepository using PostgreSQL.
type VaultRepo struct{ db *DB }

var _ repository.VaultRepository = (*VaultRepo)(nil)

// NewVaultRepo constructs a vault repository.
func NewVaultRepo(db *DB) *VaultRepo { return &VaultRepo{db: db} }

// Create inserts the record; the primary key on address makes it create-if-absent.
func (r *VaultRepo) Create(ctx context.Context, rec *model.VaultRecord) error {
	const q = `INSERT INTO vaults (address, owner, layout, data) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, rec.Address[:], rec.Owner[:], rec.Layout, rec.Data)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Get loads a record by address.
func (r *VaultRepo) Get(ctx context.Context, addr model.Address) (*model.VaultRecord, error) {
	const q = `
SELECT owner, layout, data, created_at, updated_at
FROM vaults WHERE address=$1`
	return scanVault(r.db.Pool.QueryRow(ctx, q, addr[:]), addr)
}

// Update locks the row (FOR UPDATE), applies fn and writes back in one transaction.
func (r *VaultRepo) Update(ctx context.Context, addr model.Address, fn repository.MutateFunc) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `
SELECT owner, layout, data, created_at, updated_at
FROM vaults WHERE address=$1 FOR UPDATE`
	const upd = `UPDATE vaults SET data=$2, updated_at=now() WHERE address=$1`

	rec, err := scanVault(tx.QueryRow(ctx, sel, addr[:]), addr)
	if err != nil {
		return err
	}
	data, err := fn(rec)
	if err != nil {
		return err
	}
	if len(data) != len(rec.Data) {
		return fmt.Errorf("update: record resize %d -> %d refused", len(rec.Data), len(data))
	}
	_, err = tx.Exec(ctx, upd, addr[:], data)
	return err
}

func scanVault(row pgx.Row, addr model.Address) (*model.VaultRecord, error) {
	var owner []byte
	rec := &model.VaultRecord{Address: addr}
	if err := row.Scan(&owner, &rec.Layout, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	o, err := model.OwnerFromBytes(owner)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrCorrupt)
	}
	rec.Owner = o
	return rec, nil
}
