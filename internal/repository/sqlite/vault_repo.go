package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
)

// VaultRepo implements VaultRepository on SQLite.
type VaultRepo struct{ db *DB }

var _ repository.VaultRepository = (*VaultRepo)(nil)

// NewVaultRepo constructs a vault repository.
func NewVaultRepo(db *DB) *VaultRepo { return &VaultRepo{db: db} }

// Create inserts the record if its address is free.
func (r *VaultRepo) Create(ctx context.Context, rec *model.VaultRecord) error {
	const q = `
INSERT INTO vaults (address, owner, layout, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`
	ts := now()
	_, err := r.db.SQL.ExecContext(ctx, q, rec.Address[:], rec.Owner[:], rec.Layout, rec.Data, ts, ts)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Get loads a record by address.
func (r *VaultRepo) Get(ctx context.Context, addr model.Address) (*model.VaultRecord, error) {
	return getVault(ctx, r.db.SQL, addr)
}

// Update applies fn inside a transaction; the single connection pool keeps it exclusive.
func (r *VaultRepo) Update(ctx context.Context, addr model.Address, fn repository.MutateFunc) (err error) {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			err = e
		}
	}()

	rec, err := getVault(ctx, tx, addr)
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
	const upd = `UPDATE vaults SET data=?, updated_at=? WHERE address=?`
	_, err = tx.ExecContext(ctx, upd, data, now(), addr[:])
	return err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getVault(ctx context.Context, q queryRower, addr model.Address) (*model.VaultRecord, error) {
	const sel = `SELECT owner, layout, data, created_at, updated_at FROM vaults WHERE address=?`
	var (
		owner            []byte
		created, updated string
		rec              = &model.VaultRecord{Address: addr}
	)
	if err := q.QueryRowContext(ctx, sel, addr[:]).Scan(&owner, &rec.Layout, &rec.Data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	o, err := model.OwnerFromBytes(owner)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrCorrupt)
	}
	rec.Owner = o
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return rec, nil
}
