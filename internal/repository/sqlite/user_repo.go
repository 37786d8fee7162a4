package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
)

// UserRepo implements UserRepository on SQLite.
type UserRepo struct{ db *DB }

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, pwd_hash, salt_auth, owner, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.SQL.ExecContext(ctx, q, u.ID.String(), u.Username, u.PwdHash, u.SaltAuth, u.Owner[:], now())
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT id, username, pwd_hash, salt_auth, owner, created_at FROM users WHERE id=?`
	return scanUser(r.db.SQL.QueryRowContext(ctx, q, id.String()))
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, pwd_hash, salt_auth, owner, created_at FROM users WHERE username=?`
	return scanUser(r.db.SQL.QueryRowContext(ctx, q, username))
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u           model.User
		id, created string
		owner       []byte
	)
	if err := row.Scan(&id, &u.Username, &u.PwdHash, &u.SaltAuth, &owner, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	var err error
	if u.ID, err = uuid.FromString(id); err != nil {
		return nil, err
	}
	if u.Owner, err = model.OwnerFromBytes(owner); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &u, nil
}
