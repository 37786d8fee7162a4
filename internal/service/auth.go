// Package service contains application services for accounts and vaults.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/and161185/vault-keeper/internal/crypto"
	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/limiter"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
)

// AuthService defines account registration and login.
type AuthService interface {
	// Register creates a new user bound to a fresh owner identity.
	Register(ctx context.Context, username, password string) (model.User, error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, username, password string, ip string) (tokens model.Tokens, user model.User, err error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	log       *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim, log: log}
}

// Register creates a new user record with a per-user salt and owner identity.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, errors.New("validation: empty username/password")
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	saltAuth, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return model.User{}, err
	}
	owner, err := pkgcrypto.NewOwner()
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		ID:       uid,
		Username: username,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), saltAuth),
		SaltAuth: saltAuth,
		Owner:    owner,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.User{}, fmt.Errorf("user %q: %w", username, err)
		}
		return model.User{}, err
	}
	s.log.Info("user registered", zap.String("user_id", uid.String()))
	return u, nil
}

// LoginWithIP authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if blocked, wait, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			s.log.Warn("login blocked", zap.Duration("retry_after", wait))
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// unknown user and wrong password look the same
		return model.Tokens{}, model.User{}, errs.ErrUnauthorized
	}

	// best-effort
	_ = s.lim.Success(ctx, username, ipHash)

	access, exp, err := s.issueAccessToken(u.Owner)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// issueAccessToken creates a signed HS256 JWT whose subject is the hex owner identity.
func (s *AuthServiceImpl) issueAccessToken(owner model.Owner) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   owner.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}
