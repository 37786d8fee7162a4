// Package model defines domain entities used by services and repositories.
package model

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

// OwnerSize is the byte length of an owner identity.
const OwnerSize = 32

// Owner is an opaque fixed-length identity (public-key sized). It both
// authorizes mutation and determines where the owner's vault lives.
type Owner [OwnerSize]byte

// String returns the lowercase hex form used in tokens and on the CLI.
func (o Owner) String() string { return hex.EncodeToString(o[:]) }

// IsZero reports whether the identity is unset.
func (o Owner) IsZero() bool { return o == Owner{} }

// ParseOwner decodes a 64-char hex identity.
func ParseOwner(s string) (Owner, error) {
	var o Owner
	b, err := hex.DecodeString(s)
	if err != nil {
		return o, fmt.Errorf("owner: %w", err)
	}
	return OwnerFromBytes(b)
}

// OwnerFromBytes copies a raw 32-byte identity.
func OwnerFromBytes(b []byte) (Owner, error) {
	var o Owner
	if len(b) != OwnerSize {
		return o, fmt.Errorf("owner: want %d bytes, got %d", OwnerSize, len(b))
	}
	copy(o[:], b)
	return o, nil
}

// Address is the deterministic storage key of a vault.
type Address [32]byte

func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Entry is one credential triple. Fields are opaque bounded byte strings.
type Entry struct {
	Title    []byte
	Username []byte
	Secret   []byte
}

// Clone returns a deep copy.
func (e Entry) Clone() Entry {
	return Entry{
		Title:    append([]byte(nil), e.Title...),
		Username: append([]byte(nil), e.Username...),
		Secret:   append([]byte(nil), e.Secret...),
	}
}

// Vault is the single per-owner record.
type Vault struct {
	Owner      Owner
	MasterHash []byte  // nil when the layout stores no hash or none was supplied
	Entries    []Entry // insertion ordered, contiguous indices
	Layout     string  // name of the layout the vault is stored under
}

// VaultRecord is a vault as persisted by a repository: a fixed-size byte image
// plus the columns needed to find and validate it.
type VaultRecord struct {
	Address   Address
	Owner     Owner
	Layout    string // layout name the image was encoded with
	Data      []byte // exactly Layout.MaxSize() bytes
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents an account stored on the server. The password is kept only as an Argon2id hash.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	Owner     Owner     // vault identity bound to this account
	CreatedAt time.Time
}
