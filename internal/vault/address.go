package vault

import (
	"crypto/sha256"

	"github.com/and161185/vault-keeper/internal/model"
)

const (
	addressNamespace = "vault-keeper/v1"
	addressSeed      = "vault"
)

// DeriveAddress maps an owner to the storage key of its single vault.
// Same owner, same address; distinct owners collide only if SHA-256 does.
func DeriveAddress(owner model.Owner) model.Address {
	h := sha256.New()
	h.Write([]byte(addressNamespace))
	h.Write([]byte(addressSeed))
	h.Write(owner[:])
	var a model.Address
	copy(a[:], h.Sum(nil))
	return a
}
