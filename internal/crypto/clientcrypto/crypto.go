// Package clientcrypto contains client-side helpers: the master secret policy
// and optional sealing of entry fields before they are submitted. The server
// never sees the key and stores sealed fields as opaque bytes.
package clientcrypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/and161185/vault-keeper/internal/model"
)

// Params
const (
	KeyLen = 32

	// SealOverhead is what sealing adds to a field: nonce plus tag.
	SealOverhead = chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

	MinMasterLength = 12

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// ErrWeakMaster is returned by CheckMasterStrength.
var ErrWeakMaster = errors.New("master secret too weak")

// CheckMasterStrength requires at least 12 characters with an upper-case
// letter, a lower-case letter and a digit.
func CheckMasterStrength(secret string) error {
	var upper, lower, digit bool
	n := 0
	for _, r := range secret {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case n < MinMasterLength:
		return fmt.Errorf("%w: need at least %d characters", ErrWeakMaster, MinMasterLength)
	case !upper:
		return fmt.Errorf("%w: need an upper-case letter", ErrWeakMaster)
	case !lower:
		return fmt.Errorf("%w: need a lower-case letter", ErrWeakMaster)
	case !digit:
		return fmt.Errorf("%w: need a digit", ErrWeakMaster)
	}
	return nil
}

// DeriveFieldKey derives the sealing key from the master secret, salted by the owner identity.
func DeriveFieldKey(master []byte, owner model.Owner) []byte {
	return argon2.IDKey(master, owner[:], argonTime, argonMemory, argonThreads, KeyLen)
}

// MaxSealedPlaintext is the longest plaintext that still fits a field of capacity bytes once sealed.
func MaxSealedPlaintext(capacity int) int {
	return max(capacity-SealOverhead, 0)
}

// SealField encrypts plaintext with XChaCha20-Poly1305, binding it to owner and label via AAD.
// Output is nonce||ciphertext.
func SealField(key []byte, owner model.Owner, label string, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, aad(owner, label)), nil
}

// OpenField reverses SealField.
func OpenField(key []byte, owner model.Owner, label string, sealed []byte) ([]byte, error) {
	if len(sealed) < SealOverhead {
		return nil, errors.New("sealed field too short")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := sealed[:chacha20poly1305.NonceSizeX]
	return aead.Open(nil, nonce, sealed[chacha20poly1305.NonceSizeX:], aad(owner, label))
}

func aad(owner model.Owner, label string) []byte {
	out := make([]byte, 0, len(owner)+len(label))
	out = append(out, owner[:]...)
	return append(out, label...)
}
