package vault

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
)

// HashMaster returns the one-way digest stored as master_hash.
func HashMaster(secret []byte) []byte {
	sum := sha256.Sum256(secret)
	return sum[:]
}

// MatchesMaster reports whether secret hashes to v's stored master hash.
// It gates nothing on the server; clients use it to confirm a typed secret.
func MatchesMaster(v *model.Vault, secret []byte) bool {
	if len(v.MasterHash) != MasterHashSize {
		return false
	}
	return subtle.ConstantTimeCompare(HashMaster(secret), v.MasterHash) == 1
}

// Initialize builds the Active state of a new vault. An empty masterSecret
// leaves master_hash zeroed; a layout without a master hash refuses a secret rather
// than dropping it. Uniqueness per owner is the repository's create-if-absent job.
func (l Layout) Initialize(owner model.Owner, masterSecret []byte) (*model.Vault, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("validation: empty owner")
	}
	v := &model.Vault{
		Owner:   owner,
		Entries: make([]model.Entry, 0, l.MaxEntries),
		Layout:  l.Name,
	}
	if len(masterSecret) > 0 {
		if !l.WithMasterHash {
			return nil, fmt.Errorf("validation: layout %s stores no master hash", l.Name)
		}
		v.MasterHash = HashMaster(masterSecret)
	}
	return v, nil
}

// Authorize is the explicit ownership guard run by every mutation.
func Authorize(caller model.Owner, v *model.Vault) error {
	if subtle.ConstantTimeCompare(caller[:], v.Owner[:]) != 1 {
		return errs.ErrUnauthorized
	}
	return nil
}

// AddEntry appends e to the end of the entry list.
func (l Layout) AddEntry(caller model.Owner, v *model.Vault, e model.Entry) (*model.Vault, error) {
	if err := Authorize(caller, v); err != nil {
		return nil, err
	}
	if len(v.Entries) >= l.MaxEntries {
		return nil, fmt.Errorf("add: vault holds %d/%d entries: %w", len(v.Entries), l.MaxEntries, errs.ErrCapacityExceeded)
	}
	if err := l.CheckEntry(e); err != nil {
		return nil, err
	}
	next := l.clone(v)
	next.Entries = append(next.Entries, e.Clone())
	return next, nil
}

// UpdateEntry rewrites all three fields of entries[index] together.
func (l Layout) UpdateEntry(caller model.Owner, v *model.Vault, index int, e model.Entry) (*model.Vault, error) {
	if err := Authorize(caller, v); err != nil {
		return nil, err
	}
	if err := checkIndex(v, index); err != nil {
		return nil, err
	}
	if err := l.CheckEntry(e); err != nil {
		return nil, err
	}
	next := l.clone(v)
	next.Entries[index] = e.Clone()
	return next, nil
}

// DeleteEntry removes entries[index]; later entries shift down by one.
func (l Layout) DeleteEntry(caller model.Owner, v *model.Vault, index int) (*model.Vault, error) {
	if err := Authorize(caller, v); err != nil {
		return nil, err
	}
	if err := checkIndex(v, index); err != nil {
		return nil, err
	}
	next := l.clone(v)
	copy(next.Entries[index:], next.Entries[index+1:])
	next.Entries[len(next.Entries)-1] = model.Entry{}
	next.Entries = next.Entries[:len(next.Entries)-1]
	return next, nil
}

func checkIndex(v *model.Vault, index int) error {
	if index < 0 || index >= len(v.Entries) {
		return fmt.Errorf("index %d of %d entries: %w", index, len(v.Entries), errs.ErrInvalidIndex)
	}
	return nil
}

func checkField(name string, b []byte, limit int) error {
	if len(b) > limit {
		return fmt.Errorf("%s is %d bytes, cap %d: %w", name, len(b), limit, errs.ErrFieldTooLong)
	}
	return nil
}

// clone deep-copies v into a backing array of fixed capacity MaxEntries so
// the input vault stays untouched whatever happens next.
func (l Layout) clone(v *model.Vault) *model.Vault {
	out := &model.Vault{
		Owner:   v.Owner,
		Entries: make([]model.Entry, len(v.Entries), max(l.MaxEntries, len(v.Entries))),
		Layout:  l.Name,
	}
	if v.MasterHash != nil {
		out.MasterHash = append([]byte(nil), v.MasterHash...)
	}
	for i := range v.Entries {
		out.Entries[i] = v.Entries[i].Clone()
	}
	return out
}
