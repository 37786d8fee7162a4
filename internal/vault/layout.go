// Package vault implements the vault record model: deterministic addressing,
// the fixed-size persisted layout and the owner-gated entry state machine.
//
// Every vault occupies exactly Layout.MaxSize() bytes from the moment it is
// created. Operations never grow the record: adds past MaxEntries fail with
// errs.ErrCapacityExceeded and oversized fields fail with errs.ErrFieldTooLong
// before anything is changed.
package vault

import (
	"fmt"

	"github.com/and161185/vault-keeper/internal/model"
)

// Fixed sizes of the persisted layout.
const (
	HeaderSize       = 8 // record discriminator
	OwnerSize        = model.OwnerSize
	MasterHashSize   = 32
	LengthPrefixSize = 4 // u32 before every variable field and before the entry list

	MaxTitleLength    = 32
	MaxUsernameLength = 32
	MaxSecretLength   = 64
)

// Layout fixes the capacity of a vault and therefore its byte budget.
type Layout struct {
	Name           string
	MaxEntries     int
	MaxTitle       int
	MaxUsername    int
	MaxSecret      int
	WithMasterHash bool
}

// Known layouts. V3 is the default.
var (
	LayoutV1 = Layout{Name: "v1", MaxEntries: 5, MaxTitle: MaxTitleLength, MaxUsername: MaxUsernameLength, MaxSecret: MaxSecretLength}
	LayoutV2 = Layout{Name: "v2", MaxEntries: 5, MaxTitle: MaxTitleLength, MaxUsername: MaxUsernameLength, MaxSecret: MaxSecretLength, WithMasterHash: true}
	LayoutV3 = Layout{Name: "v3", MaxEntries: 15, MaxTitle: MaxTitleLength, MaxUsername: MaxUsernameLength, MaxSecret: MaxSecretLength, WithMasterHash: true}

	DefaultLayout = LayoutV3
)

// LayoutByName resolves "v1", "v2" or "v3".
func LayoutByName(name string) (Layout, error) {
	switch name {
	case LayoutV1.Name:
		return LayoutV1, nil
	case LayoutV2.Name:
		return LayoutV2, nil
	case LayoutV3.Name:
		return LayoutV3, nil
	}
	return Layout{}, fmt.Errorf("unknown layout %q", name)
}

// ComputeMaxSize returns the serialized size of a full vault: header, owner,
// optional master hash, entry count and maxEntries entries at maximum field length.
func ComputeMaxSize(maxEntries, maxTitle, maxUsername, maxSecret int, withMasterHash bool) int {
	size := HeaderSize + OwnerSize + LengthPrefixSize
	if withMasterHash {
		size += MasterHashSize
	}
	return size + maxEntries*entrySize(maxTitle, maxUsername, maxSecret)
}

func entrySize(maxTitle, maxUsername, maxSecret int) int {
	return (LengthPrefixSize + maxTitle) + (LengthPrefixSize + maxUsername) + (LengthPrefixSize + maxSecret)
}

// EntrySize is the worst-case encoded size of one entry.
func (l Layout) EntrySize() int { return entrySize(l.MaxTitle, l.MaxUsername, l.MaxSecret) }

// MaxSize is the fixed allocation of every vault in this layout.
func (l Layout) MaxSize() int {
	return ComputeMaxSize(l.MaxEntries, l.MaxTitle, l.MaxUsername, l.MaxSecret, l.WithMasterHash)
}

// CheckEntry rejects any field over its cap. Nothing is ever truncated.
func (l Layout) CheckEntry(e model.Entry) error {
	if err := checkField("title", e.Title, l.MaxTitle); err != nil {
		return err
	}
	if err := checkField("username", e.Username, l.MaxUsername); err != nil {
		return err
	}
	return checkField("secret", e.Secret, l.MaxSecret)
}
