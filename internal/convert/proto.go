// Package convert maps domain types to and from vaultv1 wire messages.
package convert

import (
	"fmt"

	pb "github.com/and161185/vault-keeper/internal/api/vaultv1"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/vault"
)

// --- Entry ---

// ToProtoEntry wraps a domain entry.
func ToProtoEntry(e model.Entry) *pb.Entry {
	return &pb.Entry{Title: e.Title, Username: e.Username, Secret: e.Secret}
}

// FromProtoEntry unwraps an entry; nil input is rejected.
func FromProtoEntry(in *pb.Entry) (model.Entry, error) {
	if in == nil {
		return model.Entry{}, fmt.Errorf("validation: missing entry")
	}
	return model.Entry{Title: in.Title, Username: in.Username, Secret: in.Secret}, nil
}

// --- Vault ---

// ToProtoVault converts a decoded vault.
func ToProtoVault(v *model.Vault) *pb.Vault {
	addr := vault.DeriveAddress(v.Owner)
	out := &pb.Vault{
		Owner:      append([]byte(nil), v.Owner[:]...),
		MasterHash: v.MasterHash,
		Entries:    make([]*pb.Entry, 0, len(v.Entries)),
		Layout:     v.Layout,
		Address:    addr[:],
	}
	for _, e := range v.Entries {
		out.Entries = append(out.Entries, ToProtoEntry(e))
	}
	return out
}

// FromProtoVault is the client-side inverse of ToProtoVault.
func FromProtoVault(in *pb.Vault) (*model.Vault, error) {
	if in == nil {
		return nil, fmt.Errorf("missing vault")
	}
	owner, err := model.OwnerFromBytes(in.Owner)
	if err != nil {
		return nil, err
	}
	v := &model.Vault{Owner: owner, Entries: make([]model.Entry, 0, len(in.Entries)), Layout: in.Layout}
	if len(in.MasterHash) > 0 {
		v.MasterHash = in.MasterHash
	}
	for i, e := range in.Entries {
		me, err := FromProtoEntry(e)
		if err != nil {
			return nil, fmt.Errorf("entry[%d]: %w", i, err)
		}
		v.Entries = append(v.Entries, me)
	}
	return v, nil
}

// --- Owner ---

// OwnerOrDefault parses an optional owner field; empty means def.
func OwnerOrDefault(b []byte, def model.Owner) (model.Owner, error) {
	if len(b) == 0 {
		return def, nil
	}
	o, err := model.OwnerFromBytes(b)
	if err != nil {
		return model.Owner{}, fmt.Errorf("validation: %w", err)
	}
	return o, nil
}

// --- Layout ---

// ToProtoLayout describes l.
func ToProtoLayout(l vault.Layout) *pb.Layout {
	return &pb.Layout{
		Name:           l.Name,
		MaxEntries:     uint32(l.MaxEntries),
		MaxTitle:       uint32(l.MaxTitle),
		MaxUsername:    uint32(l.MaxUsername),
		MaxSecret:      uint32(l.MaxSecret),
		WithMasterHash: l.WithMasterHash,
		MaxSize:        uint32(l.MaxSize()),
	}
}
