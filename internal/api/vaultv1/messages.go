// Package vaultv1 holds the wire types and gRPC bindings of the
// vaultkeeper.v1.VaultKeeper service (see api/proto/vaultkeeper/v1/vault.proto).
// Messages use the protobuf binary encoding via protowire.
package vaultv1

// Entry is one credential triple.
type Entry struct {
	Title    []byte
	Username []byte
	Secret   []byte
}

func (m *Entry) MarshalWire() []byte {
	var b []byte
	b = appendBytes(b, 1, m.Title)
	b = appendBytes(b, 2, m.Username)
	b = appendBytes(b, 3, m.Secret)
	return b
}

func (m *Entry) UnmarshalWire(b []byte) (err error) {
	*m = Entry{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Title, err = f.bytes()
		case 2:
			m.Username, err = f.bytes()
		case 3:
			m.Secret, err = f.bytes()
		}
		return err
	})
}

// Vault is the decoded state of one record.
type Vault struct {
	Owner      []byte
	MasterHash []byte
	Entries    []*Entry
	Layout     string
	Address    []byte
}

func (m *Vault) GetOwner() []byte {
	if m == nil {
		return nil
	}
	return m.Owner
}

func (m *Vault) GetMasterHash() []byte {
	if m == nil {
		return nil
	}
	return m.MasterHash
}

func (m *Vault) GetEntries() []*Entry {
	if m == nil {
		return nil
	}
	return m.Entries
}

func (m *Vault) MarshalWire() []byte {
	var b []byte
	b = appendBytes(b, 1, m.Owner)
	b = appendBytes(b, 2, m.MasterHash)
	for _, e := range m.Entries {
		b = appendMessage(b, 3, e)
	}
	b = appendString(b, 4, m.Layout)
	b = appendBytes(b, 5, m.Address)
	return b
}

func (m *Vault) UnmarshalWire(b []byte) (err error) {
	*m = Vault{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Owner, err = f.bytes()
		case 2:
			m.MasterHash, err = f.bytes()
		case 3:
			e := &Entry{}
			if err = f.message(e); err == nil {
				m.Entries = append(m.Entries, e)
			}
		case 4:
			m.Layout, err = f.string()
		case 5:
			m.Address, err = f.bytes()
		}
		return err
	})
}

// VaultResponse carries the vault state after a call.
type VaultResponse struct {
	Vault *Vault
}

func (m *VaultResponse) GetVault() *Vault {
	if m == nil {
		return nil
	}
	return m.Vault
}

func (m *VaultResponse) MarshalWire() []byte {
	if m.Vault == nil {
		return nil
	}
	return appendMessage(nil, 1, m.Vault)
}

func (m *VaultResponse) UnmarshalWire(b []byte) (err error) {
	*m = VaultResponse{}
	return walk(b, func(f *field) error {
		if f.num == 1 {
			m.Vault = &Vault{}
			err = f.message(m.Vault)
		}
		return err
	})
}

// InitializeVaultRequest creates the caller's vault. An empty master secret
// leaves the stored hash zeroed.
type InitializeVaultRequest struct {
	MasterSecret []byte
}

func (m *InitializeVaultRequest) GetMasterSecret() []byte {
	if m == nil {
		return nil
	}
	return m.MasterSecret
}

func (m *InitializeVaultRequest) MarshalWire() []byte {
	return appendBytes(nil, 1, m.MasterSecret)
}

func (m *InitializeVaultRequest) UnmarshalWire(b []byte) (err error) {
	*m = InitializeVaultRequest{}
	return walk(b, func(f *field) error {
		if f.num == 1 {
			m.MasterSecret, err = f.bytes()
		}
		return err
	})
}

// AddEntryRequest appends Entry to Owner's vault. An empty Owner targets the caller's own.
type AddEntryRequest struct {
	Owner []byte
	Entry *Entry
}

func (m *AddEntryRequest) GetOwner() []byte {
	if m == nil {
		return nil
	}
	return m.Owner
}

func (m *AddEntryRequest) GetEntry() *Entry {
	if m == nil {
		return nil
	}
	return m.Entry
}

func (m *AddEntryRequest) MarshalWire() []byte {
	b := appendBytes(nil, 1, m.Owner)
	if m.Entry != nil {
		b = appendMessage(b, 2, m.Entry)
	}
	return b
}

func (m *AddEntryRequest) UnmarshalWire(b []byte) (err error) {
	*m = AddEntryRequest{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Owner, err = f.bytes()
		case 2:
			m.Entry = &Entry{}
			err = f.message(m.Entry)
		}
		return err
	})
}

// UpdateEntryRequest replaces entries[Index] of Owner's vault.
type UpdateEntryRequest struct {
	Owner []byte
	Index uint32
	Entry *Entry
}

func (m *UpdateEntryRequest) GetOwner() []byte {
	if m == nil {
		return nil
	}
	return m.Owner
}

func (m *UpdateEntryRequest) GetIndex() uint32 {
	if m == nil {
		return 0
	}
	return m.Index
}

func (m *UpdateEntryRequest) GetEntry() *Entry {
	if m == nil {
		return nil
	}
	return m.Entry
}

func (m *UpdateEntryRequest) MarshalWire() []byte {
	b := appendBytes(nil, 1, m.Owner)
	b = appendVarint(b, 2, uint64(m.Index))
	if m.Entry != nil {
		b = appendMessage(b, 3, m.Entry)
	}
	return b
}

func (m *UpdateEntryRequest) UnmarshalWire(b []byte) (err error) {
	*m = UpdateEntryRequest{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Owner, err = f.bytes()
		case 2:
			var v uint64
			v, err = f.varint()
			m.Index = uint32(v)
		case 3:
			m.Entry = &Entry{}
			err = f.message(m.Entry)
		}
		return err
	})
}

// DeleteEntryRequest removes entries[Index] of Owner's vault.
type DeleteEntryRequest struct {
	Owner []byte
	Index uint32
}

func (m *DeleteEntryRequest) GetOwner() []byte {
	if m == nil {
		return nil
	}
	return m.Owner
}

func (m *DeleteEntryRequest) GetIndex() uint32 {
	if m == nil {
		return 0
	}
	return m.Index
}

func (m *DeleteEntryRequest) MarshalWire() []byte {
	b := appendBytes(nil, 1, m.Owner)
	return appendVarint(b, 2, uint64(m.Index))
}

func (m *DeleteEntryRequest) UnmarshalWire(b []byte) (err error) {
	*m = DeleteEntryRequest{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Owner, err = f.bytes()
		case 2:
			var v uint64
			v, err = f.varint()
			m.Index = uint32(v)
		}
		return err
	})
}

// OwnerRequest names a vault by owner; used by GetVault and VaultExists.
type OwnerRequest struct {
	Owner []byte
}

func (m *OwnerRequest) GetOwner() []byte {
	if m == nil {
		return nil
	}
	return m.Owner
}

func (m *OwnerRequest) MarshalWire() []byte { return appendBytes(nil, 1, m.Owner) }

func (m *OwnerRequest) UnmarshalWire(b []byte) (err error) {
	*m = OwnerRequest{}
	return walk(b, func(f *field) error {
		if f.num == 1 {
			m.Owner, err = f.bytes()
		}
		return err
	})
}

// VaultExistsResponse reports whether a vault lives at Address.
type VaultExistsResponse struct {
	Exists  bool
	Address []byte
}

func (m *VaultExistsResponse) GetExists() bool {
	if m == nil {
		return false
	}
	return m.Exists
}

func (m *VaultExistsResponse) MarshalWire() []byte {
	b := appendBool(nil, 1, m.Exists)
	return appendBytes(b, 2, m.Address)
}

func (m *VaultExistsResponse) UnmarshalWire(b []byte) (err error) {
	*m = VaultExistsResponse{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			var v uint64
			v, err = f.varint()
			m.Exists = v != 0
		case 2:
			m.Address, err = f.bytes()
		}
		return err
	})
}

// Empty has no fields.
type Empty struct{}

func (*Empty) MarshalWire() []byte { return nil }

func (m *Empty) UnmarshalWire(b []byte) error {
	return walk(b, func(*field) error { return nil })
}

// Layout describes the record geometry new vaults are created with.
type Layout struct {
	Name           string
	MaxEntries     uint32
	MaxTitle       uint32
	MaxUsername    uint32
	MaxSecret      uint32
	WithMasterHash bool
	MaxSize        uint32
}

func (m *Layout) MarshalWire() []byte {
	b := appendString(nil, 1, m.Name)
	b = appendVarint(b, 2, uint64(m.MaxEntries))
	b = appendVarint(b, 3, uint64(m.MaxTitle))
	b = appendVarint(b, 4, uint64(m.MaxUsername))
	b = appendVarint(b, 5, uint64(m.MaxSecret))
	b = appendBool(b, 6, m.WithMasterHash)
	return appendVarint(b, 7, uint64(m.MaxSize))
}

func (m *Layout) UnmarshalWire(b []byte) (err error) {
	*m = Layout{}
	return walk(b, func(f *field) error {
		var v uint64
		switch f.num {
		case 1:
			m.Name, err = f.string()
			return err
		case 2, 3, 4, 5, 6, 7:
			if v, err = f.varint(); err != nil {
				return err
			}
		default:
			return nil
		}
		switch f.num {
		case 2:
			m.MaxEntries = uint32(v)
		case 3:
			m.MaxTitle = uint32(v)
		case 4:
			m.MaxUsername = uint32(v)
		case 5:
			m.MaxSecret = uint32(v)
		case 6:
			m.WithMasterHash = v != 0
		case 7:
			m.MaxSize = uint32(v)
		}
		return nil
	})
}

// Credentials is the body of Register and Login.
type Credentials struct {
	Username string
	Password string
}

func (m *Credentials) GetUsername() string {
	if m == nil {
		return ""
	}
	return m.Username
}

func (m *Credentials) GetPassword() string {
	if m == nil {
		return ""
	}
	return m.Password
}

func (m *Credentials) MarshalWire() []byte {
	b := appendString(nil, 1, m.Username)
	return appendString(b, 2, m.Password)
}

func (m *Credentials) UnmarshalWire(b []byte) (err error) {
	*m = Credentials{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Username, err = f.string()
		case 2:
			m.Password, err = f.string()
		}
		return err
	})
}

// RegisterResponse returns the new account and its owner identity.
type RegisterResponse struct {
	UserId string
	Owner  []byte
}

func (m *RegisterResponse) MarshalWire() []byte {
	b := appendString(nil, 1, m.UserId)
	return appendBytes(b, 2, m.Owner)
}

func (m *RegisterResponse) UnmarshalWire(b []byte) (err error) {
	*m = RegisterResponse{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.UserId, err = f.string()
		case 2:
			m.Owner, err = f.bytes()
		}
		return err
	})
}

// LoginResponse carries the bearer token for subsequent calls.
type LoginResponse struct {
	AccessToken string
	ExpiresAt   int64 // unix seconds
	Owner       []byte
}

func (m *LoginResponse) GetAccessToken() string {
	if m == nil {
		return ""
	}
	return m.AccessToken
}

func (m *LoginResponse) MarshalWire() []byte {
	b := appendString(nil, 1, m.AccessToken)
	b = appendVarint(b, 2, uint64(m.ExpiresAt))
	return appendBytes(b, 3, m.Owner)
}

func (m *LoginResponse) UnmarshalWire(b []byte) (err error) {
	*m = LoginResponse{}
	return walk(b, func(f *field) error {
		switch f.num {
		case 1:
			m.AccessToken, err = f.string()
		case 2:
			var v uint64
			v, err = f.varint()
			m.ExpiresAt = int64(v)
		case 3:
			m.Owner, err = f.bytes()
		}
		return err
	})
}
