package vault

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
)

// discriminator tags every record image: SHA-256("account:PasswordVault")[:8].
var discriminator = func() [HeaderSize]byte {
	sum := sha256.Sum256([]byte("account:PasswordVault"))
	var d [HeaderSize]byte
	copy(d[:], sum[:HeaderSize])
	return d
}()

// NewBuffer allocates a zeroed record image of exactly MaxSize bytes.
func (l Layout) NewBuffer() []byte { return make([]byte, l.MaxSize()) }

// Encode serializes v into a fresh MaxSize buffer.
func (l Layout) Encode(v *model.Vault) ([]byte, error) {
	buf := l.NewBuffer()
	if err := l.EncodeInto(buf, v); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto serializes v into a caller-supplied buffer of exactly MaxSize
// bytes. Unused capacity is zero-filled. buf is left untouched on error.
//
// Layout: [discriminator:8][owner:32][master_hash:32 if WithMasterHash]
// [count:u32 LE] then per entry [len:u32 LE][title][len][username][len][secret].
func (l Layout) EncodeInto(buf []byte, v *model.Vault) error {
	if len(buf) != l.MaxSize() {
		return fmt.Errorf("encode: buffer is %d bytes, layout %s needs %d", len(buf), l.Name, l.MaxSize())
	}
	if len(v.Entries) > l.MaxEntries {
		return fmt.Errorf("encode: %d entries: %w", len(v.Entries), errs.ErrCapacityExceeded)
	}
	for i := range v.Entries {
		if err := l.CheckEntry(v.Entries[i]); err != nil {
			return fmt.Errorf("encode: entry[%d]: %w", i, err)
		}
	}
	if len(v.MasterHash) != 0 && (!l.WithMasterHash || len(v.MasterHash) != MasterHashSize) {
		return fmt.Errorf("encode: master hash of %d bytes not storable in layout %s", len(v.MasterHash), l.Name)
	}

	clear(buf)
	off := copy(buf, discriminator[:])
	off += copy(buf[off:], v.Owner[:])
	if l.WithMasterHash {
		copy(buf[off:], v.MasterHash)
		off += MasterHashSize
	}
	binary.LittleEndian.PutUint32(buf[off:], uint32(len(v.Entries)))
	off += LengthPrefixSize
	for _, e := range v.Entries {
		off = putBytes(buf, off, e.Title)
		off = putBytes(buf, off, e.Username)
		off = putBytes(buf, off, e.Secret)
	}
	return nil
}

func putBytes(buf []byte, off int, b []byte) int {
	binary.LittleEndian.PutUint32(buf[off:], uint32(len(b)))
	off += LengthPrefixSize
	return off + copy(buf[off:], b)
}

// Decode parses a record image. Anything that could not have been produced
// by EncodeInto for this layout is reported as errs.ErrCorrupt.
func (l Layout) Decode(buf []byte) (*model.Vault, error) {
	if len(buf) != l.MaxSize() {
		return nil, fmt.Errorf("decode: size %d, want %d: %w", len(buf), l.MaxSize(), errs.ErrCorrupt)
	}
	if !bytes.Equal(buf[:HeaderSize], discriminator[:]) {
		return nil, fmt.Errorf("decode: bad discriminator: %w", errs.ErrCorrupt)
	}
	off := HeaderSize

	v := &model.Vault{Layout: l.Name}
	off += copy(v.Owner[:], buf[off:off+OwnerSize])
	if l.WithMasterHash {
		h := buf[off : off+MasterHashSize]
		if !isZero(h) {
			v.MasterHash = append([]byte(nil), h...)
		}
		off += MasterHashSize
	}

	count := int(binary.LittleEndian.Uint32(buf[off:]))
	off += LengthPrefixSize
	if count > l.MaxEntries {
		return nil, fmt.Errorf("decode: %d entries over limit %d: %w", count, l.MaxEntries, errs.ErrCorrupt)
	}

	v.Entries = make([]model.Entry, count, l.MaxEntries)
	var err error
	for i := 0; i < count; i++ {
		e := &v.Entries[i]
		if e.Title, off, err = readBytes(buf, off, l.MaxTitle); err != nil {
			return nil, fmt.Errorf("decode: entry[%d] title: %w", i, err)
		}
		if e.Username, off, err = readBytes(buf, off, l.MaxUsername); err != nil {
			return nil, fmt.Errorf("decode: entry[%d] username: %w", i, err)
		}
		if e.Secret, off, err = readBytes(buf, off, l.MaxSecret); err != nil {
			return nil, fmt.Errorf("decode: entry[%d] secret: %w", i, err)
		}
	}
	if !isZero(buf[off:]) {
		return nil, fmt.Errorf("decode: non-zero trailing capacity: %w", errs.ErrCorrupt)
	}
	return v, nil
}

func readBytes(buf []byte, off, limit int) ([]byte, int, error) {
	n := int(binary.LittleEndian.Uint32(buf[off:]))
	off += LengthPrefixSize
	if n > limit {
		return nil, 0, fmt.Errorf("length %d over cap %d: %w", n, limit, errs.ErrCorrupt)
	}
	return append([]byte(nil), buf[off:off+n]...), off + n, nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
