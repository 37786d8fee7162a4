package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/repository"
	"github.com/and161185/vault-keeper/internal/repository/memory"
	"github.com/and161185/vault-keeper/internal/vault"
)

func testOwner(b byte) model.Owner {
	var o model.Owner
	for i := range o {
		o[i] = b
	}
	return o
}

func testEntry(title, user, secret string) model.Entry {
	return model.Entry{Title: []byte(title), Username: []byte(user), Secret: []byte(secret)}
}

func newVaultSvc(t *testing.T, l vault.Layout) (*VaultServiceImpl, *memory.VaultRepo) {
	t.Helper()
	repo := memory.NewVaultRepo()
	return NewVaultService(repo, l, zaptest.NewLogger(t)), repo
}

// storedImage returns the raw bytes kept for owner.
func storedImage(t *testing.T, repo repository.VaultRepository, owner model.Owner) []byte {
	t.Helper()
	rec, err := repo.Get(context.Background(), vault.DeriveAddress(owner))
	require.NoError(t, err)
	return rec.Data
}

func TestVault_InitializeOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, repo := newVaultSvc(t, vault.LayoutV3)
	a := testOwner(0xA)

	ok, err := s.Exists(ctx, a)
	require.NoError(t, err)
	require.False(t, ok)

	v, err := s.Initialize(ctx, a, []byte("hunter2"))
	require.NoError(t, err)
	require.Empty(t, v.Entries)
	require.True(t, vault.MatchesMaster(v, []byte("hunter2")))

	ok, err = s.Exists(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)

	rec, err := repo.Get(ctx, vault.DeriveAddress(a))
	require.NoError(t, err)
	require.Len(t, rec.Data, vault.LayoutV3.MaxSize())
	require.Equal(t, "v3", rec.Layout)
	require.Equal(t, a, rec.Owner)

	_, err = s.Initialize(ctx, a, []byte("other"))
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	got, err := s.Get(ctx, a, a)
	require.NoError(t, err)
	require.True(t, vault.MatchesMaster(got, []byte("hunter2")), "second init must not overwrite")
}

func TestVault_InitializeEmptySecretStoresNoHash(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, l := range []vault.Layout{vault.LayoutV1, vault.LayoutV3} {
		s, repo := newVaultSvc(t, l)
		a := testOwner(0xE)
		v, err := s.Initialize(ctx, a, []byte{})
		require.NoErrorf(t, err, "layout %s", l.Name)
		require.Nil(t, v.MasterHash)

		got, err := l.Decode(storedImage(t, repo, a))
		require.NoError(t, err)
		require.Nil(t, got.MasterHash)
	}
}

func TestVault_MutationsOnMissingVault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newVaultSvc(t, vault.LayoutV3)
	a := testOwner(1)

	_, err := s.AddEntry(ctx, a, a, testEntry("t", "u", "s"))
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.Get(ctx, a, a)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestVault_Scenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, repo := newVaultSvc(t, vault.LayoutV3)
	a, b := testOwner(0xA), testOwner(0xB)

	_, err := s.Initialize(ctx, a, []byte("hunter2"))
	require.NoError(t, err)

	_, err = s.AddEntry(ctx, a, a, testEntry("Mail", "a@x.com", "p1"))
	require.NoError(t, err)
	v, err := s.AddEntry(ctx, a, a, testEntry("Bank", "a", "p2"))
	require.NoError(t, err)
	require.Len(t, v.Entries, 2)

	v, err = s.UpdateEntry(ctx, a, a, 0, testEntry("Mail2", "a2", "p1b"))
	require.NoError(t, err)
	require.Equal(t, []model.Entry{testEntry("Mail2", "a2", "p1b"), testEntry("Bank", "a", "p2")}, v.Entries)

	v, err = s.DeleteEntry(ctx, a, a, 0)
	require.NoError(t, err)
	require.Equal(t, []model.Entry{testEntry("Bank", "a", "p2")}, v.Entries)

	before := storedImage(t, repo, a)
	_, err = s.AddEntry(ctx, b, a, testEntry("evil", "b", "p"))
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = s.Get(ctx, b, a)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.Equal(t, before, storedImage(t, repo, a))

	got, err := s.Get(ctx, a, a)
	require.NoError(t, err)
	require.Equal(t, v.Entries, got.Entries)
}

func TestVault_FailedMutationsKeepImage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, repo := newVaultSvc(t, vault.LayoutV1)
	a := testOwner(2)

	_, err := s.Initialize(ctx, a, nil)
	require.NoError(t, err)
	for i := 0; i < vault.LayoutV1.MaxEntries; i++ {
		_, err = s.AddEntry(ctx, a, a, testEntry("t", "u", "s"))
		require.NoError(t, err)
	}
	full := storedImage(t, repo, a)

	_, err = s.AddEntry(ctx, a, a, testEntry("t", "u", "s"))
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
	_, err = s.UpdateEntry(ctx, a, a, 0, testEntry("t", "u", strings.Repeat("s", 65)))
	require.ErrorIs(t, err, errs.ErrFieldTooLong)
	_, err = s.DeleteEntry(ctx, a, a, vault.LayoutV1.MaxEntries)
	require.ErrorIs(t, err, errs.ErrInvalidIndex)

	require.Equal(t, full, storedImage(t, repo, a))
}

func TestVault_OlderLayoutStillServed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := memory.NewVaultRepo()
	a := testOwner(3)

	_, err := NewVaultService(repo, vault.LayoutV1, nil).Initialize(ctx, a, nil)
	require.NoError(t, err)

	s := NewVaultService(repo, vault.LayoutV3, zaptest.NewLogger(t))
	v, err := s.AddEntry(ctx, a, a, testEntry("t", "u", "s"))
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	require.Equal(t, "v1", v.Layout)
	require.Len(t, storedImage(t, repo, a), vault.LayoutV1.MaxSize())
}

func TestVault_ConcurrentAddsSerialize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newVaultSvc(t, vault.LayoutV3)
	a := testOwner(4)
	_, err := s.Initialize(ctx, a, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddEntry(ctx, a, a, testEntry("t", "u", "s"))
		}()
	}
	wg.Wait()

	v, err := s.Get(ctx, a, a)
	require.NoError(t, err)
	require.Len(t, v.Entries, vault.LayoutV3.MaxEntries)
}

type corruptRepo struct {
	repository.VaultRepository
	rec *model.VaultRecord
}

func (r corruptRepo) Get(context.Context, model.Address) (*model.VaultRecord, error) {
	return r.rec, nil
}

func (r corruptRepo) Update(_ context.Context, _ model.Address, fn repository.MutateFunc) error {
	_, err := fn(r.rec)
	return err
}

func TestVault_CorruptRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := testOwner(5)
	good, err := vault.LayoutV3.Encode(&model.Vault{Owner: a})
	require.NoError(t, err)

	cases := map[string]*model.VaultRecord{
		"unknown layout": {Owner: a, Layout: "v9", Data: good},
		"bad image":      {Owner: a, Layout: "v3", Data: make([]byte, len(good))},
		"owner mismatch": {Owner: testOwner(6), Layout: "v3", Data: good},
	}
	for name, rec := range cases {
		s := NewVaultService(corruptRepo{rec: rec}, vault.LayoutV3, zaptest.NewLogger(t))
		_, err := s.Get(ctx, a, a)
		require.ErrorIsf(t, err, errs.ErrCorrupt, "get: %s", name)
		_, err = s.AddEntry(ctx, a, a, testEntry("t", "u", "s"))
		require.ErrorIsf(t, err, errs.ErrCorrupt, "add: %s", name)
	}
}

type failingRepo struct {
	repository.VaultRepository
	err error
}

func (r failingRepo) Get(context.Context, model.Address) (*model.VaultRecord, error) {
	return nil, r.err
}

func TestVault_ExistsPropagatesStoreErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	s := NewVaultService(failingRepo{err: boom}, vault.LayoutV3, nil)
	_, err := s.Exists(context.Background(), testOwner(7))
	require.ErrorIs(t, err, boom)
}
