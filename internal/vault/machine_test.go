package vault

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/vault-keeper/internal/errs"
	"github.com/and161185/vault-keeper/internal/model"
)

func titles(v *model.Vault) []string {
	out := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		out = append(out, string(e.Title))
	}
	return out
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	a := owner(0xA1)
	v, err := LayoutV3.Initialize(a, []byte("hunter2"))
	require.NoError(t, err)
	require.Equal(t, a, v.Owner)
	require.Equal(t, "v3", v.Layout)
	require.Empty(t, v.Entries)
	require.Equal(t, HashMaster([]byte("hunter2")), v.MasterHash)
	require.True(t, MatchesMaster(v, []byte("hunter2")))
	require.False(t, MatchesMaster(v, []byte("hunter3")))

	v, err = LayoutV3.Initialize(a, nil)
	require.NoError(t, err)
	require.Nil(t, v.MasterHash)
	require.False(t, MatchesMaster(v, nil))

	v, err = LayoutV3.Initialize(a, []byte{})
	require.NoError(t, err)
	require.Nil(t, v.MasterHash, "an empty secret stores no hash")

	_, err = LayoutV1.Initialize(a, []byte("hunter2"))
	require.Error(t, err)
	v, err = LayoutV1.Initialize(a, nil)
	require.NoError(t, err)
	require.Nil(t, v.MasterHash)
	v, err = LayoutV1.Initialize(a, []byte{})
	require.NoError(t, err)
	require.Nil(t, v.MasterHash)

	_, err = LayoutV3.Initialize(model.Owner{}, nil)
	require.Error(t, err)
}

func TestAddEntry_CapacityBoundary(t *testing.T) {
	t.Parallel()

	for _, l := range []Layout{LayoutV1, LayoutV2, LayoutV3} {
		t.Run(l.Name, func(t *testing.T) {
			a := owner(1)
			v, err := l.Initialize(a, nil)
			require.NoError(t, err)
			for i := 0; i < l.MaxEntries; i++ {
				v, err = l.AddEntry(a, v, entry(fmt.Sprintf("t%d", i), "u", "s"))
				require.NoError(t, err)
				require.Len(t, v.Entries, i+1)
			}
			full := v
			_, err = l.AddEntry(a, v, entry("one-too-many", "u", "s"))
			require.ErrorIs(t, err, errs.ErrCapacityExceeded)
			require.Len(t, full.Entries, l.MaxEntries)

			buf, err := l.Encode(full)
			require.NoError(t, err)
			require.Len(t, buf, l.MaxSize())
		})
	}
}

func TestAddEntry_FieldTooLongDoesNotMutate(t *testing.T) {
	t.Parallel()

	l := LayoutV3
	a := owner(2)
	v, _ := l.Initialize(a, nil)
	v, _ = l.AddEntry(a, v, entry("keep", "u", "s"))

	_, err := l.AddEntry(a, v, entry("x", "u", strings.Repeat("s", 65)))
	require.ErrorIs(t, err, errs.ErrFieldTooLong)
	require.Equal(t, []string{"keep"}, titles(v))

	_, err = l.UpdateEntry(a, v, 0, entry(strings.Repeat("t", 33), "u", "s"))
	require.ErrorIs(t, err, errs.ErrFieldTooLong)
	require.Equal(t, []string{"keep"}, titles(v))
}

func TestUpdateEntry_IndexBounds(t *testing.T) {
	t.Parallel()

	l := LayoutV3
	a := owner(3)
	v, _ := l.Initialize(a, nil)
	v, _ = l.AddEntry(a, v, entry("a", "u", "s"))
	v, _ = l.AddEntry(a, v, entry("b", "u", "s"))

	_, err := l.UpdateEntry(a, v, len(v.Entries), entry("c", "u", "s"))
	require.ErrorIs(t, err, errs.ErrInvalidIndex)
	_, err = l.UpdateEntry(a, v, -1, entry("c", "u", "s"))
	require.ErrorIs(t, err, errs.ErrInvalidIndex)

	next, err := l.UpdateEntry(a, v, len(v.Entries)-1, entry("c", "u2", "s2"))
	require.NoError(t, err)
	require.Len(t, next.Entries, 2)
	require.Equal(t, []string{"a", "c"}, titles(next))
	require.Equal(t, "u2", string(next.Entries[1].Username))
	require.Equal(t, "s2", string(next.Entries[1].Secret))
	require.Equal(t, []string{"a", "b"}, titles(v), "input vault must stay intact")
}

func TestDeleteEntry_PreservesOrder(t *testing.T) {
	t.Parallel()

	l := LayoutV3
	a := owner(4)
	for n := 2; n <= l.MaxEntries; n++ {
		for i := 0; i < n; i++ {
			v, _ := l.Initialize(a, nil)
			var want []string
			for k := 0; k < n; k++ {
				title := fmt.Sprintf("e%02d", k)
				v, _ = l.AddEntry(a, v, entry(title, "u", "s"))
				if k != i {
					want = append(want, title)
				}
			}
			next, err := l.DeleteEntry(a, v, i)
			require.NoError(t, err)
			require.Equalf(t, want, titles(next), "n=%d i=%d", n, i)
			require.Len(t, v.Entries, n)
		}
	}

	v, _ := l.Initialize(a, nil)
	_, err := l.DeleteEntry(a, v, 0)
	require.ErrorIs(t, err, errs.ErrInvalidIndex)
}

func TestMutations_ForeignCallerLeavesVaultUnchanged(t *testing.T) {
	t.Parallel()

	l := LayoutV3
	a, b := owner(0xA), owner(0xB)
	v, _ := l.Initialize(a, []byte("hunter2"))
	v, _ = l.AddEntry(a, v, entry("Mail", "a@x.com", "p1"))
	before, err := l.Encode(v)
	require.NoError(t, err)

	_, err = l.AddEntry(b, v, entry("x", "y", "z"))
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = l.UpdateEntry(b, v, 0, entry("x", "y", "z"))
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = l.DeleteEntry(b, v, 0)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	// ownership is checked before bounds
	_, err = l.DeleteEntry(b, v, 99)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	after, err := l.Encode(v)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestScenario_EndToEnd(t *testing.T) {
	t.Parallel()

	l := LayoutV3
	a, b := owner(0xA), owner(0xB)

	v, err := l.Initialize(a, []byte("hunter2"))
	require.NoError(t, err)
	require.Empty(t, v.Entries)

	v, err = l.AddEntry(a, v, entry("Mail", "a@x.com", "p1"))
	require.NoError(t, err)
	v, err = l.AddEntry(a, v, entry("Bank", "a", "p2"))
	require.NoError(t, err)
	require.Equal(t, []string{"Mail", "Bank"}, titles(v))

	v, err = l.UpdateEntry(a, v, 0, entry("Mail2", "a2", "p1b"))
	require.NoError(t, err)
	require.Equal(t, entry("Mail2", "a2", "p1b"), v.Entries[0])
	require.Equal(t, entry("Bank", "a", "p2"), v.Entries[1])

	v, err = l.DeleteEntry(a, v, 0)
	require.NoError(t, err)
	require.Equal(t, []model.Entry{entry("Bank", "a", "p2")}, v.Entries)

	_, err = l.AddEntry(b, v, entry("evil", "b", "p"))
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	buf, err := l.Encode(v)
	require.NoError(t, err)
	got, err := l.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, v.Entries, got.Entries)
	require.True(t, MatchesMaster(got, []byte("hunter2")))
}
