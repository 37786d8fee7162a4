package clientcrypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/and161185/vault-keeper/internal/model"
)

func TestCheckMasterStrength(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"Sup3rSecretPass":   true,
		"short1A":           false,
		"alllowercase123":   false,
		"ALLUPPERCASE123":   false,
		"NoDigitsHereAtAll": false,
		"Ünïcödé1secretX":   true,
	}
	for in, ok := range cases {
		err := CheckMasterStrength(in)
		if ok && err != nil {
			t.Fatalf("%q: unexpected err %v", in, err)
		}
		if !ok && !errors.Is(err, ErrWeakMaster) {
			t.Fatalf("%q: want ErrWeakMaster, got %v", in, err)
		}
	}
}

func TestSealOpenField(t *testing.T) {
	t.Parallel()

	var owner, other model.Owner
	owner[0], other[0] = 1, 2
	key := DeriveFieldKey([]byte("Sup3rSecretPass"), owner)
	if len(key) != KeyLen {
		t.Fatalf("key len=%d", len(key))
	}

	pt := []byte("p@ss")
	sealed, err := SealField(key, owner, "secret", pt)
	if err != nil {
		t.Fatalf("SealField: %v", err)
	}
	if len(sealed) != len(pt)+SealOverhead {
		t.Fatalf("sealed len=%d", len(sealed))
	}

	got, err := OpenField(key, owner, "secret", sealed)
	if err != nil || !bytes.Equal(got, pt) {
		t.Fatalf("OpenField: %q %v", got, err)
	}
	if _, err := OpenField(key, other, "secret", sealed); err == nil {
		t.Fatalf("want AAD mismatch on foreign owner")
	}
	if _, err := OpenField(key, owner, "title", sealed); err == nil {
		t.Fatalf("want AAD mismatch on other label")
	}
	if _, err := OpenField(key, owner, "secret", sealed[:10]); err == nil {
		t.Fatalf("want error on short input")
	}
	if bytes.Equal(DeriveFieldKey([]byte("Sup3rSecretPass"), other), key) {
		t.Fatalf("key must depend on owner")
	}
}

func TestMaxSealedPlaintext(t *testing.T) {
	t.Parallel()

	if got := MaxSealedPlaintext(64); got != 24 {
		t.Fatalf("64-byte cap leaves %d, want 24", got)
	}
	if got := MaxSealedPlaintext(10); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
}
