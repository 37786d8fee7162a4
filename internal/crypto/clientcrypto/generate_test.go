package clientcrypto

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_ClassesAndLength(t *testing.T) {
	t.Parallel()

	all := Charset{Lower: true, Upper: true, Digits: true, Symbols: true}
	for i := 0; i < 50; i++ {
		pw, err := GeneratePassword(8, all)
		require.NoError(t, err)
		require.Len(t, pw, 8)
		require.True(t, strings.ContainsAny(pw, LowerChars), pw)
		require.True(t, strings.ContainsAny(pw, UpperChars), pw)
		require.True(t, strings.ContainsAny(pw, DigitChars), pw)
		require.True(t, strings.ContainsAny(pw, SymbolChars), pw)
	}

	pw, err := GeneratePassword(64, Charset{Digits: true})
	require.NoError(t, err)
	require.Len(t, pw, 64)
	require.Empty(t, strings.Trim(pw, DigitChars))

	pw, err = GeneratePassword(DefaultPasswordLength, DefaultCharset)
	require.NoError(t, err)
	require.False(t, strings.ContainsAny(pw, SymbolChars))
	require.NoError(t, CheckMasterStrength(pw))

	// shorter than the number of classes
	pw, err = GeneratePassword(2, all)
	require.NoError(t, err)
	require.Len(t, pw, 2)

	a, _ := GeneratePassword(32, DefaultCharset)
	b, _ := GeneratePassword(32, DefaultCharset)
	require.NotEqual(t, a, b)
}

func TestGeneratePassword_Errors(t *testing.T) {
	t.Parallel()

	_, err := GeneratePassword(16, Charset{})
	require.Error(t, err)
	_, err = GeneratePassword(0, DefaultCharset)
	require.Error(t, err)
}

func TestEntropy(t *testing.T) {
	t.Parallel()

	require.Zero(t, Entropy(""))
	require.InDelta(t, 8*math.Log2(10), Entropy("12345678"), 1e-9)
	require.InDelta(t, 4*math.Log2(26+10), Entropy("ab12"), 1e-9)
	require.InDelta(t, 16*math.Log2(26+26+10+32), Entropy("aB3!aB3!aB3!aB3!"), 1e-9)

	require.Equal(t, "weak", Strength(Entropy("password")))
	require.Equal(t, "fair", Strength(60))
	require.Equal(t, "strong", Strength(Entropy("Abcdefgh12345678")))
	require.Equal(t, "very strong", Strength(100))
}
