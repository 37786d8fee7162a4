package clientcrypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Character classes offered by GeneratePassword.
const (
	LowerChars  = "abcdefghijklmnopqrstuvwxyz"
	UpperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DigitChars  = "0123456789"
	SymbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	DefaultPasswordLength = 16
)

// Charset selects the classes a generated password draws from.
type Charset struct {
	Lower, Upper, Digits, Symbols bool
}

// DefaultCharset is letters and digits.
var DefaultCharset = Charset{Lower: true, Upper: true, Digits: true}

func (c Charset) classes() []string {
	var out []string
	if c.Lower {
		out = append(out, LowerChars)
	}
	if c.Upper {
		out = append(out, UpperChars)
	}
	if c.Digits {
		out = append(out, DigitChars)
	}
	if c.Symbols {
		out = append(out, SymbolChars)
	}
	return out
}

// GeneratePassword returns length characters drawn with crypto/rand. Every
// selected class appears at least once when length allows it.
func GeneratePassword(length int, c Charset) (string, error) {
	classes := c.classes()
	switch {
	case len(classes) == 0:
		return "", errors.New("generate: no character class selected")
	case length < 1:
		return "", fmt.Errorf("generate: length %d, want at least 1", length)
	}
	all := strings.Join(classes, "")

	out := make([]byte, 0, length)
	for _, cl := range classes {
		if len(out) == length {
			break
		}
		ch, err := pick(cl)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < length {
		ch, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	// Fisher-Yates, so the guaranteed characters are not always in front
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("generate: %w", err)
	}
	return int(v.Int64()), nil
}

// Entropy estimates password strength in bits as len * log2(pool), where the
// pool is the sum of the classes the password actually uses (26, 26, 10, and
// 32 for anything else).
func Entropy(password string) float64 {
	if password == "" {
		return 0
	}
	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	pool := 0
	for _, used := range []struct {
		ok   bool
		size int
	}{{lower, 26}, {upper, 26}, {digit, 10}, {other, 32}} {
		if used.ok {
			pool += used.size
		}
	}
	return float64(len([]rune(password))) * math.Log2(float64(pool))
}

// Strength buckets an entropy estimate; 100 bits and up is "very strong".
func Strength(bits float64) string {
	switch {
	case bits < 50:
		return "weak"
	case bits < 75:
		return "fair"
	case bits < 100:
		return "strong"
	}
	return "very strong"
}
