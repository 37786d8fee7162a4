package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/and161185/vault-keeper/internal/crypto/clientcrypto"
	"github.com/and161185/vault-keeper/internal/vault"
)

// genFlags control password generation for gen and add/update --generate.
type genFlags struct {
	length   int
	symbols  bool
	noLower  bool
	noUpper  bool
	noDigits bool
}

func (g *genFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&g.length, "length", "l", clientcrypto.DefaultPasswordLength, "generated password length")
	fs.BoolVar(&g.symbols, "symbols", false, "include symbols")
	fs.BoolVar(&g.noLower, "no-lower", false, "leave out lower-case letters")
	fs.BoolVar(&g.noUpper, "no-upper", false, "leave out upper-case letters")
	fs.BoolVar(&g.noDigits, "no-digits", false, "leave out digits")
}

// secretCap is the longest secret an entry can take, sealed or not.
func secretCap(seal bool) int {
	if seal {
		return clientcrypto.MaxSealedPlaintext(vault.MaxSecretLength)
	}
	return vault.MaxSecretLength
}

func (g *genFlags) generate(seal bool) (string, error) {
	if limit := secretCap(seal); g.length > limit {
		if seal {
			return "", fmt.Errorf("length %d: sealed secrets hold at most %d bytes", g.length, limit)
		}
		return "", fmt.Errorf("length %d: secrets hold at most %d bytes", g.length, limit)
	}
	return clientcrypto.GeneratePassword(g.length, clientcrypto.Charset{
		Lower:   !g.noLower,
		Upper:   !g.noUpper,
		Digits:  !g.noDigits,
		Symbols: g.symbols,
	})
}

func (a *app) genCmd() *cobra.Command {
	var g genFlags
	var seal, copySecret bool
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random password and rate its strength",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := g.generate(seal)
			if err != nil {
				return err
			}
			bits := clientcrypto.Entropy(pw)
			out := struct {
				Password string  `json:"password,omitempty" yaml:"password,omitempty"`
				Bits     float64 `json:"entropy_bits" yaml:"entropy_bits"`
				Strength string  `json:"strength" yaml:"strength"`
			}{pw, bits, clientcrypto.Strength(bits)}

			if copySecret {
				if err := a.copy(pw); err != nil {
					return fmt.Errorf("clipboard: %w", err)
				}
				fmt.Fprintln(a.errOut, okStyle.Render("password copied to clipboard"))
				out.Password = ""
			}
			style := okStyle
			if bits < 50 {
				style = warnStyle
			}
			return render(a.out, a.output, out, []string{"PASSWORD", "BITS", "STRENGTH"},
				[][]string{{out.Password, strconv.FormatFloat(bits, 'f', 1, 64), style.Render(out.Strength)}})
		},
	}
	g.register(cmd.Flags())
	cmd.Flags().BoolVar(&seal, "seal", false, "fit the length to a sealed secret")
	cmd.Flags().BoolVarP(&copySecret, "copy", "c", false, "copy the password to the clipboard instead of printing it")
	return cmd
}
