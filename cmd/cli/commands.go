package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	pb "github.com/and161185/vault-keeper/internal/api/vaultv1"
	"github.com/and161185/vault-keeper/internal/convert"
	"github.com/and161185/vault-keeper/internal/crypto/clientcrypto"
	"github.com/and161185/vault-keeper/internal/model"
	"github.com/and161185/vault-keeper/internal/vault"
)

// sealLabel binds a sealed secret to the secret field, so titles may change freely.
const sealLabel = "secret"

// app carries global flags and I/O shared by all commands.
type app struct {
	conn    connOpts
	output  string
	timeout time.Duration

	out    io.Writer
	errOut io.Writer
	prompt *prompter
	dial   dialFunc
	copy   func(string) error
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		prompt: &prompter{in: in, out: errOut},
		dial:   dial,
		copy:   clipboard.WriteAll,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vk",
		Short:         "VaultKeeper client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.conn.addr, "addr", "localhost:8443", "server address")
	pf.StringVar(&a.conn.caPath, "cacert", "", "CA certificate (PEM)")
	pf.BoolVar(&a.conn.insecure, "insecure", false, "skip certificate verification (dev)")
	pf.BoolVar(&a.conn.plaintext, "plaintext", false, "connect without TLS (server in --dev mode)")
	pf.StringVarP(&a.output, "output", "o", outTable, "output format: table, json or yaml")
	pf.DurationVar(&a.timeout, "timeout", 30*time.Second, "per-command timeout")

	root.AddCommand(
		a.versionCmd(),
		a.registerCmd(),
		a.loginCmd(),
		a.initCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.rmCmd(),
		a.listCmd(),
		a.getCmd(),
		a.existsCmd(),
		a.verifyCmd(),
		a.layoutCmd(),
		a.genCmd(),
	)
	return root
}

// client dials the server, with the saved bearer token when authed is set.
func (a *app) client(authed bool) (pb.VaultKeeperClient, func(), tokenFile, error) {
	var tf tokenFile
	c := a.conn
	var creds []grpc.DialOption
	if authed {
		var err error
		if tf, err = loadToken(); err != nil {
			return nil, nil, tf, err
		}
		creds = append(creds, grpc.WithPerRPCCredentials(bearerCreds{token: tf.AccessToken, secure: !c.plaintext}))
	}
	cc, err := a.dial(c, creds...)
	if err != nil {
		return nil, nil, tf, err
	}
	return pb.NewVaultKeeperClient(cc), func() { _ = cc.Close() }, tf, nil
}

func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

// ownerFlag parses an optional --owner value.
func ownerFlag(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	o, err := model.ParseOwner(s)
	if err != nil {
		return nil, err
	}
	return o[:], nil
}

func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("index %q: want a non-negative number", s)
	}
	return uint32(n), nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "vk %s (%s)\n", version, buildDate)
		},
	}
}

func (a *app) credentials(user, pass string) (*pb.Credentials, error) {
	if pass == "" {
		p, err := a.prompt.secret("Password: ")
		if err != nil {
			return nil, err
		}
		pass = string(p)
	}
	return &pb.Credentials{Username: user, Password: pass}, nil
}

func (a *app) registerCmd() *cobra.Command {
	var user, pass string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := a.credentials(user, pass)
			if err != nil {
				return err
			}
			cl, done, _, err := a.client(false)
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.Register(ctx, creds)
			if err != nil {
				return err
			}
			out := struct {
				UserID string `json:"user_id" yaml:"user_id"`
				Owner  string `json:"owner" yaml:"owner"`
			}{resp.UserId, hex.EncodeToString(resp.Owner)}
			return render(a.out, a.output, out, []string{"USER ID", "OWNER"}, [][]string{{out.UserID, out.Owner}})
		},
	}
	cmd.Flags().StringVarP(&user, "username", "u", "", "username")
	cmd.Flags().StringVarP(&pass, "password", "p", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var user, pass string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := a.credentials(user, pass)
			if err != nil {
				return err
			}
			cl, done, _, err := a.client(false)
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.Login(ctx, creds)
			if err != nil {
				return err
			}
			tf := tokenFile{
				AccessToken: resp.AccessToken,
				ExpiresAt:   time.Unix(resp.ExpiresAt, 0),
				Owner:       hex.EncodeToString(resp.Owner),
			}
			if err := saveToken(tf); err != nil {
				return err
			}
			fmt.Fprintln(a.out, okStyle.Render("ok"), "owner", tf.Owner)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "username", "u", "", "username")
	cmd.Flags().StringVarP(&pass, "password", "p", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	var noMaster, weak bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create your vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var master []byte
			if !noMaster {
				m, err := a.prompt.secret("Master secret: ")
				if err != nil {
					return err
				}
				if !weak {
					if err := clientcrypto.CheckMasterStrength(string(m)); err != nil {
						return err
					}
				}
				again, err := a.prompt.secret("Repeat master secret: ")
				if err != nil {
					return err
				}
				if string(again) != string(m) {
					return errors.New("master secrets do not match")
				}
				master = m
			}

			cl, done, _, err := a.client(true)
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.InitializeVault(ctx, &pb.InitializeVaultRequest{MasterSecret: master})
			if err != nil {
				return err
			}
			v := resp.GetVault()
			fmt.Fprintf(a.out, "%s vault %x (layout %s)\n", okStyle.Render("created"), v.Address, v.Layout)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noMaster, "no-master", false, "store no master hash (required for layout v1)")
	cmd.Flags().BoolVar(&weak, "allow-weak", false, "skip the master secret strength check")
	return cmd
}

// entryFlags are shared by add and update.
type entryFlags struct {
	username string
	secret   string
	seal     bool
	owner    string
	generate bool
	gen      genFlags
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "entry username")
	cmd.Flags().StringVarP(&f.secret, "secret", "s", "", "entry secret (prompted when empty)")
	cmd.Flags().BoolVar(&f.seal, "seal", false, "encrypt the secret with a key derived from the master secret")
	cmd.Flags().StringVar(&f.owner, "owner", "", "vault owner (hex); defaults to you")
	cmd.Flags().BoolVarP(&f.generate, "generate", "g", false, "use a generated password as the secret")
	f.gen.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("secret", "generate")
}

// entry builds the wire entry, prompting for and optionally sealing the secret.
func (a *app) entry(title string, f *entryFlags, tf tokenFile) (*pb.Entry, error) {
	secret := []byte(f.secret)
	if f.generate {
		pw, err := f.gen.generate(f.seal)
		if err != nil {
			return nil, err
		}
		bits := clientcrypto.Entropy(pw)
		fmt.Fprintf(a.errOut, "generated a %d-character secret (%.0f bits, %s)\n", len(pw), bits, clientcrypto.Strength(bits))
		secret = []byte(pw)
	}
	if len(secret) == 0 {
		s, err := a.prompt.secret("Secret: ")
		if err != nil {
			return nil, err
		}
		secret = s
	}
	if f.seal {
		if len(secret) > clientcrypto.MaxSealedPlaintext(vault.MaxSecretLength) {
			return nil, fmt.Errorf("sealed secrets hold at most %d bytes", clientcrypto.MaxSealedPlaintext(vault.MaxSecretLength))
		}
		owner, err := tf.owner()
		if err != nil {
			return nil, err
		}
		master, err := a.prompt.secret("Master secret: ")
		if err != nil {
			return nil, err
		}
		if secret, err = clientcrypto.SealField(clientcrypto.DeriveFieldKey(master, owner), owner, sealLabel, secret); err != nil {
			return nil, err
		}
	}
	return &pb.Entry{Title: []byte(title), Username: []byte(f.username), Secret: secret}, nil
}

func (a *app) printVault(v *pb.Vault) error {
	rows := rowsOf(v, "", false)
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{strconv.Itoa(r.Index), r.Title, r.Username})
	}
	return render(a.out, a.output, rows, []string{"#", "TITLE", "USERNAME"}, table)
}

func (a *app) addCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Append an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ownerFlag(f.owner)
			if err != nil {
				return err
			}
			cl, done, tf, err := a.client(true)
			if err != nil {
				return err
			}
			defer done()
			e, err := a.entry(args[0], &f, tf)
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.AddEntry(ctx, &pb.AddEntryRequest{Owner: owner, Entry: e})
			if err != nil {
				return err
			}
			return a.printVault(resp.GetVault())
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "update INDEX TITLE",
		Short: "Replace the entry at INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			owner, err := ownerFlag(f.owner)
			if err != nil {
				return err
			}
			cl, done, tf, err := a.client(true)
			if err != nil {
				return err
			}
			defer done()
			e, err := a.entry(args[1], &f, tf)
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.UpdateEntry(ctx, &pb.UpdateEntryRequest{Owner: owner, Index: idx, Entry: e})
			if err != nil {
				return err
			}
			return a.printVault(resp.GetVault())
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	var ownerHex string
	cmd := &cobra.Command{
		Use:   "rm INDEX",
		Short: "Delete the entry at INDEX; later entries move up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			owner, err := ownerFlag(ownerHex)
			if err != nil {
				return err
			}
			cl, done, _, err := a.client(true)
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.DeleteEntry(ctx, &pb.DeleteEntryRequest{Owner: owner, Index: idx})
			if err != nil {
				return err
			}
			return a.printVault(resp.GetVault())
		},
	}
	cmd.Flags().StringVar(&ownerHex, "owner", "", "vault owner (hex); defaults to you")
	return cmd
}

// fetch loads a vault for read-only commands.
func (a *app) fetch(cmd *cobra.Command, ownerHex string) (*pb.Vault, tokenFile, error) {
	owner, err := ownerFlag(ownerHex)
	if err != nil {
		return nil, tokenFile{}, err
	}
	cl, done, tf, err := a.client(true)
	if err != nil {
		return nil, tf, err
	}
	defer done()
	ctx, cancel := a.ctx(cmd)
	defer cancel()

	resp, err := cl.GetVault(ctx, &pb.OwnerRequest{Owner: owner})
	if err != nil {
		return nil, tf, err
	}
	return resp.GetVault(), tf, nil
}

func (a *app) listCmd() *cobra.Command {
	var ownerHex, filter string
	var show bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, _, err := a.fetch(cmd, ownerHex)
			if err != nil {
				return err
			}
			rows := rowsOf(v, filter, show)
			header := []string{"#", "TITLE", "USERNAME"}
			if show {
				header = append(header, "SECRET")
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				line := []string{strconv.Itoa(r.Index), r.Title, r.Username}
				if show {
					line = append(line, r.Secret)
				}
				table = append(table, line)
			}
			return render(a.out, a.output, rows, header, table)
		},
	}
	cmd.Flags().StringVar(&ownerHex, "owner", "", "vault owner (hex); defaults to you")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only titles containing this text (case-insensitive)")
	cmd.Flags().BoolVar(&show, "show-secrets", false, "include secrets")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	var ownerHex string
	var copySecret, unseal bool
	var clearAfter time.Duration
	cmd := &cobra.Command{
		Use:   "get INDEX",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			v, tf, err := a.fetch(cmd, ownerHex)
			if err != nil {
				return err
			}
			if int(idx) >= len(v.GetEntries()) {
				return fmt.Errorf("index %d out of range (%d entries)", idx, len(v.GetEntries()))
			}
			e := v.GetEntries()[idx]
			secret := e.Secret
			if unseal {
				owner, err := model.OwnerFromBytes(v.Owner)
				if err != nil {
					return err
				}
				if tf.Owner != hex.EncodeToString(v.Owner) {
					return errors.New("only the owner can unseal secrets")
				}
				master, err := a.prompt.secret("Master secret: ")
				if err != nil {
					return err
				}
				if secret, err = clientcrypto.OpenField(clientcrypto.DeriveFieldKey(master, owner), owner, sealLabel, secret); err != nil {
					return fmt.Errorf("unseal: %w", err)
				}
			}

			if copySecret {
				if err := a.copy(string(secret)); err != nil {
					return fmt.Errorf("clipboard: %w", err)
				}
				fmt.Fprintln(a.errOut, okStyle.Render("secret copied to clipboard"))
				if clearAfter > 0 {
					select {
					case <-time.After(clearAfter):
					case <-cmd.Context().Done():
					}
					_ = a.copy("")
				}
				secret = nil
			}

			row := entryRow{Index: int(idx), Title: printable(e.Title), Username: printable(e.Username)}
			header := []string{"#", "TITLE", "USERNAME"}
			line := []string{strconv.Itoa(row.Index), row.Title, row.Username}
			if secret != nil {
				row.Secret = printable(secret)
				header = append(header, "SECRET")
				line = append(line, row.Secret)
			}
			return render(a.out, a.output, row, header, [][]string{line})
		},
	}
	cmd.Flags().StringVar(&ownerHex, "owner", "", "vault owner (hex); defaults to you")
	cmd.Flags().BoolVarP(&copySecret, "copy", "c", false, "copy the secret to the clipboard instead of printing it")
	cmd.Flags().DurationVar(&clearAfter, "clear-after", 0, "with --copy, wait and then clear the clipboard")
	cmd.Flags().BoolVar(&unseal, "unseal", false, "decrypt a secret stored with add --seal")
	return cmd
}

func (a *app) existsCmd() *cobra.Command {
	var ownerHex string
	cmd := &cobra.Command{
		Use:   "exists",
		Short: "Report whether a vault exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := ownerFlag(ownerHex)
			if err != nil {
				return err
			}
			cl, done, _, err := a.client(true)
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			resp, err := cl.VaultExists(ctx, &pb.OwnerRequest{Owner: owner})
			if err != nil {
				return err
			}
			out := struct {
				Exists  bool   `json:"exists" yaml:"exists"`
				Address string `json:"address" yaml:"address"`
			}{resp.Exists, hex.EncodeToString(resp.Address)}
			return render(a.out, a.output, out, []string{"EXISTS", "ADDRESS"},
				[][]string{{strconv.FormatBool(out.Exists), out.Address}})
		},
	}
	cmd.Flags().StringVar(&ownerHex, "owner", "", "vault owner (hex); defaults to you")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check a master secret against your vault's stored hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pv, _, err := a.fetch(cmd, "")
			if err != nil {
				return err
			}
			v, err := convert.FromProtoVault(pv)
			if err != nil {
				return err
			}
			if v.MasterHash == nil {
				return errors.New("vault stores no master hash")
			}
			master, err := a.prompt.secret("Master secret: ")
			if err != nil {
				return err
			}
			if !vault.MatchesMaster(v, master) {
				fmt.Fprintln(a.out, warnStyle.Render("mismatch"))
				return errors.New("master secret does not match")
			}
			fmt.Fprintln(a.out, okStyle.Render("match"))
			return nil
		},
	}
}

func (a *app) layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show the server's record layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, done, _, err := a.client(false)
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			l, err := cl.GetLayout(ctx, &pb.Empty{})
			if err != nil {
				return err
			}
			out := struct {
				Name           string `json:"name" yaml:"name"`
				MaxEntries     uint32 `json:"max_entries" yaml:"max_entries"`
				MaxTitle       uint32 `json:"max_title" yaml:"max_title"`
				MaxUsername    uint32 `json:"max_username" yaml:"max_username"`
				MaxSecret      uint32 `json:"max_secret" yaml:"max_secret"`
				WithMasterHash bool   `json:"with_master_hash" yaml:"with_master_hash"`
				MaxSize        uint32 `json:"max_size" yaml:"max_size"`
			}{l.Name, l.MaxEntries, l.MaxTitle, l.MaxUsername, l.MaxSecret, l.WithMasterHash, l.MaxSize}
			return render(a.out, a.output, out,
				[]string{"NAME", "ENTRIES", "TITLE", "USERNAME", "SECRET", "MASTER HASH", "BYTES"},
				[][]string{{out.Name, fmt.Sprint(out.MaxEntries), fmt.Sprint(out.MaxTitle), fmt.Sprint(out.MaxUsername),
					fmt.Sprint(out.MaxSecret), strconv.FormatBool(out.WithMasterHash), fmt.Sprint(out.MaxSize)}})
		},
	}
}
