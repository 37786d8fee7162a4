package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/and161185/vault-keeper/internal/vault"
)

func TestLoad_DefaultsNeedKey(t *testing.T) {
	_, err := Load(New(), "")
	require.ErrorContains(t, err, "jwt signing key")
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
backend: sqlite
jwt_key: from-file
layout: v1
access_ttl: 5m
limiter:
  max_fails: 9
`), 0o600))

	t.Setenv("VK_JWT_KEY", "from-env")
	t.Setenv("VK_LIMITER_BLOCK_FOR", "2m")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, RegisterFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--addr", ":9999", "--layout", "v2"}))

	c, err := Load(v, file)
	require.NoError(t, err)
	require.Equal(t, ":9999", c.Addr, "flag")
	require.Equal(t, "v2", c.Layout, "flag beats file")
	require.Equal(t, "from-env", c.JWTKey, "env beats file")
	require.Equal(t, BackendSQLite, c.Backend, "file beats default")
	require.Equal(t, 5*time.Minute, c.AccessTTL)
	require.Equal(t, 9, c.Limiter.MaxFails)
	require.Equal(t, 2*time.Minute, c.Limiter.BlockFor)
	require.Equal(t, 15*time.Minute, c.Limiter.Window, "default")
	require.Equal(t, vault.LayoutV2, c.VaultLayout())
	require.Equal(t, 9, c.LimiterConfig().MaxFails)
}

func TestValidate(t *testing.T) {
	ok := Config{
		Backend: BackendMemory, JWTKey: "k", Layout: "v3", AccessTTL: time.Minute,
		Limiter: Limiter{Window: time.Minute, MaxFails: 1, BlockFor: time.Minute},
	}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Backend = "mongo"
	require.ErrorContains(t, bad.Validate(), "unknown backend")

	bad = ok
	bad.Layout = "v9"
	require.Error(t, bad.Validate())

	bad = ok
	bad.Limiter.MaxFails = 0
	require.ErrorContains(t, bad.Validate(), "limiter")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "read config")
}
