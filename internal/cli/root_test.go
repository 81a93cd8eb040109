package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/store"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "zaloga", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "db", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("addr"))

	token, _, err := cmd.Find([]string{"token"})
	require.NoError(t, err)
	assert.NotNil(t, token.Flags().Lookup("sub"))
	assert.Equal(t, "24h0m0s", token.Flags().Lookup("ttl").DefValue)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zaloga.sqlite3")

	out, err := run(t, "migrate", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = run(t, "migrate", "--db", path)
	require.NoError(t, err)
}

func TestToken_UsesStoredSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zaloga.sqlite3")
	sub := uuid.New()

	out, err := run(t, "token", "--db", path, "--sub", sub.String())
	require.NoError(t, err)
	token := strings.TrimSpace(out)

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()
	secret, err := store.GetSigningSecret(t.Context(), database)
	require.NoError(t, err)

	owner, err := auth.NewVerifier(secret, "authenticated", "").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, sub, owner)
}

func TestToken_ConfiguredSecret(t *testing.T) {
	t.Setenv("ZALOGA_JWT_SECRET", "configured")
	sub := uuid.New()

	out, err := run(t, "token", "--db", filepath.Join(t.TempDir(), "z.sqlite3"), "--sub", sub.String(), "--ttl", "5m")
	require.NoError(t, err)

	owner, err := auth.NewVerifier("configured", "authenticated", "").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, sub, owner)
}

func TestToken_Errors(t *testing.T) {
	_, err := run(t, "token", "--db", filepath.Join(t.TempDir(), "z.sqlite3"), "--sub", "42")
	assert.Error(t, err)

	_, err = run(t, "token", "--db", filepath.Join(t.TempDir(), "z.sqlite3"))
	assert.Error(t, err)

	_, err = run(t, "migrate", "--log-level", "shouty", "--db", filepath.Join(t.TempDir(), "z.sqlite3"))
	assert.Error(t, err)
}

func TestFlagOverridesInvalidEnv(t *testing.T) {
	t.Setenv("ZALOGA_LOG_LEVEL", "verbose")
	path := filepath.Join(t.TempDir(), "zaloga.sqlite3")

	_, err := run(t, "migrate", "--db", path)
	assert.Error(t, err)

	_, err = run(t, "migrate", "--db", path, "--log-level", "warn")
	assert.NoError(t, err)
}
