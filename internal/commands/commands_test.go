package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"admin-dashboard-api/internal/config"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSeedCommandIsIdempotent(t *testing.T) {
	cfg = config.Config{DBPath: filepath.Join(t.TempDir(), "board.db"), LogLevel: "error"}

	require.Contains(t, run(t, "seed"), "Created columns")
	require.Contains(t, run(t, "seed"), "nothing to do")
}

func TestMigrateCommandHonorsDBFlag(t *testing.T) {
	cfg = config.Config{DBPath: "unused.db", LogLevel: "error"}
	path := filepath.Join(t.TempDir(), "flag.db")

	require.Contains(t, run(t, "migrate", "--db", path), path)
	require.FileExists(t, path)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc", "today")
	require.Contains(t, run(t, "version"), "1.2.3 (commit abc")
}
