package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knoldeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: from-file.db
log_level: debug
max_ease: 2.5
session_limit: 20
`), 0o644))

	t.Setenv("KNOLDECK_LOG_LEVEL", "warn")
	t.Setenv("KNOLDECK_SHUFFLE", "true")

	cfg, err := Load(newFlagSet(t, "--config", path, "--session-limit", "5", "--log-format", "json"))
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.DBPath, "file overrides default")
	assert.Equal(t, "warn", cfg.LogLevel, "env overrides file")
	assert.True(t, cfg.Shuffle)
	assert.Equal(t, 2.5, cfg.MaxEase)
	assert.Equal(t, 5, cfg.SessionLimit, "flag overrides file")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, Default().Addr, cfg.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(newFlagSet(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level", "verbose"}},
		{"log format", []string{"--log-format", "xml"}},
		{"ease above cap", []string{"--max-ease", "3.5"}},
		{"ease below floor", []string{"--max-ease", "1.0"}},
		{"negative limit", []string{"--session-limit", "-1"}},
		{"empty db", []string{"--db", ""}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(newFlagSet(t, tc.args...))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := Default()
	cfg.ReposDir = filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, cfg.EnsureDataDirs())
	info, err := os.Stat(cfg.ReposDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
