package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags registers the flags the CLI exposes, with Default() values.
func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	def := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", def.DB, "")
	fs.String("repos", def.Repos, "")
	fs.String("deck", "", "")
	fs.IntSlice("squares", nil, "")
	fs.String("tag", "", "")
	fs.String("addr", def.Addr, "")
	fs.String("log-level", def.LogLevel, "")
	fs.String("log-format", def.LogFormat, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadDefaults verifies that Load returns Default() when nothing is set.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t), "")

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "flashdeck.db", cfg.DB)
	assert.Equal(t, "repos", cfg.Repos)
	assert.Equal(t, "localhost:8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Squares)
}

func TestLoadWithoutFlags(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

// TestLoadPrecedence verifies file < env < explicit flags.
func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "flashdeck.yaml", `
db: from-file.db
tag: file-tag
log-level: warn
squares: [1, 2]
`)
	t.Setenv("FLASHDECK_TAG", "env-tag")
	t.Setenv("FLASHDECK_LOG_LEVEL", "error")

	cfg, err := Load(newFlags(t, "--log-level", "debug"), path)

	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DB, "file beats defaults")
	assert.Equal(t, "env-tag", cfg.Tag, "env beats file")
	assert.Equal(t, "debug", cfg.LogLevel, "explicit flag beats env")
	assert.Equal(t, []int{1, 2}, cfg.Squares)
}

func TestLoadSquaresFromEnv(t *testing.T) {
	t.Setenv("FLASHDECK_SQUARES", "3, 4,5")

	cfg, err := Load(newFlags(t), "")

	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, cfg.Squares)
}

func TestLoadSquaresFromFlags(t *testing.T) {
	cfg, err := Load(newFlags(t, "--squares", "2,3"), "")

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, cfg.Squares)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(newFlags(t), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"bad log level", []string{"--log-level", "loud"}, "invalid LogLevel: oneof"},
		{"bad log format", []string{"--log-format", "xml"}, "invalid LogFormat: oneof"},
		{"bad addr", []string{"--addr", "nowhere"}, "invalid Addr: hostname_port"},
		{"missing deck file", []string{"--deck", "/does/not/exist.deck"}, "invalid Deck: file"},
		{"empty db", []string{"--db", ""}, "invalid DB: required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(newFlags(t, tc.args...), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadExistingDeckFile(t *testing.T) {
	deckPath := writeFile(t, "capitals.deck", "France?|Paris|\n")

	cfg, err := Load(newFlags(t, "--deck", deckPath), "")

	require.NoError(t, err)
	assert.Equal(t, deckPath, cfg.Deck)
}
