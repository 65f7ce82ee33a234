package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/finance-control/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, "finance.db", s.Get(KeyDatabasePath))
	assert.Equal(t, "Fusion", s.Get(KeyTheme))
	assert.Equal(t, "en_US", s.Get(KeyLanguage))
	assert.Equal(t, "month", s.Get(KeyDefaultPeriod))
	assert.NoFileExists(t, path)
}

func TestLoad_ReadsFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database": {"path": "/data/money.db"}, "interface": {"theme": "Dark"}}`), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/money.db", s.DatabasePath())
	assert.Equal(t, "Dark", s.Get(KeyTheme))
	assert.Equal(t, "en_US", s.Get(KeyLanguage), "unset keys keep defaults")
}

func TestLoad_UnparsableFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "finance.db", s.Get(KeyDatabasePath))
}

func TestLoad_RejectsNonJSONExtension(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("FINANCE_DATABASE_PATH", "/tmp/from-env.db")

	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", s.DatabasePath())
}

func TestSettings_SaveKeepsEnvironmentOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database": {"path": "/data/money.db"}}`), 0600))
	t.Setenv("FINANCE_DATABASE_PATH", "/tmp/from-env.db")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", s.DatabasePath())

	require.NoError(t, s.Set(KeyTheme, "Dark"))
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/tmp/from-env.db")
	assert.Contains(t, string(data), "/data/money.db")
	assert.Contains(t, string(data), "Dark")
	assert.Equal(t, "/tmp/from-env.db", s.DatabasePath(), "environment still wins for reads")
}

func TestSettings_SetSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyTheme, "Dark"))
	require.NoError(t, s.Set("export.format", "csv"))
	require.NoError(t, s.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Dark", reloaded.Get(KeyTheme))
	assert.Equal(t, "csv", reloaded.Get("export.format"))
	assert.Equal(t, "finance.db", reloaded.Get(KeyDatabasePath))

	var keys []string
	for _, kv := range reloaded.All() {
		keys = append(keys, kv.Key)
	}
	assert.Contains(t, keys, "export.format")
	assert.IsIncreasing(t, keys)
}

func TestSettings_SetRejectsBadKeys(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	for _, key := range []string{"theme", ".theme", "interface.", "a.b.c", ""} {
		assert.ErrorIs(t, s.Set(key, "x"), ErrInvalidKey, key)
	}
}

func TestSettings_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyTheme, "Dark"))
	require.NoError(t, s.Save())

	require.NoError(t, s.Reset())
	assert.Equal(t, "Fusion", s.Get(KeyTheme))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Fusion", reloaded.Get(KeyTheme))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINANCE_TEST_DIR", "/srv/finance")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "finance.db", want: "finance.db"},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/finance.db", want: filepath.Join(home, "data/finance.db")},
		{name: "env var", in: "$FINANCE_TEST_DIR/finance.db", want: "/srv/finance/finance.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FINANCE_ENV_FILE_TEST=loaded\n"), 0600))
	t.Setenv("FINANCE_ENV_FILE_TEST", "")
	require.NoError(t, os.Unsetenv("FINANCE_ENV_FILE_TEST"))

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "loaded", os.Getenv("FINANCE_ENV_FILE_TEST"))
}
