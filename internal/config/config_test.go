package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/l1jgo/entityforge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entityforge.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[templates]
backend = "lua"
dir = "scripts"

[database]
lookup_timeout = "500ms"

[logging]
level = "debug"
`)
	cfg, err := config.Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, config.BackendLua, cfg.Templates.Backend)
	assert.Equal(t, "scripts", cfg.Templates.Dir)
	assert.Equal(t, "utf-8", cfg.Templates.Encoding, "unset keys keep their defaults")
	assert.Equal(t, 500*time.Millisecond, cfg.Database.LookupTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := config.Load("../../config/entityforge.toml", false)
	require.NoError(t, err)
	assert.Equal(t, config.BackendYAML, cfg.Templates.Backend)
	assert.Equal(t, 2*time.Second, cfg.Database.LookupTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := config.Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, config.BackendYAML, cfg.Templates.Backend)
	assert.Equal(t, "data/templates", cfg.Templates.Dir)

	_, err = config.Load(missing, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown backend":       "[templates]\nbackend = \"xml\"\n",
		"postgres without dsn":  "[templates]\nbackend = \"postgres\"\n[database]\ndsn = \"\"\n",
		"malformed toml":        "[templates\n",
		"wrong type for a knob": "[database]\nmax_open_conns = \"many\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body), false)
			assert.Error(t, err)
		})
	}
}

func TestOverrideRevalidates(t *testing.T) {
	path := writeConfig(t, "[database]\ndsn = \"\"\n")
	cfg, err := config.Load(path, false)
	require.NoError(t, err)

	assert.Error(t, cfg.Override(config.BackendPostgres, ""), "postgres without a dsn")
	assert.Error(t, cfg.Override("xml", ""))

	cfg, err = config.Load(path, false)
	require.NoError(t, err)
	require.NoError(t, cfg.Override(config.BackendLua, "scripts"))
	assert.Equal(t, config.BackendLua, cfg.Templates.Backend)
	assert.Equal(t, "scripts", cfg.Templates.Dir)

	require.NoError(t, cfg.Override("", ""))
	assert.Equal(t, config.BackendLua, cfg.Templates.Backend, "empty overrides keep the loaded values")
}
