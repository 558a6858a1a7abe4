// control/config_test.go
// Author: momentics <momentics@gmail.com>

package control_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/osthread/api"
	"github.com/momentics/osthread/control"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := control.DefaultConfig()
	require.NoError(t, cfg.Validate())
	_, ok, err := cfg.Priority()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*control.Config)
	}{
		{"negative max threads", func(c *control.Config) { c.MaxThreads = -1 }},
		{"negative history", func(c *control.Config) { c.HistorySize = -5 }},
		{"unknown priority", func(c *control.Config) { c.DefaultPriority = "urgent" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := control.DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), api.ErrInvalidArgument)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osthread.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
maxThreads: 32
defaultPriority: high
logLevel: debug
`), 0o600))

	cfg, err := control.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.MaxThreads)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, "osthread", cfg.MetricsNamespace)
	assert.Equal(t, 64, cfg.HistorySize)

	p, ok, err := cfg.Priority()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, api.PriorityHigh, p)
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := control.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("maxThreads: [1, 2"), 0o600))
	_, err = control.LoadConfigFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("defaultPriority: urgent\n"), 0o600))
	_, err = control.LoadConfigFile(invalid)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OSTHREAD_MAX_THREADS", "8")
	t.Setenv("OSTHREAD_DEFAULT_PRIORITY", "lowest")
	t.Setenv("OSTHREAD_HISTORY_SIZE", "0")

	cfg, err := control.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxThreads)
	assert.Equal(t, "lowest", cfg.DefaultPriority)
	assert.Equal(t, 0, cfg.HistorySize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("OSTHREAD_MAX_THREADS", "many")
	_, err := control.ApplyEnv(control.DefaultConfig())
	assert.Error(t, err)
}

func TestConfigStore(t *testing.T) {
	store := control.NewConfigStore(control.DefaultConfig())

	var seen []control.Config
	store.OnReload(func(c control.Config) { seen = append(seen, c) })

	require.NoError(t, store.Update(func(c *control.Config) { c.MaxThreads = 4 }))
	assert.Equal(t, 4, store.Snapshot().MaxThreads)
	require.Len(t, seen, 1)
	assert.Equal(t, 4, seen[0].MaxThreads)

	err := store.Update(func(c *control.Config) { c.MaxThreads = -1 })
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Equal(t, 4, store.Snapshot().MaxThreads)
	assert.Len(t, seen, 1, "listeners must not see rejected updates")
}

func TestConfigStoreListenerMayRegister(t *testing.T) {
	store := control.NewConfigStore(control.DefaultConfig())

	var lateCalls int
	store.OnReload(func(control.Config) {
		store.OnReload(func(control.Config) { lateCalls++ })
	})

	require.NoError(t, store.Update(func(c *control.Config) { c.HistorySize = 8 }))
	assert.Equal(t, 0, lateCalls, "listeners added during notification wait for the next update")

	require.NoError(t, store.Update(func(c *control.Config) { c.HistorySize = 16 }))
	assert.Equal(t, 1, lateCalls)
}
