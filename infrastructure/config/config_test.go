package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func loaderWithEnv(dir string, env Environment, vars map[string]string) *Loader {
	l := NewLoader(dir, env)
	l.lookupEnv = func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
	return l
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := loaderWithEnv(t.TempDir(), Development, nil).Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 30*time.Second, cfg.Taxonomy.Timeout)
	assert.Equal(t, []string{"defaults", "environment"}, cfg.LoadedFrom)
	assert.Equal(t, "in.ekstep", cfg.DomainConfig().DefaultChannelIdentifier)
	assert.Len(t, cfg.DomainConfig().DefaultCategories, 4)
}

func TestLoader_Layering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
log_level: debug
taxonomy:
  base_url: https://base.example.org
  timeout: 10s
wizard:
  default_channel_identifier: org.base
  default_categories:
    - name: Grade
      code: gradeLevel
`)
	writeFile(t, dir, "staging.yaml", `
taxonomy:
  base_url: https://staging.example.org
`)
	writeFile(t, dir, "local.yaml", `
log_level: warn
`)

	cfg, err := loaderWithEnv(dir, Staging, map[string]string{
		"TAXONOMY_TENANT_ID":   "tenant-7",
		"CORS_ALLOWED_ORIGINS": "https://a.example.org, https://b.example.org,",
	}).Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "local.yaml is development only")
	assert.Equal(t, "https://staging.example.org", cfg.Taxonomy.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Taxonomy.Timeout)
	assert.Equal(t, "tenant-7", cfg.Taxonomy.TenantID)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORS.AllowedOrigins)

	domain := cfg.DomainConfig()
	assert.Equal(t, "org.base", domain.DefaultChannelIdentifier)
	require.Len(t, domain.DefaultCategories, 1)
	assert.Equal(t, "gradeLevel", domain.DefaultCategories[0].Code)
	assert.Len(t, cfg.LoadedFrom, 4)
}

func TestLoader_JSONFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "development.json", `{"server": {"port": 9090}}`)

	cfg, err := loaderWithEnv(dir, Development, nil).Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     Environment
		file    string
		vars    map[string]string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			env:     Development,
			file:    "server: [",
			wantErr: "failed to load base config",
		},
		{
			name:    "bad duration",
			env:     Development,
			vars:    map[string]string{"TAXONOMY_TIMEOUT": "soon"},
			wantErr: "TAXONOMY_TIMEOUT",
		},
		{
			name:    "bad port",
			env:     Development,
			vars:    map[string]string{"SERVER_PORT": "99999"},
			wantErr: "server.port 99999 out of range",
		},
		{
			name:    "production without token",
			env:     Production,
			wantErr: "taxonomy.auth_token is required in production",
		},
		{
			name:    "events without bus",
			env:     Development,
			file:    "events:\n  enabled: true\n  event_bus_name: \"\"\n",
			wantErr: "events.event_bus_name is required",
		},
		{
			name:    "relative base url",
			env:     Development,
			vars:    map[string]string{"TAXONOMY_BASE_URL": "taxonomy.local"},
			wantErr: "taxonomy.base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.file != "" {
				writeFile(t, dir, "base.yaml", tt.file)
			}

			_, err := loaderWithEnv(dir, tt.env, tt.vars).Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatcher_DisabledOutsideDevelopment(t *testing.T) {
	loader := loaderWithEnv(t.TempDir(), Staging, nil)
	cfg, err := loader.Load()
	require.NoError(t, err)

	w, err := NewWatcher(cfg, loader, nil)
	require.NoError(t, err)

	assert.Same(t, cfg, w.Current())
	w.Stop()
}

func TestWatcher_Reloads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "log_level: info\n")
	loader := loaderWithEnv(dir, Development, nil)
	cfg, err := loader.Load()
	require.NoError(t, err)

	w, err := NewWatcher(cfg, loader, nil, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	var notified atomic.Int32
	w.OnChange(func(*Config) { notified.Add(1) })

	writeFile(t, dir, "base.yaml", "log_level: debug\nwizard:\n  default_channel_identifier: org.reloaded\n")

	require.Eventually(t, func() bool {
		current := w.Current()
		return current.LogLevel == "debug" &&
			current.DomainConfig().DefaultChannelIdentifier == "org.reloaded"
	}, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, notified.Load(), int32(1))
}

func TestWatcher_InvalidReloadKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "log_level: info\n")
	loader := loaderWithEnv(dir, Development, nil)
	cfg, err := loader.Load()
	require.NoError(t, err)

	w, err := NewWatcher(cfg, loader, nil)
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, dir, "base.yaml", "server:\n  port: -1\n")
	w.reload()

	assert.Same(t, cfg, w.Current())
}
