package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	withTestKey(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	return cfg
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://org.crm.dynamics.com/", "https://org.crm.dynamics.com"},
		{"  org.crm.dynamics.com//", "https://org.crm.dynamics.com"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), tt.in)
	}
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "contoso", NameFromURL("https://contoso.crm4.dynamics.com"))
	assert.Equal(t, "localhost", NameFromURL("http://localhost:8080"))
}

func TestAddEnvironmentDeduplicatesByURL(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, cfg.AddEnvironment(Environment{Name: "dev", URL: "https://dev.crm.dynamics.com"}))
	require.NoError(t, cfg.AddEnvironment(Environment{Name: "prod", URL: "https://prod.crm.dynamics.com"}))
	assert.Equal(t, "prod", cfg.DefaultEnvironment)

	require.NoError(t, cfg.AddEnvironment(Environment{Name: "other", URL: "https://DEV.crm.dynamics.com/"}))
	assert.Equal(t, []string{"dev", "prod"}, cfg.ListEnvironments())
	assert.Equal(t, "dev", cfg.DefaultEnvironment, "re-adding an environment makes it current")

	assert.Error(t, cfg.AddEnvironment(Environment{Name: "dev", URL: "https://elsewhere.example.com"}))
	assert.Error(t, cfg.AddEnvironment(Environment{Name: "empty"}))
}

func TestUpdateUseDeleteEnvironment(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.AddEnvironment(Environment{Name: "dev", URL: "https://dev.example.com"}))
	require.NoError(t, cfg.AddEnvironment(Environment{Name: "test", URL: "https://test.example.com"}))

	require.NoError(t, cfg.UseEnvironment("dev"))
	env, ok := cfg.CurrentEnvironment()
	require.True(t, ok)
	assert.Equal(t, "dev", env.Name)
	assert.Error(t, cfg.UseEnvironment("missing"))

	require.NoError(t, cfg.UpdateEnvironment("dev", Environment{Name: "development", URL: "dev.example.com/"}))
	assert.Equal(t, "development", cfg.DefaultEnvironment)
	got, err := cfg.GetEnvironment("development")
	require.NoError(t, err)
	assert.Equal(t, "https://dev.example.com", got.URL)

	require.NoError(t, cfg.DeleteEnvironment("development"))
	assert.Equal(t, "", cfg.DefaultEnvironment)
	env, ok = cfg.CurrentEnvironment()
	require.True(t, ok, "falls back to the first environment")
	assert.Equal(t, "test", env.Name)

	assert.Error(t, cfg.DeleteEnvironment("development"))
	assert.Error(t, cfg.UpdateEnvironment("nope", Environment{}))
}
