package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Name:         "E-FLIX Server",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigins:  []string{"http://localhost:5173"},
		},
		Store:   StoreConfig{BasePath: "/tmp/eflix"},
		Catalog: CatalogConfig{URL: "https://catalog.example.com/videos", Timeout: 10 * time.Second},
		Identity: IdentityConfig{
			Issuer:        "https://accounts.google.com",
			ClientID:      "client-123",
			AllowedDomain: "dtlabs.ai",
		},
		Auth: AuthConfig{AccessTokenDuration: 12 * time.Hour},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "qa" },
			wantMsg: "invalid environment",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantMsg: "invalid log level",
		},
		{
			name:    "missing catalog URL",
			mutate:  func(c *Config) { c.Catalog.URL = "" },
			wantMsg: "CATALOG_URL",
		},
		{
			name:    "relative catalog URL",
			mutate:  func(c *Config) { c.Catalog.URL = "/videos" },
			wantMsg: "invalid catalog URL",
		},
		{
			name:    "missing client ID",
			mutate:  func(c *Config) { c.Identity.ClientID = "" },
			wantMsg: "IDENTITY_CLIENT_ID",
		},
		{
			name:    "missing allowed domain",
			mutate:  func(c *Config) { c.Identity.AllowedDomain = "" },
			wantMsg: "ALLOWED_DOMAIN",
		},
		{
			name:    "allowed domain with @",
			mutate:  func(c *Config) { c.Identity.AllowedDomain = "@dtlabs.ai" },
			wantMsg: "must not contain @",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("EFLIX_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "EFLIX_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "EFLIX_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "EFLIX_TEST_UNSET", "default"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t,
		[]string{"http://localhost:5173", "https://eflix.dtlabs.ai"},
		splitOrigins("http://localhost:5173, https://eflix.dtlabs.ai"))
	assert.Equal(t, []string{"http://localhost:5173"}, splitOrigins("http://localhost:5173,,"))
	assert.Empty(t, splitOrigins(""))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/eflix/store", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "eflix", "store"), got)

	got, err = expandPath("", "/var/lib/eflix")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/eflix", got)

	got, err = expandPath("/already/abs", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/abs", got)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nEFLIX_ENVFILE_A=hello\nEFLIX_ENVFILE_B=\"quoted\"\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("EFLIX_ENVFILE_A", "")
	t.Setenv("EFLIX_ENVFILE_B", "")
	os.Unsetenv("EFLIX_ENVFILE_A")
	os.Unsetenv("EFLIX_ENVFILE_B")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("EFLIX_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("EFLIX_ENVFILE_B"))
}

func TestLoadEnvFile_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EFLIX_ENVFILE_C=file\n"), 0o600))

	t.Setenv("EFLIX_ENVFILE_C", "env")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "env", os.Getenv("EFLIX_ENVFILE_C"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}
