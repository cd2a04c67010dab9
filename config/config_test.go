package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/cognitoauth/logger"
)

type testSettings struct {
	ClientID    string        `mapstructure:"client_id"`
	Scopes      []string      `mapstructure:"cognito_scopes"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	EscapeQuery bool          `mapstructure:"escape_query"`
	Logging     logger.Config `mapstructure:"logging"`
}

type mockFS struct {
	t     *testing.T
	files map[string]bool
	env   map[string]string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	for k, v := range m.env {
		m.t.Setenv(k, v)
	}
	return nil
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CLIENT_ID", "test-client-id")
	t.Setenv("COGNITO_SCOPES", "openid,email")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("ESCAPE_QUERY", "true")

	var cfg testSettings
	if err := LoadConfig("cognito", &cfg, WithoutDiscovery(), WithLogger(logger.Nop())); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ClientID != "test-client-id" {
		t.Errorf("expected client id, got %q", cfg.ClientID)
	}
	if diff := cmp.Diff([]string{"openid", "email"}, cfg.Scopes); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.HTTPTimeout)
	}
	if !cfg.EscapeQuery {
		t.Error("expected escape_query=true")
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
client_id: yaml-client
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testSettings
	if err := LoadConfig("cognito", &cfg, WithConfigFile(configPath), WithoutDiscovery(), WithLogger(logger.Nop())); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("expected nested logging config, got %+v", cfg.Logging)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("client_id: yaml-client\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("CLIENT_ID", "env-client")

	var cfg testSettings
	if err := LoadConfig("cognito", &cfg, WithConfigFile(configPath), WithoutDiscovery(), WithLogger(logger.Nop())); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ClientID != "env-client" {
		t.Errorf("expected environment to win, got %q", cfg.ClientID)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	fs := &mockFS{
		t:     t,
		files: map[string]bool{"./.env": true},
		env:   map[string]string{"CLIENT_ID": "dotenv-client"},
	}

	var cfg testSettings
	if err := LoadConfig("cognito", &cfg, WithFileSystem(fs), WithLogger(logger.Nop())); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ClientID != "dotenv-client" {
		t.Errorf("expected value from .env, got %q", cfg.ClientID)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testSettings
	err := LoadConfig("cognito", &cfg, WithConfigFile("/nonexistent/path.yml"), WithoutDiscovery(), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{t: t, files: map[string]bool{
		"./config/cognito.yml": true,
		"./config.yml":         true,
		"./.env":               true,
	}}
	resolver := &Resolver{FileSystem: fs}

	files := resolver.ResolveFiles("cognito", LoaderConfig{})
	if files.ConfigFile != "./config/cognito.yml" {
		t.Errorf("expected service config file first, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}

	files = resolver.ResolveFiles("cognito", LoaderConfig{NoDiscovery: true, EnvFile: "custom.env"})
	if files.ConfigFile != "" || files.EnvFile != "custom.env" {
		t.Errorf("expected only explicit files without discovery, got %+v", files)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"PATH", []string{"path"}},
		{"CLIENT_ID", []string{"client_id", "client.id"}},
		{"LOGGING_NO_COLOR", []string{"logging_no_color", "logging.no.color", "logging.no_color"}},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, generateEnvKeyVariants(tc.key)); diff != "" {
				t.Errorf("variants mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithoutDiscovery()(&lc)
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || !lc.NoDiscovery {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
