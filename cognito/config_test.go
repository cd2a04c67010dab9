package cognito

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/cognitoauth/config"
	apperrors "github.com/kbukum/cognitoauth/errors"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{
		CognitoDomain:   "test-cognito-domain.test.com/",
		CognitoEndpoint: " http://test-cognito-endpoint.test.com/ ",
		CallbackURL:     "test-app-host.test.com/auth/callback",
	}
	cfg.ApplyDefaults()

	if diff := cmp.Diff(DefaultScopes(), cfg.Scopes); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout)
	}
	if cfg.CognitoDomain != "https://test-cognito-domain.test.com" {
		t.Errorf("CognitoDomain = %q", cfg.CognitoDomain)
	}
	if cfg.CognitoEndpoint != "http://test-cognito-endpoint.test.com" {
		t.Errorf("CognitoEndpoint = %q", cfg.CognitoEndpoint)
	}
	if cfg.CallbackURL != "https://test-app-host.test.com/auth/callback" {
		t.Errorf("CallbackURL = %q", cfg.CallbackURL)
	}
}

func TestConfig_ApplyDefaults_KeepsScopes(t *testing.T) {
	cfg := Config{Scopes: []string{" openid ", "", "email"}}
	cfg.ApplyDefaults()
	if diff := cmp.Diff([]string{"openid", "email"}, cfg.Scopes); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}

	blank := Config{Scopes: []string{" ", ""}}
	blank.ApplyDefaults()
	if diff := cmp.Diff(DefaultScopes(), blank.Scopes); diff != "" {
		t.Errorf("blank scopes should fall back to defaults (-want +got):\n%s", diff)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := fixtureConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfig_Validate_NamesEveryMissingField(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if !stderrors.Is(err, apperrors.Configuration()) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	want := []string{"client_id", "client_secret", "callback_url", "cognito_domain", "cognito_endpoint"}
	if diff := cmp.Diff(want, appErr.Details["fields"]); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_DescribeMasksSecret(t *testing.T) {
	cfg := fixtureConfig()
	cfg.ApplyDefaults()

	for name, s := range map[string]string{"Describe": cfg.Describe(), "String": cfg.String()} {
		if strings.Contains(s, testClientSecret) {
			t.Errorf("%s leaks the client secret: %q", name, s)
		}
		if !strings.Contains(s, "client_secret=****") || !strings.Contains(s, testClientID) {
			t.Errorf("%s = %q", name, s)
		}
	}
}

func TestFixURL(t *testing.T) {
	tests := map[string]string{
		"example.com":          "https://example.com",
		"https://example.com":  "https://example.com",
		"http://localhost:80":  "http://localhost:80",
		"ftp://example.com":    "https://ftp://example.com",
		"httpbin.org/anything": "https://httpbin.org/anything",
	}
	for in, want := range tests {
		if got := FixURL(in); got != want {
			t.Errorf("FixURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("CLIENT_ID", testClientID)
	t.Setenv("CLIENT_SECRET", testClientSecret)
	t.Setenv("CALLBACK_URL", testCallbackURL)
	t.Setenv("COGNITO_DOMAIN", "test-cognito-domain.test.com")
	t.Setenv("COGNITO_ENDPOINT", "https://test-cognito-endpoint.test.com")
	t.Setenv("COGNITO_SCOPES", "openid,email")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg, err := LoadConfig(config.WithoutDiscovery())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ClientID != testClientID || cfg.ClientSecret != testClientSecret {
		t.Errorf("client credentials not loaded: %s", cfg.Describe())
	}
	if cfg.CognitoDomain != "https://test-cognito-domain.test.com" {
		t.Errorf("CognitoDomain = %q", cfg.CognitoDomain)
	}
	if diff := cmp.Diff([]string{"openid", "email"}, cfg.Scopes); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %v, want 3s", cfg.HTTPTimeout)
	}
}

func TestLoadConfig_MissingSettings(t *testing.T) {
	for _, k := range []string{"CLIENT_ID", "CLIENT_SECRET", "CALLBACK_URL", "COGNITO_DOMAIN", "COGNITO_ENDPOINT"} {
		t.Setenv(k, "")
	}
	t.Setenv("CLIENT_ID", testClientID)

	_, err := LoadConfig(config.WithoutDiscovery())
	if !apperrors.HasCode(err, apperrors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if strings.Contains(err.Error(), "client_id") {
		t.Errorf("client_id was set but reported missing: %v", err)
	}
	if !strings.Contains(err.Error(), "client_secret") {
		t.Errorf("expected client_secret to be reported: %v", err)
	}
}
