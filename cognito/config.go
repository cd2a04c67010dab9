package cognito

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/cognitoauth/config"
	"github.com/kbukum/cognitoauth/validation"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	serviceName        = "cognito"
)

// DefaultScopes returns the scopes requested when none are configured.
func DefaultScopes() []string {
	return []string{
		"aws.cognito.signin.user.admin",
		"email",
		"openid",
		"phone",
		"profile",
	}
}

// Config holds the identity provider settings. Tags double as environment
// keys: CLIENT_ID populates ClientID, COGNITO_SCOPES (comma separated)
// populates Scopes.
type Config struct {
	ClientID        string        `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret    string        `yaml:"client_secret" mapstructure:"client_secret" validate:"required"`
	CallbackURL     string        `yaml:"callback_url" mapstructure:"callback_url" validate:"required,url"`
	CognitoDomain   string        `yaml:"cognito_domain" mapstructure:"cognito_domain" validate:"required,url"`
	CognitoEndpoint string        `yaml:"cognito_endpoint" mapstructure:"cognito_endpoint" validate:"required,url"`
	Scopes          []string      `yaml:"cognito_scopes" mapstructure:"cognito_scopes" validate:"min=1"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" mapstructure:"http_timeout" validate:"gt=0"`
	EscapeQuery     bool          `yaml:"escape_query" mapstructure:"escape_query"`
}

// ApplyDefaults fills scopes and timeout and normalizes the URL fields.
// Empty URL fields stay empty so Validate can report them.
func (c *Config) ApplyDefaults() {
	scopes := make([]string, 0, len(c.Scopes))
	for _, s := range c.Scopes {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}
	c.Scopes = scopes

	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}

	c.CallbackURL = normalizeURL(c.CallbackURL)
	c.CognitoDomain = strings.TrimRight(normalizeURL(c.CognitoDomain), "/")
	c.CognitoEndpoint = strings.TrimRight(normalizeURL(c.CognitoEndpoint), "/")
}

// Validate reports every missing or malformed field in one
// CONFIGURATION_ERROR.
func (c *Config) Validate() error {
	return validation.ValidateConfig(c)
}

// Describe returns a one-line summary safe to log; the secret is masked.
func (c Config) Describe() string {
	secret := ""
	if c.ClientSecret != "" {
		secret = "****"
	}
	return fmt.Sprintf("cognito client_id=%s client_secret=%s domain=%s endpoint=%s callback=%s scopes=%s",
		c.ClientID, secret, c.CognitoDomain, c.CognitoEndpoint, c.CallbackURL, strings.Join(c.Scopes, ","))
}

// String implements fmt.Stringer without exposing the secret.
func (c Config) String() string {
	return c.Describe()
}

// LoadConfig reads the settings from the environment (and optional .env or
// YAML files), applies defaults and validates. It fails fast with a
// CONFIGURATION_ERROR naming every missing field.
func LoadConfig(opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FixURL prepends https:// unless url already starts with http:// or https://.
func FixURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	return FixURL(url)
}
