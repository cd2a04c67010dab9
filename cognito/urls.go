package cognito

import (
	"net/url"
	"strings"
)

const (
	loginPath     = "/login"
	logoutPath    = "/logout"
	tokenPath     = "/oauth2/token"
	publicKeyPath = "/.well-known/jwks.json"
)

// LoginURL returns the hosted-UI login URL carrying state.
func (c *Config) LoginURL(state string) string {
	return c.authorizeURL(loginPath, state)
}

// LogoutURL returns the hosted-UI logout URL carrying state.
func (c *Config) LogoutURL(state string) string {
	return c.authorizeURL(logoutPath, state)
}

// PublicKeyURL returns the user pool's JWKS document URL.
func (c *Config) PublicKeyURL() string {
	return FixURL(c.CognitoEndpoint) + publicKeyPath
}

// TokenURL returns the OAuth2 token endpoint URL.
func (c *Config) TokenURL() string {
	return FixURL(c.CognitoDomain) + tokenPath
}

// authorizeURL keeps the parameter order client_id, response_type, scope,
// redirect_uri, state. Values are substituted verbatim unless EscapeQuery is set.
func (c *Config) authorizeURL(path, state string) string {
	enc := func(s string) string { return s }
	if c.EscapeQuery {
		enc = url.QueryEscape
	}

	scopes := make([]string, len(c.Scopes))
	for i, s := range c.Scopes {
		scopes[i] = enc(s)
	}

	var b strings.Builder
	b.WriteString(FixURL(c.CognitoDomain))
	b.WriteString(path)
	b.WriteString("?client_id=")
	b.WriteString(enc(c.ClientID))
	b.WriteString("&response_type=code")
	b.WriteString("&scope=")
	b.WriteString(strings.Join(scopes, "+"))
	b.WriteString("&redirect_uri=")
	b.WriteString(enc(c.CallbackURL))
	b.WriteString("&state=")
	b.WriteString(enc(state))
	return b.String()
}
