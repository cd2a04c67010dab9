package cognito

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kbukum/cognitoauth/errors"
)

// Claim names read from Cognito access tokens.
const (
	ClaimUsername        = "username"
	ClaimCognitoUsername = "cognito:username"
	ClaimGroups          = "cognito:groups"
)

var (
	// ErrExpiredToken is matched by errors.Is for tokens past their exp claim.
	ErrExpiredToken = apperrors.TokenExpired()
	// ErrInvalidToken is matched by errors.Is for every other validation failure.
	ErrInvalidToken = apperrors.InvalidToken()
)

var allowedAlgorithms = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}

// Claims is the decoded identity carried by an access token.
type Claims struct {
	Username  string
	Roles     []string
	Subject   string
	ExpiresAt time.Time
	Raw       map[string]any
}

type decodeOptions struct {
	now    func() time.Time
	leeway time.Duration
}

// DecodeOption configures DecodeToken.
type DecodeOption func(*decodeOptions)

// WithTimeFunc sets the clock used for exp and nbf checks.
func WithTimeFunc(now func() time.Time) DecodeOption {
	return func(o *decodeOptions) { o.now = now }
}

// WithLeeway allows for clock skew when checking exp and nbf.
func WithLeeway(d time.Duration) DecodeOption {
	return func(o *decodeOptions) { o.leeway = d }
}

// DecodeToken verifies token against keys and returns its claims. The key is
// selected by the kid header. Expired tokens fail with ErrExpiredToken; all
// other failures fail with ErrInvalidToken and carry the parser error as cause.
func DecodeToken(token string, keys *KeySet, opts ...DecodeOption) (*Claims, error) {
	o := decodeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []gojwt.ParserOption{gojwt.WithValidMethods(allowedAlgorithms)}
	if o.now != nil {
		parserOpts = append(parserOpts, gojwt.WithTimeFunc(o.now))
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, gojwt.WithLeeway(o.leeway))
	}

	parsed, err := gojwt.Parse(token, keyFunc(keys), parserOpts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired().WithCause(err)
		}
		return nil, apperrors.InvalidToken().WithCause(err)
	}
	mc, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.InvalidToken()
	}
	return claimsFromMap(mc), nil
}

func keyFunc(keys *KeySet) gojwt.Keyfunc {
	return func(t *gojwt.Token) (any, error) {
		if keys == nil {
			return nil, errors.New("no signing keys")
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token header has no kid")
		}
		key, err := keys.PublicKey(kid)
		if err != nil {
			return nil, fmt.Errorf("lookup signing key: %w", err)
		}
		return key, nil
	}
}

func claimsFromMap(mc gojwt.MapClaims) *Claims {
	c := &Claims{
		Username: stringClaim(mc, ClaimUsername),
		Roles:    stringsClaim(mc, ClaimGroups),
		Raw:      map[string]any(mc),
	}
	if c.Username == "" {
		c.Username = stringClaim(mc, ClaimCognitoUsername)
	}
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

func stringClaim(mc gojwt.MapClaims, name string) string {
	s, _ := mc[name].(string)
	return s
}

func stringsClaim(mc gojwt.MapClaims, name string) []string {
	out := []string{}
	switch v := mc[name].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, v...)
	case string:
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
