package cognito

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/cognitoauth/authz"
	apperrors "github.com/kbukum/cognitoauth/errors"
	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/observability"
	"github.com/kbukum/cognitoauth/session"
	"github.com/kbukum/cognitoauth/validation"
)

// Auth is the login flow facade. It is safe for concurrent use; per-request
// state lives in the session.Store passed to each call.
type Auth struct {
	cfg       Config
	keys      *KeyCache
	exchanger Exchanger
	checker   authz.Checker
	log       *logger.Logger
	tel       *observability.Telemetry
	opts      []DecodeOption
}

// New validates cfg and builds an Auth. Collaborators not supplied through
// options are created from cfg.
func New(cfg Config, opts ...Option) (*Auth, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o, err := resolve(&cfg, opts)
	if err != nil {
		return nil, err
	}
	// Collaborators share the resolved client, logger, telemetry and clock.
	shared := []Option{
		WithHTTPClient(o.client),
		WithLogger(o.log),
		WithTelemetry(o.telemetry),
		WithClock(o.now),
	}

	if o.keyCache == nil {
		o.keyCache, err = NewKeyCache(cfg.PublicKeyURL(), append(shared, WithSharedKeyStore(o.shared))...)
		if err != nil {
			return nil, err
		}
	}
	if o.exchanger == nil {
		o.exchanger, err = NewOAuth2Exchanger(&cfg, shared...)
		if err != nil {
			return nil, err
		}
	}
	if o.checker == nil {
		o.checker = authz.SegmentChecker
	}

	a := &Auth{
		cfg:       cfg,
		keys:      o.keyCache,
		exchanger: o.exchanger,
		checker:   o.checker,
		log:       o.log.WithComponent("auth"),
		tel:       o.telemetry,
		opts:      []DecodeOption{WithTimeFunc(o.now)},
	}
	a.log.Info("cognito auth configured", logger.Fields("config", cfg.Describe()))
	return a, nil
}

// Config returns a copy of the effective configuration.
func (a *Auth) Config() Config {
	return a.cfg
}

// Telemetry returns the instrumentation used by a.
func (a *Auth) Telemetry() *observability.Telemetry {
	return a.tel
}

// LoginURL stores a fresh state in store and returns the hosted-UI login URL.
func (a *Auth) LoginURL(store session.Store) (string, error) {
	state, err := session.NewManager(store).GenerateState()
	if err != nil {
		return "", err
	}
	return a.cfg.LoginURL(state), nil
}

// LogoutURL stores a fresh state in store and returns the hosted-UI logout URL.
func (a *Auth) LogoutURL(store session.Store) (string, error) {
	state, err := session.NewManager(store).GenerateState()
	if err != nil {
		return "", err
	}
	return a.cfg.LogoutURL(state), nil
}

// PublicKeyURL returns the JWKS document URL.
func (a *Auth) PublicKeyURL() string {
	return a.cfg.PublicKeyURL()
}

// TokenURL returns the token endpoint URL.
func (a *Auth) TokenURL() string {
	return a.cfg.TokenURL()
}

// Keys returns the current signing keys.
func (a *Auth) Keys(ctx context.Context) (*KeySet, error) {
	return a.keys.Keys(ctx)
}

// Decode verifies token against the current signing keys.
func (a *Auth) Decode(ctx context.Context, token string) (*Claims, error) {
	keys, err := a.keys.Keys(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeToken(token, keys, a.opts...)
}

// ProcessCallback exchanges code for tokens, stores them, verifies the access
// token and stores the username and roles it carries. Errors are returned
// unchanged; tokens stored before a failure remain in the session.
func (a *Auth) ProcessCallback(ctx context.Context, store session.Store, code string) (err error) {
	ctx, span := a.tel.StartSpan(ctx, observability.SpanCallback)
	defer func() {
		observability.EndSpan(span, err)
		a.tel.Metrics().RecordCallback(ctx, observability.Outcome(err))
	}()

	if err := validation.Required("code", code); err != nil {
		return err
	}

	tokens, err := a.exchanger.Exchange(ctx, code)
	if err != nil {
		return err
	}
	if tokens == nil {
		return apperrors.Internal(errors.New("exchanger returned no tokens"))
	}
	m := session.NewManager(store)
	m.SaveTokens(*tokens)

	claims, err := a.Decode(ctx, tokens.AccessToken)
	if err != nil {
		a.log.Warn("access token rejected", logger.ErrorFields("callback", err))
		return err
	}
	m.SaveIdentity(claims.Username, claims.Roles)

	span.SetAttributes(attribute.Int("roles", len(claims.Roles)))
	a.log.Info("user logged in", logger.Fields(
		logger.FieldUsername, claims.Username,
		logger.FieldExpiresAt, tokens.ExpiresAt,
	))
	return nil
}

// LoggedIn reports whether store holds an access token that still verifies.
// An expired token is reported as false; any other failure is returned.
func (a *Auth) LoggedIn(ctx context.Context, store session.Store) (bool, error) {
	token, ok := session.NewManager(store).AccessToken()
	if !ok {
		return false, nil
	}
	if _, err := a.Decode(ctx, token); err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Logout clears store.
func (a *Auth) Logout(store session.Store) {
	session.NewManager(store).Logout()
}

// SetRedirect stores the URL to return to after login.
func (a *Auth) SetRedirect(store session.Store, url string) {
	session.NewManager(store).SetRedirect(url)
}

// Redirect returns the stored post-login URL.
func (a *Auth) Redirect(store session.Store) (string, bool) {
	return session.NewManager(store).Redirect()
}

// GenerateState stores and returns a fresh anti-forgery state.
func (a *Auth) GenerateState(store session.Store) (string, error) {
	return session.NewManager(store).GenerateState()
}

// ValidateState reports whether state matches the stored one.
func (a *Auth) ValidateState(store session.Store, state string) bool {
	return session.NewManager(store).ValidateState(state)
}

// Username returns the logged-in username, or "".
func (a *Auth) Username(store session.Store) string {
	return session.NewManager(store).Username()
}

// Roles returns the logged-in user's roles.
func (a *Auth) Roles(store session.Store) []string {
	return session.NewManager(store).Roles()
}

// MatchRole reports whether any of the session's roles matches pattern.
func (a *Auth) MatchRole(store session.Store, pattern string) bool {
	return a.checker.HasPermission(a.Roles(store), pattern)
}

// HasPermission reports whether the session's roles satisfy any of patterns.
func (a *Auth) HasPermission(store session.Store, patterns ...string) bool {
	return a.checker.HasPermission(a.Roles(store), patterns...)
}

// CheckHealth reports whether the signing keys can be obtained.
func (a *Auth) CheckHealth(ctx context.Context) observability.Health {
	return a.keys.CheckHealth(ctx)
}
