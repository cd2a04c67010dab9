package cognito

import (
	"time"

	"github.com/kbukum/cognitoauth/authz"
	"github.com/kbukum/cognitoauth/httpclient"
	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/observability"
)

type options struct {
	exchanger Exchanger
	keyCache  *KeyCache
	checker   authz.Checker
	log       *logger.Logger
	telemetry *observability.Telemetry
	client    *httpclient.Client
	now       func() time.Time
	shared    SharedKeyStore
}

// Option configures Auth, KeyCache and OAuth2Exchanger. Each constructor
// reads only the options that apply to it.
type Option func(*options)

// WithExchanger replaces the OAuth2 code exchanger.
func WithExchanger(e Exchanger) Option {
	return func(o *options) { o.exchanger = e }
}

// WithKeyCache replaces the signing key cache.
func WithKeyCache(c *KeyCache) Option {
	return func(o *options) { o.keyCache = c }
}

// WithChecker replaces the role checker used by HasPermission.
func WithChecker(c authz.Checker) Option {
	return func(o *options) { o.checker = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTelemetry sets the tracing and metrics instrumentation.
func WithTelemetry(t *observability.Telemetry) Option {
	return func(o *options) { o.telemetry = t }
}

// WithHTTPClient sets the client used for key fetches and code exchange.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(o *options) { o.client = c }
}

// WithClock overrides the time source for cache expiry and token validation.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSharedKeyStore lets the key cache share fetched keys with other
// processes through store.
func WithSharedKeyStore(store SharedKeyStore) Option {
	return func(o *options) { o.shared = store }
}

// resolve applies opts and fills the shared defaults.
func resolve(cfg *Config, opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.log == nil {
		o.log = logger.NewDefault(serviceName)
	}
	if o.telemetry == nil {
		tel, err := observability.New()
		if err != nil {
			return nil, err
		}
		o.telemetry = tel
	}
	if o.client == nil {
		timeout := defaultHTTPTimeout
		if cfg != nil && cfg.HTTPTimeout > 0 {
			timeout = cfg.HTTPTimeout
		}
		client, err := httpclient.New(httpclient.Config{Timeout: timeout})
		if err != nil {
			return nil, err
		}
		o.client = client
	}
	return o, nil
}
