package cognito

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/httpcc"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/kbukum/cognitoauth/errors"
	"github.com/kbukum/cognitoauth/httpclient"
	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/observability"
)

const opKeyFetch = "jwks fetch"

// KeySet is a parsed JSON Web Key Set.
type KeySet struct {
	set jwk.Set
	raw []byte
}

// ParseKeySet parses a JWKS document.
func ParseKeySet(doc []byte) (*KeySet, error) {
	set, err := jwk.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}
	raw := make([]byte, len(doc))
	copy(raw, doc)
	return &KeySet{set: set, raw: raw}, nil
}

// Len returns the number of keys.
func (k *KeySet) Len() int {
	return k.set.Len()
}

// Raw returns the JWKS document as fetched.
func (k *KeySet) Raw() []byte {
	return k.raw
}

// PublicKey returns the raw public key for kid (*rsa.PublicKey, *ecdsa.PublicKey, ...).
func (k *KeySet) PublicKey(kid string) (any, error) {
	key, found := k.set.LookupKeyID(kid)
	if !found {
		return nil, fmt.Errorf("key ID %q not found in jwks", kid)
	}
	var raw any
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("export key %q: %w", kid, err)
	}
	return raw, nil
}

// SharedKeyStore shares fetched JWKS documents between processes so that a
// fleet fetches from the identity provider once per max-age. A nil doc from
// LoadKeys means nothing is stored.
type SharedKeyStore interface {
	LoadKeys(ctx context.Context, url string) (doc []byte, ttl time.Duration, err error)
	StoreKeys(ctx context.Context, url string, doc []byte, ttl time.Duration) error
}

type keySnapshot struct {
	keys      *KeySet
	expiresAt time.Time
}

// KeyCache fetches and caches the user pool's signing keys. Keys and their
// expiry live in one immutable snapshot that is swapped as a whole, so
// readers never see keys from one fetch with the expiry of another.
type KeyCache struct {
	url    string
	client *httpclient.Client
	log    *logger.Logger
	tel    *observability.Telemetry
	now    func() time.Time
	shared SharedKeyStore

	mu      sync.RWMutex
	snap    *keySnapshot
	refresh singleflight.Group
}

// NewKeyCache creates a cache for the JWKS document at url. It honours
// WithHTTPClient, WithLogger, WithTelemetry, WithClock and WithSharedKeyStore.
func NewKeyCache(url string, opts ...Option) (*KeyCache, error) {
	o, err := resolve(nil, opts)
	if err != nil {
		return nil, err
	}
	return &KeyCache{
		url:    url,
		client: o.client,
		log:    o.log.WithComponent("jwks"),
		tel:    o.telemetry,
		now:    o.now,
		shared: o.shared,
	}, nil
}

// Keys returns the cached key set, fetching it when the cache is empty or
// now is past the recorded expiry. Concurrent callers share one in-flight
// fetch and its result; each caller still returns when its own ctx is done.
func (c *KeyCache) Keys(ctx context.Context) (*KeySet, error) {
	if keys := c.current(); keys != nil {
		return keys, nil
	}

	ch := c.refresh.DoChan(c.url, func() (any, error) {
		return c.reload(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	case <-ctx.Done():
		return nil, apperrors.Transport(opKeyFetch, ctx.Err())
	}
}

// current returns the cached keys while they are fresh.
func (c *KeyCache) current() *KeySet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s := c.snap; s != nil && !c.now().After(s.expiresAt) {
		return s.keys
	}
	return nil
}

func (c *KeyCache) setSnapshot(keys *KeySet, ttl time.Duration) *keySnapshot {
	s := &keySnapshot{keys: keys, expiresAt: c.now().Add(ttl)}
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
	return s
}

// reload runs at most once at a time per cache.
func (c *KeyCache) reload(ctx context.Context) (*KeySet, error) {
	if keys := c.current(); keys != nil {
		return keys, nil
	}
	if keys, ok := c.loadShared(ctx); ok {
		return keys, nil
	}

	keys, maxAge, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s := c.setSnapshot(keys, maxAge)
	c.storeShared(ctx, keys, maxAge)
	c.log.Debug("signing keys fetched", logger.Fields(
		logger.FieldURL, c.url,
		logger.FieldMaxAge, int64(maxAge/time.Second),
		logger.FieldKeyCount, keys.Len(),
		logger.FieldExpiresAt, s.expiresAt,
	))
	return keys, nil
}

// ExpiresAt returns the expiry of the cached keys, or the zero time.
func (c *KeyCache) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return time.Time{}
	}
	return c.snap.expiresAt
}

// Invalidate drops the cached keys so the next Keys call refetches.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}

// CheckHealth reports whether signing keys can be obtained.
func (c *KeyCache) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{Name: "cognito.jwks", Status: observability.HealthStatusUp}
	keys, err := c.Keys(ctx)
	switch {
	case err != nil:
		h.Status = observability.HealthStatusDown
		h.Message = err.Error()
	case keys.Len() == 0:
		h.Status = observability.HealthStatusDegraded
		h.Message = "jwks document has no keys"
	default:
		h.Details = map[string]string{
			"keys":       fmt.Sprint(keys.Len()),
			"expires_at": c.ExpiresAt().UTC().Format(time.RFC3339),
		}
	}
	return h
}

// loadShared fills the snapshot from the shared store. Store failures fall
// back to a fetch.
func (c *KeyCache) loadShared(ctx context.Context) (*KeySet, bool) {
	if c.shared == nil {
		return nil, false
	}
	doc, ttl, err := c.shared.LoadKeys(ctx, c.url)
	if err != nil {
		c.log.Warn("shared key store unavailable", logger.ErrorFields("jwks_shared_load", err))
		return nil, false
	}
	if doc == nil || ttl <= 0 {
		return nil, false
	}
	keys, err := ParseKeySet(doc)
	if err != nil {
		c.log.Warn("ignoring undecodable shared key set", logger.ErrorFields("jwks_shared_load", err))
		return nil, false
	}
	s := c.setSnapshot(keys, ttl)
	c.log.Debug("signing keys loaded from shared store", logger.Fields(
		logger.FieldURL, c.url,
		logger.FieldKeyCount, keys.Len(),
		logger.FieldExpiresAt, s.expiresAt,
	))
	return keys, true
}

// storeShared publishes freshly fetched keys. Uncacheable responses are not
// shared.
func (c *KeyCache) storeShared(ctx context.Context, keys *KeySet, maxAge time.Duration) {
	if c.shared == nil || maxAge <= 0 {
		return
	}
	if err := c.shared.StoreKeys(ctx, c.url, keys.Raw(), maxAge); err != nil {
		c.log.Warn("shared key store write failed", logger.ErrorFields("jwks_shared_store", err))
	}
}

func (c *KeyCache) fetch(ctx context.Context) (keys *KeySet, maxAge time.Duration, err error) {
	start := time.Now()
	ctx, span := c.tel.StartSpan(ctx, observability.SpanKeyFetch, attribute.String(observability.AttrURL, c.url))
	defer func() {
		observability.EndSpan(span, err)
		c.tel.Metrics().RecordKeyFetch(ctx, observability.Outcome(err), time.Since(start))
		if err != nil {
			c.log.Warn("signing key fetch failed", logger.ErrorFields(opKeyFetch, err))
		}
	}()

	resp, err := c.client.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    c.url,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, 0, httpclient.AsTransport(opKeyFetch, err)
	}

	keys, err = ParseKeySet(resp.Body)
	if err != nil {
		return nil, 0, apperrors.Transport(opKeyFetch, err)
	}

	maxAge = parseMaxAge(resp.Header("Cache-Control"))
	span.SetAttributes(
		attribute.Int(observability.AttrStatusCode, resp.StatusCode),
		attribute.Int64(observability.AttrMaxAge, int64(maxAge/time.Second)),
		attribute.Int(observability.AttrKeyCount, keys.Len()),
	)
	return keys, maxAge, nil
}

// parseMaxAge returns the Cache-Control max-age, or 0 when absent or invalid.
func parseMaxAge(header string) time.Duration {
	if header == "" {
		return 0
	}
	directives, err := httpcc.ParseResponse(header)
	if err != nil {
		return 0
	}
	seconds, ok := directives.MaxAge()
	if !ok {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
