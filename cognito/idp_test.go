package cognito

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/cognitoauth/logger"
)

const (
	testClientID     = "test-client-id"
	testClientSecret = "test-client-secret"
	testCallbackURL  = "http://test-app-host.test.com/auth/callback"
	testKeyID        = "test-key-1"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	rsaKeyOnce sync.Once
	rsaKey     *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	rsaKeyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("generate rsa key: %v", err)
		}
		rsaKey = k
	})
	return rsaKey
}

// jwksDocument renders a JWKS holding the public half of key under kid.
func jwksDocument(t *testing.T, key *rsa.PrivateKey, kid string) []byte {
	t.Helper()
	enc := base64.RawURLEncoding
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"alg": "RS256",
			"n":   enc.EncodeToString(key.N.Bytes()),
			"e":   enc.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return b
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims gojwt.MapClaims) string {
	t.Helper()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func accessClaims(username string, groups []string, exp time.Time) gojwt.MapClaims {
	c := gojwt.MapClaims{
		"sub":       "sub-" + username,
		"username":  username,
		"token_use": "access",
		"exp":       exp.Unix(),
		"iat":       exp.Add(-time.Hour).Unix(),
	}
	if groups != nil {
		c["cognito:groups"] = groups
	}
	return c
}

type tokenGrant struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// fakeIDP serves the JWKS and token endpoints of a user pool.
type fakeIDP struct {
	t      *testing.T
	srv    *httptest.Server
	key    *rsa.PrivateKey
	jwks   []byte
	maxAge atomic.Value // Cache-Control header value

	jwksStatus atomic.Int32
	jwksDelay  atomic.Int64 // time.Duration
	jwksHits   atomic.Int32
	tokenHits  atomic.Int32

	mu     sync.Mutex
	grants map[string]tokenGrant
}

func newFakeIDP(t *testing.T) *fakeIDP {
	t.Helper()
	f := &fakeIDP{
		t:      t,
		key:    signingKey(t),
		grants: map[string]tokenGrant{},
	}
	f.jwks = jwksDocument(t, f.key, testKeyID)
	f.maxAge.Store("max-age=3600")
	f.jwksStatus.Store(http.StatusOK)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+publicKeyPath, f.serveJWKS)
	mux.HandleFunc("POST "+tokenPath, f.serveToken)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIDP) serveJWKS(w http.ResponseWriter, _ *http.Request) {
	f.jwksHits.Add(1)
	if d := time.Duration(f.jwksDelay.Load()); d > 0 {
		time.Sleep(d)
	}
	if cc, _ := f.maxAge.Load().(string); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	status := int(f.jwksStatus.Load())
	if status != http.StatusOK {
		http.Error(w, "unavailable", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(f.jwks)
}

func (f *fakeIDP) serveToken(w http.ResponseWriter, r *http.Request) {
	f.tokenHits.Add(1)
	w.Header().Set("Content-Type", "application/json")

	id, secret, ok := r.BasicAuth()
	if !ok || id != testClientID || secret != testClientSecret {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	grant, found := f.grants[r.PostForm.Get("code")]
	f.mu.Unlock()

	if r.PostForm.Get("grant_type") != "authorization_code" ||
		r.PostForm.Get("redirect_uri") != testCallbackURL || !found {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code is not valid"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(grant)
}

// grant registers the token set returned for code.
func (f *fakeIDP) grant(code string, g tokenGrant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants[code] = g
}

func (f *fakeIDP) config() Config {
	return Config{
		ClientID:        testClientID,
		ClientSecret:    testClientSecret,
		CallbackURL:     testCallbackURL,
		CognitoDomain:   f.srv.URL,
		CognitoEndpoint: f.srv.URL,
	}
}

func (f *fakeIDP) newAuth(t *testing.T, opts ...Option) *Auth {
	t.Helper()
	base := []Option{WithLogger(logger.Nop()), WithClock(func() time.Time { return testNow })}
	a, err := New(f.config(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// fixtureConfig mirrors a deployed configuration with unreachable hosts.
func fixtureConfig() Config {
	return Config{
		ClientID:        testClientID,
		ClientSecret:    testClientSecret,
		CallbackURL:     testCallbackURL,
		CognitoDomain:   "https://test-cognito-domain.test.com",
		CognitoEndpoint: "https://test-cognito-endpoint.test.com",
	}
}
