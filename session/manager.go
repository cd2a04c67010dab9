package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tokens is the token set returned by an authorization code exchange.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	// ExpiresAt is the absolute expiry of the access token. Zero if unknown.
	ExpiresAt time.Time
}

// Manager reads and writes login state on a Store.
type Manager struct {
	store Store
}

// NewManager wraps store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Store returns the wrapped store.
func (m *Manager) Store() Store {
	return m.store
}

// Username returns the stored username, or "" when anonymous.
func (m *Manager) Username() string {
	return m.str(KeyUsername)
}

// Roles returns the stored roles, or an empty slice when unset. Hosts that
// round-trip sessions through JSON store []any, which is accepted too.
func (m *Manager) Roles() []string {
	v, ok := m.store.Get(KeyRoles)
	if !ok {
		return []string{}
	}
	switch roles := v.(type) {
	case []string:
		out := make([]string, len(roles))
		copy(out, roles)
		return out
	case []any:
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Redirect returns the URL to return to after login.
func (m *Manager) Redirect() (string, bool) {
	s := m.str(KeyRedirectURL)
	return s, s != ""
}

// SetRedirect stores the URL to return to after login.
func (m *Manager) SetRedirect(url string) {
	m.store.Set(KeyRedirectURL, url)
}

// AccessToken returns the stored access token.
func (m *Manager) AccessToken() (string, bool) {
	s := m.str(KeyAccessToken)
	return s, s != ""
}

// IDToken returns the stored ID token.
func (m *Manager) IDToken() (string, bool) {
	s := m.str(KeyIDToken)
	return s, s != ""
}

// RefreshToken returns the stored refresh token.
func (m *Manager) RefreshToken() (string, bool) {
	s := m.str(KeyRefreshToken)
	return s, s != ""
}

// ExpiresAt returns the stored access token expiry.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	v, ok := m.store.Get(KeyExpiresAt)
	if !ok {
		return time.Time{}, false
	}
	switch e := v.(type) {
	case int64:
		return time.Unix(e, 0), true
	case int:
		return time.Unix(int64(e), 0), true
	case float64:
		return time.Unix(int64(e), 0), true
	case time.Time:
		return e, true
	default:
		return time.Time{}, false
	}
}

// SaveTokens stores the token set. The expiry is stored as Unix seconds.
func (m *Manager) SaveTokens(t Tokens) {
	m.store.Set(KeyAccessToken, t.AccessToken)
	m.store.Set(KeyIDToken, t.IDToken)
	m.store.Set(KeyRefreshToken, t.RefreshToken)
	var exp int64
	if !t.ExpiresAt.IsZero() {
		exp = t.ExpiresAt.Unix()
	}
	m.store.Set(KeyExpiresAt, exp)
}

// SaveIdentity stores the username and roles decoded from the access token.
func (m *Manager) SaveIdentity(username string, roles []string) {
	if roles == nil {
		roles = []string{}
	}
	m.store.Set(KeyUsername, username)
	m.store.Set(KeyRoles, roles)
}

// GenerateState creates a fresh anti-forgery state, replacing any prior one.
func (m *Manager) GenerateState() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := id.String()
	m.store.Set(KeyState, state)
	return state, nil
}

// ValidateState reports whether candidate equals the stored state exactly.
// An empty candidate or a missing stored state never validates.
func (m *Manager) ValidateState(candidate string) bool {
	if candidate == "" {
		return false
	}
	stored := m.str(KeyState)
	return stored != "" && stored == candidate
}

// Logout clears the whole session.
func (m *Manager) Logout() {
	m.store.Clear()
}

func (m *Manager) str(key string) string {
	v, ok := m.store.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
