package session

// Well-known session keys.
const (
	KeyAccessToken  = "access_token"
	KeyIDToken      = "id_token"
	KeyRefreshToken = "refresh_token"
	KeyExpiresAt    = "expires_at"
	KeyUsername     = "username"
	KeyRoles        = "roles"
	KeyRedirectURL  = "redirect_url"
	KeyState        = "state"
)

// Keys lists every key the library writes.
var Keys = []string{
	KeyAccessToken,
	KeyIDToken,
	KeyRefreshToken,
	KeyExpiresAt,
	KeyUsername,
	KeyRoles,
	KeyRedirectURL,
	KeyState,
}

// Store is the key-value session capability supplied by the host.
// Implementations must be safe for use by the goroutine serving the request.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Contains(key string) bool
	Clear()
}
