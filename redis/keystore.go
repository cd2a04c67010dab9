package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// KeyStore keeps JWKS documents in Redis for cognito.WithSharedKeyStore.
// Each document lives under {KeyPrefix}:jwks:{url} and expires with the
// max-age it was fetched with.
type KeyStore struct {
	client *Client
	prefix string
}

// NewKeyStore creates a KeyStore on client.
func NewKeyStore(client *Client) *KeyStore {
	return &KeyStore{client: client, prefix: client.cfg.KeyPrefix + ":jwks:"}
}

func (s *KeyStore) key(url string) string {
	return s.prefix + url
}

// LoadKeys returns the stored document for url and its remaining lifetime.
// A missing key yields a nil document.
func (s *KeyStore) LoadKeys(ctx context.Context, url string) ([]byte, time.Duration, error) {
	var get *goredis.StringCmd
	var ttl *goredis.DurationCmd
	_, err := s.client.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		get = pipe.Get(ctx, s.key(url))
		ttl = pipe.PTTL(ctx, s.key(url))
		return nil
	})
	if errors.Is(err, goredis.Nil) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("jwks load %q: %w", url, err)
	}
	doc, err := get.Bytes()
	if err != nil {
		return nil, 0, fmt.Errorf("jwks load %q: %w", url, err)
	}
	remaining := ttl.Val()
	if remaining <= 0 {
		// No expiry or already gone; let the caller fetch.
		return nil, 0, nil
	}
	return doc, remaining, nil
}

// StoreKeys saves doc for url for ttl.
func (s *KeyStore) StoreKeys(ctx context.Context, url string, doc []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.rdb.Set(ctx, s.key(url), doc, ttl).Err(); err != nil {
		return fmt.Errorf("jwks store %q: %w", url, err)
	}
	return nil
}

// Delete drops the stored document for url.
func (s *KeyStore) Delete(ctx context.Context, url string) error {
	if err := s.client.rdb.Del(ctx, s.key(url)).Err(); err != nil {
		return fmt.Errorf("jwks delete %q: %w", url, err)
	}
	return nil
}
