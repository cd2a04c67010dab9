// Package redis shares the user pool's signing keys between processes.
//
// KeyStore implements cognito.SharedKeyStore: the first process to fetch the
// JWKS document stores it with the max-age the identity provider sent, and
// every other process reads it from Redis until it expires.
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, log)
//	auth, err := cognito.New(cfg, cognito.WithSharedKeyStore(redis.NewKeyStore(client)))
//
// Client implements observability.HealthChecker for the health endpoint.
package redis
