// Package redis provides Redis client initialization and health checking.
//
// It wraps the go-redis client with URL validation, retry logic, and a ping
// verification so the client returned by Connect is known to be reachable.
// Both redis:// and rediss:// (TLS) connection URLs are supported.
//
// Usage:
//
//	cfg := config.MustLoad[redis.Config]()
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
package redis
