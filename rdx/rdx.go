package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init dials redis. A missing REDIS_ADDR leaves Conn nil and the callers
// degrade gracefully (no token revocation list).
func Init(addr string) error {
	if addr == "" {
		return nil
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	return Conn.Ping(context.Background()).Err()
}

const revokedPrefix = "revoked:"

// RevokeToken blacklists a JWT until its natural expiry.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if Conn == nil || ttl <= 0 {
		return nil
	}
	return Conn.Set(ctx, revokedPrefix+token, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token was blacklisted by logout.
// Redis being down or absent fails open; the JWT signature check still stands.
func IsTokenRevoked(ctx context.Context, token string) bool {
	if Conn == nil {
		return false
	}
	n, err := Conn.Exists(ctx, revokedPrefix+token).Result()
	return err == nil && n > 0
}
