package revocation

import (
	"context"
	"time"
)

// Store records revoked access tokens by their JWT ID until they would have
// expired anyway. The auth middleware consults it on every request, so a
// logged-out token is rejected for the rest of its lifetime.
type Store interface {
	// Revoke marks a token ID as revoked for the given TTL.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token ID has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
