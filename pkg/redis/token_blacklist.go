package redis

import (
	"context"
	"errors"
	"time"
)

const revokedTokenPrefix = "revoked_jti:"

var (
	setRevokedValue    = Set
	existsRevokedValue = Exists
)

// TokenBlacklist records revoked JWT ids until their natural expiry
type TokenBlacklist struct{}

// NewTokenBlacklist creates a blacklist backed by the shared client
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{}
}

// Revoke marks jti as revoked for ttl. Tokens already past expiry need no entry.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("token id is required")
	}
	if ttl <= 0 {
		return nil
	}
	return setRevokedValue(ctx, revokedTokenPrefix+jti, "1", ttl)
}

// IsRevoked reports whether jti was revoked
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return existsRevokedValue(ctx, revokedTokenPrefix+jti)
}
