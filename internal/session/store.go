// Package session keeps the list of revoked access tokens so that logout takes
// effect before a token expires.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyTokenID is returned when a revocation is requested without a token id.
var ErrEmptyTokenID = errors.New("token id is empty")

// Store records revoked token ids until their natural expiry.
type Store interface {
	// Revoke marks tokenID as revoked for ttl.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether tokenID was revoked and has not yet expired.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
