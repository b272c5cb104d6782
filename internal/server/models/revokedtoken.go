package models

import "time"

// RevokedToken is a blocklist entry. CreatedAt is the revocation time and
// ExpiresAt the natural expiry of the revoked token, kept only for pruning.
type RevokedToken struct {
	ID        int64
	JTI       string
	CreatedAt time.Time
	ExpiresAt time.Time
}
