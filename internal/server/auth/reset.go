package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"
)

// ResetAudience marks password reset tokens.
const ResetAudience = "password-reset"

// ResetTokenManager issues and parses password reset tokens. Its key is
// derived from the server secret so a reset token never verifies as an
// access token and vice versa.
type ResetTokenManager struct {
	signer
}

func NewResetTokenManager(secretKey string, ttl time.Duration) *ResetTokenManager {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(ResetAudience))

	return &ResetTokenManager{signer{key: mac.Sum(nil), ttl: ttl, audience: ResetAudience, now: time.Now}}
}

func (m *ResetTokenManager) Issue(userID int64) (*AccessToken, error) {
	return m.issue(userID)
}

func (m *ResetTokenManager) Parse(raw string) (*Claims, error) {
	return m.parse(raw)
}
