// Package auth issues and parses the HS256 JWTs used for access and for
// password reset. Both kinds carry a random jti so each can be revoked
// individually.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the registered claims used by every token. Subject holds the
// decimal user id and ID holds the jti.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses Subject.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", common.ErrInvalidToken)
	}
	return id, nil
}

// ExpiresAtTime returns exp, or the zero time if absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// AccessToken is a signed token together with the claims worth logging or
// returning to clients.
type AccessToken struct {
	Token     string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// signer holds the key and policy of one token kind.
type signer struct {
	key      []byte
	ttl      time.Duration
	audience string
	now      func() time.Time
}

// SetClock replaces the time source used when issuing and checking tokens.
func (s *signer) SetClock(now func() time.Time) {
	s.now = now
}

func (s *signer) issue(userID int64) (*AccessToken, error) {
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, err
	}

	return &AccessToken{Token: token, JTI: jti, IssuedAt: now, ExpiresAt: exp}, nil
}

// parse verifies signature first and claims second, so a forged token is
// reported as invalid even when it is also expired.
func (s *signer) parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing sub or jti", common.ErrInvalidToken)
	}
	// reset tokens carry an audience, access tokens never do
	if s.audience == "" && len(claims.Audience) > 0 {
		return nil, fmt.Errorf("%w: unexpected audience", common.ErrInvalidToken)
	}

	return claims, nil
}

// TokenManager issues and parses access tokens.
type TokenManager struct {
	signer
}

func NewTokenManager(secretKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{signer{key: []byte(secretKey), ttl: ttl, now: time.Now}}
}

// Issue mints an access token for userID with a fresh jti.
func (m *TokenManager) Issue(userID int64) (*AccessToken, error) {
	return m.issue(userID)
}

// Parse verifies raw and returns its claims. Errors match
// common.ErrInvalidToken or common.ErrTokenExpired. Revocation is not checked here.
func (m *TokenManager) Parse(raw string) (*Claims, error) {
	return m.parse(raw)
}
