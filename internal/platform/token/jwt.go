package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/thudson/golf-scorecard/internal/domain/user"
)

// ErrInvalidToken covers every way a presented token can fail verification:
// bad signature, malformed payload, or expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

type accessClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens carrying the principal
// identity.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, crerr.New("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, crerr.Newf("jwt ttl must be positive, got %s", ttl)
	}

	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *JWTManager) Issue(p user.Principal) (string, error) {
	now := m.now().UTC()
	claims := accessClaims{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", crerr.Wrap(err, "sign access token")
	}

	return signed, nil
}

// VerifyAccessToken implements the httpapi TokenVerifier contract.
func (m *JWTManager) VerifyAccessToken(_ context.Context, raw string) (user.Principal, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return user.Principal{}, ErrInvalidToken
	}

	return user.Principal{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
