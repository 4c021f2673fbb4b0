package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// ErrMissingSigningSecret is returned when the issuer is built without a secret.
var ErrMissingSigningSecret = errors.New("jwt signing secret must not be empty")

// Claims is the signed token payload.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and verifies HS256 access tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer. The secret is process-wide and must be
// non-empty; a zero or negative ttl falls back to 24h.
func NewTokenIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSigningSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token asserting the principal's id, email and role. The
// output depends only on the principal and the clock.
func (i *JWTIssuer) Issue(principal *domain.Principal) (string, error) {
	if principal == nil {
		return "", fmt.Errorf("issue token: %w", domain.ErrUnauthorized)
	}

	now := i.now()
	claims := &Claims{
		UserID: principal.ID,
		Email:  principal.Email,
		Role:   string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principal.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and decodes the claims.
func (i *JWTIssuer) Verify(token string) (*domain.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: unexpected claims", domain.ErrInvalidToken)
	}

	return &domain.Principal{ID: claims.UserID, Email: claims.Email, Role: role}, nil
}
