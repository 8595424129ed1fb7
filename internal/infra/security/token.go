package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates the token is malformed, unsigned by us, or
	// missing a subject claim.
	ErrInvalidToken = errors.New("token: invalid")
	// ErrExpiredToken indicates the token's expiry lies in the past.
	ErrExpiredToken = errors.New("token: expired")
)

const defaultAccessTokenTTL = 30 * time.Minute

// TokenService issues and validates stateless HS256 session tokens. Validity
// is determined purely by signature and expiry; there is no revocation list,
// so a compromised token remains valid until it naturally expires.
type TokenService struct {
	secret     []byte
	issuer     string
	defaultTTL time.Duration
}

// NewTokenService constructs a TokenService around a shared signing secret.
func NewTokenService(secret, issuer string, defaultTTL time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	if defaultTTL <= 0 {
		defaultTTL = defaultAccessTokenTTL
	}

	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		defaultTTL: defaultTTL,
	}, nil
}

// DefaultTTL returns the time-to-live applied when callers do not override it.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs a token for the subject using the service default TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.defaultTTL)
}

// IssueWithTTL signs a token with an explicit TTL. The TTL is applied as
// given: a zero or negative value produces an already-expired token.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("token: subject is required")
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Validate checks signature and expiry and returns the subject the token
// asserts. All failure modes map onto ErrInvalidToken or ErrExpiredToken;
// no parsing error escapes to the caller.
func (s *TokenService) Validate(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	if parsed == nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}
