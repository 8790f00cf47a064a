package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// JWT TOKENS
// ══════════════════════════════════════════════════════════════════════════════

// Claims carried by an access token. The subject is the learner ID; the
// role lets the HTTP layer gate admin routes without a database read.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue returns a signed token for an account and its expiry moment.
func (m *TokenManager) Issue(account *identity.Account) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(account.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, shared.WrapError("identity", "IssueToken", shared.ErrInvalidState, "token signing failed", err)
	}

	return signed, expiresAt, nil
}

// Verify parses a token and returns the authenticated learner ID and
// role. Expired, malformed, or foreign-signed tokens are all reported
// as shared.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (shared.LearnerID, identity.Role, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", "", shared.ErrInvalidToken
	}

	role := identity.Role(claims.Role)
	if claims.Subject == "" || !role.IsValid() {
		return "", "", shared.ErrInvalidToken
	}

	return shared.LearnerID(claims.Subject), role, nil
}
