package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

func tokenAccount() *identity.Account {
	return &identity.Account{
		ID:           "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b",
		Name:         "Amina",
		Email:        "amina@example.com",
		PasswordHash: "x",
		Role:         identity.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", "alphamind", time.Hour)

	token, expiresAt, err := m.Issue(tokenAccount())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	learnerID, role, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, shared.LearnerID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b"), learnerID)
	assert.Equal(t, identity.RoleAdmin, role)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "alphamind", time.Hour)
	verifier := NewTokenManager("secret-b", "alphamind", time.Hour)

	token, _, err := issuer.Issue(tokenAccount())
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", "alphamind", -time.Minute)

	token, _, err := m.Issue(tokenAccount())
	require.NoError(t, err)

	_, _, err = m.Verify(token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	m := NewTokenManager("test-secret", "alphamind", time.Hour)

	_, _, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)

	_, _, err = m.Verify("")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, h.Verify(hash, "secret123"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), shared.ErrInvalidCredentials)
}

func TestBcryptHasher_CostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of failing.
	h := NewBcryptHasher(99)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NoError(t, h.Verify(hash, "secret123"))
}
