package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alphamind/alphamind-backend/internal/application/command"
	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE LEARNER QUERY
// Логин: проверка пароля и выпуск подписанного токена. Неизвестный email
// и неверный пароль неразличимы снаружи - обе ветки отдают
// ErrInvalidCredentials.
// ══════════════════════════════════════════════════════════════════════════════

// TokenIssuer выпускает подписанные токены доступа.
type TokenIssuer interface {
	// Issue возвращает токен для учётной записи и момент его истечения.
	Issue(account *identity.Account) (token string, expiresAt time.Time, err error)
}

// AuthenticateLearnerQuery содержит учётные данные.
type AuthenticateLearnerQuery struct {
	Email    string
	Password string
}

// Validate проверяет параметры запроса.
func (q AuthenticateLearnerQuery) Validate() error {
	if strings.TrimSpace(q.Email) == "" || q.Password == "" {
		return shared.NewDomainError("query", "AuthenticateLearner", shared.ErrEmptyValue, "email and password are required")
	}
	return nil
}

// AuthenticateLearnerResult содержит токен и учётную запись.
type AuthenticateLearnerResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *identity.Account
}

// AuthenticateLearnerHandler обрабатывает AuthenticateLearnerQuery.
type AuthenticateLearnerHandler struct {
	accounts identity.Repository
	hasher   command.PasswordHasher
	issuer   TokenIssuer
}

// NewAuthenticateLearnerHandler создаёт новый AuthenticateLearnerHandler.
func NewAuthenticateLearnerHandler(accounts identity.Repository, hasher command.PasswordHasher, issuer TokenIssuer) *AuthenticateLearnerHandler {
	return &AuthenticateLearnerHandler{
		accounts: accounts,
		hasher:   hasher,
		issuer:   issuer,
	}
}

// Handle выполняет аутентификацию.
func (h *AuthenticateLearnerHandler) Handle(ctx context.Context, q AuthenticateLearnerQuery) (*AuthenticateLearnerResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("authenticate_learner: validation failed: %w", err)
	}

	account, err := h.accounts.GetByEmail(ctx, identity.NormalizeEmail(q.Email))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := h.hasher.Verify(account.PasswordHash, q.Password); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := h.issuer.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("authenticate_learner: token issue failed: %w", err)
	}

	return &AuthenticateLearnerResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}
