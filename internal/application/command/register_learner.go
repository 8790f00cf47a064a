package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER LEARNER COMMAND
// Creates a learner account with a bcrypt-hashed password. The progress
// engine itself never sees credentials - it receives the authenticated
// learner ID from the HTTP layer.
// ══════════════════════════════════════════════════════════════════════════════

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash returns the hash of a plaintext password.
	Hash(password string) (string, error)

	// Verify compares a hash against a plaintext candidate.
	Verify(hash, password string) error
}

// RegisterLearnerCommand contains the registration data.
type RegisterLearnerCommand struct {
	Name     string
	Email    string
	Password string
}

// Validate validates the command.
func (c RegisterLearnerCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("command", "RegisterLearner", shared.ErrEmptyValue, "name is required")
	}
	if !strings.Contains(c.Email, "@") {
		return shared.NewDomainError("command", "RegisterLearner", shared.ErrInvalidInput, "invalid email")
	}
	if len(c.Password) < 8 {
		return shared.NewDomainError("command", "RegisterLearner", shared.ErrInvalidInput, "password must be at least 8 characters")
	}
	return nil
}

// RegisterLearnerResult contains the created account.
type RegisterLearnerResult struct {
	Account *identity.Account
}

// RegisterLearnerHandler handles RegisterLearnerCommand.
type RegisterLearnerHandler struct {
	accounts identity.Repository
	hasher   PasswordHasher
}

// NewRegisterLearnerHandler creates a new RegisterLearnerHandler.
func NewRegisterLearnerHandler(accounts identity.Repository, hasher PasswordHasher) *RegisterLearnerHandler {
	return &RegisterLearnerHandler{
		accounts: accounts,
		hasher:   hasher,
	}
}

// Handle executes the command.
func (h *RegisterLearnerHandler) Handle(ctx context.Context, cmd RegisterLearnerCommand) (*RegisterLearnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_learner: validation failed: %w", err)
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register_learner: hashing failed: %w", err)
	}

	account := &identity.Account{
		ID:           shared.LearnerID(uuid.NewString()),
		Name:         strings.TrimSpace(cmd.Name),
		Email:        identity.NormalizeEmail(cmd.Email),
		PasswordHash: hash,
		Role:         identity.RoleLearner,
		CreatedAt:    time.Now().UTC(),
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := h.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return &RegisterLearnerResult{Account: account}, nil
}
