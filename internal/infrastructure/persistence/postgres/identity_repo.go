package postgres

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// IdentityRepository implements identity.Repository using PostgreSQL.
// Email uniqueness is enforced by the unique constraint, not by a
// lookup before insert.
type IdentityRepository struct {
	conn *Connection
}

// NewIdentityRepository creates a new IdentityRepository.
func NewIdentityRepository(conn *Connection) *IdentityRepository {
	return &IdentityRepository{conn: conn}
}

const accountColumns = `id, name, email, password_hash, role, created_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*identity.Account, error) {
	var a identity.Account
	var id, role string
	err := row.Scan(
		&id,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&role,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = shared.LearnerID(id)
	a.Role = identity.Role(role)
	return &a, nil
}

// Create inserts a new account. A taken email is reported as
// shared.ErrEmailTaken.
func (r *IdentityRepository) Create(ctx context.Context, a *identity.Account) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.conn.Exec(ctx, query,
		string(a.ID), a.Name, a.Email, a.PasswordHash,
		string(a.Role), a.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrEmailTaken
		}
		return storeError("identity", "Create", err)
	}

	return nil
}

// GetByID returns an account by ID.
func (r *IdentityRepository) GetByID(ctx context.Context, id shared.LearnerID) (*identity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`

	account, err := scanAccount(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLearnerNotFound
		}
		return nil, storeError("identity", "GetByID", err)
	}

	return account, nil
}

// GetByEmail returns an account by normalized email.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`

	account, err := scanAccount(r.conn.QueryRow(ctx, query, identity.NormalizeEmail(email)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLearnerNotFound
		}
		return nil, storeError("identity", "GetByEmail", err)
	}

	return account, nil
}
