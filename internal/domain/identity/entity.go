// Package identity содержит доменную модель учётной записи AlphaMind.
// Движок прогресса этим пакетом не пользуется: он получает уже
// аутентифицированную пару (learnerID, role) от HTTP-слоя.
package identity

import (
	"strings"
	"time"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// Role представляет роль учётной записи.
type Role string

const (
	// RoleLearner - обычный ученик.
	RoleLearner Role = "learner"

	// RoleAdmin - администратор каталога.
	RoleAdmin Role = "admin"
)

// IsValid проверяет корректность роли.
func (r Role) IsValid() bool {
	return r == RoleLearner || r == RoleAdmin
}

// Account представляет учётную запись ученика или администратора.
type Account struct {
	ID    shared.LearnerID
	Name  string
	Email string
	// PasswordHash - bcrypt-хеш пароля. Сырые пароли не хранятся.
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Validate проверяет инварианты учётной записи.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return shared.NewDomainError("identity", "Validate", shared.ErrEmptyValue, "name is required")
	}
	if !strings.Contains(a.Email, "@") {
		return shared.NewDomainError("identity", "Validate", shared.ErrInvalidInput, "invalid email")
	}
	if a.PasswordHash == "" {
		return shared.NewDomainError("identity", "Validate", shared.ErrEmptyValue, "password hash is required")
	}
	if !a.Role.IsValid() {
		return shared.NewDomainError("identity", "Validate", shared.ErrInvalidInput, "unknown role")
	}
	return nil
}

// NormalizeEmail приводит email к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
