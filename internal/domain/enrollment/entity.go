// Package enrollment содержит доменную модель записи на курс (матрикулы).
// Enrollment - это право доступа ученика к контенту курса на ограниченный
// или неограниченный срок. Жизненный цикл статуса монотонный:
// active -> expired или active -> cancelled, обратной дороги нет.
// Реактивация - это всегда новая запись (сохраняем аудиторский след).
package enrollment

import (
	"time"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status представляет статус записи на курс.
type Status string

const (
	// StatusActive - запись действует, доступ к курсу открыт.
	StatusActive Status = "active"

	// StatusExpired - срок записи истёк.
	StatusExpired Status = "expired"

	// StatusCancelled - запись отменена (возврат, решение администратора).
	StatusCancelled Status = "cancelled"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal проверяет, является ли статус конечным.
// Из конечного статуса переходов нет.
func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusCancelled
}

// CanTransitionTo проверяет допустимость перехода статуса.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return false
	}
	return s == StatusActive && next.IsTerminal()
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Enrollment представляет запись ученика на курс.
// Инвариант хранилища: не более одной active-записи на пару
// (learner_id, course_id); обеспечивается частичным уникальным индексом.
type Enrollment struct {
	ID         string
	LearnerID  shared.LearnerID
	CourseID   shared.CourseID
	Status     Status
	EnrolledAt time.Time
	// ValidUntil - необязательный срок действия. nil = бессрочно.
	ValidUntil *time.Time
}

// Validate проверяет инварианты записи.
func (e *Enrollment) Validate() error {
	if e.LearnerID.IsEmpty() {
		return shared.NewDomainError("enrollment", "Validate", shared.ErrEmptyValue, "learner_id is required")
	}
	if e.CourseID.IsEmpty() {
		return shared.NewDomainError("enrollment", "Validate", shared.ErrEmptyValue, "course_id is required")
	}
	if !e.Status.IsValid() {
		return shared.NewDomainError("enrollment", "Validate", shared.ErrInvalidInput, "unknown enrollment status")
	}
	return nil
}

// IsActive проверяет, действует ли запись.
func (e *Enrollment) IsActive() bool {
	return e.Status == StatusActive
}

// Expire переводит запись в статус expired.
// Идемпотентно: повторное истечение уже истёкшей записи - no-op.
func (e *Enrollment) Expire() error {
	if e.Status == StatusExpired {
		return nil
	}
	if !e.Status.CanTransitionTo(StatusExpired) {
		return shared.ErrInvalidEnrollmentStatus
	}
	e.Status = StatusExpired
	return nil
}

// Cancel переводит запись в статус cancelled.
func (e *Enrollment) Cancel() error {
	if e.Status == StatusCancelled {
		return nil
	}
	if !e.Status.CanTransitionTo(StatusCancelled) {
		return shared.ErrInvalidEnrollmentStatus
	}
	e.Status = StatusCancelled
	return nil
}
