package command

import (
	"context"
	"fmt"

	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRE ENROLLMENT COMMAND
// Transitions an enrollment active -> expired. Idempotent: expiring an
// already-expired enrollment is a no-op.
// ══════════════════════════════════════════════════════════════════════════════

// ExpireEnrollmentCommand contains the enrollment to expire.
type ExpireEnrollmentCommand struct {
	EnrollmentID string
}

// Validate validates the command.
func (c ExpireEnrollmentCommand) Validate() error {
	if c.EnrollmentID == "" {
		return shared.NewDomainError("command", "ExpireEnrollment", shared.ErrEmptyValue, "enrollment_id is required")
	}
	return nil
}

// ExpireEnrollmentHandler handles ExpireEnrollmentCommand.
type ExpireEnrollmentHandler struct {
	enrollments enrollment.Store
}

// NewExpireEnrollmentHandler creates a new ExpireEnrollmentHandler.
func NewExpireEnrollmentHandler(store enrollment.Store) *ExpireEnrollmentHandler {
	return &ExpireEnrollmentHandler{enrollments: store}
}

// Handle executes the command.
func (h *ExpireEnrollmentHandler) Handle(ctx context.Context, cmd ExpireEnrollmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("expire_enrollment: validation failed: %w", err)
	}
	return h.enrollments.Expire(ctx, cmd.EnrollmentID)
}
