package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVATE ENROLLMENT COMMAND
// Entry point for the external purchase/admin-enrollment flow. Creates a
// new active enrollment row; the store's partial unique index rejects a
// second concurrent activation, so exactly one of two racing requests
// succeeds and the other sees DuplicateActiveEnrollment.
//
// Reactivation after expiry/cancellation goes through here as well and
// always produces a fresh row - dead enrollments are never resurrected.
// ══════════════════════════════════════════════════════════════════════════════

// ActivateEnrollmentCommand contains the data to enroll a learner.
type ActivateEnrollmentCommand struct {
	// LearnerID is the learner being enrolled.
	LearnerID shared.LearnerID

	// CourseID is the target course. Must exist and be active.
	CourseID shared.CourseID

	// ValidUntil optionally bounds the enrollment. Nil means unbounded.
	ValidUntil *time.Time
}

// Validate validates the command.
func (c ActivateEnrollmentCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return shared.NewDomainError("command", "ActivateEnrollment", shared.ErrEmptyValue, "learner_id is required")
	}
	if c.CourseID.IsEmpty() {
		return shared.NewDomainError("command", "ActivateEnrollment", shared.ErrEmptyValue, "course_id is required")
	}
	return nil
}

// ActivateEnrollmentResult contains the created enrollment.
type ActivateEnrollmentResult struct {
	Enrollment *enrollment.Enrollment
}

// ActivateEnrollmentHandler handles ActivateEnrollmentCommand.
type ActivateEnrollmentHandler struct {
	enrollments enrollment.Store
	catalog     catalog.Reader
}

// NewActivateEnrollmentHandler creates a new ActivateEnrollmentHandler.
func NewActivateEnrollmentHandler(store enrollment.Store, reader catalog.Reader) *ActivateEnrollmentHandler {
	return &ActivateEnrollmentHandler{
		enrollments: store,
		catalog:     reader,
	}
}

// Handle executes the command.
func (h *ActivateEnrollmentHandler) Handle(ctx context.Context, cmd ActivateEnrollmentCommand) (*ActivateEnrollmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("activate_enrollment: validation failed: %w", err)
	}

	// The course must exist and be active; the tree lookup applies both checks.
	if _, err := h.catalog.GetCourseTree(ctx, cmd.CourseID); err != nil {
		return nil, err
	}

	e := &enrollment.Enrollment{
		ID:         uuid.NewString(),
		LearnerID:  cmd.LearnerID,
		CourseID:   cmd.CourseID,
		Status:     enrollment.StatusActive,
		EnrolledAt: time.Now().UTC(),
		ValidUntil: cmd.ValidUntil,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := h.enrollments.Activate(ctx, e); err != nil {
		return nil, err
	}

	return &ActivateEnrollmentResult{Enrollment: e}, nil
}
