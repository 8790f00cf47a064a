package command

import (
	"context"
	"fmt"

	"github.com/alphamind/alphamind-backend/internal/application/policy"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK LESSON INCOMPLETE COMMAND
// Unmarks a completed lesson. The record persists with completed = false;
// unmarking a lesson that was never touched is a no-op, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// MarkLessonIncompleteCommand contains the data to unmark a lesson.
type MarkLessonIncompleteCommand struct {
	// LearnerID is the authenticated learner.
	LearnerID shared.LearnerID

	// LessonID is the lesson being unmarked.
	LessonID shared.LessonID
}

// Validate validates the command.
func (c MarkLessonIncompleteCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return shared.NewDomainError("command", "MarkLessonIncomplete", shared.ErrEmptyValue, "learner_id is required")
	}
	if c.LessonID.IsEmpty() {
		return shared.NewDomainError("command", "MarkLessonIncomplete", shared.ErrEmptyValue, "lesson_id is required")
	}
	return nil
}

// MarkLessonIncompleteHandler handles MarkLessonIncompleteCommand.
type MarkLessonIncompleteHandler struct {
	gate     policy.AccessGate
	progress progress.Store
}

// NewMarkLessonIncompleteHandler creates a new MarkLessonIncompleteHandler.
func NewMarkLessonIncompleteHandler(gate policy.AccessGate, store progress.Store) *MarkLessonIncompleteHandler {
	return &MarkLessonIncompleteHandler{
		gate:     gate,
		progress: store,
	}
}

// Handle executes the command.
func (h *MarkLessonIncompleteHandler) Handle(ctx context.Context, cmd MarkLessonIncompleteCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("mark_lesson_incomplete: validation failed: %w", err)
	}

	ok, err := h.gate.CanMutateLesson(ctx, cmd.LearnerID, cmd.LessonID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrNoActiveEnrollment
	}

	return h.progress.MarkIncomplete(ctx, cmd.LearnerID, cmd.LessonID)
}
