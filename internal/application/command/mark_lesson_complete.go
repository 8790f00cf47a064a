// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/alphamind/alphamind-backend/internal/application/policy"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK LESSON COMPLETE COMMAND
// Records lesson completion for a learner. The mutation is gated through
// the lesson's owning course and written as an atomic upsert, so the
// command is idempotent and safe to retry on transient store failures.
// ══════════════════════════════════════════════════════════════════════════════

// MarkLessonCompleteCommand contains the data to mark a lesson complete.
type MarkLessonCompleteCommand struct {
	// LearnerID is the authenticated learner. Only the owning learner
	// may mutate its progress records.
	LearnerID shared.LearnerID

	// LessonID is the lesson being completed.
	LessonID shared.LessonID
}

// Validate validates the command.
func (c MarkLessonCompleteCommand) Validate() error {
	if c.LearnerID.IsEmpty() {
		return shared.NewDomainError("command", "MarkLessonComplete", shared.ErrEmptyValue, "learner_id is required")
	}
	if c.LessonID.IsEmpty() {
		return shared.NewDomainError("command", "MarkLessonComplete", shared.ErrEmptyValue, "lesson_id is required")
	}
	return nil
}

// MarkLessonCompleteResult contains the result of the command.
type MarkLessonCompleteResult struct {
	LearnerID  shared.LearnerID
	LessonID   shared.LessonID
	RecordedAt time.Time
}

// MarkLessonCompleteHandler handles MarkLessonCompleteCommand.
type MarkLessonCompleteHandler struct {
	gate     policy.AccessGate
	progress progress.Store
}

// NewMarkLessonCompleteHandler creates a new MarkLessonCompleteHandler.
func NewMarkLessonCompleteHandler(gate policy.AccessGate, store progress.Store) *MarkLessonCompleteHandler {
	return &MarkLessonCompleteHandler{
		gate:     gate,
		progress: store,
	}
}

// Handle executes the command.
func (h *MarkLessonCompleteHandler) Handle(ctx context.Context, cmd MarkLessonCompleteCommand) (*MarkLessonCompleteResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("mark_lesson_complete: validation failed: %w", err)
	}

	ok, err := h.gate.CanMutateLesson(ctx, cmd.LearnerID, cmd.LessonID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrNoActiveEnrollment
	}

	if err := h.progress.MarkComplete(ctx, cmd.LearnerID, cmd.LessonID); err != nil {
		return nil, err
	}

	return &MarkLessonCompleteResult{
		LearnerID:  cmd.LearnerID,
		LessonID:   cmd.LessonID,
		RecordedAt: time.Now().UTC(),
	}, nil
}
