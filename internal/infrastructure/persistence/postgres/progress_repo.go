package postgres

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Store using PostgreSQL.
// Both mutations are single atomic statements: there is no
// read-then-write window in which two concurrent marks could lose an
// update. Records are never deleted.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// MarkComplete records lesson completion with an upsert. If the record
// was already completed, its original completed_at is preserved; a
// record flipping from incomplete gets the current timestamp.
func (r *ProgressRepository) MarkComplete(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) error {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at)
		VALUES ($1, $2, TRUE, NOW())
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			completed = TRUE,
			completed_at = CASE
				WHEN lesson_progress.completed THEN lesson_progress.completed_at
				ELSE EXCLUDED.completed_at
			END`

	_, err := r.conn.Exec(ctx, query, string(learnerID), string(lessonID))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrLessonNotFound
		}
		return storeError("progress", "MarkComplete", err)
	}

	return nil
}

// MarkIncomplete clears the completion flag and timestamp. A missing
// record means there is nothing to unmark and the call is a no-op; no
// row is created.
func (r *ProgressRepository) MarkIncomplete(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) error {
	query := `
		UPDATE lesson_progress
		SET completed = FALSE, completed_at = NULL
		WHERE user_id = $1 AND lesson_id = $2`

	_, err := r.conn.Exec(ctx, query, string(learnerID), string(lessonID))
	if err != nil {
		return storeError("progress", "MarkIncomplete", err)
	}

	return nil
}

// GetCompletionSet returns which of the given lessons the learner has
// completed, in one query. The aggregator passes every active lesson of
// a course tree here; cost stays linear in lesson count.
func (r *ProgressRepository) GetCompletionSet(ctx context.Context, learnerID shared.LearnerID, lessonIDs []shared.LessonID) (progress.CompletionSet, error) {
	if len(lessonIDs) == 0 {
		return progress.CompletionSet{}, nil
	}

	ids := make([]string, len(lessonIDs))
	for i, id := range lessonIDs {
		ids[i] = string(id)
	}

	query := `
		SELECT lesson_id
		FROM lesson_progress
		WHERE user_id = $1 AND completed = TRUE AND lesson_id = ANY($2)`

	rows, err := r.conn.Query(ctx, query, string(learnerID), ids)
	if err != nil {
		return nil, storeError("progress", "GetCompletionSet", err)
	}
	defer rows.Close()

	set := make(progress.CompletionSet, len(lessonIDs))
	for rows.Next() {
		var lessonID string
		if err := rows.Scan(&lessonID); err != nil {
			return nil, storeError("progress", "GetCompletionSet", err)
		}
		set[shared.LessonID(lessonID)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("progress", "GetCompletionSet", err)
	}

	return set, nil
}
