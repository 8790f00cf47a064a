package postgres

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentRepository implements enrollment.Store using PostgreSQL.
// The "one active enrollment per (learner, course)" invariant is enforced
// by a partial unique index, not by a check in this code: two concurrent
// activations race on the index and exactly one commits.
type EnrollmentRepository struct {
	conn *Connection
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(conn *Connection) *EnrollmentRepository {
	return &EnrollmentRepository{conn: conn}
}

const enrollmentColumns = `id, user_id, course_id, status, enrolled_at, valid_until`

func scanEnrollment(row interface{ Scan(...interface{}) error }) (*enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	var userID, courseID, status string
	err := row.Scan(
		&e.ID,
		&userID,
		&courseID,
		&status,
		&e.EnrolledAt,
		&e.ValidUntil,
	)
	if err != nil {
		return nil, err
	}
	e.LearnerID = shared.LearnerID(userID)
	e.CourseID = shared.CourseID(courseID)
	e.Status = enrollment.Status(status)
	return &e, nil
}

// Activate inserts a new active enrollment row. A unique violation on the
// partial index means an active enrollment already exists for the pair
// and is reported as shared.ErrDuplicateActiveEnrollment.
func (r *EnrollmentRepository) Activate(ctx context.Context, e *enrollment.Enrollment) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.conn.Exec(ctx, query,
		e.ID, string(e.LearnerID), string(e.CourseID),
		string(e.Status), e.EnrolledAt, e.ValidUntil,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return shared.ErrDuplicateActiveEnrollment
		case IsForeignKeyViolation(err):
			return shared.ErrCourseNotFound
		default:
			return storeError("enrollment", "Activate", err)
		}
	}

	return nil
}

// GetActiveEnrollment returns the single active enrollment for a
// (learner, course) pair. Zero rows is shared.ErrNoActiveEnrollment.
// More than one row means the uniqueness invariant is broken in the
// store; the error is surfaced as shared.ErrEnrollmentConsistency
// instead of silently picking a row.
func (r *EnrollmentRepository) GetActiveEnrollment(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (*enrollment.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2 AND status = 'active'`

	rows, err := r.conn.Query(ctx, query, string(learnerID), string(courseID))
	if err != nil {
		return nil, storeError("enrollment", "GetActiveEnrollment", err)
	}
	defer rows.Close()

	var found *enrollment.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, storeError("enrollment", "GetActiveEnrollment", err)
		}
		if found != nil {
			return nil, shared.ErrEnrollmentConsistency
		}
		found = e
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("enrollment", "GetActiveEnrollment", err)
	}

	if found == nil {
		return nil, shared.ErrNoActiveEnrollment
	}

	return found, nil
}

// ListActiveEnrollments returns a learner's active enrollments, newest
// first.
func (r *EnrollmentRepository) ListActiveEnrollments(ctx context.Context, learnerID shared.LearnerID) ([]*enrollment.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE user_id = $1 AND status = 'active'
		ORDER BY enrolled_at DESC`

	rows, err := r.conn.Query(ctx, query, string(learnerID))
	if err != nil {
		return nil, storeError("enrollment", "ListActiveEnrollments", err)
	}
	defer rows.Close()

	enrollments := make([]*enrollment.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, storeError("enrollment", "ListActiveEnrollments", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("enrollment", "ListActiveEnrollments", err)
	}

	return enrollments, nil
}

// Expire moves an enrollment from active to expired. Expiring an already
// expired enrollment is a no-op; a cancelled one stays cancelled.
func (r *EnrollmentRepository) Expire(ctx context.Context, enrollmentID string) error {
	query := `
		UPDATE enrollments
		SET status = 'expired'
		WHERE id = $1 AND status = 'active'`

	tag, err := r.conn.Exec(ctx, query, enrollmentID)
	if err != nil {
		return storeError("enrollment", "Expire", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing transitioned: distinguish "already terminal" from "missing".
	var exists bool
	err = r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM enrollments WHERE id = $1)`, enrollmentID).Scan(&exists)
	if err != nil {
		return storeError("enrollment", "Expire", err)
	}
	if !exists {
		return shared.ErrEnrollmentNotFound
	}

	return nil
}
