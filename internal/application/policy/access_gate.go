// Package policy contains the access gate: the thin authorization layer
// between learners and course content. It is consulted by the progress
// aggregator and by content-serving handlers before releasing lesson content.
package policy

import (
	"context"
	"errors"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// AccessGate answers whether a learner is entitled to a course right now.
// Implementations must never swallow consistency errors from the
// enrollment store.
type AccessGate interface {
	// CanAccess reports whether the learner has an active enrollment
	// for the course.
	CanAccess(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (bool, error)

	// CanMutateLesson resolves the lesson's owning course and delegates
	// to CanAccess. Used before accepting mark/unmark requests.
	CanMutateLesson(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) (bool, error)
}

// Gate implements AccessGate over the enrollment store and catalog reader.
type Gate struct {
	enrollments enrollment.Store
	catalog     catalog.Reader
}

// NewGate creates a new access gate.
func NewGate(enrollments enrollment.Store, reader catalog.Reader) *Gate {
	return &Gate{
		enrollments: enrollments,
		catalog:     reader,
	}
}

// CanAccess reports whether the learner has an active enrollment for the
// course. A missing enrollment is (false, nil); store failures and
// consistency violations propagate as errors.
func (g *Gate) CanAccess(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (bool, error) {
	_, err := g.enrollments.GetActiveEnrollment(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, shared.ErrAccessDenied) || shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanMutateLesson resolves the lesson's owning course via the catalog
// reader, then delegates to CanAccess. An unknown lesson propagates as
// NotFound.
func (g *Gate) CanMutateLesson(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) (bool, error) {
	courseID, err := g.catalog.ResolveLessonCourse(ctx, lessonID)
	if err != nil {
		return false, err
	}
	return g.CanAccess(ctx, learnerID, courseID)
}

// RequireAccess is a convenience wrapper that turns a denied check into
// shared.ErrNoActiveEnrollment.
func RequireAccess(ctx context.Context, gate AccessGate, learnerID shared.LearnerID, courseID shared.CourseID) error {
	ok, err := gate.CanAccess(ctx, learnerID, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrNoActiveEnrollment
	}
	return nil
}
