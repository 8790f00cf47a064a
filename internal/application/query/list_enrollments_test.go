package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// fakeEnrollmentStore - фейковое хранилище записей для read-side тестов.
type fakeEnrollmentStore struct {
	enrollments []*enrollment.Enrollment
	err         error
}

func (f *fakeEnrollmentStore) Activate(ctx context.Context, e *enrollment.Enrollment) error {
	return f.err
}

func (f *fakeEnrollmentStore) GetActiveEnrollment(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (*enrollment.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.enrollments {
		if e.LearnerID == learnerID && e.CourseID == courseID && e.IsActive() {
			return e, nil
		}
	}
	return nil, shared.ErrNoActiveEnrollment
}

func (f *fakeEnrollmentStore) ListActiveEnrollments(ctx context.Context, learnerID shared.LearnerID) ([]*enrollment.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*enrollment.Enrollment
	for _, e := range f.enrollments {
		if e.LearnerID == learnerID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Expire(ctx context.Context, enrollmentID string) error {
	return f.err
}

func TestListEnrollments(t *testing.T) {
	ctx := context.Background()

	store := &fakeEnrollmentStore{enrollments: []*enrollment.Enrollment{
		{ID: "e1", LearnerID: "u1", CourseID: "c1", Status: enrollment.StatusActive, EnrolledAt: time.Now().UTC()},
		{ID: "e2", LearnerID: "u1", CourseID: "c2", Status: enrollment.StatusExpired, EnrolledAt: time.Now().UTC()},
	}}
	h := NewListEnrollmentsHandler(store, &fakeReader{tree: progressTree()}, &fakeProgressStore{})

	result, err := h.Handle(ctx, ListEnrollmentsQuery{LearnerID: "u1"})
	require.NoError(t, err)

	// Только active-записи.
	require.Len(t, result.Enrollments, 1)
	view := result.Enrollments[0]
	assert.Equal(t, "e1", view.Enrollment.ID)
	assert.Equal(t, "Go с нуля", view.Course.Title)

	// Без IncludeProgress процент не считается.
	assert.Equal(t, 0, view.TotalLessons)
	assert.Equal(t, shared.Percent(0), view.Percent)
}

func TestListEnrollments_WithProgress(t *testing.T) {
	ctx := context.Background()

	store := &fakeEnrollmentStore{enrollments: []*enrollment.Enrollment{
		{ID: "e1", LearnerID: "u1", CourseID: "c1", Status: enrollment.StatusActive, EnrolledAt: time.Now().UTC()},
	}}
	prog := &fakeProgressStore{completed: progress.NewCompletionSet([]shared.LessonID{"a1", "b1"})}
	h := NewListEnrollmentsHandler(store, &fakeReader{tree: progressTree()}, prog)

	result, err := h.Handle(ctx, ListEnrollmentsQuery{LearnerID: "u1", IncludeProgress: true})
	require.NoError(t, err)

	require.Len(t, result.Enrollments, 1)
	view := result.Enrollments[0]
	assert.Equal(t, 3, view.TotalLessons)
	assert.Equal(t, 2, view.CompletedLessons)
	assert.Equal(t, shared.Percent(66.67), view.Percent)
}

func TestListEnrollments_CourseDeactivated(t *testing.T) {
	ctx := context.Background()

	// Запись на деактивированный курс показывается без витринных данных,
	// остальной список не ломается.
	store := &fakeEnrollmentStore{enrollments: []*enrollment.Enrollment{
		{ID: "e1", LearnerID: "u1", CourseID: "gone", Status: enrollment.StatusActive, EnrolledAt: time.Now().UTC()},
	}}
	h := NewListEnrollmentsHandler(store, &fakeReader{tree: progressTree()}, &fakeProgressStore{})

	result, err := h.Handle(ctx, ListEnrollmentsQuery{LearnerID: "u1", IncludeProgress: true})
	require.NoError(t, err)

	require.Len(t, result.Enrollments, 1)
	assert.Equal(t, "e1", result.Enrollments[0].Enrollment.ID)
	assert.True(t, result.Enrollments[0].Course.ID.IsEmpty())
}

func TestListEnrollments_Validation(t *testing.T) {
	ctx := context.Background()

	h := NewListEnrollmentsHandler(&fakeEnrollmentStore{}, &fakeReader{}, &fakeProgressStore{})

	_, err := h.Handle(ctx, ListEnrollmentsQuery{})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
