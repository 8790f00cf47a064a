package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// fakeEnrollmentStore implements enrollment.Store over a fixed answer.
type fakeEnrollmentStore struct {
	enrollment *enrollment.Enrollment
	err        error
}

func (f *fakeEnrollmentStore) Activate(ctx context.Context, e *enrollment.Enrollment) error {
	return f.err
}

func (f *fakeEnrollmentStore) GetActiveEnrollment(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (*enrollment.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.enrollment, nil
}

func (f *fakeEnrollmentStore) ListActiveEnrollments(ctx context.Context, learnerID shared.LearnerID) ([]*enrollment.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.enrollment == nil {
		return nil, nil
	}
	return []*enrollment.Enrollment{f.enrollment}, nil
}

func (f *fakeEnrollmentStore) Expire(ctx context.Context, enrollmentID string) error {
	return f.err
}

// fakeCatalogReader implements catalog.Reader with a single lesson->course mapping.
type fakeCatalogReader struct {
	lessonCourse map[shared.LessonID]shared.CourseID
	tree         *catalog.CourseTree
}

func (f *fakeCatalogReader) GetCourseTree(ctx context.Context, courseID shared.CourseID) (*catalog.CourseTree, error) {
	if f.tree == nil || f.tree.Course.ID != courseID {
		return nil, shared.ErrCourseNotFound
	}
	return f.tree, nil
}

func (f *fakeCatalogReader) ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error) {
	courseID, ok := f.lessonCourse[lessonID]
	if !ok {
		return "", shared.ErrLessonNotFound
	}
	return courseID, nil
}

func (f *fakeCatalogReader) ListActiveCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	return nil, nil
}

func TestGate_CanAccess(t *testing.T) {
	ctx := context.Background()

	active := &fakeEnrollmentStore{enrollment: &enrollment.Enrollment{ID: "e1", Status: enrollment.StatusActive}}
	gate := NewGate(active, &fakeCatalogReader{})

	ok, err := gate.CanAccess(ctx, "u1", "c1")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestGate_CanAccess_NoEnrollment(t *testing.T) {
	ctx := context.Background()

	// A missing enrollment is a clean denial, not an error.
	gate := NewGate(&fakeEnrollmentStore{err: shared.ErrNoActiveEnrollment}, &fakeCatalogReader{})

	ok, err := gate.CanAccess(ctx, "u1", "c1")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGate_CanAccess_ConsistencyPropagates(t *testing.T) {
	ctx := context.Background()

	// Two active rows for the same pair must never be silently resolved.
	gate := NewGate(&fakeEnrollmentStore{err: shared.ErrEnrollmentConsistency}, &fakeCatalogReader{})

	ok, err := gate.CanAccess(ctx, "u1", "c1")
	assert.ErrorIs(t, err, shared.ErrConsistency)
	assert.False(t, ok)
}

func TestGate_CanAccess_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()

	gate := NewGate(&fakeEnrollmentStore{err: shared.ErrStoreUnavailable}, &fakeCatalogReader{})

	_, err := gate.CanAccess(ctx, "u1", "c1")
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestGate_CanMutateLesson(t *testing.T) {
	ctx := context.Background()

	reader := &fakeCatalogReader{lessonCourse: map[shared.LessonID]shared.CourseID{"l1": "c1"}}
	store := &fakeEnrollmentStore{enrollment: &enrollment.Enrollment{ID: "e1", Status: enrollment.StatusActive}}
	gate := NewGate(store, reader)

	ok, err := gate.CanMutateLesson(ctx, "u1", "l1")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestGate_CanMutateLesson_UnknownLesson(t *testing.T) {
	ctx := context.Background()

	gate := NewGate(&fakeEnrollmentStore{}, &fakeCatalogReader{})

	_, err := gate.CanMutateLesson(ctx, "u1", "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRequireAccess(t *testing.T) {
	ctx := context.Background()

	denied := NewGate(&fakeEnrollmentStore{err: shared.ErrNoActiveEnrollment}, &fakeCatalogReader{})
	err := RequireAccess(ctx, denied, "u1", "c1")
	assert.ErrorIs(t, err, shared.ErrNoActiveEnrollment)

	granted := NewGate(&fakeEnrollmentStore{enrollment: &enrollment.Enrollment{ID: "e1", Status: enrollment.StatusActive}}, &fakeCatalogReader{})
	assert.NoError(t, RequireAccess(ctx, granted, "u1", "c1"))
}
