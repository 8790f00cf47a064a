package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// fakeEnrollmentStore records activations and expirations.
type fakeEnrollmentStore struct {
	activateErr error
	expireErr   error
	activated   []*enrollment.Enrollment
	expired     []string
}

func (f *fakeEnrollmentStore) Activate(ctx context.Context, e *enrollment.Enrollment) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.activated = append(f.activated, e)
	return nil
}

func (f *fakeEnrollmentStore) GetActiveEnrollment(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (*enrollment.Enrollment, error) {
	return nil, shared.ErrNoActiveEnrollment
}

func (f *fakeEnrollmentStore) ListActiveEnrollments(ctx context.Context, learnerID shared.LearnerID) ([]*enrollment.Enrollment, error) {
	return f.activated, nil
}

func (f *fakeEnrollmentStore) Expire(ctx context.Context, enrollmentID string) error {
	if f.expireErr != nil {
		return f.expireErr
	}
	f.expired = append(f.expired, enrollmentID)
	return nil
}

// fakeCatalogReader serves a single known course.
type fakeCatalogReader struct {
	tree *catalog.CourseTree
}

func (f *fakeCatalogReader) GetCourseTree(ctx context.Context, courseID shared.CourseID) (*catalog.CourseTree, error) {
	if f.tree == nil || f.tree.Course.ID != courseID {
		return nil, shared.ErrCourseNotFound
	}
	return f.tree, nil
}

func (f *fakeCatalogReader) ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error) {
	return "", shared.ErrLessonNotFound
}

func (f *fakeCatalogReader) ListActiveCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	return nil, nil
}

func activeCourse() *catalog.CourseTree {
	return &catalog.CourseTree{Course: catalog.Course{ID: "c1", Title: "Go", Active: true}}
}

func TestActivateEnrollment(t *testing.T) {
	ctx := context.Background()

	store := &fakeEnrollmentStore{}
	h := NewActivateEnrollmentHandler(store, &fakeCatalogReader{tree: activeCourse()})

	until := time.Now().UTC().Add(365 * 24 * time.Hour)
	result, err := h.Handle(ctx, ActivateEnrollmentCommand{
		LearnerID:  "u1",
		CourseID:   "c1",
		ValidUntil: &until,
	})
	require.NoError(t, err)

	e := result.Enrollment
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, enrollment.StatusActive, e.Status)
	assert.Equal(t, shared.LearnerID("u1"), e.LearnerID)
	assert.Equal(t, &until, e.ValidUntil)
	require.Len(t, store.activated, 1)
}

func TestActivateEnrollment_UnknownCourse(t *testing.T) {
	ctx := context.Background()

	store := &fakeEnrollmentStore{}
	h := NewActivateEnrollmentHandler(store, &fakeCatalogReader{})

	_, err := h.Handle(ctx, ActivateEnrollmentCommand{LearnerID: "u1", CourseID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, store.activated)
}

func TestActivateEnrollment_Duplicate(t *testing.T) {
	ctx := context.Background()

	// The store's partial unique index rejects the second activation;
	// the handler surfaces it unchanged.
	store := &fakeEnrollmentStore{activateErr: shared.ErrDuplicateActiveEnrollment}
	h := NewActivateEnrollmentHandler(store, &fakeCatalogReader{tree: activeCourse()})

	_, err := h.Handle(ctx, ActivateEnrollmentCommand{LearnerID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestActivateEnrollment_Validation(t *testing.T) {
	ctx := context.Background()

	h := NewActivateEnrollmentHandler(&fakeEnrollmentStore{}, &fakeCatalogReader{tree: activeCourse()})

	_, err := h.Handle(ctx, ActivateEnrollmentCommand{CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = h.Handle(ctx, ActivateEnrollmentCommand{LearnerID: "u1"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestExpireEnrollment(t *testing.T) {
	ctx := context.Background()

	store := &fakeEnrollmentStore{}
	h := NewExpireEnrollmentHandler(store)

	require.NoError(t, h.Handle(ctx, ExpireEnrollmentCommand{EnrollmentID: "e1"}))
	assert.Equal(t, []string{"e1"}, store.expired)

	err := h.Handle(ctx, ExpireEnrollmentCommand{})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestExpireEnrollment_Missing(t *testing.T) {
	ctx := context.Background()

	h := NewExpireEnrollmentHandler(&fakeEnrollmentStore{expireErr: shared.ErrEnrollmentNotFound})

	err := h.Handle(ctx, ExpireEnrollmentCommand{EnrollmentID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
