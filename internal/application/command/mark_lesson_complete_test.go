package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// fakeGate answers access checks with a fixed verdict.
type fakeGate struct {
	allow bool
	err   error
}

func (f *fakeGate) CanAccess(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (bool, error) {
	return f.allow, f.err
}

func (f *fakeGate) CanMutateLesson(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) (bool, error) {
	return f.allow, f.err
}

// fakeProgressStore records mutations instead of persisting them.
type fakeProgressStore struct {
	err     error
	marks   []shared.LessonID
	unmarks []shared.LessonID
}

func (f *fakeProgressStore) MarkComplete(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) error {
	if f.err != nil {
		return f.err
	}
	f.marks = append(f.marks, lessonID)
	return nil
}

func (f *fakeProgressStore) MarkIncomplete(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID) error {
	if f.err != nil {
		return f.err
	}
	f.unmarks = append(f.unmarks, lessonID)
	return nil
}

func (f *fakeProgressStore) GetCompletionSet(ctx context.Context, learnerID shared.LearnerID, lessonIDs []shared.LessonID) (progress.CompletionSet, error) {
	return progress.NewCompletionSet(f.marks), f.err
}

func TestMarkLessonComplete(t *testing.T) {
	ctx := context.Background()

	store := &fakeProgressStore{}
	h := NewMarkLessonCompleteHandler(&fakeGate{allow: true}, store)

	result, err := h.Handle(ctx, MarkLessonCompleteCommand{LearnerID: "u1", LessonID: "l1"})
	require.NoError(t, err)

	assert.Equal(t, shared.LearnerID("u1"), result.LearnerID)
	assert.Equal(t, shared.LessonID("l1"), result.LessonID)
	assert.False(t, result.RecordedAt.IsZero())
	assert.Equal(t, []shared.LessonID{"l1"}, store.marks)
}

func TestMarkLessonComplete_Denied(t *testing.T) {
	ctx := context.Background()

	store := &fakeProgressStore{}
	h := NewMarkLessonCompleteHandler(&fakeGate{allow: false}, store)

	_, err := h.Handle(ctx, MarkLessonCompleteCommand{LearnerID: "u1", LessonID: "l1"})
	assert.ErrorIs(t, err, shared.ErrNoActiveEnrollment)

	// A denied request must not reach the store.
	assert.Empty(t, store.marks)
}

func TestMarkLessonComplete_UnknownLesson(t *testing.T) {
	ctx := context.Background()

	h := NewMarkLessonCompleteHandler(&fakeGate{err: shared.ErrLessonNotFound}, &fakeProgressStore{})

	_, err := h.Handle(ctx, MarkLessonCompleteCommand{LearnerID: "u1", LessonID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMarkLessonComplete_Validation(t *testing.T) {
	ctx := context.Background()

	h := NewMarkLessonCompleteHandler(&fakeGate{allow: true}, &fakeProgressStore{})

	_, err := h.Handle(ctx, MarkLessonCompleteCommand{LessonID: "l1"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = h.Handle(ctx, MarkLessonCompleteCommand{LearnerID: "u1"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestMarkLessonComplete_StoreFailurePropagates(t *testing.T) {
	ctx := context.Background()

	h := NewMarkLessonCompleteHandler(&fakeGate{allow: true}, &fakeProgressStore{err: shared.ErrStoreUnavailable})

	_, err := h.Handle(ctx, MarkLessonCompleteCommand{LearnerID: "u1", LessonID: "l1"})
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestMarkLessonIncomplete(t *testing.T) {
	ctx := context.Background()

	store := &fakeProgressStore{}
	h := NewMarkLessonIncompleteHandler(&fakeGate{allow: true}, store)

	err := h.Handle(ctx, MarkLessonIncompleteCommand{LearnerID: "u1", LessonID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, []shared.LessonID{"l1"}, store.unmarks)
}

func TestMarkLessonIncomplete_Denied(t *testing.T) {
	ctx := context.Background()

	store := &fakeProgressStore{}
	h := NewMarkLessonIncompleteHandler(&fakeGate{allow: false}, store)

	err := h.Handle(ctx, MarkLessonIncompleteCommand{LearnerID: "u1", LessonID: "l1"})
	assert.ErrorIs(t, err, shared.ErrNoActiveEnrollment)
	assert.Empty(t, store.unmarks)
}
