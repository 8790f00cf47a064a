package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// fakeGate - фейковый Access Gate с фиксированным ответом.
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

// fakeReader - фейковый Catalog Reader с одним деревом.
type fakeReader struct {
	tree *catalog.CourseTree
}

func (f *fakeReader) GetCourseTree(ctx context.Context, courseID shared.CourseID) (*catalog.CourseTree, error) {
	if f.tree == nil || f.tree.Course.ID != courseID {
		return nil, shared.ErrCourseNotFound
	}
	return f.tree, nil
}

func (f *fakeReader) ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error) {
	if f.tree == nil {
		return "", shared.ErrLessonNotFound
	}
	if _, ok := f.tree.FindLesson(lessonID); !ok {
		return "", shared.ErrLessonNotFound
	}
	return f.tree.Course.ID, nil
}

func (f *fakeReader) ListActiveCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	if f.tree == nil {
		return nil, nil
	}
	return []catalog.CourseSummary{{Course: f.tree.Course}}, nil
}

// fakeProgressStore - фейковое хранилище прогресса поверх множества.
type fakeProgressStore struct {
	completed progress.CompletionSet
	err       error
	marks     []shared.LessonID
	unmarks   []shared.LessonID
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
	if f.err != nil {
		return nil, f.err
	}
	// Контракт bulk-запроса: возвращается только подмножество запрошенных.
	out := make(progress.CompletionSet)
	for _, id := range lessonIDs {
		if f.completed.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func progressTree() *catalog.CourseTree {
	return &catalog.CourseTree{
		Course: catalog.Course{ID: "c1", Title: "Go с нуля", Active: true},
		Modules: []catalog.ModuleNode{
			{
				Module: catalog.Module{ID: "ma", CourseID: "c1", Title: "Модуль A", Position: 0},
				Lessons: []catalog.Lesson{
					{ID: "a1", ModuleID: "ma", Title: "A1", Position: 0, Active: true},
					{ID: "a2", ModuleID: "ma", Title: "A2", Position: 1, Active: true},
				},
			},
			{
				Module: catalog.Module{ID: "mb", CourseID: "c1", Title: "Модуль B", Position: 1},
				Lessons: []catalog.Lesson{
					{ID: "b1", ModuleID: "mb", Title: "B1", Position: 0, Active: true},
				},
			},
		},
	}
}

func TestGetCourseProgress(t *testing.T) {
	ctx := context.Background()

	store := &fakeProgressStore{completed: progress.NewCompletionSet([]shared.LessonID{"a1", "b1"})}
	h := NewGetCourseProgressHandler(&fakeGate{allow: true}, &fakeReader{tree: progressTree()}, store)

	result, err := h.Handle(ctx, GetCourseProgressQuery{LearnerID: "u1", CourseID: "c1"})
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, 3, report.TotalLessons)
	assert.Equal(t, 2, report.CompletedLessons)
	assert.Equal(t, shared.Percent(66.67), report.Percent)

	require.Len(t, report.Modules, 2)
	assert.Equal(t, shared.Percent(50), report.Modules[0].Percent)
	assert.Equal(t, shared.Percent(100), report.Modules[1].Percent)
}

func TestGetCourseProgress_AccessDenied(t *testing.T) {
	ctx := context.Background()

	h := NewGetCourseProgressHandler(&fakeGate{allow: false}, &fakeReader{tree: progressTree()}, &fakeProgressStore{})

	_, err := h.Handle(ctx, GetCourseProgressQuery{LearnerID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrNoActiveEnrollment)
}

func TestGetCourseProgress_AccessDeniedBeforeNotFound(t *testing.T) {
	ctx := context.Background()

	// Курса нет и доступа нет: ученик без записи получает AccessDenied,
	// а не NotFound - существование курсов не должно протекать наружу.
	h := NewGetCourseProgressHandler(&fakeGate{allow: false}, &fakeReader{}, &fakeProgressStore{})

	_, err := h.Handle(ctx, GetCourseProgressQuery{LearnerID: "u1", CourseID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrAccessDenied)
	assert.False(t, shared.IsNotFound(err))
}

func TestGetCourseProgress_CourseGone(t *testing.T) {
	ctx := context.Background()

	// Доступ есть (запись осталась), но курс деактивирован - NotFound.
	h := NewGetCourseProgressHandler(&fakeGate{allow: true}, &fakeReader{}, &fakeProgressStore{})

	_, err := h.Handle(ctx, GetCourseProgressQuery{LearnerID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetCourseProgress_GateErrorPropagates(t *testing.T) {
	ctx := context.Background()

	h := NewGetCourseProgressHandler(&fakeGate{err: shared.ErrEnrollmentConsistency}, &fakeReader{tree: progressTree()}, &fakeProgressStore{})

	_, err := h.Handle(ctx, GetCourseProgressQuery{LearnerID: "u1", CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrConsistency)
}

func TestGetCourseProgress_Validation(t *testing.T) {
	ctx := context.Background()

	h := NewGetCourseProgressHandler(&fakeGate{allow: true}, &fakeReader{tree: progressTree()}, &fakeProgressStore{})

	_, err := h.Handle(ctx, GetCourseProgressQuery{CourseID: "c1"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = h.Handle(ctx, GetCourseProgressQuery{LearnerID: "u1"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
