package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// Дерево: модуль A с двумя активными уроками, модуль B с одним.
// Деревья каталога по контракту содержат только активные уроки.
func reportTree() *catalog.CourseTree {
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

func TestBuildCourseReport(t *testing.T) {
	// Завершены a1 и b1: модуль A 1/2 = 50.00, модуль B 1/1 = 100.00,
	// курс 2/3 = 66.67 - взвешивание по урокам, не среднее по модулям
	// (среднее дало бы 75).
	completed := NewCompletionSet([]shared.LessonID{"a1", "b1"})

	report := BuildCourseReport(reportTree(), completed)

	assert.Equal(t, shared.CourseID("c1"), report.CourseID)
	assert.Equal(t, 3, report.TotalLessons)
	assert.Equal(t, 2, report.CompletedLessons)
	assert.Equal(t, shared.Percent(66.67), report.Percent)

	require.Len(t, report.Modules, 2)

	a := report.Modules[0]
	assert.Equal(t, shared.ModuleID("ma"), a.ModuleID)
	assert.Equal(t, 2, a.TotalLessons)
	assert.Equal(t, 1, a.CompletedLessons)
	assert.Equal(t, shared.Percent(50), a.Percent)

	b := report.Modules[1]
	assert.Equal(t, shared.ModuleID("mb"), b.ModuleID)
	assert.Equal(t, shared.Percent(100), b.Percent)

	// Постатусная разбивка сохраняет порядок позиций.
	require.Len(t, a.Lessons, 2)
	assert.True(t, a.Lessons[0].Completed)
	assert.False(t, a.Lessons[1].Completed)
}

func TestBuildCourseReport_NoCompletions(t *testing.T) {
	report := BuildCourseReport(reportTree(), NewCompletionSet(nil))

	assert.Equal(t, 3, report.TotalLessons)
	assert.Equal(t, 0, report.CompletedLessons)
	assert.Equal(t, shared.Percent(0), report.Percent)
}

func TestBuildCourseReport_EmptyModule(t *testing.T) {
	// Модуль без активных уроков: 0/0 определено как 0, не NaN.
	tree := reportTree()
	tree.Modules = append(tree.Modules, catalog.ModuleNode{
		Module: catalog.Module{ID: "mc", CourseID: "c1", Title: "Пустой", Position: 2},
	})

	report := BuildCourseReport(tree, NewCompletionSet([]shared.LessonID{"a1", "a2", "b1"}))

	require.Len(t, report.Modules, 3)
	empty := report.Modules[2]
	assert.Equal(t, 0, empty.TotalLessons)
	assert.Equal(t, shared.Percent(0), empty.Percent)

	// Пустой модуль не разбавляет процент курса.
	assert.Equal(t, shared.Percent(100), report.Percent)
}

func TestBuildCourseReport_EmptyCourse(t *testing.T) {
	tree := &catalog.CourseTree{Course: catalog.Course{ID: "c1", Title: "Пустой курс", Active: true}}

	report := BuildCourseReport(tree, NewCompletionSet(nil))

	assert.Equal(t, 0, report.TotalLessons)
	assert.Equal(t, shared.Percent(0), report.Percent)
	assert.Empty(t, report.Modules)
}

func TestBuildCourseReport_StrayCompletionsIgnored(t *testing.T) {
	// Завершения по урокам вне дерева (деактивированным или чужим)
	// не влияют ни на числитель, ни на знаменатель.
	completed := NewCompletionSet([]shared.LessonID{"a1", "ghost", "other-course"})

	report := BuildCourseReport(reportTree(), completed)

	assert.Equal(t, 3, report.TotalLessons)
	assert.Equal(t, 1, report.CompletedLessons)
	assert.Equal(t, shared.Percent(33.33), report.Percent)
}

func TestRecord_Validate(t *testing.T) {
	now := time.Now().UTC()

	ok := Record{LearnerID: "u1", LessonID: "l1", Completed: true, CompletedAt: &now}
	assert.NoError(t, ok.Validate())

	unset := Record{LearnerID: "u1", LessonID: "l1", Completed: false}
	assert.NoError(t, unset.Validate())

	// completed без метки времени - нарушение инварианта.
	broken := Record{LearnerID: "u1", LessonID: "l1", Completed: true}
	assert.ErrorIs(t, broken.Validate(), shared.ErrInvalidEntity)

	// и наоборот.
	stale := Record{LearnerID: "u1", LessonID: "l1", Completed: false, CompletedAt: &now}
	assert.ErrorIs(t, stale.Validate(), shared.ErrInvalidEntity)
}

func TestCompletionSet(t *testing.T) {
	set := NewCompletionSet([]shared.LessonID{"l1", "l2", "l1"})

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("l1"))
	assert.False(t, set.Contains("l3"))
}
