package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

func sampleTree() *CourseTree {
	return &CourseTree{
		Course: Course{ID: "c1", Title: "Go с нуля", Active: true},
		Modules: []ModuleNode{
			{
				Module: Module{ID: "m2", CourseID: "c1", Title: "Конкурентность", Position: 2},
				Lessons: []Lesson{
					{ID: "l4", ModuleID: "m2", Title: "Каналы", Kind: LessonKindRecorded, Position: 1, Active: true},
					{ID: "l3", ModuleID: "m2", Title: "Горутины", Kind: LessonKindRecorded, Position: 0, Active: true},
				},
			},
			{
				Module: Module{ID: "m1", CourseID: "c1", Title: "Основы", Position: 1},
				Lessons: []Lesson{
					{ID: "l1", ModuleID: "m1", Title: "Типы", Kind: LessonKindRecorded, Position: 0, Active: true},
					{ID: "l2", ModuleID: "m1", Title: "Функции", Kind: LessonKindLive, Position: 1, Active: false},
				},
			},
		},
	}
}

func TestCourseTree_Normalize(t *testing.T) {
	tree := sampleTree()
	tree.Normalize()

	// Модули по позиции.
	assert.Equal(t, shared.ModuleID("m1"), tree.Modules[0].Module.ID)
	assert.Equal(t, shared.ModuleID("m2"), tree.Modules[1].Module.ID)

	// Уроки внутри модуля по позиции.
	assert.Equal(t, shared.LessonID("l3"), tree.Modules[1].Lessons[0].ID)
	assert.Equal(t, shared.LessonID("l4"), tree.Modules[1].Lessons[1].ID)
}

func TestCourseTree_ActiveLessonIDs(t *testing.T) {
	tree := sampleTree()
	tree.Normalize()

	// l2 неактивен - в агрегацию не попадает ни числителем, ни знаменателем.
	ids := tree.ActiveLessonIDs()
	assert.Equal(t, []shared.LessonID{"l1", "l3", "l4"}, ids)
	assert.Equal(t, 3, tree.ActiveLessonCount())
}

func TestCourseTree_FindLesson(t *testing.T) {
	tree := sampleTree()

	l, ok := tree.FindLesson("l2")
	assert.True(t, ok)
	assert.Equal(t, "Функции", l.Title)

	_, ok = tree.FindLesson("nope")
	assert.False(t, ok)
}

func TestCourse_Validate(t *testing.T) {
	c := Course{ID: "c1", Title: "Go"}
	assert.NoError(t, c.Validate())

	c.Title = "   "
	assert.ErrorIs(t, c.Validate(), shared.ErrEmptyValue)

	c.Title = "Go"
	c.Price = -1
	assert.ErrorIs(t, c.Validate(), shared.ErrValueOutOfRange)
}

func TestModule_Validate(t *testing.T) {
	m := Module{ID: "m1", CourseID: "c1", Title: "Основы", Position: 0}
	assert.NoError(t, m.Validate())

	m.Position = -1
	assert.ErrorIs(t, m.Validate(), shared.ErrValueOutOfRange)

	m.Position = 0
	m.CourseID = ""
	assert.ErrorIs(t, m.Validate(), shared.ErrEmptyValue)
}

func TestLesson_Validate(t *testing.T) {
	l := Lesson{ID: "l1", ModuleID: "m1", Title: "Типы", Kind: LessonKindRecorded, Position: 0}
	assert.NoError(t, l.Validate())

	l.Kind = "webinar"
	assert.ErrorIs(t, l.Validate(), shared.ErrInvalidInput)

	l.Kind = LessonKindLive
	l.DurationMinutes = -5
	assert.ErrorIs(t, l.Validate(), shared.ErrValueOutOfRange)
}
