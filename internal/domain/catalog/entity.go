// Package catalog содержит доменную модель учебного каталога AlphaMind:
// курсы, модули и уроки. Ядро движка прогресса читает каталог только
// для построения дерева курса - здесь нет внешних зависимостей.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// LessonKind представляет тип урока.
type LessonKind string

const (
	// LessonKindRecorded - записанный урок (видео).
	LessonKindRecorded LessonKind = "recorded"

	// LessonKindLive - живой урок (трансляция).
	LessonKindLive LessonKind = "live"
)

// IsValid проверяет корректность типа урока.
func (k LessonKind) IsValid() bool {
	return k == LessonKindRecorded || k == LessonKindLive
}

// Position представляет порядковый индекс модуля или урока.
// Индекс определяет порядок отображения и агрегации, не порядок вставки.
type Position int

// IsValid проверяет, что позиция неотрицательная.
func (p Position) IsValid() bool {
	return p >= 0
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Course представляет курс - корень дерева каталога.
type Course struct {
	ID          shared.CourseID
	Title       string
	Description string
	Price       float64
	// EstimatedDurationHours - оценочная длительность курса в часах.
	EstimatedDurationHours int
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Validate проверяет инварианты курса.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return shared.NewDomainError("catalog", "Validate", shared.ErrEmptyValue, "course title is required")
	}
	if c.Price < 0 {
		return shared.NewDomainError("catalog", "Validate", shared.ErrValueOutOfRange, "course price cannot be negative")
	}
	return nil
}

// Module представляет модуль курса. Модуль принадлежит ровно одному курсу,
// позиция уникальна в пределах курса.
type Module struct {
	ID          shared.ModuleID
	CourseID    shared.CourseID
	Title       string
	Description string
	Position    Position
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate проверяет инварианты модуля.
func (m *Module) Validate() error {
	if m.CourseID.IsEmpty() {
		return shared.NewDomainError("catalog", "Validate", shared.ErrEmptyValue, "module course_id is required")
	}
	if strings.TrimSpace(m.Title) == "" {
		return shared.NewDomainError("catalog", "Validate", shared.ErrEmptyValue, "module title is required")
	}
	if !m.Position.IsValid() {
		return shared.ErrInvalidPosition
	}
	return nil
}

// Lesson представляет урок модуля. Неактивные уроки исключаются из
// всех агрегаций прогресса (и из числителя, и из знаменателя).
type Lesson struct {
	ID       shared.LessonID
	ModuleID shared.ModuleID
	Title    string
	Kind     LessonKind
	// VideoURL - ссылка на контент (для записанных уроков).
	VideoURL string
	// Body - текстовое содержимое урока.
	Body            string
	DurationMinutes int
	Position        Position
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate проверяет инварианты урока.
func (l *Lesson) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return shared.NewDomainError("catalog", "Validate", shared.ErrEmptyValue, "lesson title is required")
	}
	if !l.Kind.IsValid() {
		return shared.NewDomainError("catalog", "Validate", shared.ErrInvalidInput, "unknown lesson kind")
	}
	if !l.Position.IsValid() {
		return shared.ErrInvalidPosition
	}
	if l.DurationMinutes < 0 {
		return shared.NewDomainError("catalog", "Validate", shared.ErrValueOutOfRange, "lesson duration cannot be negative")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE TREE
// ══════════════════════════════════════════════════════════════════════════════

// CourseTree - упорядоченная иерархия модулей и их активных уроков.
// Это базис знаменателя для агрегации прогресса.
type CourseTree struct {
	Course  Course
	Modules []ModuleNode
}

// ModuleNode - модуль вместе с его активными уроками, упорядоченными по позиции.
type ModuleNode struct {
	Module  Module
	Lessons []Lesson
}

// Normalize сортирует модули и уроки по позиции. Репозиторий возвращает
// строки уже упорядоченными, но дерево, собранное из других источников
// (тестовые фейки), обязано соблюдать тот же порядок.
func (t *CourseTree) Normalize() {
	sort.Slice(t.Modules, func(i, j int) bool {
		return t.Modules[i].Module.Position < t.Modules[j].Module.Position
	})
	for i := range t.Modules {
		lessons := t.Modules[i].Lessons
		sort.Slice(lessons, func(a, b int) bool {
			return lessons[a].Position < lessons[b].Position
		})
	}
}

// ActiveLessonIDs возвращает идентификаторы всех активных уроков дерева
// в порядке обхода (модуль, затем урок). Используется Агрегатором для
// одного bulk-запроса к хранилищу прогресса.
func (t *CourseTree) ActiveLessonIDs() []shared.LessonID {
	ids := make([]shared.LessonID, 0, t.ActiveLessonCount())
	for _, mn := range t.Modules {
		for _, l := range mn.Lessons {
			if l.Active {
				ids = append(ids, l.ID)
			}
		}
	}
	return ids
}

// ActiveLessonCount возвращает количество активных уроков во всём дереве.
func (t *CourseTree) ActiveLessonCount() int {
	n := 0
	for _, mn := range t.Modules {
		for _, l := range mn.Lessons {
			if l.Active {
				n++
			}
		}
	}
	return n
}

// FindLesson ищет урок по ID среди всех модулей дерева.
func (t *CourseTree) FindLesson(lessonID shared.LessonID) (*Lesson, bool) {
	for i := range t.Modules {
		for j := range t.Modules[i].Lessons {
			if t.Modules[i].Lessons[j].ID == lessonID {
				return &t.Modules[i].Lessons[j], true
			}
		}
	}
	return nil, false
}

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARIES
// ══════════════════════════════════════════════════════════════════════════════

// CourseSummary - курс с агрегатами каталога для витрины:
// количество модулей, уроков и суммарная длительность.
type CourseSummary struct {
	Course               Course
	ModuleCount          int
	LessonCount          int
	TotalDurationMinutes int
}
