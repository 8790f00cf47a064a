package catalog

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// READER (ядро движка прогресса)
// ══════════════════════════════════════════════════════════════════════════════

// Reader - read-only контракт каталога, который потребляет движок прогресса.
// Без побочных эффектов; отражает последнее зафиксированное состояние
// каталога на момент вызова. Кеш, если он есть, обязан инвалидироваться
// на каждую запись каталога - устаревший флаг active искажает знаменатели.
type Reader interface {
	// GetCourseTree возвращает курс вместе с модулями (по позиции) и
	// активными уроками каждого модуля (по позиции). Неактивный или
	// отсутствующий курс - shared.ErrCourseNotFound.
	// Контракт: одна bulk-выборка на курс, без N+1 по модулям.
	GetCourseTree(ctx context.Context, courseID shared.CourseID) (*CourseTree, error)

	// ResolveLessonCourse возвращает курс, которому принадлежит урок.
	// Нужен Access Gate для транзитивной проверки mark/unmark.
	ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error)

	// ListActiveCourses возвращает активные курсы с агрегатами каталога
	// (количество модулей, уроков, суммарная длительность).
	ListActiveCourses(ctx context.Context) ([]CourseSummary, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY (административный контур каталога)
// ══════════════════════════════════════════════════════════════════════════════

// CourseUpdate - частичное обновление курса. nil-поле означает
// "оставить как есть" (семантика COALESCE).
type CourseUpdate struct {
	Title                  *string
	Description            *string
	Price                  *float64
	EstimatedDurationHours *int
	Active                 *bool
}

// ModuleUpdate - частичное обновление модуля.
type ModuleUpdate struct {
	Title       *string
	Description *string
	Position    *Position
}

// LessonUpdate - частичное обновление урока.
type LessonUpdate struct {
	Title           *string
	Kind            *LessonKind
	VideoURL        *string
	Body            *string
	DurationMinutes *int
	Position        *Position
	Active          *bool
}

// Repository - полный контракт каталога для административного контура.
// Движок прогресса эти методы не вызывает.
type Repository interface {
	Reader

	// Courses
	CreateCourse(ctx context.Context, c *Course) error
	GetCourse(ctx context.Context, id shared.CourseID) (*Course, error)
	UpdateCourse(ctx context.Context, id shared.CourseID, upd CourseUpdate) (*Course, error)
	DeleteCourse(ctx context.Context, id shared.CourseID) error
	// ListCourses возвращает все курсы (включая неактивные) с количеством модулей.
	ListCourses(ctx context.Context) ([]CourseSummary, error)

	// Modules
	CreateModule(ctx context.Context, m *Module) error
	GetModule(ctx context.Context, id shared.ModuleID) (*Module, error)
	UpdateModule(ctx context.Context, id shared.ModuleID, upd ModuleUpdate) (*Module, error)
	DeleteModule(ctx context.Context, id shared.ModuleID) error
	ListModules(ctx context.Context, courseID shared.CourseID) ([]Module, error)

	// Lessons
	CreateLesson(ctx context.Context, l *Lesson) error
	GetLesson(ctx context.Context, id shared.LessonID) (*Lesson, error)
	UpdateLesson(ctx context.Context, id shared.LessonID, upd LessonUpdate) (*Lesson, error)
	DeleteLesson(ctx context.Context, id shared.LessonID) error
	// ListLessons возвращает все уроки модуля, включая неактивные
	// (административное чтение).
	ListLessons(ctx context.Context, moduleID shared.ModuleID) ([]Lesson, error)
}
