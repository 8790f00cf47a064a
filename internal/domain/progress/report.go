package progress

import (
	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE PROGRESS REPORT
// Чистая агрегация: отчёт полностью определяется деревом курса и множеством
// завершённых уроков. Никакого скрытого состояния - функция тестируется
// без живого хранилища.
// ══════════════════════════════════════════════════════════════════════════════

// LessonStatus - флаг завершения одного урока в отчёте.
type LessonStatus struct {
	LessonID        shared.LessonID
	Title           string
	Position        catalog.Position
	DurationMinutes int
	Completed       bool
}

// ModuleReport - прогресс по одному модулю.
// Процент модуля = завершённые активные уроки / все активные уроки,
// 0 при пустом знаменателе.
type ModuleReport struct {
	ModuleID         shared.ModuleID
	Title            string
	Position         catalog.Position
	TotalLessons     int
	CompletedLessons int
	Percent          shared.Percent
	Lessons          []LessonStatus
}

// CourseReport - прогресс по курсу целиком.
// Процент курса считается по уплощённому множеству всех активных уроков
// всех модулей: взвешивание по урокам, а не среднее по модулям.
type CourseReport struct {
	CourseID         shared.CourseID
	TotalLessons     int
	CompletedLessons int
	Percent          shared.Percent
	Modules          []ModuleReport
}

// BuildCourseReport строит отчёт о прогрессе по дереву курса и множеству
// завершённых уроков. Дерево содержит только активные уроки; порядок
// модулей и уроков в отчёте повторяет порядок дерева (по позиции).
func BuildCourseReport(tree *catalog.CourseTree, completed CompletionSet) *CourseReport {
	report := &CourseReport{
		CourseID: tree.Course.ID,
		Modules:  make([]ModuleReport, 0, len(tree.Modules)),
	}

	for _, mn := range tree.Modules {
		mr := ModuleReport{
			ModuleID: mn.Module.ID,
			Title:    mn.Module.Title,
			Position: mn.Module.Position,
			Lessons:  make([]LessonStatus, 0, len(mn.Lessons)),
		}

		for _, l := range mn.Lessons {
			if !l.Active {
				// Неактивный урок не участвует ни в числителе, ни в знаменателе.
				continue
			}
			done := completed.Contains(l.ID)
			mr.TotalLessons++
			if done {
				mr.CompletedLessons++
			}
			mr.Lessons = append(mr.Lessons, LessonStatus{
				LessonID:        l.ID,
				Title:           l.Title,
				Position:        l.Position,
				DurationMinutes: l.DurationMinutes,
				Completed:       done,
			})
		}

		mr.Percent = shared.NewPercent(mr.CompletedLessons, mr.TotalLessons)
		report.TotalLessons += mr.TotalLessons
		report.CompletedLessons += mr.CompletedLessons
		report.Modules = append(report.Modules, mr)
	}

	report.Percent = shared.NewPercent(report.CompletedLessons, report.TotalLessons)
	return report
}
