package query

import (
	"context"
	"fmt"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST ENROLLMENTS QUERY
// "Мои курсы": active-записи ученика, новые первыми, каждая с кратким
// процентом завершения курса.
// ══════════════════════════════════════════════════════════════════════════════

// ListEnrollmentsQuery содержит параметры запроса.
type ListEnrollmentsQuery struct {
	// LearnerID - аутентифицированный ученик.
	LearnerID shared.LearnerID

	// IncludeProgress - считать ли процент завершения по каждому курсу.
	IncludeProgress bool
}

// Validate проверяет параметры запроса.
func (q ListEnrollmentsQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return shared.NewDomainError("query", "ListEnrollments", shared.ErrEmptyValue, "learner_id is required")
	}
	return nil
}

// EnrollmentView - запись на курс вместе с витринными данными курса.
type EnrollmentView struct {
	Enrollment *enrollment.Enrollment
	Course     catalog.Course

	// Заполняются при IncludeProgress.
	TotalLessons     int
	CompletedLessons int
	Percent          shared.Percent
}

// ListEnrollmentsResult содержит список записей ученика.
type ListEnrollmentsResult struct {
	Enrollments []EnrollmentView
}

// ListEnrollmentsHandler обрабатывает ListEnrollmentsQuery.
type ListEnrollmentsHandler struct {
	enrollments enrollment.Store
	catalog     catalog.Reader
	progress    progress.Store
}

// NewListEnrollmentsHandler создаёт новый ListEnrollmentsHandler.
func NewListEnrollmentsHandler(store enrollment.Store, reader catalog.Reader, prog progress.Store) *ListEnrollmentsHandler {
	return &ListEnrollmentsHandler{
		enrollments: store,
		catalog:     reader,
		progress:    prog,
	}
}

// Handle выполняет запрос списка записей.
func (h *ListEnrollmentsHandler) Handle(ctx context.Context, q ListEnrollmentsQuery) (*ListEnrollmentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_enrollments: validation failed: %w", err)
	}

	enrollments, err := h.enrollments.ListActiveEnrollments(ctx, q.LearnerID)
	if err != nil {
		return nil, err
	}

	result := &ListEnrollmentsResult{
		Enrollments: make([]EnrollmentView, 0, len(enrollments)),
	}

	for _, e := range enrollments {
		view := EnrollmentView{Enrollment: e}

		tree, err := h.catalog.GetCourseTree(ctx, e.CourseID)
		if err != nil {
			// Курс могли деактивировать после записи: запись показываем,
			// прогресс по недоступному курсу не считаем.
			if shared.IsNotFound(err) {
				result.Enrollments = append(result.Enrollments, view)
				continue
			}
			return nil, err
		}
		view.Course = tree.Course

		if q.IncludeProgress {
			ids := tree.ActiveLessonIDs()
			completed, err := h.progress.GetCompletionSet(ctx, q.LearnerID, ids)
			if err != nil {
				return nil, err
			}
			view.TotalLessons = len(ids)
			view.CompletedLessons = completed.Len()
			view.Percent = shared.NewPercent(view.CompletedLessons, view.TotalLessons)
		}

		result.Enrollments = append(result.Enrollments, view)
	}

	return result, nil
}
