package query

import (
	"context"
	"fmt"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BROWSE CATALOG QUERIES
// Витрина каталога для ученика: список активных курсов с агрегатами
// и дерево одного курса (модули + активные уроки).
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesResult содержит витрину каталога.
type ListCoursesResult struct {
	Courses []catalog.CourseSummary
}

// ListCoursesHandler возвращает активные курсы с количеством модулей,
// уроков и суммарной длительностью.
type ListCoursesHandler struct {
	catalog catalog.Reader
}

// NewListCoursesHandler создаёт новый ListCoursesHandler.
func NewListCoursesHandler(reader catalog.Reader) *ListCoursesHandler {
	return &ListCoursesHandler{catalog: reader}
}

// Handle выполняет запрос витрины.
func (h *ListCoursesHandler) Handle(ctx context.Context) (*ListCoursesResult, error) {
	courses, err := h.catalog.ListActiveCourses(ctx)
	if err != nil {
		return nil, err
	}
	return &ListCoursesResult{Courses: courses}, nil
}

// GetCourseTreeQuery содержит параметры запроса дерева курса.
type GetCourseTreeQuery struct {
	CourseID shared.CourseID
}

// Validate проверяет параметры запроса.
func (q GetCourseTreeQuery) Validate() error {
	if q.CourseID.IsEmpty() {
		return shared.NewDomainError("query", "GetCourseTree", shared.ErrEmptyValue, "course_id is required")
	}
	return nil
}

// GetCourseTreeResult содержит дерево курса.
type GetCourseTreeResult struct {
	Tree *catalog.CourseTree
}

// GetCourseTreeHandler возвращает курс с модулями и активными уроками.
type GetCourseTreeHandler struct {
	catalog catalog.Reader
}

// NewGetCourseTreeHandler создаёт новый GetCourseTreeHandler.
func NewGetCourseTreeHandler(reader catalog.Reader) *GetCourseTreeHandler {
	return &GetCourseTreeHandler{catalog: reader}
}

// Handle выполняет запрос дерева курса.
func (h *GetCourseTreeHandler) Handle(ctx context.Context, q GetCourseTreeQuery) (*GetCourseTreeResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_course_tree: validation failed: %w", err)
	}

	tree, err := h.catalog.GetCourseTree(ctx, q.CourseID)
	if err != nil {
		return nil, err
	}
	return &GetCourseTreeResult{Tree: tree}, nil
}
