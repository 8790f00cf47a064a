// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/alphamind/alphamind-backend/internal/application/policy"
	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE PROGRESS QUERY
// Агрегатор прогресса: собирает отчёт "мой прогресс в курсе C".
//
// Последовательность строго фиксирована:
//  1. Access Gate - нет active-записи, значит AccessDenied;
//  2. дерево курса из Catalog Reader - нет курса, значит NotFound;
//  3. одно bulk-обращение к Progress Store за множеством завершённых;
//  4. чистая агрегация процентов (урок -> модуль -> курс).
//
// Чтение толерантно к eventual consistency в пределах одного вызова:
// завершение, записанное микросекундой позже снимка, просто попадёт
// в следующий вызов.
// ══════════════════════════════════════════════════════════════════════════════

// GetCourseProgressQuery содержит параметры запроса прогресса.
type GetCourseProgressQuery struct {
	// LearnerID - аутентифицированный ученик.
	LearnerID shared.LearnerID

	// CourseID - целевой курс.
	CourseID shared.CourseID
}

// Validate проверяет параметры запроса.
func (q GetCourseProgressQuery) Validate() error {
	if q.LearnerID.IsEmpty() {
		return shared.NewDomainError("query", "GetCourseProgress", shared.ErrEmptyValue, "learner_id is required")
	}
	if q.CourseID.IsEmpty() {
		return shared.NewDomainError("query", "GetCourseProgress", shared.ErrEmptyValue, "course_id is required")
	}
	return nil
}

// GetCourseProgressResult содержит отчёт о прогрессе.
type GetCourseProgressResult struct {
	// Report - процент по курсу и разбивка по модулям,
	// в порядке позиций модулей и уроков.
	Report *progress.CourseReport
}

// GetCourseProgressHandler обрабатывает GetCourseProgressQuery.
// Вычисление чистое относительно трёх входов (проверка доступа, дерево
// курса, множество завершённых) - тестируется на фейках без живого
// хранилища.
type GetCourseProgressHandler struct {
	gate     policy.AccessGate
	catalog  catalog.Reader
	progress progress.Store
}

// NewGetCourseProgressHandler создаёт новый GetCourseProgressHandler.
func NewGetCourseProgressHandler(gate policy.AccessGate, reader catalog.Reader, store progress.Store) *GetCourseProgressHandler {
	return &GetCourseProgressHandler{
		gate:     gate,
		catalog:  reader,
		progress: store,
	}
}

// Handle выполняет запрос прогресса.
func (h *GetCourseProgressHandler) Handle(ctx context.Context, q GetCourseProgressQuery) (*GetCourseProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_course_progress: validation failed: %w", err)
	}

	// 1. Доступ: нет active-записи - AccessDenied, независимо от того,
	// какие данные прогресса уже накоплены.
	if err := policy.RequireAccess(ctx, h.gate, q.LearnerID, q.CourseID); err != nil {
		return nil, err
	}

	// 2. Дерево курса: только активные уроки, упорядоченные по позиции.
	tree, err := h.catalog.GetCourseTree(ctx, q.CourseID)
	if err != nil {
		return nil, err
	}

	// 3. Одно bulk-обращение за завершёнными уроками.
	completed, err := h.progress.GetCompletionSet(ctx, q.LearnerID, tree.ActiveLessonIDs())
	if err != nil {
		return nil, err
	}

	// 4. Чистая агрегация.
	return &GetCourseProgressResult{
		Report: progress.BuildCourseReport(tree, completed),
	}, nil
}
