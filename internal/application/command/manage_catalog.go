package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG ADMIN COMMANDS
// Course/module/lesson management for administrators. Every write goes
// through the tree invalidator: a cached course tree must never serve a
// stale active flag, because that corrupts progress denominators.
// ══════════════════════════════════════════════════════════════════════════════

// TreeInvalidator drops cached course trees after catalog writes.
type TreeInvalidator interface {
	// InvalidateCourse drops the cached tree of a single course.
	InvalidateCourse(ctx context.Context, courseID shared.CourseID) error

	// InvalidateCatalog drops all cached catalog data.
	InvalidateCatalog(ctx context.Context) error
}

// NoopInvalidator is used when no cache is configured.
type NoopInvalidator struct{}

// InvalidateCourse implements TreeInvalidator.
func (NoopInvalidator) InvalidateCourse(ctx context.Context, courseID shared.CourseID) error {
	return nil
}

// InvalidateCatalog implements TreeInvalidator.
func (NoopInvalidator) InvalidateCatalog(ctx context.Context) error {
	return nil
}

// ManageCatalogHandler handles catalog administration commands.
type ManageCatalogHandler struct {
	catalog     catalog.Repository
	invalidator TreeInvalidator
}

// NewManageCatalogHandler creates a new ManageCatalogHandler.
func NewManageCatalogHandler(repo catalog.Repository, invalidator TreeInvalidator) *ManageCatalogHandler {
	if invalidator == nil {
		invalidator = NoopInvalidator{}
	}
	return &ManageCatalogHandler{
		catalog:     repo,
		invalidator: invalidator,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CreateCourseCommand contains the data to create a course.
type CreateCourseCommand struct {
	Title                  string
	Description            string
	Price                  float64
	EstimatedDurationHours int
	Active                 bool
}

// CreateCourse creates a new course.
func (h *ManageCatalogHandler) CreateCourse(ctx context.Context, cmd CreateCourseCommand) (*catalog.Course, error) {
	now := time.Now().UTC()
	course := &catalog.Course{
		ID:                     shared.CourseID(uuid.NewString()),
		Title:                  cmd.Title,
		Description:            cmd.Description,
		Price:                  cmd.Price,
		EstimatedDurationHours: cmd.EstimatedDurationHours,
		Active:                 cmd.Active,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}
	if err := h.catalog.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse applies a partial update to a course.
func (h *ManageCatalogHandler) UpdateCourse(ctx context.Context, id shared.CourseID, upd catalog.CourseUpdate) (*catalog.Course, error) {
	course, err := h.catalog.UpdateCourse(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := h.invalidator.InvalidateCourse(ctx, id); err != nil {
		return nil, fmt.Errorf("manage_catalog: cache invalidation failed: %w", err)
	}
	return course, nil
}

// DeleteCourse deletes a course with its modules and lessons.
func (h *ManageCatalogHandler) DeleteCourse(ctx context.Context, id shared.CourseID) error {
	if err := h.catalog.DeleteCourse(ctx, id); err != nil {
		return err
	}
	return h.invalidator.InvalidateCourse(ctx, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Modules
// ─────────────────────────────────────────────────────────────────────────────

// CreateModuleCommand contains the data to create a module.
type CreateModuleCommand struct {
	CourseID    shared.CourseID
	Title       string
	Description string
	Position    catalog.Position
}

// CreateModule creates a new module under a course.
func (h *ManageCatalogHandler) CreateModule(ctx context.Context, cmd CreateModuleCommand) (*catalog.Module, error) {
	now := time.Now().UTC()
	module := &catalog.Module{
		ID:          shared.ModuleID(uuid.NewString()),
		CourseID:    cmd.CourseID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Position:    cmd.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := module.Validate(); err != nil {
		return nil, err
	}
	if err := h.catalog.CreateModule(ctx, module); err != nil {
		return nil, err
	}
	if err := h.invalidator.InvalidateCourse(ctx, cmd.CourseID); err != nil {
		return nil, fmt.Errorf("manage_catalog: cache invalidation failed: %w", err)
	}
	return module, nil
}

// UpdateModule applies a partial update to a module.
func (h *ManageCatalogHandler) UpdateModule(ctx context.Context, id shared.ModuleID, upd catalog.ModuleUpdate) (*catalog.Module, error) {
	module, err := h.catalog.UpdateModule(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := h.invalidator.InvalidateCourse(ctx, module.CourseID); err != nil {
		return nil, fmt.Errorf("manage_catalog: cache invalidation failed: %w", err)
	}
	return module, nil
}

// DeleteModule deletes a module with its lessons.
func (h *ManageCatalogHandler) DeleteModule(ctx context.Context, id shared.ModuleID) error {
	module, err := h.catalog.GetModule(ctx, id)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteModule(ctx, id); err != nil {
		return err
	}
	return h.invalidator.InvalidateCourse(ctx, module.CourseID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Lessons
// ─────────────────────────────────────────────────────────────────────────────

// CreateLessonCommand contains the data to create a lesson.
type CreateLessonCommand struct {
	ModuleID        shared.ModuleID
	Title           string
	Kind            catalog.LessonKind
	VideoURL        string
	Body            string
	DurationMinutes int
	Position        catalog.Position
	Active          bool
}

// CreateLesson creates a new lesson under a module.
func (h *ManageCatalogHandler) CreateLesson(ctx context.Context, cmd CreateLessonCommand) (*catalog.Lesson, error) {
	module, err := h.catalog.GetModule(ctx, cmd.ModuleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lesson := &catalog.Lesson{
		ID:              shared.LessonID(uuid.NewString()),
		ModuleID:        cmd.ModuleID,
		Title:           cmd.Title,
		Kind:            cmd.Kind,
		VideoURL:        cmd.VideoURL,
		Body:            cmd.Body,
		DurationMinutes: cmd.DurationMinutes,
		Position:        cmd.Position,
		Active:          cmd.Active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := lesson.Validate(); err != nil {
		return nil, err
	}
	if err := h.catalog.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	if err := h.invalidator.InvalidateCourse(ctx, module.CourseID); err != nil {
		return nil, fmt.Errorf("manage_catalog: cache invalidation failed: %w", err)
	}
	return lesson, nil
}

// UpdateLesson applies a partial update to a lesson. Deactivating a lesson
// removes it from progress denominators on the next aggregation.
func (h *ManageCatalogHandler) UpdateLesson(ctx context.Context, id shared.LessonID, upd catalog.LessonUpdate) (*catalog.Lesson, error) {
	lesson, err := h.catalog.UpdateLesson(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	courseID, err := h.catalog.ResolveLessonCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.invalidator.InvalidateCourse(ctx, courseID); err != nil {
		return nil, fmt.Errorf("manage_catalog: cache invalidation failed: %w", err)
	}
	return lesson, nil
}

// DeleteLesson deletes a lesson.
func (h *ManageCatalogHandler) DeleteLesson(ctx context.Context, id shared.LessonID) error {
	courseID, err := h.catalog.ResolveLessonCourse(ctx, id)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteLesson(ctx, id); err != nil {
		return err
	}
	return h.invalidator.InvalidateCourse(ctx, courseID)
}
