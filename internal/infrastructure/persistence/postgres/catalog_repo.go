package postgres

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// CatalogRepository implements catalog.Repository using PostgreSQL.
// The course tree is fetched with a fixed number of queries (course,
// modules, lessons) regardless of tree size; there is no per-module
// round trip.
type CatalogRepository struct {
	conn *Connection
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(conn *Connection) *CatalogRepository {
	return &CatalogRepository{conn: conn}
}

const courseColumns = `id, title, description, price, estimated_duration_hours, active, created_at, updated_at`

const moduleColumns = `id, course_id, title, description, position, created_at, updated_at`

const lessonColumns = `id, module_id, title, kind, COALESCE(video_url, ''), COALESCE(body, ''), duration_minutes, position, active, created_at, updated_at`

func scanCourse(row interface{ Scan(...interface{}) error }) (*catalog.Course, error) {
	var c catalog.Course
	var id string
	err := row.Scan(
		&id,
		&c.Title,
		&c.Description,
		&c.Price,
		&c.EstimatedDurationHours,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ID = shared.CourseID(id)
	return &c, nil
}

func scanModule(row interface{ Scan(...interface{}) error }) (*catalog.Module, error) {
	var m catalog.Module
	var id, courseID string
	err := row.Scan(
		&id,
		&courseID,
		&m.Title,
		&m.Description,
		&m.Position,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ID = shared.ModuleID(id)
	m.CourseID = shared.CourseID(courseID)
	return &m, nil
}

func scanLesson(row interface{ Scan(...interface{}) error }) (*catalog.Lesson, error) {
	var l catalog.Lesson
	var id, moduleID, kind string
	err := row.Scan(
		&id,
		&moduleID,
		&l.Title,
		&kind,
		&l.VideoURL,
		&l.Body,
		&l.DurationMinutes,
		&l.Position,
		&l.Active,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ID = shared.LessonID(id)
	l.ModuleID = shared.ModuleID(moduleID)
	l.Kind = catalog.LessonKind(kind)
	return &l, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reader
// ─────────────────────────────────────────────────────────────────────────────

// GetCourseTree returns a course with its modules ordered by position and
// each module's active lessons ordered by position. Inactive and missing
// courses are both reported as shared.ErrCourseNotFound.
func (r *CatalogRepository) GetCourseTree(ctx context.Context, courseID shared.CourseID) (*catalog.CourseTree, error) {
	courseQuery := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND active = TRUE`

	course, err := scanCourse(r.conn.QueryRow(ctx, courseQuery, string(courseID)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, storeError("catalog", "GetCourseTree", err)
	}

	moduleQuery := `
		SELECT ` + moduleColumns + `
		FROM modules
		WHERE course_id = $1
		ORDER BY position`

	moduleRows, err := r.conn.Query(ctx, moduleQuery, string(courseID))
	if err != nil {
		return nil, storeError("catalog", "GetCourseTree", err)
	}
	defer moduleRows.Close()

	tree := &catalog.CourseTree{Course: *course}
	nodeIndex := make(map[shared.ModuleID]int)
	for moduleRows.Next() {
		module, err := scanModule(moduleRows)
		if err != nil {
			return nil, storeError("catalog", "GetCourseTree", err)
		}
		nodeIndex[module.ID] = len(tree.Modules)
		tree.Modules = append(tree.Modules, catalog.ModuleNode{Module: *module})
	}
	if err := moduleRows.Err(); err != nil {
		return nil, storeError("catalog", "GetCourseTree", err)
	}

	lessonQuery := `
		SELECT ` + lessonColumnsPrefixed("l") + `
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		WHERE m.course_id = $1 AND l.active = TRUE
		ORDER BY m.position, l.position`

	lessonRows, err := r.conn.Query(ctx, lessonQuery, string(courseID))
	if err != nil {
		return nil, storeError("catalog", "GetCourseTree", err)
	}
	defer lessonRows.Close()

	for lessonRows.Next() {
		lesson, err := scanLesson(lessonRows)
		if err != nil {
			return nil, storeError("catalog", "GetCourseTree", err)
		}
		if idx, ok := nodeIndex[lesson.ModuleID]; ok {
			tree.Modules[idx].Lessons = append(tree.Modules[idx].Lessons, *lesson)
		}
	}
	if err := lessonRows.Err(); err != nil {
		return nil, storeError("catalog", "GetCourseTree", err)
	}

	return tree, nil
}

func lessonColumnsPrefixed(alias string) string {
	return alias + `.id, ` + alias + `.module_id, ` + alias + `.title, ` + alias + `.kind, ` +
		`COALESCE(` + alias + `.video_url, ''), COALESCE(` + alias + `.body, ''), ` +
		alias + `.duration_minutes, ` + alias + `.position, ` + alias + `.active, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

// ResolveLessonCourse returns the course a lesson belongs to. Used by the
// access gate to authorize mark/unmark transitively through the tree.
func (r *CatalogRepository) ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error) {
	query := `
		SELECT m.course_id
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		WHERE l.id = $1`

	var courseID string
	err := r.conn.QueryRow(ctx, query, string(lessonID)).Scan(&courseID)
	if err != nil {
		if IsNoRows(err) {
			return "", shared.ErrLessonNotFound
		}
		return "", storeError("catalog", "ResolveLessonCourse", err)
	}

	return shared.CourseID(courseID), nil
}

// ListActiveCourses returns active courses with catalog aggregates,
// newest first. Inactive lessons do not contribute to lesson counts or
// total duration.
func (r *CatalogRepository) ListActiveCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	query := `
		SELECT
			c.id, c.title, c.description, c.price, c.estimated_duration_hours,
			c.active, c.created_at, c.updated_at,
			COUNT(DISTINCT m.id),
			COUNT(l.id) FILTER (WHERE l.active),
			COALESCE(SUM(l.duration_minutes) FILTER (WHERE l.active), 0)
		FROM courses c
		LEFT JOIN modules m ON m.course_id = c.id
		LEFT JOIN lessons l ON l.module_id = m.id
		WHERE c.active = TRUE
		GROUP BY c.id
		ORDER BY c.created_at DESC`

	return r.querySummaries(ctx, "ListActiveCourses", query)
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CreateCourse inserts a new course.
func (r *CatalogRepository) CreateCourse(ctx context.Context, c *catalog.Course) error {
	query := `
		INSERT INTO courses (id, title, description, price, estimated_duration_hours, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.conn.Exec(ctx, query,
		string(c.ID), c.Title, c.Description, c.Price,
		c.EstimatedDurationHours, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return storeError("catalog", "CreateCourse", err)
	}

	return nil
}

// GetCourse returns a course by ID, including inactive ones.
// Administrative read; learner reads go through GetCourseTree.
func (r *CatalogRepository) GetCourse(ctx context.Context, id shared.CourseID) (*catalog.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, storeError("catalog", "GetCourse", err)
	}

	return course, nil
}

// UpdateCourse applies a partial update: nil fields keep current values.
func (r *CatalogRepository) UpdateCourse(ctx context.Context, id shared.CourseID, upd catalog.CourseUpdate) (*catalog.Course, error) {
	query := `
		UPDATE courses SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			estimated_duration_hours = COALESCE($5, estimated_duration_hours),
			active = COALESCE($6, active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + courseColumns

	course, err := scanCourse(r.conn.QueryRow(ctx, query,
		string(id), upd.Title, upd.Description, upd.Price,
		upd.EstimatedDurationHours, upd.Active,
	))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, storeError("catalog", "UpdateCourse", err)
	}

	return course, nil
}

// DeleteCourse deletes a course; modules and lessons cascade.
func (r *CatalogRepository) DeleteCourse(ctx context.Context, id shared.CourseID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, string(id))
	if err != nil {
		return storeError("catalog", "DeleteCourse", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// ListCourses returns all courses with aggregates, including inactive
// ones. Administrative read.
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	query := `
		SELECT
			c.id, c.title, c.description, c.price, c.estimated_duration_hours,
			c.active, c.created_at, c.updated_at,
			COUNT(DISTINCT m.id),
			COUNT(l.id),
			COALESCE(SUM(l.duration_minutes), 0)
		FROM courses c
		LEFT JOIN modules m ON m.course_id = c.id
		LEFT JOIN lessons l ON l.module_id = m.id
		GROUP BY c.id
		ORDER BY c.created_at DESC`

	return r.querySummaries(ctx, "ListCourses", query)
}

func (r *CatalogRepository) querySummaries(ctx context.Context, op, query string) ([]catalog.CourseSummary, error) {
	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, storeError("catalog", op, err)
	}
	defer rows.Close()

	summaries := make([]catalog.CourseSummary, 0)
	for rows.Next() {
		var s catalog.CourseSummary
		var id string
		err := rows.Scan(
			&id,
			&s.Course.Title,
			&s.Course.Description,
			&s.Course.Price,
			&s.Course.EstimatedDurationHours,
			&s.Course.Active,
			&s.Course.CreatedAt,
			&s.Course.UpdatedAt,
			&s.ModuleCount,
			&s.LessonCount,
			&s.TotalDurationMinutes,
		)
		if err != nil {
			return nil, storeError("catalog", op, err)
		}
		s.Course.ID = shared.CourseID(id)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("catalog", op, err)
	}

	return summaries, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Modules
// ─────────────────────────────────────────────────────────────────────────────

// CreateModule inserts a new module under a course.
func (r *CatalogRepository) CreateModule(ctx context.Context, m *catalog.Module) error {
	query := `
		INSERT INTO modules (id, course_id, title, description, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.conn.Exec(ctx, query,
		string(m.ID), string(m.CourseID), m.Title, m.Description,
		m.Position, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return shared.NewDomainError("catalog", "CreateModule", shared.ErrAlreadyExists, "module position already taken in course")
		case IsForeignKeyViolation(err):
			return shared.ErrCourseNotFound
		default:
			return storeError("catalog", "CreateModule", err)
		}
	}

	return nil
}

// GetModule returns a module by ID.
func (r *CatalogRepository) GetModule(ctx context.Context, id shared.ModuleID) (*catalog.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1`

	module, err := scanModule(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrModuleNotFound
		}
		return nil, storeError("catalog", "GetModule", err)
	}

	return module, nil
}

// UpdateModule applies a partial update to a module.
func (r *CatalogRepository) UpdateModule(ctx context.Context, id shared.ModuleID, upd catalog.ModuleUpdate) (*catalog.Module, error) {
	query := `
		UPDATE modules SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			position = COALESCE($4, position),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + moduleColumns

	module, err := scanModule(r.conn.QueryRow(ctx, query,
		string(id), upd.Title, upd.Description, upd.Position,
	))
	if err != nil {
		switch {
		case IsNoRows(err):
			return nil, shared.ErrModuleNotFound
		case IsUniqueViolation(err):
			return nil, shared.NewDomainError("catalog", "UpdateModule", shared.ErrAlreadyExists, "module position already taken in course")
		default:
			return nil, storeError("catalog", "UpdateModule", err)
		}
	}

	return module, nil
}

// DeleteModule deletes a module; its lessons cascade.
func (r *CatalogRepository) DeleteModule(ctx context.Context, id shared.ModuleID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM modules WHERE id = $1`, string(id))
	if err != nil {
		return storeError("catalog", "DeleteModule", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrModuleNotFound
	}

	return nil
}

// ListModules returns all modules of a course ordered by position.
func (r *CatalogRepository) ListModules(ctx context.Context, courseID shared.CourseID) ([]catalog.Module, error) {
	query := `
		SELECT ` + moduleColumns + `
		FROM modules
		WHERE course_id = $1
		ORDER BY position`

	rows, err := r.conn.Query(ctx, query, string(courseID))
	if err != nil {
		return nil, storeError("catalog", "ListModules", err)
	}
	defer rows.Close()

	modules := make([]catalog.Module, 0)
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, storeError("catalog", "ListModules", err)
		}
		modules = append(modules, *module)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("catalog", "ListModules", err)
	}

	return modules, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lessons
// ─────────────────────────────────────────────────────────────────────────────

// CreateLesson inserts a new lesson under a module.
func (r *CatalogRepository) CreateLesson(ctx context.Context, l *catalog.Lesson) error {
	query := `
		INSERT INTO lessons (id, module_id, title, kind, video_url, body, duration_minutes, position, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5::text, ''), NULLIF($6::text, ''), $7, $8, $9, $10, $11)`

	_, err := r.conn.Exec(ctx, query,
		string(l.ID), string(l.ModuleID), l.Title, string(l.Kind),
		l.VideoURL, l.Body, l.DurationMinutes, l.Position, l.Active,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return shared.NewDomainError("catalog", "CreateLesson", shared.ErrAlreadyExists, "lesson position already taken in module")
		case IsForeignKeyViolation(err):
			return shared.ErrModuleNotFound
		default:
			return storeError("catalog", "CreateLesson", err)
		}
	}

	return nil
}

// GetLesson returns a lesson by ID, including inactive ones.
func (r *CatalogRepository) GetLesson(ctx context.Context, id shared.LessonID) (*catalog.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLessonNotFound
		}
		return nil, storeError("catalog", "GetLesson", err)
	}

	return lesson, nil
}

// UpdateLesson applies a partial update to a lesson. Flipping active off
// removes the lesson from progress aggregation on the next read.
func (r *CatalogRepository) UpdateLesson(ctx context.Context, id shared.LessonID, upd catalog.LessonUpdate) (*catalog.Lesson, error) {
	var kind *string
	if upd.Kind != nil {
		k := string(*upd.Kind)
		kind = &k
	}

	query := `
		UPDATE lessons SET
			title = COALESCE($2, title),
			kind = COALESCE($3, kind),
			video_url = COALESCE(NULLIF($4::text, ''), video_url),
			body = COALESCE(NULLIF($5::text, ''), body),
			duration_minutes = COALESCE($6, duration_minutes),
			position = COALESCE($7, position),
			active = COALESCE($8, active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + lessonColumns

	lesson, err := scanLesson(r.conn.QueryRow(ctx, query,
		string(id), upd.Title, kind, upd.VideoURL, upd.Body,
		upd.DurationMinutes, upd.Position, upd.Active,
	))
	if err != nil {
		switch {
		case IsNoRows(err):
			return nil, shared.ErrLessonNotFound
		case IsUniqueViolation(err):
			return nil, shared.NewDomainError("catalog", "UpdateLesson", shared.ErrAlreadyExists, "lesson position already taken in module")
		default:
			return nil, storeError("catalog", "UpdateLesson", err)
		}
	}

	return lesson, nil
}

// DeleteLesson deletes a lesson.
func (r *CatalogRepository) DeleteLesson(ctx context.Context, id shared.LessonID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, string(id))
	if err != nil {
		return storeError("catalog", "DeleteLesson", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrLessonNotFound
	}

	return nil
}

// ListLessons returns all lessons of a module ordered by position,
// inactive ones included. Administrative read.
func (r *CatalogRepository) ListLessons(ctx context.Context, moduleID shared.ModuleID) ([]catalog.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE module_id = $1
		ORDER BY position`

	rows, err := r.conn.Query(ctx, query, string(moduleID))
	if err != nil {
		return nil, storeError("catalog", "ListLessons", err)
	}
	defer rows.Close()

	lessons := make([]catalog.Lesson, 0)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, storeError("catalog", "ListLessons", err)
		}
		lessons = append(lessons, *lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("catalog", "ListLessons", err)
	}

	return lessons, nil
}
