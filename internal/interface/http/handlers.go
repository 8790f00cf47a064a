package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/alphamind/alphamind-backend/internal/application/command"
	"github.com/alphamind/alphamind-backend/internal/application/query"
	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/progress"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

const maxRequestBody = 1 << 20 // 1 MB

// decodeJSON decodes a JSON request body into dst. On failure it writes
// the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON: "+err.Error())
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE DTOs
// ══════════════════════════════════════════════════════════════════════════════

type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   accountResponse `json:"account"`
}

type courseResponse struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description,omitempty"`
	Price                  float64   `json:"price"`
	EstimatedDurationHours int       `json:"estimated_duration_hours"`
	Active                 bool      `json:"active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type courseSummaryResponse struct {
	courseResponse
	ModuleCount          int `json:"module_count"`
	LessonCount          int `json:"lesson_count"`
	TotalDurationMinutes int `json:"total_duration_minutes"`
}

type moduleResponse struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`
}

type lessonResponse struct {
	ID              string `json:"id"`
	ModuleID        string `json:"module_id"`
	Title           string `json:"title"`
	Kind            string `json:"kind"`
	VideoURL        string `json:"video_url,omitempty"`
	Body            string `json:"body,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Position        int    `json:"position"`
	Active          bool   `json:"active"`
}

type moduleNodeResponse struct {
	moduleResponse
	Lessons []lessonResponse `json:"lessons"`
}

type courseTreeResponse struct {
	Course  courseResponse       `json:"course"`
	Modules []moduleNodeResponse `json:"modules"`
}

type enrollmentResponse struct {
	ID         string     `json:"id"`
	LearnerID  string     `json:"learner_id"`
	CourseID   string     `json:"course_id"`
	Status     string     `json:"status"`
	EnrolledAt time.Time  `json:"enrolled_at"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

type enrollmentViewResponse struct {
	Enrollment enrollmentResponse `json:"enrollment"`
	Course     *courseResponse    `json:"course,omitempty"`

	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	Percent          float64 `json:"percent"`
}

type lessonStatusResponse struct {
	LessonID        string `json:"lesson_id"`
	Title           string `json:"title"`
	Position        int    `json:"position"`
	DurationMinutes int    `json:"duration_minutes"`
	Completed       bool   `json:"completed"`
}

type moduleReportResponse struct {
	ModuleID         string                 `json:"module_id"`
	Title            string                 `json:"title"`
	Position         int                    `json:"position"`
	TotalLessons     int                    `json:"total_lessons"`
	CompletedLessons int                    `json:"completed_lessons"`
	Percent          float64                `json:"percent"`
	Lessons          []lessonStatusResponse `json:"lessons"`
}

type courseReportResponse struct {
	CourseID         string                 `json:"course_id"`
	TotalLessons     int                    `json:"total_lessons"`
	CompletedLessons int                    `json:"completed_lessons"`
	Percent          float64                `json:"percent"`
	Modules          []moduleReportResponse `json:"modules"`
}

type completionResponse struct {
	LearnerID  string    `json:"learner_id"`
	LessonID   string    `json:"lesson_id"`
	Completed  bool      `json:"completed"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// DTO mapping
// ─────────────────────────────────────────────────────────────────────────────

func toAccountResponse(a *identity.Account) accountResponse {
	return accountResponse{
		ID:        string(a.ID),
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}

func toCourseResponse(c catalog.Course) courseResponse {
	return courseResponse{
		ID:                     string(c.ID),
		Title:                  c.Title,
		Description:            c.Description,
		Price:                  c.Price,
		EstimatedDurationHours: c.EstimatedDurationHours,
		Active:                 c.Active,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

func toCourseSummaryResponse(s catalog.CourseSummary) courseSummaryResponse {
	return courseSummaryResponse{
		courseResponse:       toCourseResponse(s.Course),
		ModuleCount:          s.ModuleCount,
		LessonCount:          s.LessonCount,
		TotalDurationMinutes: s.TotalDurationMinutes,
	}
}

func toModuleResponse(m catalog.Module) moduleResponse {
	return moduleResponse{
		ID:          string(m.ID),
		CourseID:    string(m.CourseID),
		Title:       m.Title,
		Description: m.Description,
		Position:    int(m.Position),
	}
}

func toLessonResponse(l catalog.Lesson) lessonResponse {
	return lessonResponse{
		ID:              string(l.ID),
		ModuleID:        string(l.ModuleID),
		Title:           l.Title,
		Kind:            string(l.Kind),
		VideoURL:        l.VideoURL,
		Body:            l.Body,
		DurationMinutes: l.DurationMinutes,
		Position:        int(l.Position),
		Active:          l.Active,
	}
}

func toCourseTreeResponse(t *catalog.CourseTree) courseTreeResponse {
	resp := courseTreeResponse{
		Course:  toCourseResponse(t.Course),
		Modules: make([]moduleNodeResponse, 0, len(t.Modules)),
	}
	for _, mn := range t.Modules {
		node := moduleNodeResponse{
			moduleResponse: toModuleResponse(mn.Module),
			Lessons:        make([]lessonResponse, 0, len(mn.Lessons)),
		}
		for _, l := range mn.Lessons {
			node.Lessons = append(node.Lessons, toLessonResponse(l))
		}
		resp.Modules = append(resp.Modules, node)
	}
	return resp
}

func toEnrollmentResponse(e *enrollment.Enrollment) enrollmentResponse {
	return enrollmentResponse{
		ID:         e.ID,
		LearnerID:  string(e.LearnerID),
		CourseID:   string(e.CourseID),
		Status:     string(e.Status),
		EnrolledAt: e.EnrolledAt,
		ValidUntil: e.ValidUntil,
	}
}

func toCourseReportResponse(r *progress.CourseReport) courseReportResponse {
	resp := courseReportResponse{
		CourseID:         string(r.CourseID),
		TotalLessons:     r.TotalLessons,
		CompletedLessons: r.CompletedLessons,
		Percent:          r.Percent.Float64(),
		Modules:          make([]moduleReportResponse, 0, len(r.Modules)),
	}
	for _, m := range r.Modules {
		mr := moduleReportResponse{
			ModuleID:         string(m.ModuleID),
			Title:            m.Title,
			Position:         int(m.Position),
			TotalLessons:     m.TotalLessons,
			CompletedLessons: m.CompletedLessons,
			Percent:          m.Percent.Float64(),
			Lessons:          make([]lessonStatusResponse, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			mr.Lessons = append(mr.Lessons, lessonStatusResponse{
				LessonID:        string(l.LessonID),
				Title:           l.Title,
				Position:        int(l.Position),
				DurationMinutes: l.DurationMinutes,
				Completed:       l.Completed,
			})
		}
		resp.Modules = append(resp.Modules, mr)
	}
	return resp
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles the root endpoint.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "alphamind-backend",
		"status":  "running",
		"uptime":  s.Uptime().Round(time.Second).String(),
	})
}

// handleHealth handles the full health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handleReady handles the readiness probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"ready": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// handleLive handles the liveness probe. Always succeeds while the
// process accepts connections.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"alive": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegister handles POST /api/v1/auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterHandler.Handle(r.Context(), command.RegisterLearnerCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(result.Account))
}

// handleLogin handles POST /api/v1/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.AuthenticateHandler.Handle(r.Context(), query.AuthenticateLearnerQuery{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
		Account:   toAccountResponse(result.Account),
	})
}

// handleMe handles GET /api/v1/auth/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	learnerID := learnerFromContext(r.Context())

	account, err := s.deps.Accounts.GetByID(r.Context(), learnerID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS (public storefront)
// ══════════════════════════════════════════════════════════════════════════════

// handleListCourses handles GET /api/v1/courses.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListCoursesHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	courses := make([]courseSummaryResponse, 0, len(result.Courses))
	for _, c := range result.Courses {
		courses = append(courses, toCourseSummaryResponse(c))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"count":   len(courses),
	})
}

// handleGetCourseTree handles GET /api/v1/courses/{id}.
func (s *Server) handleGetCourseTree(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetCourseTreeHandler.Handle(r.Context(), query.GetCourseTreeQuery{
		CourseID: shared.CourseID(r.PathValue("id")),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseTreeResponse(result.Tree))
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER HANDLERS (authenticated)
// ══════════════════════════════════════════════════════════════════════════════

// handleListEnrollments handles GET /api/v1/me/enrollments.
// ?progress=true adds per-course completion percentages.
func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListEnrollmentsHandler.Handle(r.Context(), query.ListEnrollmentsQuery{
		LearnerID:       learnerFromContext(r.Context()),
		IncludeProgress: getQueryParamBool(r, "progress"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	views := make([]enrollmentViewResponse, 0, len(result.Enrollments))
	for _, v := range result.Enrollments {
		view := enrollmentViewResponse{
			Enrollment:       toEnrollmentResponse(v.Enrollment),
			TotalLessons:     v.TotalLessons,
			CompletedLessons: v.CompletedLessons,
			Percent:          v.Percent.Float64(),
		}
		if !v.Course.ID.IsEmpty() {
			course := toCourseResponse(v.Course)
			view.Course = &course
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"enrollments": views,
		"count":       len(views),
	})
}

// handleGetCourseProgress handles GET /api/v1/courses/{id}/progress.
func (s *Server) handleGetCourseProgress(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetCourseProgressHandler.Handle(r.Context(), query.GetCourseProgressQuery{
		LearnerID: learnerFromContext(r.Context()),
		CourseID:  shared.CourseID(r.PathValue("id")),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseReportResponse(result.Report))
}

// handleMarkComplete handles POST /api/v1/lessons/{id}/complete.
func (s *Server) handleMarkComplete(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.MarkCompleteHandler.Handle(r.Context(), command.MarkLessonCompleteCommand{
		LearnerID: learnerFromContext(r.Context()),
		LessonID:  shared.LessonID(r.PathValue("id")),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, completionResponse{
		LearnerID:  string(result.LearnerID),
		LessonID:   string(result.LessonID),
		Completed:  true,
		RecordedAt: result.RecordedAt,
	})
}

// handleMarkIncomplete handles DELETE /api/v1/lessons/{id}/complete.
func (s *Server) handleMarkIncomplete(w http.ResponseWriter, r *http.Request) {
	learnerID := learnerFromContext(r.Context())
	lessonID := shared.LessonID(r.PathValue("id"))

	err := s.deps.MarkIncompleteHandler.Handle(r.Context(), command.MarkLessonIncompleteCommand{
		LearnerID: learnerID,
		LessonID:  lessonID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, completionResponse{
		LearnerID:  string(learnerID),
		LessonID:   string(lessonID),
		Completed:  false,
		RecordedAt: time.Now().UTC(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS - ENROLLMENTS
// ══════════════════════════════════════════════════════════════════════════════

// handleActivateEnrollment handles POST /api/v1/admin/enrollments.
func (s *Server) handleActivateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LearnerID  string     `json:"learner_id"`
		CourseID   string     `json:"course_id"`
		ValidUntil *time.Time `json:"valid_until"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.ActivateEnrollment.Handle(r.Context(), command.ActivateEnrollmentCommand{
		LearnerID:  shared.LearnerID(req.LearnerID),
		CourseID:   shared.CourseID(req.CourseID),
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEnrollmentResponse(result.Enrollment))
}

// handleExpireEnrollment handles POST /api/v1/admin/enrollments/{id}/expire.
func (s *Server) handleExpireEnrollment(w http.ResponseWriter, r *http.Request) {
	err := s.deps.ExpireEnrollment.Handle(r.Context(), command.ExpireEnrollmentCommand{
		EnrollmentID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"enrollment_id": r.PathValue("id"),
		"status":        string(enrollment.StatusExpired),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS - COURSES
// ══════════════════════════════════════════════════════════════════════════════

// handleAdminListCourses handles GET /api/v1/admin/courses.
// Unlike the public listing it includes inactive courses.
func (s *Server) handleAdminListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.Catalog.ListCourses(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]courseSummaryResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseSummaryResponse(c))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"courses": out,
		"count":   len(out),
	})
}

// handleCreateCourse handles POST /api/v1/admin/courses.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title                  string  `json:"title"`
		Description            string  `json:"description"`
		Price                  float64 `json:"price"`
		EstimatedDurationHours int     `json:"estimated_duration_hours"`
		Active                 *bool   `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	course, err := s.deps.ManageCatalogHandler.CreateCourse(r.Context(), command.CreateCourseCommand{
		Title:                  req.Title,
		Description:            req.Description,
		Price:                  req.Price,
		EstimatedDurationHours: req.EstimatedDurationHours,
		Active:                 active,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCourseResponse(*course))
}

// handleUpdateCourse handles PATCH /api/v1/admin/courses/{id}.
// Absent fields keep their stored values.
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title                  *string  `json:"title"`
		Description            *string  `json:"description"`
		Price                  *float64 `json:"price"`
		EstimatedDurationHours *int     `json:"estimated_duration_hours"`
		Active                 *bool    `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := s.deps.ManageCatalogHandler.UpdateCourse(r.Context(),
		shared.CourseID(r.PathValue("id")),
		catalog.CourseUpdate{
			Title:                  req.Title,
			Description:            req.Description,
			Price:                  req.Price,
			EstimatedDurationHours: req.EstimatedDurationHours,
			Active:                 req.Active,
		})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(*course))
}

// handleDeleteCourse handles DELETE /api/v1/admin/courses/{id}.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ManageCatalogHandler.DeleteCourse(r.Context(), shared.CourseID(r.PathValue("id"))); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS - MODULES
// ══════════════════════════════════════════════════════════════════════════════

// handleAdminListModules handles GET /api/v1/admin/courses/{id}/modules.
func (s *Server) handleAdminListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := s.deps.Catalog.ListModules(r.Context(), shared.CourseID(r.PathValue("id")))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]moduleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, toModuleResponse(m))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"modules": out,
		"count":   len(out),
	})
}

// handleCreateModule handles POST /api/v1/admin/modules.
func (s *Server) handleCreateModule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseID    string `json:"course_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Position    int    `json:"position"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	module, err := s.deps.ManageCatalogHandler.CreateModule(r.Context(), command.CreateModuleCommand{
		CourseID:    shared.CourseID(req.CourseID),
		Title:       req.Title,
		Description: req.Description,
		Position:    catalog.Position(req.Position),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toModuleResponse(*module))
}

// handleUpdateModule handles PATCH /api/v1/admin/modules/{id}.
func (s *Server) handleUpdateModule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Position    *int    `json:"position"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := catalog.ModuleUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Position != nil {
		pos := catalog.Position(*req.Position)
		upd.Position = &pos
	}

	module, err := s.deps.ManageCatalogHandler.UpdateModule(r.Context(), shared.ModuleID(r.PathValue("id")), upd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toModuleResponse(*module))
}

// handleDeleteModule handles DELETE /api/v1/admin/modules/{id}.
func (s *Server) handleDeleteModule(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ManageCatalogHandler.DeleteModule(r.Context(), shared.ModuleID(r.PathValue("id"))); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS - LESSONS
// ══════════════════════════════════════════════════════════════════════════════

// handleAdminListLessons handles GET /api/v1/admin/modules/{id}/lessons.
// Includes inactive lessons, which the public course tree hides.
func (s *Server) handleAdminListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.deps.Catalog.ListLessons(r.Context(), shared.ModuleID(r.PathValue("id")))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]lessonResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, toLessonResponse(l))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lessons": out,
		"count":   len(out),
	})
}

// handleCreateLesson handles POST /api/v1/admin/lessons.
func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModuleID        string `json:"module_id"`
		Title           string `json:"title"`
		Kind            string `json:"kind"`
		VideoURL        string `json:"video_url"`
		Body            string `json:"body"`
		DurationMinutes int    `json:"duration_minutes"`
		Position        int    `json:"position"`
		Active          *bool  `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	lesson, err := s.deps.ManageCatalogHandler.CreateLesson(r.Context(), command.CreateLessonCommand{
		ModuleID:        shared.ModuleID(req.ModuleID),
		Title:           req.Title,
		Kind:            catalog.LessonKind(req.Kind),
		VideoURL:        req.VideoURL,
		Body:            req.Body,
		DurationMinutes: req.DurationMinutes,
		Position:        catalog.Position(req.Position),
		Active:          active,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLessonResponse(*lesson))
}

// handleUpdateLesson handles PATCH /api/v1/admin/lessons/{id}.
func (s *Server) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title           *string `json:"title"`
		Kind            *string `json:"kind"`
		VideoURL        *string `json:"video_url"`
		Body            *string `json:"body"`
		DurationMinutes *int    `json:"duration_minutes"`
		Position        *int    `json:"position"`
		Active          *bool   `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := catalog.LessonUpdate{
		Title:           req.Title,
		VideoURL:        req.VideoURL,
		Body:            req.Body,
		DurationMinutes: req.DurationMinutes,
		Active:          req.Active,
	}
	if req.Kind != nil {
		kind := catalog.LessonKind(*req.Kind)
		upd.Kind = &kind
	}
	if req.Position != nil {
		pos := catalog.Position(*req.Position)
		upd.Position = &pos
	}

	lesson, err := s.deps.ManageCatalogHandler.UpdateLesson(r.Context(), shared.LessonID(r.PathValue("id")), upd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLessonResponse(*lesson))
}

// handleDeleteLesson handles DELETE /api/v1/admin/lessons/{id}.
func (s *Server) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ManageCatalogHandler.DeleteLesson(r.Context(), shared.LessonID(r.PathValue("id"))); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
