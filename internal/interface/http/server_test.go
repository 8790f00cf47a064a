package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphamind/alphamind-backend/internal/application/command"
	"github.com/alphamind/alphamind-backend/internal/application/query"
	"github.com/alphamind/alphamind-backend/internal/domain/catalog"
	"github.com/alphamind/alphamind-backend/internal/domain/enrollment"
	"github.com/alphamind/alphamind-backend/internal/domain/identity"
	"github.com/alphamind/alphamind-backend/internal/domain/shared"
	"github.com/alphamind/alphamind-backend/internal/interface/http/handlers"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeReader struct {
	tree *catalog.CourseTree
}

func (f *fakeReader) GetCourseTree(ctx context.Context, courseID shared.CourseID) (*catalog.CourseTree, error) {
	if f.tree == nil || f.tree.Course.ID != courseID {
		return nil, shared.ErrCourseNotFound
	}
	return f.tree, nil
}

func (f *fakeReader) ResolveLessonCourse(ctx context.Context, lessonID shared.LessonID) (shared.CourseID, error) {
	return "", shared.ErrLessonNotFound
}

func (f *fakeReader) ListActiveCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	if f.tree == nil {
		return nil, nil
	}
	return []catalog.CourseSummary{{Course: f.tree.Course, ModuleCount: 1, LessonCount: 2}}, nil
}

type fakeEnrollStore struct {
	expireErr error
	expired   []string
}

func (f *fakeEnrollStore) Activate(ctx context.Context, e *enrollment.Enrollment) error {
	return nil
}

func (f *fakeEnrollStore) GetActiveEnrollment(ctx context.Context, learnerID shared.LearnerID, courseID shared.CourseID) (*enrollment.Enrollment, error) {
	return nil, shared.ErrNoActiveEnrollment
}

func (f *fakeEnrollStore) ListActiveEnrollments(ctx context.Context, learnerID shared.LearnerID) ([]*enrollment.Enrollment, error) {
	return nil, nil
}

func (f *fakeEnrollStore) Expire(ctx context.Context, enrollmentID string) error {
	if f.expireErr != nil {
		return f.expireErr
	}
	f.expired = append(f.expired, enrollmentID)
	return nil
}

type fakeAccounts struct {
	account *identity.Account
}

func (f *fakeAccounts) Create(ctx context.Context, a *identity.Account) error { return nil }

func (f *fakeAccounts) GetByID(ctx context.Context, id shared.LearnerID) (*identity.Account, error) {
	if f.account == nil || f.account.ID != id {
		return nil, shared.ErrLearnerNotFound
	}
	return f.account, nil
}

func (f *fakeAccounts) GetByEmail(ctx context.Context, email string) (*identity.Account, error) {
	if f.account == nil || f.account.Email != email {
		return nil, shared.ErrLearnerNotFound
	}
	return f.account, nil
}

// fakeVerifier maps fixed bearer tokens to identities.
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (shared.LearnerID, identity.Role, error) {
	switch token {
	case "learner-token":
		return "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b", identity.RoleLearner, nil
	case "admin-token":
		return "9ca4322d-ebd5-4ffa-a340-56fe811bbab1", identity.RoleAdmin, nil
	}
	return "", "", shared.ErrInvalidToken
}

func testServer(t *testing.T) (*Server, *fakeEnrollStore) {
	t.Helper()

	tree := &catalog.CourseTree{
		Course: catalog.Course{ID: "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b", Title: "Go", Active: true},
	}
	reader := &fakeReader{tree: tree}
	enrollStore := &fakeEnrollStore{}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // no throttling in tests

	deps := Dependencies{
		ListCoursesHandler:   query.NewListCoursesHandler(reader),
		GetCourseTreeHandler: query.NewGetCourseTreeHandler(reader),
		ExpireEnrollment:     command.NewExpireEnrollmentHandler(enrollStore),
		Accounts: &fakeAccounts{account: &identity.Account{
			ID:           "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b",
			Name:         "Amina",
			Email:        "amina@example.com",
			PasswordHash: "x",
			Role:         identity.RoleLearner,
			CreatedAt:    time.Now().UTC(),
		}},
		Tokens:        fakeVerifier{},
		HealthChecker: handlers.NewNoopHealthChecker(),
	}

	return NewServer(cfg, deps), enrollStore
}

func doRequest(t *testing.T, s *Server, method, path, token string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	var body JSONResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestServer_Health(t *testing.T) {
	s, _ := testServer(t)

	rec, body := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestServer_ListCourses(t *testing.T) {
	s, _ := testServer(t)

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/courses", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestServer_GetCourseTree_NotFound(t *testing.T) {
	s, _ := testServer(t)

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/courses/9ca4322d-ebd5-4ffa-a340-56fe811bbab1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestServer_AuthRequired(t *testing.T) {
	s, _ := testServer(t)

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "unauthorized", body.Error.Code)

	rec, _ = doRequest(t, s, http.MethodGet, "/api/v1/auth/me", "bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = doRequest(t, s, http.MethodGet, "/api/v1/auth/me", "learner-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestServer_AdminRoleEnforced(t *testing.T) {
	s, store := testServer(t)

	// A valid learner token on an admin route is 403, not 401.
	rec, body := doRequest(t, s, http.MethodPost, "/api/v1/admin/enrollments/e1/expire", "learner-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "forbidden", body.Error.Code)
	assert.Empty(t, store.expired)

	rec, _ = doRequest(t, s, http.MethodPost, "/api/v1/admin/enrollments/e1/expire", "admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"e1"}, store.expired)
}

func TestServer_DomainErrorMapping(t *testing.T) {
	s, store := testServer(t)

	store.expireErr = shared.ErrEnrollmentNotFound
	rec, _ := doRequest(t, s, http.MethodPost, "/api/v1/admin/enrollments/ghost/expire", "admin-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	store.expireErr = shared.ErrStoreUnavailable
	rec, body := doRequest(t, s, http.MethodPost, "/api/v1/admin/enrollments/e1/expire", "admin-token")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "store_unavailable", body.Error.Code)

	store.expireErr = shared.ErrEnrollmentConsistency
	rec, _ = doRequest(t, s, http.MethodPost, "/api/v1/admin/enrollments/e1/expire", "admin-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
