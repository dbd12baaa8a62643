package http

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/repository"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/service"
)

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()

	svc := service.NewProjectService(repository.NewProjectRepository(db), nil)
	New(svc).Register(r.Group("/api/v1/projects"))

	return r, mock
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProjectBadID(t *testing.T) {
	r, mock := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/projects/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid project id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectNotFound(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("SELECT project_id, project_name").
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	w := do(r, http.MethodGet, "/api/v1/projects/5", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "project not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectOK(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("SELECT project_id, project_name").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"project_id", "project_name", "estimated_hours", "actual_hours", "difficulty", "notes",
		}).AddRow(3, "Birdhouse", "3.50", nil, 2, "paint it"))
	mock.ExpectQuery("SELECT material_id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"material_id", "project_id", "material_name", "num_required", "cost"}))
	mock.ExpectQuery("SELECT step_id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"step_id", "project_id", "step_text", "step_order"}))
	mock.ExpectQuery("SELECT c.category_id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "category_name"}))

	w := do(r, http.MethodGet, "/api/v1/projects/3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"project_name":"Birdhouse"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProjectInvalidDifficulty(t *testing.T) {
	r, mock := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/projects",
		`{"project_name":"Birdhouse","difficulty":9}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid input")
	// validation failed before any store access
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProjectMalformedBody(t *testing.T) {
	r, mock := setupRouter(t)

	w := do(r, http.MethodPost, "/api/v1/projects", `{"project_name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid body")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProjectOK(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO project").
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow(12))
	mock.ExpectCommit()

	w := do(r, http.MethodPost, "/api/v1/projects",
		`{"project_name":"Birdhouse","estimated_hours":"3.5","difficulty":2}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"project_id":12`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectZeroRowsIs404(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE project").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := do(r, http.MethodPatch, "/api/v1/projects/7",
		`{"project_name":"Renamed"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProjectOK(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM project").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := do(r, http.MethodDelete, "/api/v1/projects/3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProjectNotFound(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM project").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := do(r, http.MethodDelete, "/api/v1/projects/99", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
