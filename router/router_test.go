package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parlour-attendance/handlers"
	"parlour-attendance/models"
	"parlour-attendance/pkg/realtime"
)

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (*models.Claims, error) {
	return nil, errors.New("no tokens accepted")
}

func newApp() *fiber.App {
	app := fiber.New()
	SetupRoutes(app, Handlers{
		Auth:       handlers.NewAuthHandler(nil, nil),
		Employee:   handlers.NewEmployeeHandler(nil),
		Attendance: handlers.NewAttendanceHandler(nil, nil),
		Task:       handlers.NewTaskHandler(nil),
		Realtime:   handlers.NewRealtimeHandler(realtime.NewHub(nil, 0)),
		Tokens:     rejectAll{},
	})
	return app
}

func TestPublicRoutes(t *testing.T) {
	app := newApp()

	for _, path := range []string{"/", "/api/health"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newApp()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/attendance/punch"},
		{http.MethodGet, "/api/attendance/today"},
		{http.MethodGet, "/api/attendance"},
		{http.MethodGet, "/api/attendance/employee/507f1f77bcf86cd799439011"},
		{http.MethodGet, "/api/attendance/employee/507f1f77bcf86cd799439011/badge"},
		{http.MethodGet, "/api/employees"},
		{http.MethodDelete, "/api/employees/507f1f77bcf86cd799439011"},
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/507f1f77bcf86cd799439011"},
		{http.MethodPut, "/api/tasks/507f1f77bcf86cd799439011"},
		{http.MethodDelete, "/api/tasks/507f1f77bcf86cd799439011"},
	}
	for _, r := range routes {
		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set("Authorization", "Bearer whatever")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", r.method, r.path)
	}
}

func TestWebSocketRouteRejectsPlainHTTP(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/attendance", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
