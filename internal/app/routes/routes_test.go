package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/models"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/domain/services/container"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/config"
	"github.com/Anouar-Rezrazi/Konecta-Project/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	database.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type apiFixture struct {
	t          *testing.T
	db         *gorm.DB
	container  *container.ServiceContainer
	router     *Router
	supervisor models.User
	agentA     models.User
	agentB     models.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		JWTSecretKey:       "test-secret",
		JWTExpirationHours: 1,
		StatsTimezone:      "UTC",
	}
	services := container.NewServiceContainer(database.NewConnectionPoolFromDB(db, "sqlite"), cfg, container.Options{})

	f := &apiFixture{
		t:         t,
		db:        db,
		container: services,
		router:    SetupRouter(services),
	}
	f.supervisor = f.createUser("Sara Supervisor", "supervisor@demo.com", models.RoleSupervisor)
	f.agentA = f.createUser("Amine Agent", "agent.a@demo.com", models.RoleAgent)
	f.agentB = f.createUser("Bilal Agent", "agent.b@demo.com", models.RoleAgent)
	return f
}

func (f *apiFixture) createUser(name, email string, role models.Role) models.User {
	f.t.Helper()
	hashed, err := database.HashPassword(testPassword)
	require.NoError(f.t, err)
	user := models.User{Email: email, Password: hashed, Name: name, Role: role}
	require.NoError(f.t, f.db.Create(&user).Error)
	return user
}

func (f *apiFixture) createCall(agentID string, status models.CallStatus) models.Call {
	f.t.Helper()
	call := models.Call{
		PhoneNumber: "+212 612-34-56-78",
		Date:        time.Now().UTC().Add(-time.Hour),
		Duration:    120,
		AgentID:     agentID,
		Status:      status,
		Reason:      "Billing",
	}
	require.NoError(f.t, f.db.Create(&call).Error)
	return call
}

func (f *apiFixture) token(user models.User) string {
	f.t.Helper()
	token, err := f.container.JWTService().GenerateToken(user.ID, user.Role)
	require.NoError(f.t, err)
	return token
}

func (f *apiFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		data, err := json.Marshal(v)
		require.NoError(f.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.Engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func detailFields(body map[string]interface{}) []string {
	details, _ := body["details"].([]interface{})
	fields := make([]string, 0, len(details))
	for _, detail := range details {
		if issue, ok := detail.(map[string]interface{}); ok {
			fields = append(fields, issue["field"].(string))
		}
	}
	return fields
}

func TestPingAndHealth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"status": "healthy", "message": "pong"}, decodeBody(t, w))

	w = f.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestUnknownRoute(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decodeBody(t, w)["error"])
}

func TestAuthenticationRequired(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/calls", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", decodeBody(t, w)["error"])

	w = f.do(http.MethodGet, "/api/calls", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, w)["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	req.Header.Set("Authorization", "Token "+f.token(f.agentA))
	rec := httptest.NewRecorder()
	f.router.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 用户被删除后令牌立即失效
	token := f.token(f.agentB)
	require.NoError(t, f.db.Delete(&models.User{}, "id = ?", f.agentB.ID).Error)
	w = f.do(http.MethodGet, "/api/calls", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "Supervisor@Demo.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, f.supervisor.ID, user["id"])
	assert.Equal(t, "supervisor", user["role"])
	assert.NotContains(t, user, "password")

	w = f.do(http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "supervisor@demo.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])

	w = f.do(http.MethodPost, "/api/auth/login", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCallAsAgent(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/calls", f.token(f.agentA), map[string]interface{}{
		"phoneNumber": "+212 612-34-56-78",
		"date":        "2024-03-15T10:30:00Z",
		"duration":    95,
		"agentId":     f.agentB.ID,
		"status":      "completed",
		"reason":      "Technical support",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	agent := body["agentId"].(map[string]interface{})
	assert.Equal(t, f.agentA.ID, agent["id"])
	assert.Equal(t, "Amine Agent", agent["name"])
	assert.Equal(t, "agent.a@demo.com", agent["email"])
	assert.Equal(t, "completed", body["status"])
	assert.EqualValues(t, 95, body["duration"])
	assert.NotEmpty(t, body["id"])
}

func TestCreateCallValidationResponse(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/calls", f.token(f.supervisor), map[string]interface{}{
		"phoneNumber": "123",
		"status":      "ringing",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Subset(t, detailFields(body), []string{"phoneNumber", "date", "duration", "status", "reason", "agentId"})

	w = f.do(http.MethodPost, "/api/calls", f.token(f.agentA), map[string]interface{}{"duration": "long"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detailFields(decodeBody(t, w)), "duration")

	var count int64
	require.NoError(t, f.db.Model(&models.Call{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCallVisibilityOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	own := f.createCall(f.agentA.ID, models.CallStatusCompleted)
	other := f.createCall(f.agentB.ID, models.CallStatusMissed)
	tokenA := f.token(f.agentA)

	w := f.do(http.MethodGet, "/api/calls?agent="+f.agentB.ID, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	calls := body["calls"].([]interface{})
	require.Len(t, calls, 1)
	assert.Equal(t, own.ID, calls[0].(map[string]interface{})["id"])
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 1, pagination["page"])
	assert.EqualValues(t, 10, pagination["limit"])
	assert.EqualValues(t, 1, pagination["pages"])

	w = f.do(http.MethodGet, "/api/calls/"+other.ID, tokenA, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/calls/"+own.ID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/calls?startDate=yesterday", tokenA, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"startDate"}, detailFields(decodeBody(t, w)))

	w = f.do(http.MethodGet, "/api/calls?status=missed", f.token(f.supervisor), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["calls"], 1)
}

func TestUpdateAndDeleteCallOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	call := f.createCall(f.agentB.ID, models.CallStatusCompleted)
	tokenA := f.token(f.agentA)
	supervisor := f.token(f.supervisor)

	w := f.do(http.MethodPut, "/api/calls/"+call.ID, tokenA, map[string]string{"status": "missed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, w)["error"])

	w = f.do(http.MethodPut, "/api/calls/00000000-0000-0000-0000-000000000000", tokenA, map[string]string{"status": "missed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Call not found", decodeBody(t, w)["error"])

	w = f.do(http.MethodPut, "/api/calls/"+call.ID, f.token(f.agentB), map[string]string{"notes": "Follow-up scheduled"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Follow-up scheduled", decodeBody(t, w)["notes"])

	w = f.do(http.MethodDelete, "/api/calls/"+call.ID, f.token(f.agentB), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, "/api/calls/"+call.ID, supervisor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Call deleted successfully", decodeBody(t, w)["message"])

	w = f.do(http.MethodDelete, "/api/calls/"+call.ID, supervisor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardStatsOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	f.createCall(f.agentA.ID, models.CallStatusCompleted)
	f.createCall(f.agentA.ID, models.CallStatusMissed)
	f.createCall(f.agentB.ID, models.CallStatusCompleted)

	w := f.do(http.MethodGet, "/api/dashboard/stats?days=7", f.token(f.supervisor), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	overview := body["overview"].(map[string]interface{})
	assert.EqualValues(t, 3, overview["totalCalls"])
	assert.EqualValues(t, 2, overview["completedCalls"])
	assert.Len(t, body["topAgents"], 2)
	assert.NotEmpty(t, body["chartData"])

	w = f.do(http.MethodGet, "/api/dashboard/stats?agent="+f.agentB.ID, f.token(f.agentA), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.EqualValues(t, 2, body["overview"].(map[string]interface{})["totalCalls"])
	assert.Empty(t, body["topAgents"])
}

func TestUserManagementOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	supervisor := f.token(f.supervisor)

	w := f.do(http.MethodGet, "/api/users", f.token(f.agentA), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/api/users", supervisor, map[string]string{
		"email":    "nadia@demo.com",
		"password": "secret1",
		"name":     "Nadia",
		"role":     "agent",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)
	assert.Equal(t, "nadia@demo.com", created["email"])
	assert.NotContains(t, created, "password")

	w = f.do(http.MethodPost, "/api/users", supervisor, map[string]string{
		"email":    "NADIA@demo.com",
		"password": "secret2",
		"name":     "Nadia Two",
		"role":     "agent",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists", decodeBody(t, w)["error"])

	w = f.do(http.MethodGet, "/api/users?role=agent&limit=2", supervisor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["users"], 2)
	assert.EqualValues(t, 3, body["pagination"].(map[string]interface{})["total"])

	// 主管不能删除自己
	w = f.do(http.MethodDelete, "/api/users/"+f.supervisor.ID, supervisor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Cannot delete your own account", decodeBody(t, w)["error"])
	w = f.do(http.MethodGet, "/api/users/"+f.supervisor.ID, supervisor, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPut, "/api/users/"+f.agentB.ID, supervisor, map[string]string{"name": "Bilal Renamed", "password": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bilal Renamed", decodeBody(t, w)["name"])

	w = f.do(http.MethodDelete, "/api/users/"+f.agentB.ID, supervisor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", decodeBody(t, w)["message"])

	w = f.do(http.MethodGet, "/api/users/"+f.agentB.ID, supervisor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileUpdateOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(f.agentA)

	w := f.do(http.MethodPut, "/api/users/profile", token, map[string]string{
		"name":        "Amine",
		"email":       "agent.a@demo.com",
		"newPassword": "newsecret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detailFields(decodeBody(t, w)), "currentPassword")

	w = f.do(http.MethodPut, "/api/users/profile", token, map[string]string{
		"name":  "Amine",
		"email": "agent.b@demo.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPut, "/api/users/profile", token, map[string]string{
		"name":            "Amine Updated",
		"email":           "amine@demo.com",
		"currentPassword": testPassword,
		"newPassword":     "newsecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Profile updated successfully", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Amine Updated", user["name"])
	assert.Equal(t, "amine@demo.com", user["email"])
	assert.Equal(t, "agent", user["role"])

	w = f.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "amine@demo.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportExports(t *testing.T) {
	f := newAPIFixture(t)
	f.createCall(f.agentA.ID, models.CallStatusCompleted)
	f.createCall(f.agentB.ID, models.CallStatusMissed)

	w := f.do(http.MethodGet, "/api/reports/csv", f.token(f.supervisor), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="calls-report-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.csv"`), disposition)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"Call ID","Agent Name"`)

	// 坐席只导出自己的通话
	w = f.do(http.MethodGet, "/api/reports/csv", f.token(f.agentA), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, strings.Split(strings.TrimSpace(w.Body.String()), "\n"), 2)

	w = f.do(http.MethodGet, "/api/reports/html?status=missed", f.token(f.supervisor), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Status: missed")
	assert.Contains(t, w.Body.String(), "<strong>Total Records:</strong> 1")

	w = f.do(http.MethodGet, "/api/reports/csv?endDate=soon", f.token(f.supervisor), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.do(http.MethodGet, "/api/ping", "", nil)
	f.do(http.MethodGet, "/api/calls", "", nil)

	w := f.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, "konecta_http_requests_total")
	assert.Contains(t, out, `route="/api/ping"`)
	assert.Contains(t, out, `status="401"`)
	assert.Contains(t, out, "konecta_http_request_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/calls", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	f.router.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
