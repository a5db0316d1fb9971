package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	authHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/auth"
	dashboardHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/dashboard"
	"github.com/jwalitptl/endoscopy-scheduler/internal/handler/health"
	reportHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/report"
	requestHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/request"
	roomHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/room"
	scheduleHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/schedule"
	staffHandler "github.com/jwalitptl/endoscopy-scheduler/internal/handler/staff"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository/memory"
	activityService "github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/assignment"
	authService "github.com/jwalitptl/endoscopy-scheduler/internal/service/auth"
	reportService "github.com/jwalitptl/endoscopy-scheduler/internal/service/report"
	requestService "github.com/jwalitptl/endoscopy-scheduler/internal/service/request"
	roomService "github.com/jwalitptl/endoscopy-scheduler/internal/service/room"
	scheduleService "github.com/jwalitptl/endoscopy-scheduler/internal/service/schedule"
	staffService "github.com/jwalitptl/endoscopy-scheduler/internal/service/staff"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/auth"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/logger"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/security"
)

type testServer struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T, policies middleware.Policies) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	store := memory.NewStore(hasher)
	require.NoError(t, store.Seed(ctx))

	m := metrics.NewMetrics("test")
	log := logger.Nop()
	generator := assignment.Fixture{}

	jwtSvc, err := auth.NewJWTService(auth.Config{Secret: "router-test-secret-0123456789", Issuer: "test"})
	require.NoError(t, err)

	activitySvc := activityService.NewService(store.Activities, log, m)
	authSvc := authService.NewService(store.Users, jwtSvc, memory.NewTokenRepository(time.Hour, time.Minute),
		activitySvc, m, log, authService.Config{})
	staffSvc := staffService.NewService(store.Users, hasher, authSvc, activitySvc, log)
	roomSvc := roomService.NewService(store.Rooms, activitySvc, log)
	scheduleSvc := scheduleService.NewService(store.Schedules, roomSvc, generator, activitySvc, log)
	requestSvc := requestService.NewService(store.Requests, store.Users, activitySvc, m, log)
	reportSvc := reportService.NewService(staffSvc, roomSvc, requestSvc, activitySvc, generator, log)

	authH := authHandler.NewHandler(authSvc)
	r := NewRouter(
		middleware.NewAuthMiddleware(authSvc, policies),
		health.NewHandler(nil),
		m,
		log,
		RouterConfig{
			CORSConfig:     middleware.DefaultCORSConfig(),
			SecurityConfig: middleware.DefaultSecurityConfig(),
			RequestTimeout: 5 * time.Second,
			MetricsPath:    "/metrics",
		},
		[]PublicHandler{authH},
		authH,
		dashboardHandler.NewHandler(reportSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		requestHandler.NewHandler(requestSvc),
		roomHandler.NewHandler(roomSvc),
		staffHandler.NewHandler(staffSvc),
		reportHandler.NewHandler(reportSvc),
	)
	r.Setup()
	return &testServer{engine: r.Engine(), store: store}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		buf = bytes.NewBuffer(raw)
	}
	var req *http.Request
	if buf != nil {
		req = httptest.NewRequest(method, path, buf)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, id, password string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"employeeId": id, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) map[string]interface{} {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, code, body["code"])
	assert.NotEmpty(t, body["error"])
	return body
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"employeeId": "001", "password": "user123"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "doctor", user["role"])
	assert.Equal(t, "Dr. Kim", user["name"])
	assert.NotContains(t, w.Body.String(), "user123")

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"employeeId": "001", "password": "wrong"})
	assertError(t, w, http.StatusUnauthorized, "invalid_credential")

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"password": "user123"})
	assertError(t, w, http.StatusBadRequest, "validation")
}

func TestLogin_RecordsActivity(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t, "002", "user123")

	feed, err := s.store.Activities.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Nurse Lee logged in.", feed[0].Message)
}

func TestLogin_Lockout(t *testing.T) {
	s := newTestServer(t, nil)
	for i := 0; i < 5; i++ {
		w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"employeeId": "003", "password": "nope"})
		assertError(t, w, http.StatusUnauthorized, "invalid_credential")
	}
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"employeeId": "003", "password": "user123"})
	assertError(t, w, http.StatusTooManyRequests, "too_many_attempts")

	s.login(t, "002", "user123")
}

func TestMe_RequiresCredential(t *testing.T) {
	s := newTestServer(t, nil)

	assertError(t, s.do(http.MethodGet, "/api/auth/me", "", nil), http.StatusUnauthorized, "missing_credential")
	assertError(t, s.do(http.MethodGet, "/api/auth/me", "001", nil), http.StatusUnauthorized, "invalid_credential")

	token := s.login(t, "001", "user123")
	w := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "001", user["id"])
	assert.Equal(t, "Endoscopy", user["department"])
}

func TestLogout_RevokesToken(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "001", "user123")

	w := s.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assertError(t, s.do(http.MethodGet, "/api/auth/me", token, nil), http.StatusUnauthorized, "invalid_credential")
}

func TestAdminRoutes_ForbiddenForStaff(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "002", "user123")

	assertError(t, s.do(http.MethodGet, "/api/admin/staff", token, nil), http.StatusForbidden, "forbidden")
	assertError(t, s.do(http.MethodPost, "/api/admin/auto-assign", token, nil), http.StatusForbidden, "forbidden")
	assertError(t, s.do(http.MethodGet, "/api/admin/reports/2024/3", token, nil), http.StatusForbidden, "forbidden")
	assertError(t, s.do(http.MethodPut, "/api/rooms/room1", token, gin.H{"status": "maintenance"}), http.StatusForbidden, "forbidden")

	room, err := s.store.Rooms.Get(context.Background(), "room1")
	require.NoError(t, err)
	assert.Equal(t, "available", string(room.Status))
}

func TestScheduleChange_UnknownPartnerWritesNothing(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	token := s.login(t, "001", "user123")

	before, err := s.store.Activities.Recent(ctx, memory.DefaultActivityCapacity)
	require.NoError(t, err)

	w := s.do(http.MethodPost, "/api/requests/schedule-change", token, gin.H{
		"exchangeWith": "does-not-exist",
		"myDate":       "2024-03-11",
		"theirDate":    "2024-03-12",
	})
	assertError(t, w, http.StatusNotFound, "not_found")

	reqs, err := s.store.Requests.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, reqs)

	after, err := s.store.Activities.Recent(ctx, memory.DefaultActivityCapacity)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateStaff_DuplicateID(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "admin123")

	w := s.do(http.MethodPost, "/api/admin/staff", token, gin.H{
		"id": "002", "name": "Someone", "password": "secret12", "role": "nurse", "department": "Endoscopy",
	})
	assertError(t, w, http.StatusBadRequest, "duplicate_id")

	w = s.do(http.MethodGet, "/api/admin/staff", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["staff"], 4)
}

func TestStaffLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "admin123")

	w := s.do(http.MethodPost, "/api/admin/staff", token, gin.H{
		"id": "004", "name": "Dr. Choi", "password": "secret12", "role": "doctor", "department": "Endoscopy",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)["staff"].(map[string]interface{})
	assert.Equal(t, "Dr. Choi", created["name"])
	assert.NotContains(t, w.Body.String(), "secret12")

	s.login(t, "004", "secret12")

	w = s.do(http.MethodPut, "/api/admin/staff/004", token, gin.H{"department": "Surgery"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Surgery", decode(t, w)["staff"].(map[string]interface{})["department"])

	w = s.do(http.MethodPut, "/api/admin/staff/004", token, gin.H{"role": "pilot"})
	assertError(t, w, http.StatusBadRequest, "validation")

	w = s.do(http.MethodDelete, "/api/admin/staff/004", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assertError(t, s.do(http.MethodDelete, "/api/admin/staff/004", token, nil), http.StatusNotFound, "not_found")
	assertError(t, s.do(http.MethodPut, "/api/admin/staff/004", token, gin.H{"name": "X"}), http.StatusNotFound, "not_found")
}

func TestStaffRoleChange_RevokesSessions(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin", "admin123")
	nurse := s.login(t, "002", "user123")

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", nurse, nil).Code)

	w := s.do(http.MethodPut, "/api/admin/staff/002", admin, gin.H{"role": "technician"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assertError(t, s.do(http.MethodGet, "/api/auth/me", nurse, nil), http.StatusUnauthorized, "invalid_credential")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", admin, nil).Code)

	time.Sleep(5 * time.Millisecond)
	fresh := s.login(t, "002", "user123")
	w = s.do(http.MethodGet, "/api/auth/me", fresh, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "technician", decode(t, w)["user"].(map[string]interface{})["role"])
}

func TestStaffRename_RevokesSessions(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin", "admin123")
	kim := s.login(t, "001", "user123")

	w := s.do(http.MethodPut, "/api/admin/staff/001", admin, gin.H{"name": "Dr. Kim Jr"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assertError(t, s.do(http.MethodGet, "/api/auth/me", kim, nil), http.StatusUnauthorized, "invalid_credential")
	w = s.do(http.MethodPost, "/api/requests/vacation", kim, gin.H{"date": "2024-03-20", "vacationType": "annual"})
	assertError(t, w, http.StatusUnauthorized, "invalid_credential")

	w = s.do(http.MethodPut, "/api/rooms/room1", admin, gin.H{"status": "occupied", "assignedTo": "Dr. Kim Jr"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	time.Sleep(5 * time.Millisecond)
	fresh := s.login(t, "001", "user123")
	w = s.do(http.MethodGet, "/api/auth/me", fresh, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dr. Kim Jr", decode(t, w)["user"].(map[string]interface{})["name"])

	w = s.do(http.MethodGet, "/api/dashboard", fresh, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["data"].(map[string]interface{})["assignedRooms"])

	w = s.do(http.MethodPost, "/api/requests/vacation", fresh, gin.H{"date": "2024-03-20", "vacationType": "annual"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Dr. Kim Jr", decode(t, w)["request"].(map[string]interface{})["userName"])
}

func TestRoomUpdate(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin", "admin123")
	update := gin.H{"status": "occupied", "assignedTo": "Nurse Lee", "timeSlot": "morning"}

	w := s.do(http.MethodPut, "/api/rooms/room1", admin, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	room := decode(t, w)["room"].(map[string]interface{})
	assert.Equal(t, "room1", room["id"])
	assert.Equal(t, "Room 1", room["name"])
	assert.Equal(t, "occupied", room["status"])
	assert.Equal(t, "Nurse Lee", room["assignedTo"])
	assert.Equal(t, "morning", room["timeSlot"])

	w = s.do(http.MethodPut, "/api/rooms/room1", admin, update)
	require.Equal(t, http.StatusOK, w.Code)
	again := decode(t, w)["room"].(map[string]interface{})
	assert.Equal(t, room["status"], again["status"])
	assert.Equal(t, room["assignedTo"], again["assignedTo"])

	w = s.do(http.MethodPut, "/api/rooms/room1", admin, gin.H{"status": "available"})
	require.Equal(t, http.StatusOK, w.Code)
	cleared := decode(t, w)["room"].(map[string]interface{})
	assert.Nil(t, cleared["assignedTo"])
	assert.Nil(t, cleared["timeSlot"])

	assertError(t, s.do(http.MethodPut, "/api/rooms/room99", admin, update), http.StatusNotFound, "not_found")
	assertError(t, s.do(http.MethodPut, "/api/rooms/room1", admin, gin.H{"status": "closed"}), http.StatusBadRequest, "validation")

	w = s.do(http.MethodGet, "/api/rooms", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["rooms"], 4)
}

func TestRoomConfigure(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin", "admin123")

	w := s.do(http.MethodPut, "/api/admin/rooms", admin, gin.H{"count": 6})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["rooms"], 6)

	assertError(t, s.do(http.MethodPut, "/api/admin/rooms", admin, gin.H{"count": 21}), http.StatusBadRequest, "validation")
}

func TestSchedule_GeneratedOnceThenSaved(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "001", "user123")

	first := s.do(http.MethodGet, "/api/schedules/2024/3", token, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := s.do(http.MethodGet, "/api/schedules/2024/3", token, nil)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	sched := decode(t, first)["schedule"].(map[string]interface{})
	days := sched["days"].(map[string]interface{})
	assert.Len(t, days, 31)
	weekend := days["2"].(map[string]interface{})
	assert.Equal(t, false, weekend["isWorkDay"])
	assert.Nil(t, weekend["shift"])
	assert.Nil(t, weekend["room"])

	w := s.do(http.MethodPost, "/api/schedules/2024/3", token, gin.H{
		"days": gin.H{"4": gin.H{"isWorkDay": true, "shift": "afternoon", "room": "room2", "notes": "swap"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode(t, w)
	assert.Equal(t, "Schedule saved.", saved["message"])

	w = s.do(http.MethodGet, "/api/schedules/2024/3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sched = decode(t, w)["schedule"].(map[string]interface{})
	days = sched["days"].(map[string]interface{})
	require.Len(t, days, 1)
	day := days["4"].(map[string]interface{})
	assert.Equal(t, float64(4), day["date"])
	assert.Equal(t, "afternoon", day["shift"])
	assert.Equal(t, "001", sched["updatedBy"])
}

func TestSchedule_SavedDayOffHasNoShiftOrRoom(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "001", "user123")

	w := s.do(http.MethodPost, "/api/schedules/2024/3", token, gin.H{
		"days": gin.H{"1": gin.H{"isWorkDay": false, "shift": "morning", "room": "room1"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/schedules/2024/3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode(t, w)["schedule"].(map[string]interface{})["days"].(map[string]interface{})["1"].(map[string]interface{})
	assert.Equal(t, false, day["isWorkDay"])
	assert.Nil(t, day["shift"])
	assert.Nil(t, day["room"])
}

func TestSchedule_Validation(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "001", "user123")

	assertError(t, s.do(http.MethodGet, "/api/schedules/2024/13", token, nil), http.StatusBadRequest, "validation")
	assertError(t, s.do(http.MethodGet, "/api/schedules/abcd/3", token, nil), http.StatusBadRequest, "validation")
	assertError(t, s.do(http.MethodPost, "/api/schedules/2024/2", token, gin.H{
		"days": gin.H{"30": gin.H{"isWorkDay": true}},
	}), http.StatusBadRequest, "validation")
	assertError(t, s.do(http.MethodPost, "/api/schedules/2024/2", token, gin.H{
		"days": gin.H{"5": gin.H{"isWorkDay": true, "shift": "night"}},
	}), http.StatusBadRequest, "validation")
}

func TestSchedule_SavePolicyIsConfigurable(t *testing.T) {
	policies, err := middleware.ParsePolicies(map[string]string{"schedules.save": "admin"})
	require.NoError(t, err)
	s := newTestServer(t, policies)

	doctor := s.login(t, "001", "user123")
	body := gin.H{"days": gin.H{"4": gin.H{"isWorkDay": false}}}
	assertError(t, s.do(http.MethodPost, "/api/schedules/2024/3", doctor, body), http.StatusForbidden, "forbidden")

	admin := s.login(t, "admin", "admin123")
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/schedules/2024/3", admin, body).Code)
}

func TestRequests_ScopedAndNewestFirst(t *testing.T) {
	s := newTestServer(t, nil)
	kim := s.login(t, "001", "user123")
	lee := s.login(t, "002", "user123")
	admin := s.login(t, "admin", "admin123")

	w := s.do(http.MethodPost, "/api/requests/vacation", kim, gin.H{"date": "2024-03-20", "vacationType": "annual", "reason": "family"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)["request"].(map[string]interface{})
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "vacation", created["type"])
	assert.Equal(t, "Dr. Kim", created["userName"])

	time.Sleep(2 * time.Millisecond)
	w = s.do(http.MethodPost, "/api/requests/room", lee, gin.H{"preferredRoom": "room3", "preferredTime": "afternoon"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	time.Sleep(2 * time.Millisecond)
	w = s.do(http.MethodPost, "/api/requests/schedule-change", kim, gin.H{"exchangeWith": "002", "myDate": "2024-03-11", "theirDate": "2024-03-12"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Nurse Lee", decode(t, w)["request"].(map[string]interface{})["exchangeWithName"])

	w = s.do(http.MethodGet, "/api/requests", kim, nil)
	require.Equal(t, http.StatusOK, w.Code)
	own := decode(t, w)["requests"].([]interface{})
	require.Len(t, own, 2)
	assert.Equal(t, "schedule_change", own[0].(map[string]interface{})["type"])

	w = s.do(http.MethodGet, "/api/requests", admin, nil)
	all := decode(t, w)["requests"].([]interface{})
	require.Len(t, all, 3)
	assert.Equal(t, "room_request", all[1].(map[string]interface{})["type"])

	w = s.do(http.MethodGet, "/api/dashboard", kim, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["pendingRequests"])
}

func TestRequests_Validation(t *testing.T) {
	s := newTestServer(t, nil)
	kim := s.login(t, "001", "user123")

	assertError(t, s.do(http.MethodPost, "/api/requests/vacation", kim, gin.H{"date": "20-03-2024", "vacationType": "annual"}),
		http.StatusBadRequest, "validation")
	assertError(t, s.do(http.MethodPost, "/api/requests/room", kim, gin.H{"preferredRoom": "room1", "preferredTime": "night"}),
		http.StatusBadRequest, "validation")
	assertError(t, s.do(http.MethodPost, "/api/requests/schedule-change", kim, gin.H{"exchangeWith": "001", "myDate": "2024-03-11", "theirDate": "2024-03-12"}),
		http.StatusBadRequest, "validation")

	req := httptest.NewRequest(http.MethodPost, "/api/requests/vacation", strings.NewReader("date=2024-03-20"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+kim)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assertError(t, w, http.StatusBadRequest, "validation")
}

func TestUnauthenticatedWriteChangesNothing(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	w := s.do(http.MethodPost, "/api/requests/vacation", "", gin.H{"date": "2024-03-20", "vacationType": "annual"})
	assertError(t, w, http.StatusUnauthorized, "missing_credential")

	w = s.do(http.MethodPut, "/api/rooms/room1", "forged", gin.H{"status": "maintenance"})
	assertError(t, w, http.StatusUnauthorized, "invalid_credential")

	reqs, err := s.store.Requests.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, reqs)
	room, err := s.store.Rooms.Get(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, "available", string(room.Status))
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	kim := s.login(t, "001", "user123")

	w := s.do(http.MethodGet, "/api/dashboard", kim, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})

	now := time.Now()
	assert.Equal(t, float64(assignment.Fixture{}.ShiftCount("001", now.Year(), int(now.Month()))), data["myShifts"])
	assert.Equal(t, float64(1), data["assignedRooms"])
	assert.Equal(t, float64(0), data["pendingRequests"])
	assert.Equal(t, float64(4), data["totalStaff"])
	activities := data["activities"].([]interface{})
	require.Len(t, activities, 5)
	latest := activities[0].(map[string]interface{})
	assert.Equal(t, "login", latest["type"])
	assert.Equal(t, "Dr. Kim logged in.", latest["message"])
}

func TestAutoAssignAndReport(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin", "admin123")

	w := s.do(http.MethodPost, "/api/admin/auto-assign", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assignments := decode(t, w)["assignments"].([]interface{})
	require.Len(t, assignments, 3)
	for _, a := range assignments {
		assert.NotEqual(t, "admin", a.(map[string]interface{})["userId"])
	}

	w = s.do(http.MethodPost, "/api/admin/auto-assign", admin, gin.H{"year": 2024, "month": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assertError(t, s.do(http.MethodPost, "/api/admin/auto-assign", admin, gin.H{"month": 13}), http.StatusBadRequest, "validation")

	w = s.do(http.MethodGet, "/api/admin/reports/2024/3", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)["report"].(map[string]interface{})
	assert.Equal(t, float64(21), report["totalWorkDays"])
	assert.Equal(t, float64(3), report["totalStaff"])
	assert.Equal(t, float64(assignment.FixtureUtilization), report["roomUtilization"])
	assert.Len(t, report["staffWorkDays"], 3)
}

func TestReportExport(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin", "admin123")

	w := s.do(http.MethodGet, "/api/admin/reports/2024/3/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename="staff-report-2024-03.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")

	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Staff")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/nothing/here", "", nil)
	body := assertError(t, w, http.StatusNotFound, "not_found")
	assert.Equal(t, "API not found", body["error"])

	w = s.do(http.MethodGet, "/index.html", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/ready", "", nil).Code)

	s.login(t, "001", "user123")
	w := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
	assert.Contains(t, w.Body.String(), `test_login_attempts_total{result="success"} 1`)
}

func TestResponseHeaders(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/health/live", "", nil)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
