package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "gitlab.com/homesense1/iot.home_server/src/production/IOT.Config"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"
	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	implementation "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Implementation"
	auth "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/auth"
	devices "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/devices"
	session "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/session"
	"gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/middleware"
)

const testCookieName = "home_session"

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.LoggingConfig{Level: "error", Format: "json", Output: "stderr"})
}

func newTestRouter(t *testing.T, pingErr error) (*gin.Engine, *implementation.MemoryEventRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testLogger()
	deviceService := devices.NewDeviceService(implementation.NewMemoryDeviceRepository())
	eventRepo := implementation.NewMemoryEventRepository()
	eventService := devices.NewEventService(eventRepo, nil, log)
	stateService := devices.NewStateService(deviceService, eventService)
	authService := auth.NewAuthService(implementation.NewMemoryUserRepository(), deviceService)
	sessionService := session.NewService(implementation.NewMemorySessionRepository(), time.Hour)

	gate := middleware.NewSessionMiddleware(sessionService, middleware.Config{
		CookieName: testCookieName,
		LoginPath:  "/login",
	})
	cookie := CookieConfig{Name: testCookieName, MaxAge: 3600}

	router := gin.New()
	NewAuthController(authService, sessionService, deviceService, gate, cookie, log).RegisterRoutes(router)
	NewStateController(stateService, gate, log).RegisterRoutes(router)
	NewHealthController(stubPinger{pingErr}, log).RegisterRoutes(router)

	return router, eventRepo
}

func postForm(router *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, email, password string) []*http.Cookie {
	t.Helper()

	w := postForm(router, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = postForm(router, "/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

type stateResponse struct {
	OK    bool                            `json:"ok"`
	State map[string]devices.DeviceState `json:"state"`
}

func TestEndToEndScenario(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	cookies := registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")

	// initial state: door OFF, sensor carries a reading
	w := get(router, "/api/state", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var state stateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.True(t, state.OK)

	door := state.State[iotmodels.SlugDoorSala]
	require.NotNil(t, door.State)
	assert.Equal(t, iotmodels.StateOff, *door.State)

	sensor := state.State[iotmodels.SlugTempSensor]
	require.NotNil(t, sensor.Reading)
	assert.GreaterOrEqual(t, *sensor.Reading, 18.0)
	assert.LessOrEqual(t, *sensor.Reading, 29.0)

	// toggle the door
	w = postForm(router, "/api/toggle/"+iotmodels.SlugDoorSala, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var toggle struct {
		OK    bool   `json:"ok"`
		Slug  string `json:"slug"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggle))
	assert.True(t, toggle.OK)
	assert.Equal(t, iotmodels.SlugDoorSala, toggle.Slug)
	assert.Equal(t, iotmodels.StateOn, toggle.State)

	// state reflects the flip
	w = get(router, "/api/state", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	door = state.State[iotmodels.SlugDoorSala]
	require.NotNil(t, door.State)
	assert.Equal(t, iotmodels.StateOn, *door.State)
}

func TestRegister_FailuresRedirectBack(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	// missing fields
	w := postForm(router, "/register", url.Values{"name": {"Ana"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))

	// duplicate email
	registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")
	w = postForm(router, "/register", url.Values{
		"name":     {"Clone"},
		"email":    {"ANA@X.COM"},
		"password": {"other"},
	}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
}

func TestLogin_InvalidCredentialsRedirectBack(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")

	w := postForm(router, "/login", url.Values{
		"email":    {"ana@x.com"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestIndex_RedirectsWhenAuthenticated(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := get(router, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	cookies := registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")
	w = get(router, "/", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	// unauthenticated browsers are sent to the login page
	w := get(router, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookies := registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")
	w = get(router, "/dashboard", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK   bool `json:"ok"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Devices []iotmodels.Device `json:"devices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Ana", body.User.Name)
	assert.Len(t, body.Devices, 2)
}

func TestAPI_RequiresSession(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := get(router, "/api/state", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postForm(router, "/api/toggle/"+iotmodels.SlugDoorSala, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggle_NotFoundResponses(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	cookies := registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")

	for _, slug := range []string{iotmodels.SlugTempSensor, "no_such_device"} {
		w := postForm(router, "/api/toggle/"+slug, nil, cookies)
		require.Equal(t, http.StatusNotFound, w.Code, slug)

		var body struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.OK)
		assert.NotEmpty(t, body.Error)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	cookies := registerAndLogin(t, router, "Ana", "ana@x.com", "pw123")

	w := get(router, "/logout", cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// the old token no longer authenticates
	w = get(router, "/api/state", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("storage reachable", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)
		w := get(router, "/healthz", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "ok", body["mongo"])
	})

	t.Run("storage outage degrades the report only", func(t *testing.T) {
		router, _ := newTestRouter(t, errors.New("connection refused"))
		w := get(router, "/healthz", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "error", body["mongo"])
		assert.Contains(t, body["detail"], "connection refused")
	})
}
