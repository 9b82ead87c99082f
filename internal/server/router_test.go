package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/internal/config"
	"github.com/mroshb/red_social/internal/middleware"
	"github.com/mroshb/red_social/internal/models"
	"github.com/mroshb/red_social/internal/security"
	"github.com/mroshb/red_social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "router_test_secret_with_more_than_32_chars"

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	users  []models.User
}

func newTestAPI(t *testing.T, env string, perUser int) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		AppEnv:    env,
	}
	limiter := middleware.NewRateLimiter(perUser, 1000, time.Minute)
	t.Cleanup(limiter.Stop)

	return &testAPI{
		t:      t,
		db:     db,
		router: NewRouter(cfg, NewHandlerManager(cfg, db), limiter),
		users:  testutil.SeedUsers(t, db, "ana", "beto", "carla"),
	}
}

func (a *testAPI) token(u models.User) string {
	a.t.Helper()
	token, err := security.GenerateJWT(u.ID, u.Nombre, testSecret, time.Hour)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (a *testAPI) pendingRequestID(recipient models.User) uint {
	a.t.Helper()
	var request models.FriendRequest
	require.NoError(a.t, a.db.Where("id_receptor = ?", recipient.ID).First(&request).Error)
	return request.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, "development", 10)

	code, env := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Code)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t, "development", 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 16)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
}

func TestAPI_RequiresToken(t *testing.T) {
	api := newTestAPI(t, "development", 10)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := api.do(http.MethodGet, "/api/v1/friends", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, "UNAUTHORIZED", env.Code)
		})
	}
}

func TestIssueToken(t *testing.T) {
	api := newTestAPI(t, "development", 10)
	ana := api.users[0]

	code, env := api.do(http.MethodPost, "/api/v1/auth/token", "", gin.H{"user_id": ana.ID})
	require.Equal(t, http.StatusOK, code)

	var reply struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reply))

	claims, err := security.ValidateJWT(reply.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, claims.UserID)
	assert.Equal(t, "ana", claims.Name)

	code, _ = api.do(http.MethodPost, "/api/v1/auth/token", "", gin.H{"user_id": 999})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestIssueToken_NotRoutedInProduction(t *testing.T) {
	api := newTestAPI(t, "production", 10)

	code, _ := api.do(http.MethodPost, "/api/v1/auth/token", "", gin.H{"user_id": api.users[0].ID})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFriendRequestFlow(t *testing.T) {
	api := newTestAPI(t, "development", 10)
	ana, beto := api.users[0], api.users[1]

	code, env := api.do(http.MethodPost, "/api/v1/friends/requests", api.token(ana), gin.H{"recipient_id": beto.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Solicitud enviada con éxito.", env.Message)

	code, env = api.do(http.MethodPost, "/api/v1/friends/requests", api.token(beto), gin.H{"recipient_id": ana.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ya existe una solicitud o son amigos.", env.Message)
	assert.JSONEq(t, `{"sent":false}`, string(env.Data))

	code, env = api.do(http.MethodGet, "/api/v1/friends/requests/pending", api.token(beto), nil)
	require.Equal(t, http.StatusOK, code)
	var pending []models.PendingRequestView
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, ana.ID, pending[0].RequesterID)

	code, env = api.do(http.MethodGet, "/api/v1/notifications/friend-requests", api.token(beto), nil)
	require.Equal(t, http.StatusOK, code)
	var notifications []models.NotificationView
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, "ana", notifications[0].RequesterName)

	requestID := pending[0].RequestID
	accept := fmt.Sprintf("/api/v1/friends/requests/%d/accept", requestID)

	code, env = api.do(http.MethodPost, accept, api.token(ana), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Code)

	code, _ = api.do(http.MethodPost, accept, api.token(beto), nil)
	require.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodPost, accept, api.token(beto), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATE", env.Code)

	code, env = api.do(http.MethodGet, "/api/v1/friends", api.token(ana), nil)
	require.Equal(t, http.StatusOK, code)
	var friends []models.FriendView
	require.NoError(t, json.Unmarshal(env.Data, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, beto.ID, friends[0].FriendID)

	code, env = api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", beto.ID), api.token(ana), nil)
	require.Equal(t, http.StatusOK, code)
	var profile models.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, int64(1), profile.FriendCount)

	var accepted models.Notification
	require.NoError(t, api.db.Where("id_usuario = ? AND tipo = ?", ana.ID, models.NotificationFriendRequestAccepted).
		First(&accepted).Error)
	assert.Equal(t, "¡beto aceptó tu solicitud de amistad!", accepted.Mensaje)
}

func TestRejectFriendRequest(t *testing.T) {
	api := newTestAPI(t, "development", 10)
	ana, beto, carla := api.users[0], api.users[1], api.users[2]

	code, _ := api.do(http.MethodPost, "/api/v1/friends/requests", api.token(ana), gin.H{"recipient_id": carla.ID})
	require.Equal(t, http.StatusOK, code)
	reject := fmt.Sprintf("/api/v1/friends/requests/%d/reject", api.pendingRequestID(carla))

	code, _ = api.do(http.MethodPost, reject, api.token(beto), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodPost, reject, api.token(carla), nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, reject, api.token(carla), nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = api.do(http.MethodPost, "/api/v1/friends/requests/999/reject", api.token(carla), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodPost, "/api/v1/friends/requests/abc/reject", api.token(carla), nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAcceptFriendRequest_StorageFailure(t *testing.T) {
	api := newTestAPI(t, "development", 10)
	ana, beto := api.users[0], api.users[1]

	code, _ := api.do(http.MethodPost, "/api/v1/friends/requests", api.token(ana), gin.H{"recipient_id": beto.ID})
	require.Equal(t, http.StatusOK, code)
	accept := fmt.Sprintf("/api/v1/friends/requests/%d/accept", api.pendingRequestID(beto))

	require.NoError(t, api.db.Callback().Create().Before("gorm:create").Register("test:fail_amigos", func(tx *gorm.DB) {
		if tx.Statement.Table == "amigos" {
			tx.AddError(stderrors.New("connection reset"))
		}
	}))

	code, env := api.do(http.MethodPost, accept, api.token(beto), nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.NotContains(t, env.Message, "connection reset")

	require.NoError(t, api.db.Callback().Create().Remove("test:fail_amigos"))

	code, _ = api.do(http.MethodPost, accept, api.token(beto), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestSendFriendRequest_Validation(t *testing.T) {
	api := newTestAPI(t, "development", 10)
	ana := api.users[0]

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"missing recipient", gin.H{}, http.StatusBadRequest},
		{"unknown recipient", gin.H{"recipient_id": 999}, http.StatusNotFound},
		{"self request", gin.H{"recipient_id": ana.ID}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := api.do(http.MethodPost, "/api/v1/friends/requests", api.token(ana), tt.body)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestSendFriendRequest_RateLimited(t *testing.T) {
	api := newTestAPI(t, "development", 1)
	ana, beto, carla := api.users[0], api.users[1], api.users[2]

	code, _ := api.do(http.MethodPost, "/api/v1/friends/requests", api.token(ana), gin.H{"recipient_id": beto.ID})
	require.Equal(t, http.StatusOK, code)

	code, env := api.do(http.MethodPost, "/api/v1/friends/requests", api.token(ana), gin.H{"recipient_id": carla.ID})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Code)
}
