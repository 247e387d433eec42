package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/relay"
	"github.com/safeguard/sos_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testToken = "test-token"

// newTestHandler создает новый экземпляр Handler с мокированными сервисами.
// Аутентификация по testToken разрешается в возвращаемого пользователя.
func newTestHandler(t *testing.T) (*mocks.MockGuardianService, *mocks.MockSOSService, *gin.Engine, *models.User) {
	ctrl := gomock.NewController(t)
	mockGuardians := mocks.NewMockGuardianService(ctrl)
	mockSOS := mocks.NewMockSOSService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		RelayBufferSize: 16,
		WSReadLimit:     4096,
	}

	user := &models.User{
		ID:       uuid.New(),
		FullName: "Test User",
		Phone:    "+15550000001",
	}
	mockGuardians.EXPECT().Authenticate(gomock.Any(), testToken).Return(user, nil).AnyTimes()

	handler := NewHandler(mockGuardians, mockSOS, relay.New(cfg.RelayBufferSize, logger), logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return mockGuardians, mockSOS, router, user
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testToken}
}

func TestTriggerSOS_Success(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)
	reqBody := TriggerSOSRequest{
		Lat:      12.9716,
		Lng:      77.5946,
		Accuracy: 10,
		Note:     "Being followed",
	}

	mockSOS.EXPECT().
		Trigger(gomock.Any(), user, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.User, payload *models.AlertPayload, _ string) (int, error) {
			assert.Equal(t, reqBody.Lat, payload.Lat)
			assert.Equal(t, reqBody.Lng, payload.Lng)
			assert.Equal(t, reqBody.Note, payload.Note)
			return 3, nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp TriggerSOSResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.ContactsNotified)
}

func TestTriggerSOS_InvalidJSON(t *testing.T) {
	_, mockSOS, router, _ := newTestHandler(t)

	mockSOS.EXPECT().Trigger(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBufferString(`{"lat": 12.9`), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestTriggerSOS_ValidationError(t *testing.T) {
	_, mockSOS, router, _ := newTestHandler(t)
	reqBody := TriggerSOSRequest{ // Отсутствует Lat
		Lng: 77.5946,
	}

	mockSOS.EXPECT().Trigger(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Lat' failed on the 'required' tag")
}

func TestTriggerSOS_NoGuardians(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)
	reqBody := TriggerSOSRequest{Lat: 12.9716, Lng: 77.5946}

	mockSOS.EXPECT().
		Trigger(gomock.Any(), user, gomock.Any(), gomock.Any()).
		Return(0, models.ErrNoGuardians).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no emergency contacts configured")
}

func TestTriggerSOS_RateLimited(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)
	reqBody := TriggerSOSRequest{Lat: 12.9716, Lng: 77.5946}

	// Хендлер должен распознавать и обернутую ошибку
	mockSOS.EXPECT().
		Trigger(gomock.Any(), user, gomock.Any(), gomock.Any()).
		Return(0, fmt.Errorf("service: %w", models.ErrRateLimited)).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too many SOS triggers")
}

func TestTriggerSOS_ServiceError(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)
	reqBody := TriggerSOSRequest{Lat: 12.9716, Lng: 77.5946}
	serviceError := errors.New("failed to persist alert state")

	mockSOS.EXPECT().
		Trigger(gomock.Any(), user, gomock.Any(), gomock.Any()).
		Return(0, serviceError).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestTriggerSOS_Unauthorized(t *testing.T) {
	_, mockSOS, router, _ := newTestHandler(t)

	mockSOS.EXPECT().Trigger(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(TriggerSOSRequest{Lat: 12.9716, Lng: 77.5946})
	w := makeRequest(router, "POST", "/api/v1/sos/trigger", bytes.NewBuffer(bodyBytes)) // Нет токена

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization required")
}

func TestResolveSOS_Success(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)

	mockSOS.EXPECT().Resolve(gomock.Any(), user, gomock.Any()).Return(nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/sos/resolve", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ResolveSOSResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.ActiveSOS)
}

func TestResolveSOS_ServiceError(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)
	serviceError := errors.New("failed to clear alert state")

	mockSOS.EXPECT().Resolve(gomock.Any(), user, gomock.Any()).Return(serviceError).Times(1)

	w := makeRequest(router, "POST", "/api/v1/sos/resolve", nil, authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestSOSStatus_Success(t *testing.T) {
	_, mockSOS, router, user := newTestHandler(t)
	user.ActiveSOS = true

	mockSOS.EXPECT().State(user.ID).Return(models.SessionStreaming).Times(1)

	w := makeRequest(router, "GET", "/api/v1/sos/status", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SOSStatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.ActiveSOS)
	assert.Equal(t, string(models.SessionStreaming), resp.State)
}

func TestListContacts_Success(t *testing.T) {
	mockGuardians, _, router, user := newTestHandler(t)
	expectedGuardians := []*models.Guardian{
		{ID: uuid.New(), UserID: user.ID, Name: "Alice", Phone: "+15550000002", Priority: 1},
		{ID: uuid.New(), UserID: user.ID, Name: "Bob", Phone: "+15550000003", Priority: 2},
	}

	mockGuardians.EXPECT().ListGuardians(gomock.Any(), user.ID).Return(expectedGuardians, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/user/contacts", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []GuardianResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "Alice", resp[0].Name)
	assert.Equal(t, 1, resp[0].Priority)
}

func TestListContacts_ServiceError(t *testing.T) {
	mockGuardians, _, router, user := newTestHandler(t)
	serviceError := errors.New("failed to list guardians")

	mockGuardians.EXPECT().ListGuardians(gomock.Any(), user.ID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", "/api/v1/user/contacts", nil, authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestAddContact_Success(t *testing.T) {
	mockGuardians, _, router, user := newTestHandler(t)
	guardianID := uuid.New()
	reqBody := AddGuardianRequest{
		Name:                "Alice",
		Phone:               "+15550000002",
		Relationship:        "sister",
		Priority:            1,
		CanViewLiveLocation: true,
	}

	mockGuardians.EXPECT().
		AddGuardian(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, g *models.Guardian) error {
			g.ID = guardianID // Сервис присваивает id
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/user/contacts", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp GuardianResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, guardianID, resp.ID)
	assert.Equal(t, reqBody.Name, resp.Name)
	assert.True(t, resp.CanViewLiveLocation)
}

func TestAddContact_InvalidPhone(t *testing.T) {
	mockGuardians, _, router, _ := newTestHandler(t)
	reqBody := AddGuardianRequest{
		Name:  "Alice",
		Phone: "not-a-phone",
	}

	mockGuardians.EXPECT().AddGuardian(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/user/contacts", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Phone' failed on the 'e164' tag")
}

func TestAddContact_CapacityExceeded(t *testing.T) {
	mockGuardians, _, router, user := newTestHandler(t)
	reqBody := AddGuardianRequest{
		Name:  "Frank",
		Phone: "+15550000006",
	}

	mockGuardians.EXPECT().
		AddGuardian(gomock.Any(), user.ID, gomock.Any()).
		Return(fmt.Errorf("service: could not add guardian: %w", models.ErrCapacityExceeded)).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/user/contacts", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "emergency contact limit reached")
}

func TestDeleteContact_Success(t *testing.T) {
	mockGuardians, _, router, user := newTestHandler(t)
	guardianID := uuid.New()

	mockGuardians.EXPECT().RemoveGuardian(gomock.Any(), user.ID, guardianID).Return(nil).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/v1/user/contacts/%s", guardianID.String()), nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteContact_InvalidID(t *testing.T) {
	mockGuardians, _, router, _ := newTestHandler(t)

	mockGuardians.EXPECT().RemoveGuardian(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "DELETE", "/api/v1/user/contacts/invalid-uuid", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid contact ID")
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	ctrl := gomock.NewController(t)
	mockGuardians := mocks.NewMockGuardianService(ctrl)
	mockGuardians.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Times(0)

	router.Use(AuthMiddleware(mockGuardians, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil) // Нет токена
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization required")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	ctrl := gomock.NewController(t)
	mockGuardians := mocks.NewMockGuardianService(ctrl)
	mockGuardians.EXPECT().
		Authenticate(gomock.Any(), "bad-token").
		Return(nil, models.ErrUnauthorized).Times(1)

	router.Use(AuthMiddleware(mockGuardians, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer bad-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	// WebSocket-клиенты передают токен query-параметром
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	user := &models.User{ID: uuid.New(), FullName: "Test User"}

	ctrl := gomock.NewController(t)
	mockGuardians := mocks.NewMockGuardianService(ctrl)
	mockGuardians.EXPECT().Authenticate(gomock.Any(), "query-token").Return(user, nil).Times(1)

	router.Use(AuthMiddleware(mockGuardians, logger))
	router.GET("/test", func(c *gin.Context) {
		got, ok := currentUser(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, got.ID)
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test?token=query-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
