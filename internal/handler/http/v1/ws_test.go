package v1

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/relay"
	"github.com/safeguard/sos_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newWSTestServer поднимает реальный HTTP-сервер с WebSocket-маршрутом
func newWSTestServer(t *testing.T) (*httptest.Server, *mocks.MockGuardianService, *mocks.MockSOSService) {
	ctrl := gomock.NewController(t)
	mockGuardians := mocks.NewMockGuardianService(ctrl)
	mockSOS := mocks.NewMockSOSService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		RelayBufferSize: 16,
		WSReadLimit:     4096,
	}

	handler := NewHandler(mockGuardians, mockSOS, relay.New(cfg.RelayBufferSize, logger), logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, mockGuardians, mockSOS
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sos/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWSMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg wsMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWS_SubjectPublishesGuardianReceives(t *testing.T) {
	srv, mockGuardians, mockSOS := newWSTestServer(t)

	subject := &models.User{ID: uuid.New(), FullName: "Subject", Phone: "+15550000001"}
	viewer := &models.User{ID: uuid.New(), FullName: "Viewer", Phone: "+15550000002"}

	mockGuardians.EXPECT().Authenticate(gomock.Any(), "subject-token").Return(subject, nil).Times(1)
	mockGuardians.EXPECT().Authenticate(gomock.Any(), "viewer-token").Return(viewer, nil).Times(1)

	// Наблюдатель числится опекуном субъекта с правом просмотра геолокации
	mockGuardians.EXPECT().
		ListGuardians(gomock.Any(), subject.ID).
		Return([]*models.Guardian{
			{ID: uuid.New(), UserID: subject.ID, Name: "Viewer", Phone: viewer.Phone,
				Permissions: models.GuardianPermissions{CanViewLiveLocation: true}},
		}, nil).Times(1)

	mockSOS.EXPECT().AcceptsSamples(subject.ID).Return(true).Times(1)
	mockSOS.EXPECT().MarkStreaming(subject.ID).Times(1)

	viewerConn := dialWS(t, srv, "viewer-token")
	require.NoError(t, viewerConn.WriteJSON(wsMessage{Type: "join-room", UserID: subject.ID.String()}))

	// Даем подписке открыться до публикации
	time.Sleep(100 * time.Millisecond)

	subjectConn := dialWS(t, srv, "subject-token")
	require.NoError(t, subjectConn.WriteJSON(wsMessage{
		Type:      "update-location",
		UserID:    subject.ID.String(),
		Lat:       12.9716,
		Lng:       77.5946,
		Accuracy:  8,
		Timestamp: 1700000000000,
	}))

	msg := readWSMessage(t, viewerConn)
	assert.Equal(t, "location-broadcast", msg.Type)
	assert.Equal(t, subject.ID.String(), msg.UserID)
	assert.Equal(t, "Subject", msg.FullName)
	assert.Equal(t, 12.9716, msg.Lat)
	assert.Equal(t, 77.5946, msg.Lng)
	assert.Equal(t, int64(1700000000000), msg.Timestamp)
}

func TestWS_SubscriptionDeniedWithoutPermission(t *testing.T) {
	srv, mockGuardians, _ := newWSTestServer(t)

	subjectID := uuid.New()
	stranger := &models.User{ID: uuid.New(), FullName: "Stranger", Phone: "+15550000009"}

	mockGuardians.EXPECT().Authenticate(gomock.Any(), "stranger-token").Return(stranger, nil).Times(1)
	// В круге субъекта нет опекуна с телефоном наблюдателя
	mockGuardians.EXPECT().
		ListGuardians(gomock.Any(), subjectID).
		Return([]*models.Guardian{
			{ID: uuid.New(), UserID: subjectID, Name: "Other", Phone: "+15550000003",
				Permissions: models.GuardianPermissions{CanViewLiveLocation: true}},
		}, nil).Times(1)

	conn := dialWS(t, srv, "stranger-token")
	require.NoError(t, conn.WriteJSON(wsMessage{Type: "join-room", UserID: subjectID.String()}))

	msg := readWSMessage(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Msg, "not allowed")
}

func TestWS_SamplesRejectedWithoutActiveSession(t *testing.T) {
	srv, mockGuardians, mockSOS := newWSTestServer(t)

	subject := &models.User{ID: uuid.New(), FullName: "Subject", Phone: "+15550000001"}

	mockGuardians.EXPECT().Authenticate(gomock.Any(), "subject-token").Return(subject, nil).Times(1)
	mockGuardians.EXPECT().
		ListGuardians(gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()

	// Эпизод не активен: сэмпл отбрасывается, streaming не начинается
	mockSOS.EXPECT().AcceptsSamples(subject.ID).Return(false).Times(1)
	mockSOS.EXPECT().MarkStreaming(gomock.Any()).Times(0)

	conn := dialWS(t, srv, "subject-token")
	require.NoError(t, conn.WriteJSON(wsMessage{Type: "join-room", UserID: subject.ID.String()})) // Собственный поток
	require.NoError(t, conn.WriteJSON(wsMessage{
		Type:   "update-location",
		UserID: subject.ID.String(),
		Lat:    1, Lng: 1,
	}))

	// Подписка на собственный поток открыта, но публикации не было
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err) // Таймаут чтения: сообщений нет
}

func TestWS_ForeignSubjectSampleIgnored(t *testing.T) {
	srv, mockGuardians, mockSOS := newWSTestServer(t)

	subject := &models.User{ID: uuid.New(), FullName: "Subject", Phone: "+15550000001"}

	mockGuardians.EXPECT().Authenticate(gomock.Any(), "subject-token").Return(subject, nil).Times(1)

	// Публикация от чужого имени не доходит до машины состояний
	mockSOS.EXPECT().AcceptsSamples(gomock.Any()).Times(0)
	mockSOS.EXPECT().MarkStreaming(gomock.Any()).Times(0)

	conn := dialWS(t, srv, "subject-token")
	require.NoError(t, conn.WriteJSON(wsMessage{
		Type:   "update-location",
		UserID: uuid.New().String(), // Чужой userId
		Lat:    1, Lng: 1,
	}))

	// Даем серверу обработать сообщение до завершения теста
	time.Sleep(100 * time.Millisecond)
}
