package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/relay"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage - конверт сообщения живой геолокации. Типы: join-room (вход в
// комнату субъекта), update-location (публикация сэмпла владельцем),
// location-broadcast (доставка сэмпла подписчику).
type wsMessage struct {
	Type      string  `json:"type"`
	UserID    string  `json:"userId,omitempty"`
	FullName  string  `json:"fullName,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Msg       string  `json:"msg,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// wsClient - одно WebSocket-соединение с буферизованной очередью отправки
// и набором активных подписок на потоки субъектов
type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	user   *models.User
	logger *logrus.Logger

	mu   sync.Mutex
	subs map[string]*relay.Subscription
	done chan struct{}
	once sync.Once
}

// @Summary Live location stream
// @Description Upgrade to a WebSocket for publishing and subscribing to live location samples during an active SOS session.
// @Tags SOS
// @Security BearerAuth
// @Success 101 "Switching Protocols"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /sos/ws [get]
func (h *Handler) serveWS(c *gin.Context) {
	log := h.logger.WithField("method", "serveWS")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	client := &wsClient{
		conn:   conn,
		send:   make(chan []byte, h.cfg.RelayBufferSize),
		user:   user,
		logger: h.logger,
		subs:   make(map[string]*relay.Subscription),
		done:   make(chan struct{}),
	}

	log.WithField("user_id", user.ID).Info("WebSocket client connected")

	go client.writePump()
	go h.readPump(client)
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.mu.Lock()
		for _, sub := range c.subs {
			sub.Close()
		}
		c.subs = nil
		c.mu.Unlock()
		c.conn.Close()
	})
}

// trySend ставит сообщение в очередь отправки; при переполнении буфера
// сообщение отбрасывается, медленный клиент не тормозит остальных
func (c *wsClient) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.WithField("user_id", c.user.ID).Warn("WebSocket send buffer full, dropping message")
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Handler) readPump(client *wsClient) {
	defer client.close()

	client.conn.SetReadLimit(int64(h.cfg.WSReadLimit))
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Warn("WebSocket read error")
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.WithError(err).Warn("Failed to unmarshal WebSocket message")
			continue
		}

		switch msg.Type {
		case "join-room":
			h.handleJoinRoom(client, msg)
		case "update-location":
			h.handleUpdateLocation(client, msg)
		default:
			h.logger.WithField("type", msg.Type).Warn("Unknown WebSocket message type")
		}
	}
}

// handleJoinRoom подписывает клиента на поток субъекта. Подписка разрешена
// самому субъекту и его опекунам с правом просмотра живой геолокации.
func (h *Handler) handleJoinRoom(client *wsClient, msg wsMessage) {
	log := h.logger.WithFields(logrus.Fields{
		"method":  "handleJoinRoom",
		"user_id": client.user.ID,
		"subject": msg.UserID,
	})

	subjectID, err := uuid.Parse(msg.UserID)
	if err != nil {
		log.Warn("Invalid subject id in join-room")
		return
	}

	if !h.canViewSubject(client, subjectID) {
		log.Warn("Live location subscription denied")
		client.trySend(mustMarshal(wsMessage{Type: "error", Msg: "not allowed to view this stream"}))
		return
	}

	subject := subjectID.String()
	client.mu.Lock()
	if client.subs == nil {
		client.mu.Unlock()
		return
	}
	if _, exists := client.subs[subject]; exists {
		client.mu.Unlock()
		return
	}
	sub := h.relay.Subscribe(subject)
	client.subs[subject] = sub
	client.mu.Unlock()

	log.Info("Live location subscription opened")

	go func() {
		for sample := range sub.C() {
			client.trySend(mustMarshal(wsMessage{
				Type:      "location-broadcast",
				UserID:    sample.UserID,
				FullName:  sample.FullName,
				Lat:       sample.Lat,
				Lng:       sample.Lng,
				Accuracy:  sample.Accuracy,
				Msg:       sample.Msg,
				Timestamp: sample.Timestamp,
			}))
		}
	}()
}

// handleUpdateLocation публикует сэмпл в поток самого клиента. Сэмплы
// принимаются только при активном эпизоде, чужие userId игнорируются.
func (h *Handler) handleUpdateLocation(client *wsClient, msg wsMessage) {
	if msg.UserID != "" && msg.UserID != client.user.ID.String() {
		h.logger.WithFields(logrus.Fields{
			"user_id": client.user.ID,
			"claimed": msg.UserID,
		}).Warn("Rejected location sample for foreign subject")
		return
	}

	if !h.sosService.AcceptsSamples(client.user.ID) {
		return
	}
	h.sosService.MarkStreaming(client.user.ID)

	ts := msg.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	h.relay.Publish(client.user.ID.String(), models.LocationSample{
		UserID:    client.user.ID.String(),
		FullName:  client.user.FullName,
		Lat:       msg.Lat,
		Lng:       msg.Lng,
		Accuracy:  msg.Accuracy,
		Msg:       msg.Msg,
		Timestamp: ts,
	})
}

// canViewSubject: субъект всегда видит собственный поток; опекун - только
// если его телефон есть в круге субъекта с can_view_live_location
func (h *Handler) canViewSubject(client *wsClient, subjectID uuid.UUID) bool {
	if client.user.ID == subjectID {
		return true
	}

	// Контекст запроса после upgrade уже отменен, поэтому отдельный таймаут
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	guardians, err := h.guardianService.ListGuardians(ctx, subjectID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check stream permissions")
		return false
	}
	for _, g := range guardians {
		if g.Phone == client.user.Phone && g.Permissions.CanViewLiveLocation {
			return true
		}
	}
	return false
}

func mustMarshal(msg wsMessage) []byte {
	data, _ := json.Marshal(msg)
	return data
}
