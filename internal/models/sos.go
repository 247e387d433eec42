package models

import (
	"time"
)

// SessionState - состояние SOS-сессии пользователя
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionTriggered SessionState = "triggered"
	SessionStreaming SessionState = "streaming"
	SessionResolved  SessionState = "resolved"
)

// AlertPayload - полезная нагрузка одного SOS-срабатывания. Живет только в
// рамках эпизода, в базе остается лишь последняя известная позиция.
type AlertPayload struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"` // метры
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationSample - один сэмпл живой геолокации. Эфемерный: существует только
// на пути между издателем и подписчиками, никогда не персистится.
type LocationSample struct {
	UserID    string  `json:"userId"`
	FullName  string  `json:"fullName"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Accuracy  float64 `json:"accuracy"`
	Msg       string  `json:"msg"`
	Timestamp int64   `json:"timestamp"`
}
