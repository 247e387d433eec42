package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет учетную запись, возвращаемую хранилищем идентичности.
// Регистрация и хранение паролей находятся вне ядра системы.
type User struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	ActiveSOS bool      `json:"active_sos"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditEntry - запись журнала аудита, принадлежащего пользователю (append-only)
type AuditEntry struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	AuditActionSOSTriggered = "SOS_TRIGGERED"
	AuditActionSOSResolved  = "SOS_RESOLVED"
)
