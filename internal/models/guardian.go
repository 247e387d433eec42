package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxGuardiansPerUser - максимальное количество опекунов у одного пользователя
const MaxGuardiansPerUser = 5

// GuardianPermissions - набор разрешений опекуна
type GuardianPermissions struct {
	CanViewLiveLocation bool `json:"can_view_live_location"`
}

// Guardian представляет доверенный контакт пользователя для SOS-оповещений
type Guardian struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"user_id"`
	Name         string              `json:"name"`
	Phone        string              `json:"phone"` // формат E.164
	Relationship string              `json:"relationship"`
	Priority     int                 `json:"priority"` // 1 = первичный контакт
	IsVerified   bool                `json:"is_verified"`
	Permissions  GuardianPermissions `json:"permissions"`
	CreatedAt    time.Time           `json:"created_at"`
}
