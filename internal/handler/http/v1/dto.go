package v1

import (
	"time"

	"github.com/google/uuid"
)

// TriggerSOSRequest DTO для срабатывания SOS
// @Description DTO для срабатывания SOS
type TriggerSOSRequest struct {
	Lat       float64   `json:"lat" validate:"required,latitude"`
	Lng       float64   `json:"lng" validate:"required,longitude"`
	Accuracy  float64   `json:"accuracy" validate:"gte=0"`
	Note      string    `json:"note,omitempty" validate:"max=280"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// TriggerSOSResponse DTO для ответа на срабатывание SOS
// @Description DTO для ответа на срабатывание SOS
type TriggerSOSResponse struct {
	Success          bool `json:"success"`
	ContactsNotified int  `json:"contactsNotified"`
}

// ResolveSOSResponse DTO для ответа на завершение эпизода
// @Description DTO для ответа на завершение эпизода
type ResolveSOSResponse struct {
	Success   bool `json:"success"`
	ActiveSOS bool `json:"activeSOS"`
}

// SOSStatusResponse DTO для ответа со статусом SOS-сессии
// @Description DTO для ответа со статусом SOS-сессии
type SOSStatusResponse struct {
	ActiveSOS bool   `json:"active_sos"`
	State     string `json:"state"`
}

// AddGuardianRequest DTO для добавления опекуна
// @Description DTO для добавления опекуна
type AddGuardianRequest struct {
	Name                string `json:"name" validate:"required,min=2,max=255"`
	Phone               string `json:"phone" validate:"required,e164"`
	Relationship        string `json:"relationship,omitempty" validate:"max=100"`
	Priority            int    `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
	CanViewLiveLocation bool   `json:"can_view_live_location,omitempty"`
}

// GuardianResponse DTO для ответа с информацией об опекуне
// @Description DTO для ответа с информацией об опекуне
type GuardianResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	Relationship        string    `json:"relationship,omitempty"`
	Priority            int       `json:"priority"`
	IsVerified          bool      `json:"is_verified"`
	CanViewLiveLocation bool      `json:"can_view_live_location"`
	CreatedAt           time.Time `json:"created_at"`
}
