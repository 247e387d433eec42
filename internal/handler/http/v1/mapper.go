package v1

import "github.com/safeguard/sos_alert_system/internal/models"

// DTOToGuardianModel преобразует DTO добавления опекуна в доменную модель
func DTOToGuardianModel(dto AddGuardianRequest) *models.Guardian {
	return &models.Guardian{
		Name:         dto.Name,
		Phone:        dto.Phone,
		Relationship: dto.Relationship,
		Priority:     dto.Priority,
		Permissions: models.GuardianPermissions{
			CanViewLiveLocation: dto.CanViewLiveLocation,
		},
	}
}

// DTOToAlertPayload преобразует DTO срабатывания в полезную нагрузку тревоги
func DTOToAlertPayload(dto TriggerSOSRequest) *models.AlertPayload {
	return &models.AlertPayload{
		Lat:       dto.Lat,
		Lng:       dto.Lng,
		Accuracy:  dto.Accuracy,
		Note:      dto.Note,
		Timestamp: dto.Timestamp,
	}
}

// ModelToGuardianResponse преобразует доменную модель в DTO для ответа
func ModelToGuardianResponse(model *models.Guardian) *GuardianResponse {
	return &GuardianResponse{
		ID:                  model.ID,
		Name:                model.Name,
		Phone:               model.Phone,
		Relationship:        model.Relationship,
		Priority:            model.Priority,
		IsVerified:          model.IsVerified,
		CanViewLiveLocation: model.Permissions.CanViewLiveLocation,
		CreatedAt:           model.CreatedAt,
	}
}

// ModelsToGuardianResponses преобразует слайс моделей в слайс DTO
func ModelsToGuardianResponses(models []*models.Guardian) []*GuardianResponse {
	responses := make([]*GuardianResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToGuardianResponse(model)
	}
	return responses
}
