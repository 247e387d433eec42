package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// UserRepository определяет контракт хранилища пользователей, их опекунов
// и журнала аудита
type UserRepository interface {
	GetByToken(ctx context.Context, token string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListGuardians(ctx context.Context, userID uuid.UUID) ([]*models.Guardian, error)
	AddGuardian(ctx context.Context, userID uuid.UUID, guardian *models.Guardian) error
	RemoveGuardian(ctx context.Context, userID, guardianID uuid.UUID) error
	SetActiveSOS(ctx context.Context, userID uuid.UUID, active bool, location *models.AlertPayload) error
	AppendAudit(ctx context.Context, userID uuid.UUID, entry *models.AuditEntry) error
}

// GuardianService определяет контракт для аутентификации вызывающего и
// управления его кругом опекунов
type GuardianService interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	ListGuardians(ctx context.Context, userID uuid.UUID) ([]*models.Guardian, error)
	AddGuardian(ctx context.Context, userID uuid.UUID, guardian *models.Guardian) error
	RemoveGuardian(ctx context.Context, userID, guardianID uuid.UUID) error
}

type guardianService struct {
	repo   UserRepository
	logger *logrus.Logger
}

func NewGuardianService(repo UserRepository, logger *logrus.Logger) GuardianService {
	return &guardianService{
		repo:   repo,
		logger: logger,
	}
}

// Authenticate разрешает bearer-токен в учетную запись пользователя
func (s *guardianService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "guardian",
			"method":  "Authenticate",
		}).WithError(err).Warn("Failed to resolve bearer token")
		return nil, fmt.Errorf("service: %w", models.ErrUnauthorized)
	}
	return user, nil
}

// ListGuardians возвращает упорядоченный список опекунов пользователя
func (s *guardianService) ListGuardians(ctx context.Context, userID uuid.UUID) ([]*models.Guardian, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "guardian",
		"method":  "ListGuardians",
		"user_id": userID,
	})

	guardians, err := s.repo.ListGuardians(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list guardians from repository")
		return nil, fmt.Errorf("service: could not list guardians: %w", err)
	}
	return guardians, nil
}

// AddGuardian добавляет опекуна в круг пользователя. Проверка емкости
// атомарна со вставкой на уровне репозитория.
func (s *guardianService) AddGuardian(ctx context.Context, userID uuid.UUID, guardian *models.Guardian) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "guardian",
		"method":  "AddGuardian",
		"user_id": userID,
		"name":    guardian.Name,
	})
	log.Info("Attempting to add guardian")

	guardian.ID = uuid.New()
	guardian.UserID = userID
	if guardian.Priority <= 0 {
		guardian.Priority = 1
	}

	if err := s.repo.AddGuardian(ctx, userID, guardian); err != nil {
		log.WithError(err).Warn("Failed to add guardian in repository")
		return fmt.Errorf("service: could not add guardian: %w", err)
	}

	log.WithField("guardian_id", guardian.ID).Info("Guardian added successfully")
	return nil
}

// RemoveGuardian удаляет опекуна. Идемпотентна: удаление несуществующего
// id завершается успешно без изменений.
func (s *guardianService) RemoveGuardian(ctx context.Context, userID, guardianID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "guardian",
		"method":      "RemoveGuardian",
		"user_id":     userID,
		"guardian_id": guardianID,
	})
	log.Info("Removing guardian")

	if err := s.repo.RemoveGuardian(ctx, userID, guardianID); err != nil {
		log.WithError(err).Error("Failed to remove guardian in repository")
		return fmt.Errorf("service: could not remove guardian: %w", err)
	}
	return nil
}
