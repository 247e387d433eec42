package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/safeguard/sos_alert_system/internal/dispatch"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/ratelimit"
	"github.com/sirupsen/logrus"
)

// SubjectCloser принудительно закрывает все подписки на поток субъекта
// при разрешении эпизода
type SubjectCloser interface {
	CloseSubject(subject string)
}

// SOSService определяет контракт машины состояний SOS-сессии:
// idle -> triggered -> streaming -> resolved
type SOSService interface {
	// Trigger запускает SOS-эпизод и возвращает число оповещаемых опекунов
	Trigger(ctx context.Context, user *models.User, payload *models.AlertPayload, ip string) (int, error)
	// Resolve завершает эпизод ("я в безопасности")
	Resolve(ctx context.Context, user *models.User, ip string) error
	// State возвращает текущее состояние сессии пользователя
	State(userID uuid.UUID) models.SessionState
	// MarkStreaming переводит сессию triggered -> streaming при первой публикации
	MarkStreaming(userID uuid.UUID)
	// AcceptsSamples сообщает, принимает ли эпизод пользователя сэмплы геолокации
	AcceptsSamples(userID uuid.UUID) bool
}

type sosService struct {
	repo    UserRepository
	limiter ratelimit.Limiter
	queue   dispatch.Publisher
	relay   SubjectCloser
	logger  *logrus.Logger
	cfg     *config.Config

	mu       sync.Mutex
	sessions map[uuid.UUID]models.SessionState
}

func NewSOSService(repo UserRepository, limiter ratelimit.Limiter, queue dispatch.Publisher, relay SubjectCloser, logger *logrus.Logger, cfg *config.Config) SOSService {
	return &sosService{
		repo:     repo,
		limiter:  limiter,
		queue:    queue,
		relay:    relay,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]models.SessionState),
	}
}

// Trigger выполняет переход idle -> triggered: проверяет круг опекунов и
// лимит частоты, персистит состояние тревоги, пишет аудит и выдает задание
// рассылки. Ответ не ждет доставки уведомлений. Повторное срабатывание при
// активном эпизоде допустимо в пределах окна лимитера и заново рассылает
// уведомления без дедупликации.
func (s *sosService) Trigger(ctx context.Context, user *models.User, payload *models.AlertPayload, ip string) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sos",
		"method":  "Trigger",
		"user_id": user.ID,
	})
	log.Info("SOS trigger requested")

	guardians, err := s.repo.ListGuardians(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to load guardians")
		return 0, fmt.Errorf("service: could not load guardians: %w", err)
	}

	// Пустой круг опекунов не меняет ни activeSOS, ни журнал аудита
	if len(guardians) == 0 {
		log.Warn("SOS trigger rejected: no guardians configured")
		return 0, models.ErrNoGuardians
	}

	allowed, err := s.limiter.Allow(ctx, user.ID.String())
	if err != nil {
		// Отказ бэкенда лимитера не должен блокировать SOS: пропускаем с предупреждением
		log.WithError(err).Warn("Rate limiter backend failed, allowing trigger")
		allowed = true
	}
	if !allowed {
		log.Warn("SOS trigger rejected: rate limited")
		return 0, models.ErrRateLimited
	}

	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now()
	}

	if err := s.repo.SetActiveSOS(ctx, user.ID, true, payload); err != nil {
		log.WithError(err).Error("Failed to persist alert state")
		return 0, fmt.Errorf("service: could not persist alert state: %w", err)
	}

	if err := s.repo.AppendAudit(ctx, user.ID, &models.AuditEntry{
		Action: models.AuditActionSOSTriggered,
		IP:     ip,
	}); err != nil {
		// Аудит не должен ронять тревогу
		log.WithError(err).Error("Failed to append audit entry")
	}

	s.mu.Lock()
	s.sessions[user.ID] = models.SessionTriggered
	s.mu.Unlock()

	// Fire-and-forget: ошибки рассылки наблюдаемы только в логах,
	// триггерящий пользователь всегда получает быстрый ответ
	job := dispatch.Job{
		UserID:      user.ID.String(),
		SubjectName: user.FullName,
		Guardians:   guardians,
		Payload:     *payload,
		EnqueuedAt:  time.Now(),
	}
	if err := s.queue.Publish(ctx, job); err != nil {
		log.WithError(err).Error("Failed to enqueue dispatch job")
	}

	log.WithField("guardians", len(guardians)).Info("SOS triggered")
	return len(guardians), nil
}

// Resolve выполняет переход * -> resolved: снимает activeSOS, пишет аудит и
// принудительно закрывает все подписки на поток субъекта. Идемпотентна.
func (s *sosService) Resolve(ctx context.Context, user *models.User, ip string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sos",
		"method":  "Resolve",
		"user_id": user.ID,
	})
	log.Info("Resolving SOS session")

	if err := s.repo.SetActiveSOS(ctx, user.ID, false, nil); err != nil {
		log.WithError(err).Error("Failed to clear alert state")
		return fmt.Errorf("service: could not clear alert state: %w", err)
	}

	if err := s.repo.AppendAudit(ctx, user.ID, &models.AuditEntry{
		Action: models.AuditActionSOSResolved,
		IP:     ip,
	}); err != nil {
		log.WithError(err).Error("Failed to append audit entry")
	}

	s.mu.Lock()
	s.sessions[user.ID] = models.SessionResolved
	s.mu.Unlock()

	s.relay.CloseSubject(user.ID.String())

	log.Info("SOS session resolved")
	return nil
}

// State возвращает текущее состояние сессии; неизвестный пользователь - idle
func (s *sosService) State(userID uuid.UUID) models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[userID]
	if !ok {
		return models.SessionIdle
	}
	return state
}

// MarkStreaming фиксирует неявный переход triggered -> streaming,
// инициируемый первой публикацией сэмпла
func (s *sosService) MarkStreaming(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[userID] == models.SessionTriggered {
		s.sessions[userID] = models.SessionStreaming
	}
}

// AcceptsSamples: сэмплы принимаются только в triggered и streaming
func (s *sosService) AcceptsSamples(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.sessions[userID]
	return state == models.SessionTriggered || state == models.SessionStreaming
}
