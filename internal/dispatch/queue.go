package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

const dispatchQueueKey = "dispatch_jobs"

// Job - задание на рассылку уведомлений по одному SOS-срабатыванию
type Job struct {
	UserID      string              `json:"user_id"`
	SubjectName string              `json:"subject_name"`
	Guardians   []*models.Guardian  `json:"guardians"`
	Payload     models.AlertPayload `json:"payload"`
	EnqueuedAt  time.Time           `json:"enqueued_at"`
}

// Publisher - интерфейс постановки заданий рассылки. Триггер SOS завершается,
// как только задание выдано: подтверждения доставки не дожидаемся.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// RedisPublisher - реализация Publisher, использующая очередь в Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует задание рассылки в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch job: %w", err)
	}

	// LPUSH в левую часть списка, воркер читает BRPop с правой
	if err := p.redisClient.LPush(ctx, dispatchQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish dispatch job to Redis: %w", err)
	}
	return nil
}

// DirectPublisher выполняет рассылку в отдельной горутине без очереди.
// Используется, когда Redis не сконфигурирован.
type DirectPublisher struct {
	dispatcher *Dispatcher
	logger     *logrus.Logger
	timeout    time.Duration
}

// NewDirectPublisher создает новый DirectPublisher
func NewDirectPublisher(dispatcher *Dispatcher, logger *logrus.Logger, timeout time.Duration) *DirectPublisher {
	return &DirectPublisher{
		dispatcher: dispatcher,
		logger:     logger,
		timeout:    timeout,
	}
}

// Publish запускает рассылку асинхронно относительно вызывающего
func (p *DirectPublisher) Publish(_ context.Context, job Job) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		report := p.dispatcher.Dispatch(ctx, job.Guardians, &job.Payload, job.SubjectName)
		p.logger.WithFields(logrus.Fields{
			"user_id": job.UserID,
			"sent":    report.Sent(),
		}).Info("Direct dispatch finished")
	}()
	return nil
}

// Worker - воркер, разбирающий очередь заданий рассылки
type Worker struct {
	redisClient *redis.Client
	dispatcher  *Dispatcher
	logger      *logrus.Logger
	cfg         *config.Config
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, dispatcher *Dispatcher, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		dispatcher:  dispatcher,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start запускает горутину для обработки очереди рассылки
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting dispatch worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping dispatch worker.")
				return
			default:
				// BRPop - блокирующее извлечение из правой части очереди,
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, dispatchQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue // Контекст отменен, но не ошибка Redis
					}
					w.logger.WithError(err).Error("Failed to pop dispatch job from Redis")
					time.Sleep(w.cfg.DispatchBaseDelay)
					continue
				}

				// result[0] - ключ, result[1] - значение
				var job Job
				if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal dispatch job from Redis")
					continue
				}

				w.processJob(ctx, job)
			}
		}
	}()
}

func (w *Worker) processJob(ctx context.Context, job Job) {
	log := w.logger.WithFields(logrus.Fields{
		"user_id":   job.UserID,
		"guardians": len(job.Guardians),
	})
	log.Debug("Processing dispatch job...")

	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.DispatchTimeout)
	defer cancel()

	report := w.dispatcher.Dispatch(jobCtx, job.Guardians, &job.Payload, job.SubjectName)

	for _, res := range report.Results {
		log.WithFields(logrus.Fields{
			"guardian": res.Name,
			"voice":    res.Voice.Outcome,
			"text":     res.Text.Outcome,
		}).Info("Guardian notification outcome")
	}
}
