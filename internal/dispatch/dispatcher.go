package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Transport - коллаборатор доставки уведомлений (Twilio или совместимый).
// Каждый метод независимо может завершиться ошибкой.
type Transport interface {
	Call(ctx context.Context, toNumber, spokenMessage string) error
	Text(ctx context.Context, toNumber, body string) error
}

// Outcome - результат попытки отправки одного уведомления
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Attempt - итог одной попытки (голос или текст) для одного опекуна
type Attempt struct {
	Attempted bool    `json:"attempted"`
	Outcome   Outcome `json:"outcome"`
	Error     string  `json:"error,omitempty"`
}

// GuardianResult - итог рассылки по одному опекуну
type GuardianResult struct {
	GuardianID uuid.UUID `json:"guardian_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Priority   int       `json:"priority"`
	Voice      Attempt   `json:"voice"`
	Text       Attempt   `json:"text"`
}

// DispatchReport фиксирует, что было предпринято по каждому опекуну.
// Отчет наблюдаем только через логи и самих вызывающих - пользователю,
// сработавшему SOS, индивидуальные исходы синхронно не возвращаются.
type DispatchReport struct {
	Subject  string           `json:"subject"`
	IssuedAt time.Time        `json:"issued_at"`
	Results  []GuardianResult `json:"results"`
}

// Sent возвращает количество успешно отправленных уведомлений (голос + текст)
func (r *DispatchReport) Sent() int {
	n := 0
	for _, res := range r.Results {
		if res.Voice.Outcome == OutcomeSent {
			n++
		}
		if res.Text.Outcome == OutcomeSent {
			n++
		}
	}
	return n
}

// Dispatcher эскалирует тревогу по приоритетам и веером рассылает
// голосовые и текстовые уведомления опекунам
type Dispatcher struct {
	transport Transport
	logger    *logrus.Logger
}

// NewDispatcher создает новый Dispatcher. Нулевой transport допустим:
// рассылка деградирует до логирования по каждому опекуну.
func NewDispatcher(transport Transport, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		logger:    logger,
	}
}

const defaultNote = "Help!"

// MapLink строит ссылку на карту по координатам тревоги
func MapLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
}

// Dispatch рассылает уведомления списку опекунов. Опекуны обрабатываются по
// возрастанию приоритета (стабильная сортировка, при равенстве сохраняется
// исходный порядок). Опекуны с приоритетом 1 получают голосовой вызов, текст
// получают все. Ошибка по одному опекуну не прерывает рассылку остальным.
func (d *Dispatcher) Dispatch(ctx context.Context, guardians []*models.Guardian, payload *models.AlertPayload, subjectName string) *DispatchReport {
	log := d.logger.WithFields(logrus.Fields{
		"component": "dispatch",
		"subject":   subjectName,
		"guardians": len(guardians),
	})
	log.Info("Dispatching SOS notifications")

	ordered := make([]*models.Guardian, len(guardians))
	copy(ordered, guardians)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	note := payload.Note
	if note == "" {
		note = defaultNote
	}
	mapLink := MapLink(payload.Lat, payload.Lng)
	smsBody := fmt.Sprintf("🚨 SOS from %s: %s. Track: %s", subjectName, note, mapLink)
	spoken := fmt.Sprintf("Emergency alert for %s. Link sent to phone.", subjectName)

	report := &DispatchReport{
		Subject:  subjectName,
		IssuedAt: time.Now(),
		Results:  make([]GuardianResult, 0, len(ordered)),
	}

	for _, g := range ordered {
		result := GuardianResult{
			GuardianID: g.ID,
			Name:       g.Name,
			Phone:      g.Phone,
			Priority:   g.Priority,
		}

		if g.Priority == 1 {
			result.Voice = d.attempt(ctx, g, "voice", func() error {
				return d.transport.Call(ctx, g.Phone, spoken)
			})
		} else {
			// Голосовой вызов положен только первичным контактам
			result.Voice = Attempt{Attempted: false, Outcome: OutcomeSkipped}
		}

		result.Text = d.attempt(ctx, g, "text", func() error {
			return d.transport.Text(ctx, g.Phone, smsBody)
		})

		report.Results = append(report.Results, result)
	}

	log.WithField("sent", report.Sent()).Info("SOS dispatch completed")
	return report
}

// attempt выполняет одну отправку и переводит результат в Attempt.
// Несконфигурированный транспорт - видимый режим деградации, не ошибка.
func (d *Dispatcher) attempt(ctx context.Context, g *models.Guardian, kind string, send func() error) Attempt {
	log := d.logger.WithFields(logrus.Fields{
		"component": "dispatch",
		"kind":      kind,
		"guardian":  g.Name,
		"phone":     g.Phone,
	})

	if d.transport == nil {
		log.WithError(models.ErrTransportUnavailable).Warn("Notification transport not configured, logging only")
		return Attempt{Attempted: false, Outcome: OutcomeSkipped, Error: models.ErrTransportUnavailable.Error()}
	}

	if err := send(); err != nil {
		log.WithError(err).Error("Notification attempt failed")
		return Attempt{Attempted: true, Outcome: OutcomeFailed, Error: err.Error()}
	}

	log.Debug("Notification sent")
	return Attempt{Attempted: true, Outcome: OutcomeSent}
}
