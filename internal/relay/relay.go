package relay

import (
	"sync"

	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Relay - широковещательный канал живой геолокации, по комнате на субъекта.
// Публикации разных субъектов не блокируют друг друга: у каждой комнаты
// свой мьютекс, подписчики получают сэмплы через буферизованные каналы.
type Relay struct {
	mu         sync.RWMutex
	rooms      map[string]*room
	bufferSize int
	logger     *logrus.Logger
}

type room struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription - подписка одного зрителя на поток сэмплов субъекта.
// Канал закрывается при Close() со стороны зрителя или при закрытии субъекта.
type Subscription struct {
	subject string
	ch      chan models.LocationSample
	relay   *Relay
	once    sync.Once
}

// C возвращает канал входящих сэмплов. Канал закрыт - поток завершен.
func (s *Subscription) C() <-chan models.LocationSample {
	return s.ch
}

// Close отписывает зрителя и закрывает его канал. Повторный вызов безопасен.
func (s *Subscription) Close() {
	s.relay.unsubscribe(s)
}

// New создает новый Relay
func New(bufferSize int, logger *logrus.Logger) *Relay {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Relay{
		rooms:      make(map[string]*room),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Subscribe подписывает зрителя на поток субъекта. Подписка на субъекта без
// активного издателя валидна: зритель просто ждет первый сэмпл. Бэкфилла
// нет - доставляются только сэмплы, опубликованные после подписки.
func (r *Relay) Subscribe(subject string) *Subscription {
	rm := r.getOrCreateRoom(subject)

	sub := &Subscription{
		subject: subject,
		ch:      make(chan models.LocationSample, r.bufferSize),
		relay:   r,
	}

	rm.mu.Lock()
	rm.subs[sub] = struct{}{}
	rm.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"subject": subject,
	}).Debug("Relay subscription opened")
	return sub
}

// Publish рассылает сэмпл всем подписчикам субъекта. Порядок публикаций
// одного издателя сохраняется для каждого подписчика: рассылка комнаты
// сериализована ее мьютексом. Медленный подписчик с заполненным буфером
// теряет сэмпл, но не блокирует рассылку (последняя позиция важнее истории).
// Возвращает число подписчиков, получивших сэмпл.
func (r *Relay) Publish(subject string, sample models.LocationSample) int {
	rm := r.getOrCreateRoom(subject)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	delivered := 0
	for sub := range rm.subs {
		select {
		case sub.ch <- sample:
			delivered++
		default:
			r.logger.WithField("subject", subject).Warn("Relay subscriber buffer full, sample dropped")
		}
	}
	return delivered
}

// CloseSubject принудительно закрывает все подписки субъекта (разрешение
// SOS-эпизода). Комната удаляется; следующий эпизод начнет с чистой.
func (r *Relay) CloseSubject(subject string) {
	r.mu.Lock()
	rm, ok := r.rooms[subject]
	if ok {
		delete(r.rooms, subject)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	rm.mu.Lock()
	for sub := range rm.subs {
		sub.once.Do(func() { close(sub.ch) })
	}
	rm.subs = make(map[*Subscription]struct{})
	rm.mu.Unlock()

	r.logger.WithField("subject", subject).Info("Relay subject closed")
}

// SubscriberCount возвращает число подписчиков субъекта
func (r *Relay) SubscriberCount(subject string) int {
	r.mu.RLock()
	rm, ok := r.rooms[subject]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.subs)
}

func (r *Relay) getOrCreateRoom(subject string) *room {
	r.mu.RLock()
	rm, ok := r.rooms[subject]
	r.mu.RUnlock()
	if ok {
		return rm
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rm, ok = r.rooms[subject]; ok {
		return rm
	}
	rm = &room{subs: make(map[*Subscription]struct{})}
	r.rooms[subject] = rm
	return rm
}

func (r *Relay) unsubscribe(sub *Subscription) {
	r.mu.RLock()
	rm, ok := r.rooms[sub.subject]
	r.mu.RUnlock()

	if ok {
		rm.mu.Lock()
		delete(rm.subs, sub)
		rm.mu.Unlock()
	}

	sub.once.Do(func() { close(sub.ch) })
}
