package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/safeguard/sos_alert_system/internal/dispatch"
	"github.com/safeguard/sos_alert_system/internal/dispatch/mocks"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestDispatcher — вспомогательная функция для создания диспетчера с моком транспорта
func newTestDispatcher(t *testing.T) (*dispatch.Dispatcher, *mocks.MockTransport) {
	ctrl := gomock.NewController(t)
	transportMock := mocks.NewMockTransport(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return dispatch.NewDispatcher(transportMock, logger), transportMock
}

func guardian(name, phone string, priority int) *models.Guardian {
	return &models.Guardian{
		ID:       uuid.New(),
		Name:     name,
		Phone:    phone,
		Priority: priority,
	}
}

func TestDispatch_EscalationOrder(t *testing.T) {
	// Подготовка
	dispatcher, transportMock := newTestDispatcher(t)
	ctx := context.Background()
	guardians := []*models.Guardian{
		guardian("Carol", "+10000000003", 3),
		guardian("Alice", "+10000000001", 1),
		guardian("Bob", "+10000000002", 2),
	}
	payload := &models.AlertPayload{Lat: 12.9, Lng: 77.6, Note: "Help!"}

	// Ожидания: текст уходит по возрастанию приоритета
	transportMock.EXPECT().Call(ctx, "+10000000001", gomock.Any()).Return(nil).Times(1)
	gomock.InOrder(
		transportMock.EXPECT().Text(ctx, "+10000000001", gomock.Any()).Return(nil),
		transportMock.EXPECT().Text(ctx, "+10000000002", gomock.Any()).Return(nil),
		transportMock.EXPECT().Text(ctx, "+10000000003", gomock.Any()).Return(nil),
	)

	// Действие
	report := dispatcher.Dispatch(ctx, guardians, payload, "User U")

	// Проверки: отчет отсортирован по приоритету, исходный слайс не тронут
	require.Len(t, report.Results, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{report.Results[0].Priority, report.Results[1].Priority, report.Results[2].Priority})
	assert.Equal(t, "Carol", guardians[0].Name)
}

func TestDispatch_StableSortOnEqualPriority(t *testing.T) {
	// Подготовка: два первичных контакта, порядок добавления должен сохраниться
	dispatcher, transportMock := newTestDispatcher(t)
	ctx := context.Background()
	guardians := []*models.Guardian{
		guardian("First", "+10000000001", 1),
		guardian("Second", "+10000000002", 1),
	}
	payload := &models.AlertPayload{Lat: 1, Lng: 2}

	// Оба приоритета 1 получают голосовой вызов
	gomock.InOrder(
		transportMock.EXPECT().Call(ctx, "+10000000001", gomock.Any()).Return(nil),
		transportMock.EXPECT().Call(ctx, "+10000000002", gomock.Any()).Return(nil),
	)
	gomock.InOrder(
		transportMock.EXPECT().Text(ctx, "+10000000001", gomock.Any()).Return(nil),
		transportMock.EXPECT().Text(ctx, "+10000000002", gomock.Any()).Return(nil),
	)

	// Действие
	report := dispatcher.Dispatch(ctx, guardians, payload, "User U")

	// Проверки
	require.Len(t, report.Results, 2)
	assert.Equal(t, "First", report.Results[0].Name)
	assert.Equal(t, "Second", report.Results[1].Name)
}

func TestDispatch_VoiceOnlyForPrimary(t *testing.T) {
	// Подготовка
	dispatcher, transportMock := newTestDispatcher(t)
	ctx := context.Background()
	guardians := []*models.Guardian{
		guardian("Alice", "+10000000001", 1),
		guardian("Bob", "+10000000002", 2),
		guardian("Carol", "+10000000003", 3),
	}
	payload := &models.AlertPayload{Lat: 12.9, Lng: 77.6, Note: "Help!"}

	// Ожидания: голосовой вызов только для Alice, текст со ссылкой на карту для всех
	transportMock.EXPECT().
		Call(ctx, "+10000000001", "Emergency alert for User U. Link sent to phone.").
		Return(nil).Times(1)
	transportMock.EXPECT().
		Text(ctx, gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _, body string) {
			assert.Contains(t, body, "User U")
			assert.Contains(t, body, "Help!")
			assert.Contains(t, body, "https://www.google.com/maps?q=12.9,77.6")
		}).Return(nil).Times(3)

	// Действие
	report := dispatcher.Dispatch(ctx, guardians, payload, "User U")

	// Проверки: попытка голосового вызова зафиксирована только для Alice
	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].Voice.Attempted)
	assert.Equal(t, dispatch.OutcomeSent, report.Results[0].Voice.Outcome)
	assert.False(t, report.Results[1].Voice.Attempted)
	assert.Equal(t, dispatch.OutcomeSkipped, report.Results[1].Voice.Outcome)
	assert.False(t, report.Results[2].Voice.Attempted)
	for _, res := range report.Results {
		assert.True(t, res.Text.Attempted)
		assert.Equal(t, dispatch.OutcomeSent, res.Text.Outcome)
	}
}

func TestDispatch_DefaultNoteWhenEmpty(t *testing.T) {
	// Подготовка
	dispatcher, transportMock := newTestDispatcher(t)
	ctx := context.Background()
	guardians := []*models.Guardian{guardian("Bob", "+10000000002", 2)}
	payload := &models.AlertPayload{Lat: 1.5, Lng: 2.5}

	// Ожидания: пустая заметка заменяется на "Help!"
	transportMock.EXPECT().
		Text(ctx, "+10000000002", gomock.Any()).
		Do(func(_ context.Context, _, body string) {
			assert.Contains(t, body, "Help!")
		}).Return(nil).Times(1)

	// Действие
	dispatcher.Dispatch(ctx, guardians, payload, "User U")
}

func TestDispatch_FailureDoesNotBlockSiblings(t *testing.T) {
	// Подготовка
	dispatcher, transportMock := newTestDispatcher(t)
	ctx := context.Background()
	guardians := []*models.Guardian{
		guardian("Alice", "+10000000001", 1),
		guardian("Bob", "+10000000002", 2),
	}
	payload := &models.AlertPayload{Lat: 1, Lng: 2}
	transportErr := errors.New("invalid number")

	// Ожидания: ошибки по Alice не мешают отправке Bob
	transportMock.EXPECT().Call(ctx, "+10000000001", gomock.Any()).Return(transportErr).Times(1)
	transportMock.EXPECT().Text(ctx, "+10000000001", gomock.Any()).Return(transportErr).Times(1)
	transportMock.EXPECT().Text(ctx, "+10000000002", gomock.Any()).Return(nil).Times(1)

	// Действие
	report := dispatcher.Dispatch(ctx, guardians, payload, "User U")

	// Проверки
	require.Len(t, report.Results, 2)
	assert.Equal(t, dispatch.OutcomeFailed, report.Results[0].Voice.Outcome)
	assert.Equal(t, dispatch.OutcomeFailed, report.Results[0].Text.Outcome)
	assert.Equal(t, "invalid number", report.Results[0].Text.Error)
	assert.Equal(t, dispatch.OutcomeSent, report.Results[1].Text.Outcome)
	assert.Equal(t, 1, report.Sent())
}

func TestDispatch_NilTransportDegradesToLogging(t *testing.T) {
	// Подготовка: транспорт не сконфигурирован
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	dispatcher := dispatch.NewDispatcher(nil, logger)
	ctx := context.Background()
	guardians := []*models.Guardian{
		guardian("Alice", "+10000000001", 1),
		guardian("Bob", "+10000000002", 2),
	}
	payload := &models.AlertPayload{Lat: 1, Lng: 2, Note: "test"}

	// Действие
	report := dispatcher.Dispatch(ctx, guardians, payload, "User U")

	// Проверки: все попытки помечены skipped, ничего не отправлено
	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.False(t, res.Text.Attempted)
		assert.Equal(t, dispatch.OutcomeSkipped, res.Text.Outcome)
	}
	assert.Equal(t, 0, report.Sent())
}

func TestDispatch_EndToEndReportShape(t *testing.T) {
	// Подготовка: сценарий из триады Alice/Bob/Carol
	dispatcher, transportMock := newTestDispatcher(t)
	ctx := context.Background()
	guardians := []*models.Guardian{
		guardian("Alice", "+10000000001", 1),
		guardian("Bob", "+10000000002", 2),
		guardian("Carol", "+10000000003", 3),
	}
	payload := &models.AlertPayload{Lat: 12.9, Lng: 77.6, Note: "Help!"}

	transportMock.EXPECT().Call(ctx, "+10000000001", gomock.Any()).Return(nil).Times(1)
	transportMock.EXPECT().Text(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(3)

	// Действие
	report := dispatcher.Dispatch(ctx, guardians, payload, "User U")

	// Проверки: один голосовой вызов, три текста
	voiceAttempts := 0
	textAttempts := 0
	for _, res := range report.Results {
		if res.Voice.Attempted {
			voiceAttempts++
		}
		if res.Text.Attempted {
			textAttempts++
		}
	}
	assert.Equal(t, 1, voiceAttempts)
	assert.Equal(t, 3, textAttempts)
	assert.Equal(t, "Alice", report.Results[0].Name)
}

func TestMapLink(t *testing.T) {
	assert.Equal(t, "https://www.google.com/maps?q=12.9,77.6", dispatch.MapLink(12.9, 77.6))
}
