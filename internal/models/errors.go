package models

import "errors"

// Доменные ошибки ядра. Хендлеры сопоставляют их с HTTP-статусами через errors.Is.
var (
	// ErrUnauthorized - отсутствует или недействителен bearer-токен
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoGuardians - попытка сработать SOS с пустым списком опекунов
	ErrNoGuardians = errors.New("no guardians configured")

	// ErrCapacityExceeded - попытка добавить шестого опекуна
	ErrCapacityExceeded = errors.New("guardian capacity exceeded")

	// ErrRateLimited - превышен лимит срабатываний SOS в окне
	ErrRateLimited = errors.New("rate limited")

	// ErrTransportUnavailable - транспорт уведомлений не сконфигурирован.
	// Диспетчер деградирует до логирования, ошибка не доходит до пользователя.
	ErrTransportUnavailable = errors.New("notification transport unavailable")
)
