package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/sirupsen/logrus"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioTransport отправляет голосовые вызовы и SMS через Twilio REST API.
// Реализует dispatch.Transport.
type TwilioTransport struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	logger     *logrus.Logger
}

// NewTwilioTransport создает новый TwilioTransport. Возвращает nil, если
// учетные данные не заданы: вызывающий трактует nil как отсутствие транспорта.
func NewTwilioTransport(cfg *config.Config, logger *logrus.Logger) *TwilioTransport {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		return nil
	}
	return &TwilioTransport{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromNumber: cfg.TwilioFromNumber,
		baseURL:    twilioAPIBase,
		httpClient: &http.Client{
			Timeout: cfg.DispatchTimeout,
		},
		maxRetries: cfg.DispatchMaxRetries,
		baseDelay:  cfg.DispatchBaseDelay,
		logger:     logger,
	}
}

// Call инициирует голосовой вызов с синтезированным сообщением
func (t *TwilioTransport) Call(ctx context.Context, toNumber, spokenMessage string) error {
	form := url.Values{}
	form.Set("To", toNumber)
	form.Set("From", t.fromNumber)
	form.Set("Twiml", fmt.Sprintf(`<Response><Say voice="alice">%s</Say></Response>`, spokenMessage))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", t.baseURL, t.accountSID)
	return t.post(ctx, endpoint, form)
}

// Text отправляет текстовое сообщение
func (t *TwilioTransport) Text(ctx context.Context, toNumber, body string) error {
	form := url.Values{}
	form.Set("To", toNumber)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	return t.post(ctx, endpoint, form)
}

// post выполняет form-encoded POST с басик-аутентификацией и повторами
// с экспоненциальной задержкой
func (t *TwilioTransport) post(ctx context.Context, endpoint string, form url.Values) error {
	log := t.logger.WithField("endpoint", endpoint)

	delay := t.baseDelay
	var lastErr error

	for i := 0; i < t.maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("failed to create twilio request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(t.accountSID, t.authToken)

		resp, err := t.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warnf("Twilio request failed. Retrying in %v. Retries left: %d", delay, t.maxRetries-1-i)
			if !sleepCtx(ctx, delay) {
				return ctx.Err()
			}
			delay *= 2 // Экспоненциальная задержка
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = fmt.Errorf("twilio responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))

		// 4xx не ретраим: номер или запрос невалиден
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}

		log.Warnf("Twilio responded with status %d. Retrying in %v. Retries left: %d", resp.StatusCode, delay, t.maxRetries-1-i)
		if !sleepCtx(ctx, delay) {
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("twilio request failed after %d retries: %w", t.maxRetries, lastErr)
}

// sleepCtx ждет delay или отмены контекста; false - контекст отменен
func sleepCtx(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
