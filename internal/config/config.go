package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config (лимитер и очередь рассылки; пустой адрес - in-memory режим)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Twilio Config (пустой SID - транспорт не сконфигурирован,
	// рассылка деградирует до логирования)
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_PHONE_NUMBER"`

	// SOS Rate Limit Config
	SOSRateLimit  int           `env:"SOS_RATE_LIMIT" envDefault:"3"`
	SOSRateWindow time.Duration `env:"SOS_RATE_WINDOW" envDefault:"60s"`

	// Dispatch Config
	DispatchTimeout    time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`
	DispatchMaxRetries int           `env:"DISPATCH_MAX_RETRIES" envDefault:"3"`
	DispatchBaseDelay  time.Duration `env:"DISPATCH_BASE_DELAY" envDefault:"1s"`

	// Relay Config
	RelayBufferSize int `env:"RELAY_BUFFER_SIZE" envDefault:"16"`
	WSReadLimit     int `env:"WS_READ_LIMIT" envDefault:"4096"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_PHONE_NUMBER"),
		SOSRateLimit:       getEnvAsInt("SOS_RATE_LIMIT", 3),
		SOSRateWindow:      getEnvAsDuration("SOS_RATE_WINDOW", 60*time.Second),
		DispatchTimeout:    getEnvAsDuration("DISPATCH_TIMEOUT", 10*time.Second),
		DispatchMaxRetries: getEnvAsInt("DISPATCH_MAX_RETRIES", 3),
		DispatchBaseDelay:  getEnvAsDuration("DISPATCH_BASE_DELAY", time.Second),
		RelayBufferSize:    getEnvAsInt("RELAY_BUFFER_SIZE", 16),
		WSReadLimit:        getEnvAsInt("WS_READ_LIMIT", 4096),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
