package config

import (
	"os"
	"strconv"
	"time"
)

// Config — рантайм-настройки сервиса.
type Config struct {
	HTTPAddr   string
	BotToken   string
	CORSOrigin string

	// Адрес Redis для хранения присутствия; пусто — храним в БД.
	RedisAddr string

	// Сколько держать отметку присутствия без активности; 0 — не чистить.
	PresenceTTL time.Duration

	DB *DBConfig
}

// Load читает конфигурацию из окружения с разумными дефолтами.
// Пустой BOT_TOKEN не валит старт: проверка initData тогда будет
// отвечать no_bot_token на каждый запрос.
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		BotToken:    os.Getenv("BOT_TOKEN"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		PresenceTTL: time.Duration(getEnvInt("PRESENCE_TTL_DAYS", 0)) * 24 * time.Hour,
		DB:          dbCfg,
	}, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
