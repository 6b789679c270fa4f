package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shiftbook/backend/internal/config"
	"github.com/shiftbook/backend/internal/db"
	"github.com/shiftbook/backend/internal/httpapi"
	"github.com/shiftbook/backend/internal/model"
	"github.com/shiftbook/backend/internal/repository"
	"github.com/shiftbook/backend/internal/service"
)

func main() {
	// 1. Конфиг из env.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Логгер.
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.BotToken == "" {
		logger.Warn("BOT_TOKEN is empty: init data verification will reject every request")
	}

	// 3. Подключаемся к БД через GORM и мигрируем модели.
	gormDB, err := db.NewGormDB(cfg.DB)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Репозитории. Присутствие — в Redis, если он сконфигурирован.
	userRepo := repository.NewGormUserRepository(gormDB)
	shiftRepo := repository.NewGormShiftRepository(gormDB)

	var presenceRepo repository.PresenceRepository = repository.NewGormPresenceRepository(gormDB)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("redis ping", zap.Error(err))
		}
		defer rdb.Close()
		presenceRepo = repository.NewRedisPresenceRepository(rdb)
		logger.Info("presence store: redis", zap.String("addr", cfg.RedisAddr))
	}

	// 5. Сервисы.
	authSvc := service.NewAuthService(cfg.BotToken, userRepo, presenceRepo, logger)
	shiftSvc := service.NewShiftService(shiftRepo, logger)
	summarySvc := service.NewSummaryService(shiftRepo)

	// 6. Уборка протухших отметок присутствия.
	janitor := service.NewPresenceJanitor(presenceRepo, cfg.PresenceTTL, logger)
	if err := janitor.Start(); err != nil {
		logger.Fatal("start janitor", zap.Error(err))
	}

	// 7. HTTP-сервер.
	api := httpapi.NewServer(authSvc, shiftSvc, summarySvc, cfg.CORSOrigin, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down...")
	janitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}
