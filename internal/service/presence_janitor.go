package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shiftbook/backend/internal/repository"
)

// PresenceJanitor периодически выметает отметки присутствия, которые
// не обновлялись дольше ttl. Журнал смен не трогает.
type PresenceJanitor struct {
	cron     *cron.Cron
	presence repository.PresenceRepository
	ttl      time.Duration
	log      *zap.Logger
}

func NewPresenceJanitor(presence repository.PresenceRepository, ttl time.Duration, log *zap.Logger) *PresenceJanitor {
	return &PresenceJanitor{
		cron:     cron.New(),
		presence: presence,
		ttl:      ttl,
		log:      log,
	}
}

// Start регистрирует ежечасную уборку. При ttl <= 0 уборка выключена.
func (j *PresenceJanitor) Start() error {
	if j.ttl <= 0 {
		j.log.Info("presence janitor disabled")
		return nil
	}
	if _, err := j.cron.AddFunc("@every 1h", j.sweep); err != nil {
		return fmt.Errorf("schedule presence janitor: %w", err)
	}
	j.cron.Start()
	j.log.Info("presence janitor started", zap.Duration("ttl", j.ttl))
	return nil
}

// Stop останавливает планировщик и дожидается текущей уборки.
func (j *PresenceJanitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *PresenceJanitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.ttl)
	pruned, err := j.presence.PruneBefore(ctx, cutoff)
	if err != nil {
		j.log.Error("presence prune failed", zap.Error(err))
		return
	}
	if pruned > 0 {
		j.log.Info("presence pruned", zap.Int64("rows", pruned))
	}
}
