package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftbook/backend/internal/model"
)

// PresenceRepository хранит отметку «последний раз видели».
// Семантика fire-and-forget: вызовы не упорядочены между собой,
// важна только последняя записанная отметка.
type PresenceRepository interface {
	// Обновить (или создать) отметку для идентичности.
	Touch(ctx context.Context, tgID int64, at time.Time) error
	// Удалить отметки старше порога; возвращает число удалённых.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Реализация на GORM.
type GormPresenceRepository struct {
	db *gorm.DB
}

func NewGormPresenceRepository(db *gorm.DB) *GormPresenceRepository {
	return &GormPresenceRepository{db: db}
}

func (r *GormPresenceRepository) Touch(ctx context.Context, tgID int64, at time.Time) error {
	p := model.Presence{TgID: tgID, LastSeen: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tg_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen"}),
	}).Create(&p).Error
}

func (r *GormPresenceRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("last_seen < ?", cutoff).Delete(&model.Presence{})
	return tx.RowsAffected, tx.Error
}
