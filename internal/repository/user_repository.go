package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftbook/backend/internal/model"
)

type UserRepository interface {
	// Найти профиль по Telegram ID.
	FindByTgID(ctx context.Context, tgID int64) (*model.User, error)
	// Создать или обновить профиль по данным успешной аутентификации.
	UpsertFromAuth(ctx context.Context, u *model.User) error
}

// Реализация на GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByTgID(ctx context.Context, tgID int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "tg_id = ?", tgID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertFromAuth перезаписывает профиль целиком: initData — источник истины,
// каждая успешная аутентификация освежает все поля.
func (r *GormUserRepository) UpsertFromAuth(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tg_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "first_name", "last_name", "language_code", "photo_url", "updated_at",
		}),
	}).Create(u).Error
}
