package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftbook/backend/internal/model"
)

// ShiftFilter — параметры выборки смен. Даты — ISO-строки YYYY-MM-DD,
// границы включительные, сравнение лексикографическое.
type ShiftFilter struct {
	From         string
	To           string
	CarID        string
	UpdatedSince *time.Time // строго больше updated_at
}

type ShiftRepository interface {
	// Атомарный insert-or-update по тройке (tg_id, car_id, date).
	// Payload заменяется целиком; car_name/car_class пишутся только непустыми.
	Upsert(ctx context.Context, s *model.Shift) (*model.Shift, error)
	// Смены владельца по фильтру, отсортированные по дате.
	Find(ctx context.Context, tgID int64, f ShiftFilter) ([]model.Shift, error)
	// Найти смену по id в рамках владельца.
	GetByID(ctx context.Context, tgID int64, id string) (*model.Shift, error)
	// Обновить поля смены по id в рамках владельца.
	UpdateByID(ctx context.Context, tgID int64, id string, updates map[string]any) (*model.Shift, error)
	// Удалить смену по id в рамках владельца.
	DeleteByID(ctx context.Context, tgID int64, id string) error
}

// Реализация на GORM.
type GormShiftRepository struct {
	db *gorm.DB
}

func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// Upsert опирается на ON CONFLICT DO UPDATE по уникальному индексу тройки:
// два конкурентных вызова безопасно сходятся в одну строку.
func (r *GormShiftRepository) Upsert(ctx context.Context, s *model.Shift) (*model.Shift, error) {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	assignments := map[string]any{
		"payload":    s.Payload,
		"updated_at": now,
	}
	if s.CarName != "" {
		assignments["car_name"] = s.CarName
	}
	if s.CarClass != "" {
		assignments["car_class"] = s.CarClass
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tg_id"}, {Name: "car_id"}, {Name: "date"},
		},
		DoUpdates: clause.Assignments(assignments),
	}).Create(s).Error
	if err != nil {
		return nil, err
	}

	// При конфликте Create не возвращает итоговую строку (и её id) —
	// перечитываем по тройке.
	var out model.Shift
	if err := r.db.WithContext(ctx).
		First(&out, "tg_id = ? AND car_id = ? AND date = ?", s.TgID, s.CarID, s.Date).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GormShiftRepository) Find(ctx context.Context, tgID int64, f ShiftFilter) ([]model.Shift, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("tg_id = ?", tgID)

	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.CarID != "" {
		q = q.Where("car_id = ?", f.CarID)
	}
	if f.UpdatedSince != nil {
		q = q.Where("updated_at > ?", *f.UpdatedSince)
	}

	var shifts []model.Shift
	if err := q.Order("date ASC").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *GormShiftRepository) GetByID(ctx context.Context, tgID int64, id string) (*model.Shift, error) {
	var s model.Shift
	// Чужая строка и несуществующая неразличимы: фильтр по владельцу
	// стоит прямо в запросе.
	if err := r.db.WithContext(ctx).First(&s, "tg_id = ? AND id = ?", tgID, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormShiftRepository) UpdateByID(ctx context.Context, tgID int64, id string, updates map[string]any) (*model.Shift, error) {
	updates["updated_at"] = time.Now().UTC()

	tx := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("tg_id = ? AND id = ?", tgID, id).
		Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, tgID, id)
}

func (r *GormShiftRepository) DeleteByID(ctx context.Context, tgID int64, id string) error {
	tx := r.db.WithContext(ctx).
		Where("tg_id = ? AND id = ?", tgID, id).
		Delete(&model.Shift{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
