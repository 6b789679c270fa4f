package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// shifts — бухгалтерия одной машины за один календарный день.
// Тройка (tg_id, car_id, date) уникальна: повторный upsert по той же тройке
// перезаписывает существующую строку, а не плодит дубликаты.
type Shift struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	TgID  int64  `gorm:"column:tg_id;not null;index;uniqueIndex:uniq_shift_owner_car_date,priority:1" json:"tgId"`
	CarID string `gorm:"type:varchar(64);not null;uniqueIndex:uniq_shift_owner_car_date,priority:2" json:"carId"`

	// Денормализованный кэш метаданных машины; может отставать от источника.
	// Пустые значения не затирают сохранённые.
	CarName  string `gorm:"type:varchar(255)" json:"carName,omitempty"`
	CarClass string `gorm:"type:varchar(64)" json:"carClass,omitempty"`

	// Дата смены в ISO-формате YYYY-MM-DD; сравнивается лексикографически.
	Date string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_shift_owner_car_date,priority:3" json:"date"`

	// Открытая карта бизнес-полей (income, fuel, settings и т.д.).
	// Схемой не ограничиваем: лишние ключи сохраняются как есть.
	Payload datatypes.JSONMap `json:"payload"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate выдаёт id на стороне приложения — работает одинаково
// и на postgres, и на sqlite.
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
