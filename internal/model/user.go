package model

import "time"

// users — зеркало Telegram-профиля. Первичный ключ — сам Telegram ID,
// суррогатного id не заводим: одна строка на одну учётку.
type User struct {
	TgID int64 `gorm:"column:tg_id;primaryKey;autoIncrement:false" json:"tgId"`

	Username     string `gorm:"type:varchar(255)" json:"username,omitempty"`
	FirstName    string `gorm:"type:varchar(255)" json:"firstName,omitempty"`
	LastName     string `gorm:"type:varchar(255)" json:"lastName,omitempty"`
	LanguageCode string `gorm:"type:varchar(16)" json:"languageCode,omitempty"`
	PhotoURL     string `gorm:"type:text" json:"photoUrl,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// presences — отметка «когда водителя видели в последний раз».
// Истории нет: одна строка на идентичность, только перезапись.
type Presence struct {
	TgID     int64     `gorm:"column:tg_id;primaryKey;autoIncrement:false"`
	LastSeen time.Time `gorm:"not null;index"`
}
