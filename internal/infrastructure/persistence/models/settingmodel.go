package models

import "time"

// SettingModel stores one settings record per key as a JSON document. The
// auth settings live under the "auth" key.
type SettingModel struct {
	ID         uint   `gorm:"primarykey"`
	SettingKey string `gorm:"column:setting_key;uniqueIndex;not null;size:100"`
	Value      string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SettingModel) TableName() string {
	return "settings"
}
