// Package models holds the GORM persistence models. Domain entities never
// cross the persistence boundary directly; the mappers convert both ways.
package models

import "time"

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID                    uint   `gorm:"primarykey"`
	URN                   string `gorm:"column:urn;uniqueIndex;not null;size:100"`
	Username              string `gorm:"uniqueIndex;not null;size:50"`
	PasswordHash          string `gorm:"size:100;default:''"`
	Role                  string `gorm:"not null;size:20"`
	PasswordLoginDisabled bool   `gorm:"default:false"`
	ExternalSubject       string `gorm:"index;size:255;default:''"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (UserModel) TableName() string {
	return "users"
}
