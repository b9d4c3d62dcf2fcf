package models

import "time"

// SeriesModel is the GORM model for the series table. CreatedBy may hold a
// full user URN or a bare id written by early records.
type SeriesModel struct {
	ID        uint   `gorm:"primarykey"`
	URN       string `gorm:"column:urn;uniqueIndex;not null;size:100"`
	Title     string `gorm:"size:255;default:''"`
	CreatedBy string `gorm:"index;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SeriesModel) TableName() string {
	return "series"
}

// UnitModel is the GORM model for the units table.
type UnitModel struct {
	ID        uint   `gorm:"primarykey"`
	URN       string `gorm:"column:urn;uniqueIndex;not null;size:100"`
	SeriesURN string `gorm:"column:series_urn;not null;index;size:100"`
	Title     string `gorm:"size:255;default:''"`
	CreatedBy string `gorm:"index;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UnitModel) TableName() string {
	return "units"
}

// EditGrantModel is the GORM model for edit grants. One row per
// resource/grantee pair.
type EditGrantModel struct {
	ID          uint   `gorm:"primarykey"`
	ResourceURN string `gorm:"column:resource_urn;not null;uniqueIndex:idx_edit_grants_resource_grantee;size:100"`
	GranteeURN  string `gorm:"column:grantee_urn;not null;uniqueIndex:idx_edit_grants_resource_grantee;index;size:100"`
	GrantedBy   string `gorm:"size:100"`
	CreatedAt   time.Time
}

func (EditGrantModel) TableName() string {
	return "edit_grants"
}
