package model

import "time"

// SettingModel is a single JSON configuration record keyed by name.
type SettingModel struct {
	Name      string    `gorm:"type:varchar(64);primary_key" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedBy string    `gorm:"type:varchar(64)" json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SettingModel) TableName() string {
	return "settings"
}
