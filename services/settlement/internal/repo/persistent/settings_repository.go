package persistent

import (
	"encoding/json"
	"errors"
	"fmt"

	"lotto-settlement/services/settlement/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSettingNotFound is returned when no record exists for a settings key.
var ErrSettingNotFound = errors.New("setting not found")

type SettingsRepository interface {
	// Get decodes the JSON stored under key into out.
	Get(key string, out interface{}) error
	Put(key string, value interface{}, updatedBy string) error
}

type settingsRepository struct {
	conn
}

func (r *settingsRepository) Get(key string, out interface{}) error {
	var settingModel model.SettingModel
	if err := r.db.Where("name = ?", key).First(&settingModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}
	if err := json.Unmarshal([]byte(settingModel.Value), out); err != nil {
		return fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return nil
}

func (r *settingsRepository) Put(key string, value interface{}, updatedBy string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}
	settingModel := &model.SettingModel{
		Name:      key,
		Value:     string(raw),
		UpdatedBy: updatedBy,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(settingModel).Error
}
