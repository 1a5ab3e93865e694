package settings

import (
	"context"
	"veronikaextra-backend/entities"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	SettingsRepository interface {
		GetSetting(ctx context.Context, key string) (*entities.Setting, error)
		UpsertSetting(ctx context.Context, key string, value datatypes.JSON) error
		// SeedSetting only writes when the key is absent.
		SeedSetting(ctx context.Context, key string, value datatypes.JSON) error
	}

	settingsRepository struct {
		db *gorm.DB
	}
)

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

func (r *settingsRepository) GetSetting(ctx context.Context, key string) (*entities.Setting, error) {
	var setting entities.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) UpsertSetting(ctx context.Context, key string, value datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entities.Setting{Key: key, Value: value}).Error
}

func (r *settingsRepository) SeedSetting(ctx context.Context, key string, value datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.Setting{Key: key, Value: value}).Error
}
