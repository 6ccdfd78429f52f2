package repository

import (
	"context"

	"github.com/classboard/gateway/internal/models"
	"github.com/classboard/gateway/internal/storage"
	"gorm.io/gorm"
)

type ConfigRepository struct {
	db *storage.Postgres
}

func NewConfigRepository(db *storage.Postgres) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Returns every enabled rate-limit row in one query
func (r *ConfigRepository) ListEnabled(ctx context.Context) ([]models.RateLimitConfig, error) {
	var configs []models.RateLimitConfig
	err := r.db.DB.WithContext(ctx).
		Where("enabled = ?", true).
		Find(&configs).Error

	return configs, err
}

func (r *ConfigRepository) List(ctx context.Context) ([]models.RateLimitConfig, error) {
	var configs []models.RateLimitConfig
	err := r.db.DB.WithContext(ctx).
		Order("key ASC").
		Find(&configs).Error

	return configs, err
}

func (r *ConfigRepository) FindByKey(ctx context.Context, key string) (*models.RateLimitConfig, error) {
	var config models.RateLimitConfig
	err := r.db.DB.WithContext(ctx).
		Where("key = ?", key).
		First(&config).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &config, err
}

func (r *ConfigRepository) Create(ctx context.Context, config *models.RateLimitConfig) error {
	return r.db.DB.WithContext(ctx).Create(config).Error
}

func (r *ConfigRepository) Update(ctx context.Context, key string, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.RateLimitConfig{}).
		Where("key = ?", key).
		Updates(updates).Error
}

func (r *ConfigRepository) Delete(ctx context.Context, key string) error {
	return r.db.DB.WithContext(ctx).
		Where("key = ?", key).
		Delete(&models.RateLimitConfig{}).Error
}
