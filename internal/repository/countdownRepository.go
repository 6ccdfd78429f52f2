package repository

import (
	"context"

	"github.com/classboard/gateway/internal/models"
	"github.com/classboard/gateway/internal/storage"
	"gorm.io/gorm"
)

type CountdownRepository struct {
	db *storage.Postgres
}

func NewCountdownRepository(db *storage.Postgres) *CountdownRepository {
	return &CountdownRepository{db: db}
}

func (r *CountdownRepository) List(ctx context.Context) ([]models.Countdown, error) {
	var countdowns []models.Countdown
	err := r.db.DB.WithContext(ctx).
		Order("target_date ASC").
		Find(&countdowns).Error

	return countdowns, err
}

func (r *CountdownRepository) ListByClasses(ctx context.Context, cids []int64) ([]models.Countdown, error) {
	countdowns := []models.Countdown{}
	if len(cids) == 0 {
		return countdowns, nil
	}

	err := r.db.DB.WithContext(ctx).
		Where("cid IN ?", cids).
		Order("target_date ASC").
		Find(&countdowns).Error

	return countdowns, err
}

func (r *CountdownRepository) FindByID(ctx context.Context, id int64) (*models.Countdown, error) {
	var countdown models.Countdown
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&countdown).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &countdown, err
}
