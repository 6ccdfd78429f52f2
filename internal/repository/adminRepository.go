package repository

import (
	"context"

	"github.com/classboard/gateway/internal/models"
	"github.com/classboard/gateway/internal/storage"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *storage.Postgres
}

func NewAdminRepository(db *storage.Postgres) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.DB.WithContext(ctx).Create(admin).Error
}

// Retrieves admin by username
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.DB.WithContext(ctx).
		Where("username = ?", username).
		First(&admin).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &admin, err
}

// Retrieves admin by id
func (r *AdminRepository) FindByID(ctx context.Context, aid int64) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.DB.WithContext(ctx).
		Where("aid = ?", aid).
		First(&admin).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &admin, err
}
