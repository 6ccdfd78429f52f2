package repository

import (
	"context"

	"github.com/classboard/gateway/internal/models"
	"github.com/classboard/gateway/internal/storage"
	"gorm.io/gorm"
)

type StudentRepository struct {
	db *storage.Postgres
}

func NewStudentRepository(db *storage.Postgres) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.DB.WithContext(ctx).
		Order("sid ASC").
		Find(&students).Error

	return students, err
}

func (r *StudentRepository) ListByClasses(ctx context.Context, cids []int64) ([]models.Student, error) {
	students := []models.Student{}
	if len(cids) == 0 {
		return students, nil
	}

	err := r.db.DB.WithContext(ctx).
		Where("cid IN ?", cids).
		Order("sid ASC").
		Find(&students).Error

	return students, err
}

func (r *StudentRepository) FindByID(ctx context.Context, sid int64) (*models.Student, error) {
	var student models.Student
	err := r.db.DB.WithContext(ctx).
		Where("sid = ?", sid).
		First(&student).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &student, err
}
