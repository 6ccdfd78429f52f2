package repository

import (
	"context"

	"github.com/classboard/gateway/internal/models"
	"github.com/classboard/gateway/internal/storage"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *storage.Postgres
}

func NewAssignmentRepository(db *storage.Postgres) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Reports whether an admin is assigned to a class
func (r *AssignmentRepository) Exists(ctx context.Context, aid, cid int64) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.AdminClass{}).
		Where("aid = ? AND cid = ?", aid, cid).
		Count(&count).Error

	return count > 0, err
}

func (r *AssignmentRepository) ListClassIDs(ctx context.Context, aid int64) ([]int64, error) {
	var ids []int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.AdminClass{}).
		Where("aid = ?", aid).
		Pluck("cid", &ids).Error

	return ids, err
}

// Resolves the class owning a student; (0, nil) when the student does not exist
func (r *AssignmentRepository) StudentClass(ctx context.Context, sid int64) (int64, error) {
	var student models.Student
	err := r.db.DB.WithContext(ctx).
		Select("cid").
		Where("sid = ?", sid).
		First(&student).Error

	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return student.CID, nil
}

// Resolves the class owning a countdown; (0, nil) when the countdown does not exist
func (r *AssignmentRepository) CountdownClass(ctx context.Context, id int64) (int64, error) {
	var countdown models.Countdown
	err := r.db.DB.WithContext(ctx).
		Select("cid").
		Where("id = ?", id).
		First(&countdown).Error

	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return countdown.CID, nil
}
