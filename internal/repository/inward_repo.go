package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

// InwardRepository reads goods-received records owned by the procurement flow.
// This module never writes them.
type InwardRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inward, error)
}

type inwardRepo struct{ db *gorm.DB }

func NewInwardRepository(db *gorm.DB) InwardRepository { return &inwardRepo{db: db} }

func (r *inwardRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Inward{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *inwardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inward, error) {
	var inward model.Inward
	err := r.db.WithContext(ctx).First(&inward, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &inward, err
}
