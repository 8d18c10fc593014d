package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

type RestockRepository interface {
	CreateTx(tx *gorm.DB, entry *model.RestockEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RestockEntry, error)
	UpdateTx(tx *gorm.DB, entry *model.RestockEntry) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter dto.RestockFilter) ([]model.RestockEntry, int64, error)
}

type restockRepo struct{ db *gorm.DB }

func NewRestockRepository(db *gorm.DB) RestockRepository { return &restockRepo{db: db} }

func (r *restockRepo) CreateTx(tx *gorm.DB, entry *model.RestockEntry) error {
	return tx.Create(entry).Error
}

func (r *restockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RestockEntry, error) {
	var entry model.RestockEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *restockRepo) UpdateTx(tx *gorm.DB, entry *model.RestockEntry) error {
	return tx.Save(entry).Error
}

func (r *restockRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.RestockEntry{}, "id = ?", id).Error
}

func (r *restockRepo) List(ctx context.Context, filter dto.RestockFilter) ([]model.RestockEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.RestockEntry{}).Preload("Item")
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.InwardID != "" {
		q = q.Where("inward_id = ?", filter.InwardID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var entries []model.RestockEntry
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}
