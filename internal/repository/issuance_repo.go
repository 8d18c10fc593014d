package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

type IssuanceLogRepository interface {
	CreateTx(tx *gorm.DB, entry *model.IssuanceLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.IssuanceLog, error)
	UpdateTx(tx *gorm.DB, entry *model.IssuanceLog) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter dto.IssuanceFilter) ([]model.IssuanceLog, int64, error)
}

type issuanceLogRepo struct{ db *gorm.DB }

func NewIssuanceLogRepository(db *gorm.DB) IssuanceLogRepository {
	return &issuanceLogRepo{db: db}
}

func (r *issuanceLogRepo) CreateTx(tx *gorm.DB, entry *model.IssuanceLog) error {
	return tx.Create(entry).Error
}

func (r *issuanceLogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.IssuanceLog, error) {
	var entry model.IssuanceLog
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *issuanceLogRepo) UpdateTx(tx *gorm.DB, entry *model.IssuanceLog) error {
	return tx.Save(entry).Error
}

func (r *issuanceLogRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.IssuanceLog{}, "id = ?", id).Error
}

func (r *issuanceLogRepo) List(ctx context.Context, filter dto.IssuanceFilter) ([]model.IssuanceLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.IssuanceLog{}).Preload("Item")
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.UserEmail != "" {
		q = q.Where("user_email = ?", filter.UserEmail)
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

	var entries []model.IssuanceLog
	err := q.Order("date_issued DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}
