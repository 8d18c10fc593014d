package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

// AlertFilter defines filters for listing active stock alerts.
type AlertFilter struct {
	ItemID *uuid.UUID
	Type   model.AlertType
	Page   int
	Limit  int
}

type AlertRepository interface {
	// Insert attempts to create the alert. A (item_id, type) conflict is not
	// an error: the alert was already active. Returns true only when a new
	// row was actually written.
	Insert(ctx context.Context, alert *model.StockAlert) (bool, error)
	DeleteByItemAndType(ctx context.Context, itemID uuid.UUID, typ model.AlertType) error
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]model.StockAlert, error)
	List(ctx context.Context, filter AlertFilter) ([]model.StockAlert, int64, error)
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) Insert(ctx context.Context, alert *model.StockAlert) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(alert)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *alertRepo) DeleteByItemAndType(ctx context.Context, itemID uuid.UUID, typ model.AlertType) error {
	// Absence is not an error; a zero-row delete is a no-op.
	return r.db.WithContext(ctx).
		Where("item_id = ? AND type = ?", itemID, typ).
		Delete(&model.StockAlert{}).Error
}

func (r *alertRepo) FindByItem(ctx context.Context, itemID uuid.UUID) ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) List(ctx context.Context, filter AlertFilter) ([]model.StockAlert, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockAlert{}).Preload("Item")
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
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

	var alerts []model.StockAlert
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&alerts).Error
	return alerts, total, err
}
