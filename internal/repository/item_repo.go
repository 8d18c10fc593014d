package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

// ItemRepository defines the data access contract for inventory items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByCode(ctx context.Context, code string) (*model.Item, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error)

	// ApplyDeltaTx adds currentDelta to current_quantity and totalDelta to
	// total_quantity in ONE guarded UPDATE. The status column is recomputed in
	// the same statement, so the persisted status can never drift from the
	// persisted quantity. The guard refuses any result below zero; the caller
	// inspects the affected-row count to tell a refused delta from a missing
	// item.
	ApplyDeltaTx(tx *gorm.DB, id uuid.UUID, currentDelta, totalDelta int) (int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error)

	// UpdateStatus rewrites the persisted status only. Used by the alert sweep
	// when it finds a drifted row.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.StockStatus) error

	// ListPage walks the whole item table in id order; used by the sweep.
	ListPage(ctx context.Context, afterID uuid.UUID, limit int) ([]model.Item, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Where("item_code = ?", code).First(&item).Error
	return &item, err
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Item{})
	if filter.Class != "" {
		q = q.Where("class = ?", filter.Class)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}

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
	err := q.Order("item_code ASC").Limit(limit).Offset((page - 1) * limit).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) ApplyDeltaTx(tx *gorm.DB, id uuid.UUID, currentDelta, totalDelta int) (int64, error) {
	// Every right-hand reference to current_quantity reads the pre-update
	// value, so the guard, the new quantity, and the CASE all agree.
	res := tx.Model(&model.Item{}).
		Where("id = ? AND current_quantity + ? >= 0 AND total_quantity + ? >= 0", id, currentDelta, totalDelta).
		Updates(map[string]interface{}{
			"current_quantity": gorm.Expr("current_quantity + ?", currentDelta),
			"total_quantity":   gorm.Expr("total_quantity + ?", totalDelta),
			"status": gorm.Expr(
				"CASE WHEN current_quantity + ? = 0 THEN ? WHEN current_quantity + ? <= min_stock_level THEN ? ELSE ? END",
				currentDelta, model.StatusOutOfStock, currentDelta, model.StatusLowStock, model.StatusInStock,
			),
		})
	return res.RowsAffected, res.Error
}

func (r *itemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := tx.First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.StockStatus) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *itemRepo) ListPage(ctx context.Context, afterID uuid.UUID, limit int) ([]model.Item, error) {
	var items []model.Item
	q := r.db.WithContext(ctx).Order("id ASC").Limit(limit)
	if afterID != uuid.Nil {
		q = q.Where("id > ?", afterID)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
