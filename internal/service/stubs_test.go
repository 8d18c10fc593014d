package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
	"github.com/Asma2528/LabStockEase-sub001/internal/worker"
)

// ── In-memory ItemRepository stub ────────────────────────────────────────────
// ApplyDeltaTx mirrors the SQL contract: one atomic guarded mutation under a
// mutex, status recomputed in the same critical section.

type stubItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*model.Item)}
}

func (r *stubItemRepo) Create(_ context.Context, item *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findCopy(id)
}

func (r *stubItemRepo) FindByCode(_ context.Context, code string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ItemCode == code {
			cp := *item
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) List(_ context.Context, _ dto.ItemFilter) ([]model.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Item
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (r *stubItemRepo) ApplyDeltaTx(_ *gorm.DB, id uuid.UUID, currentDelta, totalDelta int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return 0, nil
	}
	if item.CurrentQuantity+currentDelta < 0 || item.TotalQuantity+totalDelta < 0 {
		return 0, nil
	}
	item.CurrentQuantity += currentDelta
	item.TotalQuantity += totalDelta
	item.Status = model.ComputeStatus(item.CurrentQuantity, item.MinStockLevel)
	return 1, nil
}

func (r *stubItemRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findCopy(id)
}

func (r *stubItemRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.StockStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	return nil
}

func (r *stubItemRepo) ListPage(_ context.Context, _ uuid.UUID, _ int) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Item
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

func (r *stubItemRepo) findCopy(id uuid.UUID) (*model.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

// current returns the live stored quantity for assertions.
func (r *stubItemRepo) current(id uuid.UUID) (current, total int, status model.StockStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[id]
	return item.CurrentQuantity, item.TotalQuantity, item.Status
}

// ── In-memory IssuanceLogRepository stub ─────────────────────────────────────

type stubLogRepo struct {
	mu   sync.Mutex
	logs map[uuid.UUID]*model.IssuanceLog
}

func newStubLogRepo() *stubLogRepo {
	return &stubLogRepo{logs: make(map[uuid.UUID]*model.IssuanceLog)}
}

func (r *stubLogRepo) CreateTx(_ *gorm.DB, entry *model.IssuanceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	cp := *entry
	r.logs[entry.ID] = &cp
	return nil
}

func (r *stubLogRepo) FindByID(_ context.Context, id uuid.UUID) (*model.IssuanceLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *stubLogRepo) UpdateTx(_ *gorm.DB, entry *model.IssuanceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.logs[entry.ID] = &cp
	return nil
}

func (r *stubLogRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logs, id)
	return nil
}

func (r *stubLogRepo) List(_ context.Context, _ dto.IssuanceFilter) ([]model.IssuanceLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.IssuanceLog
	for _, entry := range r.logs {
		out = append(out, *entry)
	}
	return out, int64(len(out)), nil
}

// ── In-memory RestockRepository stub ─────────────────────────────────────────

type stubRestockRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*model.RestockEntry
}

func newStubRestockRepo() *stubRestockRepo {
	return &stubRestockRepo{entries: make(map[uuid.UUID]*model.RestockEntry)}
}

func (r *stubRestockRepo) CreateTx(_ *gorm.DB, entry *model.RestockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *stubRestockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RestockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *stubRestockRepo) UpdateTx(_ *gorm.DB, entry *model.RestockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *stubRestockRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *stubRestockRepo) List(_ context.Context, _ dto.RestockFilter) ([]model.RestockEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.RestockEntry
	for _, entry := range r.entries {
		out = append(out, *entry)
	}
	return out, int64(len(out)), nil
}

// ── In-memory AlertRepository stub ───────────────────────────────────────────
// Keyed by (item, type), enforcing the same uniqueness the DB index does.

type alertKey struct {
	item uuid.UUID
	typ  model.AlertType
}

type stubAlertRepo struct {
	mu     sync.Mutex
	alerts map[alertKey]*model.StockAlert
}

func newStubAlertRepo() *stubAlertRepo {
	return &stubAlertRepo{alerts: make(map[alertKey]*model.StockAlert)}
}

func (r *stubAlertRepo) Insert(_ context.Context, alert *model.StockAlert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := alertKey{item: alert.ItemID, typ: alert.Type}
	if _, exists := r.alerts[key]; exists {
		return false, nil
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	cp := *alert
	r.alerts[key] = &cp
	return true, nil
}

func (r *stubAlertRepo) DeleteByItemAndType(_ context.Context, itemID uuid.UUID, typ model.AlertType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.alerts, alertKey{item: itemID, typ: typ})
	return nil
}

func (r *stubAlertRepo) FindByItem(_ context.Context, itemID uuid.UUID) ([]model.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockAlert
	for key, alert := range r.alerts {
		if key.item == itemID {
			out = append(out, *alert)
		}
	}
	return out, nil
}

func (r *stubAlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]model.StockAlert, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockAlert
	for key, alert := range r.alerts {
		if filter.ItemID != nil && key.item != *filter.ItemID {
			continue
		}
		if filter.Type != "" && key.typ != filter.Type {
			continue
		}
		out = append(out, *alert)
	}
	return out, int64(len(out)), nil
}

// has reports whether the (item, type) alert is active.
func (r *stubAlertRepo) has(itemID uuid.UUID, typ model.AlertType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.alerts[alertKey{item: itemID, typ: typ}]
	return ok
}

func (r *stubAlertRepo) count(itemID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key := range r.alerts {
		if key.item == itemID {
			n++
		}
	}
	return n
}

// ── Inward / user directory / dispatcher stubs ───────────────────────────────

type stubInwardRepo struct {
	known map[uuid.UUID]bool
}

func newStubInwardRepo(ids ...uuid.UUID) *stubInwardRepo {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &stubInwardRepo{known: known}
}

func (r *stubInwardRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.known[id], nil
}

func (r *stubInwardRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Inward, error) {
	if !r.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Inward{ID: id}, nil
}

type stubUserRepo struct {
	emails []string
	err    error
}

func (r *stubUserRepo) FindEmailsByRoles(_ context.Context, _ []string) ([]string, error) {
	return r.emails, r.err
}

// fakeDispatcher records enqueued alert emails; fail makes every enqueue
// error to exercise the best-effort path.
type fakeDispatcher struct {
	mu   sync.Mutex
	sent []worker.AlertEmailPayload
	fail error
}

func (d *fakeDispatcher) EnqueueAlertEmail(_ context.Context, payload worker.AlertEmailPayload) error {
	if d.fail != nil {
		return d.fail
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, payload)
	return nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}
