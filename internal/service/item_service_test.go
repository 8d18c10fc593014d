package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
)

type itemFixture struct {
	items      *stubItemRepo
	alerts     *stubAlertRepo
	dispatcher *fakeDispatcher
	svc        ItemService
}

func newItemFixture() *itemFixture {
	items := newStubItemRepo()
	alerts := newStubAlertRepo()
	dispatcher := &fakeDispatcher{}
	users := &stubUserRepo{emails: []string{"manager@lab.test"}}
	notifier := NewStockNotifier(alerts, users, dispatcher, []string{"lab_manager"})
	return &itemFixture{
		items:      items,
		alerts:     alerts,
		dispatcher: dispatcher,
		svc:        NewItemService(items, alerts, NewStockLedger(items, notifier)),
	}
}

func registerReq(code string, total, min int) dto.RegisterItemRequest {
	return dto.RegisterItemRequest{
		ItemCode:      code,
		Class:         model.ClassChemical,
		Name:          "Sodium chloride",
		TotalQuantity: total,
		MinStockLevel: min,
	}
}

func TestRegisterHealthyItem(t *testing.T) {
	f := newItemFixture()

	resp, err := f.svc.Register(context.Background(), registerReq("CH-0101", 50, 10))

	require.NoError(t, err)
	assert.Equal(t, 50, resp.TotalQuantity)
	assert.Equal(t, 50, resp.CurrentQuantity)
	assert.Equal(t, model.StatusInStock, resp.Status)
	assert.Equal(t, "unit", resp.Unit)

	// A healthy registration raises nothing, including no recovery.
	itemID := uuid.MustParse(resp.ID)
	assert.Equal(t, 0, f.alerts.count(itemID))
	assert.Equal(t, 0, f.dispatcher.count())
}

func TestRegisterEmptyItemIsAlertedImmediately(t *testing.T) {
	f := newItemFixture()

	resp, err := f.svc.Register(context.Background(), registerReq("CH-0102", 0, 10))

	require.NoError(t, err)
	assert.Equal(t, model.StatusOutOfStock, resp.Status)

	itemID := uuid.MustParse(resp.ID)
	assert.True(t, f.alerts.has(itemID, model.AlertOutOfStock))
	assert.Equal(t, 1, f.dispatcher.count())
}

func TestRegisterAtThresholdIsLowStock(t *testing.T) {
	f := newItemFixture()

	resp, err := f.svc.Register(context.Background(), registerReq("CH-0103", 10, 10))

	require.NoError(t, err)
	assert.Equal(t, model.StatusLowStock, resp.Status)
	assert.True(t, f.alerts.has(uuid.MustParse(resp.ID), model.AlertLowStock))
}

func TestGetByCode(t *testing.T) {
	f := newItemFixture()
	_, err := f.svc.Register(context.Background(), registerReq("CH-0104", 5, 1))
	require.NoError(t, err)

	resp, err := f.svc.GetByCode(context.Background(), "CH-0104")
	require.NoError(t, err)
	assert.Equal(t, "CH-0104", resp.ItemCode)

	_, err = f.svc.GetByCode(context.Background(), "CH-9999")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetUnknownItem(t *testing.T) {
	f := newItemFixture()

	_, err := f.svc.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestActiveAlertsFilterByType(t *testing.T) {
	f := newItemFixture()
	ctx := context.Background()

	low, err := f.svc.Register(ctx, registerReq("CH-0105", 3, 10))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, registerReq("CH-0106", 0, 10))
	require.NoError(t, err)

	alerts, total, err := f.svc.ActiveAlerts(ctx, repository.AlertFilter{Type: model.AlertLowStock})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, alerts, 1)
	assert.Equal(t, low.ID, alerts[0].ItemID)
	assert.Equal(t, []string{"lab_manager"}, alerts[0].SendTo)
}
