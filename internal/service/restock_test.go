package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asma2528/LabStockEase-sub001/internal/dto"
	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

type restockFixture struct {
	items      *stubItemRepo
	restocks   *stubRestockRepo
	alerts     *stubAlertRepo
	dispatcher *fakeDispatcher
	inwardID   uuid.UUID
	journal    RestockJournal
}

func newRestockFixture() *restockFixture {
	items := newStubItemRepo()
	restocks := newStubRestockRepo()
	alerts := newStubAlertRepo()
	dispatcher := &fakeDispatcher{}
	inwardID := uuid.New()
	users := &stubUserRepo{emails: []string{"stores@lab.test"}}
	notifier := NewStockNotifier(alerts, users, dispatcher, []string{"stores"})
	ledger := NewStockLedger(items, notifier)
	return &restockFixture{
		items:      items,
		restocks:   restocks,
		alerts:     alerts,
		dispatcher: dispatcher,
		inwardID:   inwardID,
		journal:    NewRestockJournal(restocks, items, newStubInwardRepo(inwardID), ledger),
	}
}

func (f *restockFixture) seed(current, min int) uuid.UUID {
	id := uuid.New()
	f.items.items[id] = &model.Item{
		ID:              id,
		ItemCode:        "CO-0042",
		Class:           model.ClassConsumable,
		Name:            "Nitrile gloves",
		TotalQuantity:   current,
		CurrentQuantity: current,
		MinStockLevel:   min,
		Status:          model.ComputeStatus(current, min),
	}
	return id
}

func restockReq(itemID, inwardID uuid.UUID, qty int) dto.RestockRequest {
	return dto.RestockRequest{
		ItemID:    itemID.String(),
		InwardID:  inwardID.String(),
		Quantity:  qty,
		UnitPrice: decimal.NewFromFloat(4.50),
	}
}

func TestRestockAddsToBothQuantities(t *testing.T) {
	f := newRestockFixture()
	itemID := f.seed(3, 10)

	resp, err := f.journal.Restock(context.Background(), restockReq(itemID, f.inwardID, 30))

	require.NoError(t, err)
	assert.Equal(t, 30, resp.QuantityPurchased)
	assert.True(t, resp.StockRecovered)

	current, total, status := f.items.current(itemID)
	assert.Equal(t, 33, current)
	assert.Equal(t, 33, total)
	assert.Equal(t, model.StatusInStock, status)
}

func TestRestockRecoveryNotRepeated(t *testing.T) {
	f := newRestockFixture()
	itemID := f.seed(0, 10)

	resp, err := f.journal.Restock(context.Background(), restockReq(itemID, f.inwardID, 20))
	require.NoError(t, err)
	assert.True(t, resp.StockRecovered)
	assert.True(t, f.alerts.has(itemID, model.AlertStockRecovered))
	assert.False(t, f.alerts.has(itemID, model.AlertOutOfStock))

	// Already healthy; a further receipt changes nothing alert-wise.
	resp, err = f.journal.Restock(context.Background(), restockReq(itemID, f.inwardID, 20))
	require.NoError(t, err)
	assert.False(t, resp.StockRecovered)
	assert.Equal(t, 1, f.alerts.count(itemID))
}

func TestRestockRequiresKnownInward(t *testing.T) {
	f := newRestockFixture()
	itemID := f.seed(3, 10)

	_, err := f.journal.Restock(context.Background(), restockReq(itemID, uuid.New(), 5))

	assert.ErrorIs(t, err, ErrInwardNotFound)
	current, total, _ := f.items.current(itemID)
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, total)
	_, count, err := f.restocks.List(context.Background(), dto.RestockFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRestockUnknownItem(t *testing.T) {
	f := newRestockFixture()

	_, err := f.journal.Restock(context.Background(), restockReq(uuid.New(), f.inwardID, 5))

	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRestockThenDeleteRoundTrip(t *testing.T) {
	f := newRestockFixture()
	itemID := f.seed(2, 10)

	resp, err := f.journal.Restock(context.Background(), restockReq(itemID, f.inwardID, 18))
	require.NoError(t, err)
	current, total, status := f.items.current(itemID)
	require.Equal(t, 20, current)
	require.Equal(t, 20, total)
	require.Equal(t, model.StatusInStock, status)

	_, err = f.journal.Delete(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	// Both quantities and the status are exactly as before the receipt.
	current, total, status = f.items.current(itemID)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, total)
	assert.Equal(t, model.StatusLowStock, status)
	assert.True(t, f.alerts.has(itemID, model.AlertLowStock))
}

func TestEditRestockShrinksByDelta(t *testing.T) {
	f := newRestockFixture()
	itemID := f.seed(0, 2)

	resp, err := f.journal.Restock(context.Background(), restockReq(itemID, f.inwardID, 10))
	require.NoError(t, err)
	restockID := uuid.MustParse(resp.ID)

	edit := dto.EditRestockRequest{Quantity: 6, UnitPrice: decimal.NewFromFloat(4.50)}
	resp, err = f.journal.Edit(context.Background(), restockID, edit)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.QuantityPurchased)

	current, total, _ := f.items.current(itemID)
	assert.Equal(t, 6, current)
	assert.Equal(t, 6, total)
}

func TestEditRestockRefusesShrinkBelowConsumption(t *testing.T) {
	f := newRestockFixture()
	itemID := f.seed(0, 2)

	resp, err := f.journal.Restock(context.Background(), restockReq(itemID, f.inwardID, 10))
	require.NoError(t, err)
	restockID := uuid.MustParse(resp.ID)

	// Simulate consumption of 8 units, leaving 2 on the shelf.
	_, err = NewStockLedger(f.items, NewStockNotifier(f.alerts, &stubUserRepo{}, nil, nil)).
		ApplyIssuanceDelta(nil, itemID, 8)
	require.NoError(t, err)

	// Shrinking the receipt to 1 would need 9 units back; only 2 remain.
	edit := dto.EditRestockRequest{Quantity: 1, UnitPrice: decimal.NewFromFloat(4.50)}
	_, err = f.journal.Edit(context.Background(), restockID, edit)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	entry, findErr := f.restocks.FindByID(context.Background(), restockID)
	require.NoError(t, findErr)
	assert.Equal(t, 10, entry.QuantityPurchased)
}

func TestDeleteUnknownRestock(t *testing.T) {
	f := newRestockFixture()

	_, err := f.journal.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrRestockNotFound)
}
