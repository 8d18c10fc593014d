package service

import (
	"errors"
	"fmt"
)

// Client-error sentinels. Callers map these to 4xx responses; everything else
// is a server error.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrLogNotFound     = errors.New("issuance log not found")
	ErrRestockNotFound = errors.New("restock entry not found")
	ErrInwardNotFound  = errors.New("inward record not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrRequestNotFound = errors.New("referenced request not found")

	// ErrReturnNotSupported rejects return recording on non-equipment items.
	ErrReturnNotSupported = errors.New("returns only apply to equipment items")

	// ErrInsufficientStock is the match target for errors.Is; the value
	// actually returned is an *InsufficientStockError carrying the quantity
	// the caller raced against.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrWriteConflict is transient: the guarded update lost a race. The
	// ledger retries internally before surfacing it.
	ErrWriteConflict = errors.New("concurrent stock modification")
)

// InsufficientStockError reports how much stock was actually available so the
// UI can show the shortfall.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
