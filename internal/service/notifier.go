package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
	"github.com/Asma2528/LabStockEase-sub001/internal/repository"
	"github.com/Asma2528/LabStockEase-sub001/internal/worker"
)

// AlertDispatcher enqueues alert emails for async delivery. Satisfied by
// *worker.Dispatcher; nil disables dispatch (alert rows are still written).
type AlertDispatcher interface {
	EnqueueAlertEmail(ctx context.Context, payload worker.AlertEmailPayload) error
}

// StockNotifier keeps the set of active stock alerts for an item consistent
// with its status, without duplicates and without flapping noise. The alert
// row is the durable record of "this condition is currently flagged"; email
// delivery is best-effort on top.
type StockNotifier struct {
	alerts     repository.AlertRepository
	users      repository.UserRepository
	dispatcher AlertDispatcher
	sendTo     []string // role names alerts are addressed to
}

func NewStockNotifier(
	alerts repository.AlertRepository,
	users repository.UserRepository,
	dispatcher AlertDispatcher,
	sendTo []string,
) *StockNotifier {
	return &StockNotifier{alerts: alerts, users: users, dispatcher: dispatcher, sendTo: sendTo}
}

// Reconcile aligns active alerts with the (oldStatus, newStatus) transition.
// Transitions need not be adjacent: a large restock jumps OutOfStock straight
// to InStock. Returns whether a StockRecovered alert was newly raised.
func (n *StockNotifier) Reconcile(ctx context.Context, item *model.Item, oldStatus, newStatus model.StockStatus) (bool, error) {
	if oldStatus == model.StatusInStock && newStatus == model.StatusInStock {
		return false, nil
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	switch newStatus {
	case model.StatusOutOfStock:
		// OutOfStock supersedes LowStock, so the low-stock alert goes too.
		_, err := n.raise(ctx, item, model.AlertOutOfStock)
		keep(err)
		keep(n.clear(ctx, item, model.AlertStockRecovered))
		keep(n.clear(ctx, item, model.AlertLowStock))

	case model.StatusLowStock:
		_, err := n.raise(ctx, item, model.AlertLowStock)
		keep(err)
		keep(n.clear(ctx, item, model.AlertStockRecovered))
		keep(n.clear(ctx, item, model.AlertOutOfStock))

	case model.StatusInStock:
		keep(n.clear(ctx, item, model.AlertLowStock))
		keep(n.clear(ctx, item, model.AlertOutOfStock))
		// Only a genuine recovery raises the alert; the unique index keeps a
		// repeated raise from duplicating it.
		recovered, err := n.raise(ctx, item, model.AlertStockRecovered)
		keep(err)
		return recovered, firstErr
	}
	return false, firstErr
}

// Resync forces the alert set to match status with no transition context.
// Used by the sweep: unlike Reconcile it also clears stale condition alerts
// on a healthy item, and it never raises a recovery alert (recovery is an
// event, not a state, and the sweep has no transition to witness).
func (n *StockNotifier) Resync(ctx context.Context, item *model.Item, status model.StockStatus) error {
	if status != model.StatusInStock {
		_, err := n.Reconcile(ctx, item, status, status)
		return err
	}
	var firstErr error
	if err := n.clear(ctx, item, model.AlertLowStock); err != nil {
		firstErr = err
	}
	if err := n.clear(ctx, item, model.AlertOutOfStock); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// raise inserts the alert if no (item, type) row exists. Only a newly written
// row triggers email dispatch, so re-raising an active alert sends nothing.
func (n *StockNotifier) raise(ctx context.Context, item *model.Item, typ model.AlertType) (bool, error) {
	roles, err := json.Marshal(n.sendTo)
	if err != nil {
		return false, err
	}
	alert := &model.StockAlert{
		ItemID: item.ID,
		Type:   typ,
		SendTo: datatypes.JSON(roles),
	}
	created, err := n.alerts.Insert(ctx, alert)
	if err != nil || !created {
		return false, err
	}

	n.dispatch(ctx, item, typ)
	return true, nil
}

func (n *StockNotifier) clear(ctx context.Context, item *model.Item, typ model.AlertType) error {
	return n.alerts.DeleteByItemAndType(ctx, item.ID, typ)
}

// dispatch resolves the addressed roles to emails and enqueues one message
// per recipient. Failures are logged and swallowed: the alert row already
// persisted and delivery is fire-and-forget.
func (n *StockNotifier) dispatch(ctx context.Context, item *model.Item, typ model.AlertType) {
	if n.dispatcher == nil {
		return
	}
	emails, err := n.users.FindEmailsByRoles(ctx, n.sendTo)
	if err != nil {
		log.Error().Err(err).Str("item_code", item.ItemCode).Msg("notifier: resolving alert recipients failed")
		return
	}

	subject, body := alertMessage(item, typ)
	for _, to := range emails {
		payload := worker.AlertEmailPayload{
			ToEmail: to,
			Subject: subject,
			Body:    body,
		}
		if err := n.dispatcher.EnqueueAlertEmail(ctx, payload); err != nil {
			log.Error().Err(err).Str("to", to).Str("item_code", item.ItemCode).
				Msg("notifier: enqueue alert email failed")
		}
	}
}

func alertMessage(item *model.Item, typ model.AlertType) (subject, body string) {
	switch typ {
	case model.AlertOutOfStock:
		subject = fmt.Sprintf("Out of stock: %s (%s)", item.Name, item.ItemCode)
		body = fmt.Sprintf("%s (%s) has run out of stock. Please initiate a restock.", item.Name, item.ItemCode)
	case model.AlertLowStock:
		subject = fmt.Sprintf("Low stock: %s (%s)", item.Name, item.ItemCode)
		body = fmt.Sprintf("%s (%s) is at or below its minimum stock level of %d.", item.Name, item.ItemCode, item.MinStockLevel)
	case model.AlertStockRecovered:
		subject = fmt.Sprintf("Stock recovered: %s (%s)", item.Name, item.ItemCode)
		body = fmt.Sprintf("%s (%s) is back above its minimum stock level.", item.Name, item.ItemCode)
	}
	return subject, body
}
