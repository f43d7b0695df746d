package order

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/apperr"
	"github.com/fashionchips/storefront/internal/cart"
	"github.com/fashionchips/storefront/internal/gateway"
	"github.com/fashionchips/storefront/internal/pickup"
)

// DefaultCustomerName is used when the anonymous session has no name.
const DefaultCustomerName = "Guest User"

// Manager owns order submission and the status lifecycle.
type Manager struct {
	gw     gateway.Gateway
	policy pickup.Policy
	now    func() time.Time
}

// NewManager builds a Manager. A nil now falls back to time.Now; tests
// inject a fixed clock.
func NewManager(gw gateway.Gateway, policy pickup.Policy, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{gw: gw, policy: policy, now: now}
}

// Submit validates the cart and pickup time, snapshots the cart into a
// new Pending order, and creates it through the gateway. The caller
// must clear the cart only after Submit returns the acknowledged id.
func (m *Manager) Submit(ctx context.Context, c cart.Cart, pickupTime, userID, customerName string) (string, error) {
	if len(c) == 0 {
		log.Warn().Str("user_id", userID).Msg("order: attempt to submit an empty cart")
		return "", apperr.Validationf("cart is empty")
	}
	if pickupTime == "" {
		return "", apperr.Validationf("pickup time is required")
	}

	now := m.now()
	if !m.policy.Valid(pickupTime, now) {
		return "", apperr.Validationf("pickup time must be %s or later today", m.policy.Earliest(now))
	}

	if customerName == "" {
		customerName = DefaultCustomerName
	}

	items := make([]cart.Item, len(c))
	copy(items, c)

	o := Order{
		UserID:       userID,
		CustomerName: customerName,
		Items:        items,
		TotalAmount:  c.Total(),
		PickupTime:   pickupTime,
		OrderTime:    now.UTC(),
		Status:       StatusPending,
	}

	id, err := m.gw.CreateRecord(ctx, Collection, o)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("order: failed to create order")
		return "", err
	}

	log.Info().Str("order_id", id).Str("user_id", userID).Str("pickup_time", pickupTime).Msg("order: submitted")
	return id, nil
}

// SetStatus merge-updates only the status field of an order. Transition
// legality is not checked here: the admin surface offers only the legal
// next actions, and the store is the real enforcement point.
func (m *Manager) SetStatus(ctx context.Context, orderID string, newStatus Status) error {
	if orderID == "" {
		return apperr.Validationf("order id is required")
	}
	if !newStatus.Known() {
		return apperr.Validationf("unknown order status %q", newStatus)
	}

	patch := map[string]Status{"status": newStatus}
	if err := m.gw.PutRecord(ctx, Collection, orderID, patch, true); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Stringer("new_status", newStatus).Msg("order: failed to update status")
		return err
	}

	log.Info().Str("order_id", orderID).Stringer("new_status", newStatus).Msg("order: status updated")
	return nil
}
