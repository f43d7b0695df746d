package order

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/cart"
	"github.com/fashionchips/storefront/internal/gateway"
)

// Collection is the logical collection orders live in.
const Collection = "orders"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
)

func (s Status) String() string {
	return string(s)
}

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether an order with this status still occupies the
// customer's single active-order slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

// NextStatuses lists the statuses the admin surface offers from s.
// Rejected and Completed are terminal. The manager itself does not
// enforce this; the actions offered to the admin do.
func NextStatuses(s Status) []Status {
	switch s {
	case StatusPending:
		return []Status{StatusAccepted, StatusRejected}
	case StatusAccepted:
		return []Status{StatusCompleted}
	default:
		return nil
	}
}

// Order is immutable once created except for Status. Items is a
// snapshot of product fields at order time, never a reference.
type Order struct {
	ID           string      `json:"id,omitempty"`
	UserID       string      `json:"userId"`
	CustomerName string      `json:"customerName"`
	Items        []cart.Item `json:"items"`
	TotalAmount  float64     `json:"totalAmount"`
	PickupTime   string      `json:"pickupTime"`
	OrderTime    time.Time   `json:"orderTime"`
	Status       Status      `json:"status"`
}

// FromSnapshot decodes an orders snapshot and applies the display
// order. Undecodable records are dropped with a warning.
func FromSnapshot(snap gateway.Snapshot) []Order {
	orders := make([]Order, 0, len(snap))
	for _, doc := range snap {
		var o Order
		if err := json.Unmarshal(doc.Data, &o); err != nil {
			log.Warn().Err(err).Str("id", doc.ID).Msg("order: skipping undecodable order record")
			continue
		}
		o.ID = doc.ID
		orders = append(orders, o)
	}
	Sort(orders)
	return orders
}

// Sort orders for display: all Pending orders first, then by order
// time descending. The sort is stable with respect to equal keys.
func Sort(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if (orders[i].Status == StatusPending) != (orders[j].Status == StatusPending) {
			return orders[i].Status == StatusPending
		}
		return orders[i].OrderTime.After(orders[j].OrderTime)
	})
}

// ActiveFor returns the user's active order (Pending or Accepted), or
// nil. At most one is assumed to exist; the first match wins.
func ActiveFor(orders []Order, userID string) *Order {
	for i := range orders {
		if orders[i].UserID == userID && orders[i].Status.Active() {
			return &orders[i]
		}
	}
	return nil
}
