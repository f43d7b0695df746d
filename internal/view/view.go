// Package view reconciles the in-memory state into renderable view
// models. Build is a pure function of its inputs and is recomputed
// wholesale after every state mutation; whole-view recomputation is
// the consistency mechanism, so no incremental rendering exists
// anywhere. The cost is O(state size) per update.
package view

import (
	"fmt"
	"time"

	"github.com/fashionchips/storefront/internal/cart"
	"github.com/fashionchips/storefront/internal/catalog"
	"github.com/fashionchips/storefront/internal/order"
	"github.com/fashionchips/storefront/internal/pickup"
)

// State is the full application state a view is derived from. It is
// owned by the app layer and updated by explicit swap functions, never
// by ambient mutation.
type State struct {
	Products []catalog.Product
	Orders   []order.Order
	Cart     cart.Cart
	UserID   string
	IsAdmin  bool
}

type ProductView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"image_url"`
	Price          float64 `json:"price"`
	FormattedPrice string  `json:"formatted_price"`
}

type CartLineView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	FormattedPrice string `json:"formatted_price"`
}

type CartView struct {
	Lines          []CartLineView `json:"lines"`
	Total          float64        `json:"total"`
	FormattedTotal string         `json:"formatted_total"`
	// EarliestPickup is the time input's min value and its default.
	EarliestPickup string `json:"earliest_pickup"`
	SubmitDisabled bool   `json:"submit_disabled"`
	StatusMessage  string `json:"status_message,omitempty"`
}

type OrderView struct {
	ID             string         `json:"id"`
	ShortID        string         `json:"short_id"`
	UserID         string         `json:"user_id"`
	CustomerName   string         `json:"customer_name"`
	Status         order.Status   `json:"status"`
	PickupTime     string         `json:"pickup_time"`
	FormattedTotal string         `json:"formatted_total"`
	Lines          []CartLineView `json:"lines"`
	// Actions are the statuses the admin may move this order to.
	Actions []order.Status `json:"actions"`
}

type AdminProductView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FormattedPrice string `json:"formatted_price"`
}

// ViewModel is everything a render pass needs. The customer and admin
// sections are mutually exclusive, matching the view the session is in.
type ViewModel struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`

	Catalog []ProductView `json:"catalog,omitempty"`
	Cart    *CartView     `json:"cart,omitempty"`

	AdminProducts []AdminProductView `json:"admin_products,omitempty"`
	AdminOrders   []OrderView        `json:"admin_orders,omitempty"`
}

// FormatPrice renders a price in pounds sterling.
func FormatPrice(price float64) string {
	return fmt.Sprintf("£%.2f", price)
}

// ShortID truncates a record id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Build derives the full view model from state.
func Build(s State, policy pickup.Policy, now time.Time) ViewModel {
	vm := ViewModel{UserID: s.UserID, IsAdmin: s.IsAdmin}

	if s.IsAdmin {
		vm.AdminProducts = buildAdminProducts(s.Products)
		vm.AdminOrders = buildAdminOrders(s.Orders)
		return vm
	}

	vm.Catalog = buildCatalog(s.Products)
	vm.Cart = buildCart(s, policy, now)
	return vm
}

func buildCatalog(products []catalog.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			ID:             p.ID,
			Name:           p.Name,
			Description:    p.Description,
			ImageURL:       p.ImageURL,
			Price:          p.Price,
			FormattedPrice: FormatPrice(p.Price),
		})
	}
	return views
}

func buildCart(s State, policy pickup.Policy, now time.Time) *CartView {
	cv := &CartView{
		Lines:          buildLines(s.Cart),
		Total:          s.Cart.Total(),
		FormattedTotal: FormatPrice(s.Cart.Total()),
		EarliestPickup: policy.Earliest(now),
	}

	if active := order.ActiveFor(s.Orders, s.UserID); active != nil {
		cv.SubmitDisabled = true
		switch active.Status {
		case order.StatusAccepted:
			cv.StatusMessage = fmt.Sprintf("Accepted! Pickup: %s", active.PickupTime)
		default:
			cv.StatusMessage = fmt.Sprintf("Pending... Pickup: %s", active.PickupTime)
		}
		return cv
	}

	cv.SubmitDisabled = len(s.Cart) == 0
	return cv
}

func buildLines(c cart.Cart) []CartLineView {
	lines := make([]CartLineView, 0, len(c))
	for _, item := range c {
		lines = append(lines, CartLineView{
			ID:             item.ID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			FormattedPrice: FormatPrice(item.Price),
		})
	}
	return lines
}

func buildAdminProducts(products []catalog.Product) []AdminProductView {
	views := make([]AdminProductView, 0, len(products))
	for _, p := range products {
		views = append(views, AdminProductView{
			ID:             p.ID,
			Name:           p.Name,
			FormattedPrice: FormatPrice(p.Price),
		})
	}
	return views
}

func buildAdminOrders(orders []order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{
			ID:             o.ID,
			ShortID:        ShortID(o.ID),
			UserID:         o.UserID,
			CustomerName:   o.CustomerName,
			Status:         o.Status,
			PickupTime:     o.PickupTime,
			FormattedTotal: FormatPrice(o.TotalAmount),
			Lines:          buildLines(o.Items),
			Actions:        order.NextStatuses(o.Status),
		})
	}
	return views
}
