// Package app owns the application state and the live subscriptions
// feeding it. Each subscription callback swaps its own collection
// wholesale; nothing merges incrementally. Views are recomputed from
// the full state on demand.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/cart"
	"github.com/fashionchips/storefront/internal/catalog"
	"github.com/fashionchips/storefront/internal/gateway"
	"github.com/fashionchips/storefront/internal/order"
	"github.com/fashionchips/storefront/internal/pickup"
	"github.com/fashionchips/storefront/internal/session"
	"github.com/fashionchips/storefront/internal/view"
)

type App struct {
	mu       sync.RWMutex
	products []catalog.Product
	orders   []order.Order

	gw        gateway.Gateway
	carts     *cart.Store
	catalog   *catalog.Manager
	lifecycle *order.Manager
	policy    pickup.Policy
	now       func() time.Time

	unsubscribes []gateway.Unsubscribe
}

func New(gw gateway.Gateway, carts *cart.Store, catalogMgr *catalog.Manager, lifecycle *order.Manager, policy pickup.Policy) *App {
	return &App{
		gw:        gw,
		carts:     carts,
		catalog:   catalogMgr,
		lifecycle: lifecycle,
		policy:    policy,
		now:       time.Now,
	}
}

// Start opens the two live subscriptions. Subscription errors are
// logged and leave the last delivered collections in place.
func (a *App) Start(ctx context.Context) error {
	unsubProducts, err := a.gw.Subscribe(ctx, catalog.Collection,
		a.swapProducts,
		func(err error) {
			log.Error().Err(err).Msg("app: products subscription error")
		})
	if err != nil {
		return err
	}
	a.unsubscribes = append(a.unsubscribes, unsubProducts)

	unsubOrders, err := a.gw.Subscribe(ctx, order.Collection,
		a.swapOrders,
		func(err error) {
			log.Error().Err(err).Msg("app: orders subscription error")
		})
	if err != nil {
		unsubProducts()
		return err
	}
	a.unsubscribes = append(a.unsubscribes, unsubOrders)

	return nil
}

// Stop tears down the live subscriptions.
func (a *App) Stop() {
	for _, unsub := range a.unsubscribes {
		unsub()
	}
	a.unsubscribes = nil
}

func (a *App) swapProducts(snap gateway.Snapshot) {
	products := catalog.FromSnapshot(snap)

	a.mu.Lock()
	a.products = products
	a.mu.Unlock()

	log.Debug().Int("count", len(products)).Msg("app: products updated")
}

func (a *App) swapOrders(snap gateway.Snapshot) {
	orders := order.FromSnapshot(snap)

	a.mu.Lock()
	a.orders = orders
	a.mu.Unlock()

	log.Debug().Int("count", len(orders)).Msg("app: orders updated")
}

// View recomputes the whole view model for the session.
func (a *App) View(ctx context.Context, sess *session.Session) view.ViewModel {
	a.mu.RLock()
	state := view.State{
		Products: a.products,
		Orders:   a.orders,
		UserID:   sess.UserID,
		IsAdmin:  sess.IsAdmin,
	}
	a.mu.RUnlock()

	if !sess.IsAdmin {
		state.Cart = a.carts.Load(ctx, sess.UserID)
	}
	return view.Build(state, a.policy, a.now())
}

// AddToCart appends the product to the session's cart, or bumps its
// quantity. An unknown product id is a no-op.
func (a *App) AddToCart(ctx context.Context, userID, productID string) error {
	a.mu.RLock()
	product := catalog.Find(a.products, productID)
	a.mu.RUnlock()

	if product == nil {
		log.Warn().Str("product_id", productID).Msg("app: add to cart for unknown product ignored")
		return nil
	}

	c := a.carts.Load(ctx, userID)
	c = cart.Add(c, cart.Item{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	})
	return a.carts.Save(ctx, userID, c)
}

// UpdateCartQuantity adjusts a cart line by delta, removing it at zero.
func (a *App) UpdateCartQuantity(ctx context.Context, userID, productID string, delta int) error {
	c := a.carts.Load(ctx, userID)
	c = cart.UpdateQuantity(c, productID, delta)
	return a.carts.Save(ctx, userID, c)
}

// Checkout submits the session's cart as a pickup order and clears the
// cart only after the create is acknowledged.
func (a *App) Checkout(ctx context.Context, userID, pickupTime string) (string, error) {
	c := a.carts.Load(ctx, userID)

	id, err := a.lifecycle.Submit(ctx, c, pickupTime, userID, order.DefaultCustomerName)
	if err != nil {
		return "", err
	}

	if err := a.carts.Save(ctx, userID, cart.Cart{}); err != nil {
		// The order exists; a stale cart is the lesser problem.
		log.Error().Err(err).Str("user_id", userID).Msg("app: failed to clear cart after checkout")
	}
	return id, nil
}

// SetOrderStatus advances an order through its lifecycle.
func (a *App) SetOrderStatus(ctx context.Context, orderID string, status order.Status) error {
	return a.lifecycle.SetStatus(ctx, orderID, status)
}

// UpsertProduct creates or replaces a catalog product.
func (a *App) UpsertProduct(ctx context.Context, id, name string, price float64, description, imageURL string) (string, error) {
	return a.catalog.Upsert(ctx, id, name, price, description, imageURL)
}

// RemoveProduct deletes a catalog product.
func (a *App) RemoveProduct(ctx context.Context, id string) error {
	return a.catalog.Remove(ctx, id)
}
