package view

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/fashionchips/storefront/internal/cart"
	"github.com/fashionchips/storefront/internal/catalog"
	"github.com/fashionchips/storefront/internal/order"
	"github.com/fashionchips/storefront/internal/pickup"
)

var testPolicy = pickup.NewPolicy(pickup.DefaultPrepWindow)

func testNow() time.Time {
	return time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
}

func TestBuild_CustomerView(t *testing.T) {
	state := State{
		Products: []catalog.Product{
			{ID: "p1", Name: "Salted Crisps", Price: 1.5, Description: "Classic", ImageURL: "https://img.example/p1.png"},
		},
		Cart:   cart.Cart{{ID: "p1", Name: "Salted Crisps", Price: 1.5, Quantity: 2}},
		UserID: "u1",
	}

	got := Build(state, testPolicy, testNow())

	want := ViewModel{
		UserID: "u1",
		Catalog: []ProductView{
			{ID: "p1", Name: "Salted Crisps", Description: "Classic", ImageURL: "https://img.example/p1.png", Price: 1.5, FormattedPrice: "£1.50"},
		},
		Cart: &CartView{
			Lines:          []CartLineView{{ID: "p1", Name: "Salted Crisps", Quantity: 2, FormattedPrice: "£1.50"}},
			Total:          3.0,
			FormattedTotal: "£3.00",
			EarliestPickup: "10:20",
			SubmitDisabled: false,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_EmptyCartDisablesSubmit(t *testing.T) {
	got := Build(State{UserID: "u1"}, testPolicy, testNow())

	if assert.NotNil(t, got.Cart) {
		assert.True(t, got.Cart.SubmitDisabled)
		assert.Empty(t, got.Cart.StatusMessage)
	}
}

func TestBuild_ActiveOrderBlocksSubmit(t *testing.T) {
	tests := []struct {
		name        string
		status      order.Status
		wantMessage string
	}{
		{name: "pending", status: order.StatusPending, wantMessage: "Pending... Pickup: 11:00"},
		{name: "accepted", status: order.StatusAccepted, wantMessage: "Accepted! Pickup: 11:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := State{
				Cart:   cart.Cart{{ID: "p1", Name: "Crisps", Price: 1.5, Quantity: 1}},
				Orders: []order.Order{{ID: "o1", UserID: "u1", Status: tt.status, PickupTime: "11:00"}},
				UserID: "u1",
			}

			got := Build(state, testPolicy, testNow())

			if assert.NotNil(t, got.Cart) {
				assert.True(t, got.Cart.SubmitDisabled)
				assert.Equal(t, tt.wantMessage, got.Cart.StatusMessage)
			}
		})
	}
}

func TestBuild_CompletedOrderFreesSubmit(t *testing.T) {
	state := State{
		Cart:   cart.Cart{{ID: "p1", Name: "Crisps", Price: 1.5, Quantity: 1}},
		Orders: []order.Order{{ID: "o1", UserID: "u1", Status: order.StatusCompleted, PickupTime: "11:00"}},
		UserID: "u1",
	}

	got := Build(state, testPolicy, testNow())

	if assert.NotNil(t, got.Cart) {
		assert.False(t, got.Cart.SubmitDisabled)
	}
}

func TestBuild_AdminView(t *testing.T) {
	orderTime := time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)
	state := State{
		Products: []catalog.Product{{ID: "p1", Name: "Crisps", Price: 1.5}},
		Orders: []order.Order{{
			ID:           "0123456789abcdef",
			UserID:       "u1",
			CustomerName: "Guest User",
			Status:       order.StatusPending,
			PickupTime:   "11:00",
			TotalAmount:  3.0,
			OrderTime:    orderTime,
			Items:        []cart.Item{{ID: "p1", Name: "Crisps", Price: 1.5, Quantity: 2}},
		}},
		UserID:  "admin-user",
		IsAdmin: true,
	}

	got := Build(state, testPolicy, testNow())

	want := ViewModel{
		UserID:  "admin-user",
		IsAdmin: true,
		AdminProducts: []AdminProductView{
			{ID: "p1", Name: "Crisps", FormattedPrice: "£1.50"},
		},
		AdminOrders: []OrderView{{
			ID:             "0123456789abcdef",
			ShortID:        "01234567",
			UserID:         "u1",
			CustomerName:   "Guest User",
			Status:         order.StatusPending,
			PickupTime:     "11:00",
			FormattedTotal: "£3.00",
			Lines:          []CartLineView{{ID: "p1", Name: "Crisps", Quantity: 2, FormattedPrice: "£1.50"}},
			Actions:        []order.Status{order.StatusAccepted, order.StatusRejected},
		}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.Catalog, "admin view does not carry the customer sections")
	assert.Nil(t, got.Cart)
}
