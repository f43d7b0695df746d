package catalog

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionchips/storefront/internal/apperr"
	"github.com/fashionchips/storefront/internal/gateway"
)

type mockGateway struct {
	createFunc    func(ctx context.Context, collection string, data any) (string, error)
	putFunc       func(ctx context.Context, collection, id string, data any, merge bool) error
	deleteFunc    func(ctx context.Context, collection, id string) error
	subscribeFunc func(ctx context.Context, collection string, onChange func(gateway.Snapshot), onError func(error)) (gateway.Unsubscribe, error)
}

func (m *mockGateway) CreateRecord(ctx context.Context, collection string, data any) (string, error) {
	return m.createFunc(ctx, collection, data)
}

func (m *mockGateway) PutRecord(ctx context.Context, collection, id string, data any, merge bool) error {
	return m.putFunc(ctx, collection, id, data, merge)
}

func (m *mockGateway) DeleteRecord(ctx context.Context, collection, id string) error {
	return m.deleteFunc(ctx, collection, id)
}

func (m *mockGateway) Subscribe(ctx context.Context, collection string, onChange func(gateway.Snapshot), onError func(error)) (gateway.Unsubscribe, error) {
	return m.subscribeFunc(ctx, collection, onChange, onError)
}

func TestManager_Upsert_Validation(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		price       float64
	}{
		{name: "empty_name", productName: "", price: 2.50},
		{name: "whitespace_name", productName: "   ", price: 2.50},
		{name: "zero_price", productName: "Crisps", price: 0},
		{name: "negative_price", productName: "Crisps", price: -1},
		{name: "nan_price", productName: "Crisps", price: math.NaN()},
		{name: "inf_price", productName: "Crisps", price: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			puts := 0
			m := NewManager(&mockGateway{
				putFunc: func(ctx context.Context, collection, id string, data any, merge bool) error {
					puts++
					return nil
				},
			})

			_, err := m.Upsert(context.Background(), "", tt.productName, tt.price, "", "")
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Zero(t, puts, "no write should be issued for invalid input")
		})
	}
}

func TestManager_Upsert_NewProduct(t *testing.T) {
	var gotID string
	var gotProduct Product
	var gotMerge bool

	m := NewManager(&mockGateway{
		putFunc: func(ctx context.Context, collection, id string, data any, merge bool) error {
			assert.Equal(t, Collection, collection)
			gotID = id
			gotProduct = data.(Product)
			gotMerge = merge
			return nil
		},
	})
	m.now = func() time.Time { return time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC) }

	id, err := m.Upsert(context.Background(), "", "Masala Chips", 3.25, "Spicy", "")
	require.NoError(t, err)

	assert.Equal(t, id, gotID)
	assert.NotEmpty(t, id, "new products get a generated identity")
	assert.False(t, gotMerge, "upsert is a full overwrite, not a merge")
	assert.Equal(t, "Masala Chips", gotProduct.Name)
	assert.Equal(t, 3.25, gotProduct.Price)
	assert.Equal(t, "https://placehold.co/400x300/e53e3e/fff?text=Masala+Chips", gotProduct.ImageURL)
}

func TestManager_Upsert_ExistingIDAndImage(t *testing.T) {
	var gotID string
	var gotProduct Product

	m := NewManager(&mockGateway{
		putFunc: func(ctx context.Context, collection, id string, data any, merge bool) error {
			gotID = id
			gotProduct = data.(Product)
			return nil
		},
	})

	id, err := m.Upsert(context.Background(), "1718100000000", "Chips", 2.00, "", "https://img.example/chips.png")
	require.NoError(t, err)

	assert.Equal(t, "1718100000000", id)
	assert.Equal(t, "1718100000000", gotID)
	assert.Equal(t, "https://img.example/chips.png", gotProduct.ImageURL)
}

func TestManager_Upsert_GatewayFailure(t *testing.T) {
	remoteErr := apperr.Remote("put products", errors.New("connection refused"))
	m := NewManager(&mockGateway{
		putFunc: func(ctx context.Context, collection, id string, data any, merge bool) error {
			return remoteErr
		},
	})

	_, err := m.Upsert(context.Background(), "", "Chips", 2.00, "", "")
	assert.ErrorIs(t, err, apperr.ErrRemote)
}

func TestManager_Remove(t *testing.T) {
	var deletedID string
	m := NewManager(&mockGateway{
		deleteFunc: func(ctx context.Context, collection, id string) error {
			assert.Equal(t, Collection, collection)
			deletedID = id
			return nil
		},
	})

	require.NoError(t, m.Remove(context.Background(), "p1"))
	assert.Equal(t, "p1", deletedID)
}

func TestFromSnapshot_SkipsUndecodable(t *testing.T) {
	snap := gateway.Snapshot{
		{ID: "p1", Data: []byte(`{"name":"Chips","price":2.5}`)},
		{ID: "p2", Data: []byte(`{broken`)},
	}

	products := FromSnapshot(snap)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Chips", products[0].Name)
}
