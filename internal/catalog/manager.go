package catalog

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/apperr"
	"github.com/fashionchips/storefront/internal/gateway"
)

// Manager owns product catalog writes. Reads arrive through the
// gateway subscription, not through the manager.
type Manager struct {
	gw  gateway.Gateway
	now func() time.Time
}

func NewManager(gw gateway.Gateway) *Manager {
	return &Manager{gw: gw, now: time.Now}
}

// Upsert creates or fully replaces a product record. An empty id mints
// a new timestamp-based identity. An empty imageURL falls back to the
// deterministic placeholder. Last write wins; there is no versioning.
func (m *Manager) Upsert(ctx context.Context, id, name string, price float64, description, imageURL string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validationf("product name is required")
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return "", apperr.Validationf("product price must be a positive number")
	}

	if imageURL == "" {
		imageURL = PlaceholderImageURL(name)
	}
	if id == "" {
		id = strconv.FormatInt(m.now().UnixMilli(), 10)
	}

	product := Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Description: description,
		ImageURL:    imageURL,
		CreatedAt:   m.now().UTC(),
	}

	if err := m.gw.PutRecord(ctx, Collection, id, product, false); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("catalog: failed to save product")
		return "", err
	}

	log.Info().Str("product_id", id).Str("name", name).Msg("catalog: product saved")
	return id, nil
}

// Remove deletes a product by identity. No existence check is made
// first; deleting an absent product succeeds.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if err := m.gw.DeleteRecord(ctx, Collection, id); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("catalog: failed to delete product")
		return err
	}
	log.Info().Str("product_id", id).Msg("catalog: product deleted")
	return nil
}
