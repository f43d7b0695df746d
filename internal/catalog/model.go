package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fashionchips/storefront/internal/gateway"
)

// Collection is the logical collection products live in.
const Collection = "products"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PlaceholderImageURL derives the deterministic fallback image for a
// product without an image of its own.
func PlaceholderImageURL(name string) string {
	return "https://placehold.co/400x300/e53e3e/fff?text=" + strings.ReplaceAll(name, " ", "+")
}

// FromSnapshot decodes a products snapshot. Records that fail to
// decode are dropped with a warning rather than poisoning the whole
// snapshot.
func FromSnapshot(snap gateway.Snapshot) []Product {
	products := make([]Product, 0, len(snap))
	for _, doc := range snap {
		var p Product
		if err := json.Unmarshal(doc.Data, &p); err != nil {
			log.Warn().Err(err).Str("id", doc.ID).Msg("catalog: skipping undecodable product record")
			continue
		}
		p.ID = doc.ID
		products = append(products, p)
	}
	return products
}

// Find returns the product with the given id, or nil.
func Find(products []Product, id string) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
