// Package cart holds the shopping cart: a denormalized snapshot of
// product lines owned by one client session.
package cart

// Item is one cart line. Name and price are copied from the product at
// the moment it is added, so later catalog edits never change a cart
// or a historical order.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Cart []Item

// Total is the sum of price times quantity over all lines.
func (c Cart) Total() float64 {
	total := 0.0
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Add increments the quantity of an existing line for item.ID or
// appends a new line with quantity 1.
func Add(c Cart, item Item) Cart {
	for i := range c {
		if c[i].ID == item.ID {
			c[i].Quantity++
			return c
		}
	}
	item.Quantity = 1
	return append(c, item)
}

// UpdateQuantity adjusts the quantity of the line for productID by
// delta. A line whose quantity drops to zero or below is removed; a
// quantity of zero or less is never kept. Unknown productID is a no-op.
func UpdateQuantity(c Cart, productID string, delta int) Cart {
	for i := range c {
		if c[i].ID != productID {
			continue
		}
		c[i].Quantity += delta
		if c[i].Quantity <= 0 {
			return append(c[:i:i], c[i+1:]...)
		}
		return c
	}
	return c
}
