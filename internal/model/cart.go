package model

// LineItem is one catalogue item plus a quantity within the cart.
// Name, price and image are frozen at add-time; they are not re-fetched
// from the catalogue while the item sits in the cart.
type LineItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    Decimal `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price times quantity for this line.
func (li LineItem) Subtotal() float64 {
	return li.Price.Float64() * float64(li.Quantity)
}
