package models

import "time"

// CartLine is one entry of the local cart: a product at a quantity, with an
// optional kitchen note.
type CartLine struct {
	Product  Product `json:"product"`
	Cantidad int     `json:"cantidad"`
	Nota     string  `json:"nota,omitempty"`
}

// Cart is the locally held, not-yet-submitted order. It lives only on the
// kiosk, persisted to the local store with a timestamp, and is cleared on
// successful submission or after the expiry window.
type Cart struct {
	Lines   []CartLine `json:"lines"`
	SavedAt time.Time  `json:"saved_at"`
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineFor returns the cart line for a product id, or nil if absent.
func (c *Cart) LineFor(productID int) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Total sums quantity times unit price across all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Product.PrecioFloat() * float64(l.Cantidad)
	}
	return total
}

// Count sums the quantities across all lines.
func (c Cart) Count() int {
	var n int
	for _, l := range c.Lines {
		n += l.Cantidad
	}
	return n
}
