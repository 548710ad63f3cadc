package models

import "github.com/shopspring/decimal"

// Purchase is a shared purchase paid by one participant of a project.
type Purchase struct {
	// ID is the unique identifier for the purchase (UUID format).
	ID string

	// ProjectID is the project the purchase belongs to. Items inherit it.
	ProjectID string

	// PayerID is the user who paid for the purchase.
	PayerID string

	// CreatorID is the user who recorded the purchase.
	CreatorID string

	// Name is a short label, e.g. the store name.
	Name string

	// PurchasedOn is the purchase date (YYYY-MM-DD).
	PurchasedOn string

	// Items are the line items of the purchase.
	Items []Item

	// CreatedAt is the Unix timestamp when the purchase was recorded.
	CreatedAt int64
}

// Item represents a single line item of a purchase.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name describes the item (e.g., "Milk", "Pizza").
	Name string

	// Price is the unit price.
	Price decimal.Decimal

	// Quantity is the number of units.
	Quantity int

	// Discount is subtracted from price × quantity.
	Discount decimal.Decimal

	// Contributors are the user IDs sharing this item equally.
	// An item with no contributors is recorded but affects no balance.
	Contributors []string
}

// Total returns price × quantity − discount.
func (i Item) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))).Sub(i.Discount)
}

// Total returns the sum of all item totals.
func (p *Purchase) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Total())
	}
	return total
}
