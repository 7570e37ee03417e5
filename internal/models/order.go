package models

// Order is a priced order as it is persisted and returned to customers.
// It is produced by the ordering core once all bowls have been admitted
// against the daily ledger and the total has been computed.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// CustomerID identifies who placed the order.
	// There are no accounts; this is whatever the caller sent, or the guest id.
	CustomerID string

	// Day is the business day the order counts against, formatted YYYY-MM-DD.
	// Daily quotas are restored from the orders of the current day.
	Day string

	// Notes holds optional special requests or allergy information.
	Notes string

	// Bowls are the order lines in the order they were added.
	Bowls []BowlLine

	// Subtotal is the sum of the bowl prices before the volume discount.
	Subtotal float64

	// Discount is the amount taken off the subtotal (zero when not applied).
	Discount float64

	// Total is the amount to pay: Subtotal - Discount.
	Total float64

	// Discounted reports whether the volume discount was applied.
	Discounted bool

	// CreatedAt is the Unix timestamp when the order was placed.
	CreatedAt int64
}

// Units returns the number of bowls in the order, counting amounts.
func (o *Order) Units() int {
	n := 0
	for _, b := range o.Bowls {
		n += b.Amount
	}
	return n
}

// BowlLine is one configured bowl on an order.
type BowlLine struct {
	// Size is the bowl size name (e.g., "Large").
	Size string

	// Base is the chosen base; empty if none was chosen.
	Base string

	// Proteins are the chosen proteins in the order they were added.
	Proteins []string

	// Ingredients are the chosen ingredients in the order they were added.
	Ingredients []string

	// Amount is how many bowls of this exact configuration were ordered.
	Amount int

	// Price is the price for the full Amount, surcharges included.
	Price float64
}
