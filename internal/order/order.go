// Package order aggregates bowls into an order, admits them against the
// daily per-size quotas and prices the result.
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/pokehouse/internal/bowl"
	"github.com/mmynk/pokehouse/internal/models"
)

const (
	// DiscountThreshold is the number of bowls an order must exceed to get
	// the volume discount.
	DiscountThreshold = 4

	// DiscountRate is the fraction taken off the subtotal.
	DiscountRate = 0.10
)

// ErrNotPriced is returned when totals are read from an order that changed
// since ComputeTotal was last called.
var ErrNotPriced = errors.New("order total is stale, call ComputeTotal")

// State is where an order is in its lifecycle.
type State int

const (
	Empty State = iota
	Building
	Priced
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Building:
		return "building"
	case Priced:
		return "priced"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Totals is the result of pricing an order.
type Totals struct {
	Units      int
	Subtotal   float64
	Discount   float64
	Total      float64
	Discounted bool
}

// Order is a list of admitted bowls. It is owned by a single request and
// is not safe for concurrent use; the Ledger it reserves against is.
type Order struct {
	ledger *Ledger
	bowls  []*bowl.Bowl
	// generations[i] is the ledger generation bowls[i] was reserved in.
	generations []uint64
	notes       string

	totals Totals
	priced bool
}

// New creates an empty order that reserves against ledger.
func New(ledger *Ledger) *Order {
	return &Order{ledger: ledger}
}

// AddBowl admits b against the daily quota and appends a snapshot of it.
// Later changes to b do not affect the order. On error the order is left
// unchanged and nothing is reserved.
func (o *Order) AddBowl(b *bowl.Bowl) error {
	if b.Size() == "" {
		return bowl.ErrSizeNotSet
	}
	if b.Amount() < 1 {
		return fmt.Errorf("%w: %d", bowl.ErrInvalidAmount, b.Amount())
	}
	gen, err := o.ledger.reserve(b.Size(), b.Amount())
	if err != nil {
		return err
	}

	o.bowls = append(o.bowls, b.Clone())
	o.generations = append(o.generations, gen)
	o.priced = false
	return nil
}

// RemoveBowl drops the bowl at index i and releases its reservation.
func (o *Order) RemoveBowl(i int) error {
	if i < 0 || i >= len(o.bowls) {
		return fmt.Errorf("bowl index %d out of range [0, %d)", i, len(o.bowls))
	}
	b := o.bowls[i]
	o.ledger.releaseFrom(o.generations[i], b.Size(), b.Amount())

	o.bowls = append(o.bowls[:i], o.bowls[i+1:]...)
	o.generations = append(o.generations[:i], o.generations[i+1:]...)
	o.priced = false
	return nil
}

// Cancel releases every reservation and empties the order. Reservations
// taken before a ledger reset are not released into the new day.
func (o *Order) Cancel() {
	for i, b := range o.bowls {
		o.ledger.releaseFrom(o.generations[i], b.Size(), b.Amount())
	}
	o.bowls = nil
	o.generations = nil
	o.priced = false
}

// SetNotes records special requests or allergy information.
func (o *Order) SetNotes(notes string) {
	o.notes = notes
}

// Notes returns the special requests attached to the order.
func (o *Order) Notes() string { return o.notes }

// Len returns the number of lines on the order.
func (o *Order) Len() int { return len(o.bowls) }

// Bowls returns copies of the order's bowls.
func (o *Order) Bowls() []*bowl.Bowl {
	out := make([]*bowl.Bowl, len(o.bowls))
	for i, b := range o.bowls {
		out[i] = b.Clone()
	}
	return out
}

// State reports the order's lifecycle state.
func (o *Order) State() State {
	switch {
	case len(o.bowls) == 0:
		return Empty
	case o.priced:
		return Priced
	default:
		return Building
	}
}

// ComputeTotal prices the order from scratch. Each bowl's price already
// covers its amount. Orders of more than DiscountThreshold bowls get
// DiscountRate off the subtotal.
func (o *Order) ComputeTotal() (Totals, error) {
	var t Totals
	for _, b := range o.bowls {
		price, err := b.Price()
		if err != nil {
			return Totals{}, err
		}
		t.Subtotal += price
		t.Units += b.Amount()
	}
	t.Subtotal = bowl.RoundCents(t.Subtotal)

	if t.Units > DiscountThreshold {
		t.Discounted = true
		t.Discount = bowl.RoundCents(t.Subtotal * DiscountRate)
	}
	t.Total = bowl.RoundCents(t.Subtotal - t.Discount)

	o.totals = t
	o.priced = len(o.bowls) > 0
	return t, nil
}

// Totals returns the totals from the last ComputeTotal, provided the order
// has not changed since.
func (o *Order) Totals() (Totals, error) {
	if o.State() != Priced {
		return Totals{}, ErrNotPriced
	}
	return o.totals, nil
}

// Record converts a priced order into its persisted form.
func (o *Order) Record(customerID, day string, now time.Time) (*models.Order, error) {
	t, err := o.Totals()
	if err != nil {
		return nil, err
	}

	lines := make([]models.BowlLine, len(o.bowls))
	for i, b := range o.bowls {
		line, err := b.Line()
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}

	return &models.Order{
		CustomerID: customerID,
		Day:        day,
		Notes:      o.notes,
		Bowls:      lines,
		Subtotal:   t.Subtotal,
		Discount:   t.Discount,
		Total:      t.Total,
		Discounted: t.Discounted,
		CreatedAt:  now.Unix(),
	}, nil
}

// DayLayout is the format of business days (YYYY-MM-DD).
const DayLayout = time.DateOnly

// BusinessDay returns the business day t falls on in loc.
func BusinessDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}
