// Package bowl implements a single configurable poke bowl.
//
// Every mutation is validated against the catalog as it happens, so a bowl
// is never in an illegal state: a rejected call returns an error and leaves
// the bowl exactly as it was.
package bowl

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/mmynk/pokehouse/internal/catalog"
	"github.com/mmynk/pokehouse/internal/models"
)

var (
	ErrInvalidSize          = errors.New("invalid size")
	ErrInvalidBase          = errors.New("invalid base")
	ErrInvalidProtein       = errors.New("invalid protein")
	ErrInvalidIngredient    = errors.New("invalid ingredient")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrSizeNotSet           = errors.New("bowl size not set")
	ErrProteinLimitExceeded = errors.New("protein limit exceeded")
)

// ExtraIngredientRate is the surcharge per ingredient beyond the size's
// free allowance, as a fraction of the base price.
const ExtraIngredientRate = 0.20

// Bowl is one order line under construction. It is not safe for
// concurrent use; a bowl belongs to the request building it.
type Bowl struct {
	catalog     *catalog.Catalog
	size        string
	base        string
	proteins    []string
	ingredients []string
	amount      int
}

// New creates a bowl with an amount of one. An empty size leaves the size
// unset; size-dependent operations then fail with ErrSizeNotSet.
func New(c *catalog.Catalog, size string) (*Bowl, error) {
	b := &Bowl{catalog: c, amount: 1}
	if size == "" {
		return b, nil
	}
	if err := b.SetSize(size); err != nil {
		return nil, err
	}
	return b, nil
}

// SetSize sets the bowl size. It fails with ErrProteinLimitExceeded when
// the bowl already holds more proteins than the size allows.
func (b *Bowl) SetSize(size string) error {
	if !b.catalog.IsValidSize(size) {
		return fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	spec, err := b.catalog.SizeSpec(size)
	if err != nil {
		return err
	}
	if len(b.proteins) > spec.MaxProteins {
		return fmt.Errorf("%w: %s bowls allow %d, bowl has %d", ErrProteinLimitExceeded, size, spec.MaxProteins, len(b.proteins))
	}
	b.size = size
	return nil
}

// SetAmount sets how many bowls of this configuration are ordered.
func (b *Bowl) SetAmount(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, n)
	}
	b.amount = n
	return nil
}

// SetBase chooses the base, replacing any previous choice.
func (b *Bowl) SetBase(base string) error {
	if !b.catalog.IsValidBase(base) {
		return fmt.Errorf("%w: %q", ErrInvalidBase, base)
	}
	b.base = base
	return nil
}

// AddProtein appends a protein. The same protein may be added more than
// once. With a size set, the size's protein cap is enforced; without one,
// any number of proteins is accepted.
func (b *Bowl) AddProtein(protein string) error {
	if !b.catalog.IsValidProtein(protein) {
		return fmt.Errorf("%w: %q", ErrInvalidProtein, protein)
	}
	if b.size != "" {
		spec, err := b.catalog.SizeSpec(b.size)
		if err != nil {
			return err
		}
		if len(b.proteins) >= spec.MaxProteins {
			return fmt.Errorf("%w: %s bowls allow %d, cannot add %q", ErrProteinLimitExceeded, b.size, spec.MaxProteins, protein)
		}
	}
	b.proteins = append(b.proteins, protein)
	return nil
}

// AddIngredient appends an ingredient. There is no cap; ingredients past
// the free allowance are charged by Price.
func (b *Bowl) AddIngredient(ingredient string) error {
	if !b.catalog.IsValidIngredient(ingredient) {
		return fmt.Errorf("%w: %q", ErrInvalidIngredient, ingredient)
	}
	b.ingredients = append(b.ingredients, ingredient)
	return nil
}

// RemoveProtein removes the first occurrence of protein.
func (b *Bowl) RemoveProtein(protein string) error {
	i := slices.Index(b.proteins, protein)
	if i < 0 {
		return fmt.Errorf("%w: %q is not in the bowl", ErrInvalidProtein, protein)
	}
	b.proteins = slices.Delete(b.proteins, i, i+1)
	return nil
}

// RemoveIngredient removes the first occurrence of ingredient.
func (b *Bowl) RemoveIngredient(ingredient string) error {
	i := slices.Index(b.ingredients, ingredient)
	if i < 0 {
		return fmt.Errorf("%w: %q is not in the bowl", ErrInvalidIngredient, ingredient)
	}
	b.ingredients = slices.Delete(b.ingredients, i, i+1)
	return nil
}

// Price returns the price of the bowl for its full amount:
//
//	base*amount + max(0, ingredients-free) * 0.20 * base*amount
//
// rounded to cents.
func (b *Bowl) Price() (float64, error) {
	if b.size == "" {
		return 0, ErrSizeNotSet
	}
	spec, err := b.catalog.SizeSpec(b.size)
	if err != nil {
		return 0, err
	}

	base := spec.BasePrice * float64(b.amount)
	var surcharge float64
	if extra := len(b.ingredients) - spec.FreeIngredients; extra > 0 {
		surcharge = float64(extra) * ExtraIngredientRate * base
	}
	return RoundCents(base + surcharge), nil
}

// Size returns the size name, or "" if unset.
func (b *Bowl) Size() string { return b.size }

// Base returns the chosen base, or "" if none.
func (b *Bowl) Base() string { return b.base }

// Amount returns how many bowls of this configuration are ordered.
func (b *Bowl) Amount() int { return b.amount }

// Proteins returns a copy of the chosen proteins.
func (b *Bowl) Proteins() []string { return slices.Clone(b.proteins) }

// Ingredients returns a copy of the chosen ingredients.
func (b *Bowl) Ingredients() []string { return slices.Clone(b.ingredients) }

// Clone returns an independent copy of the bowl.
func (b *Bowl) Clone() *Bowl {
	c := *b
	c.proteins = slices.Clone(b.proteins)
	c.ingredients = slices.Clone(b.ingredients)
	return &c
}

// Line returns the bowl as a priced order line.
func (b *Bowl) Line() (models.BowlLine, error) {
	price, err := b.Price()
	if err != nil {
		return models.BowlLine{}, err
	}
	return models.BowlLine{
		Size:        b.size,
		Base:        b.base,
		Proteins:    b.Proteins(),
		Ingredients: b.Ingredients(),
		Amount:      b.amount,
		Price:       price,
	}, nil
}

// RoundCents rounds a money amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
