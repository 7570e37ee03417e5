// Package catalog holds the menu reference data: bowl sizes with their
// pricing and capacity rules, and the sets of bases, proteins and
// ingredients a bowl may contain.
//
// A Catalog is loaded once at startup (built-in defaults or a YAML file)
// and never mutated afterwards, so it is safe to share across goroutines.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSize is returned by SizeSpec when the name is not one of the
// defined sizes. Callers that validated the size beforehand should treat
// it as a programming error.
var ErrUnknownSize = errors.New("unknown size")

// SizeCount is the number of bowl sizes every catalog must define.
const SizeCount = 3

// SizeSpec describes one bowl size.
type SizeSpec struct {
	// Name is the display name of the size (e.g., "Regular", "Large").
	Name string `yaml:"name"`

	// BasePrice is the price of one bowl of this size before surcharges.
	BasePrice float64 `yaml:"base_price"`

	// MaxProteins is the number of proteins a bowl of this size may hold.
	MaxProteins int `yaml:"max_proteins"`

	// FreeIngredients is how many ingredients are included in BasePrice.
	// Every ingredient beyond it adds a surcharge.
	FreeIngredients int `yaml:"free_ingredients"`

	// DailyQuota is the number of bowls of this size that can be sold per day.
	DailyQuota int `yaml:"daily_quota"`
}

// Catalog is the immutable menu.
type Catalog struct {
	sizes       []SizeSpec
	bases       []string
	proteins    []string
	ingredients []string
}

// file is the YAML layout accepted by Load and Parse.
type file struct {
	Sizes       []SizeSpec `yaml:"sizes"`
	Bases       []string   `yaml:"bases"`
	Proteins    []string   `yaml:"proteins"`
	Ingredients []string   `yaml:"ingredients"`
}

// Default returns the house menu.
func Default() *Catalog {
	c, err := New(
		[]SizeSpec{
			{Name: "Regular", BasePrice: 9, MaxProteins: 1, FreeIngredients: 4, DailyQuota: 10},
			{Name: "Medium", BasePrice: 11, MaxProteins: 2, FreeIngredients: 4, DailyQuota: 8},
			{Name: "Large", BasePrice: 14, MaxProteins: 3, FreeIngredients: 6, DailyQuota: 6},
		},
		[]string{"rice", "black rice", "salad"},
		[]string{"tuna", "chicken", "salmon", "tofu"},
		[]string{"avocado", "ananas", "cashew nuts", "kale", "mango", "peppers", "corn", "wakame", "tomatoes", "carrots", "salad"},
	)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid default menu: %v", err))
	}
	return c
}

// New validates the given data and builds a Catalog from copies of it.
func New(sizes []SizeSpec, bases, proteins, ingredients []string) (*Catalog, error) {
	if len(sizes) != SizeCount {
		return nil, fmt.Errorf("catalog must define exactly %d sizes, got %d", SizeCount, len(sizes))
	}
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		switch {
		case s.Name == "":
			return nil, fmt.Errorf("size name cannot be empty")
		case seen[s.Name]:
			return nil, fmt.Errorf("duplicate size %q", s.Name)
		case s.BasePrice <= 0:
			return nil, fmt.Errorf("size %q: base price must be positive", s.Name)
		case s.MaxProteins < 1:
			return nil, fmt.Errorf("size %q: must allow at least one protein", s.Name)
		case s.FreeIngredients < 0:
			return nil, fmt.Errorf("size %q: free ingredients cannot be negative", s.Name)
		case s.DailyQuota < 1:
			return nil, fmt.Errorf("size %q: daily quota must be positive", s.Name)
		}
		seen[s.Name] = true
	}
	for kind, names := range map[string][]string{"base": bases, "protein": proteins, "ingredient": ingredients} {
		if err := checkNames(kind, names); err != nil {
			return nil, err
		}
	}

	return &Catalog{
		sizes:       slices.Clone(sizes),
		bases:       slices.Clone(bases),
		proteins:    slices.Clone(proteins),
		ingredients: slices.Clone(ingredients),
	}, nil
}

func checkNames(kind string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("catalog must define at least one %s", kind)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%s name cannot be empty", kind)
		}
		if seen[n] {
			return fmt.Errorf("duplicate %s %q", kind, n)
		}
		seen[n] = true
	}
	return nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Sizes, f.Bases, f.Proteins, f.Ingredients)
}

// IsValidSize reports whether name is one of the defined sizes.
func (c *Catalog) IsValidSize(name string) bool {
	_, err := c.SizeSpec(name)
	return err == nil
}

// IsValidBase reports whether name is an available base.
func (c *Catalog) IsValidBase(name string) bool {
	return slices.Contains(c.bases, name)
}

// IsValidProtein reports whether name is an available protein.
func (c *Catalog) IsValidProtein(name string) bool {
	return slices.Contains(c.proteins, name)
}

// IsValidIngredient reports whether name is an available ingredient.
func (c *Catalog) IsValidIngredient(name string) bool {
	return slices.Contains(c.ingredients, name)
}

// SizeSpec returns the rules for the named size.
func (c *Catalog) SizeSpec(name string) (SizeSpec, error) {
	for _, s := range c.sizes {
		if s.Name == name {
			return s, nil
		}
	}
	return SizeSpec{}, fmt.Errorf("%w: %q", ErrUnknownSize, name)
}

// Sizes returns the sizes in menu order.
func (c *Catalog) Sizes() []SizeSpec { return slices.Clone(c.sizes) }

// Bases returns the available bases.
func (c *Catalog) Bases() []string { return slices.Clone(c.bases) }

// Proteins returns the available proteins.
func (c *Catalog) Proteins() []string { return slices.Clone(c.proteins) }

// Ingredients returns the available ingredients.
func (c *Catalog) Ingredients() []string { return slices.Clone(c.ingredients) }
