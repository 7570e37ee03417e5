package bowl

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pokehouse/internal/catalog"
)

var menu = catalog.Default()

func newBowl(t *testing.T, size string) *Bowl {
	t.Helper()
	b, err := New(menu, size)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := newBowl(t, "Medium")
	assert.Equal(t, "Medium", b.Size())
	assert.Equal(t, 1, b.Amount())
	assert.Empty(t, b.Base())

	_, err := New(menu, "Huge")
	assert.ErrorIs(t, err, ErrInvalidSize)

	unsized := newBowl(t, "")
	assert.Empty(t, unsized.Size())
	_, err = unsized.Price()
	assert.ErrorIs(t, err, ErrSizeNotSet)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(b *Bowl) error
		wantErr error
	}{
		{"bad size", func(b *Bowl) error { return b.SetSize("XL") }, ErrInvalidSize},
		{"zero amount", func(b *Bowl) error { return b.SetAmount(0) }, ErrInvalidAmount},
		{"negative amount", func(b *Bowl) error { return b.SetAmount(-3) }, ErrInvalidAmount},
		{"bad base", func(b *Bowl) error { return b.SetBase("noodles") }, ErrInvalidBase},
		{"bad protein", func(b *Bowl) error { return b.AddProtein("beef") }, ErrInvalidProtein},
		{"bad ingredient", func(b *Bowl) error { return b.AddIngredient("cheese") }, ErrInvalidIngredient},
		{"remove missing protein", func(b *Bowl) error { return b.RemoveProtein("tuna") }, ErrInvalidProtein},
		{"remove missing ingredient", func(b *Bowl) error { return b.RemoveIngredient("corn") }, ErrInvalidIngredient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBowl(t, "Regular")
			before := b.Clone()

			err := tt.apply(b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.Equal(t, before, b, "failed mutation must leave the bowl unchanged")
		})
	}
}

func TestErrorMessageNamesValue(t *testing.T) {
	err := newBowl(t, "Regular").SetBase("noodles")
	assert.EqualError(t, err, `invalid base: "noodles"`)
}

func TestSetBaseOverwrites(t *testing.T) {
	b := newBowl(t, "Regular")
	require.NoError(t, b.SetBase("rice"))
	require.NoError(t, b.SetBase("salad"))
	assert.Equal(t, "salad", b.Base())
}

func TestProteinLimit(t *testing.T) {
	for _, spec := range menu.Sizes() {
		t.Run(spec.Name, func(t *testing.T) {
			b := newBowl(t, spec.Name)
			for i := 0; i < spec.MaxProteins; i++ {
				require.NoError(t, b.AddProtein("tuna"), "addition %d", i+1)
			}
			err := b.AddProtein("tofu")
			assert.ErrorIs(t, err, ErrProteinLimitExceeded)
			assert.Len(t, b.Proteins(), spec.MaxProteins)
		})
	}
}

func TestProteinLimitWithoutSize(t *testing.T) {
	b := newBowl(t, "")
	for i := 0; i < 5; i++ {
		require.NoError(t, b.AddProtein("salmon"))
	}
	assert.Len(t, b.Proteins(), 5)
}

func TestSetSizeChecksExistingProteins(t *testing.T) {
	b := newBowl(t, "")
	for _, p := range []string{"tuna", "salmon", "chicken"} {
		require.NoError(t, b.AddProtein(p))
	}

	for _, size := range []string{"Regular", "Medium"} {
		err := b.SetSize(size)
		assert.ErrorIs(t, err, ErrProteinLimitExceeded, size)
		assert.Empty(t, b.Size(), "rejected resize leaves the bowl unchanged")
	}
	assert.Len(t, b.Proteins(), 3)

	require.NoError(t, b.SetSize("Large"))
	assert.ErrorIs(t, b.SetSize("Regular"), ErrProteinLimitExceeded)
	assert.Equal(t, "Large", b.Size())

	require.NoError(t, b.RemoveProtein("salmon"))
	require.NoError(t, b.RemoveProtein("chicken"))
	require.NoError(t, b.SetSize("Regular"))
}

func TestRemove(t *testing.T) {
	b := newBowl(t, "Medium")
	require.NoError(t, b.AddProtein("tuna"))
	require.NoError(t, b.AddProtein("tuna"))
	require.NoError(t, b.RemoveProtein("tuna"))
	assert.Equal(t, []string{"tuna"}, b.Proteins())

	for _, ing := range []string{"kale", "corn", "kale"} {
		require.NoError(t, b.AddIngredient(ing))
	}
	require.NoError(t, b.RemoveIngredient("kale"))
	assert.Equal(t, []string{"corn", "kale"}, b.Ingredients())
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name        string
		size        string
		amount      int
		ingredients []string
		want        float64
	}{
		{
			name:        "large within allowance",
			size:        "Large",
			amount:      1,
			ingredients: []string{"peppers", "corn"},
			want:        14.00,
		},
		{
			name:        "large with two extra ingredients",
			size:        "Large",
			amount:      1,
			ingredients: []string{"peppers", "corn", "avocado", "ananas", "kale", "mango", "wakame", "tomatoes"},
			want:        19.60,
		},
		{
			name:        "regular times three",
			size:        "Regular",
			amount:      3,
			ingredients: []string{"wakame", "carrots"},
			want:        27.00,
		},
		{
			name:        "medium one extra times two",
			size:        "Medium",
			amount:      2,
			ingredients: []string{"kale", "kale", "corn", "mango", "avocado"},
			want:        26.40, // 22 + 0.2*22
		},
		{
			name:   "no ingredients",
			size:   "Regular",
			amount: 1,
			want:   9.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBowl(t, tt.size)
			require.NoError(t, b.SetAmount(tt.amount))
			require.NoError(t, b.SetBase("rice"))
			for _, ing := range tt.ingredients {
				require.NoError(t, b.AddIngredient(ing))
			}

			got, err := b.Price()
			require.NoError(t, err)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Price() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceScenarioLarge(t *testing.T) {
	b := newBowl(t, "Large")
	require.NoError(t, b.SetAmount(1))
	require.NoError(t, b.SetBase("rice"))
	require.NoError(t, b.AddProtein("chicken"))
	require.NoError(t, b.AddProtein("salmon"))
	require.NoError(t, b.AddIngredient("peppers"))
	require.NoError(t, b.AddIngredient("corn"))

	price, err := b.Price()
	require.NoError(t, err)
	assert.InDelta(t, 14.00, price, 0.001)
}

func TestPriceAllowanceBoundary(t *testing.T) {
	ingredients := menu.Ingredients()
	for _, spec := range menu.Sizes() {
		for _, amount := range []int{1, 2, 5} {
			b := newBowl(t, spec.Name)
			require.NoError(t, b.SetAmount(amount))
			for i := 0; i < spec.FreeIngredients; i++ {
				require.NoError(t, b.AddIngredient(ingredients[i%len(ingredients)]))
			}
			atAllowance, err := b.Price()
			require.NoError(t, err)
			assert.InDelta(t, spec.BasePrice*float64(amount), atAllowance, 0.001, "%s x%d at allowance", spec.Name, amount)

			require.NoError(t, b.AddIngredient("corn"))
			over, err := b.Price()
			require.NoError(t, err)
			assert.InDelta(t, ExtraIngredientRate*spec.BasePrice*float64(amount), over-atAllowance, 0.001, "%s x%d one over", spec.Name, amount)
		}
	}
}

func TestPriceMonotonic(t *testing.T) {
	for _, spec := range menu.Sizes() {
		b := newBowl(t, spec.Name)
		prev := 0.0
		for n := 0; n < 12; n++ {
			if n > 0 {
				require.NoError(t, b.AddIngredient("avocado"))
			}
			p, err := b.Price()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, prev, "%s ingredients=%d", spec.Name, n)
			prev = p
		}

		prev = 0
		for amount := 1; amount <= 10; amount++ {
			require.NoError(t, b.SetAmount(amount))
			p, err := b.Price()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, prev, "%s amount=%d", spec.Name, amount)
			prev = p
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := newBowl(t, "Large")
	require.NoError(t, b.AddProtein("tuna"))
	c := b.Clone()

	require.NoError(t, b.AddProtein("tofu"))
	require.NoError(t, b.AddIngredient("corn"))
	assert.Equal(t, []string{"tuna"}, c.Proteins())
	assert.Empty(t, c.Ingredients())
}

func TestLine(t *testing.T) {
	b := newBowl(t, "Medium")
	require.NoError(t, b.SetAmount(2))
	require.NoError(t, b.SetBase("black rice"))
	require.NoError(t, b.AddProtein("tofu"))
	require.NoError(t, b.AddIngredient("kale"))

	line, err := b.Line()
	require.NoError(t, err)
	assert.Equal(t, "Medium", line.Size)
	assert.Equal(t, "black rice", line.Base)
	assert.Equal(t, []string{"tofu"}, line.Proteins)
	assert.Equal(t, []string{"kale"}, line.Ingredients)
	assert.Equal(t, 2, line.Amount)
	assert.InDelta(t, 22.0, line.Price, 0.001)

	_, err = newBowl(t, "").Line()
	assert.ErrorIs(t, err, ErrSizeNotSet)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 19.6, RoundCents(14+2*0.2*14))
	assert.Equal(t, 54.9, RoundCents(61*0.9))
	assert.Equal(t, 12.35, RoundCents(12.3456))
}
