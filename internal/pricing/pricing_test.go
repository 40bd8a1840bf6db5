package pricing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
)

func TestEngine_Tax_RoundsHalfUp(t *testing.T) {
	t.Parallel()

	e := Default()
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 0},
		{14, 1},
		{15, 2},
		{25, 3},
		{58000, 5800},
		{8005, 801},
		{8004, 800},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Tax(tt.subtotal), "subtotal %d", tt.subtotal)
	}
}

func TestEngine_CustomRate(t *testing.T) {
	t.Parallel()

	rate, err := ParseRate("0.11")
	require.NoError(t, err)
	e, err := NewEngine(rate)
	require.NoError(t, err)

	// 1050 * 0.11 = 115.5
	assert.Equal(t, int64(116), e.Tax(1050))

	_, err = ParseRate("ten percent")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = NewEngine(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestEngine_Quote_Properties(t *testing.T) {
	t.Parallel()

	e := Default()
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 500; n++ {
		lines := make([]Line, 1+rng.Intn(6))
		var want int64
		for i := range lines {
			lines[i] = Line{
				MenuItemID: uuid.New(),
				UnitPrice:  int64(rng.Intn(100000)),
				Quantity:   1 + rng.Intn(9),
			}
			want += lines[i].UnitPrice * int64(lines[i].Quantity)
		}
		wantTax := (want + 5) / 10
		tendered := want + wantTax + int64(rng.Intn(50000))

		got, err := e.Quote(lines, tendered)
		require.NoError(t, err)
		assert.Equal(t, want, got.Subtotal)
		assert.Equal(t, wantTax, got.Tax)
		assert.Equal(t, got.Subtotal+got.Tax, got.Total)
		assert.Equal(t, tendered-got.Total, got.Change)

		again, err := e.Quote(lines, tendered)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestEngine_Quote_InsufficientPayment(t *testing.T) {
	t.Parallel()

	lines := []Line{{MenuItemID: uuid.New(), UnitPrice: 25000, Quantity: 2}}

	_, err := Default().Quote(lines, 54999)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInsufficientPayment)

	got, err := Default().Quote(lines, 55000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Change)
}

func TestEngine_Compute_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []Line
	}{
		{name: "empty cart", lines: nil},
		{name: "zero quantity", lines: []Line{{UnitPrice: 100, Quantity: 0}}},
		{name: "negative price", lines: []Line{{UnitPrice: -1, Quantity: 1}}},
		{name: "line overflows int64", lines: []Line{{UnitPrice: 5e18, Quantity: 2}}},
		{name: "sum overflows int64", lines: []Line{{UnitPrice: math.MaxInt64 / 2, Quantity: 1}, {UnitPrice: math.MaxInt64 / 2, Quantity: 1}}},
		{name: "huge quantity", lines: []Line{{UnitPrice: 25000, Quantity: 400000000000000}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Default().Compute(tt.lines)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestEngine_Quote_OverflowNotSettled(t *testing.T) {
	t.Parallel()

	_, err := Default().Quote([]Line{{UnitPrice: 5e18, Quantity: 2}}, 0)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.NotErrorIs(t, err, apperr.ErrInsufficientPayment)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	nasi := models.MenuItem{ID: uuid.New(), Name: "Nasi Goreng Spesial", Price: 25000, Category: models.CategoryFood}
	teh := models.MenuItem{ID: uuid.New(), Name: "Es Teh Manis", Price: 8000, Category: models.CategoryBeverages}
	catalog := map[uuid.UUID]models.MenuItem{nasi.ID: nasi, teh.ID: teh}

	lines, err := Resolve([]CartItem{
		{MenuItemID: nasi.ID, Quantity: 2, Note: "pedas"},
		{MenuItemID: teh.ID, Quantity: 1},
	}, catalog)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(25000), lines[0].UnitPrice)
	assert.Equal(t, "pedas", lines[0].Note)
	assert.Equal(t, int64(8000), lines[1].UnitPrice)

	totals, err := Default().Compute(lines)
	require.NoError(t, err)
	assert.Equal(t, Totals{Subtotal: 58000, Tax: 5800, Total: 63800}, totals)

	missing := uuid.New()
	_, err = Resolve([]CartItem{{MenuItemID: missing, Quantity: 1}}, catalog)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), missing.String())

	_, err = Resolve([]CartItem{{MenuItemID: nasi.ID, Quantity: 0}}, catalog)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = Resolve(nil, catalog)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLinesItemsRoundTrip_KeepsSnapshotPrice(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{MenuItemID: uuid.New(), UnitPrice: 15000, Quantity: 1, Note: "a"},
		{MenuItemID: uuid.New(), UnitPrice: 8000, Quantity: 3},
	}
	items := ItemsFromLines(lines)
	assert.Equal(t, 1, items[1].Position)
	assert.Equal(t, int64(15000), items[0].SnapshotPrice)
	assert.Equal(t, lines, LinesFromItems(items))
}
