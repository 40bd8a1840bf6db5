// Package pricing computes order totals from a cart. Everything here is pure:
// the catalog is handed in as a snapshot and nothing is persisted.
package pricing

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
)

var DefaultTaxRate = decimal.RequireFromString("0.10")

// maxTotal is the largest total an order can carry in an int64 column.
var maxTotal = decimal.NewFromInt(math.MaxInt64)

type CartItem struct {
	MenuItemID uuid.UUID
	Quantity   int
	Note       string
}

type Line struct {
	MenuItemID uuid.UUID
	UnitPrice  int64
	Quantity   int
	Note       string
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
	Change   int64 `json:"change"`
}

type Engine struct {
	rate decimal.Decimal
}

func NewEngine(rate decimal.Decimal) (*Engine, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: tax rate must be >= 0", apperr.ErrValidation)
	}
	return &Engine{rate: rate}, nil
}

func Default() *Engine {
	return &Engine{rate: DefaultTaxRate}
}

func ParseRate(s string) (decimal.Decimal, error) {
	r, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tax rate %q: %v", apperr.ErrValidation, s, err)
	}
	if r.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: tax rate must be >= 0", apperr.ErrValidation)
	}
	return r, nil
}

func (e *Engine) Rate() decimal.Decimal {
	return e.rate
}

// Tax is subtotal*rate rounded to a whole currency unit, halves rounding up.
func (e *Engine) Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(e.rate).Round(0).IntPart()
}

// Resolve prices a cart against a catalog snapshot. Every unit price comes
// from the catalog; an unknown reference is a validation error naming it.
func Resolve(cart []CartItem, catalog map[uuid.UUID]models.MenuItem) ([]Line, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", apperr.ErrValidation)
	}

	lines := make([]Line, 0, len(cart))
	for i, it := range cart {
		if it.MenuItemID == uuid.Nil {
			return nil, fmt.Errorf("%w: items[%d].menuItem required", apperr.ErrValidation, i)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: items[%d].quantity must be >= 1", apperr.ErrValidation, i)
		}
		mi, ok := catalog[it.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: menu item %s not found", apperr.ErrValidation, it.MenuItemID)
		}
		lines = append(lines, Line{
			MenuItemID: it.MenuItemID,
			UnitPrice:  mi.Price,
			Quantity:   it.Quantity,
			Note:       it.Note,
		})
	}
	return lines, nil
}

// Compute returns subtotal, tax and total for already priced lines.
// Change is left at zero.
func (e *Engine) Compute(lines []Line) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("%w: order must contain at least one item", apperr.ErrValidation)
	}

	subtotal := decimal.Zero
	for i, l := range lines {
		if l.Quantity < 1 {
			return Totals{}, fmt.Errorf("%w: items[%d].quantity must be >= 1", apperr.ErrValidation, i)
		}
		if l.UnitPrice < 0 {
			return Totals{}, fmt.Errorf("%w: items[%d].price must be >= 0", apperr.ErrValidation, i)
		}
		subtotal = subtotal.Add(decimal.NewFromInt(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	tax := subtotal.Mul(e.rate).Round(0)
	total := subtotal.Add(tax)
	if total.GreaterThan(maxTotal) {
		return Totals{}, fmt.Errorf("%w: order total %s is out of range", apperr.ErrValidation, total)
	}
	return Totals{
		Subtotal: subtotal.IntPart(),
		Tax:      tax.IntPart(),
		Total:    total.IntPart(),
	}, nil
}

// Quote is Compute plus settlement against the tendered amount.
func (e *Engine) Quote(lines []Line, tendered int64) (Totals, error) {
	t, err := e.Compute(lines)
	if err != nil {
		return Totals{}, err
	}
	if err := Settle(&t, tendered); err != nil {
		return Totals{}, err
	}
	return t, nil
}

// Settle fills in Change, failing when tendered does not cover the total.
func Settle(t *Totals, tendered int64) error {
	if tendered < 0 {
		return fmt.Errorf("%w: receivedAmount must be >= 0", apperr.ErrValidation)
	}
	if tendered < t.Total {
		return fmt.Errorf("%w: received %d, total %d", apperr.ErrInsufficientPayment, tendered, t.Total)
	}
	t.Change = tendered - t.Total
	return nil
}

func LinesFromItems(items []models.OrderItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{
			MenuItemID: it.MenuItemID,
			UnitPrice:  it.SnapshotPrice,
			Quantity:   it.Quantity,
			Note:       it.Note,
		}
	}
	return lines
}

func ItemsFromLines(lines []Line) []models.OrderItem {
	items := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = models.OrderItem{
			Position:      i,
			MenuItemID:    l.MenuItemID,
			Quantity:      l.Quantity,
			Note:          l.Note,
			SnapshotPrice: l.UnitPrice,
		}
	}
	return items
}
