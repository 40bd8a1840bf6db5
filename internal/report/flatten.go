package report

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/models"
)

// Row is one (order, item) pair with the parent order's fields copied in.
type Row struct {
	OrderID      uuid.UUID `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	OrderDate    time.Time `json:"orderDate"`
	OrderType    string    `json:"orderType"`
	CustomerName string    `json:"customerName"`
	TableNumber  *int      `json:"tableNumber"`
	IsPaid       bool      `json:"isPaid"`
	IsArchived   bool      `json:"isArchived"`

	MenuItemID uuid.UUID `json:"menuItem"`
	ItemName   string    `json:"itemName"`
	Category   string    `json:"itemCategory"`
	Price      int64     `json:"price"`
	Quantity   int       `json:"quantity"`
	Note       string    `json:"note"`
}

func (r Row) Revenue() int64 {
	return r.Price * int64(r.Quantity)
}

// Flatten yields one row per order item. The sequence holds no state of its
// own, so ranging over it twice walks orders twice. Name and category come
// from the item's resolved display data and are empty when the menu entry
// no longer exists; the price is always the stored snapshot.
func Flatten(orders []models.Order) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := range orders {
			o := &orders[i]
			for _, it := range o.Items {
				r := Row{
					OrderID:      o.ID,
					OrderNumber:  o.OrderNumber,
					OrderDate:    o.OrderDate,
					OrderType:    o.OrderType,
					CustomerName: o.CustomerName,
					TableNumber:  o.TableNumber,
					IsPaid:       o.IsPaid,
					IsArchived:   o.IsArchived,
					MenuItemID:   it.MenuItemID,
					Price:        it.SnapshotPrice,
					Quantity:     it.Quantity,
					Note:         it.Note,
				}
				if d := it.DisplayMenuItem; d != nil {
					r.ItemName = d.Name
					r.Category = d.Category
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}
