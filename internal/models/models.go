package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "Admin"
	RoleCashier = "Cashier"

	OrderTypeDineIn   = "Dine In"
	OrderTypeTakeAway = "Take Away"

	CategoryFood      = "Food"
	CategoryBeverages = "Beverages"
	CategoryDessert   = "Dessert"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Username     string    `gorm:"not null"                      json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                      json:"-"`
	Role         string    `gorm:"not null;default:Cashier"      json:"role"`
	ProfileImage string    `                                     json:"profileImage"`
	CreatedAt    time.Time `                                     json:"createdAt"`
	UpdatedAt    time.Time `                                     json:"updatedAt"`
}

type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name        string    `gorm:"not null"              json:"name"`
	Description string    `gorm:"not null"              json:"description"`
	Price       int64     `gorm:"not null;check:price>=0" json:"price"`
	Image       string    `                             json:"image"`
	Category    string    `gorm:"index;not null"        json:"category"`
	CreatedAt   time.Time `                             json:"createdAt"`
	UpdatedAt   time.Time `                             json:"updatedAt"`
}

// MenuItemView is the live catalog data attached to an order item for
// display. It deliberately carries no price.
type MenuItemView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Image    string    `json:"image"`
	Category string    `json:"category"`
}

type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"            json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"        json:"-"`
	Position   int       `gorm:"not null"                        json:"-"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null"              json:"menuItem"`
	Quantity   int       `gorm:"not null;check:quantity>0"       json:"quantity"`
	Note       string    `                                       json:"note"`

	// SnapshotPrice is the unit price captured when the item was ordered.
	// Totals are always computed from it.
	SnapshotPrice int64 `gorm:"column:price;not null" json:"price"`

	DisplayMenuItem *MenuItemView `gorm:"-" json:"displayMenuItem,omitempty"`
}

type Order struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"           json:"id"`
	UserID         uuid.UUID   `gorm:"type:uuid;index;not null"       json:"user"`
	OrderNumber    string      `gorm:"uniqueIndex;not null"           json:"orderNumber"`
	OrderDate      time.Time   `gorm:"index;not null"                 json:"orderDate"`
	CustomerName   string      `gorm:"not null"                       json:"customerName"`
	OrderType      string      `gorm:"not null"                       json:"orderType"`
	TableNumber    *int        `                                      json:"tableNumber"`
	Items          []OrderItem `gorm:"foreignKey:OrderID"             json:"items"`
	Subtotal       int64       `gorm:"not null"                       json:"subtotal"`
	Tax            int64       `gorm:"not null"                       json:"tax"`
	Total          int64       `gorm:"not null"                       json:"total"`
	ReceivedAmount int64       `gorm:"not null"                       json:"receivedAmount"`
	Change         int64       `gorm:"not null"                       json:"change"`
	IsArchived     bool        `gorm:"index;not null;default:false"   json:"isArchived"`
	IsPaid         bool        `gorm:"not null;default:false"         json:"isPaid"`
	CreatedAt      time.Time   `                                      json:"createdAt"`
	UpdatedAt      time.Time   `                                      json:"updatedAt"`
}

const (
	StateActive   = "Active"
	StateArchived = "Archived"
)

func (o *Order) State() string {
	if o.IsArchived {
		return StateArchived
	}
	return StateActive
}

// OrderFilter narrows listByOwner. A nil Archived means both states. A zero
// Limit returns every match.
type OrderFilter struct {
	Archived *bool
	Offset   int
	Limit    int
}
