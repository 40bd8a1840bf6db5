package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/pricing"
	"github.com/padipos/padipos/internal/report"
)

type OrderItemRequest struct {
	MenuItem uuid.UUID `json:"menuItem"`
	Quantity int       `json:"quantity"`
	Note     string    `json:"note"`
}

// CheckoutRequest is the body of POST /api/orders. Totals sent by the client
// are not read; they are recomputed from the catalog.
type CheckoutRequest struct {
	OrderNumber    string             `json:"orderNumber"`
	OrderDate      *time.Time         `json:"orderDate"`
	CustomerName   string             `json:"customerName"`
	OrderType      string             `json:"orderType"`
	TableNumber    *int               `json:"tableNumber"`
	Items          []OrderItemRequest `json:"items"`
	ReceivedAmount int64              `json:"receivedAmount"`
}

type UpdateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type PayOrderRequest struct {
	ReceivedAmount int64 `json:"receivedAmount"`
}

func CartItems(items []OrderItemRequest) []pricing.CartItem {
	out := make([]pricing.CartItem, len(items))
	for i, it := range items {
		out[i] = pricing.CartItem{
			MenuItemID: it.MenuItem,
			Quantity:   it.Quantity,
			Note:       it.Note,
		}
	}
	return out
}

type CreateMenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

type PatchMenuItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type UpdateProfileRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profileImage"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SalesReportResponse struct {
	Rows  []report.Row `json:"rows"`
	Stats report.Stats `json:"stats"`
}

type DashboardResponse struct {
	Stats report.Stats        `json:"stats"`
	Chart []report.DayRevenue `json:"chart"`
}

type SummaryResponse struct {
	Bucket report.Bucket      `json:"bucket"`
	Items  []report.NameTotal `json:"items"`
}
