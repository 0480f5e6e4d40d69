package model

import "time"

// Order statuses used by the kitchen workflow.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists all statuses accepted by the status filter and the
// status update endpoint.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Payment methods accepted at checkout.
const (
	PaymentCash = "cash"
	PaymentUPI  = "upi"
	PaymentCard = "card"
)

// OrderRequest is the payload for creating an order. It is a snapshot of
// the cart plus customer fields, immutable once sent; a retry builds a
// new snapshot.
type OrderRequest struct {
	CustomerName        string             `json:"customer_name" validate:"required"`
	CustomerPhone       string             `json:"customer_phone" validate:"required"`
	CustomerEmail       string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	RoomNumber          string             `json:"room_number,omitempty"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
	PaymentMethod       string             `json:"payment_method,omitempty"`
	Items               []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// OrderItemRequest is a single line in an order request. Price is
// advisory only; the server recomputes pricing from the catalogue.
type OrderItemRequest struct {
	MenuItem int64   `json:"menu_item"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// Order is the server's view of a created order.
type Order struct {
	ID                  int64       `json:"id"`
	CustomerName        string      `json:"customer_name"`
	CustomerPhone       string      `json:"customer_phone"`
	CustomerEmail       string      `json:"customer_email,omitempty"`
	RoomNumber          string      `json:"room_number,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	PaymentMethod       string      `json:"payment_method,omitempty"`
	Status              string      `json:"status"`
	TotalPrice          Decimal     `json:"total_price"`
	Items               []OrderItem `json:"items,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// OrderItem is a line item on a created order.
type OrderItem struct {
	ID           int64   `json:"id"`
	MenuItem     int64   `json:"menu_item"`
	MenuItemName string  `json:"menu_item_name,omitempty"`
	Quantity     int     `json:"quantity"`
	Subtotal     Decimal `json:"subtotal"`
}

// Push-channel event kinds.
const (
	EventNewOrder    = "new_order"
	EventOrderUpdate = "order_update"
)

// OrderStatusEvent is an inbound push-channel message. Only the type tag
// is relied upon; the event acts as a cache-invalidation signal and any
// extra payload is ignored.
type OrderStatusEvent struct {
	Type string `json:"type"`
}
