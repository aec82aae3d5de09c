package events

import "time"

const (
	OrdersConfirmedTopic = "orders.confirmed"
	MenuUpdatedTopic     = "menu.updated"

	EventOrderConfirmed = "order.confirmed"
)

// OrderConfirmedEvent is published when a staff member confirms an order.
// Downstream consumers (kitchen display, analytics) use the denormalized
// fields and never query back into this service.
type OrderConfirmedEvent struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
}
