package entity

import (
	"encoding/json"
	"time"
)

const (
	EventCartCheckedOut            = "cart.checked_out"
	EventCartCheckoutInventoryFail = "cart.checkout_inventory_failed"
)

type CheckoutEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items"`
	Order     json.RawMessage `json:"order"`
	// Reduced is the number of leading items whose inventory was reduced.
	Reduced int    `json:"reduced"`
	Error   string `json:"error,omitempty"`
}
