package notify

import (
	"time"

	"github.com/tumblera/tumblera-backend/internal/cart"
)

// EventTypeOrderPlaced tags order events on the wire.
const EventTypeOrderPlaced = "order.placed"

// OrderPlaced is published after a checkout succeeds and drives the
// confirmation emails.
type OrderPlaced struct {
	EventID         string      `json:"event_id"`
	OrderID         int64       `json:"order_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	CustomerNotes   string      `json:"customer_notes"`
	Items           []cart.Item `json:"items"`
	Totals          cart.Totals `json:"totals"`
	PlacedAt        time.Time   `json:"placed_at"`
}
