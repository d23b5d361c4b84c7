package notify

import (
	"context"
	"time"

	"varaamo/internal/domain"
)

const (
	EventOrderCreated      = "order.created"
	EventItemStatusChanged = "booking_item.status_changed"
)

type Event struct {
	Type      string    `json:"type"`
	OrderID   int64     `json:"order_id"`
	ItemID    int64     `json:"item_id,omitempty"`
	OrderNum  string    `json:"order_number,omitempty"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Sender pushes booking events to the owner's websocket. Offline users just
// miss the push; the order history endpoint is the durable record.
type Sender struct {
	hub *Hub
}

func NewSender(hub *Hub) *Sender {
	return &Sender{hub: hub}
}

func (s *Sender) NotifyOrderCreated(ctx context.Context, userID, orderID int64, orderNumber string) error {
	s.hub.SendToUser(userID, Event{
		Type:      EventOrderCreated,
		OrderID:   orderID,
		OrderNum:  orderNumber,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (s *Sender) NotifyItemStatusChanged(ctx context.Context, userID, orderID, itemID int64, status domain.BookingStatus) error {
	s.hub.SendToUser(userID, Event{
		Type:      EventItemStatusChanged,
		OrderID:   orderID,
		ItemID:    itemID,
		Status:    string(status),
		Timestamp: time.Now().UTC(),
	})
	return nil
}
