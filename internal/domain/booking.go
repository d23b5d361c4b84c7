package domain

import "time"

// BookingStatus is shared by orders and their items. The original data had
// both "cancelled" and "cancelled by user" as loose string literals; here the
// user-initiated variant is canonicalized to cancelled_by_user.
type BookingStatus string

const (
	BookingPending         BookingStatus = "pending"
	BookingConfirmed       BookingStatus = "confirmed"
	BookingPaid            BookingStatus = "paid"
	BookingCompleted       BookingStatus = "completed"
	BookingCancelled       BookingStatus = "cancelled"
	BookingCancelledByUser BookingStatus = "cancelled_by_user"
	BookingRejected        BookingStatus = "rejected"
	BookingRefunded        BookingStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// bookingTransitions is the full lifecycle table. cancelled_by_user is only
// reachable from pending and confirmed, and only by the booking owner (the
// ownership check lives in the booking service, not here).
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingRejected, BookingCancelledByUser},
	BookingConfirmed: {BookingPaid, BookingCancelled, BookingCancelledByUser},
	BookingPaid:      {BookingCompleted, BookingCancelled, BookingRefunded},
}

func CanTransition(from, to BookingStatus) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions. Items in a
// terminal status no longer consume ledger capacity.
func IsTerminal(s BookingStatus) bool {
	switch s {
	case BookingCompleted, BookingRejected, BookingRefunded, BookingCancelled, BookingCancelledByUser:
		return true
	}
	return false
}

// ConsumesCapacity reports whether a booking item in this status counts
// against the owned quantity of its organization item.
func ConsumesCapacity(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingPaid:
		return true
	}
	return false
}

// terminalPrecedence orders terminal outcomes worst-first for order
// aggregation: one rejected item makes the whole order rejected even if the
// rest completed.
var terminalPrecedence = []BookingStatus{
	BookingRejected,
	BookingCancelled,
	BookingCancelledByUser,
	BookingRefunded,
	BookingCompleted,
}

var progressRank = map[BookingStatus]int{
	BookingPending:   0,
	BookingConfirmed: 1,
	BookingPaid:      2,
}

// AggregateOrderStatus derives the order-level status from its items. An
// order is confirmed (or paid) only once every non-terminal item has reached
// at least that stage; it becomes terminal only when all items are terminal,
// taking the worst outcome by precedence.
func AggregateOrderStatus(items []BookingStatus) BookingStatus {
	if len(items) == 0 {
		return BookingPending
	}

	open := make([]BookingStatus, 0, len(items))
	for _, s := range items {
		if !IsTerminal(s) {
			open = append(open, s)
		}
	}

	if len(open) == 0 {
		for _, worst := range terminalPrecedence {
			for _, s := range items {
				if s == worst {
					return worst
				}
			}
		}
		return BookingCompleted
	}

	min := progressRank[open[0]]
	for _, s := range open[1:] {
		if progressRank[s] < min {
			min = progressRank[s]
		}
	}
	switch min {
	case 2:
		return BookingPaid
	case 1:
		return BookingConfirmed
	default:
		return BookingPending
	}
}

// BookingOrder groups the items of one booking request. Orders and items are
// never deleted; cancellation is a status change so history survives.
type BookingOrder struct {
	ID             int64          `json:"id"`
	OrderNumber    string         `json:"order_number" gorm:"uniqueIndex;size:32"`
	UserID         int64          `json:"user_id" gorm:"index"`
	Status         BookingStatus  `json:"status"`
	PaymentStatus  *PaymentStatus `json:"payment_status,omitempty"`
	TotalAmount    float64        `json:"total_amount"`
	DiscountAmount float64        `json:"discount_amount"`
	FinalAmount    float64        `json:"final_amount"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Items []BookingItem `json:"items,omitempty" gorm:"foreignKey:BookingOrderID"`
}

// BookingItem reserves Quantity units of one organization item over the
// half-open day interval [StartDate, EndDate), both normalized to UTC
// midnight.
type BookingItem struct {
	ID             int64         `json:"id"`
	BookingOrderID int64         `json:"booking_order_id" gorm:"index"`
	OrgItemID      int64         `json:"org_item_id" gorm:"index"`
	Quantity       int           `json:"quantity" validate:"gte=1"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	TotalDays      int           `json:"total_days"`
	Status         BookingStatus `json:"status"`
	Subtotal       float64       `json:"subtotal"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Overlaps tests two half-open intervals.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
