package booking

import (
	"context"

	"varaamo/internal/domain"
)

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	Create(ctx context.Context, o *domain.BookingOrder) error
	GetOrder(ctx context.Context, id int64) (*domain.BookingOrder, error)
	GetItem(ctx context.Context, id int64) (*domain.BookingItem, error)
	ItemsForOrder(ctx context.Context, orderID int64) ([]domain.BookingItem, error)
	UpdateItemStatus(ctx context.Context, itemID int64, status domain.BookingStatus) error
	UpdateItemStatuses(ctx context.Context, itemIDs []int64, status domain.BookingStatus) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID int64, status domain.PaymentStatus) error
	OrdersForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.BookingOrder, error)
}

// InventoryService guards capacity: batched reservation checks plus the
// per-item locks held across check and write.
type InventoryService interface {
	CanReserveAll(ctx context.Context, orgItemID int64, requested []domain.BookingItem) error
	LockItems(ids ...int64) func()
}

// OrgItemSource resolves organization items for pricing and ownership.
type OrgItemSource interface {
	GetByID(ctx context.Context, id int64) (*domain.OrganizationItem, error)
}

// PermissionChecker gates who may book and who may administer.
type PermissionChecker interface {
	CanBook(ctx context.Context, userID, orgID int64) error
	IsOrgAdmin(actor domain.Actor, orgID int64) bool
}

// NotificationSender pushes booking lifecycle events; all sends are
// best-effort.
type NotificationSender interface {
	NotifyOrderCreated(ctx context.Context, userID, orderID int64, orderNumber string) error
	NotifyItemStatusChanged(ctx context.Context, userID, orderID, itemID int64, status domain.BookingStatus) error
}
