package inventory

import (
	"context"

	"varaamo/internal/domain"
)

// OrgItemRepository defines the interface for organization item storage
type OrgItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.OrganizationItem, error)
	UpdateOwnedQuantity(ctx context.Context, id int64, quantity int) error
	ListByOrganization(ctx context.Context, orgID int64) ([]domain.OrganizationItem, error)
}

// BookingItemSource provides the booking items that still consume capacity
// of an organization item.
type BookingItemSource interface {
	ActiveItemsForOrgItem(ctx context.Context, orgItemID int64) ([]domain.BookingItem, error)
}
