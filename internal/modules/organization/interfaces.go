package organization

import (
	"context"

	"varaamo/internal/domain"
)

// OrganizationRepository defines the interface for organization storage
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	List(ctx context.Context, limit, offset int) ([]domain.Organization, error)
	CreateLocation(ctx context.Context, loc *domain.StorageLocation) error
	AttachLocation(ctx context.Context, orgID, locationID int64) error
	LocationsForOrganization(ctx context.Context, orgID int64) ([]domain.StorageLocation, error)
}

// OrgItemWriter creates catalogue entries owned by an organization.
type OrgItemWriter interface {
	Create(ctx context.Context, item *domain.OrganizationItem) error
}

// RoleGranter looks up roles and records role grants.
type RoleGranter interface {
	RoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	Assign(ctx context.Context, a *domain.UserOrganizationRole) error
}

// UserSource verifies the target user exists.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// PermissionChecker gates administration of users and inventory.
type PermissionChecker interface {
	CanManage(ctx context.Context, actor domain.Actor, targetUserID, orgID int64) (bool, error)
	IsOrgAdmin(actor domain.Actor, orgID int64) bool
}
