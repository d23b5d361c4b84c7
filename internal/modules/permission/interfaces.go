package permission

import (
	"context"

	"varaamo/internal/domain"
)

// BanChecker answers whether a user is currently banned from acting in an
// organization. The ban module provides the implementation.
type BanChecker interface {
	IsBanned(ctx context.Context, userID, orgID int64) (bool, error)
}

// RoleSource provides the active role grants used for hierarchy comparisons.
type RoleSource interface {
	ActiveRolesForUserInOrg(ctx context.Context, userID, orgID int64) ([]domain.UserOrganizationRole, error)
}
