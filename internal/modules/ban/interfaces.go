package ban

import (
	"context"
	"time"

	"varaamo/internal/domain"
)

// BanRepository defines the interface for ban history storage
type BanRepository interface {
	Create(ctx context.Context, b *domain.Ban) error
	FindActive(ctx context.Context, userID int64, scope domain.BanScope, orgID, roleID *int64) (*domain.Ban, error)
	Lift(ctx context.Context, banID, liftedBy int64, at time.Time) error
	HistoryForUser(ctx context.Context, userID int64) ([]domain.Ban, error)
}

// RoleAssignments suspends and restores role grants when bans land and lift.
type RoleAssignments interface {
	ActiveRolesForUserInOrg(ctx context.Context, userID, orgID int64) ([]domain.UserOrganizationRole, error)
	RolesForUser(ctx context.Context, userID int64) ([]domain.UserOrganizationRole, error)
	SetAssignmentsActive(ctx context.Context, userID int64, orgID, roleID *int64, active bool) error
}
