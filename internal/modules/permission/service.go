package permission

import (
	"context"

	"varaamo/internal/domain"
)

type Service struct {
	bans  BanChecker
	roles RoleSource
}

func NewService(bans BanChecker, roles RoleSource) *Service {
	return &Service{bans: bans, roles: roles}
}

// CanBook gates reservation creation: a user banned application-wide, or
// banned from the organization that owns the item, may not book there.
// Anyone else may; booking needs no role grant at all.
func (s *Service) CanBook(ctx context.Context, userID, orgID int64) error {
	banned, err := s.bans.IsBanned(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if banned {
		return ErrBanned
	}
	return nil
}

// CanManage reports whether the actor may administer the target user inside
// the organization. The super admin manages everyone; otherwise the actor's
// grant must belong to that organization and outrank every active role the
// target holds there. A target with no roles in the organization is
// manageable by any of its staff, so the comparison is vacuously true.
func (s *Service) CanManage(ctx context.Context, actor domain.Actor, targetUserID, orgID int64) (bool, error) {
	if domain.IsSuperAdmin(actor.Grant.Name) {
		return true, nil
	}
	if actor.Grant.OrganizationID != orgID {
		return false, nil
	}

	targetRoles, err := s.roles.ActiveRolesForUserInOrg(ctx, targetUserID, orgID)
	if err != nil {
		return false, err
	}
	for _, g := range targetRoles {
		if g.Role == nil {
			continue
		}
		if domain.IsSuperAdmin(g.Role.Name) {
			return false, nil
		}
		if !domain.IsHigher(actor.Grant.Name, g.Role.Name) {
			return false, nil
		}
	}
	return true, nil
}

// IsOrgAdmin reports whether the actor holds admin level or above in the
// organization, or the global super-admin grant.
func (s *Service) IsOrgAdmin(actor domain.Actor, orgID int64) bool {
	if domain.IsSuperAdmin(actor.Grant.Name) {
		return true
	}
	return actor.Grant.OrganizationID == orgID &&
		domain.Level(actor.Grant.Name) >= domain.Level(domain.RoleAdmin)
}
