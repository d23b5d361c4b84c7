package ban

import (
	"context"
	"time"

	"varaamo/internal/domain"
)

type Service struct {
	bans  BanRepository
	roles RoleAssignments
	now   func() time.Time
}

func NewService(bans BanRepository, roles RoleAssignments) *Service {
	return &Service{bans: bans, roles: roles, now: time.Now}
}

// Ban records a ban row and suspends the role grants the scope covers.
// Application-wide bans are reserved for the super admin; organization and
// role scoped bans require an admin grant in the target's organization whose
// level is strictly higher than every active role the target holds there.
func (s *Service) Ban(ctx context.Context, actor domain.Actor, req BanRequest) (*domain.Ban, error) {
	if err := s.validateScope(req.Scope, req.OrganizationID, req.RoleID); err != nil {
		return nil, err
	}
	if req.TargetUserID == actor.UserID {
		return nil, ErrValidation
	}

	if err := s.authorize(ctx, actor, req.TargetUserID, req.Scope, req.OrganizationID); err != nil {
		return nil, err
	}

	existing, err := s.bans.FindActive(ctx, req.TargetUserID, req.Scope, req.OrganizationID, req.RoleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	b := &domain.Ban{
		UserID:         req.TargetUserID,
		Scope:          req.Scope,
		OrganizationID: req.OrganizationID,
		RoleID:         req.RoleID,
		Reason:         req.Reason,
		IsPermanent:    req.IsPermanent,
		BannedBy:       actor.UserID,
		BannedAt:       s.now().UTC(),
		Notes:          req.Notes,
	}
	if err := s.bans.Create(ctx, b); err != nil {
		return nil, err
	}

	var orgID, roleID *int64
	if req.Scope != domain.BanScopeApplication {
		orgID = req.OrganizationID
	}
	if req.Scope == domain.BanScopeRole {
		roleID = req.RoleID
	}
	if err := s.roles.SetAssignmentsActive(ctx, req.TargetUserID, orgID, roleID, false); err != nil {
		return nil, err
	}

	return b, nil
}

// Unban lifts the matching active ban and restores the suspended grants,
// unless a broader ban still covers them. Bans never expire on their own;
// this explicit lift is the only way out, whether or not the ban was marked
// permanent.
func (s *Service) Unban(ctx context.Context, actor domain.Actor, req UnbanRequest) (*domain.Ban, error) {
	if err := s.validateScope(req.Scope, req.OrganizationID, req.RoleID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, req.TargetUserID, req.Scope, req.OrganizationID); err != nil {
		return nil, err
	}

	active, err := s.bans.FindActive(ctx, req.TargetUserID, req.Scope, req.OrganizationID, req.RoleID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNotFound
	}

	now := s.now().UTC()
	if err := s.bans.Lift(ctx, active.ID, actor.UserID, now); err != nil {
		return nil, err
	}
	active.LiftedAt = &now
	active.LiftedBy = &actor.UserID

	shadowed, err := s.shadowedByBroaderBan(ctx, req.TargetUserID, req.Scope, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !shadowed {
		var orgID, roleID *int64
		if req.Scope != domain.BanScopeApplication {
			orgID = req.OrganizationID
		}
		if req.Scope == domain.BanScopeRole {
			roleID = req.RoleID
		}
		if err := s.roles.SetAssignmentsActive(ctx, req.TargetUserID, orgID, roleID, true); err != nil {
			return nil, err
		}
	}

	return active, nil
}

// IsBanned reports whether the user is currently barred from acting in the
// organization. An application-wide ban shadows everything; an organization
// ban only covers its own organization.
func (s *Service) IsBanned(ctx context.Context, userID, orgID int64) (bool, error) {
	return s.IsBannedInScope(ctx, userID, domain.BanScopeOrganization, &orgID, nil)
}

// IsBannedInScope answers the fully scoped question: is the user covered by
// an active ban at this scope, or by any broader one? Application bans shadow
// organization and role scopes; an organization ban shadows role bans in the
// same organization.
func (s *Service) IsBannedInScope(ctx context.Context, userID int64, scope domain.BanScope, orgID, roleID *int64) (bool, error) {
	if err := s.validateScope(scope, orgID, roleID); err != nil {
		return false, err
	}

	appBan, err := s.bans.FindActive(ctx, userID, domain.BanScopeApplication, nil, nil)
	if err != nil {
		return false, err
	}
	if appBan != nil {
		return true, nil
	}
	if scope == domain.BanScopeApplication {
		return false, nil
	}

	orgBan, err := s.bans.FindActive(ctx, userID, domain.BanScopeOrganization, orgID, nil)
	if err != nil {
		return false, err
	}
	if orgBan != nil {
		return true, nil
	}
	if scope == domain.BanScopeOrganization {
		return false, nil
	}

	roleBan, err := s.bans.FindActive(ctx, userID, domain.BanScopeRole, orgID, roleID)
	if err != nil {
		return false, err
	}
	return roleBan != nil, nil
}

// History returns every ban row ever recorded for the user, lifted ones
// included, newest first.
func (s *Service) History(ctx context.Context, actor domain.Actor, userID int64) ([]domain.Ban, error) {
	if !domain.IsSuperAdmin(actor.Grant.Name) &&
		actor.UserID != userID &&
		domain.Level(actor.Grant.Name) < domain.Level(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.bans.HistoryForUser(ctx, userID)
}

func (s *Service) validateScope(scope domain.BanScope, orgID, roleID *int64) error {
	switch scope {
	case domain.BanScopeApplication:
		if orgID != nil || roleID != nil {
			return ErrValidation
		}
	case domain.BanScopeOrganization:
		if orgID == nil || roleID != nil {
			return ErrValidation
		}
	case domain.BanScopeRole:
		if orgID == nil || roleID == nil {
			return ErrValidation
		}
	default:
		return ErrValidation
	}
	return nil
}

// authorize enforces who may ban whom. The super admin may act on anyone
// except another super admin. Everyone else needs an admin-level grant in the
// ban's organization and strictly higher rank than all of the target's active
// roles there; a user with no roles in the organization can be banned by any
// of its admins.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, targetUserID int64, scope domain.BanScope, orgID *int64) error {
	allTarget, err := s.roles.RolesForUser(ctx, targetUserID)
	if err != nil {
		return err
	}
	for _, g := range allTarget {
		if g.Role != nil && domain.IsSuperAdmin(g.Role.Name) {
			return ErrForbidden
		}
	}

	if domain.IsSuperAdmin(actor.Grant.Name) {
		return nil
	}

	if scope == domain.BanScopeApplication {
		return ErrForbidden
	}
	if orgID == nil || actor.Grant.OrganizationID != *orgID {
		return ErrForbidden
	}
	if domain.Level(actor.Grant.Name) < domain.Level(domain.RoleAdmin) {
		return ErrForbidden
	}

	targetRoles, err := s.roles.ActiveRolesForUserInOrg(ctx, targetUserID, *orgID)
	if err != nil {
		return err
	}
	for _, g := range targetRoles {
		if g.Role == nil {
			continue
		}
		if !domain.IsHigher(actor.Grant.Name, g.Role.Name) {
			return ErrForbidden
		}
	}
	return nil
}

// shadowedByBroaderBan checks whether a still-active wider ban keeps the
// grants suspended after a narrower ban lifts.
func (s *Service) shadowedByBroaderBan(ctx context.Context, userID int64, scope domain.BanScope, orgID *int64) (bool, error) {
	if scope == domain.BanScopeApplication {
		return false, nil
	}

	appBan, err := s.bans.FindActive(ctx, userID, domain.BanScopeApplication, nil, nil)
	if err != nil {
		return false, err
	}
	if appBan != nil {
		return true, nil
	}

	if scope == domain.BanScopeRole {
		orgBan, err := s.bans.FindActive(ctx, userID, domain.BanScopeOrganization, orgID, nil)
		if err != nil {
			return false, err
		}
		if orgBan != nil {
			return true, nil
		}
	}
	return false, nil
}
