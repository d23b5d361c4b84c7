package organization

import (
	"context"

	"varaamo/internal/domain"
	pkgvalidator "varaamo/internal/pkg/validator"
)

type Service struct {
	orgs  OrganizationRepository
	items OrgItemWriter
	roles RoleGranter
	users UserSource
	perms PermissionChecker
}

func NewService(
	orgs OrganizationRepository,
	items OrgItemWriter,
	roles RoleGranter,
	users UserSource,
	perms PermissionChecker,
) *Service {
	return &Service{orgs: orgs, items: items, roles: roles, users: users, perms: perms}
}

// CreateOrganization provisions a new tenant. Super admin only.
func (s *Service) CreateOrganization(ctx context.Context, actor domain.Actor, req CreateOrganizationRequest) (*domain.Organization, error) {
	if !domain.IsSuperAdmin(actor.Grant.Name) {
		return nil, ErrForbidden
	}

	org := &domain.Organization{
		Name:     req.Name,
		Slug:     req.Slug,
		IsActive: true,
	}
	if errs := pkgvalidator.Validate(org); errs != nil {
		return nil, ErrValidation
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return org, nil
}

func (s *Service) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orgs.List(ctx, limit, offset)
}

// CreateLocation adds a storage location and attaches it to the organization.
func (s *Service) CreateLocation(ctx context.Context, actor domain.Actor, orgID int64, req CreateLocationRequest) (*domain.StorageLocation, error) {
	if !s.perms.IsOrgAdmin(actor, orgID) {
		return nil, ErrForbidden
	}
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, ErrNotFound
	}

	loc := &domain.StorageLocation{
		Address: req.Address,
		City:    req.City,
	}
	if err := s.orgs.CreateLocation(ctx, loc); err != nil {
		return nil, err
	}
	if err := s.orgs.AttachLocation(ctx, orgID, loc.ID); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Service) Locations(ctx context.Context, orgID int64) ([]domain.StorageLocation, error) {
	return s.orgs.LocationsForOrganization(ctx, orgID)
}

// AddItem puts a catalogue item into the organization's owned inventory.
// Requires storage-manager level or above in the organization.
func (s *Service) AddItem(ctx context.Context, actor domain.Actor, orgID int64, req AddItemRequest) (*domain.OrganizationItem, error) {
	if !domain.IsSuperAdmin(actor.Grant.Name) {
		if actor.Grant.OrganizationID != orgID ||
			domain.Level(actor.Grant.Name) < domain.Level(domain.RoleStorageManager) {
			return nil, ErrForbidden
		}
	}
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, ErrNotFound
	}

	item := &domain.OrganizationItem{
		StorageItemID:     req.StorageItemID,
		OrganizationID:    orgID,
		StorageLocationID: req.StorageLocationID,
		OwnedQuantity:     req.OwnedQuantity,
		UnitPrice:         req.UnitPrice,
		IsActive:          true,
	}
	if errs := pkgvalidator.Validate(item); errs != nil {
		return nil, ErrValidation
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AssignRole grants a user a role in the organization. The actor must be able
// to manage the target and must outrank the role being granted; handing out a
// role at or above one's own level is refused.
func (s *Service) AssignRole(ctx context.Context, actor domain.Actor, orgID int64, req AssignRoleRequest) (*domain.UserOrganizationRole, error) {
	roleName := domain.RoleName(req.Role)
	if domain.Level(roleName) < 0 {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, ErrNotFound
	}

	ok, err := s.perms.CanManage(ctx, actor, req.UserID, orgID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	if !domain.IsSuperAdmin(actor.Grant.Name) && !domain.IsHigher(actor.Grant.Name, roleName) {
		return nil, ErrForbidden
	}

	role, err := s.roles.RoleByName(ctx, roleName)
	if err != nil {
		return nil, ErrNotFound
	}

	grant := &domain.UserOrganizationRole{
		UserID:         req.UserID,
		OrganizationID: orgID,
		RoleID:         role.ID,
		IsActive:       true,
	}
	if err := s.roles.Assign(ctx, grant); err != nil {
		return nil, ErrConflict
	}
	grant.Role = role
	return grant, nil
}
