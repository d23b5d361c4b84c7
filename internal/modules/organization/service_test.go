package organization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"varaamo/internal/domain"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	if org != nil && args.Error(0) == nil {
		org.ID = 7
	}
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) CreateLocation(ctx context.Context, loc *domain.StorageLocation) error {
	args := m.Called(ctx, loc)
	if loc != nil && args.Error(0) == nil {
		loc.ID = 3
	}
	return args.Error(0)
}

func (m *MockOrganizationRepository) AttachLocation(ctx context.Context, orgID, locationID int64) error {
	args := m.Called(ctx, orgID, locationID)
	return args.Error(0)
}

func (m *MockOrganizationRepository) LocationsForOrganization(ctx context.Context, orgID int64) ([]domain.StorageLocation, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StorageLocation), args.Error(1)
}

type MockOrgItemWriter struct {
	mock.Mock
}

func (m *MockOrgItemWriter) Create(ctx context.Context, item *domain.OrganizationItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type MockRoleGranter struct {
	mock.Mock
}

func (m *MockRoleGranter) RoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleGranter) Assign(ctx context.Context, a *domain.UserOrganizationRole) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type MockUserSource struct {
	mock.Mock
}

func (m *MockUserSource) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPermissionChecker struct {
	mock.Mock
}

func (m *MockPermissionChecker) CanManage(ctx context.Context, actor domain.Actor, targetUserID, orgID int64) (bool, error) {
	args := m.Called(ctx, actor, targetUserID, orgID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionChecker) IsOrgAdmin(actor domain.Actor, orgID int64) bool {
	args := m.Called(actor, orgID)
	return args.Bool(0)
}

func TestCreateOrganization_SuperAdminOnly(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	svc := NewService(orgs, new(MockOrgItemWriter), new(MockRoleGranter), new(MockUserSource), new(MockPermissionChecker))

	admin := domain.Actor{UserID: 1, Grant: domain.OrgGrant(domain.RoleMainAdmin, 7)}
	_, err := svc.CreateOrganization(context.Background(), admin, CreateOrganizationRequest{Name: "Depot", Slug: "depot"})
	assert.ErrorIs(t, err, ErrForbidden)

	orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	super := domain.Actor{UserID: 2, Grant: domain.GlobalGrant(domain.RoleSuperAdmin)}
	org, err := svc.CreateOrganization(context.Background(), super, CreateOrganizationRequest{Name: "Depot", Slug: "depot"})
	assert.NoError(t, err)
	assert.True(t, org.IsActive)
}

func TestAddItem_RequiresStorageManager(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	items := new(MockOrgItemWriter)
	svc := NewService(orgs, items, new(MockRoleGranter), new(MockUserSource), new(MockPermissionChecker))

	requester := domain.Actor{UserID: 1, Grant: domain.OrgGrant(domain.RoleRequester, 7)}
	_, err := svc.AddItem(context.Background(), requester, 7, AddItemRequest{
		StorageItemID: 1, StorageLocationID: 1, OwnedQuantity: 3, UnitPrice: 2.5,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	orgs.On("GetByID", mock.Anything, int64(7)).Return(&domain.Organization{ID: 7, IsActive: true}, nil)
	items.On("Create", mock.Anything, mock.Anything).Return(nil)

	manager := domain.Actor{UserID: 2, Grant: domain.OrgGrant(domain.RoleStorageManager, 7)}
	item, err := svc.AddItem(context.Background(), manager, 7, AddItemRequest{
		StorageItemID: 1, StorageLocationID: 1, OwnedQuantity: 3, UnitPrice: 2.5,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), item.OrganizationID)
	assert.True(t, item.IsActive)
}

func TestAssignRole_MustOutrankGrantedRole(t *testing.T) {
	roles := new(MockRoleGranter)
	users := new(MockUserSource)
	perms := new(MockPermissionChecker)
	svc := NewService(new(MockOrganizationRepository), new(MockOrgItemWriter), roles, users, perms)

	admin := domain.Actor{UserID: 1, Grant: domain.OrgGrant(domain.RoleAdmin, 7)}
	users.On("GetByID", mock.Anything, int64(20)).Return(&domain.User{ID: 20}, nil)
	perms.On("CanManage", mock.Anything, admin, int64(20), int64(7)).Return(true, nil)

	// admin may not mint another admin
	_, err := svc.AssignRole(context.Background(), admin, 7, AssignRoleRequest{UserID: 20, Role: "admin"})
	assert.ErrorIs(t, err, ErrForbidden)

	// but may grant storage_manager
	roles.On("RoleByName", mock.Anything, domain.RoleStorageManager).Return(&domain.Role{ID: 2, Name: domain.RoleStorageManager}, nil)
	roles.On("Assign", mock.Anything, mock.Anything).Return(nil)

	grant, err := svc.AssignRole(context.Background(), admin, 7, AssignRoleRequest{UserID: 20, Role: "storage_manager"})
	assert.NoError(t, err)
	assert.True(t, grant.IsActive)
	assert.Equal(t, int64(7), grant.OrganizationID)
}

func TestAssignRole_UnknownRole(t *testing.T) {
	svc := NewService(new(MockOrganizationRepository), new(MockOrgItemWriter), new(MockRoleGranter), new(MockUserSource), new(MockPermissionChecker))

	admin := domain.Actor{UserID: 1, Grant: domain.OrgGrant(domain.RoleAdmin, 7)}
	_, err := svc.AssignRole(context.Background(), admin, 7, AssignRoleRequest{UserID: 20, Role: "overlord"})
	assert.ErrorIs(t, err, ErrValidation)

	// super_admin is global; it cannot be granted per organization
	_, err = svc.AssignRole(context.Background(), admin, 7, AssignRoleRequest{UserID: 20, Role: "super_admin"})
	assert.ErrorIs(t, err, ErrValidation)
}
