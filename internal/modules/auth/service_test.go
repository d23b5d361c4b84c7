package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"varaamo/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && args.Error(0) == nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockRoleSource struct {
	mock.Mock
}

func (m *MockRoleSource) RolesForUser(ctx context.Context, userID int64) ([]domain.UserOrganizationRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserOrganizationRole), args.Error(1)
}

type MockJWT struct {
	mock.Mock
}

func (m *MockJWT) GenerateToken(userID int64, role string, orgID int64) (string, error) {
	args := m.Called(userID, role, orgID)
	return args.String(0), args.Error(1)
}

func activeUser(id int64, password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &domain.User{ID: id, Email: "pekka@example.fi", PasswordHash: string(hash), IsActive: true}
}

func grant(role domain.RoleName, orgID int64) domain.UserOrganizationRole {
	return domain.UserOrganizationRole{
		OrganizationID: orgID,
		IsActive:       true,
		Role:           &domain.Role{Name: role},
	}
}

func TestLogin_HighestRoleInOrg(t *testing.T) {
	users := new(MockUserRepository)
	roles := new(MockRoleSource)
	jwt := new(MockJWT)

	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(activeUser(5, "secret123"), nil)
	roles.On("RolesForUser", mock.Anything, int64(5)).Return([]domain.UserOrganizationRole{
		grant(domain.RoleRequester, 7),
		grant(domain.RoleAdmin, 7),
		grant(domain.RoleMainAdmin, 8),
	}, nil)
	jwt.On("GenerateToken", int64(5), "admin", int64(7)).Return("tok", nil)

	svc := NewService(users, roles, jwt)

	res, err := svc.Login(context.Background(), LoginRequest{
		Email: "pekka@example.fi", Password: "secret123", OrganizationID: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Role)
	assert.Equal(t, int64(7), res.OrgID)
	assert.Equal(t, "tok", res.Token)
}

func TestLogin_SuperAdminIgnoresOrg(t *testing.T) {
	users := new(MockUserRepository)
	roles := new(MockRoleSource)
	jwt := new(MockJWT)

	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(activeUser(5, "secret123"), nil)
	roles.On("RolesForUser", mock.Anything, int64(5)).Return([]domain.UserOrganizationRole{
		grant(domain.RoleSuperAdmin, 7),
	}, nil)
	jwt.On("GenerateToken", int64(5), "super_admin", int64(0)).Return("tok", nil)

	svc := NewService(users, roles, jwt)

	res, err := svc.Login(context.Background(), LoginRequest{
		Email: "pekka@example.fi", Password: "secret123", OrganizationID: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, res.Role)
	assert.Equal(t, int64(0), res.OrgID)
}

func TestLogin_NoGrantFallsBackToUser(t *testing.T) {
	users := new(MockUserRepository)
	roles := new(MockRoleSource)
	jwt := new(MockJWT)

	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(activeUser(5, "secret123"), nil)
	roles.On("RolesForUser", mock.Anything, int64(5)).Return([]domain.UserOrganizationRole{}, nil)
	jwt.On("GenerateToken", int64(5), "user", int64(9)).Return("tok", nil)

	svc := NewService(users, roles, jwt)

	res, err := svc.Login(context.Background(), LoginRequest{
		Email: "pekka@example.fi", Password: "secret123", OrganizationID: 9,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, res.Role)
}

func TestLogin_SuspendedGrantNotUsed(t *testing.T) {
	users := new(MockUserRepository)
	roles := new(MockRoleSource)
	jwt := new(MockJWT)

	suspended := grant(domain.RoleAdmin, 7)
	suspended.IsActive = false

	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(activeUser(5, "secret123"), nil)
	roles.On("RolesForUser", mock.Anything, int64(5)).Return([]domain.UserOrganizationRole{suspended}, nil)
	jwt.On("GenerateToken", int64(5), "user", int64(7)).Return("tok", nil)

	svc := NewService(users, roles, jwt)

	res, err := svc.Login(context.Background(), LoginRequest{
		Email: "pekka@example.fi", Password: "secret123", OrganizationID: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, res.Role)
}

func TestLogin_BadPassword(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(activeUser(5, "secret123"), nil)

	svc := NewService(users, new(MockRoleSource), new(MockJWT))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email: "pekka@example.fi", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	users := new(MockUserRepository)
	u := activeUser(5, "secret123")
	u.IsActive = false
	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(u, nil)

	svc := NewService(users, new(MockRoleSource), new(MockJWT))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email: "pekka@example.fi", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "pekka@example.fi").Return(activeUser(5, "x"), nil)

	svc := NewService(users, new(MockRoleSource), new(MockJWT))

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "Pekka@Example.fi", Password: "secret123", Name: "Pekka",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
