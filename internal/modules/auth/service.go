package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"varaamo/internal/domain"
)

type Service struct {
	users UserRepository
	roles RoleSource
	jwt   jwtService
}

type LoginResult struct {
	User  *domain.User
	Token string
	Role  domain.RoleName
	OrgID int64
}

func NewService(users UserRepository, roles RoleSource, jwt jwtService) *Service {
	return &Service{users: users, roles: roles, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a token for one role context. A super
// admin always gets the global grant; everyone else gets their highest active
// role in the requested organization, or the plain user role when they hold
// none there.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, orgID, err := s.resolveGrant(ctx, user.ID, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(role), orgID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token, Role: role, OrgID: orgID}, nil
}

func (s *Service) resolveGrant(ctx context.Context, userID, orgID int64) (domain.RoleName, int64, error) {
	grants, err := s.roles.RolesForUser(ctx, userID)
	if err != nil {
		return "", 0, err
	}

	for _, g := range grants {
		if g.IsActive && g.Role != nil && domain.IsSuperAdmin(g.Role.Name) {
			return domain.RoleSuperAdmin, 0, nil
		}
	}

	best := domain.RoleUser
	for _, g := range grants {
		if !g.IsActive || g.Role == nil || g.OrganizationID != orgID {
			continue
		}
		if domain.IsHigher(g.Role.Name, best) {
			best = g.Role.Name
		}
	}
	return best, orgID, nil
}
