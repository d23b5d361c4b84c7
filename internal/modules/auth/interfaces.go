package auth

import (
	"context"

	"varaamo/internal/domain"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleSource provides the grants used to resolve the login role context.
type RoleSource interface {
	RolesForUser(ctx context.Context, userID int64) ([]domain.UserOrganizationRole, error)
}

type jwtService interface {
	GenerateToken(userID int64, role string, orgID int64) (string, error)
}
