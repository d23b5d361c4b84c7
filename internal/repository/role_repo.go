package repository

import (
	"context"

	"gorm.io/gorm"

	"varaamo/internal/domain"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) RoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) Assign(ctx context.Context, a *domain.UserOrganizationRole) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// ActiveRolesForUserInOrg returns the active grants the user holds inside one
// organization, with role names preloaded.
func (r *RoleRepository) ActiveRolesForUserInOrg(ctx context.Context, userID, orgID int64) ([]domain.UserOrganizationRole, error) {
	var out []domain.UserOrganizationRole
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND is_active = ?", userID, orgID, true).
		Preload("Role").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RoleRepository) RolesForUser(ctx context.Context, userID int64) ([]domain.UserOrganizationRole, error) {
	var out []domain.UserOrganizationRole
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Role").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetAssignmentsActive flips is_active on the user's grants. orgID and roleID
// narrow the update for organization- and role-scoped bans; both nil means
// every grant the user holds (application scope).
func (r *RoleRepository) SetAssignmentsActive(ctx context.Context, userID int64, orgID, roleID *int64, active bool) error {
	q := r.db.WithContext(ctx).
		Model(&domain.UserOrganizationRole{}).
		Where("user_id = ? AND is_active = ?", userID, !active)
	if orgID != nil {
		q = q.Where("organization_id = ?", *orgID)
	}
	if roleID != nil {
		q = q.Where("role_id = ?", *roleID)
	}
	return q.Update("is_active", active).Error
}
