package domain

import "time"

type RoleName string

const (
	RoleMainAdmin      RoleName = "main_admin"
	RoleAdmin          RoleName = "admin"
	RoleStorageManager RoleName = "storage_manager"
	RoleRequester      RoleName = "requester"
	RoleUser           RoleName = "user"

	// RoleSuperAdmin is global and sits outside the org-scoped ladder.
	RoleSuperAdmin RoleName = "super_admin"
)

// roleLevels ranks the org-scoped ladder. The super-admin role is not part of
// it; check IsSuperAdmin instead of comparing its level.
var roleLevels = map[RoleName]int{
	RoleMainAdmin:      4,
	RoleAdmin:          3,
	RoleStorageManager: 2,
	RoleRequester:      1,
	RoleUser:           0,
}

// Level returns the hierarchy level of a role name, -1 for unknown roles.
func Level(name RoleName) int {
	if l, ok := roleLevels[name]; ok {
		return l
	}
	return -1
}

func IsHigher(a, b RoleName) bool {
	return Level(a) > Level(b)
}

func IsSuperAdmin(name RoleName) bool {
	return name == RoleSuperAdmin
}

type Role struct {
	ID   int64    `json:"id"`
	Name RoleName `json:"name" gorm:"uniqueIndex;size:64"`
}

// UserOrganizationRole is one role grant for a user inside one organization.
// A user may hold several grants across organizations. IsActive is flipped off
// when the grant is suspended by a ban.
type UserOrganizationRole struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id" gorm:"index:idx_user_org_role,unique"`
	OrganizationID int64     `json:"organization_id" gorm:"index:idx_user_org_role,unique"`
	RoleID         int64     `json:"role_id" gorm:"index:idx_user_org_role,unique"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Role *Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// RoleGrant is the resolved role an actor acts under: either the global
// super-admin grant or a role scoped to exactly one organization. Every core
// call takes the acting grant explicitly; there is no ambient "current
// organization" anywhere.
type RoleGrant struct {
	Name           RoleName `json:"name"`
	OrganizationID int64    `json:"organization_id,omitempty"` // zero for global grants
}

func GlobalGrant(name RoleName) RoleGrant {
	return RoleGrant{Name: name}
}

func OrgGrant(name RoleName, orgID int64) RoleGrant {
	return RoleGrant{Name: name, OrganizationID: orgID}
}

func (g RoleGrant) IsGlobal() bool {
	return g.OrganizationID == 0
}

// Actor identifies who performs an operation and under which grant.
type Actor struct {
	UserID int64     `json:"user_id"`
	Grant  RoleGrant `json:"grant"`
}
