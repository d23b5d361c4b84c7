package domain

import "time"

type BanScope string

const (
	BanScopeApplication  BanScope = "application"
	BanScopeOrganization BanScope = "organization"
	BanScopeRole         BanScope = "role"
)

// Ban rows are appended when a user is banned and closed (LiftedAt set) when
// unbanned, never mutated destructively, so the full history is retained.
// A ban is active while LiftedAt is nil; non-permanent bans still require an
// explicit lift, no expiry is scheduled here.
type Ban struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id" gorm:"index"`
	Scope          BanScope   `json:"scope" gorm:"size:16"`
	OrganizationID *int64     `json:"organization_id,omitempty"`
	RoleID         *int64     `json:"role_id,omitempty"`
	Reason         string     `json:"reason"`
	IsPermanent    bool       `json:"is_permanent"`
	BannedBy       int64      `json:"banned_by"`
	BannedAt       time.Time  `json:"banned_at"`
	LiftedAt       *time.Time `json:"lifted_at,omitempty"`
	LiftedBy       *int64     `json:"lifted_by,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func (b Ban) Active() bool {
	return b.LiftedAt == nil
}
