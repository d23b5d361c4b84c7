package ban

import "varaamo/internal/domain"

type BanRequest struct {
	TargetUserID   int64           `json:"target_user_id" binding:"required"`
	Scope          domain.BanScope `json:"scope" binding:"required"`
	OrganizationID *int64          `json:"organization_id,omitempty"`
	RoleID         *int64          `json:"role_id,omitempty"`
	Reason         string          `json:"reason" binding:"required"`
	IsPermanent    bool            `json:"is_permanent"`
	Notes          string          `json:"notes,omitempty"`
}

type UnbanRequest struct {
	TargetUserID   int64           `json:"target_user_id" binding:"required"`
	Scope          domain.BanScope `json:"scope" binding:"required"`
	OrganizationID *int64          `json:"organization_id,omitempty"`
	RoleID         *int64          `json:"role_id,omitempty"`
}
