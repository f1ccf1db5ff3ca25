package models

import "time"

// Workspace is the tenant boundary. Every domain row carries its ID.
type Workspace struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	WorkspaceCode string    `gorm:"uniqueIndex;size:8;not null" json:"workspace_code"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Workspace) TableName() string { return "workspaces" }

// Invitation is a single-use, expiring invite into a workspace. Accepted
// invitations are kept as an audit record.
type Invitation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID uint      `gorm:"index;not null" json:"workspace_id"`
	Email       string    `gorm:"size:255;not null" json:"email"`
	Role        Role      `gorm:"size:20;default:team_member" json:"role"`
	Token       string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	InvitedBy   uint      `json:"invited_by"`
	ExpiresAt   time.Time `json:"expires_at"`
	Accepted    bool      `gorm:"default:false" json:"accepted"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Invitation) TableName() string { return "invitations" }

// Expired reports whether the invitation is past its expiry at time now.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
