package models

import "time"

// Role is the workspace role of a user.
type Role string

const (
	RoleFounder    Role = "founder"
	RoleTeamMember Role = "team_member"
)

func (r Role) Valid() bool {
	return r == RoleFounder || r == RoleTeamMember
}

// User belongs to at most one workspace. WorkspaceID is nil between founder
// creation and workspace back-linking inside the registration transaction.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Role        Role      `gorm:"size:20;default:team_member" json:"role"`
	WorkspaceID *uint     `gorm:"index" json:"workspace_id"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	AvatarURL   string    `gorm:"size:500" json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
