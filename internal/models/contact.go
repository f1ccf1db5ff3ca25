package models

import "time"

// ContactType classifies a contact within the workspace.
type ContactType string

const (
	ContactTypeLead     ContactType = "lead"
	ContactTypeCustomer ContactType = "customer"
	ContactTypeInvestor ContactType = "investor"
	ContactTypePartner  ContactType = "partner"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactTypeLead, ContactTypeCustomer, ContactTypeInvestor, ContactTypePartner:
		return true
	}
	return false
}

type Contact struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	WorkspaceID uint        `gorm:"index;not null" json:"workspace_id"`
	Name        string      `gorm:"size:200;not null" json:"name"`
	Email       string      `gorm:"size:255" json:"email"`
	Phone       string      `gorm:"size:50" json:"phone"`
	Company     string      `gorm:"size:200" json:"company"`
	Type        ContactType `gorm:"size:20;default:lead" json:"type"`
	Status      string      `gorm:"size:100" json:"status"`
	Notes       string      `gorm:"type:text" json:"notes"`
	CreatedBy   uint        `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }

// ContactTag is a free-text label on a contact. Tags are replaced as a set
// on contact update.
type ContactTag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ContactID uint   `gorm:"index;not null" json:"contact_id"`
	Tag       string `gorm:"size:100;not null" json:"tag"`
}

func (ContactTag) TableName() string { return "contact_tags" }

// InteractionType classifies an interaction log entry.
type InteractionType string

const (
	InteractionTypeNote    InteractionType = "note"
	InteractionTypeCall    InteractionType = "call"
	InteractionTypeEmail   InteractionType = "email"
	InteractionTypeMeeting InteractionType = "meeting"
	InteractionTypeOther   InteractionType = "other"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionTypeNote, InteractionTypeCall, InteractionTypeEmail,
		InteractionTypeMeeting, InteractionTypeOther:
		return true
	}
	return false
}

// Interaction is an append-only log entry under a contact.
type Interaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ContactID       uint            `gorm:"index;not null" json:"contact_id"`
	UserID          uint            `json:"user_id"`
	Type            InteractionType `gorm:"size:20;default:note" json:"type"`
	Subject         string          `gorm:"size:255" json:"subject"`
	Notes           string          `gorm:"type:text" json:"notes"`
	InteractionDate time.Time       `json:"interaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Interaction) TableName() string { return "interactions" }
