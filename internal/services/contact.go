package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/response"
	"gorm.io/gorm"
)

type ContactService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db, activity: NewActivityService(db)}
}

type ContactFilter struct {
	Type   string
	Search string
}

type ContactInput struct {
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Phone   string             `json:"phone"`
	Company string             `json:"company"`
	Type    models.ContactType `json:"type"`
	Status  string             `json:"status"`
	Notes   string             `json:"notes"`
	Tags    []string           `json:"tags"`
}

type InteractionInput struct {
	Type            models.InteractionType `json:"type"`
	Subject         string                 `json:"subject"`
	Notes           string                 `json:"notes"`
	InteractionDate *time.Time             `json:"interactionDate"`
}

// ContactView is a contact with its tags flattened for the API.
type ContactView struct {
	models.Contact
	Tags []string `json:"tags"`
}

// ContactDetail includes the related records shown on a contact page.
type ContactDetail struct {
	ContactView
	Interactions []InteractionView `json:"interactions"`
	Tasks        []models.Task     `json:"tasks"`
	Deals        []models.Deal     `json:"deals"`
}

// InteractionView carries the author's name alongside the interaction.
type InteractionView struct {
	models.Interaction
	UserName string `json:"userName"`
}

// List returns workspace contacts, newest first. Type narrows to one
// contact type; search matches name, email or company.
func (s *ContactService) List(workspaceID uint, filter ContactFilter) ([]ContactView, error) {
	query := s.db.Where("workspace_id = ?", workspaceID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like)
	}

	var contacts []models.Contact
	if err := query.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, response.NewServerError("failed to list contacts").WithCause(err)
	}

	views := make([]ContactView, 0, len(contacts))
	if len(contacts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}

	var tags []models.ContactTag
	if err := s.db.Where("contact_id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, response.NewServerError("failed to list contacts").WithCause(err)
	}
	tagsByContact := make(map[uint][]string)
	for _, t := range tags {
		tagsByContact[t.ContactID] = append(tagsByContact[t.ContactID], t.Tag)
	}

	for _, c := range contacts {
		views = append(views, ContactView{
			Contact: c,
			Tags:    tagSliceOrEmpty(tagsByContact[c.ID]),
		})
	}
	return views, nil
}

// Get loads one contact with interactions (newest first), open-ended task
// list (soonest due first) and deals (newest first).
func (s *ContactService) Get(workspaceID, contactID uint) (*ContactDetail, error) {
	contact, err := s.findContact(workspaceID, contactID)
	if err != nil {
		return nil, err
	}

	detail := &ContactDetail{
		ContactView: ContactView{Contact: *contact, Tags: []string{}},
	}

	var tags []models.ContactTag
	if err := s.db.Where("contact_id = ?", contactID).Find(&tags).Error; err != nil {
		return nil, response.NewServerError("failed to load contact").WithCause(err)
	}
	for _, t := range tags {
		detail.Tags = append(detail.Tags, t.Tag)
	}

	var interactions []models.Interaction
	if err := s.db.Where("contact_id = ?", contactID).
		Order("interaction_date DESC").Find(&interactions).Error; err != nil {
		return nil, response.NewServerError("failed to load contact").WithCause(err)
	}
	detail.Interactions = s.withUserNames(interactions)

	if err := s.db.Where("contact_id = ? AND workspace_id = ?", contactID, workspaceID).
		Order("due_date ASC").Find(&detail.Tasks).Error; err != nil {
		return nil, response.NewServerError("failed to load contact").WithCause(err)
	}

	if err := s.db.Where("contact_id = ? AND workspace_id = ?", contactID, workspaceID).
		Order("created_at DESC").Find(&detail.Deals).Error; err != nil {
		return nil, response.NewServerError("failed to load contact").WithCause(err)
	}

	return detail, nil
}

// Create inserts the contact and its tags in one transaction.
func (s *ContactService) Create(workspaceID, userID uint, input *ContactInput) (*ContactView, error) {
	if input.Name == "" {
		return nil, response.NewValidation("contact name is required")
	}
	if input.Type != "" && !input.Type.Valid() {
		return nil, response.NewValidation("invalid contact type")
	}

	contactType := input.Type
	if contactType == "" {
		contactType = models.ContactTypeLead
	}

	contact := models.Contact{
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Company:     input.Company,
		Type:        contactType,
		Status:      input.Status,
		Notes:       input.Notes,
		CreatedBy:   userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contact).Error; err != nil {
			return err
		}
		if err := insertTags(tx, contact.ID, input.Tags); err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "created", "contact", contact.ID,
			fmt.Sprintf("Created contact %s", contact.Name))
	})
	if err != nil {
		return nil, response.NewServerError("failed to create contact").WithCause(err)
	}

	return &ContactView{Contact: contact, Tags: tagSliceOrEmpty(input.Tags)}, nil
}

// Update rewrites the contact fields and replaces its tag set.
func (s *ContactService) Update(workspaceID, userID, contactID uint, input *ContactInput) (*ContactView, error) {
	contact, err := s.findContact(workspaceID, contactID)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, response.NewValidation("contact name is required")
	}
	if input.Type != "" && !input.Type.Valid() {
		return nil, response.NewValidation("invalid contact type")
	}

	contactType := input.Type
	if contactType == "" {
		contactType = contact.Type
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":    input.Name,
			"email":   input.Email,
			"phone":   input.Phone,
			"company": input.Company,
			"type":    contactType,
			"status":  input.Status,
			"notes":   input.Notes,
		}
		if err := tx.Model(contact).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", contactID).
			Delete(&models.ContactTag{}).Error; err != nil {
			return err
		}
		if err := insertTags(tx, contactID, input.Tags); err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "updated", "contact", contactID,
			fmt.Sprintf("Updated contact %s", input.Name))
	})
	if err != nil {
		return nil, response.NewServerError("failed to update contact").WithCause(err)
	}

	updated, err := s.findContact(workspaceID, contactID)
	if err != nil {
		return nil, err
	}
	return &ContactView{Contact: *updated, Tags: tagSliceOrEmpty(input.Tags)}, nil
}

// Delete removes the contact; tags and interactions go with it.
func (s *ContactService) Delete(workspaceID, userID, contactID uint) error {
	contact, err := s.findContact(workspaceID, contactID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", contactID).Delete(&models.ContactTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", contactID).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(contact).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "deleted", "contact", contactID,
			fmt.Sprintf("Deleted contact %s", contact.Name))
	})
	if err != nil {
		return response.NewServerError("failed to delete contact").WithCause(err)
	}
	return nil
}

// AddInteraction records a touchpoint against a contact. The interaction
// date defaults to now.
func (s *ContactService) AddInteraction(workspaceID, userID, contactID uint, input *InteractionInput) (*models.Interaction, error) {
	contact, err := s.findContact(workspaceID, contactID)
	if err != nil {
		return nil, err
	}
	if input.Type != "" && !input.Type.Valid() {
		return nil, response.NewValidation("invalid interaction type")
	}

	interactionType := input.Type
	if interactionType == "" {
		interactionType = models.InteractionTypeNote
	}
	when := time.Now()
	if input.InteractionDate != nil {
		when = *input.InteractionDate
	}

	interaction := models.Interaction{
		ContactID:       contactID,
		UserID:          userID,
		Type:            interactionType,
		Subject:         input.Subject,
		Notes:           input.Notes,
		InteractionDate: when,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&interaction).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "logged", "interaction", interaction.ID,
			fmt.Sprintf("Logged %s with %s", interactionType, contact.Name))
	})
	if err != nil {
		return nil, response.NewServerError("failed to log interaction").WithCause(err)
	}
	return &interaction, nil
}

// ListInteractions returns a contact's interactions, newest first.
func (s *ContactService) ListInteractions(workspaceID, contactID uint) ([]InteractionView, error) {
	if _, err := s.findContact(workspaceID, contactID); err != nil {
		return nil, err
	}
	var interactions []models.Interaction
	if err := s.db.Where("contact_id = ?", contactID).
		Order("interaction_date DESC").Find(&interactions).Error; err != nil {
		return nil, response.NewServerError("failed to list interactions").WithCause(err)
	}
	return s.withUserNames(interactions), nil
}

// findContact scopes by workspace; a contact from another workspace is
// indistinguishable from a missing one.
func (s *ContactService) findContact(workspaceID, contactID uint) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Where("id = ? AND workspace_id = ?", contactID, workspaceID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("contact not found")
		}
		return nil, response.NewServerError("failed to load contact").WithCause(err)
	}
	return &contact, nil
}

func (s *ContactService) withUserNames(interactions []models.Interaction) []InteractionView {
	views := make([]InteractionView, 0, len(interactions))
	if len(interactions) == 0 {
		return views
	}

	userIDs := make([]uint, 0, len(interactions))
	seen := make(map[uint]bool)
	for _, it := range interactions {
		if !seen[it.UserID] {
			seen[it.UserID] = true
			userIDs = append(userIDs, it.UserID)
		}
	}

	names := make(map[uint]string)
	var users []models.User
	if err := s.db.Select("id", "name").Where("id IN ?", userIDs).Find(&users).Error; err == nil {
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	for _, it := range interactions {
		views = append(views, InteractionView{Interaction: it, UserName: names[it.UserID]})
	}
	return views
}

func insertTags(tx *gorm.DB, contactID uint, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := tx.Create(&models.ContactTag{ContactID: contactID, Tag: tag}).Error; err != nil {
			return err
		}
	}
	return nil
}

func tagSliceOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
