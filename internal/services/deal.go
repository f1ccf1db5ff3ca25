package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/response"
	"gorm.io/gorm"
)

type DealService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewDealService(db *gorm.DB) *DealService {
	return &DealService{db: db, activity: NewActivityService(db)}
}

type DealInput struct {
	ContactID         uint             `json:"contactId"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Value             *float64         `json:"value"`
	Stage             models.DealStage `json:"stage"`
	Probability       *int             `json:"probability"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate"`
	AssignedTo        *uint            `json:"assignedTo"`
}

// DealView joins the contact and assignee names a pipeline board renders.
type DealView struct {
	models.Deal
	ContactName    string `json:"contactName"`
	AssignedToName string `json:"assignedToName,omitempty"`
}

// PipelineBucket groups a stage's deals with their combined value.
type PipelineBucket struct {
	Stage      string     `json:"stage"`
	Deals      []DealView `json:"deals"`
	TotalValue float64    `json:"totalValue"`
}

// bucketPipeline groups deals by stage in pipeline order. Deals carrying a
// stage outside the known set land in a trailing "unknown" bucket instead
// of disappearing from the board.
func bucketPipeline(deals []DealView) []PipelineBucket {
	byStage := make(map[models.DealStage][]DealView)
	var unknown []DealView
	for _, d := range deals {
		if d.Stage.Valid() {
			byStage[d.Stage] = append(byStage[d.Stage], d)
		} else {
			unknown = append(unknown, d)
		}
	}

	buckets := make([]PipelineBucket, 0, len(models.PipelineStages)+1)
	for _, stage := range models.PipelineStages {
		buckets = append(buckets, newBucket(string(stage), byStage[stage]))
	}
	if len(unknown) > 0 {
		buckets = append(buckets, newBucket("unknown", unknown))
	}
	return buckets
}

func newBucket(stage string, deals []DealView) PipelineBucket {
	if deals == nil {
		deals = []DealView{}
	}
	var total float64
	for _, d := range deals {
		total += d.Value
	}
	return PipelineBucket{Stage: stage, Deals: deals, TotalValue: total}
}

// List returns workspace deals, newest first, optionally narrowed to one
// stage.
func (s *DealService) List(workspaceID uint, stage string) ([]DealView, error) {
	query := s.db.Where("workspace_id = ?", workspaceID)
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}

	var deals []models.Deal
	if err := query.Order("created_at DESC").Find(&deals).Error; err != nil {
		return nil, response.NewServerError("failed to list deals").WithCause(err)
	}
	return s.withNames(deals)
}

// Pipeline returns the workspace's deals grouped by stage.
func (s *DealService) Pipeline(workspaceID uint) ([]PipelineBucket, error) {
	deals, err := s.List(workspaceID, "")
	if err != nil {
		return nil, err
	}
	return bucketPipeline(deals), nil
}

func (s *DealService) Get(workspaceID, dealID uint) (*DealView, error) {
	deal, err := s.findDeal(workspaceID, dealID)
	if err != nil {
		return nil, err
	}
	views, err := s.withNames([]models.Deal{*deal})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create inserts a deal. The contact must resolve inside the caller's
// workspace; assignment defaults to the creator.
func (s *DealService) Create(workspaceID, userID uint, input *DealInput) (*DealView, error) {
	if input.Title == "" {
		return nil, response.NewValidation("deal title is required")
	}
	if input.ContactID == 0 {
		return nil, response.NewValidation("contact is required")
	}
	if input.Stage != "" && !input.Stage.Valid() {
		return nil, response.NewValidation("invalid deal stage")
	}

	var contact models.Contact
	err := s.db.Where("id = ? AND workspace_id = ?", input.ContactID, workspaceID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("contact not found")
		}
		return nil, response.NewServerError("failed to create deal").WithCause(err)
	}

	stage := input.Stage
	if stage == "" {
		stage = models.StageLead
	}
	value := 0.0
	if input.Value != nil {
		value = *input.Value
	}
	probability := 0
	if input.Probability != nil {
		probability = *input.Probability
	}
	assignedTo := userID
	if input.AssignedTo != nil {
		assignedTo = *input.AssignedTo
	}

	deal := models.Deal{
		WorkspaceID:       workspaceID,
		ContactID:         input.ContactID,
		Title:             input.Title,
		Description:       input.Description,
		Value:             value,
		Stage:             stage,
		Probability:       probability,
		ExpectedCloseDate: input.ExpectedCloseDate,
		CreatedBy:         userID,
		AssignedTo:        assignedTo,
	}
	if stage.Closed() {
		now := time.Now()
		deal.ClosedAt = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&deal).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "created", "deal", deal.ID,
			fmt.Sprintf("Created deal %s with %s", deal.Title, contact.Name))
	})
	if err != nil {
		return nil, response.NewServerError("failed to create deal").WithCause(err)
	}

	views, err := s.withNames([]models.Deal{deal})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update rewrites deal fields. A stage move derives closed_at and logs the
// transition.
func (s *DealService) Update(workspaceID, userID, dealID uint, input *DealInput) (*DealView, error) {
	deal, err := s.findDeal(workspaceID, dealID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, response.NewValidation("deal title is required")
	}
	if input.Stage != "" && !input.Stage.Valid() {
		return nil, response.NewValidation("invalid deal stage")
	}

	oldStage := deal.Stage

	deal.Title = input.Title
	deal.Description = input.Description
	deal.ExpectedCloseDate = input.ExpectedCloseDate
	if input.Value != nil {
		deal.Value = *input.Value
	}
	if input.Probability != nil {
		deal.Probability = *input.Probability
	}
	if input.AssignedTo != nil {
		deal.AssignedTo = *input.AssignedTo
	}
	if input.Stage != "" {
		applyStageTransition(deal, input.Stage, time.Now())
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(deal).Error; err != nil {
			return err
		}
		description := fmt.Sprintf("Updated deal %s", deal.Title)
		if deal.Stage != oldStage {
			description = fmt.Sprintf("Moved deal %s from %s to %s", deal.Title, oldStage, deal.Stage)
		}
		return s.activity.LogTx(tx, workspaceID, userID, "updated", "deal", deal.ID, description)
	})
	if err != nil {
		return nil, response.NewServerError("failed to update deal").WithCause(err)
	}

	views, err := s.withNames([]models.Deal{*deal})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateStage moves a deal to a new stage only.
func (s *DealService) UpdateStage(workspaceID, userID, dealID uint, stage models.DealStage) (*DealView, error) {
	if !stage.Valid() {
		return nil, response.NewValidation("invalid deal stage")
	}

	deal, err := s.findDeal(workspaceID, dealID)
	if err != nil {
		return nil, err
	}

	oldStage := deal.Stage
	applyStageTransition(deal, stage, time.Now())

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(deal).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "updated", "deal", deal.ID,
			fmt.Sprintf("Moved deal %s from %s to %s", deal.Title, oldStage, deal.Stage))
	})
	if err != nil {
		return nil, response.NewServerError("failed to update deal").WithCause(err)
	}

	views, err := s.withNames([]models.Deal{*deal})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *DealService) Delete(workspaceID, userID, dealID uint) error {
	deal, err := s.findDeal(workspaceID, dealID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(deal).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "deleted", "deal", dealID,
			fmt.Sprintf("Deleted deal %s", deal.Title))
	})
	if err != nil {
		return response.NewServerError("failed to delete deal").WithCause(err)
	}
	return nil
}

// applyStageTransition mutates the derived closed_at column: set while the
// deal sits in a terminal stage, cleared when it moves back out.
func applyStageTransition(deal *models.Deal, newStage models.DealStage, now time.Time) {
	if deal.Stage == newStage {
		return
	}
	deal.Stage = newStage
	if newStage.Closed() {
		deal.ClosedAt = &now
	} else {
		deal.ClosedAt = nil
	}
}

func (s *DealService) findDeal(workspaceID, dealID uint) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.Where("id = ? AND workspace_id = ?", dealID, workspaceID).First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("deal not found")
		}
		return nil, response.NewServerError("failed to load deal").WithCause(err)
	}
	return &deal, nil
}

func (s *DealService) withNames(deals []models.Deal) ([]DealView, error) {
	views := make([]DealView, 0, len(deals))
	if len(deals) == 0 {
		return views, nil
	}

	contactIDs := make([]uint, 0, len(deals))
	userIDs := make([]uint, 0, len(deals))
	for _, d := range deals {
		contactIDs = append(contactIDs, d.ContactID)
		if d.AssignedTo != 0 {
			userIDs = append(userIDs, d.AssignedTo)
		}
	}

	contactNames := make(map[uint]string)
	var contacts []models.Contact
	if err := s.db.Select("id", "name").Where("id IN ?", contactIDs).Find(&contacts).Error; err != nil {
		return nil, response.NewServerError("failed to list deals").WithCause(err)
	}
	for _, c := range contacts {
		contactNames[c.ID] = c.Name
	}

	userNames := make(map[uint]string)
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.db.Select("id", "name").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, response.NewServerError("failed to list deals").WithCause(err)
		}
		for _, u := range users {
			userNames[u.ID] = u.Name
		}
	}

	for _, d := range deals {
		views = append(views, DealView{
			Deal:           d,
			ContactName:    contactNames[d.ContactID],
			AssignedToName: userNames[d.AssignedTo],
		})
	}
	return views, nil
}
