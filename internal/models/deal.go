package models

import "time"

// DealStage is the pipeline stage of a deal.
type DealStage string

const (
	StageLead       DealStage = "lead"
	StageQualified  DealStage = "qualified"
	StageDemo       DealStage = "demo"
	StageProposal   DealStage = "proposal"
	StageClosedWon  DealStage = "closed_won"
	StageClosedLost DealStage = "closed_lost"
)

// PipelineStages lists all stages in pipeline order.
var PipelineStages = []DealStage{
	StageLead, StageQualified, StageDemo, StageProposal,
	StageClosedWon, StageClosedLost,
}

func (s DealStage) Valid() bool {
	for _, stage := range PipelineStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Closed reports whether the stage is a terminal one.
func (s DealStage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

type Deal struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	WorkspaceID       uint       `gorm:"index;not null" json:"workspace_id"`
	ContactID         uint       `gorm:"index;not null" json:"contact_id"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Value             float64    `gorm:"type:decimal(12,2);default:0" json:"value"`
	Stage             DealStage  `gorm:"size:20;default:lead" json:"stage"`
	Probability       int        `gorm:"default:0" json:"probability"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	CreatedBy         uint       `json:"created_by"`
	AssignedTo        uint       `json:"assigned_to"`
	ClosedAt          *time.Time `json:"closed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Deal) TableName() string { return "deals" }
