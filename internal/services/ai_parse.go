package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/foundercrm/backend/internal/models"
)

// Structured AI payloads. Each has a deterministic fallback built from the
// request inputs so a malformed model response never reaches the caller as
// an error.

type SuggestedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

type NoteAnalysis struct {
	Tasks        []SuggestedTask `json:"tasks"`
	Tags         []string        `json:"tags"`
	Priority     string          `json:"priority"`
	FollowUpDays int             `json:"followUpDays"`
	FollowUpDate *time.Time      `json:"followUpDate,omitempty"`
	Summary      string          `json:"summary"`
	FromFallback bool            `json:"fromFallback,omitempty"`
}

type TaskPrioritization struct {
	PrioritizedOrder []uint `json:"prioritizedOrder"`
	TopPriority      []uint `json:"topPriority"`
	Reasoning        string `json:"reasoning"`
	Recommendations  string `json:"recommendations"`
	FromFallback     bool   `json:"fromFallback,omitempty"`
}

type EmailDraft struct {
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	FromFallback bool   `json:"fromFallback,omitempty"`
}

type ContactCategorization struct {
	Type         string   `json:"type"`
	Tags         []string `json:"tags"`
	Reasoning    string   `json:"reasoning"`
	FromFallback bool     `json:"fromFallback,omitempty"`
}

type DealPrediction struct {
	ConversionProbability int      `json:"conversionProbability"`
	Confidence            string   `json:"confidence"`
	KeyFactors            []string `json:"keyFactors"`
	Recommendations       []string `json:"recommendations"`
	Reasoning             string   `json:"reasoning"`
	FromFallback          bool     `json:"fromFallback,omitempty"`
}

type BeautifiedStatus struct {
	BeautifiedMessage string    `json:"beautifiedMessage"`
	Summary           string    `json:"summary"`
	Priority          string    `json:"priority"`
	Category          string    `json:"category"`
	ActionType        string    `json:"actionType"`
	Timestamp         time.Time `json:"timestamp"`
	FromFallback      bool      `json:"fromFallback,omitempty"`
}

// decodeModelJSON extracts the first JSON object from a model response.
// Models wrap JSON in markdown fences or prose often enough that a strict
// unmarshal of the raw text would fail on valid answers.
func decodeModelJSON(raw string, v any) bool {
	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			text = text[i : j+1]
		}
	}
	return json.Unmarshal([]byte(text), v) == nil
}

func parseNoteAnalysis(raw string) NoteAnalysis {
	var out NoteAnalysis
	if decodeModelJSON(raw, &out) {
		if out.Tasks == nil {
			out.Tasks = []SuggestedTask{}
		}
		if out.Tags == nil {
			out.Tags = []string{}
		}
		return out
	}
	return NoteAnalysis{
		Tasks:        []SuggestedTask{},
		Tags:         []string{},
		Priority:     "medium",
		FollowUpDays: 7,
		Summary:      raw,
		FromFallback: true,
	}
}

func parseTaskPrioritization(raw string, tasks []TaskView) TaskPrioritization {
	var out TaskPrioritization
	if decodeModelJSON(raw, &out) {
		return out
	}
	return fallbackPrioritization(raw, tasks)
}

// fallbackPrioritization keeps the due-date order the tasks already carry.
func fallbackPrioritization(raw string, tasks []TaskView) TaskPrioritization {
	order := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		order = append(order, t.ID)
	}
	top := order
	if len(top) > 3 {
		top = top[:3]
	}
	return TaskPrioritization{
		PrioritizedOrder: order,
		TopPriority:      top,
		Reasoning:        raw,
		Recommendations:  "Focus on high-priority tasks first",
		FromFallback:     true,
	}
}

func parseEmailDraft(raw, contactName string) EmailDraft {
	var out EmailDraft
	if decodeModelJSON(raw, &out) {
		return out
	}
	return EmailDraft{
		Subject:      "Follow up with " + contactName,
		Body:         raw,
		FromFallback: true,
	}
}

func parseContactCategorization(raw string) ContactCategorization {
	var out ContactCategorization
	if decodeModelJSON(raw, &out) {
		if out.Tags == nil {
			out.Tags = []string{}
		}
		return out
	}
	return ContactCategorization{
		Type:         string(models.ContactTypeLead),
		Tags:         []string{"new"},
		Reasoning:    "Default categorization",
		FromFallback: true,
	}
}

func parseDealPrediction(raw string) DealPrediction {
	var out DealPrediction
	if decodeModelJSON(raw, &out) {
		if out.KeyFactors == nil {
			out.KeyFactors = []string{}
		}
		if out.Recommendations == nil {
			out.Recommendations = []string{}
		}
		return out
	}
	return DealPrediction{
		ConversionProbability: 50,
		Confidence:            "medium",
		KeyFactors:            []string{},
		Recommendations:       []string{},
		Reasoning:             raw,
		FromFallback:          true,
	}
}

func parseBeautifiedStatus(raw string, job *BeautifyJob, priority, category string, now time.Time) BeautifiedStatus {
	var out BeautifiedStatus
	if decodeModelJSON(raw, &out) && out.BeautifiedMessage != "" {
		if out.Timestamp.IsZero() {
			out.Timestamp = now
		}
		return out
	}
	return fallbackBeautifiedStatus(job, priority, category, now)
}

func fallbackBeautifiedStatus(job *BeautifyJob, priority, category string, now time.Time) BeautifiedStatus {
	return BeautifiedStatus{
		BeautifiedMessage: job.UserName + " updated " + `"` + job.Title + `"` + " to " + job.NewStatus,
		Summary:           "Status changed from " + job.OldStatus + " to " + job.NewStatus,
		Priority:          priority,
		Category:          category,
		ActionType:        "status_change",
		Timestamp:         now,
		FromFallback:      true,
	}
}
