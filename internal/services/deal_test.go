package services

import (
	"testing"
	"time"

	"github.com/foundercrm/backend/internal/models"
)

func dealView(id uint, stage models.DealStage, value float64) DealView {
	return DealView{Deal: models.Deal{ID: id, Stage: stage, Value: value}}
}

func TestBucketPipeline_AllStagesPresent(t *testing.T) {
	buckets := bucketPipeline(nil)

	if len(buckets) != len(models.PipelineStages) {
		t.Fatalf("expected %d buckets, got %d", len(models.PipelineStages), len(buckets))
	}
	for i, stage := range models.PipelineStages {
		if buckets[i].Stage != string(stage) {
			t.Errorf("bucket %d = %s, want %s", i, buckets[i].Stage, stage)
		}
		if buckets[i].Deals == nil {
			t.Errorf("bucket %s should carry an empty slice, not nil", stage)
		}
	}
}

func TestBucketPipeline_GroupsAndTotals(t *testing.T) {
	deals := []DealView{
		dealView(1, models.StageLead, 1000),
		dealView(2, models.StageLead, 500),
		dealView(3, models.StageProposal, 9000),
	}

	buckets := bucketPipeline(deals)

	lead := buckets[0]
	if len(lead.Deals) != 2 || lead.TotalValue != 1500 {
		t.Errorf("lead bucket: %d deals, total %.0f; want 2 deals, total 1500",
			len(lead.Deals), lead.TotalValue)
	}
	proposal := buckets[3]
	if len(proposal.Deals) != 1 || proposal.TotalValue != 9000 {
		t.Errorf("proposal bucket: %d deals, total %.0f; want 1 deal, total 9000",
			len(proposal.Deals), proposal.TotalValue)
	}
}

func TestBucketPipeline_UnknownStage(t *testing.T) {
	deals := []DealView{
		dealView(1, models.StageLead, 100),
		dealView(2, models.DealStage("legacy_stage"), 250),
	}

	buckets := bucketPipeline(deals)

	if len(buckets) != len(models.PipelineStages)+1 {
		t.Fatalf("expected trailing unknown bucket, got %d buckets", len(buckets))
	}
	last := buckets[len(buckets)-1]
	if last.Stage != "unknown" {
		t.Errorf("trailing bucket = %s, want unknown", last.Stage)
	}
	if len(last.Deals) != 1 || last.Deals[0].ID != 2 {
		t.Errorf("unknown bucket should hold the unrecognized deal, got %+v", last.Deals)
	}
	if last.TotalValue != 250 {
		t.Errorf("unknown total = %.0f, want 250", last.TotalValue)
	}
}

func TestApplyStageTransition_ClosesDeal(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	for _, stage := range []models.DealStage{models.StageClosedWon, models.StageClosedLost} {
		deal := &models.Deal{Stage: models.StageProposal}
		applyStageTransition(deal, stage, now)
		if deal.ClosedAt == nil || !deal.ClosedAt.Equal(now) {
			t.Errorf("stage %s: closed_at = %v, want %v", stage, deal.ClosedAt, now)
		}
	}
}

func TestApplyStageTransition_ReopenClearsClosedAt(t *testing.T) {
	closed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deal := &models.Deal{Stage: models.StageClosedLost, ClosedAt: &closed}

	applyStageTransition(deal, models.StageQualified, closed.Add(48*time.Hour))

	if deal.ClosedAt != nil {
		t.Errorf("closed_at should clear when a deal reopens, got %v", deal.ClosedAt)
	}
	if deal.Stage != models.StageQualified {
		t.Errorf("stage = %s, want qualified", deal.Stage)
	}
}

func TestApplyStageTransition_SameStageNoop(t *testing.T) {
	closed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deal := &models.Deal{Stage: models.StageClosedWon, ClosedAt: &closed}

	applyStageTransition(deal, models.StageClosedWon, closed.Add(time.Hour))

	if !deal.ClosedAt.Equal(closed) {
		t.Errorf("closed_at moved on a no-op: %v", deal.ClosedAt)
	}
}
