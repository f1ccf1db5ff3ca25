package models

import (
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	if !RoleFounder.Valid() || !RoleTeamMember.Valid() {
		t.Error("known roles should be valid")
	}
	if Role("admin").Valid() {
		t.Error("unknown role should be invalid")
	}
}

func TestContactTypeValid(t *testing.T) {
	for _, ct := range []ContactType{
		ContactTypeLead, ContactTypeCustomer, ContactTypeInvestor, ContactTypePartner,
	} {
		if !ct.Valid() {
			t.Errorf("%s should be valid", ct)
		}
	}
	if ContactType("vendor").Valid() {
		t.Error("unknown contact type should be invalid")
	}
}

func TestInteractionTypeValid(t *testing.T) {
	for _, it := range []InteractionType{
		InteractionTypeNote, InteractionTypeCall, InteractionTypeEmail,
		InteractionTypeMeeting, InteractionTypeOther,
	} {
		if !it.Valid() {
			t.Errorf("%s should be valid", it)
		}
	}
	if InteractionType("fax").Valid() {
		t.Error("unknown interaction type should be invalid")
	}
}

func TestDealStage(t *testing.T) {
	for _, stage := range PipelineStages {
		if !stage.Valid() {
			t.Errorf("%s should be valid", stage)
		}
	}
	if DealStage("negotiation").Valid() {
		t.Error("unknown stage should be invalid")
	}

	if !StageClosedWon.Closed() || !StageClosedLost.Closed() {
		t.Error("closed_won and closed_lost are terminal stages")
	}
	if StageProposal.Closed() {
		t.Error("proposal is not a terminal stage")
	}
}

func TestTaskEnums(t *testing.T) {
	if TaskPriority("blocker").Valid() {
		t.Error("unknown priority should be invalid")
	}
	if TaskStatus("paused").Valid() {
		t.Error("unknown status should be invalid")
	}
	if got := TaskPriority("blocker").Rank(); got != 0 {
		t.Errorf("unknown priority rank = %d, want 0", got)
	}
	if PriorityUrgent.Rank() <= PriorityHigh.Rank() {
		t.Error("urgent should outrank high")
	}
}

func TestInvitationExpired(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	inv := Invitation{ExpiresAt: now.Add(time.Hour)}

	if inv.Expired(now) {
		t.Error("invitation expiring in an hour is not expired")
	}
	if !inv.Expired(now.Add(2 * time.Hour)) {
		t.Error("invitation past its expiry should be expired")
	}
}
