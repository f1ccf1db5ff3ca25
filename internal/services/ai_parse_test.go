package services

import (
	"testing"
	"time"

	"github.com/foundercrm/backend/internal/models"
)

func TestDecodeModelJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"plain object", `{"subject":"hi"}`, true},
		{"fenced object", "```json\n{\"subject\":\"hi\"}\n```", true},
		{"object with prose", "Here is the draft:\n{\"subject\":\"hi\"}\nHope it helps!", true},
		{"no json", "I could not produce a draft.", false},
		{"truncated json", `{"subject":"hi"`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out EmailDraft
			if got := decodeModelJSON(tc.raw, &out); got != tc.ok {
				t.Errorf("decodeModelJSON = %v, want %v", got, tc.ok)
			}
		})
	}
}

func TestParseNoteAnalysis_Valid(t *testing.T) {
	raw := `{"tasks":[{"title":"Send deck","priority":"high","category":"sales"}],
		"tags":["investor"],"priority":"high","followUpDays":3,"summary":"Investor call"}`

	out := parseNoteAnalysis(raw)

	if out.FromFallback {
		t.Error("valid JSON should not engage the fallback")
	}
	if len(out.Tasks) != 1 || out.Tasks[0].Title != "Send deck" {
		t.Errorf("tasks = %+v", out.Tasks)
	}
	if out.FollowUpDays != 3 {
		t.Errorf("followUpDays = %d, want 3", out.FollowUpDays)
	}
}

func TestParseNoteAnalysis_Fallback(t *testing.T) {
	raw := "The note mentions a demo next week."

	out := parseNoteAnalysis(raw)

	if !out.FromFallback {
		t.Fatal("unparseable response should engage the fallback")
	}
	if out.Priority != "medium" || out.FollowUpDays != 7 {
		t.Errorf("fallback defaults: priority=%s followUpDays=%d", out.Priority, out.FollowUpDays)
	}
	if out.Summary != raw {
		t.Errorf("fallback summary should carry the raw text, got %q", out.Summary)
	}
	if out.Tasks == nil || out.Tags == nil {
		t.Error("fallback slices should be empty, not nil")
	}
}

func TestParseNoteAnalysis_NilSlicesNormalized(t *testing.T) {
	out := parseNoteAnalysis(`{"priority":"low","summary":"quiet week"}`)
	if out.Tasks == nil || out.Tags == nil {
		t.Error("missing arrays in valid JSON should decode to empty slices")
	}
}

func TestParseTaskPrioritization_Fallback(t *testing.T) {
	tasks := []TaskView{
		{Task: models.Task{ID: 11}},
		{Task: models.Task{ID: 22}},
		{Task: models.Task{ID: 33}},
		{Task: models.Task{ID: 44}},
	}

	out := parseTaskPrioritization("no json here", tasks)

	if !out.FromFallback {
		t.Fatal("expected fallback")
	}
	if len(out.PrioritizedOrder) != 4 {
		t.Errorf("prioritizedOrder = %v, want all 4 ids", out.PrioritizedOrder)
	}
	if len(out.TopPriority) != 3 || out.TopPriority[0] != 11 {
		t.Errorf("topPriority = %v, want first 3 ids in given order", out.TopPriority)
	}
}

func TestParseTaskPrioritization_FewTasks(t *testing.T) {
	tasks := []TaskView{{Task: models.Task{ID: 7}}}

	out := fallbackPrioritization("raw", tasks)

	if len(out.TopPriority) != 1 || out.TopPriority[0] != 7 {
		t.Errorf("topPriority = %v, want [7]", out.TopPriority)
	}
}

func TestParseEmailDraft_Fallback(t *testing.T) {
	raw := "Dear Alex, thanks for your time last week."

	out := parseEmailDraft(raw, "Alex Rivera")

	if !out.FromFallback {
		t.Fatal("expected fallback")
	}
	if out.Subject != "Follow up with Alex Rivera" {
		t.Errorf("subject = %q", out.Subject)
	}
	if out.Body != raw {
		t.Errorf("fallback body should carry the raw text, got %q", out.Body)
	}
}

func TestParseContactCategorization_Fallback(t *testing.T) {
	out := parseContactCategorization("not json")

	if !out.FromFallback {
		t.Fatal("expected fallback")
	}
	if out.Type != string(models.ContactTypeLead) {
		t.Errorf("type = %s, want lead", out.Type)
	}
	if len(out.Tags) != 1 || out.Tags[0] != "new" {
		t.Errorf("tags = %v, want [new]", out.Tags)
	}
}

func TestParseDealPrediction_Fallback(t *testing.T) {
	out := parseDealPrediction("the model rambled")

	if !out.FromFallback {
		t.Fatal("expected fallback")
	}
	if out.ConversionProbability != 50 || out.Confidence != "medium" {
		t.Errorf("fallback defaults: probability=%d confidence=%s",
			out.ConversionProbability, out.Confidence)
	}
	if out.KeyFactors == nil || out.Recommendations == nil {
		t.Error("fallback slices should be empty, not nil")
	}
}

func TestParseBeautifiedStatus_Fallback(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	job := &BeautifyJob{
		UserName:  "Sarah",
		Title:     "Call investor",
		OldStatus: "in_progress",
		NewStatus: "completed",
	}

	out := parseBeautifiedStatus("no structure at all", job, "high", "fundraising", now)

	if !out.FromFallback {
		t.Fatal("expected fallback")
	}
	if out.BeautifiedMessage != `Sarah updated "Call investor" to completed` {
		t.Errorf("beautifiedMessage = %q", out.BeautifiedMessage)
	}
	if out.Summary != "Status changed from in_progress to completed" {
		t.Errorf("summary = %q", out.Summary)
	}
	if out.ActionType != "status_change" || !out.Timestamp.Equal(now) {
		t.Errorf("actionType=%s timestamp=%v", out.ActionType, out.Timestamp)
	}
}

func TestParseBeautifiedStatus_EmptyMessageFallsBack(t *testing.T) {
	job := &BeautifyJob{UserName: "Sarah", Title: "Call", OldStatus: "todo", NewStatus: "completed"}

	out := parseBeautifiedStatus(`{"beautifiedMessage":""}`, job, "low", "other", time.Now())

	if !out.FromFallback {
		t.Error("valid JSON with an empty message should still fall back")
	}
}

func TestParseBeautifiedStatus_FillsTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	job := &BeautifyJob{UserName: "Sarah", Title: "Call", OldStatus: "todo", NewStatus: "completed"}

	out := parseBeautifiedStatus(`{"beautifiedMessage":"Sarah wrapped up the investor call"}`,
		job, "low", "other", now)

	if out.FromFallback {
		t.Error("valid message should not fall back")
	}
	if !out.Timestamp.Equal(now) {
		t.Errorf("missing timestamp should default to now, got %v", out.Timestamp)
	}
}
