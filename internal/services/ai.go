package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

type AIService struct {
	db     *gorm.DB
	config *config.AIConfig
}

func NewAIService(db *gorm.DB, cfg *config.AIConfig) *AIService {
	return &AIService{db: db, config: cfg}
}

// AnalyzeContactNote asks the model for follow-up tasks, tags and a
// priority for a free-text note. Provider or parse failures degrade to a
// deterministic fallback; the caller always gets an analysis.
func (s *AIService) AnalyzeContactNote(ctx context.Context, workspaceID, userID, contactID uint, note string) (*NoteAnalysis, error) {
	if note == "" {
		return nil, response.NewValidation("note is required")
	}

	var contact models.Contact
	err := s.db.Where("id = ? AND workspace_id = ?", contactID, workspaceID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("contact not found")
		}
		return nil, response.NewServerError("failed to analyze note").WithCause(err)
	}

	prompt := fmt.Sprintf(`You are an AI assistant for a CRM system. Analyze the following note about a contact and provide actionable suggestions.

Contact Information:
- Name: %s
- Type: %s
- Company: %s

Note: %q

Based on this note, provide:
1. Suggested follow-up tasks (max 2)
2. Suggested tags for this contact (max 3)
3. Priority level (low, medium, high, urgent)
4. Recommended timeline for follow-up

Return your response in JSON format:
{
  "tasks": [{"title": "Task title", "description": "Task description", "priority": "medium", "category": "sales"}],
  "tags": ["tag1", "tag2"],
  "priority": "medium",
  "followUpDays": 7,
  "summary": "Brief summary of the note and suggested actions"
}`, contact.Name, contact.Type, orNA(contact.Company), note)

	raw := s.completeOrEmpty(ctx, prompt, 0.7, 500)
	analysis := parseNoteAnalysis(raw)
	due := followUpDate(time.Now(), analysis.FollowUpDays)
	analysis.FollowUpDate = &due

	s.storeSuggestion(workspaceID, userID, "contact_analysis", "contact", contactID,
		firstNonEmpty(analysis.Summary, "AI analyzed the note"), analysis)
	return &analysis, nil
}

// PrioritizeTasks orders the caller's open tasks. With nothing to order the
// model is not called at all.
func (s *AIService) PrioritizeTasks(ctx context.Context, workspaceID, userID uint, tasks *TaskService) (*TaskPrioritization, error) {
	var open []models.Task
	err := s.db.Where("workspace_id = ? AND assigned_to = ? AND status IN ?",
		workspaceID, userID, []models.TaskStatus{models.StatusTodo, models.StatusInProgress}).
		Order("due_date ASC").Limit(20).Find(&open).Error
	if err != nil {
		return nil, response.NewServerError("failed to prioritize tasks").WithCause(err)
	}
	if len(open) == 0 {
		return &TaskPrioritization{
			PrioritizedOrder: []uint{},
			TopPriority:      []uint{},
			Reasoning:        "No tasks to prioritize",
		}, nil
	}

	views, err := tasks.withNames(open)
	if err != nil {
		return nil, err
	}

	var lines []string
	for i, t := range views {
		due := "No date"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("%d. %s (id: %d, Due: %s, Priority: %s, Category: %s)",
			i+1, t.Title, t.ID, due, t.Priority, t.Category))
	}

	prompt := fmt.Sprintf(`You are an AI task prioritization assistant. Analyze the following tasks and suggest the order they should be completed based on urgency, importance, and dependencies.

Tasks:
%s

Provide a prioritized list with brief reasoning. Return in JSON format:
{
  "prioritizedOrder": [task ids in order],
  "topPriority": [top 3 task ids],
  "reasoning": "Brief explanation of prioritization strategy",
  "recommendations": "Any general recommendations"
}`, strings.Join(lines, "\n"))

	raw := s.completeOrEmpty(ctx, prompt, 0.7, 600)
	result := parseTaskPrioritization(raw, views)

	s.storeSuggestion(workspaceID, userID, "task_prioritization", "user", userID,
		firstNonEmpty(result.Reasoning, "AI prioritized your tasks"), result)
	return &result, nil
}

// GenerateFollowUpEmail drafts an email for a contact using their three
// most recent interactions as context.
func (s *AIService) GenerateFollowUpEmail(ctx context.Context, workspaceID, contactID uint, emailContext string) (*EmailDraft, error) {
	var contact models.Contact
	err := s.db.Where("id = ? AND workspace_id = ?", contactID, workspaceID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("contact not found")
		}
		return nil, response.NewServerError("failed to generate email").WithCause(err)
	}

	var interactions []models.Interaction
	if err := s.db.Where("contact_id = ?", contactID).
		Order("interaction_date DESC").Limit(3).Find(&interactions).Error; err != nil {
		return nil, response.NewServerError("failed to generate email").WithCause(err)
	}

	var history []string
	for _, it := range interactions {
		history = append(history, fmt.Sprintf("%s: %s", it.Type, it.Notes))
	}
	historyText := strings.Join(history, "\n")
	if historyText == "" {
		historyText = "No recent interactions"
	}

	prompt := fmt.Sprintf(`You are an AI email assistant for a startup founder. Draft a professional follow-up email for the following contact:

Contact: %s
Company: %s
Type: %s

Recent interactions:
%s

Context: %s

Write a friendly but professional follow-up email. Keep it concise and actionable.
Return in JSON format:
{
  "subject": "Email subject",
  "body": "Email body text"
}`, contact.Name, orNA(contact.Company), contact.Type, historyText, emailContext)

	raw := s.completeOrEmpty(ctx, prompt, 0.8, 400)
	draft := parseEmailDraft(raw, contact.Name)
	return &draft, nil
}

type CategorizeInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// CategorizeContact suggests a contact type and tags from raw fields. The
// contact need not exist yet.
func (s *AIService) CategorizeContact(ctx context.Context, input *CategorizeInput) (*ContactCategorization, error) {
	if input.Name == "" {
		return nil, response.NewValidation("contact name is required")
	}

	prompt := fmt.Sprintf(`Analyze this contact and suggest the most appropriate type and tags:

Name: %s
Email: %s
Company: %s
Notes: %s

Return in JSON format:
{
  "type": "customer|investor|partner|lead",
  "tags": ["tag1", "tag2", "tag3"],
  "reasoning": "Brief explanation"
}`, input.Name, orNA(input.Email), orNA(input.Company), orNA(input.Notes))

	raw := s.completeOrEmpty(ctx, prompt, 0.7, 200)
	result := parseContactCategorization(raw)
	return &result, nil
}

const summarizeThreshold = 200

// SummarizeNotes condenses long notes; short ones pass through untouched.
func (s *AIService) SummarizeNotes(ctx context.Context, notes string) (string, error) {
	if len(notes) < summarizeThreshold {
		return notes, nil
	}

	prompt := fmt.Sprintf(`Summarize the following notes concisely, keeping the key points:

%s

Provide a clear, bullet-point summary.`, notes)

	raw, err := s.completePrompt(ctx, prompt, 0.5, 300)
	if err != nil {
		logger.Warn().Err(err).Msg("note summarization failed, returning original text")
		return notes, nil
	}
	return raw, nil
}

// PredictDealConversion estimates conversion likelihood from the deal's
// stage, value and how often the contact has been touched.
func (s *AIService) PredictDealConversion(ctx context.Context, workspaceID, dealID uint) (*DealPrediction, error) {
	var deal models.Deal
	err := s.db.Where("id = ? AND workspace_id = ?", dealID, workspaceID).First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("deal not found")
		}
		return nil, response.NewServerError("failed to predict conversion").WithCause(err)
	}

	var contact models.Contact
	contactType := models.ContactTypeLead
	if err := s.db.First(&contact, deal.ContactID).Error; err == nil {
		contactType = contact.Type
	}

	var interactionCount int64
	if err := s.db.Model(&models.Interaction{}).
		Where("contact_id = ?", deal.ContactID).Count(&interactionCount).Error; err != nil {
		return nil, response.NewServerError("failed to predict conversion").WithCause(err)
	}

	expectedClose := "Not set"
	if deal.ExpectedCloseDate != nil {
		expectedClose = deal.ExpectedCloseDate.Format("2006-01-02")
	}

	prompt := fmt.Sprintf(`Analyze this sales deal and predict the likelihood of conversion:

Deal: %s
Stage: %s
Value: $%.2f
Contact Type: %s
Interactions: %d
Expected Close: %s

Return in JSON format:
{
  "conversionProbability": 0-100,
  "confidence": "low|medium|high",
  "keyFactors": ["factor1", "factor2"],
  "recommendations": ["recommendation1", "recommendation2"],
  "reasoning": "Brief explanation"
}`, deal.Title, deal.Stage, deal.Value, contactType, interactionCount, expectedClose)

	raw := s.completeOrEmpty(ctx, prompt, 0.7, 400)
	prediction := parseDealPrediction(raw)
	return &prediction, nil
}

// BeautifyStatusMessage rewrites a status transition as a short update for
// the team feed, persists it, and writes it onto the task row. Invoked
// from the queue worker, never from a request path.
func (s *AIService) BeautifyStatusMessage(ctx context.Context, job *BeautifyJob) error {
	var task models.Task
	if err := s.db.First(&task, job.TaskID).Error; err != nil {
		return fmt.Errorf("task not found: %w", err)
	}

	prompt := fmt.Sprintf(`Rewrite this task status update as a friendly, professional one-sentence message for a team activity feed.

Task: %s
Category: %s
Priority: %s
Status change: %s to %s
Updated by: %s

Return in JSON format:
{
  "beautifiedMessage": "The rewritten message",
  "summary": "One-line summary",
  "priority": "%s",
  "category": "%s",
  "actionType": "status_change"
}`, job.Title, task.Category, task.Priority, job.OldStatus, job.NewStatus, job.UserName,
		task.Priority, task.Category)

	raw := s.completeOrEmpty(ctx, prompt, 0.7, 200)
	result := parseBeautifiedStatus(raw, job, string(task.Priority), task.Category, time.Now())

	record := models.BeautifiedStatusMessage{
		WorkspaceID:    task.WorkspaceID,
		TaskID:         task.ID,
		UserID:         job.UserID,
		OriginalStatus: models.TaskStatus(job.OldStatus),
		NewStatus:      models.TaskStatus(job.NewStatus),
		Message:        result.BeautifiedMessage,
		FromFallback:   result.FromFallback,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}

	return s.db.Model(&models.Task{}).Where("id = ?", task.ID).
		Update("beautified_status_message", result.BeautifiedMessage).Error
}

type SuggestionFilter struct {
	IsApplied *bool
	Limit     int
}

// ListSuggestions returns the workspace's AI audit trail, newest first.
func (s *AIService) ListSuggestions(workspaceID uint, filter SuggestionFilter) ([]models.AISuggestion, error) {
	query := s.db.Where("workspace_id = ?", workspaceID)
	if filter.IsApplied != nil {
		query = query.Where("is_applied = ?", *filter.IsApplied)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var suggestions []models.AISuggestion
	if err := query.Order("created_at DESC").Limit(limit).Find(&suggestions).Error; err != nil {
		return nil, response.NewServerError("failed to list suggestions").WithCause(err)
	}
	if suggestions == nil {
		suggestions = []models.AISuggestion{}
	}
	return suggestions, nil
}

// MarkSuggestionApplied flips the applied flag on one suggestion.
func (s *AIService) MarkSuggestionApplied(workspaceID, suggestionID uint) (*models.AISuggestion, error) {
	var suggestion models.AISuggestion
	err := s.db.Where("id = ? AND workspace_id = ?", suggestionID, workspaceID).
		First(&suggestion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("suggestion not found")
		}
		return nil, response.NewServerError("failed to update suggestion").WithCause(err)
	}

	if err := s.db.Model(&suggestion).Update("is_applied", true).Error; err != nil {
		return nil, response.NewServerError("failed to update suggestion").WithCause(err)
	}
	suggestion.IsApplied = true
	return &suggestion, nil
}

// completeOrEmpty swallows provider errors so every caller takes its
// deterministic fallback path on an empty response.
func (s *AIService) completeOrEmpty(ctx context.Context, prompt string, temperature float32, maxTokens int) string {
	raw, err := s.completePrompt(ctx, prompt, temperature, maxTokens)
	if err != nil {
		logger.Warn().Err(err).Str("provider", s.config.Provider).Msg("AI completion failed")
		return ""
	}
	return raw
}

func (s *AIService) completePrompt(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}

	switch s.config.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, prompt, maxTokens)
	case "ollama":
		return s.callOllama(ctx, prompt, temperature)
	case "gemini":
		return s.callGemini(ctx, prompt)
	default:
		// openai and OpenAI-compatible endpoints
		return s.callOpenAI(ctx, prompt, temperature, maxTokens)
	}
}

func (s *AIService) callOpenAI(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	clientConfig := openai.DefaultConfig(s.config.APIKey)
	if s.config.BaseURL != "" {
		clientConfig.BaseURL = s.config.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) callAnthropic(ctx context.Context, prompt string, maxTokens int) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(s.config.APIKey),
	)

	model := s.config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	return content.String(), nil
}

func (s *AIService) callOllama(ctx context.Context, prompt string, temperature float32) (string, error) {
	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := s.config.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}
	return content.String(), nil
}

func (s *AIService) callGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := s.config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}

// storeSuggestion appends to the audit trail; failures are logged, never
// surfaced.
func (s *AIService) storeSuggestion(workspaceID, userID uint, suggestionType, contextType string, contextID uint, text string, payload any) {
	metadata, err := json.Marshal(payload)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode suggestion metadata")
		metadata = []byte("{}")
	}

	suggestion := models.AISuggestion{
		WorkspaceID:    workspaceID,
		UserID:         userID,
		SuggestionType: suggestionType,
		ContextType:    contextType,
		ContextID:      contextID,
		SuggestionText: text,
		Metadata:       string(metadata),
	}
	if err := s.db.Create(&suggestion).Error; err != nil {
		logger.Warn().Err(err).Str("type", suggestionType).Msg("failed to store AI suggestion")
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
