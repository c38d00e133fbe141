package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// QuickAddRequest represents the arguments for content_quick_add.
type QuickAddRequest struct {
	Title string `json:"title"`
}

// UpdateRequest represents the arguments for content_update.
type UpdateRequest struct {
	ID            string   `json:"id"`
	Title         *string  `json:"title,omitempty"`
	Status        *string  `json:"status,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	Body          *string  `json:"body,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	ScheduledAt   *string  `json:"scheduled_at,omitempty"`
	ClearSchedule bool     `json:"clear_schedule,omitempty"`
}

// ListRequest represents the arguments for content_list.
type ListRequest struct {
	Status   string `json:"status,omitempty"`
	Platform string `json:"platform,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// ShowRequest represents the arguments for content_show.
type ShowRequest struct {
	ID string `json:"id"`
}

// ArchiveRequest represents the arguments for content_archive.
type ArchiveRequest struct {
	ID string `json:"id"`
}

// AnalyzeRequest represents the arguments for content_analyze.
type AnalyzeRequest struct {
	ID      string `json:"id"`
	Persona string `json:"persona,omitempty"`
	Model   string `json:"model,omitempty"`
}

// InterviewRequest represents the arguments for content_interview.
type InterviewRequest struct {
	ID      string  `json:"id"`
	Persona string  `json:"persona,omitempty"`
	Model   string  `json:"model,omitempty"`
	Answers *string `json:"answers,omitempty"`
}

// DraftRequest represents the arguments for content_draft.
type DraftRequest struct {
	ID      string `json:"id"`
	Format  string `json:"format,omitempty"`
	Persona string `json:"persona,omitempty"`
	Model   string `json:"model,omitempty"`
}

// PersonaListRequest represents the arguments for persona_list.
type PersonaListRequest struct {
	Category string `json:"category,omitempty"`
}

// Handler implementations

// HandleQuickAdd handles the content_quick_add tool call.
func (h *Handlers) HandleQuickAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QuickAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.QuickAdd(ctx, h.env, ops.QuickAddInput{Title: input.Title})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleUpdate handles the content_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	opsInput := ops.UpdateInput{
		ID:            input.ID,
		Title:         input.Title,
		Status:        input.Status,
		Platforms:     input.Platforms,
		Body:          input.Body,
		Notes:         input.Notes,
		ClearSchedule: input.ClearSchedule,
	}
	if input.ScheduledAt != nil {
		at, err := time.Parse(time.RFC3339, *input.ScheduledAt)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("scheduled_at must be RFC 3339")), nil
		}
		opsInput.ScheduledAt = &at
	}

	result, err := ops.Update(ctx, h.env, opsInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the content_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.env, ops.ListInput{
		Status:   input.Status,
		Platform: input.Platform,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleShow handles the content_show tool call.
func (h *Handlers) HandleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Show(h.env, ops.ShowInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleArchive handles the content_archive tool call.
func (h *Handlers) HandleArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArchiveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Archive(ctx, h.env, ops.ArchiveInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSync handles the content_sync tool call.
func (h *Handlers) HandleSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Sync(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAnalyze handles the content_analyze tool call.
func (h *Handlers) HandleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnalyzeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Analyze(ctx, h.env, ops.AnalyzeInput{
		ID:      input.ID,
		Persona: input.Persona,
		Model:   input.Model,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleInterview handles the content_interview tool call.
func (h *Handlers) HandleInterview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InterviewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Interview(ctx, h.env, ops.InterviewInput{
		ID:      input.ID,
		Persona: input.Persona,
		Model:   input.Model,
		Answers: input.Answers,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDraft handles the content_draft tool call.
func (h *Handlers) HandleDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DraftRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Draft(ctx, h.env, ops.DraftInput{
		ID:      input.ID,
		Format:  input.Format,
		Persona: input.Persona,
		Model:   input.Model,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePersonaList handles the persona_list tool call.
func (h *Handlers) HandlePersonaList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PersonaListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListPersonas(h.env, ops.ListPersonasInput{Category: input.Category})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleModelList handles the model_list tool call.
func (h *Handlers) HandleModelList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListModels(h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pressErr, ok := err.(*errors.PressError); ok {
		errorObj := map[string]any{
			"code":    pressErr.Code,
			"message": pressErr.Message,
			"status":  pressErr.Status,
		}
		if pressErr.Code != errors.ErrInternal && pressErr.Details != nil {
			errorObj["details"] = pressErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
