package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/ops"
	"github.com/tmercier/pressroom/internal/store"
	"github.com/tmercier/pressroom/internal/syncer"
)

// testRemote is a canned in-memory remote.
type testRemote struct{}

func (testRemote) QueryContent(ctx context.Context, since *time.Time) ([]item.ContentItem, error) {
	return nil, nil
}

func (testRemote) QueryPersonas(ctx context.Context, since *time.Time) ([]item.Persona, error) {
	return nil, nil
}

func (testRemote) QueryModels(ctx context.Context, since *time.Time) ([]item.ModelProfile, error) {
	return nil, nil
}

func (testRemote) CreateContent(ctx context.Context, title string, status item.Status) (item.ContentItem, error) {
	return item.ContentItem{ID: "remote-1", Title: title, Status: status, LastEdited: time.Now()}, nil
}

func (testRemote) UpdateContent(ctx context.Context, it item.ContentItem) error { return nil }

func (testRemote) CreatePersona(ctx context.Context, p item.Persona) (item.Persona, error) {
	p.ID = "remote-ctx-1"
	return p, nil
}

func (testRemote) UpdatePersona(ctx context.Context, p item.Persona) error { return nil }

func (testRemote) Archive(ctx context.Context, id string) error { return nil }

type testGen struct{}

func (testGen) Generate(ctx context.Context, req ai.Request) (string, error) {
	return `{"format":"Post Texte","hook":"A","body":"B"}`, nil
}

// testSetup creates a handler set over a temporary mirror.
func testSetup(t *testing.T) (*Handlers, *ops.Env) {
	t.Helper()
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	env := &ops.Env{
		DB:     db,
		Cfg:    cfg,
		Remote: testRemote{},
		AI:     testGen{},
		Syncer: syncer.New(db, testRemote{}, cfg),
	}
	return NewHandlers(env), env
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultJSON decodes the first text content of a tool result.
func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, text.Text)
	}
	return out
}

func TestHandleQuickAdd(t *testing.T) {
	h, env := testSetup(t)

	res, err := h.HandleQuickAdd(context.Background(), makeRequest(map[string]any{
		"title": "Lancer le produit",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("result = %+v", resultJSON(t, res))
	}

	out := resultJSON(t, res)
	created, _ := out["item"].(map[string]any)
	if created["id"] != "remote-1" || created["status"] != "Idea" {
		t.Errorf("item = %v", created)
	}

	items, err := store.GetAll[item.ContentItem](env.DB, item.KindContent)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("mirror items = %d", len(items))
	}
}

func TestHandleQuickAdd_MissingTitle(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleQuickAdd(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError result")
	}
	out := resultJSON(t, res)
	errObj, _ := out["error"].(map[string]any)
	if errObj["code"] != "INVALID_REQUEST" {
		t.Errorf("error = %v", errObj)
	}
}

func TestHandleShow_NotFound(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleShow(context.Background(), makeRequest(map[string]any{"id": "missing"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError result")
	}
	out := resultJSON(t, res)
	errObj, _ := out["error"].(map[string]any)
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("error = %v", errObj)
	}
}

func TestHandleUpdate_BadSchedule(t *testing.T) {
	h, env := testSetup(t)
	if err := store.UpsertOne(env.DB, item.KindContent, item.ContentItem{ID: "p1", Title: "t"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	res, err := h.HandleUpdate(context.Background(), makeRequest(map[string]any{
		"id":           "p1",
		"scheduled_at": "demain",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError result for a bad date")
	}
}

func TestHandleDraft_EndToEnd(t *testing.T) {
	h, env := testSetup(t)
	if err := store.UpsertOne(env.DB, item.KindContent, item.ContentItem{
		ID: "p1", Title: "t", TargetFormat: item.FormatPost,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	res, err := h.HandleDraft(context.Background(), makeRequest(map[string]any{"id": "p1"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("result = %+v", resultJSON(t, res))
	}
	out := resultJSON(t, res)
	updated, _ := out["item"].(map[string]any)
	if updated["status"] != "Drafting" {
		t.Errorf("item = %v", updated)
	}
}

func TestErrorResult_HidesInternalDetails(t *testing.T) {
	res := errorResult(errors.NewInternal(nil))
	out := resultJSON(t, res)
	errObj, _ := out["error"].(map[string]any)
	if errObj["code"] != "INTERNAL" {
		t.Errorf("error = %v", errObj)
	}
	if _, ok := errObj["details"]; ok {
		t.Error("internal error details must not be exposed")
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"content_sync", "content_export"})
	if len(unknown) != 1 || unknown[0] != "content_export" {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("names = %d, want %d", len(names), len(toolRegistry))
	}
}
