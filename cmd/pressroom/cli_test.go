package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/ops"
	"github.com/tmercier/pressroom/internal/store"
	"github.com/tmercier/pressroom/internal/syncer"
)

// stubRemote satisfies ops.Remote with canned responses so CLI tests
// never touch the network.
type stubRemote struct{}

func (stubRemote) QueryContent(ctx context.Context, since *time.Time) ([]item.ContentItem, error) {
	return nil, nil
}

func (stubRemote) QueryPersonas(ctx context.Context, since *time.Time) ([]item.Persona, error) {
	return nil, nil
}

func (stubRemote) QueryModels(ctx context.Context, since *time.Time) ([]item.ModelProfile, error) {
	return nil, nil
}

func (stubRemote) CreateContent(ctx context.Context, title string, status item.Status) (item.ContentItem, error) {
	return item.ContentItem{ID: "remote-1", Title: title, Status: status, LastEdited: time.Now()}, nil
}

func (stubRemote) UpdateContent(ctx context.Context, it item.ContentItem) error { return nil }

func (stubRemote) CreatePersona(ctx context.Context, p item.Persona) (item.Persona, error) {
	p.ID = "remote-ctx-1"
	return p, nil
}

func (stubRemote) UpdatePersona(ctx context.Context, p item.Persona) error { return nil }

func (stubRemote) Archive(ctx context.Context, id string) error { return nil }

// setupTestEnv creates an environment over a temporary mirror.
func setupTestEnv(t *testing.T) *ops.Env {
	t.Helper()
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	remote := stubRemote{}
	return &ops.Env{
		DB:     db,
		Cfg:    cfg,
		Remote: remote,
		Syncer: syncer.New(db, remote, cfg),
	}
}

// runApp runs the CLI app with captured stdout.
func runApp(t *testing.T, env *ops.Env, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(env, nil)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"pressroom"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestParseList tests the parseList helper function.
func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "LinkedIn",
			expected: []string{"LinkedIn"},
		},
		{
			name:     "multiple values",
			input:    "LinkedIn,X,Newsletter",
			expected: []string{"LinkedIn", "X", "Newsletter"},
		},
		{
			name:     "values with spaces",
			input:    " LinkedIn , X ",
			expected: []string{"LinkedIn", "X"},
		},
		{
			name:     "empty values filtered",
			input:    "LinkedIn,,X,",
			expected: []string{"LinkedIn", "X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseList(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d values, got %d", len(tt.expected), len(result))
				return
			}
			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("expected value[%d]=%q, got %q", i, tt.expected[i], v)
				}
			}
		})
	}
}

// TestCLIAdd tests the add command.
func TestCLIAdd(t *testing.T) {
	env := setupTestEnv(t)

	out, err := runApp(t, env, "add", "Mon", "idée", "de", "post")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	var output ops.QuickAddOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Item.ID == "" {
		t.Error("expected non-empty ID")
	}
	if output.Item.Title != "Mon idée de post" {
		t.Errorf("expected title joined from args, got %q", output.Item.Title)
	}
	if output.Item.Status != item.StatusIdea {
		t.Errorf("expected status %s, got %s", item.StatusIdea, output.Item.Status)
	}
}

// TestCLIListAndShow tests the list and show commands over a seeded mirror.
func TestCLIListAndShow(t *testing.T) {
	env := setupTestEnv(t)

	seeded := item.ContentItem{
		ID:         "abc123def",
		Title:      "Post existant",
		Status:     item.StatusReady,
		LastEdited: time.Now().UTC(),
	}
	if err := store.UpsertOne(env.DB, item.KindContent, seeded); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	t.Run("list", func(t *testing.T) {
		out, err := runApp(t, env, "list", "--status=Ready")
		if err != nil {
			t.Fatalf("list command failed: %v", err)
		}

		var output ops.ListOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 || output.Items[0].ID != seeded.ID {
			t.Errorf("expected the seeded item, got %+v", output.Items)
		}
	})

	t.Run("show by id prefix", func(t *testing.T) {
		out, err := runApp(t, env, "show", "abc123")
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}

		var output ops.ShowOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Item.ID != seeded.ID {
			t.Errorf("expected ID=%s, got %s", seeded.ID, output.Item.ID)
		}
	})
}

// TestCLIUpdateRejectsBadSchedule tests schedule validation.
func TestCLIUpdateRejectsBadSchedule(t *testing.T) {
	env := setupTestEnv(t)

	if err := store.UpsertOne(env.DB, item.KindContent, item.ContentItem{ID: "p1", Title: "Un post"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := runApp(t, env, "update", "--schedule=demain", "p1")
	if err == nil {
		t.Fatal("expected error for non-RFC3339 schedule")
	}
}

// TestCLISync tests the sync command against the stub remote.
func TestCLISync(t *testing.T) {
	env := setupTestEnv(t)

	out, err := runApp(t, env, "sync")
	if err != nil {
		t.Fatalf("sync command failed: %v", err)
	}

	var output ops.SyncOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Skipped {
		t.Error("expected sync to run, not skip")
	}
	if len(output.Scopes) != 3 {
		t.Errorf("expected 3 scopes, got %d", len(output.Scopes))
	}
}

// TestCLIModels tests the models command.
func TestCLIModels(t *testing.T) {
	env := setupTestEnv(t)

	out, err := runApp(t, env, "models")
	if err != nil {
		t.Fatalf("models command failed: %v", err)
	}

	var output ops.ListModelsOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Models) < 2 {
		t.Errorf("expected at least the built-in models, got %d", len(output.Models))
	}
}

// TestCLICommandsMapMatchesApp keeps the mode-dispatch map in sync with
// the registered commands.
func TestCLICommandsMapMatchesApp(t *testing.T) {
	app := newCLIApp(nil, nil)
	for _, cmd := range app.Commands {
		if !cliCommands[cmd.Name] {
			t.Errorf("command %q missing from cliCommands map", cmd.Name)
		}
	}
}
