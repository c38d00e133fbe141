// Package ops implements the user-facing operations. Every operation is
// a package function taking an Env plus an Input struct and returning an
// Output struct, so the CLI and the MCP surface share one code path.
package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
	"github.com/tmercier/pressroom/internal/syncer"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Remote is the document-database side of the operations.
// *notion.Client satisfies it.
type Remote interface {
	syncer.Source
	CreateContent(ctx context.Context, title string, status item.Status) (item.ContentItem, error)
	UpdateContent(ctx context.Context, it item.ContentItem) error
	CreatePersona(ctx context.Context, p item.Persona) (item.Persona, error)
	UpdatePersona(ctx context.Context, p item.Persona) error
	Archive(ctx context.Context, id string) error
}

// Generator produces AI completions. *ai.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
}

// Runner runs a reconciliation. *syncer.Syncer satisfies it.
type Runner interface {
	Run(ctx context.Context) (*syncer.Result, error)
}

// Env bundles the shared dependencies every operation receives.
type Env struct {
	DB      *sql.DB
	Cfg     *config.Config
	BaseDir string
	Remote  Remote
	AI      Generator
	Syncer  Runner
}

// resolveContent finds a mirrored content item by exact id or unique id
// prefix. The mirror is the only source consulted; run a sync first if
// the item was created elsewhere.
func resolveContent(db *sql.DB, id string) (item.ContentItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return item.ContentItem{}, errors.NewInvalidRequest("id is required")
	}

	items, err := store.GetAll[item.ContentItem](db, item.KindContent)
	if err != nil {
		return item.ContentItem{}, err
	}

	var matches []item.ContentItem
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
		if strings.HasPrefix(it.ID, id) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return item.ContentItem{}, errors.NewNotFound(id)
	case 1:
		return matches[0], nil
	}
	return item.ContentItem{}, errors.NewInvalidRequest("id prefix " + id + " is ambiguous")
}

// resolvePersona picks the persona for an AI action: by explicit id or
// name when given, otherwise the first cached persona of the category.
// No persona is not an error; the action runs without a system prompt.
func resolvePersona(db *sql.DB, idOrName string, category item.Category) (*item.Persona, error) {
	personas, err := store.GetAll[item.Persona](db, item.KindContexts)
	if err != nil {
		return nil, err
	}

	idOrName = strings.TrimSpace(idOrName)
	if idOrName != "" {
		for _, p := range personas {
			if p.ID == idOrName || strings.EqualFold(p.Name, idOrName) {
				return &p, nil
			}
		}
		return nil, errors.NewNotFound(idOrName)
	}
	for _, p := range personas {
		if p.Category == category {
			return &p, nil
		}
	}
	return nil, nil
}

// resolveModel picks the model profile for an AI action: by explicit id
// or provider code when given, otherwise the configured default. The
// built-in profiles participate like stored ones.
func resolveModel(db *sql.DB, cfg *config.Config, idOrCode string) (item.ModelProfile, error) {
	idOrCode = strings.TrimSpace(idOrCode)
	if idOrCode == "" {
		idOrCode = cfg.DefaultModelID
	}

	stored, err := store.GetAll[item.ModelProfile](db, item.KindModels)
	if err != nil {
		return item.ModelProfile{}, err
	}
	for _, m := range append(item.BuiltInModels(), stored...) {
		if m.ID == idOrCode || m.Code == idOrCode {
			return m, nil
		}
	}
	return item.ModelProfile{}, errors.NewNotFound(idOrCode)
}

// saveContent applies the local-first write policy: the mirror is
// updated before the remote write, and a remote failure keeps the local
// edit while surfacing the error.
func saveContent(ctx context.Context, env *Env, it item.ContentItem) error {
	if err := store.UpsertOne(env.DB, item.KindContent, it); err != nil {
		return err
	}
	return env.Remote.UpdateContent(ctx, it)
}

func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nowUTC() time.Time { return time.Now().UTC() }
