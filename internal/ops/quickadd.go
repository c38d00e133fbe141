package ops

import (
	"context"
	"strings"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
)

// QuickAddInput contains parameters for the QuickAdd operation.
type QuickAddInput struct {
	Title string // required
}

// QuickAddOutput contains the created item.
type QuickAddOutput struct {
	Item item.ContentItem `json:"item"`
}

// QuickAdd captures a new idea: the record is created remotely so the
// remote store assigns the id, then mirrored locally.
func QuickAdd(ctx context.Context, env *Env, input QuickAddInput) (*QuickAddOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	created, err := env.Remote.CreateContent(ctx, title, item.StatusIdea)
	if err != nil {
		return nil, err
	}
	if err := store.UpsertOne(env.DB, item.KindContent, created); err != nil {
		return nil, err
	}
	return &QuickAddOutput{Item: created}, nil
}
