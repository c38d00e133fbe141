package ops

import (
	"context"

	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
)

// ArchiveInput contains parameters for the Archive operation.
type ArchiveInput struct {
	ID string
}

// ArchiveOutput reports the archived id.
type ArchiveOutput struct {
	ID string `json:"id"`
}

// Archive soft-archives the remote record, then drops the mirror row.
// The remote write comes first here: an archive that only happened
// locally would resurrect on the next sync.
func Archive(ctx context.Context, env *Env, input ArchiveInput) (*ArchiveOutput, error) {
	it, err := resolveContent(env.DB, input.ID)
	if err != nil {
		return nil, err
	}
	if err := env.Remote.Archive(ctx, it.ID); err != nil {
		return nil, err
	}
	if err := store.DeleteOne(env.DB, item.KindContent, it.ID); err != nil {
		return nil, err
	}
	return &ArchiveOutput{ID: it.ID}, nil
}
