package ops

import (
	"context"
	"time"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// UpdateInput contains the field mask for the Update operation. Nil
// fields are left untouched.
type UpdateInput struct {
	ID            string
	Title         *string
	Status        *string
	Platforms     []string // nil leaves, empty slice clears
	Body          *string
	Notes         *string
	ScheduledAt   *time.Time
	ClearSchedule bool
}

// UpdateOutput contains the updated item.
type UpdateOutput struct {
	Item item.ContentItem `json:"item"`
}

// Update edits a content item. The mirror is written first; a failing
// remote write keeps the local edit and surfaces the error, so the next
// sync or retry reconciles.
func Update(ctx context.Context, env *Env, input UpdateInput) (*UpdateOutput, error) {
	it, err := resolveContent(env.DB, input.ID)
	if err != nil {
		return nil, err
	}

	if t := cleanOptionalString(input.Title); t != nil {
		it.Title = *t
	}
	if input.Status != nil {
		status, err := item.ParseStatus(*input.Status)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		it.Status = status
	}
	if input.Platforms != nil {
		it.Platforms = input.Platforms
	}
	if input.Body != nil {
		it.Body = *input.Body
	}
	if input.Notes != nil {
		it.Notes = *input.Notes
	}
	if input.ClearSchedule {
		it.ScheduledAt = nil
	} else if input.ScheduledAt != nil {
		it.ScheduledAt = input.ScheduledAt
	}
	it.LastEdited = nowUTC()

	if err := saveContent(ctx, env, it); err != nil {
		return &UpdateOutput{Item: it}, err
	}
	return &UpdateOutput{Item: it}, nil
}
