package ops

import (
	"context"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/draft"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// DraftInput contains parameters for the Draft operation.
type DraftInput struct {
	ID      string
	Format  string // optional; defaults to the item's analyzed target format
	Persona string // optional persona id or name
	Model   string // optional model id or code
}

// DraftOutput contains the updated item and the validated draft.
type DraftOutput struct {
	Item  item.ContentItem `json:"item"`
	Draft *draft.Draft     `json:"draft"`
}

// Draft generates the content piece for an item. The raw completion
// goes through the structured-response parser; a payload that fails
// validation aborts the operation with the diagnostic and leaves the
// item exactly as it was.
func Draft(ctx context.Context, env *Env, input DraftInput) (*DraftOutput, error) {
	it, err := resolveContent(env.DB, input.ID)
	if err != nil {
		return nil, err
	}

	format := it.TargetFormat
	if input.Format != "" {
		format, err = item.ParseFormat(input.Format)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
	}
	if format == "" {
		return nil, errors.NewInvalidRequest(
			"no target format: analyze the item first or pass a format")
	}

	persona, err := resolvePersona(env.DB, input.Persona, item.CategoryDrafting)
	if err != nil {
		return nil, err
	}
	model, err := resolveModel(env.DB, env.Cfg, input.Model)
	if err != nil {
		return nil, err
	}

	req := ai.Request{ModelCode: model.Code, Prompt: draftPrompt(it, format)}
	if persona != nil {
		req.System = persona.Description
	}
	raw, err := env.AI.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	d, err := draft.ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	it.Body = d.Raw
	it.TargetFormat = d.Format
	it.Status = item.StatusDrafting
	it.LastEdited = nowUTC()

	if err := saveContent(ctx, env, it); err != nil {
		return &DraftOutput{Item: it, Draft: d}, err
	}
	return &DraftOutput{Item: it, Draft: d}, nil
}
