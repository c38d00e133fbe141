package ops

import (
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
)

// ListModelsOutput contains every usable model profile.
type ListModelsOutput struct {
	Models []item.ModelProfile `json:"models"`
}

// ListModels returns the built-in model profiles followed by the
// mirrored ones. Built-ins exist in every installation and are never
// written anywhere.
func ListModels(env *Env) (*ListModelsOutput, error) {
	stored, err := store.GetAll[item.ModelProfile](env.DB, item.KindModels)
	if err != nil {
		return nil, err
	}
	return &ListModelsOutput{Models: append(item.BuiltInModels(), stored...)}, nil
}
