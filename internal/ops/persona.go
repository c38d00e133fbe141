package ops

import (
	"context"
	"strings"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
)

// ListPersonasInput contains filters for the ListPersonas operation.
type ListPersonasInput struct {
	Category string // optional
}

// ListPersonasOutput contains the matching personas.
type ListPersonasOutput struct {
	Personas []item.Persona `json:"personas"`
}

// ListPersonas reads personas from the mirror.
func ListPersonas(env *Env, input ListPersonasInput) (*ListPersonasOutput, error) {
	personas, err := store.GetAll[item.Persona](env.DB, item.KindContexts)
	if err != nil {
		return nil, err
	}
	if input.Category == "" {
		return &ListPersonasOutput{Personas: personas}, nil
	}

	filtered := personas[:0:0]
	for _, p := range personas {
		if strings.EqualFold(string(p.Category), input.Category) {
			filtered = append(filtered, p)
		}
	}
	return &ListPersonasOutput{Personas: filtered}, nil
}

// CreatePersonaInput contains parameters for the CreatePersona operation.
type CreatePersonaInput struct {
	Name        string
	Description string
	Category    string
}

// CreatePersonaOutput contains the created persona.
type CreatePersonaOutput struct {
	Persona item.Persona `json:"persona"`
}

// CreatePersona creates a persona remotely and mirrors it locally.
func CreatePersona(ctx context.Context, env *Env, input CreatePersonaInput) (*CreatePersonaOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, errors.NewInvalidRequest("description is required")
	}

	created, err := env.Remote.CreatePersona(ctx, item.Persona{
		Name:        name,
		Description: input.Description,
		Category:    item.Category(input.Category),
	})
	if err != nil {
		return nil, err
	}
	if err := store.UpsertOne(env.DB, item.KindContexts, created); err != nil {
		return nil, err
	}
	return &CreatePersonaOutput{Persona: created}, nil
}

// UpdatePersonaInput contains the field mask for the UpdatePersona
// operation. Nil fields are left untouched.
type UpdatePersonaInput struct {
	ID          string
	Name        *string
	Description *string
	Category    *string
}

// UpdatePersonaOutput contains the updated persona.
type UpdatePersonaOutput struct {
	Persona item.Persona `json:"persona"`
}

// UpdatePersona edits a persona with the same local-first policy as
// content updates.
func UpdatePersona(ctx context.Context, env *Env, input UpdatePersonaInput) (*UpdatePersonaOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	persona, err := resolvePersona(env.DB, input.ID, "")
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, errors.NewNotFound(input.ID)
	}

	p := *persona
	if n := cleanOptionalString(input.Name); n != nil {
		p.Name = *n
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Category != nil {
		p.Category = item.Category(*input.Category)
	}

	if err := store.UpsertOne(env.DB, item.KindContexts, p); err != nil {
		return nil, err
	}
	if err := env.Remote.UpdatePersona(ctx, p); err != nil {
		return &UpdatePersonaOutput{Persona: p}, err
	}
	return &UpdatePersonaOutput{Persona: p}, nil
}
