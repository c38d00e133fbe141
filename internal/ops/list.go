package ops

import (
	"slices"
	"strings"

	"github.com/tmercier/pressroom/internal/draft"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/store"
)

// ListInput contains filters for the List operation.
type ListInput struct {
	Status   string // optional pipeline stage filter
	Platform string // optional platform filter
	Limit    int    // default DefaultListLimit, max MaxListLimit
	Offset   int
}

// ListOutput contains the matching items, newest edit first.
type ListOutput struct {
	Items      []item.ContentItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// List reads content items from the mirror. It never touches the
// network; stale reads are resolved by running a sync.
func List(env *Env, input ListInput) (*ListOutput, error) {
	var status item.Status
	if input.Status != "" {
		parsed, err := item.ParseStatus(input.Status)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		status = parsed
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := store.GetAll[item.ContentItem](env.DB, item.KindContent)
	if err != nil {
		return nil, err
	}

	filtered := items[:0:0]
	for _, it := range items {
		if status != "" && it.Status != status {
			continue
		}
		if input.Platform != "" && !containsFold(it.Platforms, input.Platform) {
			continue
		}
		filtered = append(filtered, it)
	}

	total := len(filtered)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	page := slices.Clone(filtered[offset:end])

	return &ListOutput{
		Items: page,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
			Total:   total,
		},
	}, nil
}

// ShowInput contains parameters for the Show operation.
type ShowInput struct {
	ID string
}

// ShowOutput contains the item plus its body flattened to plain text.
type ShowOutput struct {
	Item     item.ContentItem `json:"item"`
	BodyText string           `json:"body_text,omitempty"`
}

// Show reads a single item from the mirror by id or unique id prefix.
func Show(env *Env, input ShowInput) (*ShowOutput, error) {
	it, err := resolveContent(env.DB, input.ID)
	if err != nil {
		return nil, err
	}
	return &ShowOutput{Item: it, BodyText: draft.BodyToText(it.Body)}, nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
