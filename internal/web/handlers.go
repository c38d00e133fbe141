package web

import (
	"net/http"
	"strconv"

	"github.com/tmercier/pressroom/internal/draft"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/ops"
)

// Handlers contains HTTP route handlers for the dashboard.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
}

// HandleList handles GET /content, the pipeline list.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	platform := r.URL.Query().Get("platform")

	result, err := ops.List(h.env, ops.ListInput{
		Status:   status,
		Platform: platform,
		Limit:    parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:   parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Pipeline",
			Version: h.renderer.version,
			Nav:     "content",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Status:     status,
		Platform:   platform,
		Statuses: []item.Status{
			item.StatusIdea, item.StatusDrafting, item.StatusReady, item.StatusPublished,
		},
	})
}

// HandleDetail handles GET /content/{id}, one item with its body rendered.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Show(h.env, ops.ShowInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// Structured bodies are flattened to text before the markdown pass.
	body := result.BodyText
	if body == "" {
		body = draft.BodyToText(result.Item.Body)
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   result.Item.Title,
			Version: h.renderer.version,
			Nav:     "content",
		},
		Item:     result.Item,
		BodyHTML: renderMarkdown(body),
	})
}

// parseIntParam parses an integer query parameter with a default.
func parseIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
