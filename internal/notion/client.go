// Package notion is the typed gateway to the document database behind
// the relay: collection queries with cursor paging, record CRUD, and the
// database-to-data-source resolution the query protocol requires.
package notion

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/httpx"
	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/relay"
)

// Client performs document-database calls through the relay.
type Client struct {
	hc        *httpx.Client
	base      string
	session   relay.Session
	pageSize  int
	databases map[item.Kind]string

	mu          sync.Mutex
	dataSources map[string]string // database id -> data source id
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg *config.Config, hc *httpx.Client, session relay.Session) *Client {
	return &Client{
		hc:       hc,
		base:     strings.TrimRight(cfg.RelayURL, "/") + "/notion",
		session:  session,
		pageSize: cfg.PageSize,
		databases: map[item.Kind]string{
			item.KindContent:  cfg.ContentDatabaseID,
			item.KindContexts: cfg.ContextsDatabaseID,
			item.KindModels:   cfg.ModelsDatabaseID,
		},
		dataSources: make(map[string]string),
	}
}

// call wraps the shared transport with relay auth and error translation.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	err := c.hc.DoJSON(ctx, method, c.base+path, relay.Headers(c.session), in, out)
	if err == nil {
		return nil
	}
	if statusErr, ok := err.(*httpx.StatusError); ok {
		switch statusErr.Status {
		case http.StatusBadRequest:
			return errors.NewInvalidRequest("remote rejected the request")
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewNotAuthenticated("")
		case http.StatusNotFound:
			return errors.NewNotFound(path)
		}
		return errors.NewRemoteUnavailable(statusErr.Status, statusErr)
	}
	return errors.NewRemoteUnavailable(0, err)
}

// resolveDataSource resolves and caches the physical data-source id for
// a collection kind. Failed resolutions are not cached, so the next call
// retries.
func (c *Client) resolveDataSource(ctx context.Context, kind item.Kind) (string, error) {
	databaseID := c.databases[kind]
	if databaseID == "" {
		return "", errors.NewInvalidRequest("no database configured for collection " + string(kind))
	}

	c.mu.Lock()
	if ds, ok := c.dataSources[databaseID]; ok {
		c.mu.Unlock()
		return ds, nil
	}
	c.mu.Unlock()

	var resp struct {
		DataSources []struct {
			ID string `json:"id"`
		} `json:"data_sources"`
	}
	if err := c.call(ctx, http.MethodGet, "/databases/"+databaseID, nil, &resp); err != nil {
		return "", err
	}
	if len(resp.DataSources) == 0 {
		return "", errors.NewInvalidRequest("database " + databaseID + " has no data source")
	}

	ds := resp.DataSources[0].ID
	c.mu.Lock()
	c.dataSources[databaseID] = ds
	c.mu.Unlock()
	return ds, nil
}

type queryRequest struct {
	PageSize    int          `json:"page_size"`
	StartCursor string       `json:"start_cursor,omitempty"`
	Filter      *queryFilter `json:"filter,omitempty"`
}

// queryFilter is the only incremental filter shape the protocol uses.
type queryFilter struct {
	Timestamp      string `json:"timestamp"`
	LastEditedTime struct {
		After string `json:"after"`
	} `json:"last_edited_time"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// queryPages fetches every page of a collection query. Pages are
// strictly sequential: each cursor comes from the previous response.
func (c *Client) queryPages(ctx context.Context, kind item.Kind, since *time.Time) ([]page, error) {
	ds, err := c.resolveDataSource(ctx, kind)
	if err != nil {
		return nil, err
	}

	var filter *queryFilter
	if since != nil {
		filter = &queryFilter{Timestamp: "last_edited_time"}
		filter.LastEditedTime.After = since.UTC().Format(time.RFC3339)
	}

	var all []page
	cursor := ""
	for {
		req := queryRequest{PageSize: c.pageSize, StartCursor: cursor, Filter: filter}
		var resp queryResponse
		if err := c.call(ctx, http.MethodPost, "/data_sources/"+ds+"/query", req, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// QueryContent fetches content items, optionally only those edited
// after since.
func (c *Client) QueryContent(ctx context.Context, since *time.Time) ([]item.ContentItem, error) {
	pages, err := c.queryPages(ctx, item.KindContent, since)
	if err != nil {
		return nil, err
	}
	items := make([]item.ContentItem, 0, len(pages))
	for _, p := range pages {
		if p.Archived {
			continue
		}
		items = append(items, contentFromPage(p))
	}
	return items, nil
}

// QueryPersonas fetches personas, optionally incremental.
func (c *Client) QueryPersonas(ctx context.Context, since *time.Time) ([]item.Persona, error) {
	pages, err := c.queryPages(ctx, item.KindContexts, since)
	if err != nil {
		return nil, err
	}
	personas := make([]item.Persona, 0, len(pages))
	for _, p := range pages {
		if p.Archived {
			continue
		}
		personas = append(personas, personaFromPage(p))
	}
	return personas, nil
}

// QueryModels fetches model profiles, optionally incremental.
func (c *Client) QueryModels(ctx context.Context, since *time.Time) ([]item.ModelProfile, error) {
	pages, err := c.queryPages(ctx, item.KindModels, since)
	if err != nil {
		return nil, err
	}
	models := make([]item.ModelProfile, 0, len(pages))
	for _, p := range pages {
		if p.Archived {
			continue
		}
		models = append(models, modelFromPage(p))
	}
	return models, nil
}

type createRequest struct {
	Parent     createParent        `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type createParent struct {
	DataSourceID string `json:"data_source_id"`
}

// CreateContent creates a content item with the remote-assigned id
// returned synchronously.
func (c *Client) CreateContent(ctx context.Context, title string, status item.Status) (item.ContentItem, error) {
	ds, err := c.resolveDataSource(ctx, item.KindContent)
	if err != nil {
		return item.ContentItem{}, err
	}

	req := createRequest{
		Parent: createParent{DataSourceID: ds},
		Properties: map[string]property{
			propTitle:  titleProp(title),
			propStatus: statusProp(string(status)),
		},
	}
	var created page
	if err := c.call(ctx, http.MethodPost, "/pages", req, &created); err != nil {
		return item.ContentItem{}, err
	}
	return contentFromPage(created), nil
}

// UpdateContent writes the item's editable properties to the remote
// record.
func (c *Client) UpdateContent(ctx context.Context, it item.ContentItem) error {
	body := map[string]any{"properties": contentProperties(it)}
	return c.call(ctx, http.MethodPatch, "/pages/"+it.ID, body, nil)
}

// CreatePersona creates a persona record.
func (c *Client) CreatePersona(ctx context.Context, p item.Persona) (item.Persona, error) {
	ds, err := c.resolveDataSource(ctx, item.KindContexts)
	if err != nil {
		return item.Persona{}, err
	}

	req := createRequest{
		Parent:     createParent{DataSourceID: ds},
		Properties: personaProperties(p),
	}
	var created page
	if err := c.call(ctx, http.MethodPost, "/pages", req, &created); err != nil {
		return item.Persona{}, err
	}
	return personaFromPage(created), nil
}

// UpdatePersona writes a persona's properties to the remote record.
func (c *Client) UpdatePersona(ctx context.Context, p item.Persona) error {
	body := map[string]any{"properties": personaProperties(p)}
	return c.call(ctx, http.MethodPatch, "/pages/"+p.ID, body, nil)
}

// Archive soft-archives a record on the remote side. The local mirror
// row is the caller's to remove.
func (c *Client) Archive(ctx context.Context, id string) error {
	body := map[string]any{"archived": true}
	return c.call(ctx, http.MethodPatch, "/pages/"+id, body, nil)
}
