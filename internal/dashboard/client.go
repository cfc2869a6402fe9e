// Package dashboard is the data layer behind the staff triage view: it owns
// filter, pagination, and selection state and talks to the feedback API.
// Rendering is someone else's problem.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"axiom-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultPageSize = 20

// PendingDelete tracks a delete awaiting explicit confirmation.
type PendingDelete struct {
	IDs  []string
	Bulk bool
}

type Client struct {
	baseURL string
	http    *http.Client
	store   FilterStore
	log     zerolog.Logger

	filters  Filters
	page     int
	pageSize int

	items    []models.Feedback
	total    int64
	selected map[string]bool

	pendingDelete *PendingDelete
}

// NewClient restores persisted filters from the store and starts on page 1.
func NewClient(baseURL string, store FilterStore, log zerolog.Logger) (*Client, error) {
	filters, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load saved filters: %w", err)
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{},
		store:    store,
		log:      log,
		filters:  filters,
		page:     1,
		pageSize: defaultPageSize,
		selected: map[string]bool{},
	}, nil
}

func (c *Client) Filters() Filters { return c.filters }

func (c *Client) Page() int { return c.page }

func (c *Client) PageSize() int { return c.pageSize }

func (c *Client) Items() []models.Feedback { return c.items }

func (c *Client) Total() int64 { return c.total }

// SetFilters persists the new filter state, resets to the first page, and
// refetches.
func (c *Client) SetFilters(ctx context.Context, f Filters) error {
	c.filters = f
	if err := c.store.Save(f); err != nil {
		c.log.Error().Err(err).Msg("failed to persist filters")
	}
	c.page = 1
	return c.Refresh(ctx)
}

func (c *Client) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.page = page
	return c.Refresh(ctx)
}

func (c *Client) SetPageSize(ctx context.Context, size int) error {
	if size < 1 {
		size = defaultPageSize
	}
	c.pageSize = size
	c.page = 1
	return c.Refresh(ctx)
}

// Refresh fetches the current page. Dimensions with exactly one selected
// value go into the query; everything else (and the has-cat flag, which has
// no server-side filter) is applied locally. Selection survives the refetch
// for ids still present in the result set.
func (c *Client) Refresh(ctx context.Context) error {
	query := url.Values{}
	query.Set("page", strconv.Itoa(c.page))
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	if len(c.filters.Sentiments) == 1 {
		query.Set("sentiment", c.filters.Sentiments[0])
	}
	if len(c.filters.Priorities) == 1 {
		query.Set("priority", c.filters.Priorities[0])
	}
	if len(c.filters.Tags) == 1 {
		query.Set("tag", c.filters.Tags[0])
	}
	if c.filters.Search != "" {
		query.Set("search", c.filters.Search)
	}

	var envelope struct {
		Success    bool              `json:"success"`
		Data       []models.Feedback `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/feedback?"+query.Encode(), nil, &envelope); err != nil {
		return err
	}

	items := envelope.Data[:0]
	for _, fb := range envelope.Data {
		if c.filters.matchLocal(fb) {
			items = append(items, fb)
		}
	}
	c.items = items
	c.total = envelope.Pagination.Total

	// Prune selection to ids still visible.
	present := map[string]bool{}
	for _, fb := range c.items {
		present[fb.ID.Hex()] = true
	}
	for id := range c.selected {
		if !present[id] {
			delete(c.selected, id)
		}
	}
	return nil
}

// --- selection ---

func (c *Client) ToggleSelect(id string) {
	if c.selected[id] {
		delete(c.selected, id)
		return
	}
	c.selected[id] = true
}

func (c *Client) SelectedIDs() []string {
	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Client) ClearSelection() {
	c.selected = map[string]bool{}
}

// --- delete flow ---

// RequestDelete stages a single-item delete pending confirmation.
func (c *Client) RequestDelete(id string) {
	c.pendingDelete = &PendingDelete{IDs: []string{id}}
}

// RequestBulkDelete stages the current selection for deletion.
func (c *Client) RequestBulkDelete() {
	ids := c.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	c.pendingDelete = &PendingDelete{IDs: ids, Bulk: true}
}

func (c *Client) PendingDelete() *PendingDelete { return c.pendingDelete }

func (c *Client) CancelDelete() { c.pendingDelete = nil }

// ConfirmDelete executes the staged delete. On success the affected ids are
// dropped from local state without a refetch.
func (c *Client) ConfirmDelete(ctx context.Context) error {
	pending := c.pendingDelete
	if pending == nil {
		return fmt.Errorf("no delete pending confirmation")
	}

	if pending.Bulk {
		body := map[string]interface{}{"ids": pending.IDs}
		if err := c.do(ctx, http.MethodDelete, "/feedback", body, nil); err != nil {
			return err
		}
	} else {
		if err := c.do(ctx, http.MethodDelete, "/feedback/"+pending.IDs[0], nil, nil); err != nil {
			return err
		}
	}

	removed := map[string]bool{}
	for _, id := range pending.IDs {
		removed[id] = true
	}
	c.items = slices.DeleteFunc(c.items, func(fb models.Feedback) bool {
		return removed[fb.ID.Hex()]
	})
	for id := range removed {
		delete(c.selected, id)
	}
	if c.total >= int64(len(removed)) {
		c.total -= int64(len(removed))
	}
	c.pendingDelete = nil
	return nil
}

// UpdateNextAction patches one feedback's next action and applies the change
// locally on success, without a refetch.
func (c *Client) UpdateNextAction(ctx context.Context, id, nextAction string) error {
	body := map[string]interface{}{"nextAction": nextAction}
	var envelope struct {
		Data models.Feedback `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, "/feedback/"+id, body, &envelope); err != nil {
		return err
	}
	for i := range c.items {
		if c.items[i].ID.Hex() == id {
			c.items[i].Analysis.NextAction = envelope.Data.Analysis.NextAction
		}
	}
	return nil
}

// do issues one API request with a fresh correlation id and decodes the
// response into out (when non-nil). API errors surface as the server's
// error message string, the same way the web dashboard shows them.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error.Message == "" {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		c.log.Warn().
			Str("req_id", reqID).
			Str("code", failure.Error.Code).
			Int("status", resp.StatusCode).
			Msg("api request failed")
		return fmt.Errorf("%s", failure.Error.Message)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
