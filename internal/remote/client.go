package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tallard/campusreel/internal/media"
)

// DefaultPageLimit caps one item-list page.
const DefaultPageLimit = 50

// Client talks to the remote item store over JSON/HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	subMu      sync.Mutex
	subscribed bool
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// ListItems fetches the most-recent-first page of items.
func (c *Client) ListItems(ctx context.Context, limit int) ([]media.Item, error) {
	if limit < 1 || limit > DefaultPageLimit {
		limit = DefaultPageLimit
	}

	q := make(url.Values)
	q.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, "/items.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list items request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, storeErrorFromResponse("list items", resp)
	}

	var items []media.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode items response: %w", err)
	}
	return items, nil
}

// AppendItem creates a new item in the store. The id, upload stamp and
// zeroed counters are assigned client-side so the item is renderable before
// the store echoes it back.
func (c *Client) AppendItem(ctx context.Context, item media.Item) (media.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.UploadedAt == 0 {
		item.UploadedAt = time.Now().UnixMilli()
	}
	item.ViewCount = 0
	item.Engagement = 0

	payload, err := json.Marshal(item)
	if err != nil {
		return media.Item{}, fmt.Errorf("encode item: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/items.json", bytes.NewReader(payload))
	if err != nil {
		return media.Item{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return media.Item{}, fmt.Errorf("append item request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return media.Item{}, storeErrorFromResponse("append item", resp)
	}

	var created media.Item
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// Some stores reply with an empty body; the local copy is canonical
		// enough until the next subscription snapshot.
		return item, nil
	}
	return created, nil
}

// UpdateEngagement writes the new absolute counter totals for an item.
// Totals rather than deltas keep a retried write from double counting.
func (c *Client) UpdateEngagement(ctx context.Context, id string, viewCount int64, engagement float64) error {
	payload, err := json.Marshal(map[string]any{
		"view_count":      viewCount,
		"engagement_time": engagement,
	})
	if err != nil {
		return fmt.Errorf("encode engagement update: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPatch, "/items/"+url.PathEscape(id)+".json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("engagement update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return storeErrorFromResponse("update engagement", resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func storeErrorFromResponse(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: %w", op, &StoreError{
		Code:    codeForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: strings.TrimSpace(string(body)),
	})
}
