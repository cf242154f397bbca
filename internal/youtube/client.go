// Package youtube wraps the YouTube Data API v3 REST endpoints behind
// uniform batch semantics: bounded-size id lookups and cursor pagination.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/playgrid/youtube-catalog-go/internal/config"
)

// maxBatchIDs is the API's hard cap on ids per lookup request.
const maxBatchIDs = 50

// RequestError is a failed remote call: network, HTTP status, or
// deserialization. Any RequestError aborts the fetch that produced it;
// partial results are never returned.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("youtube %s request failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("youtube %s request failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Client wraps the YouTube Data API v3.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
	baseURL      string
	apiKey       string
	pageSize     int
	maxPages     int
	maxRetries   int
	retryBackoff time.Duration
	quotaUsed    atomic.Int64
}

// NewClient creates a new YouTube API client from configuration.
func NewClient(cfg config.YouTubeConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxBatchIDs {
		pageSize = maxBatchIDs
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 200
	}

	limit := rate.Limit(cfg.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		limiter:      rate.NewLimiter(limit, burst),
		logger:       logger,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		pageSize:     pageSize,
		maxPages:     maxPages,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
	}, nil
}

// FetchPlaylistMeta retrieves playlist metadata for the given ids, issuing
// one request per chunk of up to 50 ids. Ids the API does not return are
// simply absent from the result map.
func (c *Client) FetchPlaylistMeta(ctx context.Context, playlistIDs []string) (map[string]PlaylistMeta, error) {
	result := make(map[string]PlaylistMeta, len(playlistIDs))

	for _, batch := range BatchIDs(playlistIDs, maxBatchIDs) {
		params := url.Values{
			"part": {"snippet,contentDetails"},
			"id":   {strings.Join(batch, ",")},
		}

		var resp playlistListResponse
		if err := c.getJSON(ctx, "playlists", params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			result[item.ID] = item
		}
	}

	return result, nil
}

// FetchVideoStats retrieves statistics and content details for the given
// video ids in chunks of up to 50. Videos missing from the response
// (private, deleted) are absent from the result map; that is not an error.
func (c *Client) FetchVideoStats(ctx context.Context, videoIDs []string) (map[string]VideoStats, error) {
	result := make(map[string]VideoStats, len(videoIDs))

	for _, batch := range BatchIDs(videoIDs, maxBatchIDs) {
		params := url.Values{
			"part": {"statistics,contentDetails"},
			"id":   {strings.Join(batch, ",")},
		}

		var resp videoListResponse
		if err := c.getJSON(ctx, "videos", params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			result[item.ID] = item
		}
	}

	return result, nil
}

// FetchPlaylistItems retrieves every membership record of one playlist,
// following the continuation cursor until the API stops returning one.
// Pages accumulate in request order. A playlist that pages past the
// configured bound fails closed rather than looping on a misbehaving
// remote.
func (c *Client) FetchPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""

	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, &RequestError{
				Endpoint: "playlistItems",
				Err:      fmt.Errorf("playlist %s exceeded %d pages without a final page", playlistID, c.maxPages),
			}
		}

		params := url.Values{
			"part":       {"snippet"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(c.pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.getJSON(ctx, "playlistItems", params, &resp); err != nil {
			return nil, err
		}

		items = append(items, resp.Items...)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return items, nil
}

// QuotaUsed reports the number of list calls issued so far. Each list call
// costs one quota unit.
func (c *Client) QuotaUsed() int64 {
	return c.quotaUsed.Load()
}

// getJSON performs one rate-limited GET against an API endpoint, retrying
// transient failures (network errors, 5xx, 429) with exponential backoff.
// Non-retryable HTTP statuses and decode failures return immediately.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	backoff := c.retryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying youtube request",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return &RequestError{Endpoint: endpoint, Err: ctx.Err()}
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return &RequestError{Endpoint: endpoint, Err: err}
		}

		retryable, err := c.doRequest(ctx, endpoint, reqURL, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return lastErr
}

// doRequest executes a single HTTP round trip. The bool result reports
// whether the error is worth retrying.
func (c *Client) doRequest(ctx context.Context, endpoint, reqURL string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, &RequestError{Endpoint: endpoint, Err: err}
	}

	c.quotaUsed.Add(1)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		reqErr := &RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return retryable, reqErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	return false, nil
}

// BatchIDs splits a list of ids into consecutive chunks of at most
// batchSize, preserving order.
func BatchIDs(ids []string, batchSize int) [][]string {
	if batchSize <= 0 || batchSize > maxBatchIDs {
		batchSize = maxBatchIDs
	}

	var batches [][]string
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[i:end])
	}

	return batches
}
