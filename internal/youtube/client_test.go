package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/playgrid/youtube-catalog-go/internal/config"
)

func testConfig(baseURL string) config.YouTubeConfig {
	return config.YouTubeConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		PageSize:       50,
		MaxPages:       200,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     0,
		RetryBackoff:   time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(testConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)
	return client, srv
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.YouTubeConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestFetchVideoStatsBatchPartitioning(t *testing.T) {
	var requests []int // ids per request

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		ids := strings.Split(r.URL.Query().Get("id"), ",")
		requests = append(requests, len(ids))

		resp := videoListResponse{}
		for _, id := range ids {
			resp.Items = append(resp.Items, VideoStats{
				ID:             id,
				Statistics:     Statistics{ViewCount: "100"},
				ContentDetails: ContentDetails{Duration: "PT1M"},
			})
		}
		json.NewEncoder(w).Encode(resp)
	})

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("video-%03d", i)
	}

	stats, err := client.FetchVideoStats(context.Background(), ids)
	require.NoError(t, err)

	assert.Equal(t, []int{50, 50, 20}, requests)
	assert.Len(t, stats, 120)
	assert.Equal(t, "100", stats["video-000"].Statistics.ViewCount)
	assert.Equal(t, "100", stats["video-119"].Statistics.ViewCount)
}

func TestFetchVideoStatsEmptyChunkContributesNothing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// API omits private/deleted videos entirely
		json.NewEncoder(w).Encode(videoListResponse{})
	})

	stats, err := client.FetchVideoStats(context.Background(), []string{"gone-1", "gone-2"})
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestFetchVideoStatsChunkFailureIsFatal(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(videoListResponse{
			Items: []VideoStats{{ID: "ok"}},
		})
	})

	ids := make([]string, 70) // two chunks
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}

	_, err := client.FetchVideoStats(context.Background(), ids)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
	assert.Equal(t, "videos", reqErr.Endpoint)
}

func TestFetchPlaylistItemsPagination(t *testing.T) {
	pages := map[string]playlistItemsResponse{
		"": {
			Items:         []PlaylistItem{itemWithVideo("a"), itemWithVideo("b")},
			NextPageToken: "page2",
		},
		"page2": {
			Items:         []PlaylistItem{itemWithVideo("c")},
			NextPageToken: "page3",
		},
		"page3": {
			Items: []PlaylistItem{itemWithVideo("d")},
		},
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/playlistItems", r.URL.Path)
		require.Equal(t, "PL123", r.URL.Query().Get("playlistId"))
		require.Equal(t, "50", r.URL.Query().Get("maxResults"))

		resp, ok := pages[r.URL.Query().Get("pageToken")]
		require.True(t, ok, "unexpected page token %q", r.URL.Query().Get("pageToken"))
		json.NewEncoder(w).Encode(resp)
	})

	items, err := client.FetchPlaylistItems(context.Background(), "PL123")
	require.NoError(t, err)

	var got []string
	for _, item := range items {
		got = append(got, item.Snippet.ResourceID.VideoID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestFetchPlaylistItemsMaxPagesGuard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always hand back another cursor
		json.NewEncoder(w).Encode(playlistItemsResponse{
			Items:         []PlaylistItem{itemWithVideo("x")},
			NextPageToken: "again",
		})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxPages = 3
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = client.FetchPlaylistItems(context.Background(), "PLloop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 3 pages")
}

func TestFetchPlaylistMeta(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/playlists", r.URL.Path)
		require.Equal(t, "snippet,contentDetails", r.URL.Query().Get("part"))

		json.NewEncoder(w).Encode(playlistListResponse{
			Items: []PlaylistMeta{
				{
					ID:             "PL1",
					Snippet:        PlaylistSnippet{Title: "Talks", ChannelTitle: "Conf"},
					ContentDetails: PlaylistContentDetails{ItemCount: 12},
				},
			},
		})
	})

	meta, err := client.FetchPlaylistMeta(context.Background(), []string{"PL1", "PLmissing"})
	require.NoError(t, err)

	require.Len(t, meta, 1)
	assert.Equal(t, "Talks", meta["PL1"].Snippet.Title)
	assert.Equal(t, int64(12), meta["PL1"].ContentDetails.ItemCount)
	_, ok := meta["PLmissing"]
	assert.False(t, ok)
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(videoListResponse{Items: []VideoStats{{ID: "v1"}}})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	stats, err := client.FetchVideoStats(context.Background(), []string{"v1"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, stats, "v1")
	assert.Equal(t, int64(3), client.QuotaUsed())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad key", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = client.FetchVideoStats(context.Background(), []string{"v1"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBatchIDs(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		batchSize int
		wantSizes []int
	}{
		{"empty input", 0, 50, nil},
		{"single partial batch", 10, 50, []int{10}},
		{"exact batch", 50, 50, []int{50}},
		{"three batches", 120, 50, []int{50, 50, 20}},
		{"invalid batch size falls back to 50", 60, 0, []int{50, 10}},
		{"oversized batch size capped at 50", 60, 100, []int{50, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.count)
			for i := range ids {
				ids[i] = fmt.Sprintf("id%d", i)
			}

			batches := BatchIDs(ids, tt.batchSize)

			var sizes []int
			for _, b := range batches {
				sizes = append(sizes, len(b))
			}
			assert.Equal(t, tt.wantSizes, sizes)
		})
	}
}

func itemWithVideo(videoID string) PlaylistItem {
	return PlaylistItem{
		Snippet: ItemSnippet{
			Title:      "video " + videoID,
			ResourceID: ResourceID{VideoID: videoID},
		},
	}
}
