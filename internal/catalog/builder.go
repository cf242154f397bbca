package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/playgrid/youtube-catalog-go/internal/duration"
	"github.com/playgrid/youtube-catalog-go/internal/youtube"
)

const unknownPlaylistTitle = "Unknown Playlist"

// itemFetchConcurrency bounds simultaneous per-playlist page loops.
const itemFetchConcurrency = 4

// Fetcher is the remote API surface the builder needs.
type Fetcher interface {
	FetchPlaylistMeta(ctx context.Context, playlistIDs []string) (map[string]youtube.PlaylistMeta, error)
	FetchPlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistItem, error)
	FetchVideoStats(ctx context.Context, videoIDs []string) (map[string]youtube.VideoStats, error)
}

// Builder produces catalog snapshots from a configured, ordered list of
// playlist ids.
type Builder struct {
	fetcher     Fetcher
	logger      *zap.Logger
	playlistIDs []string
	timeout     time.Duration
}

// NewBuilder creates a Builder. The playlist id order is significant: it
// decides first-seen attribution when a video belongs to several playlists.
func NewBuilder(fetcher Fetcher, playlistIDs []string, timeout time.Duration, logger *zap.Logger) *Builder {
	return &Builder{
		fetcher:     fetcher,
		logger:      logger,
		playlistIDs: playlistIDs,
		timeout:     timeout,
	}
}

type taggedItem struct {
	item       youtube.PlaylistItem
	playlistID string
}

// Build fetches everything and assembles one snapshot. Any remote failure
// aborts the build; no partial snapshot is ever returned. Missing playlist
// metadata and missing video statistics are absorbed per their defined
// fallbacks instead.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	if len(b.playlistIDs) == 0 {
		b.logger.Warn("no playlists configured, building empty catalog")
		snap := EmptySnapshot()
		snap.LastUpdated = time.Now().UTC()
		return snap, nil
	}

	start := time.Now()

	// Playlist metadata and the per-playlist item loops only depend on the
	// configured ids, so they run concurrently. Results land in slots
	// indexed by configured position; completion order never influences
	// first-seen attribution.
	var metaByID map[string]youtube.PlaylistMeta
	itemsByIndex := make([][]youtube.PlaylistItem, len(b.playlistIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(itemFetchConcurrency)

	g.Go(func() error {
		meta, err := b.fetcher.FetchPlaylistMeta(gctx, b.playlistIDs)
		if err != nil {
			return fmt.Errorf("fetch playlist metadata: %w", err)
		}
		metaByID = meta
		return nil
	})

	for i, playlistID := range b.playlistIDs {
		i, playlistID := i, playlistID
		g.Go(func() error {
			items, err := b.fetcher.FetchPlaylistItems(gctx, playlistID)
			if err != nil {
				return fmt.Errorf("fetch items of playlist %s: %w", playlistID, err)
			}
			itemsByIndex[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Work list: configured playlist order, then item order within each.
	var work []taggedItem
	for i, playlistID := range b.playlistIDs {
		for _, item := range itemsByIndex[i] {
			work = append(work, taggedItem{item: item, playlistID: playlistID})
		}
		b.logger.Debug("playlist items fetched",
			zap.String("playlist_id", playlistID),
			zap.Int("items", len(itemsByIndex[i])),
		)
	}

	videoIDs := distinctVideoIDs(work)

	statsByID, err := b.fetcher.FetchVideoStats(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch video statistics: %w", err)
	}

	videos := b.assembleVideos(work, statsByID, metaByID)

	// Default catalog order: most viewed first. Stable, so equal view
	// counts keep their work-list order.
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})

	playlists := make([]Playlist, 0, len(metaByID))
	for _, playlistID := range b.playlistIDs {
		meta, ok := metaByID[playlistID]
		if !ok {
			// Metadata the API refused to return; its videos were still
			// processed above under the fallback title.
			continue
		}
		playlists = append(playlists, Playlist{
			ID:           playlistID,
			Title:        meta.Snippet.Title,
			ChannelTitle: meta.Snippet.ChannelTitle,
			VideoCount:   meta.ContentDetails.ItemCount,
		})
	}

	b.logger.Info("catalog built",
		zap.Int("playlists", len(playlists)),
		zap.Int("items_seen", len(work)),
		zap.Int("videos", len(videos)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Snapshot{
		Videos:      videos,
		Playlists:   playlists,
		LastUpdated: time.Now().UTC(),
	}, nil
}

// assembleVideos walks the work list in order, applying first-seen
// de-duplication and the drop-on-missing-stats policy.
func (b *Builder) assembleVideos(work []taggedItem, statsByID map[string]youtube.VideoStats, metaByID map[string]youtube.PlaylistMeta) []Video {
	videos := make([]Video, 0, len(work))
	seen := make(map[string]bool, len(work))
	dropped := 0

	for _, w := range work {
		videoID := w.item.Snippet.ResourceID.VideoID
		if seen[videoID] {
			continue
		}
		seen[videoID] = true

		stats, ok := statsByID[videoID]
		if !ok {
			// No statistics record means private, deleted or otherwise
			// inaccessible. The video is dropped entirely.
			dropped++
			continue
		}

		playlistTitle := unknownPlaylistTitle
		if meta, ok := metaByID[w.playlistID]; ok {
			playlistTitle = meta.Snippet.Title
		}

		snippet := w.item.Snippet
		videos = append(videos, Video{
			ID:            videoID,
			Title:         snippet.Title,
			Description:   snippet.Description,
			ThumbnailURL:  defaultThumbnail(snippet.Thumbnails),
			ThumbnailHigh: bestThumbnail(snippet.Thumbnails),
			VideoURL:      "https://www.youtube.com/watch?v=" + videoID,
			PublishedAt:   snippet.PublishedAt,
			ChannelTitle:  snippet.ChannelTitle,
			ChannelID:     snippet.ChannelID,
			PlaylistID:    w.playlistID,
			PlaylistTitle: playlistTitle,
			ViewCount:     parseCount(stats.Statistics.ViewCount),
			LikeCount:     parseCount(stats.Statistics.LikeCount),
			CommentCount:  parseCount(stats.Statistics.CommentCount),
			Duration:      duration.Display(stats.ContentDetails.Duration),
		})
	}

	if dropped > 0 {
		b.logger.Info("videos without statistics dropped", zap.Int("count", dropped))
	}

	return videos
}

// distinctVideoIDs extracts unique video ids in first-appearance order.
func distinctVideoIDs(work []taggedItem) []string {
	seen := make(map[string]bool, len(work))
	ids := make([]string, 0, len(work))
	for _, w := range work {
		id := w.item.Snippet.ResourceID.VideoID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// defaultThumbnail picks the everyday-resolution thumbnail: medium when
// available, otherwise the guaranteed default.
func defaultThumbnail(t youtube.Thumbnails) string {
	if t.Medium != nil {
		return t.Medium.URL
	}
	if t.Default != nil {
		return t.Default.URL
	}
	return ""
}

// bestThumbnail picks the highest resolution available, falling down
// through maxres, high, medium, default.
func bestThumbnail(t youtube.Thumbnails) string {
	for _, thumb := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if thumb != nil {
			return thumb.URL
		}
	}
	return ""
}

// parseCount converts a decimal-string counter, defaulting to 0 when the
// field is absent or unparsable.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
