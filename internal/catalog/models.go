// Package catalog builds and persists the flat video catalog derived from
// a configured set of YouTube playlists.
package catalog

import "time"

// Video is the canonical catalog entity: one entry per unique video id,
// attributed to the playlist through which it was first encountered.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	ThumbnailHigh string `json:"thumbnailHigh"`
	VideoURL      string `json:"videoUrl"`
	PublishedAt   string `json:"publishedAt"`
	ChannelTitle  string `json:"channelTitle"`
	ChannelID     string `json:"channelId"`
	PlaylistID    string `json:"playlistId"`
	PlaylistTitle string `json:"playlistTitle"`
	ViewCount     int64  `json:"viewCount"`
	LikeCount     int64  `json:"likeCount"`
	CommentCount  int64  `json:"commentCount"`
	Duration      string `json:"duration"`
}

// Playlist is one source playlist the API returned metadata for.
type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	VideoCount   int64  `json:"videoCount"`
}

// Snapshot is the unit of persistence between build time and query time.
// It is immutable once built; a rebuild replaces it wholesale.
type Snapshot struct {
	Videos      []Video    `json:"videos"`
	Playlists   []Playlist `json:"playlists"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// IsEmpty reports the "no data yet" state: a snapshot that was never built
// or contains no videos.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Videos) == 0
}

// EmptySnapshot returns the defined not-yet-built state.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Videos:    []Video{},
		Playlists: []Playlist{},
	}
}
