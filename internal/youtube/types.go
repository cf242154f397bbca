package youtube

// Raw record shapes returned by the YouTube Data API v3. Optional nested
// fields are pointers or zero-value strings; absence rules are applied by
// the catalog builder, not here.

// PlaylistItem is one playlist membership record from the playlistItems
// endpoint.
type PlaylistItem struct {
	Snippet ItemSnippet `json:"snippet"`
}

// ItemSnippet carries the per-item video metadata.
type ItemSnippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Thumbnails   Thumbnails `json:"thumbnails"`
	PublishedAt  string     `json:"publishedAt"`
	ChannelTitle string     `json:"channelTitle"`
	ChannelID    string     `json:"channelId"`
	ResourceID   ResourceID `json:"resourceId"`
}

// ResourceID identifies the underlying video of a playlist item.
type ResourceID struct {
	VideoID string `json:"videoId"`
}

// Thumbnails holds the available thumbnail resolutions. Only Default is
// guaranteed present; the rest depend on the upload.
type Thumbnails struct {
	Default  *Thumbnail `json:"default"`
	Medium   *Thumbnail `json:"medium"`
	High     *Thumbnail `json:"high"`
	Standard *Thumbnail `json:"standard"`
	Maxres   *Thumbnail `json:"maxres"`
}

// Thumbnail is a single thumbnail variant.
type Thumbnail struct {
	URL string `json:"url"`
}

// VideoStats is one record from the videos endpoint, keyed by video id.
type VideoStats struct {
	ID             string         `json:"id"`
	Statistics     Statistics     `json:"statistics"`
	ContentDetails ContentDetails `json:"contentDetails"`
}

// Statistics carries engagement counters as decimal strings. Any of them
// may be absent (comments disabled, hidden like counts).
type Statistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

// ContentDetails carries the ISO 8601 duration code.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// PlaylistMeta is one record from the playlists endpoint.
type PlaylistMeta struct {
	ID             string                 `json:"id"`
	Snippet        PlaylistSnippet        `json:"snippet"`
	ContentDetails PlaylistContentDetails `json:"contentDetails"`
}

// PlaylistSnippet carries playlist display metadata.
type PlaylistSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// PlaylistContentDetails carries the declared item count.
type PlaylistContentDetails struct {
	ItemCount int64 `json:"itemCount"`
}

type playlistListResponse struct {
	Items []PlaylistMeta `json:"items"`
}

type videoListResponse struct {
	Items []VideoStats `json:"items"`
}

type playlistItemsResponse struct {
	Items         []PlaylistItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}
