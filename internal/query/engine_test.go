package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playgrid/youtube-catalog-go/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Videos: []catalog.Video{
			{
				ID: "v1", Title: "rust conference keynote", ChannelTitle: "RustConf",
				PlaylistTitle: "Systems", PlaylistID: "P1",
				ViewCount: 500, LikeCount: 10, CommentCount: 3,
				PublishedAt: "2024-01-15T10:00:00Z",
			},
			{
				ID: "v2", Title: "go concurrency patterns", ChannelTitle: "GopherCon",
				PlaylistTitle: "Systems", PlaylistID: "P1",
				ViewCount: 900, LikeCount: 40, CommentCount: 9,
				PublishedAt: "2023-06-01T10:00:00Z",
			},
			{
				ID: "v3", Title: "intro to rust systems programming", ChannelTitle: "Tutorials",
				PlaylistTitle: "Beginners", PlaylistID: "P2",
				ViewCount: 900, LikeCount: 5, CommentCount: 1,
				PublishedAt: "2025-02-20T10:00:00Z",
			},
			{
				ID: "v4", Title: "baking sourdough", ChannelTitle: "Kitchen",
				PlaylistTitle: "Cooking", PlaylistID: "P3",
				ViewCount: 100, LikeCount: 80, CommentCount: 20,
				PublishedAt: "2022-12-01T10:00:00Z",
			},
		},
	}
}

func ids(videos []catalog.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}

func TestRunNoFilters(t *testing.T) {
	got := Run(testSnapshot(), Spec{})
	// Default sort: views descending; v2/v3 tie keeps input order.
	assert.Equal(t, []string{"v2", "v3", "v1", "v4"}, ids(got))
}

func TestRunPlaylistFilter(t *testing.T) {
	tests := []struct {
		name      string
		playlists []string
		want      []string
	}{
		{"single playlist", []string{"P2"}, []string{"v3"}},
		{"multi-select is a union", []string{"P1", "P3"}, []string{"v2", "v1", "v4"}},
		{"empty selection means no filter", nil, []string{"v2", "v3", "v1", "v4"}},
		{"unknown playlist matches nothing", []string{"P9"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Run(testSnapshot(), Spec{PlaylistIDs: tt.playlists})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRunSearch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string // view-desc order
	}{
		{"case-insensitive single term", "Rust", []string{"v3", "v1"}},
		{"matches channel title", "gophercon", []string{"v2"}},
		{"matches playlist title", "cooking", []string{"v4"}},
		{"or is a union", "rust or go", []string{"v2", "v3", "v1"}},
		{"and needs every term", "rust and systems", []string{"v3", "v1"}},
		{"or wins when both keywords appear", "rust or go and baking", []string{"v3", "v1"}},
		{"or detection needs surrounding whitespace", "sourdough", []string{"v4"}},
		{"no match", "quantum", []string{}},
		{"whitespace only means no filter", "   ", []string{"v2", "v3", "v1", "v4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Run(testSnapshot(), Spec{SearchText: tt.text})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRunSearchAndKeywordInsideWordIsLiteral(t *testing.T) {
	snap := &catalog.Snapshot{Videos: []catalog.Video{
		{ID: "v1", Title: "sandboxing in practice", PlaylistID: "P1"},
	}}
	// "sand" contains the letters of "and" but not the whitespace-bounded word
	got := Run(snap, Spec{SearchText: "sandboxing"})
	assert.Equal(t, []string{"v1"}, ids(got))
}

func TestRunSort(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"views descending", Spec{Sort: SortViews, Direction: Descending}, []string{"v2", "v3", "v1", "v4"}},
		{"views ascending", Spec{Sort: SortViews, Direction: Ascending}, []string{"v4", "v1", "v2", "v3"}},
		{"likes descending", Spec{Sort: SortLikes, Direction: Descending}, []string{"v4", "v2", "v1", "v3"}},
		{"comments ascending", Spec{Sort: SortComments, Direction: Ascending}, []string{"v3", "v1", "v2", "v4"}},
		{"date descending", Spec{Sort: SortDate, Direction: Descending}, []string{"v3", "v1", "v2", "v4"}},
		{"date ascending", Spec{Sort: SortDate, Direction: Ascending}, []string{"v4", "v2", "v1", "v3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Run(testSnapshot(), tt.spec)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRunSortStabilityOnTies(t *testing.T) {
	snap := testSnapshot() // v2 and v3 both have 900 views

	desc := Run(snap, Spec{Sort: SortViews, Direction: Descending})
	assert.Equal(t, []string{"v2", "v3"}, ids(desc)[:2], "ties keep input order")

	asc := Run(snap, Spec{Sort: SortViews, Direction: Ascending})
	assert.Equal(t, []string{"v2", "v3"}, ids(asc)[2:], "ties keep input order in both directions")
}

func TestRunFiltersCommute(t *testing.T) {
	spec := Spec{
		PlaylistIDs: []string{"P1", "P2"},
		SearchText:  "rust",
		Sort:        SortViews,
		Direction:   Descending,
	}
	combined := Run(testSnapshot(), spec)

	// Same set as search-only restricted to the playlists
	searchOnly := Run(testSnapshot(), Spec{SearchText: "rust"})
	var expected []string
	for _, v := range searchOnly {
		if v.PlaylistID == "P1" || v.PlaylistID == "P2" {
			expected = append(expected, v.ID)
		}
	}
	assert.Equal(t, expected, ids(combined))
}

func TestRunDoesNotMutateSnapshot(t *testing.T) {
	snap := testSnapshot()
	before := ids(snap.Videos)

	Run(snap, Spec{SearchText: "rust", Sort: SortDate, Direction: Ascending})
	Run(snap, Spec{Sort: SortLikes})

	assert.Equal(t, before, ids(snap.Videos))
}

func TestRunNilSnapshot(t *testing.T) {
	assert.Empty(t, Run(nil, Spec{}))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"views", SortViews},
		{"likes", SortLikes},
		{"comments", SortComments},
		{"date", SortDate},
		{"", SortViews},
		{"relevance", SortViews},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSortKey(tt.in), "ParseSortKey(%q)", tt.in)
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Ascending, ParseDirection("asc"))
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection(""))
	assert.Equal(t, Descending, ParseDirection("down"))
}
