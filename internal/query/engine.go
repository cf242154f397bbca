// Package query implements the catalog browsing transform: playlist
// filtering, free-text search and sorting over a catalog snapshot.
package query

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/playgrid/youtube-catalog-go/internal/catalog"
)

// SortKey selects which video attribute ordering is based on.
type SortKey string

// Direction selects ascending or descending order.
type Direction string

const (
	SortViews    SortKey = "views"
	SortLikes    SortKey = "likes"
	SortComments SortKey = "comments"
	SortDate     SortKey = "date"

	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Spec is one user query. The zero value means no filtering, sorted by
// views descending.
type Spec struct {
	PlaylistIDs []string
	SearchText  string
	Sort        SortKey
	Direction   Direction
}

var (
	orSplit  = regexp.MustCompile(`(?i)\s+or\s+`)
	andSplit = regexp.MustCompile(`(?i)\s+and\s+`)
)

// Run applies spec to the snapshot and returns the resulting view. It is a
// pure function: the snapshot is never mutated and equal inputs produce
// equal outputs regardless of prior calls.
//
// Search text containing the word "or" splits into any-term-matches
// semantics; otherwise "and" splits into all-terms-match. The check is
// lexical and "or" wins when both words appear; there is no boolean
// grammar.
func Run(snap *catalog.Snapshot, spec Spec) []catalog.Video {
	if snap == nil {
		return []catalog.Video{}
	}

	result := make([]catalog.Video, 0, len(snap.Videos))

	selected := make(map[string]bool, len(spec.PlaylistIDs))
	for _, id := range spec.PlaylistIDs {
		if id != "" {
			selected[id] = true
		}
	}

	for _, v := range snap.Videos {
		if len(selected) > 0 && !selected[v.PlaylistID] {
			continue
		}
		result = append(result, v)
	}

	if text := strings.TrimSpace(spec.SearchText); text != "" {
		result = filterByText(result, text)
	}

	sortVideos(result, spec.Sort, spec.Direction)

	return result
}

func filterByText(videos []catalog.Video, text string) []catalog.Video {
	lower := strings.ToLower(text)

	var keep func(catalog.Video) bool
	switch {
	case strings.Contains(lower, " or "):
		terms := splitTerms(orSplit, text)
		keep = func(v catalog.Video) bool {
			for _, term := range terms {
				if matches(v, term) {
					return true
				}
			}
			return false
		}
	case strings.Contains(lower, " and "):
		terms := splitTerms(andSplit, text)
		keep = func(v catalog.Video) bool {
			for _, term := range terms {
				if !matches(v, term) {
					return false
				}
			}
			return true
		}
	default:
		keep = func(v catalog.Video) bool {
			return matches(v, text)
		}
	}

	out := videos[:0]
	for _, v := range videos {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// matches tests case-insensitive substring containment against the three
// searchable fields.
func matches(v catalog.Video, term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return false
	}
	return strings.Contains(strings.ToLower(v.Title), t) ||
		strings.Contains(strings.ToLower(v.ChannelTitle), t) ||
		strings.Contains(strings.ToLower(v.PlaylistTitle), t)
}

func splitTerms(re *regexp.Regexp, text string) []string {
	var terms []string
	for _, part := range re.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

func sortVideos(videos []catalog.Video, key SortKey, dir Direction) {
	desc := dir != Ascending

	sort.SliceStable(videos, func(i, j int) bool {
		c := compare(videos[i], videos[j], key)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b catalog.Video, key SortKey) int {
	switch key {
	case SortLikes:
		return compareInt64(a.LikeCount, b.LikeCount)
	case SortComments:
		return compareInt64(a.CommentCount, b.CommentCount)
	case SortDate:
		return publishedAt(a).Compare(publishedAt(b))
	default:
		return compareInt64(a.ViewCount, b.ViewCount)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// publishedAt parses the stored RFC 3339 timestamp; an unparsable value
// sorts as the zero time.
func publishedAt(v catalog.Video) time.Time {
	t, err := time.Parse(time.RFC3339, v.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseSortKey maps a raw query value to a SortKey, defaulting to views.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortViews, SortLikes, SortComments, SortDate:
		return SortKey(s)
	default:
		return SortViews
	}
}

// ParseDirection maps a raw query value to a Direction, defaulting to
// descending.
func ParseDirection(s string) Direction {
	if Direction(s) == Ascending {
		return Ascending
	}
	return Descending
}
