// Package handler provides HTTP request handlers for the catalog API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playgrid/youtube-catalog-go/internal/catalog"
	"github.com/playgrid/youtube-catalog-go/internal/query"
	"github.com/playgrid/youtube-catalog-go/internal/service"
)

// CatalogSource is the snapshot access the handlers need.
type CatalogSource interface {
	Snapshot() *catalog.Snapshot
	LastError() error
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// CatalogHandler serves the browsing API over the current snapshot.
type CatalogHandler struct {
	source CatalogSource
	logger *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(source CatalogSource, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		source: source,
		logger: logger,
	}
}

// ListVideos applies the query parameters to the current snapshot:
//
//	GET /api/v1/videos?playlists=P1,P2&q=rust+or+go&sort=views&dir=desc
//
// Unknown sort/dir values fall back to views/descending.
func (h *CatalogHandler) ListVideos(c *gin.Context) {
	snap := h.source.Snapshot()

	spec := query.Spec{
		PlaylistIDs: splitCSV(c.Query("playlists")),
		SearchText:  c.Query("q"),
		Sort:        query.ParseSortKey(c.Query("sort")),
		Direction:   query.ParseDirection(c.Query("dir")),
	}

	videos := query.Run(snap, spec)

	c.JSON(http.StatusOK, gin.H{
		"videos":      videos,
		"total":       len(snap.Videos),
		"filtered":    len(videos),
		"lastUpdated": lastUpdatedOrNil(snap),
	})
}

// ListPlaylists returns the playlist set of the current snapshot.
func (h *CatalogHandler) ListPlaylists(c *gin.Context) {
	snap := h.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"playlists": snap.Playlists,
	})
}

// GetCatalog returns the whole snapshot document, the same shape as the
// persisted artifact.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.source.Snapshot())
}

// Status reports which of the three catalog states the service is in:
// not yet built, built, or built-but-last-refresh-failed.
func (h *CatalogHandler) Status(c *gin.Context) {
	snap := h.source.Snapshot()

	state := "ready"
	if snap.IsEmpty() {
		state = "empty"
	}

	resp := gin.H{
		"state":       state,
		"videos":      len(snap.Videos),
		"playlists":   len(snap.Playlists),
		"lastUpdated": lastUpdatedOrNil(snap),
	}
	if err := h.source.LastError(); err != nil {
		resp["lastRefreshError"] = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh rebuilds the catalog synchronously. A failed build keeps the
// previous snapshot and reports the remote failure to the caller.
func (h *CatalogHandler) Refresh(c *gin.Context) {
	snap, err := h.source.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRefreshInProgress) {
			h.respondError(c, http.StatusConflict, "Conflict", err.Error())
			return
		}
		h.logger.Error("catalog refresh failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		h.respondError(c, http.StatusBadGateway, "Bad Gateway", "catalog rebuild failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":       "ready",
		"videos":      len(snap.Videos),
		"playlists":   len(snap.Playlists),
		"lastUpdated": snap.LastUpdated,
	})
}

func (h *CatalogHandler) respondError(c *gin.Context, status int, title, message string) {
	c.JSON(status, ErrorResponse{
		Status:    status,
		Error:     title,
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lastUpdatedOrNil(snap *catalog.Snapshot) any {
	if snap.LastUpdated.IsZero() {
		return nil
	}
	return snap.LastUpdated
}
