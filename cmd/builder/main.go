// Command builder performs a one-shot catalog build: it fetches every
// configured playlist, assembles the snapshot and writes the JSON
// artifact. Intended for cron jobs and CI build steps.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/playgrid/youtube-catalog-go/internal/catalog"
	"github.com/playgrid/youtube-catalog-go/internal/config"
	"github.com/playgrid/youtube-catalog-go/internal/youtube"
	"github.com/playgrid/youtube-catalog-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	client, err := youtube.NewClient(cfg.YouTube, log)
	if err != nil {
		log.Fatal("failed to create YouTube client", zap.Error(err))
	}

	builder := catalog.NewBuilder(client, cfg.Catalog.PlaylistIDs, cfg.Catalog.BuildTimeout, log)

	snap, err := builder.Build(context.Background())
	if err != nil {
		log.Fatal("catalog build failed", zap.Error(err))
	}

	store := catalog.NewStore(cfg.Catalog.SnapshotPath)
	if err := store.Save(snap); err != nil {
		log.Fatal("failed to write snapshot", zap.Error(err))
	}

	log.Info("snapshot written",
		zap.String("path", store.Path()),
		zap.Int("videos", len(snap.Videos)),
		zap.Int("playlists", len(snap.Playlists)),
		zap.Int64("quota_units", client.QuotaUsed()),
	)
}
