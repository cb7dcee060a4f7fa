package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"specialist-match-be/internal/bootstrap"
	"specialist-match-be/internal/config"
	"specialist-match-be/pkg/database"

	"github.com/fatih/color"
)

// Regenerates every specialist embedding. Run after switching embedding
// provider or model, since stored vectors are only comparable within one
// model version.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color.Cyan("🚀 Reindexing specialist embeddings (provider: %s)", cfg.Ai.EmbeddingProvider)

	report, err := container.EmbeddingService.Reindex(ctx)
	if err != nil {
		color.Red("Reindex aborted: %v", err)
		os.Exit(1)
	}

	color.Green("Done: %d total, %d succeeded", report.Total, report.SuccessCount)
	if report.ErrorCount > 0 {
		color.Yellow("Warning: %d profiles failed, re-run to retry them", report.ErrorCount)
		os.Exit(1)
	}
}
