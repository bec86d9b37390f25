package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"haberliyo/db"
	"haberliyo/internal/feeds"
	"haberliyo/internal/ingest"
	"haberliyo/internal/model"
	"haberliyo/internal/publisher"
	"haberliyo/internal/repository"
	"haberliyo/pkg/share"

	"github.com/joho/godotenv"
)

const (
	cyclePeriod = 30 * time.Minute
	errorPause  = 60 * time.Second
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("error running migrations: %v", err)
	}

	rssFile := os.Getenv("RSS_FILE")
	if rssFile == "" {
		rssFile = "rss_feed_list.csv"
	}

	newsRepo := repository.NewNewsRepository(db.DB)
	rotationRepo := repository.NewRotationRepository(db.DB)

	ingestor := ingest.New(newsRepo, feeds.NewCSVLoader(rssFile))

	client := share.NewTelegramClient(
		os.Getenv("TELEGRAM_BOT_TOKEN"),
		os.Getenv("TELEGRAM_CHANNEL_ID"),
	)

	rotation := publisher.NewRotation(model.ChannelTelegram, newsRepo, rotationRepo)
	pub := publisher.New(newsRepo, rotation, client, publisher.TelegramMessage, publisher.Config{
		Channel:   model.ChannelTelegram,
		DailyCap:  17,
		PostDelay: 300 * time.Second,
	})

	ctx := context.Background()

	for {
		if err := runCycle(ctx, ingestor, pub); err != nil {
			slog.Error("cycle failed", "channel", model.ChannelTelegram, "error", err)
			time.Sleep(errorPause)
			continue
		}

		slog.Info("cycle complete, waiting for next batch", "period", cyclePeriod.String())
		time.Sleep(cyclePeriod)
	}
}

func runCycle(ctx context.Context, ingestor *ingest.Ingestor, pub *publisher.Publisher) error {
	if err := ingestor.Run(ctx); err != nil {
		return err
	}
	return pub.Run(ctx)
}
