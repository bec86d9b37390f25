package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
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

const errorPause = 60 * time.Second

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

	cyclePeriod := 60 * time.Minute
	if raw := os.Getenv("SHARE_INTERVAL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			log.Fatalf("invalid SHARE_INTERVAL_MINUTES: %q", raw)
		}
		cyclePeriod = time.Duration(minutes) * time.Minute
	}

	newsRepo := repository.NewNewsRepository(db.DB)
	rotationRepo := repository.NewRotationRepository(db.DB)

	ingestor := ingest.New(newsRepo, feeds.NewCSVLoader(rssFile))

	client := share.NewTwitterClient(share.TwitterCredentials{
		APIKey:            os.Getenv("TWITTER_API_KEY"),
		APISecret:         os.Getenv("TWITTER_API_SECRET"),
		AccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
	})

	rotation := publisher.NewRotation(model.ChannelTwitter, newsRepo, rotationRepo)
	pub := publisher.New(newsRepo, rotation, client, publisher.TwitterMessage, publisher.Config{
		Channel:   model.ChannelTwitter,
		PostDelay: 120 * time.Second,
	})

	ctx := context.Background()

	for {
		if err := runCycle(ctx, ingestor, pub); err != nil {
			slog.Error("cycle failed", "channel", model.ChannelTwitter, "error", err)
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
