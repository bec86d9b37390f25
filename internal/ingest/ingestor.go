package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"haberliyo/internal/feeds"
	"haberliyo/internal/htmlutil"
	"haberliyo/internal/model"

	"github.com/mmcdole/gofeed"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type NewsStore interface {
	ExistsByURL(url string) (bool, error)
	Save(item *model.NewsItem) (bool, error)
}

// Ingestor fetches every configured feed and stores entries whose URL has
// not been seen before.
type Ingestor struct {
	store  NewsStore
	loader feeds.SourceLoader
	parser *gofeed.Parser
	now    func() time.Time
}

func New(store NewsStore, loader feeds.SourceLoader) *Ingestor {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: 20 * time.Second}

	return &Ingestor{
		store:  store,
		loader: loader,
		parser: parser,
		now:    time.Now,
	}
}

// Run performs one ingestion batch. A failure loading the feed list aborts
// the batch; a failure on any single feed or entry does not.
func (in *Ingestor) Run(ctx context.Context) error {
	sources, err := in.loader.Load()
	if err != nil {
		return fmt.Errorf("load feed list: %w", err)
	}

	// All items of one batch carry the same ingestion timestamp.
	batchTime := in.now().UTC()

	for _, src := range sources {
		feed, err := in.parser.ParseURLWithContext(src.FeedURL, ctx)
		if err != nil {
			slog.Warn("feed fetch failed", "source", src.Name, "url", src.FeedURL, "error", err)
			continue
		}

		if len(feed.Items) == 0 {
			slog.Warn("feed has no entries", "source", src.Name, "url", src.FeedURL)
			continue
		}

		var saved, duplicated, errors int

		for _, entry := range feed.Items {
			if entry.Link == "" {
				continue
			}

			exists, err := in.store.ExistsByURL(entry.Link)
			if err != nil {
				slog.Error("error checking url", "source", src.Name, "url", entry.Link, "error", err)
				errors++
				continue
			}
			if exists {
				duplicated++
				continue
			}

			item := buildItem(src, entry, batchTime)

			success, err := in.store.Save(item)
			if err != nil {
				slog.Error("error saving item", "source", src.Name, "url", item.URL, "error", err)
				errors++
				continue
			}
			if !success {
				// Another writer got the same URL first.
				slog.Info("duplicate url skipped", "source", src.Name, "url", item.URL)
				duplicated++
				continue
			}

			saved++
		}

		slog.Info("feed ingested", "source", src.Name, "saved", saved, "duplicated", duplicated, "errors", errors)
	}

	return nil
}

func buildItem(src model.FeedSource, entry *gofeed.Item, batchTime time.Time) *model.NewsItem {
	return &model.NewsItem{
		Source:        src.Name,
		URL:           entry.Link,
		Title:         htmlutil.StripTags(entry.Title),
		Description:   htmlutil.StripTags(entry.Description),
		Image:         entryImage(entry, src.ImageURL),
		PublishedDate: entry.Published,
		CreatedAt:     batchTime,
	}
}

// entryImage picks a thumbnail: the feed's media attachment first, then the
// first <img> inside the raw description, then the source's default image.
func entryImage(entry *gofeed.Item, fallback string) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}

	if media, ok := entry.Extensions["media"]; ok {
		for _, content := range media["content"] {
			if url := content.Attrs["url"]; url != "" {
				return url
			}
		}
	}

	if src := htmlutil.FirstImageSrc(entry.Description); src != "" {
		return src
	}

	return fallback
}
