package publisher

import (
	"context"
	"log/slog"
	"time"

	"haberliyo/internal/model"
	"haberliyo/pkg/share"
)

type NewsStore interface {
	LatestUnshared(source string, since time.Time) (*model.NewsItem, error)
	MarkShared(id int64, sharedAt time.Time, deliveryID string) (bool, error)
	CountSharedSince(t time.Time) (int, error)
}

type Config struct {
	Channel string
	// SourceLimit is the number of sources drawn per rotation.
	SourceLimit int
	// DailyCap limits successful posts per UTC day; 0 disables the cap.
	DailyCap int
	// PostDelay is slept after each successful post.
	PostDelay time.Duration
	// RateLimitMargin is added to the provider's reset time before resuming.
	RateLimitMargin time.Duration
	// RecencyWindow bounds how old a candidate item may be.
	RecencyWindow time.Duration
}

// Publisher shares the newest unshared item of each rotated source to one
// delivery channel.
type Publisher struct {
	store    NewsStore
	rotation *Rotation
	client   share.Client
	format   Formatter
	cfg      Config

	now   func() time.Time
	sleep func(time.Duration)
}

func New(store NewsStore, rotation *Rotation, client share.Client, format Formatter, cfg Config) *Publisher {
	if cfg.SourceLimit <= 0 {
		cfg.SourceLimit = 4
	}
	if cfg.RateLimitMargin <= 0 {
		cfg.RateLimitMargin = 5 * time.Second
	}
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = 24 * time.Hour
	}

	return &Publisher{
		store:    store,
		rotation: rotation,
		client:   client,
		format:   format,
		cfg:      cfg,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Run performs one publish pass. Per-source failures are logged and never
// stop the remaining sources of the rotation.
func (p *Publisher) Run(ctx context.Context) error {
	limit := p.cfg.SourceLimit

	if p.cfg.DailyCap > 0 {
		remaining, err := p.remainingQuota()
		if err != nil {
			return err
		}
		if remaining <= 0 {
			slog.Info("daily share cap reached", "channel", p.cfg.Channel, "cap", p.cfg.DailyCap)
			return nil
		}
		if remaining < limit {
			limit = remaining
		}
	}

	sources, err := p.rotation.NextSources(limit)
	if err != nil {
		return err
	}

	for _, source := range sources {
		p.shareFromSource(ctx, source)
	}

	return nil
}

func (p *Publisher) remainingQuota() (int, error) {
	dayStart := p.now().UTC().Truncate(24 * time.Hour)
	count, err := p.store.CountSharedSince(dayStart)
	if err != nil {
		return 0, err
	}
	return p.cfg.DailyCap - count, nil
}

func (p *Publisher) shareFromSource(ctx context.Context, source string) {
	since := p.now().UTC().Add(-p.cfg.RecencyWindow)

	item, err := p.store.LatestUnshared(source, since)
	if err != nil {
		slog.Error("error finding candidate item", "channel", p.cfg.Channel, "source", source, "error", err)
		return
	}
	if item == nil {
		slog.Info("no unshared recent item", "channel", p.cfg.Channel, "source", source)
		return
	}

	text := p.format(item, HashtagLine(item))

	result, err := p.client.Post(ctx, text)
	if err != nil {
		slog.Warn("delivery failed", "channel", p.cfg.Channel, "source", source, "url", item.URL, "error", err)
		return
	}

	if result.RateLimited {
		wait := result.ResetAt.Sub(p.now()) + p.cfg.RateLimitMargin
		if wait < 0 {
			wait = p.cfg.RateLimitMargin
		}
		slog.Warn("rate limited, backing off", "channel", p.cfg.Channel, "reset_at", result.ResetAt, "wait", wait)
		p.sleep(wait)
		// The item stays unshared for a future cycle.
		return
	}

	marked, err := p.store.MarkShared(item.ID, p.now().UTC(), result.MessageID)
	if err != nil {
		slog.Error("error marking item shared", "channel", p.cfg.Channel, "url", item.URL, "error", err)
		return
	}
	if !marked {
		// The other channel's loop got there first.
		slog.Info("item already shared", "channel", p.cfg.Channel, "url", item.URL)
		return
	}

	slog.Info("item shared", "channel", p.cfg.Channel, "source", source, "title", item.Title, "delivery_id", result.MessageID)
	p.sleep(p.cfg.PostDelay)
}
