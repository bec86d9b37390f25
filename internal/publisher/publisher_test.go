package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"haberliyo/internal/model"
	"haberliyo/pkg/share"

	"github.com/go-playground/assert/v2"
)

type fakeNewsStore struct {
	items       map[string]*model.NewsItem // keyed by source
	sharedToday int
	countErr    error

	markedIDs []int64
}

func (f *fakeNewsStore) LatestUnshared(source string, since time.Time) (*model.NewsItem, error) {
	item, ok := f.items[source]
	if !ok || item.Shared || item.CreatedAt.Before(since) {
		return nil, nil
	}
	return item, nil
}

func (f *fakeNewsStore) MarkShared(id int64, sharedAt time.Time, deliveryID string) (bool, error) {
	for _, item := range f.items {
		if item.ID != id {
			continue
		}
		if item.Shared {
			return false, nil
		}
		item.Shared = true
		item.SharedAt = &sharedAt
		item.DeliveryID = deliveryID
		f.markedIDs = append(f.markedIDs, id)
		return true, nil
	}
	return false, nil
}

func (f *fakeNewsStore) CountSharedSince(t time.Time) (int, error) {
	return f.sharedToday, f.countErr
}

type fakeClient struct {
	results []*share.Result
	errs    []error
	posts   []string
}

func (c *fakeClient) Post(ctx context.Context, text string) (*share.Result, error) {
	i := len(c.posts)
	c.posts = append(c.posts, text)
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	if i < len(c.results) {
		return c.results[i], nil
	}
	return &share.Result{MessageID: "default"}, nil
}

func (c *fakeClient) Name() string { return "Fake" }

var testNow = time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)

func newTestPublisher(store *fakeNewsStore, client *fakeClient, cfg Config, sources []string) (*Publisher, *[]time.Duration) {
	rotation := NewRotation(cfg.Channel, &memSourceStore{sources: sources}, newMemRotationStore())
	rotation.now = func() time.Time { return testNow }

	p := New(store, rotation, client, TelegramMessage, cfg)
	p.now = func() time.Time { return testNow }

	var sleeps []time.Duration
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	return p, &sleeps
}

func freshItem(id int64, source, title, url string) *model.NewsItem {
	return &model.NewsItem{
		ID:        id,
		Source:    source,
		Title:     title,
		URL:       url,
		CreatedAt: testNow.Add(-2 * time.Hour),
	}
}

func TestRun_SharesAndMarksItem(t *testing.T) {
	store := &fakeNewsStore{items: map[string]*model.NewsItem{
		"T24": freshItem(1, "T24", "Ekonomide Yeni Gelişme", "https://x.com/a"),
	}}
	client := &fakeClient{results: []*share.Result{{MessageID: "123"}}}

	cfg := Config{Channel: model.ChannelTelegram, DailyCap: 17, PostDelay: 300 * time.Second}
	p, sleeps := newTestPublisher(store, client, cfg, []string{"T24"})

	err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(client.posts))

	item := store.items["T24"]
	assert.Equal(t, true, item.Shared)
	assert.Equal(t, "123", item.DeliveryID)
	assert.Equal(t, testNow, *item.SharedAt)

	// Inter-post delay after the successful delivery.
	assert.Equal(t, []time.Duration{300 * time.Second}, *sleeps)
}

func TestRun_SecondPassSkipsSharedItem(t *testing.T) {
	store := &fakeNewsStore{items: map[string]*model.NewsItem{
		"T24": freshItem(1, "T24", "Ekonomide Yeni Gelişme", "https://x.com/a"),
	}}
	client := &fakeClient{results: []*share.Result{{MessageID: "123"}}}

	cfg := Config{Channel: model.ChannelTelegram, PostDelay: time.Second}
	p, _ := newTestPublisher(store, client, cfg, []string{"T24"})

	assert.Equal(t, nil, p.Run(context.Background()))
	assert.Equal(t, nil, p.Run(context.Background()))

	// The item was delivered exactly once.
	assert.Equal(t, 1, len(client.posts))
	assert.Equal(t, 1, len(store.markedIDs))
}

func TestRun_QuotaExhausted(t *testing.T) {
	store := &fakeNewsStore{
		items: map[string]*model.NewsItem{
			"T24": freshItem(1, "T24", "Başlık", "https://x.com/a"),
		},
		sharedToday: 17,
	}
	client := &fakeClient{}

	cfg := Config{Channel: model.ChannelTelegram, DailyCap: 17}
	p, sleeps := newTestPublisher(store, client, cfg, []string{"T24"})

	err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(client.posts))
	assert.Equal(t, 0, len(*sleeps))
}

func TestRun_QuotaLimitsSourceCount(t *testing.T) {
	store := &fakeNewsStore{
		items: map[string]*model.NewsItem{
			"A": freshItem(1, "A", "Bir", "https://x.com/1"),
			"B": freshItem(2, "B", "İki", "https://x.com/2"),
			"C": freshItem(3, "C", "Üç", "https://x.com/3"),
			"D": freshItem(4, "D", "Dört", "https://x.com/4"),
		},
		sharedToday: 15,
	}
	client := &fakeClient{}

	cfg := Config{Channel: model.ChannelTelegram, DailyCap: 17}
	p, _ := newTestPublisher(store, client, cfg, []string{"A", "B", "C", "D"})

	err := p.Run(context.Background())

	// Only cap-sharedToday=2 sources may post this cycle.
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(client.posts))
}

func TestRun_NoCapForSocialChannel(t *testing.T) {
	store := &fakeNewsStore{
		items: map[string]*model.NewsItem{
			"T24": freshItem(1, "T24", "Başlık", "https://x.com/a"),
		},
		countErr: errors.New("must not be called"),
	}
	client := &fakeClient{}

	cfg := Config{Channel: model.ChannelTwitter}
	p, _ := newTestPublisher(store, client, cfg, []string{"T24"})

	assert.Equal(t, nil, p.Run(context.Background()))
	assert.Equal(t, 1, len(client.posts))
}

func TestRun_RateLimitBackoff(t *testing.T) {
	store := &fakeNewsStore{items: map[string]*model.NewsItem{
		"T24": freshItem(1, "T24", "Başlık", "https://x.com/a"),
	}}
	reset := testNow.Add(10 * time.Minute)
	client := &fakeClient{results: []*share.Result{{RateLimited: true, ResetAt: reset}}}

	cfg := Config{Channel: model.ChannelTwitter, RateLimitMargin: 5 * time.Second}
	p, sleeps := newTestPublisher(store, client, cfg, []string{"T24"})

	err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	// Waited until the provider reset plus the safety margin.
	assert.Equal(t, []time.Duration{10*time.Minute + 5*time.Second}, *sleeps)
	// The triggering item stays unshared.
	assert.Equal(t, false, store.items["T24"].Shared)
}

func TestRun_DeliveryFailureIsolatedPerSource(t *testing.T) {
	store := &fakeNewsStore{items: map[string]*model.NewsItem{
		"A": freshItem(1, "A", "Bir", "https://x.com/1"),
		"B": freshItem(2, "B", "İki", "https://x.com/2"),
	}}
	client := &fakeClient{
		errs:    []error{errors.New("network down"), nil},
		results: []*share.Result{nil, {MessageID: "7"}},
	}

	cfg := Config{Channel: model.ChannelTwitter}
	p, _ := newTestPublisher(store, client, cfg, []string{"A", "B"})

	err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(client.posts))
	assert.Equal(t, false, store.items["A"].Shared)
	assert.Equal(t, true, store.items["B"].Shared)
}

func TestRun_SkipsSourceWithoutRecentItem(t *testing.T) {
	stale := freshItem(1, "T24", "Eski Haber", "https://x.com/old")
	stale.CreatedAt = testNow.Add(-48 * time.Hour)

	store := &fakeNewsStore{items: map[string]*model.NewsItem{"T24": stale}}
	client := &fakeClient{}

	cfg := Config{Channel: model.ChannelTelegram}
	p, _ := newTestPublisher(store, client, cfg, []string{"T24"})

	assert.Equal(t, nil, p.Run(context.Background()))
	assert.Equal(t, 0, len(client.posts))
}

func TestRun_LosingMarkRaceIsNotAnError(t *testing.T) {
	item := freshItem(1, "T24", "Başlık", "https://x.com/a")
	store := &raceNewsStore{item: item}
	client := &fakeClient{results: []*share.Result{{MessageID: "9"}}}

	cfg := Config{Channel: model.ChannelTelegram, PostDelay: time.Minute}
	rotation := NewRotation(cfg.Channel, &memSourceStore{sources: []string{"T24"}}, newMemRotationStore())
	p := New(store, rotation, client, TelegramMessage, cfg)
	p.now = func() time.Time { return testNow }

	var sleeps []time.Duration
	p.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	err := p.Run(context.Background())

	assert.Equal(t, nil, err)
	// The losing channel performs no write and skips the inter-post delay.
	assert.Equal(t, 0, len(sleeps))
}

// raceNewsStore serves an item that another channel marks shared between
// the read and the compare-and-set.
type raceNewsStore struct {
	item *model.NewsItem
}

func (r *raceNewsStore) LatestUnshared(source string, since time.Time) (*model.NewsItem, error) {
	return r.item, nil
}

func (r *raceNewsStore) MarkShared(id int64, sharedAt time.Time, deliveryID string) (bool, error) {
	return false, nil
}

func (r *raceNewsStore) CountSharedSince(t time.Time) (int, error) {
	return 0, nil
}
