package model

import "time"

const (
	ChannelTelegram = "telegram"
	ChannelTwitter  = "twitter"
)

type NewsItem struct {
	ID            int64
	Source        string
	URL           string
	Title         string
	Description   string
	Image         string
	PublishedDate string
	CreatedAt     time.Time
	Shared        bool
	SharedAt      *time.Time
	DeliveryID    string
}

// FeedSource is one row of the configured feed list.
type FeedSource struct {
	FeedURL  string
	ImageURL string
	Name     string
}
