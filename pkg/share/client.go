package share

import (
	"context"
	"time"
)

// Result reports the outcome of one delivery attempt. Exactly one of the
// three cases holds: MessageID set (delivered), RateLimited set (provider
// backpressure, retry after ResetAt), or the Post call returned an error.
type Result struct {
	MessageID   string
	RateLimited bool
	ResetAt     time.Time
}

// Client delivers a formatted message to one external channel.
type Client interface {
	Post(ctx context.Context, text string) (*Result, error)
	Name() string
}
