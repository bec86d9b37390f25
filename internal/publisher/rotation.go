package publisher

import (
	"time"
)

type SourceStore interface {
	DistinctSources() ([]string, error)
}

type RotationStore interface {
	UsedSources(channel string) ([]string, error)
	MarkUsed(channel string, sources []string, usedAt time.Time) error
	Clear(channel string) error
}

// Rotation hands out sources that were not part of the channel's recent
// rotations, and records what it handed out.
type Rotation struct {
	channel string
	sources SourceStore
	records RotationStore
	now     func() time.Time
}

func NewRotation(channel string, sources SourceStore, records RotationStore) *Rotation {
	return &Rotation{
		channel: channel,
		sources: sources,
		records: records,
		now:     time.Now,
	}
}

// NextSources returns up to limit source names. Sources used in recent
// rotations are excluded; when fewer than limit remain, the channel's
// records are cleared so every source becomes eligible again. Never-used
// sources stay at the front of the post-reset order, so no source starves.
func (r *Rotation) NextSources(limit int) ([]string, error) {
	all, err := r.sources.DistinctSources()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	used, err := r.records.UsedSources(r.channel)
	if err != nil {
		return nil, err
	}

	usedSet := make(map[string]bool, len(used))
	for _, s := range used {
		usedSet[s] = true
	}

	// DistinctSources is sorted, so both halves stay alphabetical.
	var available, exhausted []string
	for _, s := range all {
		if usedSet[s] {
			exhausted = append(exhausted, s)
		} else {
			available = append(available, s)
		}
	}

	if len(available) < limit {
		if err := r.records.Clear(r.channel); err != nil {
			return nil, err
		}
		available = append(available, exhausted...)
	}

	if len(available) > limit {
		available = available[:limit]
	}

	if err := r.records.MarkUsed(r.channel, available, r.now().UTC()); err != nil {
		return nil, err
	}

	return available, nil
}
