package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// RotationRepository tracks which sources a publishing channel used in its
// recent rotations. Each channel owns an independent set of records.
type RotationRepository struct {
	db *sql.DB
}

func NewRotationRepository(db *sql.DB) *RotationRepository {
	return &RotationRepository{db: db}
}

func (r *RotationRepository) UsedSources(channel string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT source FROM rotation_records WHERE channel = $1
	`, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sources, nil
}

func (r *RotationRepository) MarkUsed(channel string, sources []string, usedAt time.Time) error {
	if len(sources) == 0 {
		return nil
	}

	_, err := r.db.Exec(`
		INSERT INTO rotation_records(channel, source, used_at)
		SELECT $1, unnest($2::text[]), $3
	`, channel, pq.Array(sources), usedAt)
	return err
}

func (r *RotationRepository) Clear(channel string) error {
	_, err := r.db.Exec(`
		DELETE FROM rotation_records WHERE channel = $1
	`, channel)
	return err
}
