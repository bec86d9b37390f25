package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"haberliyo/internal/model"

	"github.com/lib/pq"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Save inserts the item unless its URL is already stored. Returns false
// when another item with the same URL exists; a concurrent insert of the
// same URL resolves the same way.
func (r *NewsRepository) Save(item *model.NewsItem) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO news_items(source, url, title, description, image, published_date, created_at, shared)
		VALUES($1, $2, $3, $4, $5, $6, $7, FALSE)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, item.Source, item.URL, item.Title, item.Description, item.Image, item.PublishedDate, item.CreatedAt).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	item.ID = id
	return true, nil
}

func (r *NewsRepository) ExistsByURL(url string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM news_items WHERE url = $1)
	`, url).Scan(&exists)
	return exists, err
}

func (r *NewsRepository) DistinctSources() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT source FROM news_items ORDER BY source
	`)
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

func (r *NewsRepository) DistinctURLs() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT url FROM news_items
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// LatestUnshared returns the newest unshared item of a source created at or
// after since, or nil when the source has none.
func (r *NewsRepository) LatestUnshared(source string, since time.Time) (*model.NewsItem, error) {
	var item model.NewsItem
	err := r.db.QueryRow(`
		SELECT id, source, url, title, description, image, published_date, created_at, shared
		FROM news_items
		WHERE source = $1 AND shared = FALSE AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`, source, since).Scan(
		&item.ID, &item.Source, &item.URL, &item.Title, &item.Description,
		&item.Image, &item.PublishedDate, &item.CreatedAt, &item.Shared,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &item, nil
}

// MarkShared flips an item to shared exactly once. Returns false when the
// item was already shared, so a losing racer can tell it lost.
func (r *NewsRepository) MarkShared(id int64, sharedAt time.Time, deliveryID string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE news_items
		SET shared = TRUE, shared_at = $2, delivery_id = $3
		WHERE id = $1 AND shared = FALSE
	`, id, sharedAt, deliveryID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *NewsRepository) CountSharedSince(t time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM news_items WHERE shared = TRUE AND shared_at >= $1
	`, t).Scan(&count)
	return count, err
}

// NewsFilter describes the read-API query surface.
type NewsFilter struct {
	Sources   []string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Shared    *bool
	Search    string
	SortBy    string
	SortDesc  bool
	Limit     int
	Skip      int
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"source":     "source",
	"title":      "title",
	"shared_at":  "shared_at",
}

func (f NewsFilter) where() (string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Sources) == 1 {
		conds = append(conds, "source = "+arg(f.Sources[0]))
	} else if len(f.Sources) > 1 {
		conds = append(conds, "source = ANY("+arg(pq.Array(f.Sources))+")")
	}
	if f.Category != "" {
		conds = append(conds, "url ILIKE "+arg("%/"+f.Category+"%"))
	}
	if f.StartDate != nil {
		conds = append(conds, "created_at >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "created_at <= "+arg(*f.EndDate))
	}
	if f.Shared != nil {
		conds = append(conds, "shared = "+arg(*f.Shared))
	}
	if f.Search != "" {
		placeholder := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", placeholder, placeholder))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Find returns matching items plus the total match count for pagination.
func (r *NewsRepository) Find(f NewsFilter) ([]model.NewsItem, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 20
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if f.SortDesc {
		direction = "DESC"
	}

	where, args := f.where()

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM news_items"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, source, url, title, description, image, published_date, created_at, shared, shared_at, COALESCE(delivery_id, '')
		FROM news_items%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Skip)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		var item model.NewsItem
		var sharedAt sql.NullTime
		err := rows.Scan(
			&item.ID, &item.Source, &item.URL, &item.Title, &item.Description,
			&item.Image, &item.PublishedDate, &item.CreatedAt, &item.Shared,
			&sharedAt, &item.DeliveryID,
		)
		if err != nil {
			return nil, 0, err
		}
		if sharedAt.Valid {
			t := sharedAt.Time
			item.SharedAt = &t
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
