package feeds

import (
	"encoding/csv"
	"fmt"
	"os"

	"haberliyo/internal/model"
)

// SourceLoader provides the ordered feed list for an ingestion run.
type SourceLoader interface {
	Load() ([]model.FeedSource, error)
}

// CSVLoader reads a headerless CSV with rows of the form
// rss_url,image_url,source_name.
type CSVLoader struct {
	path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

func (l *CSVLoader) Load() ([]model.FeedSource, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open feed list: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read feed list: %w", err)
	}

	sources := make([]model.FeedSource, 0, len(rows))
	for _, row := range rows {
		if row[0] == "" || row[2] == "" {
			return nil, fmt.Errorf("feed list row missing url or source name: %v", row)
		}
		sources = append(sources, model.FeedSource{
			FeedURL:  row[0],
			ImageURL: row[1],
			Name:     row[2],
		})
	}

	return sources, nil
}
