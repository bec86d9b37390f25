package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"haberliyo/internal/model"
	"haberliyo/internal/repository"

	"github.com/gin-gonic/gin"
)

type NewsStore interface {
	Find(f repository.NewsFilter) ([]model.NewsItem, int, error)
	DistinctSources() ([]string, error)
	DistinctURLs() ([]string, error)
}

// Cache is an optional response cache for the distinct-value endpoints.
type Cache interface {
	Get(key string) (string, error)
	Set(key string, value string, ttl time.Duration) error
}

const (
	sourcesCacheKey    = "haberliyo:cache:sources"
	categoriesCacheKey = "haberliyo:cache:categories"
	cacheTTL           = 5 * time.Minute
)

type NewsHandler struct {
	repository NewsStore
	cache      Cache
}

// NewNewsHandler creates the read-API handler. cache may be nil.
func NewNewsHandler(repository NewsStore, cache Cache) *NewsHandler {
	return &NewsHandler{repository: repository, cache: cache}
}

// GetNews handles GET /api/news with source, category, date range, shared
// and pagination filters.
func (h *NewsHandler) GetNews(c *gin.Context) {
	filter := repository.NewsFilter{
		Category: c.Query("category"),
		SortBy:   c.DefaultQuery("sort_by", "created_at"),
		Limit:    getQueryInt(c, "limit", 20),
		Skip:     getQueryInt(c, "skip", 0),
		SortDesc: c.DefaultQuery("sort_order", "-1") == "-1",
	}

	if source := c.Query("source"); source != "" {
		filter.Sources = strings.Split(source, ",")
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseISODate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, use ISO format (YYYY-MM-DDTHH:MM:SS)"})
			return
		}
		filter.StartDate = &t
	}

	if raw := c.Query("end_date"); raw != "" {
		t, err := parseISODate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, use ISO format (YYYY-MM-DDTHH:MM:SS)"})
			return
		}
		filter.EndDate = &t
	}

	if raw := c.Query("shared"); raw != "" {
		shared := strings.EqualFold(raw, "true")
		filter.Shared = &shared
	}

	items, total, err := h.repository.Find(filter)
	if err != nil {
		slog.Error("error querying news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, NewsListResponse{
		Success: true,
		Count:   len(items),
		Total:   total,
		Skip:    filter.Skip,
		Limit:   filter.Limit,
		Data:    toResponses(items),
	})
}

// SearchNews handles GET /api/news/search?q= over title and description.
func (h *NewsHandler) SearchNews(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}

	filter := repository.NewsFilter{
		Search:   query,
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    getQueryInt(c, "limit", 20),
		Skip:     getQueryInt(c, "skip", 0),
	}

	items, total, err := h.repository.Find(filter)
	if err != nil {
		slog.Error("error searching news", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Success: true,
		Count:   len(items),
		Total:   total,
		Query:   query,
		Skip:    filter.Skip,
		Limit:   filter.Limit,
		Data:    toResponses(items),
	})
}

// GetSources handles GET /api/sources.
func (h *NewsHandler) GetSources(c *gin.Context) {
	if data, ok := h.cached(sourcesCacheKey); ok {
		c.JSON(http.StatusOK, StringListResponse{Success: true, Count: len(data), Data: data})
		return
	}

	sources, err := h.repository.DistinctSources()
	if err != nil {
		slog.Error("error listing sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	h.store(sourcesCacheKey, sources)
	c.JSON(http.StatusOK, StringListResponse{Success: true, Count: len(sources), Data: sources})
}

// GetCategories handles GET /api/categories, deriving category names from
// the path segments of stored URLs.
func (h *NewsHandler) GetCategories(c *gin.Context) {
	if data, ok := h.cached(categoriesCacheKey); ok {
		c.JSON(http.StatusOK, StringListResponse{Success: true, Count: len(data), Data: data})
		return
	}

	urls, err := h.repository.DistinctURLs()
	if err != nil {
		slog.Error("error listing urls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	categories := categoriesFromURLs(urls)

	h.store(categoriesCacheKey, categories)
	c.JSON(http.StatusOK, StringListResponse{Success: true, Count: len(categories), Data: categories})
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	if _, err := h.repository.DistinctSources(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *NewsHandler) cached(key string) ([]string, bool) {
	if h.cache == nil {
		return nil, false
	}
	raw, err := h.cache.Get(key)
	if err != nil || raw == "" {
		return nil, false
	}
	var data []string
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false
	}
	return data, true
}

func (h *NewsHandler) store(key string, data []string) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := h.cache.Set(key, string(raw), cacheTTL); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// categoriesFromURLs extracts plausible category names from item URL path
// segments, e.g. https://t24.com.tr/rss/haber/gundem -> gundem.
func categoriesFromURLs(urls []string) []string {
	set := map[string]bool{}
	for _, u := range urls {
		parts := strings.Split(u, "/")
		if len(parts) >= 5 {
			set[parts[len(parts)-1]] = true
			if len(parts) >= 6 {
				set[parts[len(parts)-2]] = true
			}
		}
	}

	categories := make([]string, 0, len(set))
	for cat := range set {
		if len(cat) > 3 && !strings.HasPrefix(cat, "http") {
			categories = append(categories, cat)
		}
	}

	sort.Strings(categories)
	return categories
}

func toResponses(items []model.NewsItem) []NewsItemResponse {
	responses := make([]NewsItemResponse, 0, len(items))
	for _, item := range items {
		r := NewsItemResponse{
			ID:            item.ID,
			Source:        item.Source,
			URL:           item.URL,
			Title:         item.Title,
			Description:   item.Description,
			Image:         item.Image,
			PublishedDate: item.PublishedDate,
			CreatedAt:     item.CreatedAt.Format(time.RFC3339),
			Shared:        item.Shared,
			DeliveryID:    item.DeliveryID,
		}
		if item.SharedAt != nil {
			r.SharedAt = item.SharedAt.Format(time.RFC3339)
		}
		responses = append(responses, r)
	}
	return responses
}

func parseISODate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}

func getQueryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
