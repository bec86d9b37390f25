package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"haberliyo/db"
	"haberliyo/internal/handler"
	"haberliyo/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// redisCache adapts the shared redis connection to the handler's cache.
type redisCache struct{}

func (redisCache) Get(key string) (string, error) {
	return db.CacheGet(key)
}

func (redisCache) Set(key string, value string, ttl time.Duration) error {
	return db.CacheSet(key, value, ttl)
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("error running migrations: %v", err)
	}

	var cache handler.Cache
	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, response cache disabled", "error", err)
	} else {
		defer db.CloseRedis()
		cache = redisCache{}
	}

	newsRepo := repository.NewNewsRepository(db.DB)
	newsHandler := handler.NewNewsHandler(newsRepo, cache)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/api/news", newsHandler.GetNews)
	r.GET("/api/news/search", newsHandler.SearchNews)
	r.GET("/api/sources", newsHandler.GetSources)
	r.GET("/api/categories", newsHandler.GetCategories)
	r.GET("/health", newsHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
