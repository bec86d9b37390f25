package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func Connect() error {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		fmt.Println("DATABASE_URL environment variable is not set")
	}

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

// Migrate creates the news and rotation tables. Safe to run on every start.
func Migrate() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS news_items(
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			title TEXT,
			description TEXT,
			image TEXT,
			published_date TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			shared BOOLEAN NOT NULL DEFAULT FALSE,
			shared_at TIMESTAMPTZ,
			delivery_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_news_items_source ON news_items(source);
		CREATE INDEX IF NOT EXISTS idx_news_items_created ON news_items(created_at);
		CREATE INDEX IF NOT EXISTS idx_news_items_shared_at ON news_items(shared_at);

		CREATE TABLE IF NOT EXISTS rotation_records(
			id BIGSERIAL PRIMARY KEY,
			channel TEXT NOT NULL,
			source TEXT NOT NULL,
			used_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_rotation_channel ON rotation_records(channel);
	`)
	return err
}
