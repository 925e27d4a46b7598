// Package content provides the SQLite implementation of the Store interface.
package content

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) a content database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			category TEXT NOT NULL,
			published_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			article_id TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (article_id) REFERENCES articles(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_created ON comments(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ArticlesSince returns articles published on or after since, newest first.
func (s *SQLiteStore) ArticlesSince(ctx context.Context, since time.Time, limit int) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, summary, category, published_at
		FROM articles
		WHERE published_at >= ?
		ORDER BY published_at DESC
		LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Category, &a.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CommentsSince returns comments created on or after since, newest first.
func (s *SQLiteStore) CommentsSince(ctx context.Context, since time.Time, limit int) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, article_id, body, created_at
		FROM comments
		WHERE created_at >= ?
		ORDER BY created_at DESC
		LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// SeedArticle inserts an article; used by tooling and tests to populate a corpus.
func (s *SQLiteStore) SeedArticle(ctx context.Context, a Article) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO articles (id, title, summary, category, published_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Summary, a.Category, a.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

// SeedComment inserts a comment; used by tooling and tests to populate a corpus.
func (s *SQLiteStore) SeedComment(ctx context.Context, c Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO comments (id, article_id, body, created_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.ArticleID, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}
