// Package content provides read access to the publishing platform's content
// database. The trends flow consumes it as a bounded, time-windowed corpus
// query; this package does not own editorial persistence.
package content

import (
	"context"
	"time"
)

// Article is one published article in the corpus.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
}

// Comment is one reader comment in the corpus.
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the corpus query contract: items on or after a timestamp,
// newest-first, capped at a limit.
type Store interface {
	ArticlesSince(ctx context.Context, since time.Time, limit int) ([]Article, error)
	CommentsSince(ctx context.Context, since time.Time, limit int) ([]Comment, error)
	Close() error
}
