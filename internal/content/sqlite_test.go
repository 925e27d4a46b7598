package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestArticlesSinceWindowOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	articles := []Article{
		{ID: "a1", Title: "Old", Summary: "s", Category: "city", PublishedAt: now.Add(-72 * time.Hour)},
		{ID: "a2", Title: "Recent", Summary: "s", Category: "city", PublishedAt: now.Add(-2 * time.Hour)},
		{ID: "a3", Title: "Newest", Summary: "s", Category: "sport", PublishedAt: now.Add(-1 * time.Hour)},
		{ID: "a4", Title: "Yesterday", Summary: "s", Category: "sport", PublishedAt: now.Add(-20 * time.Hour)},
	}
	for _, a := range articles {
		require.NoError(t, store.SeedArticle(ctx, a))
	}

	got, err := store.ArticlesSince(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)

	require.Len(t, got, 3, "articles outside the window are excluded")
	assert.Equal(t, "a3", got[0].ID, "newest first")
	assert.Equal(t, "a2", got[1].ID)
	assert.Equal(t, "a4", got[2].ID)

	capped, err := store.ArticlesSince(ctx, now.Add(-24*time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestCommentsSinceWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SeedComment(ctx, Comment{ID: "c1", ArticleID: "a1", Body: "old take", CreatedAt: now.Add(-40 * time.Hour)}))
	require.NoError(t, store.SeedComment(ctx, Comment{ID: "c2", ArticleID: "a1", Body: "fresh take", CreatedAt: now.Add(-1 * time.Hour)}))

	got, err := store.CommentsSince(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].ID)
	assert.Equal(t, "fresh take", got[0].Body)
}

func TestEmptyStoreReturnsNoRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	articles, err := store.ArticlesSince(ctx, time.Now().Add(-24*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, articles)

	comments, err := store.CommentsSince(ctx, time.Now().Add(-24*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
