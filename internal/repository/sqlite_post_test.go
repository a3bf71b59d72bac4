package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SQLitePostRepo {
	t.Helper()
	return NewSQLitePostRepo(testutil.NewTestDB(t))
}

func TestInsertAndFetchAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a, err := repo.Insert(ctx, testutil.NewTestDraft("first", "living", "tax"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)

	posts, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].Title)
	assert.Equal(t, "living", posts[0].Category)
}

func TestFetchAll_OrdersByUpdatedAtDesc(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	older, err := repo.Insert(ctx, testutil.NewTestDraft("older", "living", "tax"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutil.NewTestDraft("newer", "living", "visa"))
	require.NoError(t, err)

	// Touch the older post so it becomes the most recently updated.
	time.Sleep(1100 * time.Millisecond) // RFC3339 storage has second precision
	title := "older but touched"
	_, err = repo.Update(ctx, older.ID, domain.PostPatch{Title: &title})
	require.NoError(t, err)

	posts, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "older but touched", posts[0].Title)
}

func TestUpdate_PartialAndImmutableFields(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, testutil.NewTestDraft("post", "farm-factory", "kiwi"))
	require.NoError(t, err)

	content := "rewritten"
	updated, err := repo.Update(ctx, created.ID, domain.PostPatch{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "post", updated.Title, "unset fields untouched")
	assert.Equal(t, "rewritten", updated.Content)
	assert.Equal(t, "farm-factory", updated.Category)
	assert.Equal(t, "kiwi", updated.Subcategory)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdate_UnknownID(t *testing.T) {
	repo := newRepo(t)
	title := "x"
	_, err := repo.Update(context.Background(), "missing", domain.PostPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPostNotFound))
}

func TestDelete_RemovesAndToleratesMissing(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, testutil.NewTestDraft("gone soon", "city-job", "cafe"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	posts, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, created.ID))
}

func TestSubscribe_LoopbackEchoesOwnMutations(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	feed, release, err := repo.Subscribe(ctx)
	require.NoError(t, err)
	defer release()

	created, err := repo.Insert(ctx, testutil.NewTestDraft("echoed", "living", "banking"))
	require.NoError(t, err)

	ev := <-feed
	assert.Equal(t, domain.EventInsert, ev.Kind)
	assert.Equal(t, created.ID, ev.Post.ID)

	title := "edited"
	_, err = repo.Update(ctx, created.ID, domain.PostPatch{Title: &title})
	require.NoError(t, err)
	ev = <-feed
	assert.Equal(t, domain.EventUpdate, ev.Kind)
	assert.Equal(t, "edited", ev.Post.Title)

	require.NoError(t, repo.Delete(ctx, created.ID))
	ev = <-feed
	assert.Equal(t, domain.EventDelete, ev.Kind)
	assert.Equal(t, created.ID, ev.Post.ID)
}

func TestSubscribe_NoEventsBeforeSubscribeOrAfterRelease(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	// Mutations before Subscribe emit nothing (and must not block).
	_, err := repo.Insert(ctx, testutil.NewTestDraft("early", "living", "tax"))
	require.NoError(t, err)

	feed, release, err := repo.Subscribe(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)

	release()
	_, ok := <-feed
	assert.False(t, ok, "feed closed after release")

	// Mutations after release are dropped silently.
	_, err = repo.Insert(ctx, testutil.NewTestDraft("late", "living", "tax"))
	require.NoError(t, err)
}
