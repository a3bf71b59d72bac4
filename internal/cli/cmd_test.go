package cli

import (
	"context"
	"testing"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/repository"
	"github.com/jmorgan-nz/kiwiki/internal/store"
	"github.com/jmorgan-nz/kiwiki/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App over an in-memory sqlite store.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLitePostRepo(db)

	posts, err := store.Open(context.Background(), repo)
	require.NoError(t, err)
	t.Cleanup(posts.Close)

	return &App{
		Store:         posts,
		Writer:        "테스터",
		IsInteractive: func() bool { return false },
	}
}

// seedPost creates one post through the store and returns it.
func seedPost(t *testing.T, app *App, title, category, subcategory string) domain.Post {
	t.Helper()
	draft := testutil.NewTestDraft(title, category, subcategory)
	p, err := app.Store.Create(context.Background(), draft)
	require.NoError(t, err)
	return p
}
