package cli

import (
	"testing"

	"github.com/jmorgan-nz/kiwiki/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePostID_FullAndPrefix(t *testing.T) {
	app := testApp(t)
	p := seedPost(t, app, "프리픽스 글", "regions", "nelson")

	got, err := resolvePostID(app, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = resolvePostID(app, p.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = resolvePostID(app, "no-such-post")
	assert.Error(t, err)
}

func TestPostsCreateCmd_RejectsInvalidDraft(t *testing.T) {
	app := testApp(t)

	root := NewRootCmd(app)
	root.SetArgs([]string{"posts", "create",
		"--title", "   ", "--content", "c",
		"--category", "regions", "--subcategory", "auckland"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Empty(t, app.Store.Posts())

	root = NewRootCmd(app)
	root.SetArgs([]string{"posts", "create",
		"--title", "t", "--content", "c",
		"--category", "bogus", "--subcategory", "x"})
	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category/subcategory pair")
	assert.Empty(t, app.Store.Posts())
}

func TestPostsCreateCmd_TrimsFields(t *testing.T) {
	app := testApp(t)

	root := NewRootCmd(app)
	root.SetArgs([]string{"posts", "create",
		"--title", "  퀸스타운 잡기  ", "--content", " 본문 ",
		"--category", "regions", "--subcategory", "queenstown"})
	require.NoError(t, root.Execute())

	posts := app.Store.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "퀸스타운 잡기", posts[0].Title)
	assert.Equal(t, "본문", posts[0].Content)
	assert.Equal(t, "테스터", posts[0].Writer)
}

func TestPairLabel(t *testing.T) {
	known := testutil.NewTestPost("글", testutil.WithPair("regions", "auckland"))
	assert.Equal(t, "지역 정보 > 오클랜드", pairLabel(known))

	unknown := testutil.NewTestPost("글", testutil.WithPair("gone", "missing"))
	assert.Equal(t, "gone > missing", pairLabel(unknown))
}
