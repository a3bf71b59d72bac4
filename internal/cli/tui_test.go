package cli

import (
	"testing"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUI_HomeLoadsOnStartup(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	assert.Equal(t, ViewHome, d.ActiveViewID())
	assert.Equal(t, nav.ViewHome, d.Machine().Current())

	view := d.View()
	assert.Contains(t, view, "지역 정보")
	assert.Contains(t, view, "입국 전")
}

func TestTUI_HomeShowsRecentPosts(t *testing.T) {
	app := testApp(t)
	seedPost(t, app, "오클랜드 집 구하기", "regions", "auckland")

	d := NewTestDriver(t, app)

	view := d.View()
	assert.Contains(t, view, "최근 게시글")
	assert.Contains(t, view, "오클랜드 집 구하기")
}

func TestTUI_QuitWithQ(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('q')

	assert.True(t, d.IsQuitting())
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressCtrlC()

	assert.True(t, d.IsQuitting())
}

func TestTUI_NavigateHomeToSubcategoryAndBack(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressEnter() // first category: regions
	assert.Equal(t, ViewCategory, d.ActiveViewID())
	assert.Equal(t, "regions", d.Machine().SelectedCategory())

	d.PressEnter() // first subcategory: auckland
	assert.Equal(t, ViewSubcategory, d.ActiveViewID())
	assert.Equal(t, "auckland", d.Machine().SelectedSubcategory())

	d.PressEsc()
	assert.Equal(t, ViewCategory, d.ActiveViewID())

	d.PressEsc()
	assert.Equal(t, ViewHome, d.ActiveViewID())
}

func TestTUI_OpenPostFromSubcategoryList(t *testing.T) {
	app := testApp(t)
	seedPost(t, app, "웰링턴 카페 후기", "regions", "wellington")

	d := NewTestDriver(t, app)

	d.PressEnter() // regions
	d.PressDown()  // wellington
	d.PressEnter()
	assert.Equal(t, ViewSubcategory, d.ActiveViewID())
	assert.Contains(t, d.View(), "웰링턴 카페 후기")

	d.PressEnter()
	assert.Equal(t, ViewPost, d.ActiveViewID())
	require.NotNil(t, d.Machine().SelectedPost())
	assert.Equal(t, "웰링턴 카페 후기", d.Machine().SelectedPost().Title)
}

func TestTUI_OpenRecentPostAdoptsItsPair(t *testing.T) {
	app := testApp(t)
	seedPost(t, app, "퀸스타운 스키장", "regions", "queenstown")

	d := NewTestDriver(t, app)

	// Move past the category cards to the first recent post row.
	for range domain.Categories {
		d.PressDown()
	}
	d.PressEnter()

	assert.Equal(t, ViewPost, d.ActiveViewID())
	assert.Equal(t, "regions", d.Machine().SelectedCategory())
	assert.Equal(t, "queenstown", d.Machine().SelectedSubcategory())

	// Back follows the adopted pair, not the home screen.
	d.PressEsc()
	assert.Equal(t, ViewSubcategory, d.ActiveViewID())
}

func TestTUI_SearchFiltersPostList(t *testing.T) {
	app := testApp(t)
	seedPost(t, app, "바리스타 구인", "city-job", "cafe")
	seedPost(t, app, "키위 농장 후기", "city-job", "cafe")

	d := NewTestDriver(t, app)

	d.Machine().SelectCategory("city-job")
	d.Machine().SelectSubcategory("cafe")
	d.Send(syncViewMsg{})
	assert.Equal(t, ViewSubcategory, d.ActiveViewID())

	d.PressKey('/')
	d.Type("바리스타")
	view := d.View()
	assert.Contains(t, view, "바리스타 구인")
	assert.NotContains(t, view, "키위 농장 후기")

	// Esc clears the search and restores the full list.
	d.PressEsc()
	assert.Equal(t, "", d.Machine().SearchTerm())
	assert.Contains(t, d.View(), "키위 농장 후기")
}

func TestTUI_CreatePostFlow(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressEnter() // regions
	d.PressEnter() // auckland
	d.PressKey('n')
	assert.Equal(t, ViewEditor, d.ActiveViewID())
	assert.Equal(t, nav.ViewCreate, d.Machine().Current())

	// Fill the draft directly and run the save command, the way the
	// completed form would.
	ed := d.appModel().active.(*editorView)
	ed.title = "새 오클랜드 글"
	ed.content = "본문입니다"
	ed.writer = "작성자"
	d.Send(ed.save()())

	assert.Equal(t, nav.ViewSubcategory, d.Machine().Current())
	assert.Contains(t, d.View(), "새 오클랜드 글")
}

func TestTUI_CreateValidationFailureStaysInEditor(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressEnter()
	d.PressEnter()
	d.PressKey('n')

	ed := d.appModel().active.(*editorView)
	ed.title = "   "
	ed.content = "본문"
	ed.writer = "작성자"
	d.Send(ed.save()())

	assert.Equal(t, nav.ViewCreate, d.Machine().Current())
	assert.NotEmpty(t, d.Alert())
}

func TestTUI_EditorEscAbandonsDraft(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressEnter()
	d.PressEnter()
	d.PressKey('n')
	assert.Equal(t, nav.ViewCreate, d.Machine().Current())

	d.PressEsc()
	assert.Equal(t, nav.ViewSubcategory, d.Machine().Current())
	assert.Equal(t, ViewSubcategory, d.ActiveViewID())
}

func TestTUI_EditPostFlow(t *testing.T) {
	app := testApp(t)
	p := seedPost(t, app, "수정 전 제목", "living", "usedcar")

	d := NewTestDriver(t, app)
	d.Machine().ViewPostDetail(p)
	d.Send(syncViewMsg{})
	assert.Equal(t, ViewPost, d.ActiveViewID())

	d.PressKey('e')
	assert.Equal(t, nav.ViewEdit, d.Machine().Current())
	assert.Equal(t, ViewEditor, d.ActiveViewID())

	ed := d.appModel().active.(*editorView)
	require.NotNil(t, ed.editing)
	ed.title = "수정 후 제목"
	d.Send(ed.save()())

	assert.Equal(t, nav.ViewSubcategory, d.Machine().Current())
	updated, ok := app.Store.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "수정 후 제목", updated.Title)
}

func TestTUI_DeletePostConfirmAndCancel(t *testing.T) {
	app := testApp(t)
	p := seedPost(t, app, "삭제될 글", "living", "accommodation")

	d := NewTestDriver(t, app)
	d.Machine().ViewPostDetail(p)
	d.Send(syncViewMsg{})

	// Esc cancels the confirmation and stays on the post.
	d.PressKey('x')
	pv := d.appModel().active.(*postView)
	require.NotNil(t, pv.confirm)
	d.PressEsc()
	assert.Equal(t, ViewPost, d.ActiveViewID())
	_, ok := app.Store.Get(p.ID)
	assert.True(t, ok)

	// Confirmed deletion removes the post and steps back.
	pv = d.appModel().active.(*postView)
	pv.confirmed = true
	d.Send(deleteDoneMsg{id: p.ID, err: app.Store.Remove(t.Context(), p.ID)})

	assert.Equal(t, nav.ViewSubcategory, d.Machine().Current())
	_, ok = app.Store.Get(p.ID)
	assert.False(t, ok)
}

func TestTUI_RemoteDeletionLeavesPostView(t *testing.T) {
	app := testApp(t)
	p := seedPost(t, app, "원격 삭제", "living", "accommodation")

	d := NewTestDriver(t, app)
	d.Machine().ViewPostDetail(p)
	d.Send(syncViewMsg{})
	assert.Equal(t, ViewPost, d.ActiveViewID())

	require.NoError(t, app.Store.Remove(t.Context(), p.ID))
	d.Sync()

	assert.Equal(t, nav.ViewSubcategory, d.Machine().Current())
	assert.Equal(t, ViewSubcategory, d.ActiveViewID())
}
