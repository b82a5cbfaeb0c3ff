package service

import (
	"Plume/pkg/response"
	"Plume/types"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeTimelinePush(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 20, "bob")
	f.follow(t, 20, 10)

	first := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "one"})
	second := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "two"})

	statuses, err := f.timeline.HomeTimeline(ctx, 20, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	// 新的在前
	assert.Equal(t, second, statuses[0].ID)
	assert.Equal(t, first, statuses[1].ID)
}

func TestHomeTimelineRebuildOnMiss(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 20, "bob")
	f.seedUser(t, 30, "carol")
	f.follow(t, 30, 10)
	f.follow(t, 30, 20)

	a := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "from alice"})
	b := f.create(t, &types.CreateStatusRequest{AuthorID: 20, Content: "from bob"})
	own := f.create(t, &types.CreateStatusRequest{AuthorID: 30, Content: "mine"})

	// 首页索引整个丢失，第一页无游标触发重建
	f.redis.FlushAll()

	statuses, err := f.timeline.HomeTimeline(ctx, 30, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	got := []uint64{statuses[0].ID, statuses[1].ID, statuses[2].ID}
	assert.ElementsMatch(t, []uint64{a, b, own}, got)
	// 仍按时间倒序
	assert.Equal(t, own, got[0])
}

func TestHomeRebuildConverges(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 20, "bob")
	f.follow(t, 20, 10)

	f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "one"})
	f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "two"})

	f.redis.FlushAll()

	// 并发场景下允许多次重建，结果必须收敛
	require.NoError(t, f.timeline.RebuildHome(ctx, 20))
	firstPass, err := f.timelineCache.Page(ctx, "user20", types.TimelineHome, types.NoCursor, 1, 10)
	require.NoError(t, err)

	require.NoError(t, f.timeline.RebuildHome(ctx, 20))
	secondPass, err := f.timelineCache.Page(ctx, "user20", types.TimelineHome, types.NoCursor, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, firstPass, secondPass)
	size, err := f.timelineCache.Size(ctx, "user20", types.TimelineHome)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}

func TestHomeRebuildSkipsNonHomeKinds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 20, "bob")
	f.follow(t, 20, 10)

	normal := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "text"})
	f.create(t, &types.CreateStatusRequest{AuthorID: 10, Kind: types.StatusKindMedia})
	f.create(t, &types.CreateStatusRequest{AuthorID: 10, Kind: types.StatusKindHelp})

	f.redis.FlushAll()

	statuses, err := f.timeline.HomeTimeline(ctx, 20, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, normal, statuses[0].ID)
}

func TestHomeTimelinePrivacyFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 20, "bob")
	f.follow(t, 20, 10) // 单向关注，不构成好友

	open := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "open"})
	f.create(t, &types.CreateStatusRequest{AuthorID: 10, Privacy: types.PrivacyContacts})
	f.create(t, &types.CreateStatusRequest{AuthorID: 10, Privacy: types.PrivacyOnlyMe})

	statuses, err := f.timeline.HomeTimeline(ctx, 20, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	// 列表路径不可见的静默跳过，不报权限错误
	require.Len(t, statuses, 1)
	assert.Equal(t, open, statuses[0].ID)
}

func TestUserTimelineCursorPaging(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")

	ids := make([]uint64, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "n"}))
	}

	page1, err := f.timeline.UserTimeline(ctx, 10, 0, types.TimelineAll, types.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, ids[4], page1[0].ID)

	// 以上一页末尾的 created_at 作为游标继续翻页，不重不漏
	cursor := page1[1].CreatedAt
	page2, err := f.timeline.UserTimeline(ctx, 10, 0, types.TimelineAll, types.PageRequest{Cursor: cursor, Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, ids[2], page2[0].ID)
	assert.Equal(t, ids[1], page2[1].ID)
}

func TestUserTimelineKindRestricted(t *testing.T) {
	f := setup(t)
	f.seedUser(t, 10, "alice")

	// home 不是对外开放的用户索引
	_, err := f.timeline.UserTimeline(context.Background(), 10, 0, types.TimelineHome, types.PageRequest{Page: 1, PageSize: 10})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 40002, be.Code)
}

func TestStoryTimeline(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")

	id := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Kind: types.StatusKindStory})

	statuses, err := f.timeline.StoryTimeline(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, id, statuses[0].ID)
}

func TestGlobalAndCountryTimeline(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 20, "bob")

	cn := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Kind: types.StatusKindMedia, CountryCode: "CN"})
	jp := f.create(t, &types.CreateStatusRequest{AuthorID: 20, Kind: types.StatusKindMedia, CountryCode: "JP"})

	cnPage, err := f.timeline.CountryTimeline(ctx, "CN", 0, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, cnPage, 1)
	assert.Equal(t, cn, cnPage[0].ID)

	all, err := f.timeline.GlobalTimeline(ctx, 0, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.ElementsMatch(t, []uint64{cn, jp}, []uint64{all[0].ID, all[1].ID})
}

func TestTopMediaOrdering(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")
	f.seedUser(t, 99, "zoe")

	first := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Kind: types.StatusKindMedia, CountryCode: "CN"})
	second := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Kind: types.StatusKindMedia, CountryCode: "CN"})

	// 热度榜按点赞热度排序，而不是创建时间
	require.NoError(t, f.actions.Like(ctx, first, 99))

	top, err := f.timeline.TopMedia(ctx, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, first, top[0].ID)
	assert.Equal(t, second, top[1].ID)
}

func TestTimelineBackfillDropsTombstones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 10, "alice")

	keep := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "keep"})
	gone := f.create(t, &types.CreateStatusRequest{AuthorID: 10, Content: "gone"})
	require.NoError(t, f.statusDAO.MarkDeleted(ctx, gone))

	// 快照全部失效，索引仍残留两个成员
	require.NoError(t, f.statusCache.Delete(ctx, keep))
	require.NoError(t, f.statusCache.Delete(ctx, gone))

	statuses, err := f.timeline.UserTimeline(ctx, 10, 0, types.TimelineAll, types.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, keep, statuses[0].ID)
}
