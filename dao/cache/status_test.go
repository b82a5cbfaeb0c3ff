package cache

import (
	"Plume/config"
	"Plume/models"
	"Plume/types"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	nicknames map[uint64]string
}

func (s *stubUsers) FindNicknames(_ context.Context, ids []uint64) (map[uint64]string, error) {
	result := make(map[uint64]string, len(ids))
	for _, id := range ids {
		if name, ok := s.nicknames[id]; ok {
			result[id] = name
		}
	}
	return result, nil
}

type stubChannels struct {
	channels map[uint64]*models.Channel
}

func (s *stubChannels) FindByID(_ context.Context, channelID uint64) (*models.Channel, error) {
	return s.channels[channelID], nil
}

func setupStatus(t *testing.T) (*StatusStorage, *stubUsers, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	conf := &config.Config{Cache: &config.Cache{
		StatusTTL:  3600,
		StoryTTL:   60,
		CounterTTL: 3600,
		ActionTTL:  3600,
	}}
	users := &stubUsers{nicknames: map[uint64]string{}}
	channels := &stubChannels{channels: map[uint64]*models.Channel{}}
	return NewStatusStorage(rds, conf, users, channels), users, mr
}

func newStatus(id, authorID uint64) *models.Status {
	return &models.Status{
		ID:        id,
		UserID:    authorID,
		Content:   "hello",
		Kind:      int8(types.StatusKindNormal),
		Privacy:   int8(types.PrivacyPublic),
		CreatedAt: time.Now(),
	}
}

func TestStatusPutGet(t *testing.T) {
	s, users, mr := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))
	assert.True(t, mr.Exists("status:status1"))
	assert.True(t, mr.Exists("status:status1:counters"))

	views, err := s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint64(1), views[0].ID)
	assert.Equal(t, "alice", views[0].AuthorName)
	assert.Equal(t, types.StatusKindNormal, views[0].Kind)
}

func TestStatusGetMissingSkipped(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))

	// 未缓存的 ID 不报错，只是不出现在结果里
	views, err := s.Get(ctx, []uint64{1, 999}, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint64(1), views[0].ID)
}

func TestStatusAuthorUnresolvableDropped(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{
		{Status: newStatus(1, 10)},
		{Status: newStatus(2, 777)}, // 作者不存在
	}, 0))

	views, err := s.Get(ctx, []uint64{1, 2}, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint64(1), views[0].ID)
}

func TestStatusReferenceResolution(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"
	users.nicknames[20] = "bob"
	users.nicknames[30] = "carol"

	original := newStatus(1, 10)

	share := newStatus(2, 20)
	share.IsShare = true
	share.OriginalID = 1

	// 转发的转发
	shareOfShare := newStatus(3, 30)
	shareOfShare.IsShare = true
	shareOfShare.OriginalID = 2

	require.NoError(t, s.Put(ctx, []PutItem{
		{Status: original}, {Status: share}, {Status: shareOfShare},
	}, 0))

	views, err := s.Get(ctx, []uint64{2, 3}, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// 一层解析：转发带原动态
	require.NotNil(t, views[0].Original)
	assert.Equal(t, uint64(1), views[0].Original.ID)
	assert.Equal(t, "alice", views[0].Original.AuthorName)
	assert.Nil(t, views[0].Original.Original)

	// 转发的转发不再展开
	assert.Nil(t, views[1].Original)
}

func TestStatusMentionResolution(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"
	users.nicknames[20] = "bob"

	m := newStatus(1, 10)
	m.MentionIDs = []byte(`[20, 777]`)

	require.NoError(t, s.Put(ctx, []PutItem{{Status: m}}, 0))

	views, err := s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// 存在的提及解析出昵称，解析不到的静默跳过
	require.Len(t, views[0].Mentions, 1)
	assert.Equal(t, types.Mention{UserID: 20, Nickname: "bob"}, views[0].Mentions[0])
}

func TestMutateCounter(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))

	require.NoError(t, s.MutateCounter(ctx, 1, types.CounterLikes, 3))
	require.NoError(t, s.MutateCounter(ctx, 1, types.CounterLikes, -1))

	views, err := s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views[0].Counters.Likes)
}

func TestMutateCounterClampAtZero(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))
	require.NoError(t, s.MutateCounter(ctx, 1, types.CounterComments, -5))

	views, err := s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), views[0].Counters.Comments)
}

func TestMutateCounterAbsentNoop(t *testing.T) {
	s, _, mr := setupStatus(t)

	// 计数记录不存在时不创建孤儿 key
	require.NoError(t, s.MutateCounter(context.Background(), 404, types.CounterLikes, 1))
	assert.False(t, mr.Exists("status:status404:counters"))
}

func TestViewerState(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))
	require.NoError(t, s.RecordAction(ctx, 1, 99, types.ActionLike))
	require.NoError(t, s.RecordView(ctx, 1, 99))

	views, err := s.Get(ctx, []uint64{1}, 99)
	require.NoError(t, err)
	require.NotNil(t, views[0].Viewer)
	assert.True(t, views[0].Viewer.IsLiked)
	assert.False(t, views[0].Viewer.IsDisliked)
	assert.True(t, views[0].Viewer.IsViewed)

	// 点踩覆盖点赞
	require.NoError(t, s.RecordAction(ctx, 1, 99, types.ActionDislike))
	views, err = s.Get(ctx, []uint64{1}, 99)
	require.NoError(t, err)
	assert.False(t, views[0].Viewer.IsLiked)
	assert.True(t, views[0].Viewer.IsDisliked)

	// 撤销后两者皆无
	require.NoError(t, s.RemoveAction(ctx, 1, 99))
	views, err = s.Get(ctx, []uint64{1}, 99)
	require.NoError(t, err)
	assert.False(t, views[0].Viewer.IsLiked)
	assert.False(t, views[0].Viewer.IsDisliked)
}

func TestRepliesRoundtrip(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"
	users.nicknames[20] = "bob"

	parent := newStatus(1, 10)
	reply := newStatus(2, 20)
	reply.IsReply = true
	reply.ParentID = 1

	require.NoError(t, s.Put(ctx, []PutItem{{Status: parent}, {Status: reply}}, 0))
	require.NoError(t, s.AppendReply(ctx, 1, types.TimelineEntry{Score: reply.CreatedAt.UnixNano(), MemberID: 2}))

	replies, err := s.ListReplies(ctx, 1, 0, 1, 20)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, uint64(2), replies[0].ID)
	require.NotNil(t, replies[0].Parent)
	assert.Equal(t, uint64(1), replies[0].Parent.ID)

	require.NoError(t, s.RemoveReply(ctx, 1, 2))
	replies, err = s.ListReplies(ctx, 1, 0, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestStatusDelete(t *testing.T) {
	s, users, mr := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))
	require.NoError(t, s.RecordAction(ctx, 1, 99, types.ActionLike))

	require.NoError(t, s.Delete(ctx, 1))
	assert.False(t, mr.Exists("status:status1"))
	assert.False(t, mr.Exists("status:status1:counters"))
	assert.False(t, mr.Exists("status:status1:actions"))

	views, err := s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestSnapshotStatsSeed(t *testing.T) {
	s, users, _ := setupStatus(t)
	ctx := context.Background()
	users.nicknames[10] = "alice"

	stats := &models.StatusStats{StatusID: 1, LikeCount: 7, CommentCount: 2}
	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10), Stats: stats}}, 0))

	views, err := s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), views[0].Counters.Likes)
	assert.Equal(t, int64(2), views[0].Counters.Comments)

	// 不带 Stats 的覆盖写不清掉实时计数
	require.NoError(t, s.Put(ctx, []PutItem{{Status: newStatus(1, 10)}}, 0))
	views, err = s.Get(ctx, []uint64{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), views[0].Counters.Likes)
}
