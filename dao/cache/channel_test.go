package cache

import (
	"Plume/config"
	"Plume/models"
	"Plume/types"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupChannel(t *testing.T) (*ChannelStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	conf := &config.Config{Cache: &config.Cache{
		StatusTTL:  3600,
		StoryTTL:   60,
		CounterTTL: 3600,
		ActionTTL:  3600,
	}}
	return NewChannelStorage(rds, conf), mr
}

func TestChannelKeyScheme(t *testing.T) {
	s, mr := setupChannel(t)
	ctx := context.Background()

	require.NoError(t, s.AppendMedia(ctx, 5, types.TimelineEntry{Score: 1, MemberID: 1}))
	require.NoError(t, s.AddFollower(ctx, 5, 9))
	require.NoError(t, s.SetRequest(ctx, 5, 9, models.ChannelRequestPending))

	assert.True(t, mr.Exists("channel:channel5:media"))
	assert.True(t, mr.Exists("channel:channel5:followers"))
	assert.True(t, mr.Exists("channel:channel5:requests"))
}

func TestChannelMediaPage(t *testing.T) {
	s, _ := setupChannel(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.AppendMedia(ctx, 5, types.TimelineEntry{
			Score:    int64(i * 10),
			MemberID: uint64(i),
		}))
	}

	ids, err := s.PageMedia(ctx, 5, types.NoCursor, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, ids)

	ids, err = s.PageMedia(ctx, 5, 20, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)

	require.NoError(t, s.RemoveMedia(ctx, 5, 3))
	ids, err = s.PageMedia(ctx, 5, types.NoCursor, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, ids)
}

func TestChannelFollowersIdempotent(t *testing.T) {
	s, _ := setupChannel(t)
	ctx := context.Background()

	require.NoError(t, s.AddFollower(ctx, 5, 9))
	require.NoError(t, s.AddFollower(ctx, 5, 9))
	require.NoError(t, s.AddFollower(ctx, 5, 10))

	count, err := s.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	users, err := s.PageFollowers(ctx, 5, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{9, 10}, users)

	require.NoError(t, s.RemoveFollower(ctx, 5, 9))
	count, err = s.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChannelRequestLifecycle(t *testing.T) {
	s, _ := setupChannel(t)
	ctx := context.Background()

	// 无申请记录
	_, ok, err := s.GetRequest(ctx, 5, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetRequest(ctx, 5, 9, models.ChannelRequestPending))
	status, ok, err := s.GetRequest(ctx, 5, 9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ChannelRequestPending, status)

	require.NoError(t, s.SetRequest(ctx, 5, 9, models.ChannelRequestAccepted))
	status, _, err = s.GetRequest(ctx, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelRequestAccepted, status)

	require.NoError(t, s.RemoveRequest(ctx, 5, 9))
	_, ok, err = s.GetRequest(ctx, 5, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}
