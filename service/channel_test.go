package service

import (
	"Plume/models"
	"Plume/pkg/response"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowPublicChannel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedUser(t, 20, "bob")
	f.seedChannel(t, 5, 1, "news", true)

	pending, err := f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)
	assert.False(t, pending)

	followers, err := f.channels.ListFollowers(ctx, 5, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{20}, followers)

	count, err := f.channels.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 重复关注不膨胀关注者列表
	_, err = f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)
	count, err = f.channels.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFollowPrivateChannelNeedsApproval(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedUser(t, 20, "bob")
	f.seedChannel(t, 5, 1, "club", false)

	pending, err := f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)
	assert.True(t, pending)

	// 审批前不进关注者列表
	count, err := f.channels.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	req, err := f.channelDAO.FindRequest(ctx, 5, 20)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.ChannelRequestPending, req.Status)
}

func TestResolveFollowRequestAccept(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedUser(t, 20, "bob")
	f.seedChannel(t, 5, 1, "club", false)

	_, err := f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)

	require.NoError(t, f.channels.ResolveFollowRequest(ctx, 5, 1, 20, true))

	followers, err := f.channels.ListFollowers(ctx, 5, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{20}, followers)

	req, err := f.channelDAO.FindRequest(ctx, 5, 20)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelRequestAccepted, req.Status)

	// 申请已终结，重复审批报申请不存在
	err = f.channels.ResolveFollowRequest(ctx, 5, 1, 20, true)
	assert.ErrorIs(t, err, response.ErrRequestNotFound)
}

func TestResolveFollowRequestReject(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedUser(t, 20, "bob")
	f.seedChannel(t, 5, 1, "club", false)

	_, err := f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)

	require.NoError(t, f.channels.ResolveFollowRequest(ctx, 5, 1, 20, false))

	count, err := f.channels.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	req, err := f.channelDAO.FindRequest(ctx, 5, 20)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelRequestCancelled, req.Status)
}

func TestResolveFollowRequestOwnerOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedUser(t, 20, "bob")
	f.seedUser(t, 30, "carol")
	f.seedChannel(t, 5, 1, "club", false)

	_, err := f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)

	err = f.channels.ResolveFollowRequest(ctx, 5, 30, 20, true)
	assert.ErrorIs(t, err, response.ErrPrivacyForbidden)
}

func TestUnfollowChannel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedUser(t, 20, "bob")
	f.seedChannel(t, 5, 1, "news", true)

	_, err := f.channels.FollowChannel(ctx, 5, 20)
	require.NoError(t, err)
	require.NoError(t, f.channels.UnfollowChannel(ctx, 5, 20))

	count, err := f.channels.FollowerCount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 未关注时取消关注幂等
	require.NoError(t, f.channels.UnfollowChannel(ctx, 5, 20))
}

func TestFollowMissingChannel(t *testing.T) {
	f := setup(t)
	f.seedUser(t, 20, "bob")

	_, err := f.channels.FollowChannel(context.Background(), 404, 20)
	assert.ErrorIs(t, err, response.ErrChannelNotFound)
}

func TestFollowByInactiveUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedUser(t, 1, "owner")
	f.seedChannel(t, 5, 1, "news", true)
	require.NoError(t, f.db.Create(&models.Users{ID: 66, Nickname: "ghost", Status: models.UserStatusDeactivated}).Error)

	_, err := f.channels.FollowChannel(ctx, 5, 66)
	assert.ErrorIs(t, err, response.ErrUserNotFound)
}
