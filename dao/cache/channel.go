package cache

import (
	"Plume/config"
	"Plume/types"
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ChannelStorage 频道媒体索引 + 粉丝列表 + 关注申请表
type ChannelStorage struct {
	redis  *redis.Client
	config *config.Config
}

func NewChannelStorage(rds *redis.Client, conf *config.Config) *ChannelStorage {
	return &ChannelStorage{redis: rds, config: conf}
}

// channel:channel{id}:media
func (c *ChannelStorage) mediaKey(channelID uint64) string {
	return fmt.Sprintf("channel:channel%d:media", channelID)
}

// channel:channel{id}:followers
func (c *ChannelStorage) followersKey(channelID uint64) string {
	return fmt.Sprintf("channel:channel%d:followers", channelID)
}

// channel:channel{id}:requests
func (c *ChannelStorage) requestsKey(channelID uint64) string {
	return fmt.Sprintf("channel:channel%d:requests", channelID)
}

// AppendMedia 频道媒体入索引，幂等
func (c *ChannelStorage) AppendMedia(ctx context.Context, channelID uint64, entries ...types.TimelineEntry) error {
	if len(entries) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{
			Score:  float64(e.Score),
			Member: strconv.FormatUint(e.MemberID, 10),
		})
	}

	key := c.mediaKey(channelID)
	_, err := c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, members...)
		pipe.Expire(ctx, key, c.config.Cache.StatusExpire())
		return nil
	})
	return err
}

func (c *ChannelStorage) RemoveMedia(ctx context.Context, channelID, statusID uint64) error {
	return c.redis.ZRem(ctx, c.mediaKey(channelID), strconv.FormatUint(statusID, 10)).Err()
}

// PageMedia 频道媒体分页，游标语义同 TimelineStorage.Page
func (c *ChannelStorage) PageMedia(ctx context.Context, channelID uint64, cursor int64, page, pageSize int) ([]uint64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	max := "+inf"
	if cursor > 0 {
		max = "(" + strconv.FormatInt(cursor, 10)
	}

	members, err := c.redis.ZRevRangeByScore(ctx, c.mediaKey(channelID), &redis.ZRangeBy{
		Min:    "-inf",
		Max:    max,
		Offset: int64((page - 1) * pageSize),
		Count:  int64(pageSize),
	}).Result()
	if err != nil {
		return nil, err
	}
	return parseMemberIDs(members), nil
}

// AddFollower 先删后插保证幂等
func (c *ChannelStorage) AddFollower(ctx context.Context, channelID, userID uint64) error {
	member := strconv.FormatUint(userID, 10)
	key := c.followersKey(channelID)
	_, err := c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, member)
		pipe.RPush(ctx, key, member)
		return nil
	})
	return err
}

func (c *ChannelStorage) RemoveFollower(ctx context.Context, channelID, userID uint64) error {
	return c.redis.LRem(ctx, c.followersKey(channelID), 0, strconv.FormatUint(userID, 10)).Err()
}

func (c *ChannelStorage) PageFollowers(ctx context.Context, channelID uint64, page, pageSize int) ([]uint64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	start := int64((page - 1) * pageSize)
	stop := start + int64(pageSize) - 1

	members, err := c.redis.LRange(ctx, c.followersKey(channelID), start, stop).Result()
	if err != nil {
		return nil, err
	}
	return parseMemberIDs(members), nil
}

func (c *ChannelStorage) FollowerCount(ctx context.Context, channelID uint64) (int64, error) {
	return c.redis.LLen(ctx, c.followersKey(channelID)).Result()
}

// SetRequest 关注申请状态 userID -> pending/accepted/cancelled
func (c *ChannelStorage) SetRequest(ctx context.Context, channelID, userID uint64, status int) error {
	return c.redis.HSet(ctx, c.requestsKey(channelID), strconv.FormatUint(userID, 10), status).Err()
}

// GetRequest 第二个返回值表示申请是否存在
func (c *ChannelStorage) GetRequest(ctx context.Context, channelID, userID uint64) (int, bool, error) {
	val, err := c.redis.HGet(ctx, c.requestsKey(channelID), strconv.FormatUint(userID, 10)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *ChannelStorage) RemoveRequest(ctx context.Context, channelID, userID uint64) error {
	return c.redis.HDel(ctx, c.requestsKey(channelID), strconv.FormatUint(userID, 10)).Err()
}
