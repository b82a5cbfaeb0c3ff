package cache

import (
	"Plume/config"
	"Plume/types"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 索引类型 -> key 片段，命名约定必须与其他子系统保持逐字节一致
var timelineKindNames = map[types.TimelineKind]string{
	types.TimelineAll:          "all",
	types.TimelineMedia:        "media",
	types.TimelineChannelMedia: "channelMedia",
	types.TimelineHome:         "home",
	types.TimelineStory:        "story",
	types.TimelineCountry:      "country",
}

// KindName 索引类型的 key 片段
func KindName(kind types.TimelineKind) string {
	return timelineKindNames[kind]
}

type TimelineStorage struct {
	redis  *redis.Client
	config *config.Config
}

func NewTimelineStorage(rds *redis.Client, conf *config.Config) *TimelineStorage {
	return &TimelineStorage{redis: rds, config: conf}
}

// timeline:{subject}:{kind}
func (t *TimelineStorage) name(subject string, kind types.TimelineKind) string {
	return fmt.Sprintf("timeline:%s:%s", subject, timelineKindNames[kind])
}

// 全局热门媒体榜，score 为累计热度而非时间
func (t *TimelineStorage) topMediaKey() string {
	return "timeline:global:topMedia"
}

func (t *TimelineStorage) expireFor(kind types.TimelineKind) time.Duration {
	if kind == types.TimelineStory {
		return t.config.Cache.StoryExpire()
	}
	return t.config.Cache.StatusExpire()
}

// Append 幂等写入 (score, member)，重复写入同一成员不产生新条目
func (t *TimelineStorage) Append(ctx context.Context, subject string, kind types.TimelineKind, entries ...types.TimelineEntry) error {
	if len(entries) == 0 {
		return nil
	}
	key := t.name(subject, kind)

	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{
			Score:  float64(e.Score),
			Member: strconv.FormatUint(e.MemberID, 10),
		})
	}

	_, err := t.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, members...)
		pipe.Expire(ctx, key, t.expireFor(kind))
		return nil
	})
	return err
}

func (t *TimelineStorage) Remove(ctx context.Context, subject string, kind types.TimelineKind, memberID uint64) error {
	return t.redis.ZRem(ctx, t.name(subject, kind), strconv.FormatUint(memberID, 10)).Err()
}

// Page 按 score 倒序分页。cursor > 0 时只返回严格小于 cursor 的条目，
// 保证新条目持续写入时游标翻页依然稳定。索引不存在返回空页。
func (t *TimelineStorage) Page(ctx context.Context, subject string, kind types.TimelineKind, cursor int64, page, pageSize int) ([]uint64, error) {
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

	members, err := t.redis.ZRevRangeByScore(ctx, t.name(subject, kind), &redis.ZRangeBy{
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

// TopWithScores 取最新 limit 条(含 score)，重建首页时合并来源用
func (t *TimelineStorage) TopWithScores(ctx context.Context, subject string, kind types.TimelineKind, limit int) ([]types.TimelineEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	zs, err := t.redis.ZRevRangeWithScores(ctx, t.name(subject, kind), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]types.TimelineEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, types.TimelineEntry{Score: int64(z.Score), MemberID: id})
	}
	return entries, nil
}

// Size 索引内条目数，缓存未命中判定用
func (t *TimelineStorage) Size(ctx context.Context, subject string, kind types.TimelineKind) (int64, error) {
	return t.redis.ZCard(ctx, t.name(subject, kind)).Result()
}

// Drop 整个索引删除
func (t *TimelineStorage) Drop(ctx context.Context, subject string, kind types.TimelineKind) error {
	return t.redis.Del(ctx, t.name(subject, kind)).Err()
}

// IncrRank 热门榜累计热度 +1
func (t *TimelineStorage) IncrRank(ctx context.Context, memberID uint64) error {
	return t.redis.ZIncrBy(ctx, t.topMediaKey(), 1, strconv.FormatUint(memberID, 10)).Err()
}

// AddRanked 以初始热度写入热门榜，已存在的成员不重置
func (t *TimelineStorage) AddRanked(ctx context.Context, memberID uint64, score float64) error {
	return t.redis.ZAddNX(ctx, t.topMediaKey(), redis.Z{
		Score:  score,
		Member: strconv.FormatUint(memberID, 10),
	}).Err()
}

// PageByRank 按累计热度倒序分页，仅热门榜使用
func (t *TimelineStorage) PageByRank(ctx context.Context, page, pageSize int) ([]uint64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	start := int64((page - 1) * pageSize)
	stop := start + int64(pageSize) - 1

	members, err := t.redis.ZRevRange(ctx, t.topMediaKey(), start, stop).Result()
	if err != nil {
		return nil, err
	}
	return parseMemberIDs(members), nil
}

// RemoveRanked 从热门榜移除
func (t *TimelineStorage) RemoveRanked(ctx context.Context, memberID uint64) error {
	return t.redis.ZRem(ctx, t.topMediaKey(), strconv.FormatUint(memberID, 10)).Err()
}

func parseMemberIDs(members []string) []uint64 {
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseUint(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
