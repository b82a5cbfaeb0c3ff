package cache

import (
	"Plume/config"
	"Plume/models"
	"Plume/types"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

// UserReader 读取路径解析作者/提及昵称的持久层接口
type UserReader interface {
	FindNicknames(ctx context.Context, ids []uint64) (map[uint64]string, error)
}

// ChannelReader 解析频道引用的持久层接口
type ChannelReader interface {
	FindByID(ctx context.Context, channelID uint64) (*models.Channel, error)
}

type StatusStorage struct {
	redis    *redis.Client
	config   *config.Config
	users    UserReader
	channels ChannelReader
}

func NewStatusStorage(rds *redis.Client, conf *config.Config, users UserReader, channels ChannelReader) *StatusStorage {
	return &StatusStorage{redis: rds, config: conf, users: users, channels: channels}
}

// status:{id}
func (s *StatusStorage) snapshotKey(id uint64) string {
	return fmt.Sprintf("status:status%d", id)
}

// status:status{id}:counters
func (s *StatusStorage) countersKey(id uint64) string {
	return fmt.Sprintf("status:status%d:counters", id)
}

// status:status{id}:actions
func (s *StatusStorage) actionsKey(id uint64) string {
	return fmt.Sprintf("status:status%d:actions", id)
}

// status:status{id}:views
func (s *StatusStorage) viewsKey(id uint64) string {
	return fmt.Sprintf("status:status%d:views", id)
}

// status:status{id}:replies
func (s *StatusStorage) repliesKey(id uint64) string {
	return fmt.Sprintf("status:status%d:replies", id)
}

var allCounterFields = []types.CounterField{
	types.CounterLikes,
	types.CounterDislikes,
	types.CounterShares,
	types.CounterComments,
	types.CounterViews,
}

// PutItem 一次快照写入的全部内容
type PutItem struct {
	Status *models.Status
	// Stats 持久层计数，带上时覆盖计数记录；为空时只补零种子，不覆盖已有计数
	Stats *models.StatusStats
	// ReplyIDs 动态已有回复时的回复列表种子
	ReplyIDs []types.TimelineEntry
}

// Put 写入/覆盖快照与计数记录，管道批量提交
func (s *StatusStorage) Put(ctx context.Context, items []PutItem, ttl time.Duration) error {
	if len(items) == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = s.config.Cache.StatusExpire()
	}

	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			snapshot := SnapshotFromModel(item.Status)
			blob, err := EncodeSnapshot(snapshot)
			if err != nil {
				return err
			}
			pipe.Set(ctx, s.snapshotKey(snapshot.ID), blob, ttl)

			counters := s.countersKey(snapshot.ID)
			if item.Stats != nil {
				pipe.HSet(ctx, counters, map[string]any{
					string(types.CounterLikes):    item.Stats.LikeCount,
					string(types.CounterDislikes): item.Stats.DislikeCount,
					string(types.CounterShares):   item.Stats.ShareCount,
					string(types.CounterComments): item.Stats.CommentCount,
					string(types.CounterViews):    item.Stats.ViewCount,
				})
			} else {
				// 不覆盖既有实时计数，只保证字段存在
				for _, field := range allCounterFields {
					pipe.HSetNX(ctx, counters, string(field), 0)
				}
			}
			pipe.Expire(ctx, counters, s.config.Cache.CounterExpire())

			if len(item.ReplyIDs) > 0 {
				members := make([]redis.Z, 0, len(item.ReplyIDs))
				for _, e := range item.ReplyIDs {
					members = append(members, redis.Z{
						Score:  float64(e.Score),
						Member: strconv.FormatUint(e.MemberID, 10),
					})
				}
				replies := s.repliesKey(snapshot.ID)
				pipe.ZAdd(ctx, replies, members...)
				pipe.Expire(ctx, replies, ttl)
			}
		}
		return nil
	})
	return err
}

// fetchSnapshots 管道批量取快照。缺失与墓碑静默跳过，
// 返回值保持入参顺序。
func (s *StatusStorage) fetchSnapshots(ctx context.Context, ids []uint64) ([]*StatusSnapshot, map[uint64]*StatusSnapshot, error) {
	ordered := make([]*StatusSnapshot, 0, len(ids))
	index := make(map[uint64]*StatusSnapshot, len(ids))
	if len(ids) == 0 {
		return ordered, index, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.snapshotKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, err
	}

	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			continue // 未缓存，由调用方回源
		}
		snapshot, err := DecodeSnapshot(data)
		if err != nil {
			continue
		}
		if snapshot.Deleted {
			continue
		}
		if _, ok := index[snapshot.ID]; ok {
			continue
		}
		ordered = append(ordered, snapshot)
		index[snapshot.ID] = snapshot
	}
	return ordered, index, nil
}

// Get 批量读取并做一层引用解析。
// 缺失的 ID 不在返回值中出现，由调用方回源持久层；
// 作者已注销的动态静默丢弃；命中即刷新 TTL。
func (s *StatusStorage) Get(ctx context.Context, ids []uint64, viewerID uint64) ([]*types.ResolvedStatus, error) {
	snapshots, _, err := s.fetchSnapshots(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return []*types.ResolvedStatus{}, nil
	}

	// 一层引用：父动态 + 被转发的原动态
	refIDs := make([]uint64, 0, len(snapshots)*2)
	for _, snapshot := range snapshots {
		if snapshot.ParentID > 0 {
			refIDs = append(refIDs, snapshot.ParentID)
		}
		if snapshot.OriginalID > 0 {
			refIDs = append(refIDs, snapshot.OriginalID)
		}
	}
	_, refIndex, err := s.fetchSnapshots(ctx, lo.Uniq(refIDs))
	if err != nil {
		return nil, err
	}

	// 作者 + 提及 + 引用作者的昵称一次性解析
	nickIDs := make([]uint64, 0, len(snapshots)*2)
	for _, snapshot := range snapshots {
		nickIDs = append(nickIDs, snapshot.AuthorID)
		nickIDs = append(nickIDs, snapshot.MentionIDs...)
	}
	for _, ref := range refIndex {
		nickIDs = append(nickIDs, ref.AuthorID)
		nickIDs = append(nickIDs, ref.MentionIDs...)
	}
	nicknames, err := s.users.FindNicknames(ctx, lo.Uniq(nickIDs))
	if err != nil {
		return nil, err
	}

	counters, viewer, err := s.fetchReadState(ctx, snapshots, refIndex, viewerID)
	if err != nil {
		return nil, err
	}

	result := make([]*types.ResolvedStatus, 0, len(snapshots))
	for _, snapshot := range snapshots {
		view := s.resolve(ctx, snapshot, nicknames, counters, refIndex)
		if view == nil {
			continue
		}
		if viewerID > 0 {
			view.Viewer = viewer[snapshot.ID]
		}
		result = append(result, view)
	}

	// 读取即续期
	_, _ = s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, snapshot := range snapshots {
			pipe.Expire(ctx, s.snapshotKey(snapshot.ID), s.config.Cache.StatusExpire())
			pipe.Expire(ctx, s.countersKey(snapshot.ID), s.config.Cache.CounterExpire())
		}
		return nil
	})

	return result, nil
}

// fetchReadState 管道批量取实时计数与查看者操作状态
func (s *StatusStorage) fetchReadState(
	ctx context.Context,
	snapshots []*StatusSnapshot,
	refIndex map[uint64]*StatusSnapshot,
	viewerID uint64,
) (map[uint64]types.Counters, map[uint64]*types.ViewerState, error) {

	pipe := s.redis.Pipeline()

	counterCmds := make(map[uint64]*redis.MapStringStringCmd, len(snapshots)+len(refIndex))
	for _, snapshot := range snapshots {
		counterCmds[snapshot.ID] = pipe.HGetAll(ctx, s.countersKey(snapshot.ID))
	}
	for id := range refIndex {
		if _, ok := counterCmds[id]; !ok {
			counterCmds[id] = pipe.HGetAll(ctx, s.countersKey(id))
		}
	}

	actionCmds := make(map[uint64]*redis.StringCmd, len(snapshots))
	viewCmds := make(map[uint64]*redis.BoolCmd, len(snapshots))
	if viewerID > 0 {
		member := strconv.FormatUint(viewerID, 10)
		for _, snapshot := range snapshots {
			actionCmds[snapshot.ID] = pipe.HGet(ctx, s.actionsKey(snapshot.ID), member)
			viewCmds[snapshot.ID] = pipe.SIsMember(ctx, s.viewsKey(snapshot.ID), member)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, err
	}

	counters := make(map[uint64]types.Counters, len(counterCmds))
	for id, cmd := range counterCmds {
		values, err := cmd.Result()
		if err != nil {
			continue
		}
		counters[id] = types.Counters{
			Likes:    parseCounter(values[string(types.CounterLikes)]),
			Dislikes: parseCounter(values[string(types.CounterDislikes)]),
			Shares:   parseCounter(values[string(types.CounterShares)]),
			Comments: parseCounter(values[string(types.CounterComments)]),
			Views:    parseCounter(values[string(types.CounterViews)]),
		}
	}

	viewer := make(map[uint64]*types.ViewerState, len(snapshots))
	if viewerID > 0 {
		for _, snapshot := range snapshots {
			state := &types.ViewerState{}
			if raw, err := actionCmds[snapshot.ID].Result(); err == nil {
				switch types.ActionKind(parseCounter(raw)) {
				case types.ActionLike:
					state.IsLiked = true
				case types.ActionDislike:
					state.IsDisliked = true
				}
			}
			state.IsViewed, _ = viewCmds[snapshot.ID].Result()
			viewer[snapshot.ID] = state
		}
	}

	return counters, viewer, nil
}

// resolve 组装单条视图；shallow 解析只走一层，不再展开引用
func (s *StatusStorage) resolve(
	ctx context.Context,
	snapshot *StatusSnapshot,
	nicknames map[uint64]string,
	counters map[uint64]types.Counters,
	refIndex map[uint64]*StatusSnapshot,
) *types.ResolvedStatus {

	nickname, ok := nicknames[snapshot.AuthorID]
	if !ok {
		// 作者已注销/删除，整条丢弃而不是报错
		return nil
	}

	view := snapshot.View()
	view.AuthorName = nickname
	view.Counters = counters[snapshot.ID]

	// 提及：查不到昵称的静默跳过，单个坏引用不拖垮整页
	for _, mid := range snapshot.MentionIDs {
		if name, ok := nicknames[mid]; ok {
			view.Mentions = append(view.Mentions, types.Mention{UserID: mid, Nickname: name})
		}
	}

	if snapshot.ParentID > 0 {
		if parent, ok := refIndex[snapshot.ParentID]; ok {
			view.Parent = s.resolveShallow(parent, nicknames, counters)
		}
	}
	if snapshot.OriginalID > 0 {
		if original, ok := refIndex[snapshot.OriginalID]; ok && !original.IsShare {
			// 转发的转发不再展开，置空防止无限链
			view.Original = s.resolveShallow(original, nicknames, counters)
		}
	}

	if snapshot.ChannelID > 0 {
		if channel, err := s.channels.FindByID(ctx, snapshot.ChannelID); err == nil && channel != nil {
			view.Channel = &types.ChannelInfo{
				ID:      channel.ID,
				OwnerID: channel.OwnerID,
				Name:    channel.Name,
			}
		}
	}

	return view
}

func (s *StatusStorage) resolveShallow(
	snapshot *StatusSnapshot,
	nicknames map[uint64]string,
	counters map[uint64]types.Counters,
) *types.ResolvedStatus {
	nickname, ok := nicknames[snapshot.AuthorID]
	if !ok {
		return nil
	}
	view := snapshot.View()
	view.AuthorName = nickname
	view.Counters = counters[snapshot.ID]
	for _, mid := range snapshot.MentionIDs {
		if name, ok := nicknames[mid]; ok {
			view.Mentions = append(view.Mentions, types.Mention{UserID: mid, Nickname: name})
		}
	}
	return view
}

// MutateCounter 实时计数增减。
// 计数记录不存在(未缓存)时为 no-op；减到负数回拨为 0。
func (s *StatusStorage) MutateCounter(ctx context.Context, id uint64, field types.CounterField, delta int64) error {
	key := s.countersKey(id)

	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return nil
	}

	val, err := s.redis.HIncrBy(ctx, key, string(field), delta).Result()
	if err != nil {
		return err
	}
	if val < 0 {
		return s.redis.HSet(ctx, key, string(field), 0).Err()
	}
	return nil
}

// RecordAction 点赞/点踩互斥，后写原子覆盖前写
func (s *StatusStorage) RecordAction(ctx context.Context, id, userID uint64, action types.ActionKind) error {
	key := s.actionsKey(id)
	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.FormatUint(userID, 10), int64(action))
		pipe.Expire(ctx, key, s.config.Cache.ActionExpire())
		return nil
	})
	return err
}

func (s *StatusStorage) RemoveAction(ctx context.Context, id, userID uint64) error {
	return s.redis.HDel(ctx, s.actionsKey(id), strconv.FormatUint(userID, 10)).Err()
}

// RecordView 浏览记录与点赞分开存储，互不覆盖
func (s *StatusStorage) RecordView(ctx context.Context, id, userID uint64) error {
	key := s.viewsKey(id)
	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, strconv.FormatUint(userID, 10))
		pipe.Expire(ctx, key, s.config.Cache.ActionExpire())
		return nil
	})
	return err
}

// AppendReply 新回复进入父动态的回复列表
func (s *StatusStorage) AppendReply(ctx context.Context, parentID uint64, entries ...types.TimelineEntry) error {
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

	key := s.repliesKey(parentID)
	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, members...)
		pipe.Expire(ctx, key, s.config.Cache.StatusExpire())
		return nil
	})
	return err
}

func (s *StatusStorage) RemoveReply(ctx context.Context, parentID, replyID uint64) error {
	return s.redis.ZRem(ctx, s.repliesKey(parentID), strconv.FormatUint(replyID, 10)).Err()
}

// ListReplies 分页读取回复，经 Get 做引用解析
func (s *StatusStorage) ListReplies(ctx context.Context, id, viewerID uint64, page, pageSize int) ([]*types.ResolvedStatus, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	members, err := s.redis.ZRevRangeByScore(ctx, s.repliesKey(id), &redis.ZRangeBy{
		Min:    "-inf",
		Max:    "+inf",
		Offset: int64((page - 1) * pageSize),
		Count:  int64(pageSize),
	}).Result()
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, parseMemberIDs(members), viewerID)
}

// Delete 快照连同计数/操作/回复一并拆除
func (s *StatusStorage) Delete(ctx context.Context, id uint64) error {
	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.snapshotKey(id))
		pipe.Del(ctx, s.countersKey(id))
		pipe.Del(ctx, s.actionsKey(id))
		pipe.Del(ctx, s.viewsKey(id))
		pipe.Del(ctx, s.repliesKey(id))
		return nil
	})
	return err
}

func parseCounter(raw string) int64 {
	v, _ := strconv.ParseInt(raw, 10, 64)
	if v < 0 {
		return 0
	}
	return v
}
