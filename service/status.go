package service

import (
	"Plume/config"
	"Plume/dao/cache"
	"Plume/models"
	"Plume/pkg/log"
	"Plume/pkg/response"
	"Plume/pkg/snowflake"
	"Plume/types"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	// 单条动态最多携带的媒体数
	maxMediaPerStatus = 5
	// 首页推送并发度与分片大小
	homePushWorkers = 8
	homePushBatch   = 500
)

var _ IStatusService = (*StatusService)(nil)

type IStatusService interface {
	CreateStatus(ctx context.Context, req *types.CreateStatusRequest) (uint64, error)
	DeleteStatus(ctx context.Context, statusID, operatorID uint64) error
	GetStatus(ctx context.Context, statusID, viewerID uint64) (*types.ResolvedStatus, error)
	ListReplies(ctx context.Context, statusID, viewerID uint64, page, pageSize int) ([]*types.ResolvedStatus, error)
	FanoutExisting(ctx context.Context, statusID uint64) error
}

type StatusService struct {
	StatusDAO     StatusStore
	StatsDAO      StatsStore
	FollowDAO     FollowStore
	UserDAO       UserStore
	ChannelDAO    ChannelStore
	StatusCache   *cache.StatusStorage
	TimelineCache *cache.TimelineStorage
	ChannelCache  *cache.ChannelStorage
	Bus           EventBus
	Config        *config.Config
}

// fanoutRule 每种动态类型写入哪些索引。
// 回复在查表前单独短路，永远不进任何时间线。
type fanoutRule struct {
	timeline types.TimelineKind // 作者个人索引，0 表示不进
	home     bool               // 推送粉丝首页
	channel  bool               // 进频道媒体索引
	global   bool               // 国家/全球候选，还需通过 eligibleGlobal
}

var fanoutRules = map[types.StatusKind]fanoutRule{
	types.StatusKindNormal:       {timeline: types.TimelineAll, home: true},
	types.StatusKindMedia:        {timeline: types.TimelineMedia, global: true},
	types.StatusKindStory:        {timeline: types.TimelineStory},
	types.StatusKindChannelMedia: {channel: true},
	types.StatusKindRate:         {timeline: types.TimelineAll, home: true},
	types.StatusKindHelp:         {}, // 求助只在问答入口展示
	types.StatusKindCompetition:  {timeline: types.TimelineAll, home: true},
}

// CreateStatus 创建动态并完成写扩散。
// 持久化成功即视为创建成功，缓存与索引写入失败不回滚。
func (s *StatusService) CreateStatus(ctx context.Context, req *types.CreateStatusRequest) (uint64, error) {
	if req == nil || req.AuthorID == 0 {
		return 0, response.ErrUserNotFound
	}
	active, err := s.UserDAO.IsActive(ctx, req.AuthorID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, response.ErrUserNotFound
	}

	kind := req.Kind
	if kind == 0 {
		kind = types.StatusKindNormal
	}
	if _, ok := fanoutRules[kind]; !ok {
		return 0, response.NewError(40001, "未知的动态类型")
	}
	privacy := req.Privacy
	if privacy == 0 {
		privacy = types.PrivacyPublic
	}

	var parent, original *models.Status
	if req.IsReply {
		if parent, err = s.StatusDAO.FindActive(ctx, req.ParentID); err != nil {
			return 0, err
		}
		if parent == nil {
			return 0, response.ErrStatusNotFound
		}
	}
	if req.IsShare {
		if original, err = s.StatusDAO.FindActive(ctx, req.OriginalID); err != nil {
			return 0, err
		}
		if original == nil {
			return 0, response.ErrStatusNotFound
		}
	}
	if kind == types.StatusKindChannelMedia {
		ch, err := s.ChannelDAO.FindByID(ctx, req.ChannelID)
		if err != nil {
			return 0, err
		}
		if ch == nil {
			return 0, response.ErrChannelNotFound
		}
	}

	media := req.MediaData
	if len(media) > maxMediaPerStatus {
		media = media[:maxMediaPerStatus]
	}

	now := time.Now()
	status := &models.Status{
		ID:          uint64(snowflake.GenStatusID()),
		UserID:      req.AuthorID,
		Content:     req.Content,
		Kind:        int8(kind),
		IsReply:     req.IsReply,
		IsShare:     req.IsShare,
		IsLive:      req.IsLive,
		Privacy:     int8(privacy),
		MediaData:   marshalJSONColumn(media),
		ParentID:    req.ParentID,
		OriginalID:  req.OriginalID,
		MentionIDs:  marshalJSONColumn(req.MentionIDs),
		ChannelID:   req.ChannelID,
		CountryCode: req.CountryCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.StatusDAO.Create(ctx, status); err != nil {
		return 0, err
	}

	if err := s.StatusCache.Put(ctx, []cache.PutItem{{Status: status}}, s.snapshotTTL(kind)); err != nil {
		log.L.Error("cache status snapshot failed",
			zap.Uint64("status_id", status.ID),
			zap.Error(err))
	}

	s.fanout(ctx, status)
	s.coupleRelated(ctx, status, 1)

	publishEvent(ctx, s.Bus, types.StatusCreated{
		StatusID:  status.ID,
		AuthorID:  status.UserID,
		CreatedAt: now.UnixNano(),
	})
	return status.ID, nil
}

// DeleteStatus 打墓碑并做反向扇出
func (s *StatusService) DeleteStatus(ctx context.Context, statusID, operatorID uint64) error {
	status, err := s.StatusDAO.FindActive(ctx, statusID)
	if err != nil {
		return err
	}
	if status == nil {
		return response.ErrStatusNotFound
	}
	if status.UserID != operatorID {
		return response.ErrPrivacyForbidden
	}

	if err := s.StatusDAO.MarkDeleted(ctx, statusID); err != nil {
		return err
	}

	s.retract(ctx, status)
	s.coupleRelated(ctx, status, -1)

	if err := s.StatusCache.Delete(ctx, statusID); err != nil {
		log.L.Error("drop status cache failed",
			zap.Uint64("status_id", statusID),
			zap.Error(err))
	}

	publishEvent(ctx, s.Bus, types.StatusDeleted{
		StatusID: statusID,
		AuthorID: status.UserID,
	})
	return nil
}

// GetStatus 单条读取，缓存未命中回源并回填
func (s *StatusService) GetStatus(ctx context.Context, statusID, viewerID uint64) (*types.ResolvedStatus, error) {
	views, err := s.StatusCache.Get(ctx, []uint64{statusID}, viewerID)
	if err != nil {
		return nil, err
	}

	var view *types.ResolvedStatus
	if len(views) > 0 {
		view = views[0]
	} else {
		view, err = s.loadAndCache(ctx, statusID, viewerID)
		if err != nil {
			return nil, err
		}
	}

	if view.AuthorID != viewerID && view.Privacy == types.PrivacyContacts {
		mutual, err := s.FollowDAO.IsContact(ctx, viewerID, view.AuthorID)
		if err != nil {
			return nil, err
		}
		if !IsVisible(view, viewerID, mutual) {
			return nil, response.ErrPrivacyForbidden
		}
	} else if !IsVisible(view, viewerID, false) {
		return nil, response.ErrPrivacyForbidden
	}
	return view, nil
}

// ListReplies 回复列表，倒序分页。
// 回复索引为空时从持久层播种一次再读。
func (s *StatusService) ListReplies(ctx context.Context, statusID, viewerID uint64, page, pageSize int) ([]*types.ResolvedStatus, error) {
	replies, err := s.StatusCache.ListReplies(ctx, statusID, viewerID, page, pageSize)
	if err != nil {
		return nil, err
	}
	if len(replies) > 0 || page > 1 {
		return replies, nil
	}

	// 首页为空可能是索引过期，播种后再试一次
	entries, err := s.StatusDAO.FindReplyEntries(ctx, statusID)
	if err != nil || len(entries) == 0 {
		return replies, err
	}
	cacheMissTotal.WithLabelValues("replies").Add(float64(len(entries)))

	ids := lo.Map(entries, func(e types.TimelineEntry, _ int) uint64 { return e.MemberID })
	if err := s.warmSnapshots(ctx, ids); err != nil {
		return nil, err
	}
	if err := s.StatusCache.AppendReply(ctx, statusID, entries...); err != nil {
		return nil, err
	}
	return s.StatusCache.ListReplies(ctx, statusID, viewerID, page, pageSize)
}

// FanoutExisting 对已持久化的动态补做扇出，消费上游事件时使用
func (s *StatusService) FanoutExisting(ctx context.Context, statusID uint64) error {
	status, err := s.StatusDAO.FindActive(ctx, statusID)
	if err != nil {
		return err
	}
	if status == nil {
		// 消费到事件前已被删除，按成功处理
		return nil
	}
	stats, err := s.StatsDAO.GetByStatusID(ctx, statusID)
	if err != nil {
		return err
	}
	item := cache.PutItem{Status: status, Stats: stats}
	if err := s.StatusCache.Put(ctx, []cache.PutItem{item}, s.snapshotTTL(types.StatusKind(status.Kind))); err != nil {
		return err
	}
	s.fanout(ctx, status)
	return nil
}

// fanout 按类型查表写扩散
func (s *StatusService) fanout(ctx context.Context, status *models.Status) {
	entry := types.TimelineEntry{
		Score:    status.CreatedAt.UnixNano(),
		MemberID: status.ID,
	}

	// 回复只挂在父动态的回复列表下
	if status.IsReply {
		if err := s.StatusCache.AppendReply(ctx, status.ParentID, entry); err != nil {
			log.L.Error("append reply index failed",
				zap.Uint64("parent_id", status.ParentID),
				zap.Uint64("status_id", status.ID),
				zap.Error(err))
		}
		return
	}

	rule := fanoutRules[types.StatusKind(status.Kind)]
	subject := userSubject(status.UserID)

	if rule.timeline != 0 {
		if err := s.TimelineCache.Append(ctx, subject, rule.timeline, entry); err != nil {
			log.L.Error("append author timeline failed",
				zap.String("subject", subject),
				zap.Error(err))
		} else {
			publishEvent(ctx, s.Bus, types.TimelineUpdated{
				Subject:  subject,
				Kind:     rule.timeline,
				StatusID: status.ID,
				Score:    entry.Score,
			})
		}
	}

	if rule.home {
		s.pushHome(ctx, status, entry)
	}

	if rule.channel && status.ChannelID > 0 {
		if err := s.ChannelCache.AppendMedia(ctx, status.ChannelID, entry); err != nil {
			log.L.Error("append channel media failed",
				zap.Uint64("channel_id", status.ChannelID),
				zap.Error(err))
		}
	}

	if rule.global && s.eligibleGlobal(status) {
		if status.CountryCode != "" {
			if err := s.TimelineCache.Append(ctx, status.CountryCode, types.TimelineCountry, entry); err != nil {
				log.L.Error("append country timeline failed",
					zap.String("country", status.CountryCode),
					zap.Error(err))
			}
		}
		if err := s.TimelineCache.Append(ctx, types.SubjectGlobal, types.TimelineCountry, entry); err != nil {
			log.L.Error("append global timeline failed", zap.Error(err))
		}
		if err := s.TimelineCache.AddRanked(ctx, status.ID, 0); err != nil {
			log.L.Error("seed top media rank failed", zap.Error(err))
		}
	}
}

// retract 删除时从所有可能写入过的索引中摘除
func (s *StatusService) retract(ctx context.Context, status *models.Status) {
	if status.IsReply {
		if err := s.StatusCache.RemoveReply(ctx, status.ParentID, status.ID); err != nil {
			log.L.Error("remove reply index failed",
				zap.Uint64("parent_id", status.ParentID),
				zap.Error(err))
		}
		return
	}

	rule := fanoutRules[types.StatusKind(status.Kind)]
	subject := userSubject(status.UserID)

	if rule.timeline != 0 {
		if err := s.TimelineCache.Remove(ctx, subject, rule.timeline, status.ID); err != nil {
			log.L.Error("remove author timeline entry failed", zap.Error(err))
		} else {
			publishEvent(ctx, s.Bus, types.TimelineRemoved{
				Subject:  subject,
				Kind:     rule.timeline,
				StatusID: status.ID,
			})
		}
	}
	if rule.home {
		// 粉丝首页不反向推删除，墓碑会让条目在渲染时消失
		if err := s.TimelineCache.Remove(ctx, subject, types.TimelineHome, status.ID); err != nil {
			log.L.Error("remove own home entry failed", zap.Error(err))
		}
	}
	if rule.channel && status.ChannelID > 0 {
		if err := s.ChannelCache.RemoveMedia(ctx, status.ChannelID, status.ID); err != nil {
			log.L.Error("remove channel media failed", zap.Error(err))
		}
	}
	if rule.global {
		if status.CountryCode != "" {
			_ = s.TimelineCache.Remove(ctx, status.CountryCode, types.TimelineCountry, status.ID)
		}
		_ = s.TimelineCache.Remove(ctx, types.SubjectGlobal, types.TimelineCountry, status.ID)
		_ = s.TimelineCache.RemoveRanked(ctx, status.ID)
	}
}

// coupleRelated 回复/转发与父动态计数的联动，delta 取 ±1
func (s *StatusService) coupleRelated(ctx context.Context, status *models.Status, delta int64) {
	if status.IsReply && status.ParentID > 0 {
		s.bumpCounter(ctx, status.ParentID, types.CounterComments, delta)
	}
	if status.IsShare && status.OriginalID > 0 {
		s.bumpCounter(ctx, status.OriginalID, types.CounterShares, delta)
	}
}

// bumpCounter 双写计数，缓存在前持久层在后，两边都钳制到 0
func (s *StatusService) bumpCounter(ctx context.Context, statusID uint64, field types.CounterField, delta int64) {
	if err := s.StatusCache.MutateCounter(ctx, statusID, field, delta); err != nil {
		log.L.Error("mutate cached counter failed",
			zap.Uint64("status_id", statusID),
			zap.String("field", string(field)),
			zap.Error(err))
	}
	if err := s.StatsDAO.Incr(ctx, statusID, field, delta); err != nil {
		log.L.Error("incr durable counter failed",
			zap.Uint64("status_id", statusID),
			zap.String("field", string(field)),
			zap.Error(err))
	}
}

// pushHome 并发把条目推进粉丝首页索引，失败的分片记日志后放过
func (s *StatusService) pushHome(ctx context.Context, status *models.Status, entry types.TimelineEntry) {
	followers, err := s.FollowDAO.FindFollowerIDs(ctx, status.UserID)
	if err != nil {
		log.L.Error("load followers for fanout failed",
			zap.Uint64("author_id", status.UserID),
			zap.Error(err))
		return
	}
	if len(followers) == 0 {
		return
	}

	p := pool.New().WithMaxGoroutines(homePushWorkers).WithErrors()
	for _, chunk := range lo.Chunk(followers, homePushBatch) {
		chunk := chunk
		p.Go(func() error {
			for _, uid := range chunk {
				if err := s.TimelineCache.Append(ctx, userSubject(uid), types.TimelineHome, entry); err != nil {
					return err
				}
				fanoutPushTotal.Inc()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		log.L.Warn("home fanout partially failed",
			zap.Uint64("status_id", status.ID),
			zap.Int("followers", len(followers)),
			zap.Error(err))
	}
}

// loadAndCache 缓存未命中时回源持久层并回填快照
func (s *StatusService) loadAndCache(ctx context.Context, statusID, viewerID uint64) (*types.ResolvedStatus, error) {
	status, err := s.StatusDAO.FindActive(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, response.ErrStatusNotFound
	}
	cacheMissTotal.WithLabelValues("status").Inc()

	stats, err := s.StatsDAO.GetByStatusID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	entries, err := s.StatusDAO.FindReplyEntries(ctx, statusID)
	if err != nil {
		return nil, err
	}
	item := cache.PutItem{Status: status, Stats: stats, ReplyIDs: entries}
	if err := s.StatusCache.Put(ctx, []cache.PutItem{item}, s.snapshotTTL(types.StatusKind(status.Kind))); err != nil {
		return nil, err
	}

	views, err := s.StatusCache.Get(ctx, []uint64{statusID}, viewerID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, response.ErrStatusNotFound
	}
	return views[0], nil
}

// warmSnapshots 批量确认快照在缓存中，缺的从持久层补
func (s *StatusService) warmSnapshots(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.StatusDAO.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	items := lo.Map(rows, func(row *models.Status, _ int) cache.PutItem {
		return cache.PutItem{Status: row}
	})
	return s.StatusCache.Put(ctx, items, s.Config.Cache.StatusExpire())
}

func (s *StatusService) snapshotTTL(kind types.StatusKind) time.Duration {
	if kind == types.StatusKindStory {
		return s.Config.Cache.StoryExpire()
	}
	return s.Config.Cache.StatusExpire()
}

func (s *StatusService) eligibleGlobal(status *models.Status) bool {
	return types.Privacy(status.Privacy) == types.PrivacyPublic &&
		!status.IsReply && !status.IsShare
}

// userSubject 用户索引 subject，键形如 timeline:user123:home
func userSubject(userID uint64) string {
	return "user" + strconv.FormatUint(userID, 10)
}

func marshalJSONColumn(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
