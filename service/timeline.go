package service

import (
	"Plume/config"
	"Plume/dao/cache"
	"Plume/models"
	"Plume/pkg/log"
	"Plume/pkg/response"
	"Plume/types"
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// 重建时每个来源取的条数与首页索引上限
	rebuildPerSource = 50
	rebuildHomeCap   = 200
)

var _ ITimelineService = (*TimelineService)(nil)

type ITimelineService interface {
	HomeTimeline(ctx context.Context, userID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error)
	UserTimeline(ctx context.Context, userID, viewerID uint64, kind types.TimelineKind, req types.PageRequest) ([]*types.ResolvedStatus, error)
	StoryTimeline(ctx context.Context, userID, viewerID uint64) ([]*types.ResolvedStatus, error)
	ChannelTimeline(ctx context.Context, channelID, viewerID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error)
	CountryTimeline(ctx context.Context, countryCode string, viewerID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error)
	GlobalTimeline(ctx context.Context, viewerID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error)
	TopMedia(ctx context.Context, viewerID uint64, page, pageSize int) ([]*types.ResolvedStatus, error)
	RebuildHome(ctx context.Context, userID uint64) error
}

type TimelineService struct {
	StatusDAO     StatusStore
	StatsDAO      StatsStore
	FollowDAO     FollowStore
	StatusCache   *cache.StatusStorage
	TimelineCache *cache.TimelineStorage
	ChannelCache  *cache.ChannelStorage
	Bus           EventBus
	Config        *config.Config
}

// HomeTimeline 首页聚合时间线。
// 首页索引为空且请求的是第一页时触发重建，并发重建各自幂等收敛，
// 不做 single-flight。
func (s *TimelineService) HomeTimeline(ctx context.Context, userID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error) {
	subject := userSubject(userID)
	ids, err := s.TimelineCache.Page(ctx, subject, types.TimelineHome, req.Cursor, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 && req.Cursor == types.NoCursor && req.Page <= 1 {
		if err := s.RebuildHome(ctx, userID); err != nil {
			return nil, err
		}
		ids, err = s.TimelineCache.Page(ctx, subject, types.TimelineHome, req.Cursor, req.Page, req.PageSize)
		if err != nil {
			return nil, err
		}
	}
	return s.hydrate(ctx, ids, userID)
}

// UserTimeline 用户个人索引，仅开放 all/media/channelMedia/story
func (s *TimelineService) UserTimeline(ctx context.Context, userID, viewerID uint64, kind types.TimelineKind, req types.PageRequest) ([]*types.ResolvedStatus, error) {
	switch kind {
	case types.TimelineAll, types.TimelineMedia, types.TimelineChannelMedia, types.TimelineStory:
	default:
		return nil, response.NewError(40002, "不支持的时间线类型")
	}
	ids, err := s.TimelineCache.Page(ctx, userSubject(userID), kind, req.Cursor, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, ids, viewerID)
}

// StoryTimeline 用户的短时动态，24 小时窗口由索引 TTL 保证
func (s *TimelineService) StoryTimeline(ctx context.Context, userID, viewerID uint64) ([]*types.ResolvedStatus, error) {
	ids, err := s.TimelineCache.Page(ctx, userSubject(userID), types.TimelineStory, types.NoCursor, 1, rebuildPerSource)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, ids, viewerID)
}

func (s *TimelineService) ChannelTimeline(ctx context.Context, channelID, viewerID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error) {
	ids, err := s.ChannelCache.PageMedia(ctx, channelID, req.Cursor, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, ids, viewerID)
}

func (s *TimelineService) CountryTimeline(ctx context.Context, countryCode string, viewerID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error) {
	if countryCode == "" {
		return []*types.ResolvedStatus{}, nil
	}
	ids, err := s.TimelineCache.Page(ctx, countryCode, types.TimelineCountry, req.Cursor, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, ids, viewerID)
}

func (s *TimelineService) GlobalTimeline(ctx context.Context, viewerID uint64, req types.PageRequest) ([]*types.ResolvedStatus, error) {
	ids, err := s.TimelineCache.Page(ctx, types.SubjectGlobal, types.TimelineCountry, req.Cursor, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, ids, viewerID)
}

// TopMedia 全球媒体热门榜，按累计热度而非时间排序
func (s *TimelineService) TopMedia(ctx context.Context, viewerID uint64, page, pageSize int) ([]*types.ResolvedStatus, error) {
	ids, err := s.TimelineCache.PageByRank(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, ids, viewerID)
}

// RebuildHome 从自己与关注者的 all 索引合并重建首页。
// 来源索引也为空时回源持久层播种。重复执行收敛到同一结果。
func (s *TimelineService) RebuildHome(ctx context.Context, userID uint64) error {
	homeRebuildTotal.Inc()

	followees, err := s.FollowDAO.FindFollowingIDs(ctx, userID)
	if err != nil {
		return err
	}
	sources := append([]uint64{userID}, followees...)

	merged := make([]types.TimelineEntry, 0, len(sources)*rebuildPerSource)
	for _, src := range sources {
		entries, err := s.sourceEntries(ctx, src)
		if err != nil {
			log.L.Warn("rebuild source unavailable",
				zap.Uint64("source", src),
				zap.Error(err))
			continue
		}
		merged = append(merged, entries...)
	}
	if len(merged) == 0 {
		publishEvent(ctx, s.Bus, types.HomeRebuildRequested{UserID: userID})
		return nil
	}

	merged = lo.UniqBy(merged, func(e types.TimelineEntry) uint64 { return e.MemberID })
	sort.Slice(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > rebuildHomeCap {
		merged = merged[:rebuildHomeCap]
	}

	if err := s.TimelineCache.Append(ctx, userSubject(userID), types.TimelineHome, merged...); err != nil {
		return err
	}
	publishEvent(ctx, s.Bus, types.HomeRebuildRequested{UserID: userID})
	return nil
}

// sourceEntries 取单个来源可进首页的条目，缓存为空时回源并顺手回填其 all 索引
func (s *TimelineService) sourceEntries(ctx context.Context, authorID uint64) ([]types.TimelineEntry, error) {
	entries, err := s.TimelineCache.TopWithScores(ctx, userSubject(authorID), types.TimelineAll, rebuildPerSource)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	since := time.Now().Add(-s.Config.Cache.StatusExpire())
	rows, err := s.StatusDAO.FindAuthorStatusesSince(ctx, authorID, since, rebuildPerSource)
	if err != nil {
		return nil, err
	}
	eligible := lo.Filter(rows, func(row *models.Status, _ int) bool {
		return fanoutRules[types.StatusKind(row.Kind)].home
	})
	if len(eligible) == 0 {
		return nil, nil
	}
	cacheMissTotal.WithLabelValues("rebuild").Add(float64(len(eligible)))

	items := lo.Map(eligible, func(row *models.Status, _ int) cache.PutItem {
		return cache.PutItem{Status: row}
	})
	if err := s.StatusCache.Put(ctx, items, s.Config.Cache.StatusExpire()); err != nil {
		return nil, err
	}

	entries = lo.Map(eligible, func(row *models.Status, _ int) types.TimelineEntry {
		return types.TimelineEntry{Score: row.CreatedAt.UnixNano(), MemberID: row.ID}
	})
	if err := s.TimelineCache.Append(ctx, userSubject(authorID), types.TimelineAll, entries...); err != nil {
		return nil, err
	}
	return entries, nil
}

// hydrate 批量渲染索引页。缺失快照回源补一次，
// 不可见与墓碑条目静默跳过，保持索引顺序。
func (s *TimelineService) hydrate(ctx context.Context, ids []uint64, viewerID uint64) ([]*types.ResolvedStatus, error) {
	if len(ids) == 0 {
		return []*types.ResolvedStatus{}, nil
	}

	views, err := s.StatusCache.Get(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}
	if len(views) < len(ids) {
		found := lo.SliceToMap(views, func(v *types.ResolvedStatus) (uint64, struct{}) {
			return v.ID, struct{}{}
		})
		missing := lo.Filter(ids, func(id uint64, _ int) bool {
			_, ok := found[id]
			return !ok
		})
		if err := s.backfill(ctx, missing); err != nil {
			return nil, err
		}
		views, err = s.StatusCache.Get(ctx, ids, viewerID)
		if err != nil {
			return nil, err
		}
	}

	checker := newContactChecker(s.FollowDAO, viewerID)
	visible := make([]*types.ResolvedStatus, 0, len(views))
	for _, view := range views {
		if checker.visible(ctx, view) {
			visible = append(visible, view)
		}
	}
	return visible, nil
}

// backfill 缺失快照回源持久层，已删除的不再回填
func (s *TimelineService) backfill(ctx context.Context, ids []uint64) error {
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
	cacheMissTotal.WithLabelValues("timeline").Add(float64(len(rows)))

	items := make([]cache.PutItem, 0, len(rows))
	for _, row := range rows {
		stats, err := s.StatsDAO.GetByStatusID(ctx, row.ID)
		if err != nil {
			return err
		}
		items = append(items, cache.PutItem{Status: row, Stats: stats})
	}
	return s.StatusCache.Put(ctx, items, s.Config.Cache.StatusExpire())
}
