package service

import (
	"Plume/config"
	"Plume/dao"
	"Plume/dao/cache"
	"Plume/models"
	"Plume/types"
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memStats 持久层计数的内存替身。
// 线上实现依赖 MySQL 的 ON DUPLICATE KEY 语法，sqlite 跑不了。
type memStats struct {
	mu    sync.Mutex
	stats map[uint64]*models.StatusStats
}

func newMemStats() *memStats {
	return &memStats{stats: make(map[uint64]*models.StatusStats)}
}

func (s *memStats) Incr(_ context.Context, statusID uint64, field types.CounterField, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.stats[statusID]
	if !ok {
		row = &models.StatusStats{StatusID: statusID}
		s.stats[statusID] = row
	}
	bump := func(v uint32) uint32 {
		next := int64(v) + delta
		if next < 0 {
			return 0
		}
		return uint32(next)
	}
	switch field {
	case types.CounterLikes:
		row.LikeCount = bump(row.LikeCount)
	case types.CounterDislikes:
		row.DislikeCount = bump(row.DislikeCount)
	case types.CounterShares:
		row.ShareCount = bump(row.ShareCount)
	case types.CounterComments:
		row.CommentCount = bump(row.CommentCount)
	case types.CounterViews:
		row.ViewCount = bump(row.ViewCount)
	}
	return nil
}

func (s *memStats) GetByStatusID(_ context.Context, statusID uint64) (*models.StatusStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.stats[statusID]; ok {
		clone := *row
		return &clone, nil
	}
	return &models.StatusStats{StatusID: statusID}, nil
}

type fixture struct {
	db       *gorm.DB
	redis    *miniredis.Miniredis
	conf     *config.Config
	stats    *memStats
	bus      *MemoryEventBus
	statuses *StatusService
	timeline *TimelineService
	actions  *ActionService
	channels *ChannelService

	statusDAO  *dao.StatusDAO
	followDAO  *dao.UserFollowDAO
	channelDAO *dao.ChannelDAO

	timelineCache *cache.TimelineStorage
	statusCache   *cache.StatusStorage
	channelCache  *cache.ChannelStorage
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Users{},
		&models.Status{},
		&models.StatusAction{},
		&models.StatusView{},
		&models.UserFollow{},
		&models.Channel{},
		&models.ChannelFollow{},
		&models.ChannelFollowRequest{},
		&models.CountryStat{},
	))

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	conf := &config.Config{Cache: &config.Cache{
		StatusTTL:  3600,
		StoryTTL:   60,
		CounterTTL: 3600,
		ActionTTL:  3600,
	}}

	users := dao.NewUsers(db)
	statusDAO := dao.NewStatusDAO(db)
	actionDAO := dao.NewStatusActionDAO(db)
	followDAO := dao.NewUserFollowDAO(db)
	channelDAO := dao.NewChannelDAO(db)
	stats := newMemStats()

	statusCache := cache.NewStatusStorage(rds, conf, users, channelDAO)
	timelineCache := cache.NewTimelineStorage(rds, conf)
	channelCache := cache.NewChannelStorage(rds, conf)
	bus := NewMemoryEventBus()

	f := &fixture{
		db:            db,
		redis:         mr,
		conf:          conf,
		stats:         stats,
		bus:           bus,
		statusDAO:     statusDAO,
		followDAO:     followDAO,
		channelDAO:    channelDAO,
		timelineCache: timelineCache,
		statusCache:   statusCache,
		channelCache:  channelCache,
	}
	f.statuses = &StatusService{
		StatusDAO:     statusDAO,
		StatsDAO:      stats,
		FollowDAO:     followDAO,
		UserDAO:       users,
		ChannelDAO:    channelDAO,
		StatusCache:   statusCache,
		TimelineCache: timelineCache,
		ChannelCache:  channelCache,
		Bus:           bus,
		Config:        conf,
	}
	f.timeline = &TimelineService{
		StatusDAO:     statusDAO,
		StatsDAO:      stats,
		FollowDAO:     followDAO,
		StatusCache:   statusCache,
		TimelineCache: timelineCache,
		ChannelCache:  channelCache,
		Bus:           bus,
		Config:        conf,
	}
	f.actions = &ActionService{
		StatusDAO:     statusDAO,
		StatsDAO:      stats,
		ActionDAO:     actionDAO,
		StatusCache:   statusCache,
		TimelineCache: timelineCache,
		Bus:           bus,
	}
	f.channels = &ChannelService{
		ChannelDAO:   channelDAO,
		UserDAO:      users,
		ChannelCache: channelCache,
	}
	return f
}

func (f *fixture) seedUser(t *testing.T, id uint64, nickname string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Users{
		ID:       id,
		Nickname: nickname,
		Status:   models.UserStatusActive,
	}).Error)
}

func (f *fixture) follow(t *testing.T, followerID, followeeID uint64) {
	t.Helper()
	require.NoError(t, f.followDAO.SetStatus(context.Background(), followerID, followeeID, 1))
}

func (f *fixture) seedChannel(t *testing.T, id, ownerID uint64, name string, public bool) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Channel{
		ID:       id,
		OwnerID:  ownerID,
		Name:     name,
		IsPublic: public,
	}).Error)
}

func (f *fixture) create(t *testing.T, req *types.CreateStatusRequest) uint64 {
	t.Helper()
	id, err := f.statuses.CreateStatus(context.Background(), req)
	require.NoError(t, err)
	return id
}
