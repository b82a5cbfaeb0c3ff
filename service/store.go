package service

import (
	"Plume/models"
	"Plume/types"
	"context"
	"time"
)

// 持久层查询边界。持久存储是事实源，本子系统只在
// 缓存未命中/重建时回源，全部经由这些接口消费。

type StatusStore interface {
	Create(ctx context.Context, status *models.Status) error
	FindActive(ctx context.Context, statusID uint64) (*models.Status, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*models.Status, error)
	FindAuthorStatusesSince(ctx context.Context, authorID uint64, since time.Time, limit int) ([]*models.Status, error)
	FindReplyEntries(ctx context.Context, parentID uint64) ([]types.TimelineEntry, error)
	MarkDeleted(ctx context.Context, statusID uint64) error
}

type StatsStore interface {
	Incr(ctx context.Context, statusID uint64, field types.CounterField, delta int64) error
	GetByStatusID(ctx context.Context, statusID uint64) (*models.StatusStats, error)
}

type ActionStore interface {
	SetAction(ctx context.Context, statusID, userID uint64, action int8) error
	RemoveAction(ctx context.Context, statusID, userID uint64) error
	GetAction(ctx context.Context, statusID, userID uint64) (*models.StatusAction, error)
	RecordView(ctx context.Context, statusID, userID uint64) (bool, error)
}

type FollowStore interface {
	FindFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error)
	FindFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error)
	IsContact(ctx context.Context, userID, otherID uint64) (bool, error)
}

type UserStore interface {
	IsActive(ctx context.Context, userID uint64) (bool, error)
	FindNicknames(ctx context.Context, ids []uint64) (map[uint64]string, error)
}

type ChannelStore interface {
	FindByID(ctx context.Context, channelID uint64) (*models.Channel, error)
	SetFollow(ctx context.Context, channelID, userID uint64, status int) error
	UpsertRequest(ctx context.Context, channelID, userID uint64, status int) error
	FindRequest(ctx context.Context, channelID, userID uint64) (*models.ChannelFollowRequest, error)
}

type CountryStore interface {
	FindAll(ctx context.Context) ([]*models.CountryStat, error)
}
