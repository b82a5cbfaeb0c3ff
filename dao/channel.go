package dao

import (
	"Plume/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type ChannelDAO struct {
	Repo[models.Channel]
}

func NewChannelDAO(db *gorm.DB) *ChannelDAO {
	return &ChannelDAO{Repo: NewRepo[models.Channel](db)}
}

func (d *ChannelDAO) FindByID(ctx context.Context, channelID uint64) (*models.Channel, error) {
	return d.Repo.FindById(ctx, channelID)
}

// SetFollow 设置频道关注状态（如不存在则创建）
func (d *ChannelDAO) SetFollow(ctx context.Context, channelID, userID uint64, status int) error {
	res := d.Db.WithContext(ctx).
		Model(&models.ChannelFollow{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	follow := models.ChannelFollow{
		ChannelID: channelID,
		UserID:    userID,
		Status:    status,
	}
	return d.Db.WithContext(ctx).Create(&follow).Error
}

// UpsertRequest 写入/更新关注申请
func (d *ChannelDAO) UpsertRequest(ctx context.Context, channelID, userID uint64, status int) error {
	now := time.Now()
	res := d.Db.WithContext(ctx).
		Model(&models.ChannelFollowRequest{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	req := models.ChannelFollowRequest{
		ChannelID: channelID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return d.Db.WithContext(ctx).Create(&req).Error
}

func (d *ChannelDAO) FindRequest(ctx context.Context, channelID, userID uint64) (*models.ChannelFollowRequest, error) {
	return NewRepo[models.ChannelFollowRequest](d.Db).
		FindByWhere(ctx, "channel_id = ? AND user_id = ?", channelID, userID)
}
