package dao

import (
	"Plume/models"
	"context"

	"gorm.io/gorm"
)

type UserFollowDAO struct {
	Repo[models.UserFollow]
}

func NewUserFollowDAO(db *gorm.DB) *UserFollowDAO {
	return &UserFollowDAO{
		Repo: NewRepo[models.UserFollow](db),
	}
}

// FindFollowerIDs 粉丝 ID 列表，写扇出时同步枚举
func (d *UserFollowDAO) FindFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := d.Db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("followee_id = ? AND status = 1", userID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// FindFollowingIDs 关注的用户 ID 列表，首页重建时使用
func (d *UserFollowDAO) FindFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := d.Db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ? AND status = 1", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// IsContact 互相关注即为好友
func (d *UserFollowDAO) IsContact(ctx context.Context, userID, otherID uint64) (bool, error) {
	var count int64
	err := d.Db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where(
			"((follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)) AND status = 1",
			userID, otherID, otherID, userID,
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 2, nil
}

// SetStatus 设置关注状态（如不存在则创建）
func (d *UserFollowDAO) SetStatus(ctx context.Context, followerID, followeeID uint64, status int) error {
	res := d.Db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	follow := models.UserFollow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		Status:     status,
	}
	return d.Db.WithContext(ctx).Create(&follow).Error
}
