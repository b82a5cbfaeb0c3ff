package dao

import (
	"Plume/models"
	"context"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

// FindNicknames 批量查询昵称，已注销用户不返回
func (u *Users) FindNicknames(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	result := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []*models.Users
	err := u.Db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, models.UserStatusActive).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		result[user.ID] = user.Nickname
	}
	return result, nil
}

// IsActive 用户是否存在且未注销
func (u *Users) IsActive(ctx context.Context, userID uint64) (bool, error) {
	return u.Repo.IsExist(ctx, "id = ? AND status = ?", userID, models.UserStatusActive)
}
