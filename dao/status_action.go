package dao

import (
	"Plume/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type StatusActionDAO struct {
	Repo[models.StatusAction]
}

func NewStatusActionDAO(db *gorm.DB) *StatusActionDAO {
	return &StatusActionDAO{Repo: NewRepo[models.StatusAction](db)}
}

// SetAction 写入点赞/点踩，二者互斥，后写覆盖前写
func (d *StatusActionDAO) SetAction(ctx context.Context, statusID, userID uint64, action int8) error {
	now := time.Now()

	// 优先更新已有记录，避免 OnConflict 未命中导致不更新的情况
	res := d.Db.WithContext(ctx).
		Model(&models.StatusAction{}).
		Where("status_id = ? AND user_id = ?", statusID, userID).
		Updates(map[string]any{
			"action":     action,
			"status":     1,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// 不存在则插入
	record := models.StatusAction{
		StatusID:  statusID,
		UserID:    userID,
		Action:    action,
		Status:    1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return d.Db.WithContext(ctx).Create(&record).Error
}

// RemoveAction 撤销点赞/点踩
func (d *StatusActionDAO) RemoveAction(ctx context.Context, statusID, userID uint64) error {
	return d.Db.WithContext(ctx).
		Model(&models.StatusAction{}).
		Where("status_id = ? AND user_id = ?", statusID, userID).
		Updates(map[string]any{
			"status":     0,
			"updated_at": time.Now(),
		}).Error
}

// GetAction 查询生效中的操作记录，不存在返回 nil
func (d *StatusActionDAO) GetAction(ctx context.Context, statusID, userID uint64) (*models.StatusAction, error) {
	return d.Repo.FindByWhere(ctx, "status_id = ? AND user_id = ? AND status = 1", statusID, userID)
}

// RecordView 浏览记录，重复浏览幂等，返回是否首次浏览
func (d *StatusActionDAO) RecordView(ctx context.Context, statusID, userID uint64) (bool, error) {
	exist, err := NewRepo[models.StatusView](d.Db).IsExist(ctx, "status_id = ? AND user_id = ?", statusID, userID)
	if err != nil {
		return false, err
	}
	if exist {
		return false, nil
	}
	view := models.StatusView{
		StatusID:  statusID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := d.Db.WithContext(ctx).Create(&view).Error; err != nil {
		return false, err
	}
	return true, nil
}
