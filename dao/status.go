package dao

import (
	"Plume/models"
	"Plume/types"
	"context"
	"time"

	"gorm.io/gorm"
)

type StatusDAO struct {
	Repo[models.Status]
}

func NewStatusDAO(db *gorm.DB) *StatusDAO {
	return &StatusDAO{Repo: NewRepo[models.Status](db)}
}

// Create 创建动态
func (d *StatusDAO) Create(ctx context.Context, status *models.Status) error {
	return d.Db.WithContext(ctx).Create(status).Error
}

// FindActive 查询未删除的动态，墓碑一律视为不存在
func (d *StatusDAO) FindActive(ctx context.Context, statusID uint64) (*models.Status, error) {
	return d.Repo.FindByWhere(ctx, "id = ? AND deleted = 0", statusID)
}

// FindByIDs 根据 ID 列表批量查询，已删除的不返回
func (d *StatusDAO) FindByIDs(ctx context.Context, ids []uint64) ([]*models.Status, error) {
	if len(ids) == 0 {
		return []*models.Status{}, nil
	}
	var statuses []*models.Status
	err := d.Db.WithContext(ctx).
		Where("id IN ? AND deleted = 0", ids).
		Find(&statuses).Error
	return statuses, err
}

// FindAuthorStatusesSince 重建时拉取作者最近的动态(按时间倒序)
func (d *StatusDAO) FindAuthorStatusesSince(ctx context.Context, authorID uint64, since time.Time, limit int) ([]*models.Status, error) {
	var statuses []*models.Status
	err := d.Db.WithContext(ctx).
		Where("user_id = ? AND deleted = 0 AND is_reply = 0 AND created_at > ?", authorID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&statuses).Error
	return statuses, err
}

// FindReplyEntries 查询动态的回复索引项(按时间倒序)，分值取创建时间
func (d *StatusDAO) FindReplyEntries(ctx context.Context, parentID uint64) ([]types.TimelineEntry, error) {
	var replies []*models.Status
	err := d.Db.WithContext(ctx).
		Select("id", "created_at").
		Where("parent_id = ? AND deleted = 0", parentID).
		Order("created_at DESC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	entries := make([]types.TimelineEntry, 0, len(replies))
	for _, r := range replies {
		entries = append(entries, types.TimelineEntry{
			Score:    r.CreatedAt.UnixNano(),
			MemberID: r.ID,
		})
	}
	return entries, nil
}

// MarkDeleted 打墓碑，不做物理删除
func (d *StatusDAO) MarkDeleted(ctx context.Context, statusID uint64) error {
	return d.Db.WithContext(ctx).
		Model(&models.Status{}).
		Where("id = ?", statusID).
		Updates(map[string]any{
			"deleted":    1,
			"updated_at": time.Now(),
		}).Error
}
