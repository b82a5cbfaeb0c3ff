package dao

import (
	"Plume/models"
	"Plume/types"
	"context"

	"gorm.io/gorm"
)

type StatusStatsDAO struct {
	Repo[models.StatusStats]
}

func NewStatusStatsDAO(db *gorm.DB) *StatusStatsDAO {
	return &StatusStatsDAO{Repo: NewRepo[models.StatusStats](db)}
}

// 计数器字段 -> 落库列名
var counterColumns = map[types.CounterField]string{
	types.CounterLikes:    "like_count",
	types.CounterDislikes: "dislike_count",
	types.CounterShares:   "share_count",
	types.CounterComments: "comment_count",
	types.CounterViews:    "view_count",
}

// Incr 计数增减，使用原生 SQL 做 UPSERT 并限制不为负
func (d *StatusStatsDAO) Incr(ctx context.Context, statusID uint64, field types.CounterField, delta int64) error {
	column, ok := counterColumns[field]
	if !ok {
		return nil
	}
	return d.Db.WithContext(ctx).Exec(
		"INSERT INTO status_stats (status_id, "+column+", updated_at) VALUES (?, GREATEST(?, 0), NOW()) "+
			"ON DUPLICATE KEY UPDATE "+column+" = GREATEST("+column+" + ?, 0), updated_at = NOW()",
		statusID, delta, delta,
	).Error
}

func (d *StatusStatsDAO) GetByStatusID(ctx context.Context, statusID uint64) (*models.StatusStats, error) {
	var item models.StatusStats
	err := d.Db.WithContext(ctx).Where("status_id = ?", statusID).Limit(1).Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.StatusID == 0 {
		return &models.StatusStats{StatusID: statusID}, nil
	}
	return &item, nil
}
