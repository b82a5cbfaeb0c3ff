package models

import "time"

// StatusStats 计数与快照分离存储，高频增减不重写动态本体
type StatusStats struct {
	StatusID     uint64    `gorm:"column:status_id;primary_key" json:"status_id"`
	LikeCount    uint32    `gorm:"column:like_count;not null;default:0" json:"like_count"`
	DislikeCount uint32    `gorm:"column:dislike_count;not null;default:0" json:"dislike_count"`
	ShareCount   uint32    `gorm:"column:share_count;not null;default:0" json:"share_count"`
	CommentCount uint32    `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	ViewCount    uint32    `gorm:"column:view_count;not null;default:0" json:"view_count"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (s StatusStats) TableName() string {
	return "status_stats"
}
