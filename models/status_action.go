package models

import "time"

// StatusAction 用户对动态的点赞/点踩记录，(status_id, user_id) 唯一
type StatusAction struct {
	ID        uint64    `gorm:"column:id;primary_key;auto_increment" json:"id"`
	StatusID  uint64    `gorm:"column:status_id;not null;index:idx_status_user,unique" json:"status_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_status_user,unique" json:"user_id"`
	Action    int8      `gorm:"column:action;not null" json:"action"`
	Status    int8      `gorm:"column:status;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (s StatusAction) TableName() string {
	return "status_action"
}

// StatusView 浏览记录与点赞记录分表，浏览不会覆盖点赞状态
type StatusView struct {
	ID        uint64    `gorm:"column:id;primary_key;auto_increment" json:"id"`
	StatusID  uint64    `gorm:"column:status_id;not null;index:idx_view_status_user,unique" json:"status_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_view_status_user,unique" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (s StatusView) TableName() string {
	return "status_view"
}
