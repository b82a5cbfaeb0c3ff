package models

import "time"

type Channel struct {
	ID        uint64    `gorm:"column:id;primary_key" json:"id"`
	OwnerID   uint64    `gorm:"column:owner_id;not null;index:idx_owner" json:"owner_id"`
	Name      string    `gorm:"column:name;type:varchar(64);not null;uniqueIndex" json:"name"`
	IsPublic  bool      `gorm:"column:is_public;not null;default:1" json:"is_public"`
	IsSystem  bool      `gorm:"column:is_system;not null;default:0" json:"is_system"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (c Channel) TableName() string {
	return "channels"
}

// 关注申请状态
const (
	ChannelRequestPending   = 0
	ChannelRequestAccepted  = 1
	ChannelRequestCancelled = 2
)

type ChannelFollow struct {
	ID        uint64    `gorm:"column:id;primary_key;auto_increment" json:"id"`
	ChannelID uint64    `gorm:"column:channel_id;not null;index:idx_channel_user,unique" json:"channel_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_channel_user,unique" json:"user_id"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (c ChannelFollow) TableName() string {
	return "channel_follow"
}

type ChannelFollowRequest struct {
	ID        uint64    `gorm:"column:id;primary_key;auto_increment" json:"id"`
	ChannelID uint64    `gorm:"column:channel_id;not null;index:idx_req_channel_user,unique" json:"channel_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_req_channel_user,unique" json:"user_id"`
	Status    int       `gorm:"column:status;not null;default:0" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (c ChannelFollowRequest) TableName() string {
	return "channel_follow_request"
}
