package models

import (
	"time"

	"gorm.io/datatypes"
)

type Status struct {
	ID          uint64         `gorm:"column:id;primary_key" json:"id"`
	UserID      uint64         `gorm:"column:user_id;not null;index:idx_userid_kind" json:"user_id"`
	Content     string         `gorm:"column:content;type:text" json:"content"`
	Kind        int8           `gorm:"column:kind;not null;default:1;index:idx_userid_kind" json:"kind"`
	IsReply     bool           `gorm:"column:is_reply;not null;default:0" json:"is_reply"`
	IsShare     bool           `gorm:"column:is_share;not null;default:0" json:"is_share"`
	IsLive      bool           `gorm:"column:is_live;not null;default:0" json:"is_live"`
	Privacy     int8           `gorm:"column:privacy;not null;default:1" json:"privacy"`
	MediaData   datatypes.JSON `gorm:"column:media_data;type:json" json:"media_data"`
	ParentID    uint64         `gorm:"column:parent_id;not null;default:0;index:idx_parent" json:"parent_id"`
	OriginalID  uint64         `gorm:"column:original_id;not null;default:0;index:idx_original" json:"original_id"`
	MentionIDs  datatypes.JSON `gorm:"column:mention_ids;type:json" json:"mention_ids"`
	ChannelID   uint64         `gorm:"column:channel_id;not null;default:0;index:idx_channel" json:"channel_id"`
	CountryCode string         `gorm:"column:country_code;type:varchar(8);not null;default:''" json:"country_code"`
	Deleted     bool           `gorm:"column:deleted;not null;default:0" json:"deleted"`
	CreatedAt   time.Time      `gorm:"column:created_at;index:idx_created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (s Status) TableName() string {
	return "statuses"
}
