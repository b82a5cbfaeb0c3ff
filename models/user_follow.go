package models

import "time"

// UserFollow 关注关系，status=1 生效。
// 互相关注即为好友(contact)，privacy=contacts 的可见性判断依赖该表。
type UserFollow struct {
	ID         uint64    `gorm:"column:id;primary_key;auto_increment" json:"id"`
	FollowerID uint64    `gorm:"column:follower_id;not null;index:idx_follower_followee,unique" json:"follower_id"`
	FolloweeID uint64    `gorm:"column:followee_id;not null;index:idx_follower_followee,unique" json:"followee_id"`
	Status     int       `gorm:"column:status;not null;default:1" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (u UserFollow) TableName() string {
	return "user_follow"
}
