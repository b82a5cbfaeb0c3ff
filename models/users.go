package models

import "time"

const (
	UserStatusActive      = 1
	UserStatusDeactivated = 2
)

type Users struct {
	ID          uint64    `gorm:"column:id;primary_key" json:"id"`
	Nickname    string    `gorm:"column:nickname;type:varchar(64);not null;default:''" json:"nickname"`
	Status      int8      `gorm:"column:status;not null;default:1" json:"status"`
	CountryCode string    `gorm:"column:country_code;type:varchar(8);not null;default:''" json:"country_code"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (u Users) TableName() string {
	return "users"
}
