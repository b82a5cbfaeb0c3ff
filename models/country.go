package models

import "time"

// CountryStat 按国家聚合的统计，启动时整表加载进内存查找表
type CountryStat struct {
	Code        string    `gorm:"column:code;type:varchar(8);primary_key" json:"code"`
	UserCount   uint32    `gorm:"column:user_count;not null;default:0" json:"user_count"`
	StatusCount uint32    `gorm:"column:status_count;not null;default:0" json:"status_count"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (c CountryStat) TableName() string {
	return "country_stats"
}
