package dao

import (
	"Plume/models"
	"context"

	"gorm.io/gorm"
)

type CountryStatDAO struct {
	Repo[models.CountryStat]
}

func NewCountryStatDAO(db *gorm.DB) *CountryStatDAO {
	return &CountryStatDAO{Repo: NewRepo[models.CountryStat](db)}
}

// FindAll 整表加载，启动/重载时调用
func (d *CountryStatDAO) FindAll(ctx context.Context) ([]*models.CountryStat, error) {
	var stats []*models.CountryStat
	err := d.Db.WithContext(ctx).Find(&stats).Error
	return stats, err
}
