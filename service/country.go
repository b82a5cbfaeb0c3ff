package service

import (
	"Plume/models"
	"Plume/pkg/log"
	"context"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

// CountryTable 国家统计的进程内查找表。
// 启动时整表加载，之后定期 Reload 覆盖，读路径无锁。
type CountryTable struct {
	CountryDAO CountryStore

	stats cmap.ConcurrentMap[string, *models.CountryStat]
}

func NewCountryTable(countryDAO CountryStore) *CountryTable {
	return &CountryTable{
		CountryDAO: countryDAO,
		stats:      cmap.New[*models.CountryStat](),
	}
}

// Load 全量加载国家统计
func (t *CountryTable) Load(ctx context.Context) error {
	rows, err := t.CountryDAO.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		t.stats.Set(row.Code, row)
	}
	log.L.Info("country table loaded", zap.Int("countries", len(rows)))
	return nil
}

// Reload 重新加载，覆盖写不需要清表
func (t *CountryTable) Reload(ctx context.Context) error {
	return t.Load(ctx)
}

func (t *CountryTable) Get(code string) (*models.CountryStat, bool) {
	return t.stats.Get(code)
}

// Codes 已知国家码列表
func (t *CountryTable) Codes() []string {
	return t.stats.Keys()
}
