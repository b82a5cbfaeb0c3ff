package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// 扇出推送的粉丝首页条目数
	fanoutPushTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plume_fanout_push_total",
			Help: "Total number of home timeline entries pushed on write",
		},
	)

	// 首页索引的缓存重建次数
	homeRebuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plume_home_rebuild_total",
			Help: "Total number of home timeline rebuilds",
		},
	)

	// 快照缓存未命中后回源的条数，按回源点位区分
	cacheMissTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plume_snapshot_miss_total",
			Help: "Total number of status snapshots refetched from the durable store",
		},
		[]string{"source"},
	)
)

func init() {
	// 注册指标到默认注册表
	prometheus.MustRegister(fanoutPushTotal)
	prometheus.MustRegister(homeRebuildTotal)
	prometheus.MustRegister(cacheMissTotal)
}
