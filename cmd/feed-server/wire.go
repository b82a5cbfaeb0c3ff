//go:build wireinject
// +build wireinject

package main

import (
	"Plume/config"
	"Plume/dao"
	"Plume/dao/cache"
	"Plume/handler"
	"Plume/pkg/client"
	"Plume/pkg/database"
	"Plume/pkg/rocketmq"
	"Plume/server"
	"Plume/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(

		client.NewRedisClient,
		database.NewDB,
		config.ProvideRocketMQConfig,
		rocketmq.InitProducer,
		rocketmq.InitConsumer,
		rocketmq.NewRocketmq,

		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Status), "*"),
		wire.Struct(new(handler.Timeline), "*"),
		wire.Struct(new(handler.Action), "*"),
		wire.Struct(new(handler.Channel), "*"),

		server.NewGinEngine,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil
}
