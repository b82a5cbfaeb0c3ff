//go:build wireinject

package dao

import (
	"Plume/dao/cache"
	"Plume/service"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUsers,
	NewStatusDAO,
	NewStatusStatsDAO,
	NewStatusActionDAO,
	NewUserFollowDAO,
	NewChannelDAO,
	NewCountryStatDAO,

	wire.Bind(new(cache.UserReader), new(*Users)),
	wire.Bind(new(cache.ChannelReader), new(*ChannelDAO)),

	wire.Bind(new(service.StatusStore), new(*StatusDAO)),
	wire.Bind(new(service.StatsStore), new(*StatusStatsDAO)),
	wire.Bind(new(service.ActionStore), new(*StatusActionDAO)),
	wire.Bind(new(service.FollowStore), new(*UserFollowDAO)),
	wire.Bind(new(service.UserStore), new(*Users)),
	wire.Bind(new(service.ChannelStore), new(*ChannelDAO)),
	wire.Bind(new(service.CountryStore), new(*CountryStatDAO)),
)
