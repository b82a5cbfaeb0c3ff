//go:build wireinject

package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(StatusService), "*"),
	wire.Bind(new(IStatusService), new(*StatusService)),

	wire.Struct(new(TimelineService), "*"),
	wire.Bind(new(ITimelineService), new(*TimelineService)),

	wire.Struct(new(ActionService), "*"),
	wire.Bind(new(IActionService), new(*ActionService)),

	wire.Struct(new(ChannelService), "*"),
	wire.Bind(new(IChannelService), new(*ChannelService)),

	NewCountryTable,
	NewMQEventBus,
	wire.Bind(new(EventBus), new(*MQEventBus)),
	NewEventSubscriber,
)
